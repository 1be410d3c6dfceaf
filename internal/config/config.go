// Package config loads the descriptor layer's settings from an optional YAML
// file and DESCRIPTORS_ environment variables.
package config

import (
	"errors"
	"strings"

	"github.com/dball/descriptors/internal/fields"
	"github.com/dball/descriptors/internal/sys"
	. "github.com/dball/descriptors/internal/types"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables, e.g. DESCRIPTORS_BINDING_POLICY.
const EnvPrefix = "DESCRIPTORS"

type Config struct {
	Binding BindingConfig `mapstructure:"binding"`
	Log     LogConfig     `mapstructure:"log"`
	Tags    TagsConfig    `mapstructure:"tags"`
}

type BindingConfig struct {
	// Policy is explicit or fallback.
	Policy string `mapstructure:"policy"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TagsConfig struct {
	// Overrides maps tag idents, e.g. INDEX_DESCRIPTOR, to replacement text.
	Overrides map[string]string `mapstructure:"overrides"`
}

// Load reads the config file at the given path, if any. An empty path reads
// descriptors.yaml from the working directory when present.
func Load(path string) (config *Config, err error) {
	v := viper.New()

	v.SetDefault("binding.policy", fields.Explicit.String())
	v.SetDefault("log.level", "info")
	v.SetDefault("tags.overrides", map[string]string{})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("descriptors")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			err = NewError("config.unreadable", "path", path, "error", err)
			return
		}
		err = nil
	}

	var loaded Config
	if err = v.Unmarshal(&loaded); err != nil {
		err = NewError("config.malformed", "path", path, "error", err)
		return
	}
	if err = loaded.validate(); err != nil {
		return
	}
	config = &loaded
	return
}

func (config *Config) validate() (err error) {
	if _, err = config.Policy(); err != nil {
		return
	}
	_, err = config.TagTable()
	return
}

// Policy returns the configured binding policy.
func (config *Config) Policy() (fields.Policy, error) {
	return fields.ParsePolicy(config.Binding.Policy)
}

// TagTable returns the default tags with the configured overrides applied.
// Viper lowercases keys, so override idents are matched case-insensitively.
func (config *Config) TagTable() (tags *sys.Tags, err error) {
	overrides := make(map[string]string, len(config.Tags.Overrides))
	for ident, text := range config.Tags.Overrides {
		overrides[strings.ToUpper(ident)] = text
	}
	return sys.DefaultTags().WithOverrides(overrides)
}
