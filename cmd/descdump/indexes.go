package main

import (
	"fmt"

	"github.com/dball/descriptors/internal/config"
	"github.com/dball/descriptors/internal/descriptors"
	"github.com/dball/descriptors/internal/logging"
	. "github.com/dball/descriptors/internal/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type indexMapping struct {
	Indexes []indexSpec `mapstructure:"indexes"`
}

type indexSpec struct {
	Name    string   `mapstructure:"name"`
	Unique  bool     `mapstructure:"unique"`
	Columns []string `mapstructure:"columns"`
}

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes <mapping.yaml>",
		Short: "Render the index descriptors of a YAML mapping",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path)
			if err != nil {
				return
			}
			tags, err := cfg.TagTable()
			if err != nil {
				return
			}
			logger, err := logging.New(cfg.Log.Level)
			if err != nil {
				return
			}
			defer logger.Sync()

			indexes, err := loadIndexes(args[0])
			if err != nil {
				return
			}
			logger.Debug("loaded index mapping", zap.String("path", args[0]), zap.Int("indexes", len(indexes)))
			for _, idx := range indexes {
				fmt.Fprint(cmd.OutOrStdout(), idx.ToXML(tags))
			}
			return
		},
	}
}

func loadIndexes(path string) (indexes []*descriptors.IndexDescriptor, err error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err = v.ReadInConfig(); err != nil {
		err = NewError("descdump.unreadableMapping", "path", path, "error", err)
		return
	}
	var mapping indexMapping
	if err = v.Unmarshal(&mapping); err != nil {
		err = NewError("descdump.malformedMapping", "path", path, "error", err)
		return
	}
	for i, spec := range mapping.Indexes {
		if spec.Name == "" {
			err = NewError("descdump.unnamedIndex", "path", path, "position", i)
			return
		}
		indexes = append(indexes, descriptors.NewIndexDescriptor(spec.Name, spec.Unique, spec.Columns...))
	}
	return
}
