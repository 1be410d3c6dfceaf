package metadata

import (
	"reflect"
	"sync"

	"github.com/dball/descriptors/internal/config"
	"github.com/dball/descriptors/internal/descriptors"
	"github.com/dball/descriptors/internal/fields"
	"github.com/dball/descriptors/internal/logging"
	"github.com/dball/descriptors/internal/sys"
	"github.com/dball/descriptors/internal/tracking"
	. "github.com/dball/descriptors/internal/types"
	"go.uber.org/zap"
)

type Config struct {
	// Policy is explicit or fallback. Explicit rejects attribute names with no
	// declared member; fallback binds them anonymously.
	Policy string
	// LogLevel applies when Logger is nil. The empty level disables logging.
	LogLevel string
	// TagOverrides replace tag renderings by ident, e.g. INDEX_DESCRIPTOR.
	TagOverrides map[string]string
	Logger       *zap.Logger
}

// LoadConfig reads the config file at the given path, if any, with
// DESCRIPTORS_ environment overrides.
func LoadConfig(path string) (cfg Config, err error) {
	loaded, err := config.Load(path)
	if err != nil {
		return
	}
	cfg = Config{
		Policy:       loaded.Binding.Policy,
		LogLevel:     loaded.Log.Level,
		TagOverrides: loaded.Tags.Overrides,
	}
	return
}

func NewMetadata(cfg Config) (md Metadata, err error) {
	policy, err := fields.ParsePolicy(cfg.Policy)
	if err != nil {
		return
	}
	tags := sys.DefaultTags()
	if len(cfg.TagOverrides) > 0 {
		tags, err = (&config.Config{Tags: config.TagsConfig{Overrides: cfg.TagOverrides}}).TagTable()
		if err != nil {
			return
		}
	}
	logger := cfg.Logger
	if logger == nil {
		if cfg.LogLevel == "" {
			logger = zap.NewNop()
		} else if logger, err = logging.New(cfg.LogLevel); err != nil {
			return
		}
	}
	factory := fields.NewFactory(fields.Config{Policy: policy, Logger: logger})
	md = &localMetadata{
		repo: descriptors.NewRepository(descriptors.Config{Factory: factory, Tags: tags, Logger: logger}),
	}
	return
}

// localMetadata serializes registration; reads after registration share the
// read lock.
type localMetadata struct {
	lock sync.RWMutex
	repo *descriptors.Repository
}

var _ Metadata = (*localMetadata)(nil)

func (md *localMetadata) Register(sample any) (class *Class, err error) {
	md.lock.Lock()
	defer md.lock.Unlock()
	desc, err := md.repo.Register(reflect.TypeOf(sample))
	if err != nil {
		return
	}
	class = md.wrap(desc)
	return
}

func (md *localMetadata) Class(sample any) (class *Class, ok bool) {
	md.lock.RLock()
	defer md.lock.RUnlock()
	desc, ok := md.repo.ClassFor(reflect.TypeOf(sample))
	if ok {
		class = md.wrap(desc)
	}
	return
}

func (md *localMetadata) wrap(desc *descriptors.ClassDescriptor) *Class {
	return &Class{desc: desc, tags: md.repo.Tags()}
}

func (md *localMetadata) Inherit(sub any, super any) (err error) {
	md.lock.Lock()
	defer md.lock.Unlock()
	subClass, ok := md.repo.ClassFor(reflect.TypeOf(sub))
	if !ok {
		err = NewError("metadata.unregisteredType", "type", reflect.TypeOf(sub))
		return
	}
	superClass, ok := md.repo.ClassFor(reflect.TypeOf(super))
	if !ok {
		err = NewError("metadata.unregisteredType", "type", reflect.TypeOf(super))
		return
	}
	return md.repo.Inherit(subClass.Ref(), superClass.Ref())
}

func (md *localMetadata) class(entity any) (class *descriptors.ClassDescriptor, err error) {
	md.lock.RLock()
	defer md.lock.RUnlock()
	class, ok := md.repo.ClassFor(reflect.TypeOf(entity))
	if !ok {
		err = NewError("metadata.unregisteredType", "type", reflect.TypeOf(entity))
	}
	return
}

func (md *localMetadata) field(entity any, attribute string) (field *descriptors.FieldDescriptor, err error) {
	class, err := md.class(entity)
	if err != nil {
		return
	}
	field, ok := class.Field(attribute)
	if !ok {
		err = NewError("metadata.unknownAttribute", "type", class.Type(), "attribute", attribute)
	}
	return
}

func (md *localMetadata) Get(entity any, attribute string) (value any, err error) {
	field, err := md.field(entity, attribute)
	if err != nil {
		return
	}
	return field.PersistentField().Get(entity)
}

func (md *localMetadata) Set(entity any, attribute string, value any) (err error) {
	field, err := md.field(entity, attribute)
	if err != nil {
		return
	}
	return field.PersistentField().Set(entity, value)
}

func (md *localMetadata) Snapshot(entity any) (snapshot Snapshot, err error) {
	class, err := md.class(entity)
	if err != nil {
		return
	}
	return tracking.Take(class, entity)
}

func (md *localMetadata) Changes(entity any, snapshot Snapshot) (changes []Change, err error) {
	class, err := md.class(entity)
	if err != nil {
		return
	}
	return tracking.Compare(class, snapshot, entity)
}

func (md *localMetadata) XML() string {
	md.lock.RLock()
	defer md.lock.RUnlock()
	return md.repo.ToXML()
}
