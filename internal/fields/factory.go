package fields

import (
	"reflect"
	"strings"
	"sync"

	. "github.com/dball/descriptors/internal/types"
	"go.uber.org/zap"
)

// Policy decides what resolution does when a name does not bind to a declared member.
type Policy int

const (
	// Explicit fails resolution for unknown names. Anonymous fields are only
	// created when asked for.
	Explicit Policy = iota
	// Fallback binds unknown names to anonymous fields.
	Fallback
)

func (policy Policy) String() string {
	switch policy {
	case Explicit:
		return "explicit"
	case Fallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name to a Policy. The empty name is Explicit.
func ParsePolicy(s string) (policy Policy, err error) {
	switch strings.ToLower(s) {
	case "", "explicit":
		policy = Explicit
	case "fallback":
		policy = Fallback
	default:
		err = NewError("fields.unknownPolicy", "policy", s)
	}
	return
}

type Config struct {
	// Policy applies to Resolve.
	Policy Policy
	// Storage keeps anonymous field values. Defaults to HolderStorage.
	Storage Storage
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

type fieldKey struct {
	typ       reflect.Type
	name      string
	anonymous bool
}

// Factory creates persistent fields and memoizes them per exact struct type
// and name. Factories are safe for concurrent use.
type Factory struct {
	policy  Policy
	storage Storage
	logger  *zap.Logger

	lock  sync.RWMutex
	cache map[fieldKey]PersistentField
}

func NewFactory(config Config) *Factory {
	storage := config.Storage
	if storage == nil {
		storage = HolderStorage{}
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		policy:  config.Policy,
		storage: storage,
		logger:  logger,
		cache:   make(map[fieldKey]PersistentField),
	}
}

// Policy returns the factory's resolution policy.
func (factory *Factory) Policy() Policy {
	return factory.policy
}

// Resolve binds the name to a declared member of the struct type, or to a
// member of an embedded struct. Pointer types resolve against their element
// type. Under the Fallback policy, unknown names bind to anonymous fields.
func (factory *Factory) Resolve(typ reflect.Type, name string) (field PersistentField, err error) {
	typ = structType(typ)
	key := fieldKey{typ: typ, name: name}
	if field = factory.cached(key); field != nil {
		return
	}
	field, err = NewReflectiveField(typ, name)
	if err != nil {
		if factory.policy == Fallback && IsCode(err, "fields.fieldNotFound") {
			factory.logger.Warn("binding unknown field anonymously",
				zap.Stringer("type", typ), zap.String("field", name))
			field = factory.Anonymous(typ, name)
			err = nil
		}
		return
	}
	factory.logger.Debug("resolved field", zap.Stringer("type", typ), zap.String("field", name))
	field = factory.store(key, field)
	return
}

// Anonymous binds the name to an anonymous field of the type. This never fails.
func (factory *Factory) Anonymous(typ reflect.Type, name string) (field PersistentField) {
	typ = structType(typ)
	key := fieldKey{typ: typ, name: name, anonymous: true}
	if field = factory.cached(key); field != nil {
		return
	}
	return factory.store(key, NewAnonymousField(typ, name, factory.storage))
}

func (factory *Factory) cached(key fieldKey) PersistentField {
	factory.lock.RLock()
	defer factory.lock.RUnlock()
	return factory.cache[key]
}

func (factory *Factory) store(key fieldKey, field PersistentField) PersistentField {
	factory.lock.Lock()
	defer factory.lock.Unlock()
	if extant, ok := factory.cache[key]; ok {
		return extant
	}
	factory.cache[key] = field
	return field
}

func structType(typ reflect.Type) reflect.Type {
	if typ != nil && typ.Kind() == reflect.Pointer {
		return typ.Elem()
	}
	return typ
}
