package descriptors

import (
	"reflect"
	"strings"

	"github.com/dball/descriptors/internal/fields"
	"github.com/dball/descriptors/internal/fieldtypes"
	"github.com/dball/descriptors/internal/structs/models"
	"github.com/dball/descriptors/internal/sys"
	. "github.com/dball/descriptors/internal/types"
	"go.uber.org/zap"
)

type Config struct {
	Factory    *fields.Factory
	FieldTypes *fieldtypes.Registry
	Tags       *sys.Tags
	Logger     *zap.Logger
}

// Repository owns the class descriptors and resolves class refs.
type Repository struct {
	factory    *fields.Factory
	fieldTypes *fieldtypes.Registry
	tags       *sys.Tags
	logger     *zap.Logger

	classes []*ClassDescriptor
	byType  map[reflect.Type]ClassRef
}

// NewRepository returns an empty repository. Missing dependencies get defaults.
func NewRepository(config Config) *Repository {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	factory := config.Factory
	if factory == nil {
		factory = fields.NewFactory(fields.Config{Logger: logger})
	}
	fieldTypes := config.FieldTypes
	if fieldTypes == nil {
		fieldTypes = fieldtypes.NewRegistry()
	}
	tags := config.Tags
	if tags == nil {
		tags = sys.DefaultTags()
	}
	return &Repository{
		factory:    factory,
		fieldTypes: fieldTypes,
		tags:       tags,
		logger:     logger,
		byType:     make(map[reflect.Type]ClassRef),
	}
}

func (repo *Repository) Factory() *fields.Factory {
	return repo.factory
}

func (repo *Repository) Tags() *sys.Tags {
	return repo.tags
}

// Class resolves the class ref.
func (repo *Repository) Class(ref ClassRef) (class *ClassDescriptor, ok bool) {
	i := int(ref) - 1
	if i < 0 || i >= len(repo.classes) {
		return
	}
	return repo.classes[i], true
}

// ClassFor returns the class descriptor of the struct type, if registered.
func (repo *Repository) ClassFor(typ reflect.Type) (class *ClassDescriptor, ok bool) {
	if typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	ref, ok := repo.byType[typ]
	if !ok {
		return
	}
	return repo.Class(ref)
}

// Classes returns the class descriptors in registration order.
func (repo *Repository) Classes() []*ClassDescriptor {
	return repo.classes
}

// Register analyzes the struct type's tags and adds its class descriptor. A
// type is registered once; later calls return the extant descriptor. If any
// field fails to bind, nothing is registered for the type.
func (repo *Repository) Register(typ reflect.Type) (class *ClassDescriptor, err error) {
	if class, ok := repo.ClassFor(typ); ok {
		return class, nil
	}
	model, err := models.Analyze(typ)
	if err != nil {
		return
	}
	ref := ClassRef(len(repo.classes) + 1)
	candidate := &ClassDescriptor{ref: ref, typ: model.Type, table: model.Table}
	for _, fm := range model.Fields {
		var attr Attribute
		if fm.Anonymous {
			attr = NewAnonymousFieldDescriptor(ref, repo.factory)
		} else {
			attr = NewAttributeDescriptor(ref, repo.factory)
		}
		if err = attr.SetPersistentFieldByName(model.Type, fm.Name); err != nil {
			repo.logger.Error("class registration aborted",
				zap.Stringer("type", model.Type), zap.String("field", fm.Name), zap.Error(err))
			return
		}
		var fieldType fieldtypes.FieldType
		if fieldType, err = repo.fieldType(fm); err != nil {
			repo.logger.Error("class registration aborted",
				zap.Stringer("type", model.Type), zap.String("field", fm.Name), zap.Error(err))
			return
		}
		field := NewFieldDescriptor(attr, fm.Column, fieldType)
		field.SetPrimaryKey(fm.PrimaryKey)
		candidate.AddField(field)
	}
	for _, im := range model.Indexes {
		candidate.AddIndex(NewIndexDescriptor(im.Name, im.Unique, im.Columns...))
	}
	repo.classes = append(repo.classes, candidate)
	repo.byType[model.Type] = ref
	repo.logger.Info("registered class",
		zap.Stringer("type", model.Type), zap.String("table", model.Table),
		zap.Int("fields", len(candidate.fields)), zap.Int("indexes", len(candidate.indexes)))
	class = candidate
	return
}

// fieldType returns a field type for the column. Anonymous fields have no go
// type, so their kind follows the declared SQL type, or Object if none.
func (repo *Repository) fieldType(fm models.FieldModel) (typ fieldtypes.FieldType, err error) {
	switch {
	case fm.Typed && fm.Anonymous:
		typ = repo.fieldTypes.ForJdbcType(fm.JdbcType)
		return
	case fm.Anonymous:
		return repo.fieldTypes.Column(fieldtypes.Object)
	}
	if typ, err = repo.fieldTypes.Column(fieldtypes.KindForGoType(fm.FieldType)); err != nil {
		return
	}
	if fm.Typed {
		typ.SetSQLType(fm.JdbcType)
	}
	return
}

// Inherit copies the super class's field descriptors that the sub class does
// not declare into the sub class, reassigning their owner. The copies keep
// their field bindings, which read the super class's struct embedded in the
// sub class's, so the sub class must embed the super class.
func (repo *Repository) Inherit(sub ClassRef, super ClassRef) (err error) {
	subClass, ok := repo.Class(sub)
	if !ok {
		err = NewError("descriptors.unknownClass", "ref", sub)
		return
	}
	superClass, ok := repo.Class(super)
	if !ok {
		err = NewError("descriptors.unknownClass", "ref", super)
		return
	}
	if sub == super {
		err = NewError("descriptors.selfInheritance", "ref", sub)
		return
	}
	if _, embeds := fields.EmbeddingPath(subClass.typ, superClass.typ); !embeds {
		err = NewError("descriptors.notEmbedded", "sub", subClass.typ, "super", superClass.typ)
		return
	}
	for _, field := range superClass.fields {
		if _, extant := subClass.Field(field.AttributeName()); extant {
			continue
		}
		subClass.AddField(field.Clone())
	}
	subClass.super = super
	return
}

// ToXML renders every class descriptor in registration order.
func (repo *Repository) ToXML() string {
	var b strings.Builder
	for _, class := range repo.classes {
		b.WriteString(class.ToXML(repo.tags))
	}
	return b.String()
}
