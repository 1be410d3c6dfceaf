package fields

import (
	"reflect"
	"sync"
	"testing"
	"time"

	. "github.com/dball/descriptors/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type address struct {
	Street string
	city   string
}

type audit struct {
	CreatedAt time.Time
	version   int
}

type person struct {
	audit
	ID       int64
	name     string
	Email    *string
	Home     *address
	Work     address
	Callback func()
	extra    map[string]any
}

func (p *person) AnonymousValue(name string) any {
	return p.extra[name]
}

func (p *person) SetAnonymousValue(name string, value any) {
	if p.extra == nil {
		p.extra = map[string]any{}
	}
	p.extra[name] = value
}

var personType = reflect.TypeOf(person{})

func TestReflectiveRoundTrip(t *testing.T) {
	epoch := time.Date(1969, 7, 20, 20, 17, 54, 0, time.UTC)
	email := "donald@example.com"
	cases := []struct {
		name  string
		value any
	}{
		{"ID", int64(23)},
		{"name", "Donald"},
		{"Email", &email},
		{"CreatedAt", epoch},
		{"version", 3},
		{"Work.Street", "1 Main"},
		{"Work.city", "Springfield"},
		{"Home.Street", "2 Elm"},
		{"Home.city", "Shelbyville"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			field, err := NewReflectiveField(personType, c.name)
			require.NoError(t, err)
			assert.Equal(t, c.name, field.Name())
			assert.Equal(t, personType, field.DeclaringType())
			p := &person{}
			require.NoError(t, field.Set(p, c.value))
			value, err := field.Get(p)
			require.NoError(t, err)
			assert.Equal(t, c.value, value)

			value, err = field.Get(*p)
			require.NoError(t, err)
			assert.Equal(t, c.value, value)
		})
	}
}

func TestReflectiveSetEffects(t *testing.T) {
	p := &person{}
	field, err := NewReflectiveField(personType, "Home.Street")
	require.NoError(t, err)

	value, err := field.Get(p)
	require.NoError(t, err)
	assert.Equal(t, "", value)
	assert.Nil(t, p.Home)

	require.NoError(t, field.Set(p, "2 Elm"))
	require.NotNil(t, p.Home)
	assert.Equal(t, "2 Elm", p.Home.Street)

	t.Run("conversion within a kind family", func(t *testing.T) {
		field, err := NewReflectiveField(personType, "ID")
		require.NoError(t, err)
		require.NoError(t, field.Set(p, 7))
		assert.Equal(t, int64(7), p.ID)
	})

	t.Run("nil sets zero", func(t *testing.T) {
		field, err := NewReflectiveField(personType, "name")
		require.NoError(t, err)
		p.name = "x"
		require.NoError(t, field.Set(p, nil))
		assert.Equal(t, "", p.name)
	})
}

type counter struct {
	Count int32
	Size  uint16
	Ratio float32
}

func TestReflectiveSetRejectsLoss(t *testing.T) {
	tests := []struct {
		name  string
		value any
	}{
		{"Count", int64(1<<40 + 5)},
		{"Count", uint64(1 << 31)},
		{"Size", -1},
		{"Size", 1 << 16},
		{"Ratio", 1e300},
	}
	for _, test := range tests {
		field, err := NewReflectiveField(reflect.TypeOf(counter{}), test.name)
		require.NoError(t, err)
		c := &counter{Count: 1, Size: 1, Ratio: 1}
		err = field.Set(c, test.value)
		assert.True(t, IsCode(err, "fields.wrongValueType"), "%s=%v", test.name, test.value)
		assert.Equal(t, counter{Count: 1, Size: 1, Ratio: 1}, *c)
	}

	c := &counter{}
	count, _ := NewReflectiveField(reflect.TypeOf(counter{}), "Count")
	require.NoError(t, count.Set(c, int64(-5)))
	size, _ := NewReflectiveField(reflect.TypeOf(counter{}), "Size")
	require.NoError(t, size.Set(c, uint64(65535)))
	ratio, _ := NewReflectiveField(reflect.TypeOf(counter{}), "Ratio")
	require.NoError(t, ratio.Set(c, 0.5))
	assert.Equal(t, counter{Count: -5, Size: 65535, Ratio: 0.5}, *c)
}

type employee struct {
	person
	Title string
}

type contractor struct {
	*person
	Agency string
}

type manager struct {
	employee
	Reports int
}

func TestReflectiveThroughEmbedding(t *testing.T) {
	name, err := NewReflectiveField(personType, "name")
	require.NoError(t, err)
	street, err := NewReflectiveField(personType, "Home.Street")
	require.NoError(t, err)

	t.Run("embedded value", func(t *testing.T) {
		e := &employee{person: person{name: "Donald"}}
		value, err := name.Get(e)
		require.NoError(t, err)
		assert.Equal(t, "Donald", value)
		value, err = name.Get(*e)
		require.NoError(t, err)
		assert.Equal(t, "Donald", value)

		require.NoError(t, street.Set(e, "2 Elm"))
		require.NotNil(t, e.Home)
		assert.Equal(t, "2 Elm", e.Home.Street)
	})

	t.Run("embedded pointer", func(t *testing.T) {
		c := &contractor{}
		value, err := name.Get(c)
		require.NoError(t, err)
		assert.Equal(t, "", value)
		assert.Nil(t, c.person)

		require.NoError(t, name.Set(c, "Stephen"))
		require.NotNil(t, c.person)
		assert.Equal(t, "Stephen", c.person.name)
	})

	t.Run("nested embedding", func(t *testing.T) {
		m := &manager{}
		require.NoError(t, name.Set(m, "Grace"))
		assert.Equal(t, "Grace", m.employee.person.name)
	})

	t.Run("unrelated target", func(t *testing.T) {
		_, err := name.Get(&address{})
		assert.True(t, IsCode(err, "fields.wrongTarget"))
	})
}

type twin struct {
	employee
	contractor
}

func TestEmbeddingPath(t *testing.T) {
	index, ok := EmbeddingPath(reflect.TypeOf(manager{}), personType)
	assert.True(t, ok)
	assert.Equal(t, []int{0, 0}, index)

	index, ok = EmbeddingPath(reflect.TypeOf(contractor{}), personType)
	assert.True(t, ok)
	assert.Equal(t, []int{0}, index)

	_, ok = EmbeddingPath(reflect.TypeOf(twin{}), personType)
	assert.False(t, ok)
	_, ok = EmbeddingPath(reflect.TypeOf(address{}), personType)
	assert.False(t, ok)
	_, ok = EmbeddingPath(reflect.TypeOf(0), personType)
	assert.False(t, ok)
}

func TestReflectiveErrors(t *testing.T) {
	_, err := NewReflectiveField(personType, "nickname")
	assert.True(t, IsCode(err, "fields.fieldNotFound"))

	_, err = NewReflectiveField(personType, "Work.zip")
	assert.True(t, IsCode(err, "fields.fieldNotFound"))

	_, err = NewReflectiveField(personType, "ID.value")
	assert.True(t, IsCode(err, "fields.notStruct"))

	_, err = NewReflectiveField(reflect.TypeOf(0), "ID")
	assert.True(t, IsCode(err, "fields.notStruct"))

	_, err = NewReflectiveField(personType, "Callback")
	assert.True(t, IsCode(err, "fields.notPersistent"))

	field, err := NewReflectiveField(personType, "ID")
	require.NoError(t, err)

	assert.True(t, IsCode(field.Set(person{}, int64(1)), "fields.unaddressableTarget"))
	assert.True(t, IsCode(field.Set((*person)(nil), int64(1)), "fields.nilTarget"))
	assert.True(t, IsCode(field.Set(&address{}, int64(1)), "fields.wrongTarget"))
	assert.True(t, IsCode(field.Set(&person{}, "1"), "fields.wrongValueType"))

	street, err := NewReflectiveField(personType, "Home.Street")
	require.NoError(t, err)
	p := &person{}
	assert.True(t, IsCode(street.Set(p, 1), "fields.wrongValueType"))
	assert.Nil(t, p.Home)
	_, err = field.Get(address{})
	assert.True(t, IsCode(err, "fields.wrongTarget"))
}

func TestAnonymous(t *testing.T) {
	field := NewAnonymousField(personType, "lock_version", nil)
	assert.Equal(t, "lock_version", field.Name())
	assert.Nil(t, field.Type())

	p := &person{}
	require.NoError(t, field.Set(p, 4))
	value, err := field.Get(p)
	require.NoError(t, err)
	assert.Equal(t, 4, value)

	_, err = field.Get(address{})
	assert.True(t, IsCode(err, "fields.noAnonymousStorage"))

	assert.Panics(t, func() { NewAnonymousField(personType, "", nil) })
}

type mapStorage struct {
	values map[string]any
}

func (storage *mapStorage) Load(target any, name string) (any, error) {
	return storage.values[name], nil
}

func (storage *mapStorage) Store(target any, name string, value any) error {
	storage.values[name] = value
	return nil
}

func TestFactory(t *testing.T) {
	t.Run("memoizes per exact type", func(t *testing.T) {
		factory := NewFactory(Config{})
		f1, err := factory.Resolve(personType, "ID")
		require.NoError(t, err)
		f2, err := factory.Resolve(reflect.PointerTo(personType), "ID")
		require.NoError(t, err)
		assert.Same(t, f1, f2)

		type employee struct {
			person
		}
		f3, err := factory.Resolve(reflect.TypeOf(employee{}), "ID")
		require.NoError(t, err)
		assert.NotSame(t, f1, f3)
		assert.Equal(t, reflect.TypeOf(employee{}), f3.DeclaringType())
	})

	t.Run("explicit policy fails unknown names", func(t *testing.T) {
		factory := NewFactory(Config{Policy: Explicit})
		_, err := factory.Resolve(personType, "lock_version")
		assert.True(t, IsCode(err, "fields.fieldNotFound"))

		field := factory.Anonymous(personType, "lock_version")
		assert.Equal(t, "lock_version", field.Name())
		assert.Nil(t, field.Type())
		assert.Same(t, field, factory.Anonymous(personType, "lock_version"))
	})

	t.Run("anonymous never binds a declared member", func(t *testing.T) {
		factory := NewFactory(Config{})
		field := factory.Anonymous(personType, "ID")
		assert.Nil(t, field.Type())
		resolved, err := factory.Resolve(personType, "ID")
		require.NoError(t, err)
		assert.NotSame(t, field, resolved)
	})

	t.Run("fallback policy binds unknown names anonymously", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		storage := &mapStorage{values: map[string]any{}}
		factory := NewFactory(Config{Policy: Fallback, Storage: storage, Logger: zap.New(core)})
		field, err := factory.Resolve(personType, "lock_version")
		require.NoError(t, err)
		assert.Nil(t, field.Type())
		require.NoError(t, field.Set(&person{}, 9))
		assert.Equal(t, 9, storage.values["lock_version"])
		assert.Equal(t, 1, logs.FilterMessage("binding unknown field anonymously").Len())

		_, err = factory.Resolve(reflect.TypeOf(0), "x")
		assert.True(t, IsCode(err, "fields.notStruct"))
	})

	t.Run("concurrent resolution", func(t *testing.T) {
		factory := NewFactory(Config{})
		var wg sync.WaitGroup
		results := make([]PersistentField, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = factory.Resolve(personType, "Email")
			}(i)
		}
		wg.Wait()
		for _, field := range results {
			assert.Same(t, results[0], field)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	policy, err := ParsePolicy("Fallback")
	assert.NoError(t, err)
	assert.Equal(t, Fallback, policy)
	policy, err = ParsePolicy("")
	assert.NoError(t, err)
	assert.Equal(t, Explicit, policy)
	_, err = ParsePolicy("guess")
	assert.True(t, IsCode(err, "fields.unknownPolicy"))
}
