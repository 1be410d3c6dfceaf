package fieldtypes

import (
	"math"
	"math/big"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/dball/descriptors/internal/sys"
	. "github.com/dball/descriptors/internal/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyEqualsRoundTrip(t *testing.T) {
	registry := NewRegistry()
	epoch := time.Date(1969, 7, 20, 20, 17, 54, 0, time.UTC)
	cases := []struct {
		kind  Kind
		value any
	}{
		{String, "Donald"},
		{Int, int64(48)},
		{Int, 48},
		{Int32, int32(7)},
		{Float, 3.5},
		{Float, math.NaN()},
		{Bool, true},
		{Time, epoch},
		{UUID, uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{Bytes, []byte("blob")},
		{BigInt, big.NewInt(1 << 40)},
		{Decimal, big.NewRat(314, 100)},
		{Object, map[string]any{"tags": []any{"a", "b"}}},
	}
	for _, c := range cases {
		typ, ok := registry.Get(c.kind)
		require.True(t, ok)
		t.Run(c.kind.String(), func(t *testing.T) {
			assert.True(t, typ.Equals(c.value, typ.Copy(c.value)))
			assert.True(t, typ.Equals(c.value, c.value))
		})
	}
}

func TestNils(t *testing.T) {
	registry := NewRegistry()
	for _, kind := range registry.Kinds() {
		typ, _ := registry.Get(kind)
		t.Run(kind.String(), func(t *testing.T) {
			assert.Nil(t, typ.Copy(nil))
			assert.True(t, typ.Equals(nil, nil))
			assert.False(t, typ.Equals(nil, "x"))
			assert.False(t, typ.Equals("x", nil))
		})
	}

	t.Run("typed nils", func(t *testing.T) {
		typ, _ := registry.Get(Bytes)
		assert.True(t, typ.Equals([]byte(nil), nil))
		assert.False(t, typ.Equals([]byte(nil), []byte{}))
		stringType, _ := registry.Get(String)
		var s *string
		assert.True(t, stringType.Equals(s, nil))
	})
}

func TestMutability(t *testing.T) {
	registry := NewRegistry()
	mutable := map[Kind]bool{
		String: false, Int: false, Int32: false, Float: false, Bool: false, Time: false, UUID: false,
		Bytes: true, BigInt: true, Decimal: true, Object: true,
	}
	for kind, expected := range mutable {
		typ, _ := registry.Get(kind)
		assert.Equal(t, expected, typ.IsMutable(), kind.String())
		typ.SetSQLType(sys.Blob)
		assert.Equal(t, expected, typ.IsMutable(), kind.String())
	}
}

func TestMutableCopiesAreIndependent(t *testing.T) {
	registry := NewRegistry()

	t.Run("bytes", func(t *testing.T) {
		typ, _ := registry.Get(Bytes)
		original := []byte("abc")
		copied := typ.Copy(original).([]byte)
		copied[0] = 'z'
		assert.Equal(t, []byte("abc"), original)
		assert.False(t, typ.Equals(original, copied))
		original[1] = 'y'
		assert.Equal(t, []byte("zbc"), copied)
	})

	t.Run("bigint", func(t *testing.T) {
		typ, _ := registry.Get(BigInt)
		original := big.NewInt(10)
		copied := typ.Copy(original).(*big.Int)
		copied.Add(copied, big.NewInt(1))
		assert.Equal(t, int64(10), original.Int64())
	})

	t.Run("decimal", func(t *testing.T) {
		typ, _ := registry.Get(Decimal)
		original := big.NewRat(1, 3)
		copied := typ.Copy(original).(*big.Rat)
		assert.NotSame(t, original, copied)
		copied.Add(copied, big.NewRat(1, 3))
		assert.Equal(t, "1/3", original.String())
		assert.True(t, typ.Equals(big.NewRat(2, 6), original))
	})

	t.Run("object", func(t *testing.T) {
		type address struct {
			Lines []string
			Meta  map[string]int
		}
		typ, _ := registry.Get(Object)
		original := &address{Lines: []string{"1 Main"}, Meta: map[string]int{"floor": 2}}
		copied := typ.Copy(original).(*address)
		copied.Lines[0] = "2 Main"
		copied.Meta["floor"] = 3
		assert.Equal(t, "1 Main", original.Lines[0])
		assert.Equal(t, 2, original.Meta["floor"])
		assert.False(t, typ.Equals(original, copied))
	})
}

func TestImmutableCopies(t *testing.T) {
	registry := NewRegistry()
	typ, _ := registry.Get(String)
	assert.Equal(t, "x", typ.Copy("x"))

	s := "x"
	copied := typ.Copy(&s).(*string)
	assert.NotSame(t, &s, copied)
	*copied = "y"
	assert.Equal(t, "x", s)
}

func TestEqualsByValue(t *testing.T) {
	registry := NewRegistry()

	t.Run("instants in different zones", func(t *testing.T) {
		typ, _ := registry.Get(Time)
		utc := time.Date(2020, 1, 1, 12, 0, 0, 0, time.UTC)
		est := utc.In(time.FixedZone("EST", -5*3600))
		assert.True(t, typ.Equals(utc, est))
		assert.True(t, typ.Equals(&utc, est))
		assert.False(t, typ.Equals(utc, utc.Add(time.Second)))
	})

	t.Run("integer widths", func(t *testing.T) {
		typ, _ := registry.Get(Int)
		assert.True(t, typ.Equals(48, int64(48)))
		assert.True(t, typ.Equals(uint8(48), int32(48)))
		assert.False(t, typ.Equals(48, 49))
		assert.False(t, typ.Equals(48, "48"))
	})

	t.Run("integers outside the domain keep their value", func(t *testing.T) {
		int32Type, _ := registry.Get(Int32)
		assert.False(t, int32Type.Equals(int(1<<32), int(0)))
		assert.False(t, int32Type.Equals(int64(1<<32+7), int32(7)))
		assert.True(t, int32Type.Equals(int(1<<32), int(1<<32)))
		assert.True(t, int32Type.Equals(int(-7), int32(-7)))

		intType, _ := registry.Get(Int)
		assert.False(t, intType.Equals(uint64(math.MaxUint64), int64(-1)))
		assert.True(t, intType.Equals(uint64(math.MaxUint64), uint64(math.MaxUint64)))
		assert.True(t, intType.Equals(uint64(12), int64(12)))
	})

	t.Run("symmetric", func(t *testing.T) {
		typ, _ := registry.Get(Float)
		assert.Equal(t, typ.Equals(1.5, float32(1.5)), typ.Equals(float32(1.5), 1.5))
	})
}

type callbacks struct {
	Ratio   float64
	OnSave  func()
	Weights map[string]float64
}

func onSave() {}

func TestObjectEqualsIsReflexive(t *testing.T) {
	typ, err := New(Object)
	require.NoError(t, err)
	values := []any{
		callbacks{Ratio: math.NaN(), OnSave: onSave, Weights: map[string]float64{"a": math.NaN()}},
		[]float64{1, math.NaN()},
		&callbacks{OnSave: onSave},
		map[string]any{"nested": []any{math.NaN(), "x"}},
	}
	for _, value := range values {
		assert.True(t, typ.Equals(value, value), "%#v", value)
		assert.True(t, typ.Equals(value, typ.Copy(value)), "%#v", value)
	}
	assert.False(t, typ.Equals(callbacks{OnSave: onSave}, callbacks{}))
	assert.False(t, typ.Equals([]float64{1, math.NaN()}, []float64{1, 2}))
	assert.False(t, typ.Equals(map[string]int{"a": 1}, map[string]int{"a": 2}))
	assert.False(t, typ.Equals([]int{1}, []int64{1}))
}

func TestColumnTypes(t *testing.T) {
	registry := NewRegistry()
	shared, _ := registry.Get(String)
	shared.SetSQLType(sys.Clob)

	first, err := registry.Column(String)
	require.NoError(t, err)
	second, err := registry.Column(String)
	require.NoError(t, err)
	assert.Equal(t, sys.Clob, first.SQLType())
	first.SetSQLType(sys.Char)
	assert.Equal(t, sys.Clob, second.SQLType())
	assert.Equal(t, sys.Clob, shared.SQLType())

	_, err = registry.Column(Kind(99))
	assert.True(t, IsCode(err, "fieldtypes.unknownKind"))
}

func TestSQLType(t *testing.T) {
	registry := NewRegistry()
	typ := registry.ForJdbcType(sys.Varchar)
	assert.Equal(t, String, typ.Kind())
	assert.Equal(t, sys.Varchar, typ.SQLType())
	typ.SetSQLType(sys.Char)
	assert.Equal(t, sys.Char, typ.SQLType())

	shared, _ := registry.Get(String)
	assert.Equal(t, sys.Varchar, shared.SQLType())

	assert.Equal(t, Time, registry.ForJdbcType(sys.Date).Kind())
	assert.Equal(t, Bytes, registry.ForJdbcType(sys.Blob).Kind())
	assert.Equal(t, Object, registry.ForJdbcType(JdbcType(-999)).Kind())
}

func TestKindForGoType(t *testing.T) {
	var s *string
	assert.Equal(t, String, KindForGoType(reflect.TypeOf(s)))
	assert.Equal(t, Int, KindForGoType(reflect.TypeOf(0)))
	assert.Equal(t, Int32, KindForGoType(reflect.TypeOf(int16(0))))
	assert.Equal(t, Time, KindForGoType(TimeType))
	assert.Equal(t, Bytes, KindForGoType(BytesType))
	assert.Equal(t, BigInt, KindForGoType(reflect.TypeOf(big.NewInt(0))))
	assert.Equal(t, Decimal, KindForGoType(reflect.TypeOf(big.NewRat(1, 2))))
	assert.Equal(t, UUID, KindForGoType(reflect.TypeOf(uuid.UUID{})))
	assert.Equal(t, Object, KindForGoType(reflect.TypeOf(map[string]int{})))
	assert.Equal(t, Object, KindForGoType(nil))
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("decimal")
	assert.NoError(t, err)
	assert.Equal(t, Decimal, kind)
	_, err = ParseKind("money")
	assert.True(t, IsCode(err, "fieldtypes.unknownKind"))
	_, err = New(Kind(0))
	assert.True(t, IsCode(err, "fieldtypes.unknownKind"))
}

func TestConcurrentReads(t *testing.T) {
	registry := NewRegistry()
	typ, _ := registry.Get(Bytes)
	original := []byte("shared")
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				copied := typ.Copy(original)
				assert.True(t, typ.Equals(original, copied))
			}
		}()
	}
	wg.Wait()
}
