package introspect

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/funcli/internal/typeexpr"
)

func TestFlatten(t *testing.T) {
	testCases := []struct {
		annotation string
		expected   TypeSet
	}{
		// Base types
		{"string", NewTypeSet("string")},
		{"int", NewTypeSet("int")},
		{"bool", NewTypeSet("bool")},
		{"float", NewTypeSet("float")},
		// Unions
		{"union(string, int, null)", NewTypeSet("string", "int", "null")},
		{"union(int, union(string, url))", NewTypeSet("int", "string", "url")},
		// Tuples
		{"tuple(union(string, int))", NewTypeSet("tuple")},
		{"optional(tuple(union(string, int)))", NewTypeSet("tuple", "null")},
		// Lists
		{"list(union(string, int))", NewTypeSet("list")},
		{"optional(list(union(string, int)))", NewTypeSet("list", "null")},
		// Sets
		{"set(union(string, int))", NewTypeSet("set")},
		{"optional(set(union(string, int)))", NewTypeSet("set", "null")},
		// Maps
		{"map(string, int)", NewTypeSet("map")},
		{"optional(map(string, int))", NewTypeSet("map", "null")},
		{"object(string)", NewTypeSet("object")},
		// Bare containers
		{"list", NewTypeSet("list")},
		{"optional(set)", NewTypeSet("set", "null")},
		{"map", NewTypeSet("map")},
	}

	for _, tc := range testCases {
		t.Run(tc.annotation, func(t *testing.T) {
			got := Flatten(typeexpr.MustParse(tc.annotation))
			if diff := cmp.Diff(tc.expected, got); diff != "" {
				t.Errorf("TypeSet mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFlatten_NilIsAny(t *testing.T) {
	assert.Equal(t, NewTypeSet("any"), Flatten(nil))
}

func TestTypeSet_OrderIndependent(t *testing.T) {
	a := NewTypeSet("url", "path", "null", "url")
	b := NewTypeSet("null", "path", "url")

	assert.Equal(t, a, b)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Has("null"))
	assert.True(t, a.Has("path"))
	assert.False(t, a.Has("string"))
	assert.Equal(t, "{path, url, null}", a.String())
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		name      string
		types     TypeSet
		expected  Shape
		expectErr bool
	}{
		// Base types
		{name: "string", types: NewTypeSet("string"), expected: ShapeSingle},
		{name: "int", types: NewTypeSet("int"), expected: ShapeSingle},
		{name: "bool", types: NewTypeSet("bool"), expected: ShapeSingle},
		{name: "float", types: NewTypeSet("float"), expected: ShapeSingle},
		// Unions
		{name: "scalar union", types: NewTypeSet("string", "int", "null"), expected: ShapeSingle},
		{name: "null only", types: NewTypeSet("null"), expected: ShapeSingle},
		// Collections
		{name: "tuple", types: NewTypeSet("tuple"), expected: ShapeRepeated},
		{name: "tuple nullable", types: NewTypeSet("tuple", "null"), expected: ShapeRepeated},
		{name: "list", types: NewTypeSet("list"), expected: ShapeRepeated},
		{name: "list nullable", types: NewTypeSet("list", "null"), expected: ShapeRepeated},
		{name: "set", types: NewTypeSet("set"), expected: ShapeRepeated},
		{name: "set nullable", types: NewTypeSet("set", "null"), expected: ShapeRepeated},
		{name: "list or set", types: NewTypeSet("list", "set"), expected: ShapeRepeated},
		{name: "map", types: NewTypeSet("map"), expected: ShapeRepeatedPair},
		{name: "map nullable", types: NewTypeSet("map", "null"), expected: ShapeRepeatedPair},
		{name: "object", types: NewTypeSet("object"), expected: ShapeRepeatedPair},
		{name: "map or object", types: NewTypeSet("map", "object", "null"), expected: ShapeRepeatedPair},
		// Ambiguous
		{name: "list or string", types: NewTypeSet("list", "string"), expectErr: true},
		{name: "map or int", types: NewTypeSet("map", "int", "null"), expectErr: true},
		{name: "list or map", types: NewTypeSet("list", "map"), expectErr: true},
		{name: "object or string", types: NewTypeSet("object", "string"), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			shape, err := Classify(tc.types)

			if tc.expectErr {
				require.ErrorIs(t, err, ErrAmbiguousShape)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, shape, "got %s", shape)
		})
	}
}

func TestDeriveSpecs(t *testing.T) {
	params := []Parameter{
		{Name: "a", Type: typeexpr.MustParse("string")},
		{Name: "b", Type: typeexpr.MustParse("int"), HasDefault: true, Default: 9000},
		{Name: "dry_run", Type: typeexpr.MustParse("bool"), HasDefault: true, Default: false, Description: "do nothing"},
		{Name: "names", Type: typeexpr.MustParse("optional(list(string))"), HasDefault: true, Default: nil},
		{Name: "genders", Type: typeexpr.MustParse("map(string)")},
		{Name: "anything"},
	}

	specs, err := DeriveSpecs(context.Background(), params)
	require.NoError(t, err)
	require.Len(t, specs, len(params))

	expected := []ParameterSpec{
		{Name: "a", Flag: "--a", Annotation: typeexpr.Scalar("string"), Types: NewTypeSet("string"), Shape: ShapeSingle},
		{Name: "b", Flag: "--b", Annotation: typeexpr.Scalar("int"), HasDefault: true, Default: 9000, Types: NewTypeSet("int"), Shape: ShapeSingle},
		{Name: "dry_run", Flag: "--dry-run", Annotation: typeexpr.Scalar("bool"), HasDefault: true, Default: false, Description: "do nothing", Types: NewTypeSet("bool"), Shape: ShapeSingle},
		{Name: "names", Flag: "--names", Annotation: typeexpr.Optional(typeexpr.List(typeexpr.Scalar("string"))), HasDefault: true, Types: NewTypeSet("list", "null"), Shape: ShapeRepeated},
		{Name: "genders", Flag: "--genders", Annotation: typeexpr.Map(typeexpr.Scalar("string")), Types: NewTypeSet("map"), Shape: ShapeRepeatedPair},
		{Name: "anything", Flag: "--anything", Annotation: typeexpr.Scalar("any"), Types: NewTypeSet("any"), Shape: ShapeSingle},
	}
	if diff := cmp.Diff(expected, specs); diff != "" {
		t.Errorf("ParameterSpec mismatch (-want +got):\n%s", diff)
	}

	assert.True(t, specs[0].Required())
	assert.False(t, specs[1].Required())
	assert.False(t, specs[3].Required(), "a nil default still counts as a default")
}

func TestDeriveSpecs_Idempotent(t *testing.T) {
	params := []Parameter{
		{Name: "loc", Type: typeexpr.MustParse("union(url, path)")},
		{Name: "tags", Type: typeexpr.MustParse("optional(set(string))"), HasDefault: true},
	}

	first, err := DeriveSpecs(context.Background(), params)
	require.NoError(t, err)
	second, err := DeriveSpecs(context.Background(), params)
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("derivation is not idempotent (-first +second):\n%s", diff)
	}
}

func TestDeriveSpecs_Errors(t *testing.T) {
	testCases := []struct {
		name     string
		params   []Parameter
		expected error
	}{
		{
			name:     "mixed collection and scalar",
			params:   []Parameter{{Name: "x", Type: typeexpr.MustParse("union(list(string), int)")}},
			expected: ErrAmbiguousShape,
		},
		{
			name:     "empty name",
			params:   []Parameter{{Name: "", Type: typeexpr.MustParse("string")}},
			expected: ErrInvalidParameter,
		},
		{
			name:     "name with leading dash",
			params:   []Parameter{{Name: "-x", Type: typeexpr.MustParse("string")}},
			expected: ErrInvalidParameter,
		},
		{
			name:     "reserved help",
			params:   []Parameter{{Name: "help", Type: typeexpr.MustParse("bool")}},
			expected: ErrInvalidParameter,
		},
		{
			name: "flag collision",
			params: []Parameter{
				{Name: "dry_run", Type: typeexpr.MustParse("bool")},
				{Name: "dry-run", Type: typeexpr.MustParse("bool")},
			},
			expected: ErrInvalidParameter,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			specs, err := DeriveSpecs(context.Background(), tc.params)
			require.ErrorIs(t, err, tc.expected)
			require.Nil(t, specs)
		})
	}
}

func TestFlagName(t *testing.T) {
	assert.Equal(t, "--dry-run", FlagName("dry_run"))
	assert.Equal(t, "--a", FlagName("a"))
	assert.Equal(t, "--a-b-c", FlagName("a_b_c"))
}
