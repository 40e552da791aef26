package funcli

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"os"
	"reflect"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/funcli/internal/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// Struct tags understood by ParseStruct.
const (
	tagName    = "funcli"
	tagType    = "type"
	tagDefault = "default"
	tagHelp    = "help"
)

// ErrInvalidTarget is returned when ParseStruct is not given a non-nil
// pointer to a struct, or when a tagged field cannot be described.
var ErrInvalidTarget = errors.New("invalid struct target")

var (
	urlType  = reflect.TypeOf((*url.URL)(nil))
	pathType = reflect.TypeOf(Path(""))
	setType  = reflect.TypeOf(Set(nil))
)

type structField struct {
	index []int
	param Parameter
}

// ParseStruct binds tokens into the fields of the struct dst points to.
//
// Only exported fields tagged `funcli:"name"` become parameters, in
// declaration order; untagged embedded structs are searched too. The type
// is taken from a `type:"..."` tag or inferred from the Go type. A
// `default:"..."` tag holds an HCL literal such as `9000`, `["a", "b"]` or
// `null`; text that is not a literal is taken as a plain string. Without a
// default tag, a non-zero field value is the default and a nil pointer
// defaults to null. Every other field is required.
func ParseStruct(dst any, tokens []string, opts Options) error {
	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: expected a non-nil pointer to a struct, got %T", ErrInvalidTarget, dst)
	}
	target = target.Elem()

	fields, err := structFields(target, nil)
	if err != nil {
		return err
	}

	params := make([]Parameter, len(fields))
	for i, f := range fields {
		params[i] = f.param
	}

	bound, err := Parse(params, tokens, opts)
	if err != nil {
		return err
	}

	for _, f := range fields {
		if err := assign(target.FieldByIndex(f.index), bound[f.param.Name]); err != nil {
			return fmt.Errorf("parameter %q: %w", f.param.Name, err)
		}
	}
	return nil
}

// MainStruct binds the process arguments into dst, calls fn and exits. It
// never returns.
func MainStruct(prog string, dst any, fn func() error) {
	opts := Options{Prog: prog}
	err := ParseStruct(dst, os.Args[1:], opts)
	if err == nil {
		err = fn()
	}
	os.Exit(report(err, opts))
}

func structFields(v reflect.Value, parent []int) ([]structField, error) {
	t := v.Type()
	var fields []structField

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int(nil), parent...), i)

		name, tagged := sf.Tag.Lookup(tagName)
		if !tagged {
			if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
				nested, err := structFields(v.Field(i), index)
				if err != nil {
					return nil, err
				}
				fields = append(fields, nested...)
			}
			continue
		}
		if name == "-" {
			continue
		}
		if !sf.IsExported() {
			return nil, fmt.Errorf("%w: field %s is tagged but not exported", ErrInvalidTarget, sf.Name)
		}
		if name == "" {
			name = sf.Name
		}

		param, err := fieldParameter(name, sf, v.Field(i))
		if err != nil {
			return nil, fmt.Errorf("%w: field %s: %v", ErrInvalidTarget, sf.Name, err)
		}
		fields = append(fields, structField{index: index, param: param})
	}
	return fields, nil
}

func fieldParameter(name string, sf reflect.StructField, current reflect.Value) (Parameter, error) {
	param := Parameter{Name: name, Description: sf.Tag.Get(tagHelp)}

	var err error
	if src, ok := sf.Tag.Lookup(tagType); ok {
		param.Type, err = typeexpr.Parse(src)
	} else {
		param.Type, err = inferType(sf.Type)
	}
	if err != nil {
		return param, err
	}

	switch src, ok := sf.Tag.Lookup(tagDefault); {
	case ok:
		val, err := parseDefault(src)
		if err != nil {
			return param, err
		}
		param.HasDefault = true
		if !val.IsNull() {
			param.Default = val
		}
	case sf.Type.Kind() == reflect.Pointer && current.IsNil() && param.Type.Nullable():
		param.HasDefault = true
	case !current.IsZero():
		param.HasDefault = true
		param.Default = current.Interface()
	}
	return param, nil
}

// parseDefault evaluates a default tag as an HCL literal, falling back to
// the raw text as a string.
func parseDefault(src string) (cty.Value, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), tagDefault, hcl.InitialPos)
	if !diags.HasErrors() {
		val, valDiags := expr.Value(nil)
		if !valDiags.HasErrors() {
			return val, nil
		}
		if _, isTraversal := expr.(*hclsyntax.ScopeTraversalExpr); !isTraversal {
			return cty.NilVal, fmt.Errorf("invalid default %q: %w", src, valDiags)
		}
	}
	return cty.StringVal(src), nil
}

// inferType describes a Go type as a type expression.
func inferType(t reflect.Type) (*Type, error) {
	switch t {
	case urlType:
		return typeexpr.Scalar(typeexpr.NameURL), nil
	case pathType:
		return typeexpr.Scalar(typeexpr.NamePath), nil
	case setType:
		return typeexpr.Set(typeexpr.Scalar(typeexpr.NameAny)), nil
	}

	switch t.Kind() {
	case reflect.String:
		return typeexpr.Scalar(typeexpr.NameString), nil
	case reflect.Bool:
		return typeexpr.Scalar(typeexpr.NameBool), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return typeexpr.Scalar(typeexpr.NameInt), nil
	case reflect.Float32, reflect.Float64:
		return typeexpr.Scalar(typeexpr.NameFloat), nil
	case reflect.Interface:
		return typeexpr.Scalar(typeexpr.NameAny), nil
	case reflect.Slice:
		elem, err := inferType(t.Elem())
		if err != nil {
			return nil, err
		}
		return typeexpr.List(elem), nil
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is not a string", t.Key())
		}
		elem, err := inferType(t.Elem())
		if err != nil {
			return nil, err
		}
		return typeexpr.Map(elem), nil
	case reflect.Pointer:
		elem, err := inferType(t.Elem())
		if err != nil {
			return nil, err
		}
		return typeexpr.Optional(elem), nil
	default:
		return nil, fmt.Errorf("cannot infer a type for %s, add a %q tag", t, tagType)
	}
}

// assign stores a bound value into a struct field.
func assign(field reflect.Value, v any) error {
	if v == nil {
		field.SetZero()
		return nil
	}

	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}

	switch field.Kind() {
	case reflect.Pointer:
		elem := reflect.New(field.Type().Elem())
		if err := assign(elem.Elem(), v); err != nil {
			return err
		}
		field.Set(elem)
		return nil

	case reflect.Slice:
		items, err := sequence(v)
		if err != nil {
			return err
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := assign(out.Index(i), item); err != nil {
				return fmt.Errorf("element %d: %w", i, err)
			}
		}
		field.Set(out)
		return nil

	case reflect.Map:
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot store %T in %s", v, field.Type())
		}
		out := reflect.MakeMapWithSize(field.Type(), len(m))
		for key, item := range m {
			elem := reflect.New(field.Type().Elem()).Elem()
			if err := assign(elem, item); err != nil {
				return fmt.Errorf("key %q: %w", key, err)
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(field.Type().Key()), elem)
		}
		field.Set(out)
		return nil

	case reflect.String:
		if s, ok := v.(fmt.Stringer); ok && rv.Kind() != reflect.String {
			field.SetString(s.String())
			return nil
		}
		if rv.Kind() == reflect.String {
			field.SetString(rv.String())
			return nil
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if n, ok := v.(int); ok {
			if field.OverflowInt(int64(n)) {
				return fmt.Errorf("value %d overflows %s", n, field.Type())
			}
			field.SetInt(int64(n))
			return nil
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n, ok := v.(int); ok {
			if n < 0 || field.OverflowUint(uint64(n)) {
				return fmt.Errorf("value %d overflows %s", n, field.Type())
			}
			field.SetUint(uint64(n))
			return nil
		}

	case reflect.Float32, reflect.Float64:
		var f float64
		switch n := v.(type) {
		case float64:
			f = n
		case int:
			f = float64(n)
		default:
			return fmt.Errorf("cannot store %T in %s", v, field.Type())
		}
		if field.Kind() == reflect.Float32 && math.Abs(f) > math.MaxFloat32 {
			return fmt.Errorf("value %v overflows %s", f, field.Type())
		}
		field.SetFloat(f)
		return nil

	case reflect.Bool:
		if b, ok := v.(bool); ok {
			field.SetBool(b)
			return nil
		}
	}

	return fmt.Errorf("cannot store %T in %s", v, field.Type())
}

func sequence(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case Set:
		return x.Sorted(), nil
	default:
		return nil, fmt.Errorf("expected a sequence, got %T", v)
	}
}
