package validate

import (
	"fmt"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/vk/funcli/internal/typeexpr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// Set is the typed form of set(T). Elements are the validated element values.
type Set map[any]struct{}

// NewSet builds a Set from elements. Equal URLs collapse into one element.
func NewSet(elems ...any) (Set, error) {
	s := make(Set, len(elems))
	for _, e := range elems {
		if err := s.add(e); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s Set) add(elem any) error {
	if elem != nil && !reflect.TypeOf(elem).Comparable() {
		return mismatch("set element of type %T is not hashable", elem)
	}
	if u, ok := elem.(*url.URL); ok {
		for existing := range s {
			if eu, ok := existing.(*url.URL); ok && eu.String() == u.String() {
				return nil
			}
		}
	}
	s[elem] = struct{}{}
	return nil
}

// Has reports whether elem is in the set.
func (s Set) Has(elem any) bool {
	if u, ok := elem.(*url.URL); ok {
		for existing := range s {
			if eu, ok := existing.(*url.URL); ok && eu.String() == u.String() {
				return true
			}
		}
		return false
	}
	if elem != nil && !reflect.TypeOf(elem).Comparable() {
		return false
	}
	_, ok := s[elem]
	return ok
}

// Sorted returns the elements ordered by their printed form.
func (s Set) Sorted() []any {
	out := make([]any, 0, len(s))
	for e := range s {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b any) int {
		return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
	})
	return out
}

func isSequence(ty cty.Type) bool {
	return ty.IsListType() || ty.IsTupleType() || ty.IsSetType()
}

func (e *Engine) elements(val cty.Value, elem *typeexpr.Expr) ([]any, error) {
	out := make([]any, 0, val.LengthInt())
	i := 0
	for it := val.ElementIterator(); it.Next(); i++ {
		_, ev := it.Element()
		typed, err := e.validate(ev, elem)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, typed)
	}
	return out, nil
}

func (e *Engine) validateSequence(val cty.Value, elem *typeexpr.Expr) (any, error) {
	if !isSequence(val.Type()) {
		return nil, mismatch("expected a sequence, got %s", val.Type().FriendlyName())
	}
	return e.elements(val, elem)
}

func (e *Engine) validateFixedTuple(val cty.Value, elems []*typeexpr.Expr) (any, error) {
	if !isSequence(val.Type()) {
		return nil, mismatch("expected a sequence, got %s", val.Type().FriendlyName())
	}
	if n := val.LengthInt(); n != len(elems) {
		return nil, mismatch("expected %d elements, got %d", len(elems), n)
	}
	out := make([]any, 0, len(elems))
	i := 0
	for it := val.ElementIterator(); it.Next(); i++ {
		_, ev := it.Element()
		typed, err := e.validate(ev, elems[i])
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, typed)
	}
	return out, nil
}

func (e *Engine) validateSet(val cty.Value, elem *typeexpr.Expr) (any, error) {
	if !isSequence(val.Type()) {
		return nil, mismatch("expected a sequence, got %s", val.Type().FriendlyName())
	}
	items, err := e.elements(val, elem)
	if err != nil {
		return nil, err
	}
	return NewSet(items...)
}

// validateMap checks map(V) and map(K, V). Keys stay strings; K only
// constrains their spelling.
func (e *Engine) validateMap(val cty.Value, expr *typeexpr.Expr) (any, error) {
	ty := val.Type()
	if !ty.IsMapType() && !ty.IsObjectType() {
		return nil, mismatch("expected a map, got %s", ty.FriendlyName())
	}
	keyType := typeexpr.Scalar(typeexpr.NameString)
	valueType := expr.Params[len(expr.Params)-1]
	if len(expr.Params) == 2 {
		keyType = expr.Params[0]
	}

	out := make(map[string]any, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		key := k.AsString()
		if _, err := e.validate(k, keyType); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		typed, err := e.validate(v, valueType)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		out[key] = typed
	}
	return out, nil
}

func validateEnum(val cty.Value, expr *typeexpr.Expr) (any, error) {
	if !val.Type().IsPrimitiveType() {
		return nil, mismatch("expected one of %s, got %s", expr, val.Type().FriendlyName())
	}
	s, err := convert.Convert(val, cty.String)
	if err != nil {
		return nil, mismatch("%v", err)
	}
	got := s.AsString()
	for _, member := range expr.Params {
		if member.Name == got {
			return got, nil
		}
	}
	names := make([]string, len(expr.Params))
	for i, member := range expr.Params {
		names[i] = fmt.Sprintf("%q", member.Name)
	}
	return nil, mismatch("%q is not one of %s", got, strings.Join(names, ", "))
}
