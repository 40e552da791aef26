package introspect

import (
	"errors"
	"fmt"

	"github.com/vk/funcli/internal/typeexpr"
)

// ErrAmbiguousShape is returned when a type set mixes collection and
// non-collection types, or list-like and map-like collections, so that no
// single argument shape fits it.
var ErrAmbiguousShape = errors.New("cannot determine argument shape")

// Shape describes how many tokens a flag accepts and how repeated
// occurrences are aggregated.
type Shape int

const (
	// ShapeSingle accepts exactly one token; the last occurrence wins.
	ShapeSingle Shape = iota
	// ShapeRepeated accepts one or more tokens per occurrence and
	// concatenates occurrences.
	ShapeRepeated
	// ShapeRepeatedPair accepts one or more key=value tokens per occurrence
	// and merges them into one mapping.
	ShapeRepeatedPair
)

func (s Shape) String() string {
	switch s {
	case ShapeSingle:
		return "single"
	case ShapeRepeated:
		return "repeated"
	case ShapeRepeatedPair:
		return "repeated-pair"
	default:
		return fmt.Sprintf("Shape(%d)", int(s))
	}
}

var (
	// A plain string is deliberately absent: it is never a sequence of
	// one-character tokens.
	listLike = map[string]bool{
		typeexpr.NameList:  true,
		typeexpr.NameTuple: true,
		typeexpr.NameSet:   true,
	}
	mapLike = map[string]bool{
		typeexpr.NameMap:    true,
		typeexpr.NameObject: true,
	}
)

// IsListLike reports whether name denotes an ordered or unordered
// multi-value container.
func IsListLike(name string) bool { return listLike[name] }

// IsMapLike reports whether name denotes a key-value container.
func IsMapLike(name string) bool { return mapLike[name] }

// Classify maps a flattened type set onto an argument shape. Nullability
// is ignored.
func Classify(ts TypeSet) (Shape, error) {
	if ts.Len() == 0 {
		return ShapeSingle, nil
	}

	allList, allMap, anyCollection := true, true, false
	for _, name := range ts.Names {
		isList, isMap := IsListLike(name), IsMapLike(name)
		allList = allList && isList
		allMap = allMap && isMap
		anyCollection = anyCollection || isList || isMap
	}

	switch {
	case allList:
		return ShapeRepeated, nil
	case allMap:
		return ShapeRepeatedPair, nil
	case anyCollection:
		return ShapeSingle, fmt.Errorf("%w: types %s do not share one argument shape", ErrAmbiguousShape, ts)
	default:
		return ShapeSingle, nil
	}
}
