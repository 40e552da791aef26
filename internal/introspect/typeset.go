package introspect

import (
	"slices"
	"strings"

	"github.com/vk/funcli/internal/typeexpr"
)

// TypeSet is the flattened set of outer type names extracted from a type
// expression. Membership of the null marker is tracked in Nullable and never
// appears in Names.
type TypeSet struct {
	// Names is kept sorted and free of duplicates.
	Names    []string
	Nullable bool
}

// NewTypeSet builds a TypeSet from the given names. "null" sets Nullable.
func NewTypeSet(names ...string) TypeSet {
	var ts TypeSet
	for _, n := range names {
		ts.add(n)
	}
	return ts
}

func (ts *TypeSet) add(name string) {
	if name == typeexpr.NameNull {
		ts.Nullable = true
		return
	}
	i, found := slices.BinarySearch(ts.Names, name)
	if !found {
		ts.Names = slices.Insert(ts.Names, i, name)
	}
}

func (ts *TypeSet) merge(other TypeSet) {
	for _, n := range other.Names {
		ts.add(n)
	}
	ts.Nullable = ts.Nullable || other.Nullable
}

// Has reports whether name is a member of the set.
func (ts TypeSet) Has(name string) bool {
	if name == typeexpr.NameNull {
		return ts.Nullable
	}
	_, found := slices.BinarySearch(ts.Names, name)
	return found
}

// Len returns the number of non-null members.
func (ts TypeSet) Len() int {
	return len(ts.Names)
}

func (ts TypeSet) String() string {
	names := ts.Names
	if ts.Nullable {
		names = append(slices.Clone(names), typeexpr.NameNull)
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Flatten unwraps unions into their members and generic containers into
// their origin type. Inner type parameters are discarded; they are enforced
// later by the validator against the original expression.
func Flatten(e *typeexpr.Expr) TypeSet {
	var ts TypeSet
	if e == nil {
		ts.add(typeexpr.NameAny)
		return ts
	}

	switch e.Kind {
	case typeexpr.KindUnion:
		for _, member := range e.Params {
			ts.merge(Flatten(member))
		}
	default:
		// Scalars and generics both contribute exactly their name.
		ts.add(e.Name)
	}
	return ts
}
