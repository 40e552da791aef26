package typeexpr

import (
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
)

// Kind discriminates the variants of a type expression.
type Kind int

const (
	// KindScalar is a named leaf type such as `string` or `url`.
	KindScalar Kind = iota
	// KindUnion is a set of alternative member types.
	KindUnion
	// KindGeneric is a parameterized type such as `list(string)`.
	KindGeneric
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindUnion:
		return "union"
	case KindGeneric:
		return "generic"
	default:
		return "unknown"
	}
}

// Well-known type names understood by the rest of the module.
const (
	NameNull   = "null"
	NameAny    = "any"
	NameString = "string"
	NameNumber = "number"
	NameFloat  = "float"
	NameInt    = "int"
	NameBool   = "bool"
	NameURL    = "url"
	NamePath   = "path"

	NameList   = "list"
	NameTuple  = "tuple"
	NameSet    = "set"
	NameMap    = "map"
	NameObject = "object"
	NameEnum   = "enum"

	nameUnion    = "union"
	nameOptional = "optional"
)

// Expr is a node of a type expression tree. Scalars carry only a Name,
// unions carry their members in Params, and generics carry the origin type
// in Name and the type arguments in Params.
type Expr struct {
	Kind   Kind
	Name   string
	Params []*Expr
}

// Scalar returns a named leaf type.
func Scalar(name string) *Expr {
	return &Expr{Kind: KindScalar, Name: name}
}

// Null returns the null marker type.
func Null() *Expr {
	return Scalar(NameNull)
}

// Union returns a union of the given members. A single member is returned
// unchanged.
func Union(members ...*Expr) *Expr {
	if len(members) == 1 {
		return members[0]
	}
	return &Expr{Kind: KindUnion, Params: members}
}

// Optional returns the union of e and the null marker.
func Optional(e *Expr) *Expr {
	return Union(e, Null())
}

// Generic returns a parameterized type with the given origin.
func Generic(name string, params ...*Expr) *Expr {
	return &Expr{Kind: KindGeneric, Name: name, Params: params}
}

// List returns `list(elem)`.
func List(elem *Expr) *Expr { return Generic(NameList, elem) }

// Set returns `set(elem)`.
func Set(elem *Expr) *Expr { return Generic(NameSet, elem) }

// Tuple returns `tuple(elems...)`.
func Tuple(elems ...*Expr) *Expr { return Generic(NameTuple, elems...) }

// Map returns `map(value)`, a mapping with string keys.
func Map(value *Expr) *Expr { return Generic(NameMap, value) }

// Enum returns `enum(members...)`.
func Enum(members ...string) *Expr {
	params := make([]*Expr, len(members))
	for i, m := range members {
		params[i] = Scalar(m)
	}
	return Generic(NameEnum, params...)
}

// IsNull reports whether e is the null marker itself.
func (e *Expr) IsNull() bool {
	return e != nil && e.Kind == KindScalar && e.Name == NameNull
}

// Nullable reports whether null is an accepted value for e.
func (e *Expr) Nullable() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindScalar:
		return e.Name == NameNull || e.Name == NameAny
	case KindUnion:
		for _, m := range e.Params {
			if m.Nullable() {
				return true
			}
		}
	}
	return false
}

// Equal reports whether two expressions are structurally identical.
func (e *Expr) Equal(other *Expr) bool {
	if e == nil || other == nil {
		return e == other
	}
	if e.Kind != other.Kind || e.Name != other.Name || len(e.Params) != len(other.Params) {
		return false
	}
	for i := range e.Params {
		if !e.Params[i].Equal(other.Params[i]) {
			return false
		}
	}
	return true
}

// OuterName returns the name used to describe e in help output: the scalar
// or origin name, or the members' outer names joined with "|" for unions.
func (e *Expr) OuterName() string {
	if e == nil {
		return ""
	}
	if e.Kind != KindUnion {
		return e.Name
	}
	names := make([]string, 0, len(e.Params))
	for _, m := range e.Params {
		names = append(names, m.OuterName())
	}
	return strings.Join(names, "|")
}

// String renders e in the same syntax accepted by Parse.
func (e *Expr) String() string {
	if e == nil {
		return ""
	}
	var sb strings.Builder
	e.write(&sb)
	return sb.String()
}

func (e *Expr) write(sb *strings.Builder) {
	switch e.Kind {
	case KindScalar:
		if hclsyntax.ValidIdentifier(e.Name) {
			sb.WriteString(e.Name)
		} else {
			sb.WriteString(strconv.Quote(e.Name))
		}
	case KindUnion:
		if len(e.Params) == 2 && e.Params[1].IsNull() && !e.Params[0].IsNull() {
			sb.WriteString(nameOptional)
			sb.WriteRune('(')
			e.Params[0].write(sb)
			sb.WriteRune(')')
			return
		}
		writeCall(sb, nameUnion, e.Params)
	case KindGeneric:
		writeCall(sb, e.Name, e.Params)
	}
}

func writeCall(sb *strings.Builder, name string, params []*Expr) {
	sb.WriteString(name)
	sb.WriteRune('(')
	for i, p := range params {
		if i > 0 {
			sb.WriteString(", ")
		}
		p.write(sb)
	}
	sb.WriteRune(')')
}
