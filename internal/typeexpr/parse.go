// This file contains the logic for parsing HCL type expressions (e.g., `string`,
// `list(number)`, `optional(set(string))`) into Expr trees.

package typeexpr

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Parse parses a type expression written in HCL syntax.
func Parse(src string) (*Expr, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<type>", hcl.InitialPos)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid type expression %q: %w", src, diags)
	}
	parsed, diags := FromHCL(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid type expression %q: %w", src, diags)
	}
	return parsed, nil
}

// MustParse is like Parse but panics on error. It is intended for
// package-level declarations and tests.
func MustParse(src string) *Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

// FromHCL converts an already-parsed HCL expression that denotes a type into
// an Expr tree.
func FromHCL(expr hcl.Expression) (*Expr, hcl.Diagnostics) {
	if expr == nil {
		return Scalar(NameAny), nil
	}

	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		// Primitive and domain type keywords like `string` or `url`.
		if len(v.Traversal) != 1 {
			return nil, invalidType(expr, "A type keyword must be a single identifier like 'string', not a traversal path.")
		}
		return Scalar(v.Traversal.RootName()), nil

	case *hclsyntax.LiteralValueExpr:
		if v.Val.IsNull() {
			return Null(), nil
		}
		return nil, invalidType(expr, fmt.Sprintf("A literal %s value is not a type.", v.Val.Type().FriendlyName()))

	case *hclsyntax.FunctionCallExpr:
		return fromCall(v)

	default:
		return nil, invalidType(expr, fmt.Sprintf("Unsupported expression for a type definition: %T.", v))
	}
}

func fromCall(call *hclsyntax.FunctionCallExpr) (*Expr, hcl.Diagnostics) {
	if len(call.Args) == 0 {
		return nil, invalidType(call, fmt.Sprintf("The %s() type constructor requires at least one argument.", call.Name))
	}

	if call.Name == NameEnum {
		members := make([]string, 0, len(call.Args))
		for _, arg := range call.Args {
			name, ok := memberName(arg)
			if !ok {
				return nil, invalidType(arg, "Enum members must be simple identifiers or quoted strings.")
			}
			members = append(members, name)
		}
		return Enum(members...), nil
	}

	var diags hcl.Diagnostics
	params := make([]*Expr, 0, len(call.Args))
	for _, arg := range call.Args {
		p, argDiags := FromHCL(arg)
		diags = append(diags, argDiags...)
		if argDiags.HasErrors() {
			continue
		}
		params = append(params, p)
	}
	if diags.HasErrors() {
		return nil, diags
	}

	switch call.Name {
	case nameUnion:
		return Union(params...), diags
	case nameOptional:
		if len(params) != 1 {
			return nil, invalidType(call, fmt.Sprintf("The optional() type constructor requires exactly one argument, got %d.", len(params)))
		}
		return Optional(params[0]), diags
	case NameList, NameSet:
		if len(params) != 1 {
			return nil, invalidType(call, fmt.Sprintf("The %s() type constructor requires exactly one argument, got %d.", call.Name, len(params)))
		}
	case NameMap, NameObject:
		if len(params) > 2 {
			return nil, invalidType(call, fmt.Sprintf("The %s() type constructor takes a value type, or a key type and a value type, got %d arguments.", call.Name, len(params)))
		}
	}
	return Generic(call.Name, params...), diags
}

// memberName extracts an enum member from a bare identifier or a quoted
// string without interpolation.
func memberName(expr hclsyntax.Expression) (string, bool) {
	switch v := expr.(type) {
	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) == 1 {
			return v.Traversal.RootName(), true
		}
	case *hclsyntax.TemplateExpr:
		if len(v.Parts) == 1 {
			if lit, ok := v.Parts[0].(*hclsyntax.LiteralValueExpr); ok && lit.Val.Type().Equals(cty.String) {
				return lit.Val.AsString(), true
			}
		}
	}
	return "", false
}

func invalidType(expr hcl.Expression, detail string) hcl.Diagnostics {
	return hcl.Diagnostics{{
		Severity: hcl.DiagError,
		Summary:  "Invalid type specification",
		Detail:   detail,
		Subject:  expr.Range().Ptr(),
	}}
}
