package validate

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/funcli/internal/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

// Validator coerces a raw value into a typed value matching expr.
type Validator interface {
	Validate(raw any, expr *typeexpr.Expr) (any, error)
}

// ScalarFunc coerces a known, non-null value into a scalar type.
type ScalarFunc func(v cty.Value) (any, error)

// Engine is the reference Validator. The zero value is not usable; create
// one with New.
type Engine struct {
	scalars map[string]ScalarFunc
}

// New returns an Engine with the built-in scalar types registered.
func New() *Engine {
	e := &Engine{scalars: make(map[string]ScalarFunc)}
	e.Register(typeexpr.NameString, toString)
	e.Register(typeexpr.NameNumber, toFloat)
	e.Register(typeexpr.NameFloat, toFloat)
	e.Register(typeexpr.NameInt, toInt)
	e.Register(typeexpr.NameBool, toBool)
	e.Register(typeexpr.NameURL, toURL)
	e.Register(typeexpr.NamePath, toPath)
	e.Register(typeexpr.NameAny, ctyToNative)
	e.Register(typeexpr.NameNull, func(v cty.Value) (any, error) {
		return nil, mismatch("expected null, got %s", v.Type().FriendlyName())
	})

	// Bare containers hold anything.
	anyExpr := typeexpr.Scalar(typeexpr.NameAny)
	bare := map[string]*typeexpr.Expr{
		typeexpr.NameList:   typeexpr.List(anyExpr),
		typeexpr.NameTuple:  typeexpr.Tuple(anyExpr),
		typeexpr.NameSet:    typeexpr.Set(anyExpr),
		typeexpr.NameMap:    typeexpr.Map(anyExpr),
		typeexpr.NameObject: typeexpr.Generic(typeexpr.NameObject, anyExpr),
	}
	for name, expr := range bare {
		e.Register(name, func(v cty.Value) (any, error) {
			return e.validateGeneric(v, expr)
		})
	}
	return e
}

// Register adds or replaces the scalar type called name.
func (e *Engine) Register(name string, fn ScalarFunc) {
	if fn == nil {
		panic(fmt.Sprintf("validate: nil ScalarFunc for type %q", name))
	}
	e.scalars[name] = fn
}

// Validate implements Validator.
func (e *Engine) Validate(raw any, expr *typeexpr.Expr) (any, error) {
	if expr == nil {
		expr = typeexpr.Scalar(typeexpr.NameAny)
	}
	val, err := ToCty(raw)
	if err != nil {
		return nil, err
	}
	return e.validate(val, expr)
}

func (e *Engine) validate(val cty.Value, expr *typeexpr.Expr) (any, error) {
	if !val.IsKnown() {
		return nil, mismatch("value is not known")
	}
	if val.IsNull() {
		if expr.Nullable() {
			return nil, nil
		}
		return nil, ErrMissingValue
	}

	switch expr.Kind {
	case typeexpr.KindUnion:
		return e.validateUnion(val, expr)
	case typeexpr.KindGeneric:
		return e.validateGeneric(val, expr)
	default:
		fn, ok := e.scalars[expr.Name]
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownType, expr.Name)
		}
		return fn(val)
	}
}

// validateUnion tries the members in declared order; the first member that
// accepts the value wins.
func (e *Engine) validateUnion(val cty.Value, expr *typeexpr.Expr) (any, error) {
	var errs []string
	for _, member := range expr.Params {
		if member.IsNull() {
			continue
		}
		out, err := e.validate(val, member)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, ErrUnknownType) {
			return nil, err
		}
		errs = append(errs, fmt.Sprintf("%s: %v", member, err))
	}
	return nil, mismatch("no member of %s accepts the value (%s)", expr, strings.Join(errs, "; "))
}

func (e *Engine) validateGeneric(val cty.Value, expr *typeexpr.Expr) (any, error) {
	switch expr.Name {
	case typeexpr.NameList:
		return e.validateSequence(val, expr.Params[0])
	case typeexpr.NameTuple:
		if len(expr.Params) == 1 {
			return e.validateSequence(val, expr.Params[0])
		}
		return e.validateFixedTuple(val, expr.Params)
	case typeexpr.NameSet:
		return e.validateSet(val, expr.Params[0])
	case typeexpr.NameMap, typeexpr.NameObject:
		return e.validateMap(val, expr)
	case typeexpr.NameEnum:
		return validateEnum(val, expr)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownType, expr.Name)
	}
}
