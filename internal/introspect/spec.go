package introspect

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/typeexpr"
)

// ErrInvalidParameter is returned for parameters whose name cannot be turned
// into a flag, or whose flag collides with another parameter's.
var ErrInvalidParameter = errors.New("invalid parameter")

// Parameter is the declarative description of one function parameter.
type Parameter struct {
	Name string
	// Type is the annotation. A nil Type accepts anything.
	Type *typeexpr.Expr
	// Default is used when the flag is absent. It is only meaningful when
	// HasDefault is set, which allows a nil default.
	Default     any
	HasDefault  bool
	Description string
}

// ParameterSpec is the normalized description of how a parameter is
// accepted on the command line.
type ParameterSpec struct {
	Name        string
	Flag        string
	Annotation  *typeexpr.Expr
	HasDefault  bool
	Default     any
	Description string
	Types       TypeSet
	Shape       Shape
}

// Required reports whether the flag must appear at least once.
func (s ParameterSpec) Required() bool {
	return !s.HasDefault
}

// FlagName derives the long flag for a parameter name.
func FlagName(name string) string {
	return "--" + strings.ReplaceAll(name, "_", "-")
}

// DeriveSpecs derives one ParameterSpec per parameter, in order. It fails
// before any parsing happens when an annotation has no single shape.
func DeriveSpecs(ctx context.Context, params []Parameter) ([]ParameterSpec, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Deriving parameter specs.", "count", len(params))

	specs := make([]ParameterSpec, 0, len(params))
	flags := make(map[string]string, len(params))

	for _, p := range params {
		if err := validateName(p.Name); err != nil {
			return nil, err
		}

		flag := FlagName(p.Name)
		if other, exists := flags[flag]; exists {
			return nil, fmt.Errorf("%w: parameters %q and %q both map to flag %s", ErrInvalidParameter, other, p.Name, flag)
		}
		flags[flag] = p.Name

		annotation := p.Type
		if annotation == nil {
			annotation = typeexpr.Scalar(typeexpr.NameAny)
		}

		types := Flatten(annotation)
		shape, err := Classify(types)
		if err != nil {
			return nil, fmt.Errorf("parameter %q (%s): %w", p.Name, annotation, err)
		}

		var def any
		if p.HasDefault {
			def = p.Default
		}

		specs = append(specs, ParameterSpec{
			Name:        p.Name,
			Flag:        flag,
			Annotation:  annotation,
			HasDefault:  p.HasDefault,
			Default:     def,
			Description: p.Description,
			Types:       types,
			Shape:       shape,
		})
		logger.Debug("Parameter spec derived.", "name", p.Name, "flag", flag, "type", annotation.String(), "shape", shape.String(), "required", !p.HasDefault)
	}

	return specs, nil
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidParameter)
	}
	if strings.HasPrefix(name, "-") || strings.HasPrefix(name, "_") {
		return fmt.Errorf("%w: name %q cannot start with %q", ErrInvalidParameter, name, name[:1])
	}
	if strings.ContainsAny(name, " \t=") {
		return fmt.Errorf("%w: name %q cannot contain whitespace or '='", ErrInvalidParameter, name)
	}
	if name == "help" {
		return fmt.Errorf("%w: name %q is reserved for the help flag", ErrInvalidParameter, name)
	}
	return nil
}
