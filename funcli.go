package funcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vk/funcli/internal/binder"
	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/introspect"
	"github.com/vk/funcli/internal/typeexpr"
	"github.com/vk/funcli/internal/validate"
)

type (
	// Parameter declares one parameter of the target function.
	Parameter = introspect.Parameter
	// Type is a parsed type expression such as `optional(list(string))`.
	Type = typeexpr.Expr
	// Validator coerces raw parsed values into typed values.
	Validator = validate.Validator
	// Engine is the built-in Validator.
	Engine = validate.Engine
	// Path is the bound value of the `path` type.
	Path = validate.Path
	// Set is the bound value of the `set` type.
	Set = validate.Set
	// UsageError is returned for malformed command lines. Its diagnostic
	// has already been printed when it is returned.
	UsageError = binder.UsageError
	// ValidationError is returned when a value does not match its type.
	ValidationError = validate.ValidationError
)

var (
	// ErrHelp is returned after help output was printed.
	ErrHelp = binder.ErrHelp
	// ErrAmbiguousShape is returned for a type that mixes collection and
	// non-collection members.
	ErrAmbiguousShape = introspect.ErrAmbiguousShape
)

// ParseType parses a type expression written in HCL type syntax.
func ParseType(src string) (*Type, error) {
	return typeexpr.Parse(src)
}

// MustType is like ParseType but panics on error.
func MustType(src string) *Type {
	return typeexpr.MustParse(src)
}

// NewValidator returns the built-in validator. Additional scalar types can
// be added with Register.
func NewValidator() *Engine {
	return validate.New()
}

// Options configures parsing. Zero values select the defaults.
type Options struct {
	// Prog is the program name in usage output. Defaults to the base name
	// of os.Args[0].
	Prog        string
	Description string
	Epilog      string
	Stdout      io.Writer
	Stderr      io.Writer
	Validator   Validator
	// Logger receives debug tracing and warnings. Defaults to slog.Default().
	Logger *slog.Logger
}

func (o Options) context() context.Context {
	logger := o.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return ctxlog.WithLogger(context.Background(), logger)
}

func (o Options) binderOptions() binder.Options {
	return binder.Options{
		Prog:        o.Prog,
		Description: o.Description,
		Epilog:      o.Epilog,
		Stdout:      o.Stdout,
		Stderr:      o.Stderr,
		Validator:   o.Validator,
	}
}

// Parse binds tokens against params and returns every parameter's typed
// value keyed by parameter name.
func Parse(params []Parameter, tokens []string, opts Options) (map[string]any, error) {
	ctx := opts.context()

	specs, err := introspect.DeriveSpecs(ctx, params)
	if err != nil {
		return nil, err
	}
	return binder.Bind(ctx, specs, tokens, opts.binderOptions())
}

// Run parses tokens and calls fn with the bound arguments. fn is not called
// when parsing fails or help was requested.
func Run(fn func(args map[string]any) error, params []Parameter, tokens []string, opts Options) error {
	args, err := Parse(params, tokens, opts)
	if err != nil {
		return err
	}
	return fn(args)
}

// Main runs fn with the process arguments and exits. It never returns.
func Main(prog string, params []Parameter, fn func(args map[string]any) error) {
	opts := Options{Prog: prog}
	err := Run(fn, params, os.Args[1:], opts)
	os.Exit(report(err, opts))
}

// ExitCode maps an error returned by Parse or Run to a process exit status:
// 0 for success and help, 2 for usage errors and 1 otherwise.
func ExitCode(err error) int {
	if err == nil || errors.Is(err, ErrHelp) {
		return 0
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return usageErr.ExitCode()
	}
	return 1
}

// report prints errors the binder has not already printed and returns the
// exit status for err.
func report(err error, opts Options) int {
	code := ExitCode(err)
	if code != 1 {
		return code
	}

	w := opts.Stderr
	if w == nil {
		w = os.Stderr
	}
	prog := opts.Prog
	if prog == "" {
		prog = filepath.Base(os.Args[0])
	}
	fmt.Fprintf(w, "%s: error: %v\n", prog, err)
	return code
}
