package binder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/introspect"
	"github.com/vk/funcli/internal/validate"
)

// Options configures a Bind call. Zero values select the defaults.
type Options struct {
	// Prog is the program name used in usage output. Defaults to the base
	// name of os.Args[0].
	Prog        string
	Description string
	Epilog      string
	// Stdout receives help output. Defaults to os.Stdout.
	Stdout io.Writer
	// Stderr receives usage diagnostics. Defaults to os.Stderr.
	Stderr io.Writer
	// Validator types the raw values. Defaults to validate.New().
	Validator validate.Validator
}

func (o Options) withDefaults() Options {
	if o.Prog == "" {
		o.Prog = filepath.Base(os.Args[0])
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Validator == nil {
		o.Validator = validate.New()
	}
	return o
}

// Bind parses tokens against specs and returns the typed value of every
// parameter, keyed by parameter name. It either binds every parameter or
// fails as a whole.
//
// Usage errors are written to Options.Stderr and returned as *UsageError.
// Typing failures are returned as *validate.ValidationError. When help is
// requested the help text goes to Options.Stdout and ErrHelp is returned.
func Bind(ctx context.Context, specs []introspect.ParameterSpec, tokens []string, opts Options) (map[string]any, error) {
	opts = opts.withDefaults()
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Binding arguments.", "prog", opts.Prog, "tokens", len(tokens))

	table := newFlagTable(ctx, specs)

	raw, err := parse(ctx, table, tokens)
	if err != nil {
		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			usageErr.Prog = opts.Prog
			usageErr.Usage = usageLine(opts.Prog, table)
			writeUsage(opts.Stderr, usageParts(opts.Prog, table))
			fmt.Fprintf(opts.Stderr, "%s: error: %s\n", opts.Prog, usageErr.Message)
			return nil, usageErr
		}
		if errors.Is(err, ErrHelp) {
			writeHelp(opts.Stdout, opts.Prog, opts.Description, opts.Epilog, table)
		}
		return nil, err
	}

	bound := make(map[string]any, len(specs))
	for _, spec := range specs {
		value, given := raw[spec.Name]
		if !given {
			value = spec.Default
		}

		typed, err := opts.Validator.Validate(value, spec.Annotation)
		if err != nil {
			return nil, &validate.ValidationError{
				Param: spec.Name,
				Flag:  spec.Flag,
				Type:  spec.Annotation.String(),
				Value: value,
				Err:   err,
			}
		}
		bound[spec.Name] = typed
	}

	logger.Debug("Arguments bound.", "count", len(bound))
	return bound, nil
}

// parse scans the tokens and aggregates the occurrences of every flag into
// its raw value: a string, a []string, or a map[string]string.
func parse(ctx context.Context, table *flagTable, tokens []string) (map[string]any, error) {
	logger := ctxlog.FromContext(ctx)

	res, err := scan(table, tokens)
	if err != nil {
		return nil, err
	}
	if res.help {
		return nil, ErrHelp
	}

	raw := make(map[string]any)
	for _, occ := range res.occurrences {
		spec := occ.def.spec
		switch spec.Shape {
		case introspect.ShapeSingle:
			raw[spec.Name] = occ.values[0]

		case introspect.ShapeRepeated:
			prev, _ := raw[spec.Name].([]string)
			raw[spec.Name] = append(prev, occ.values...)

		case introspect.ShapeRepeatedPair:
			pairs, _ := raw[spec.Name].(map[string]string)
			if pairs == nil {
				pairs = make(map[string]string, len(occ.values))
				raw[spec.Name] = pairs
			}
			for _, tok := range occ.values {
				key, value, ok := strings.Cut(tok, "=")
				if !ok {
					return nil, usageErrorf("argument %s: expected key=value, got %q", spec.Flag, tok)
				}
				if prev, dup := pairs[key]; dup {
					logger.Warn("Key provided more than once, using the later value.", "flag", spec.Flag, "key", key, "previous", prev, "value", value)
				}
				pairs[key] = value
			}
		}
	}

	var missing []string
	for _, def := range table.params() {
		if _, given := raw[def.spec.Name]; !given && def.spec.Required() {
			missing = append(missing, def.spec.Flag)
		}
	}
	if len(missing) > 0 {
		return nil, usageErrorf("the following arguments are required: %s", strings.Join(missing, ", "))
	}

	if len(res.extras) > 0 {
		msg := "unrecognized arguments: " + strings.Join(res.extras, " ")
		if suggestion := suggestFor(table, res.extras); suggestion != "" {
			msg += fmt.Sprintf(" (did you mean %s?)", suggestion)
		}
		return nil, usageErrorf("%s", msg)
	}

	return raw, nil
}

// suggestFor offers a known flag for the first unknown flag among extras.
func suggestFor(table *flagTable, extras []string) string {
	for _, tok := range extras {
		if !strings.HasPrefix(tok, "--") {
			continue
		}
		name, _, _ := strings.Cut(tok, "=")
		if name == "--" {
			continue
		}
		return table.suggest(name)
	}
	return ""
}
