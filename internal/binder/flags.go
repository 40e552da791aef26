package binder

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/funcli/internal/ctxlog"
	"github.com/vk/funcli/internal/introspect"
	"github.com/vk/funcli/internal/validate"
)

const helpFlag = "--help"

// flagDef is the registered form of one parameter spec.
type flagDef struct {
	spec    introspect.ParameterSpec
	metavar string
	help    bool
}

func (d *flagDef) name() string {
	if d.help {
		return helpFlag
	}
	return d.spec.Flag
}

// flagTable holds the flag definitions built for a single Bind call.
type flagTable struct {
	defs   []*flagDef
	byFlag map[string]*flagDef
}

func newFlagTable(ctx context.Context, specs []introspect.ParameterSpec) *flagTable {
	logger := ctxlog.FromContext(ctx)
	t := &flagTable{
		defs:   make([]*flagDef, 0, len(specs)+1),
		byFlag: make(map[string]*flagDef, len(specs)+1),
	}

	help := &flagDef{help: true}
	t.defs = append(t.defs, help)
	t.byFlag[helpFlag] = help

	for _, spec := range specs {
		def := &flagDef{spec: spec, metavar: metavar(spec)}
		t.defs = append(t.defs, def)
		t.byFlag[spec.Flag] = def
		logger.Debug("Flag registered.", "flag", spec.Flag, "shape", spec.Shape.String(), "metavar", def.metavar, "required", spec.Required())
	}
	return t
}

// lookup resolves a long flag, allowing any unambiguous prefix. A nil
// definition with a nil error means the flag is unknown.
func (t *flagTable) lookup(flag string) (*flagDef, error) {
	if def, ok := t.byFlag[flag]; ok {
		return def, nil
	}
	if flag == "--" {
		return nil, nil
	}

	var matches []*flagDef
	for _, def := range t.defs {
		if strings.HasPrefix(def.name(), flag) {
			matches = append(matches, def)
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.name()
		}
		return nil, usageErrorf("ambiguous option: %s could match %s", flag, strings.Join(names, ", "))
	}
}

// suggest returns the closest known flag to an unknown one, or "" when
// nothing is close enough.
func (t *flagTable) suggest(flag string) string {
	best := ""
	bestDistance := 3
	for _, def := range t.defs {
		if d := levenshtein.Distance(flag, def.name(), nil); d < bestDistance {
			best, bestDistance = def.name(), d
		}
	}
	return best
}

// params returns the parameter definitions in registration order.
func (t *flagTable) params() []*flagDef {
	return slices.DeleteFunc(slices.Clone(t.defs), func(d *flagDef) bool { return d.help })
}

// metavar labels the value placeholder in help output: the outer type name,
// plus the default when there is one.
func metavar(spec introspect.ParameterSpec) string {
	label := spec.Annotation.OuterName()
	if !spec.HasDefault {
		return label
	}
	return fmt.Sprintf("%s (default: %s)", label, formatDefault(spec.Default))
}

// formatDefault renders a default value. Strings are shown bare, other values
// in HCL literal syntax.
func formatDefault(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return x
	case validate.Path:
		return string(x)
	}
	val, err := validate.ToCty(v)
	if err != nil || !val.IsWhollyKnown() {
		return fmt.Sprint(v)
	}
	src := hclwrite.Format(hclwrite.TokensForValue(val).Bytes())
	return strings.Join(strings.Fields(string(src)), " ")
}
