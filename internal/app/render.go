package app

import (
	"fmt"
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/funcli/internal/validate"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// render prints the bound arguments in parameter order, either as HCL
// attributes or as one JSON object.
func render(w io.Writer, format string, names []string, bound map[string]any) error {
	attrs := make(map[string]cty.Value, len(names))
	for _, name := range names {
		val, err := validate.ToCty(bound[name])
		if err != nil {
			return fmt.Errorf("argument %q: %w", name, err)
		}
		attrs[name] = concreteNulls(val)
	}

	if format == OutputJSON {
		obj := cty.ObjectVal(attrs)
		out, err := ctyjson.Marshal(obj, obj.Type())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, name := range names {
		body.SetAttributeValue(name, attrs[name])
	}
	_, err := w.Write(hclwrite.Format(f.Bytes()))
	return err
}

// concreteNulls gives untyped nulls a concrete type, so JSON output renders
// them as plain nulls.
func concreteNulls(val cty.Value) cty.Value {
	out, _ := cty.Transform(val, func(_ cty.Path, v cty.Value) (cty.Value, error) {
		if v.IsNull() && v.Type() == cty.DynamicPseudoType {
			return cty.NullVal(cty.String), nil
		}
		return v, nil
	})
	return out
}
