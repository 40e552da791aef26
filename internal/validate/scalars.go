package validate

import (
	"math/big"
	"net/url"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Path is a filesystem path. It is not checked for existence.
type Path string

func (p Path) String() string {
	return string(p)
}

func requirePrimitive(v cty.Value, want string) error {
	if !v.Type().IsPrimitiveType() {
		return mismatch("expected %s, got %s", want, v.Type().FriendlyName())
	}
	return nil
}

func toString(v cty.Value) (any, error) {
	if err := requirePrimitive(v, "string"); err != nil {
		return nil, err
	}
	s, err := convert.Convert(v, cty.String)
	if err != nil {
		return nil, mismatch("%v", err)
	}
	return s.AsString(), nil
}

func toNumber(v cty.Value, want string) (cty.Value, error) {
	if err := requirePrimitive(v, want); err != nil {
		return cty.NilVal, err
	}
	if v.Type() == cty.Bool {
		return cty.NilVal, mismatch("expected %s, got bool", want)
	}
	n, err := convert.Convert(v, cty.Number)
	if err != nil {
		return cty.NilVal, mismatch("expected %s: %v", want, err)
	}
	return n, nil
}

func toFloat(v cty.Value) (any, error) {
	n, err := toNumber(v, "number")
	if err != nil {
		return nil, err
	}
	var f float64
	if err := gocty.FromCtyValue(n, &f); err != nil {
		return nil, mismatch("%v", err)
	}
	return f, nil
}

func toInt(v cty.Value) (any, error) {
	n, err := toNumber(v, "integer")
	if err != nil {
		return nil, err
	}
	if !n.AsBigFloat().IsInt() {
		return nil, mismatch("expected integer, got %s", n.AsBigFloat().Text('g', -1))
	}
	var i int
	if err := gocty.FromCtyValue(n, &i); err != nil {
		return nil, mismatch("%v", err)
	}
	return i, nil
}

func toBool(v cty.Value) (any, error) {
	switch v.Type() {
	case cty.Bool:
		return v.True(), nil
	case cty.String:
		s := strings.ToLower(strings.TrimSpace(v.AsString()))
		switch s {
		case "yes", "y", "on":
			return true, nil
		case "no", "n", "off":
			return false, nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return nil, mismatch("expected bool, got %q", v.AsString())
		}
		return b, nil
	case cty.Number:
		bf := v.AsBigFloat()
		switch {
		case bf.Cmp(big.NewFloat(0)) == 0:
			return false, nil
		case bf.Cmp(big.NewFloat(1)) == 0:
			return true, nil
		}
		return nil, mismatch("expected bool, got %s", bf.Text('g', -1))
	default:
		return nil, mismatch("expected bool, got %s", v.Type().FriendlyName())
	}
}

// toURL accepts absolute URLs. A scheme is always required, and a host is
// required for every scheme except file.
func toURL(v cty.Value) (any, error) {
	if v.Type() != cty.String {
		return nil, mismatch("expected url, got %s", v.Type().FriendlyName())
	}
	s := v.AsString()
	u, err := url.Parse(s)
	if err != nil {
		return nil, mismatch("%v", err)
	}
	if u.Scheme == "" {
		return nil, mismatch("url %q has no scheme", s)
	}
	if u.Host == "" && u.Scheme != "file" {
		return nil, mismatch("url %q has no host", s)
	}
	return u, nil
}

func toPath(v cty.Value) (any, error) {
	if v.Type() != cty.String {
		return nil, mismatch("expected path, got %s", v.Type().FriendlyName())
	}
	s := v.AsString()
	if s == "" {
		return nil, mismatch("path is empty")
	}
	if strings.ContainsRune(s, 0) {
		return nil, mismatch("path %q contains a NUL byte", s)
	}
	return Path(s), nil
}
