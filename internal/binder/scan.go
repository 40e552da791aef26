package binder

import (
	"regexp"
	"strings"

	"github.com/vk/funcli/internal/introspect"
)

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// occurrence is one appearance of a flag with the value tokens it consumed.
type occurrence struct {
	def    *flagDef
	values []string
}

type scanResult struct {
	occurrences []occurrence
	extras      []string
	help        bool
}

// looksLikeFlag reports whether tok should be read as a flag rather than a
// value. Negative numbers and tokens containing spaces are values.
func looksLikeFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' {
		return false
	}
	if negativeNumber.MatchString(tok) {
		return false
	}
	return !strings.Contains(tok, " ")
}

// scan walks the tokens once. Single flags take exactly one value; repeated
// flags greedily take values until the next flag-like token or "--".
// Unknown flags and stray values are collected as extras.
func scan(t *flagTable, tokens []string) (*scanResult, error) {
	res := &scanResult{}

	for i := 0; i < len(tokens); {
		tok := tokens[i]
		i++

		if tok == "--" {
			res.extras = append(res.extras, tokens[i:]...)
			break
		}
		if !looksLikeFlag(tok) {
			res.extras = append(res.extras, tok)
			continue
		}
		if tok == "-h" {
			res.help = true
			return res, nil
		}
		if !strings.HasPrefix(tok, "--") {
			res.extras = append(res.extras, tok)
			continue
		}

		name, value, hasValue := strings.Cut(tok, "=")
		def, err := t.lookup(name)
		if err != nil {
			return nil, err
		}
		if def == nil {
			res.extras = append(res.extras, tok)
			continue
		}
		if def.help {
			if hasValue {
				return nil, usageErrorf("argument -h/--help: ignored explicit argument %q", value)
			}
			res.help = true
			return res, nil
		}

		if hasValue {
			res.occurrences = append(res.occurrences, occurrence{def: def, values: []string{value}})
			continue
		}

		var values []string
		if def.spec.Shape == introspect.ShapeSingle {
			if i < len(tokens) && tokens[i] != "--" && !looksLikeFlag(tokens[i]) {
				values = append(values, tokens[i])
				i++
			}
			if len(values) == 0 {
				return nil, usageErrorf("argument %s: expected one argument", def.spec.Flag)
			}
		} else {
			for i < len(tokens) && tokens[i] != "--" && !looksLikeFlag(tokens[i]) {
				values = append(values, tokens[i])
				i++
			}
			if len(values) == 0 {
				return nil, usageErrorf("argument %s: expected at least one argument", def.spec.Flag)
			}
		}
		res.occurrences = append(res.occurrences, occurrence{def: def, values: values})
	}

	return res, nil
}
