package binder

import (
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	"github.com/vk/funcli/internal/introspect"
)

const (
	helpWidth    = 80
	helpPosition = 24
)

// invocation renders a flag with its value placeholder, e.g.
// `--names list [list ...]`.
func invocation(def *flagDef) string {
	if def.help {
		return "-h, --help"
	}
	if def.spec.Shape == introspect.ShapeSingle {
		return def.spec.Flag + " " + def.metavar
	}
	return fmt.Sprintf("%s %s [%s ...]", def.spec.Flag, def.metavar, def.metavar)
}

// usageParts returns the words of the synopsis: the program name, the help
// flag, then one entry per parameter with optional flags in brackets.
func usageParts(prog string, t *flagTable) []string {
	parts := []string{prog, "[-h]"}
	for _, def := range t.params() {
		inv := invocation(def)
		if def.spec.Required() {
			parts = append(parts, inv)
		} else {
			parts = append(parts, "["+inv+"]")
		}
	}
	return parts
}

// usageLine renders the one-line synopsis without the "usage: " prefix.
func usageLine(prog string, t *flagTable) string {
	return strings.Join(usageParts(prog, t), " ")
}

// writeUsage prints the synopsis. Long synopses wrap between flags and
// continue under the program name.
func writeUsage(w io.Writer, parts []string) {
	const prefix = "usage: "
	indent := strings.Repeat(" ", len(prefix))

	line := prefix
	for i, part := range parts {
		switch {
		case i == 0:
			line += part
		case len(line)+1+len(part) > helpWidth:
			fmt.Fprintln(w, line)
			line = indent + part
		default:
			line += " " + part
		}
	}
	fmt.Fprintln(w, line)
}

// writeHelp prints the full help text: synopsis, description, one entry
// per flag, and the epilog.
func writeHelp(w io.Writer, prog, description, epilog string, t *flagTable) {
	writeUsage(w, usageParts(prog, t))

	if description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordwrap.WrapString(description, helpWidth))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "options:")
	for _, def := range t.defs {
		text := "show this help message and exit"
		if !def.help {
			text = def.spec.Description
		}
		writeFlagHelp(w, invocation(def), text)
	}

	if epilog != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, wordwrap.WrapString(epilog, helpWidth))
	}
}

func writeFlagHelp(w io.Writer, inv, text string) {
	head := "  " + inv
	if text == "" {
		fmt.Fprintln(w, head)
		return
	}

	pad := strings.Repeat(" ", helpPosition)
	lines := strings.Split(wordwrap.WrapString(text, helpWidth-helpPosition), "\n")
	if len(head)+2 <= helpPosition {
		fmt.Fprintf(w, "%-*s%s\n", helpPosition, head, lines[0])
		lines = lines[1:]
	} else {
		fmt.Fprintln(w, head)
	}
	for _, line := range lines {
		fmt.Fprintln(w, pad+line)
	}
}
