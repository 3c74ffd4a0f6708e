package emit

import (
	"strings"

	"github.com/tumtumtum/AsyncRewriter/rewrite"
)

// pragmaLine suppresses the member-hiding warnings (CS0108, CS0114) that
// generated twins of virtual members raise when the override surgery has
// stripped their modifiers.
const pragmaLine = "#pragma warning disable 108, 114"

const indent = "    "

// Render spells an assembled unit as C# source. A unit with no classes
// renders as the empty string, so callers can skip writing an output file
// at all.
func Render(u *Unit) string {
	if u == nil || !u.hasClasses() {
		return ""
	}

	w := &writer{}
	w.line(pragmaLine)
	for _, us := range u.Usings {
		w.line(strings.TrimSpace(us.Text))
	}
	w.line("")
	for i, ns := range u.Namespaces {
		if i > 0 {
			w.line("")
		}
		w.writeNamespace(ns)
	}
	return w.b.String()
}

type writer struct {
	b     strings.Builder
	depth int
}

// line writes one output line at the current depth. Empty lines stay
// empty; no trailing indentation.
func (w *writer) line(s string) {
	if s != "" {
		for i := 0; i < w.depth; i++ {
			w.b.WriteString(indent)
		}
		w.b.WriteString(s)
	}
	w.b.WriteByte('\n')
}

func (w *writer) writeNamespace(ns *Namespace) {
	if ns.Name == "" {
		w.writeClasses(ns.Classes)
		return
	}
	w.line("namespace " + ns.Name)
	w.line("{")
	w.depth++
	w.writeClasses(ns.Classes)
	w.depth--
	w.line("}")
}

func (w *writer) writeClasses(classes []*rewrite.GeneratedClass) {
	for i, c := range classes {
		if i > 0 {
			w.line("")
		}
		w.writeClass(c)
	}
}

func (w *writer) writeClass(c *rewrite.GeneratedClass) {
	w.line(classHeader(c))
	w.line("{")
	w.depth++
	for i, m := range c.Methods {
		if i > 0 {
			w.line("")
		}
		for _, ln := range m.Lines {
			w.line(ln)
		}
	}
	w.depth--
	w.line("}")
}

func classHeader(c *rewrite.GeneratedClass) string {
	parts := append([]string(nil), c.Modifiers...)
	parts = append(parts, string(c.Kind), c.Name+c.TypeParams)
	header := strings.Join(parts, " ")
	for _, con := range c.Constraints {
		header += " " + con
	}
	return header
}
