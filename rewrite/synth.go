package rewrite

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

const indent = "    "

// synthesize renders both twins of a marked method: the forwarding variant
// first, then the cancellable one. Only the cancellable variant can fail,
// when its rewritten body hits an unsupported call shape.
func synthesize(rc *RunContext, m *semantic.MethodSymbol) ([]GeneratedMethod, error) {
	fwd := forwardingVariant(rc, m)
	canc, err := cancellableVariant(rc, m)
	if err != nil {
		return nil, err
	}
	return []GeneratedMethod{fwd, canc}, nil
}

func twinName(m *semantic.MethodSymbol) string {
	return m.Name + semantic.AsyncSuffix
}

// forwardingVariant is the token-free twin. It is not async: it returns
// the task from the cancellable twin directly, passing CancellationToken.None
// at the boundary index. Bodyless originals get a bodyless twin.
func forwardingVariant(rc *RunContext, m *semantic.MethodSymbol) GeneratedMethod {
	lines := attributeLines(m)

	params := make([]string, 0, len(m.Parameters))
	for _, p := range m.Parameters {
		params = append(params, p.Text)
	}
	sig := signature(twinModifiers(rc, m), false, m, params)

	if m.BodyKind == semantic.NoBody {
		lines = append(lines, sig+";")
		return GeneratedMethod{Name: twinName(m), Lines: lines}
	}

	args := make([]string, 0, len(m.Parameters)+1)
	for _, p := range m.Parameters {
		args = append(args, p.Name)
	}
	args = insertAt(args, m.RequiredCount(), noCancellation)
	call := twinName(m) + m.TypeParams + "(" + strings.Join(args, ", ") + ")"

	lines = append(lines, sig, "{", indent+"return "+call+";", "}")
	return GeneratedMethod{Name: twinName(m), Lines: lines}
}

// cancellableVariant is the twin that does the work: the token parameter
// joins the signature at the boundary index and the original body comes
// along with its rewritable calls turned into suspension points.
func cancellableVariant(rc *RunContext, m *semantic.MethodSymbol) (GeneratedMethod, error) {
	lines := attributeLines(m)

	params := make([]string, 0, len(m.Parameters)+1)
	for _, p := range m.Parameters {
		params = append(params, p.Text)
	}
	params = insertAt(params, m.RequiredCount(), "CancellationToken "+tokenParameterName)

	hasBody := m.BodyKind != semantic.NoBody
	sig := signature(twinModifiers(rc, m), hasBody, m, params)

	if !hasBody {
		lines = append(lines, sig+";")
		return GeneratedMethod{Name: twinName(m), Lines: lines}, nil
	}

	r := newCallRewriter(rc, m)
	switch m.BodyKind {
	case semantic.ArrowBody:
		text, err := r.Rewrite(arrowExpression(m))
		if err != nil {
			return GeneratedMethod{}, err
		}
		lines = append(lines, sig+" => "+text+";")
	default:
		text, err := r.Rewrite(m.Body)
		if err != nil {
			return GeneratedMethod{}, err
		}
		lines = append(lines, sig, "{")
		for _, ln := range blockLines(text) {
			if ln == "" {
				lines = append(lines, "")
			} else {
				lines = append(lines, indent+ln)
			}
		}
		lines = append(lines, "}")
	}
	return GeneratedMethod{Name: twinName(m), Lines: splitLines(lines)}, nil
}

// twinModifiers runs the modifier surgery: override and new drop off
// unless the base chain declares a matching counterpart, and a true marker
// argument swaps the declared visibility for public.
func twinModifiers(rc *RunContext, m *semantic.MethodSymbol) []string {
	keepOverride := rc.KeepOverride(m)
	forcePublic := ForcePublic(m)

	var out []string
	for _, mod := range m.Modifiers {
		switch mod {
		case "override", "new":
			if keepOverride {
				out = append(out, mod)
			}
		case "public", "private", "protected", "internal":
			if !forcePublic {
				out = append(out, mod)
			}
		default:
			out = append(out, mod)
		}
	}
	if forcePublic {
		out = append([]string{"public"}, out...)
	}
	return out
}

// attributeLines renders the original attribute lists minus the marker.
// Lists emptied by the removal disappear entirely.
func attributeLines(m *semantic.MethodSymbol) []string {
	var out []string
	for _, list := range m.AttributeLists {
		var kept []string
		for _, a := range list.Attributes {
			if a.Matches(Marker) {
				continue
			}
			kept = append(kept, a.Text)
		}
		if len(kept) == 0 {
			continue
		}
		out = append(out, "["+strings.Join(kept, ", ")+"]")
	}
	return out
}

func signature(mods []string, async bool, m *semantic.MethodSymbol, params []string) string {
	parts := append([]string(nil), mods...)
	if async {
		parts = append(parts, "async")
	}
	parts = append(parts, wrapReturnType(m.ReturnType.Text), twinName(m)+m.TypeParams)

	sig := strings.Join(parts, " ") + "(" + strings.Join(params, ", ") + ")"
	for _, c := range m.Constraints {
		sig += " " + c
	}
	return sig
}

// wrapReturnType lifts a synchronous return type into the task types the
// twins declare: void becomes Task, anything else Task of itself.
func wrapReturnType(ret string) string {
	ret = strings.TrimSpace(ret)
	if ret == "" || ret == "void" {
		return "Task"
	}
	return "Task<" + ret + ">"
}

func insertAt(items []string, idx int, value string) []string {
	if idx < 0 || idx > len(items) {
		idx = len(items)
	}
	out := make([]string, 0, len(items)+1)
	out = append(out, items[:idx]...)
	out = append(out, value)
	return append(out, items[idx:]...)
}

func arrowExpression(m *semantic.MethodSymbol) *sitter.Node {
	if kids := syntax.NamedChildren(m.Body); len(kids) > 0 {
		return kids[0]
	}
	return m.Body
}

// blockLines strips the braces off a rewritten block and dedents the
// statements to zero so the emitter can re-indent them at its own depth.
func blockLines(text string) []string {
	inner := strings.TrimSpace(text)
	inner = strings.TrimPrefix(inner, "{")
	inner = strings.TrimSuffix(inner, "}")
	if strings.TrimSpace(inner) == "" {
		return nil
	}

	raw := strings.Split(inner, "\n")
	if len(raw) == 1 {
		return []string{strings.TrimSpace(raw[0])}
	}
	return dedent(raw)
}

// dedent removes the longest common leading whitespace from every
// non-blank line and trims blank lines off both ends.
func dedent(lines []string) []string {
	prefix := ""
	first := true
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		ws := leadingWhitespace(ln)
		if first {
			prefix = ws
			first = false
			continue
		}
		prefix = commonPrefix(prefix, ws)
	}

	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if strings.TrimSpace(ln) == "" {
			out = append(out, "")
			continue
		}
		out = append(out, strings.TrimPrefix(ln, prefix))
	}
	for len(out) > 0 && out[0] == "" {
		out = out[1:]
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}

func leadingWhitespace(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[:i]
		}
	}
	return s
}

func commonPrefix(a, b string) string {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// splitLines flattens any embedded newlines, so every element really is
// one output line. Multi-line arrow expressions are the usual source.
func splitLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		out = append(out, strings.Split(ln, "\n")...)
	}
	return out
}
