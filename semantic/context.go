package semantic

import (
	"strconv"
	"strings"

	"github.com/tumtumtum/AsyncRewriter/errors"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// Context is the semantic model over a set of source units. Build it once,
// then treat it as immutable.
type Context struct {
	units  []*syntax.SourceUnit
	refs   []*syntax.SourceUnit
	models map[*syntax.SourceUnit]*Model

	types      map[string]*TypeSymbol // keyed by qualified name, arity-suffixed when generic
	bySimple   map[string][]*TypeSymbol
	extensions map[string][]*MethodSymbol
	all        []*TypeSymbol
}

// Build declares and binds every unit. units are rewrite candidates; refs
// participate in resolution only. Both orders are preserved.
func Build(units, refs []*syntax.SourceUnit) (*Context, error) {
	c := &Context{
		units:      units,
		refs:       refs,
		models:     map[*syntax.SourceUnit]*Model{},
		types:      map[string]*TypeSymbol{},
		bySimple:   map[string][]*TypeSymbol{},
		extensions: map[string][]*MethodSymbol{},
	}

	for _, t := range universe() {
		c.register(t)
	}

	for _, u := range append(append([]*syntax.SourceUnit{}, units...), refs...) {
		if _, dup := c.models[u]; dup {
			return nil, errors.InvalidInput(errors.PhaseBind, "source unit "+u.Path+" supplied twice")
		}
		m := declareUnit(u)
		c.models[u] = m
		for i, t := range m.Types {
			m.Types[i] = c.register(t)
		}
	}

	c.resolveAll()
	c.indexExtensions()
	return c, nil
}

// register adds a declared type to the lookup tables. Partial declarations
// of the same type merge into the first-seen symbol.
func (c *Context) register(t *TypeSymbol) *TypeSymbol {
	key := typeKey(t.QualifiedName(), t.Arity)
	if existing, ok := c.types[key]; ok {
		if existing.Kind == t.Kind && existing.HasModifier("partial") && t.HasModifier("partial") {
			for _, m := range t.Methods {
				m.Container = existing
			}
			existing.Methods = append(existing.Methods, t.Methods...)
			for name, ref := range t.Fields {
				if _, dup := existing.Fields[name]; !dup {
					existing.Fields[name] = ref
				}
			}
			existing.BaseRefs = append(existing.BaseRefs, t.BaseRefs...)
			return existing
		}
		// colliding non-partial declaration: keep it resolvable through its
		// own members but do not shadow the registered one
		c.bySimple[t.Name] = append(c.bySimple[t.Name], t)
		c.all = append(c.all, t)
		return t
	}

	c.types[key] = t
	c.bySimple[t.Name] = append(c.bySimple[t.Name], t)
	c.all = append(c.all, t)
	return t
}

func typeKey(qualified string, arity int) string {
	if arity == 0 {
		return qualified
	}
	return qualified + "`" + strconv.Itoa(arity)
}

// resolveAll is the second pass: every textual type reference gets a shot
// at binding to a registered symbol.
func (c *Context) resolveAll() {
	for _, t := range c.all {
		if t.Builtin {
			continue
		}
		usings := c.usingsFor(t.Unit)
		for i := range t.BaseRefs {
			if t.BaseRefs[i].Symbol == nil {
				t.BaseRefs[i].Symbol = c.resolveTypeText(t.BaseRefs[i].Text, t.Namespace, usings)
			}
		}
		for name, ref := range t.Fields {
			if ref.Symbol == nil {
				ref.Symbol = c.resolveTypeText(ref.Text, t.Namespace, usings)
				t.Fields[name] = ref
			}
		}
		for _, m := range t.Methods {
			mu := usings
			if m.Unit != t.Unit {
				mu = c.usingsFor(m.Unit)
			}
			if m.ReturnType.Symbol == nil {
				m.ReturnType.Symbol = c.resolveTypeText(m.ReturnType.Text, t.Namespace, mu)
			}
			for i := range m.Parameters {
				if m.Parameters[i].Type.Symbol == nil {
					m.Parameters[i].Type.Symbol = c.resolveTypeText(m.Parameters[i].Type.Text, t.Namespace, mu)
				}
			}
		}
	}
}

func (c *Context) usingsFor(u *syntax.SourceUnit) []Using {
	if u == nil {
		return nil
	}
	if m, ok := c.models[u]; ok {
		return m.Usings
	}
	return nil
}

func (c *Context) indexExtensions() {
	for _, t := range c.all {
		for _, m := range t.Methods {
			if m.IsExtension() && m.IsStatic() {
				c.extensions[m.Name] = append(c.extensions[m.Name], m)
			}
		}
	}
}

// resolveTypeText resolves a type name as written in source, from the
// viewpoint of namespace ns with the given using directives in scope.
// Composite types (arrays, pointers, tuples) stay textual.
func (c *Context) resolveTypeText(text, ns string, usings []Using) *TypeSymbol {
	t := NormalizeTypeText(text)
	t = strings.TrimPrefix(t, "global::")
	t = strings.TrimSuffix(t, "?")
	if t == "" || t == "var" {
		return nil
	}
	if strings.HasSuffix(t, "]") || strings.HasSuffix(t, "*") || strings.HasPrefix(t, "(") {
		return nil
	}
	if alias, ok := keywordAliases[t]; ok {
		return c.types[alias]
	}

	arity := 0
	if idx := strings.IndexByte(t, '<'); idx >= 0 {
		if !strings.HasSuffix(t, ">") {
			return nil
		}
		arity = genericArity(t[idx+1 : len(t)-1])
		t = t[:idx]
	}

	lookup := func(q string) *TypeSymbol {
		return c.types[typeKey(q, arity)]
	}

	if sym := lookup(t); sym != nil {
		return sym
	}

	first, rest, qualified := strings.Cut(t, ".")
	for _, u := range usings {
		if u.Alias == "" || u.Alias != first {
			continue
		}
		if !qualified {
			if sym := lookup(u.Name); sym != nil {
				return sym
			}
		} else if sym := lookup(u.Name + "." + rest); sym != nil {
			return sym
		}
	}

	for cur := ns; cur != ""; cur = parentNamespace(cur) {
		if sym := lookup(cur + "." + t); sym != nil {
			return sym
		}
	}

	if !qualified {
		for _, u := range usings {
			if u.Static || u.Alias != "" {
				continue
			}
			if sym := lookup(u.Name + "." + t); sym != nil {
				return sym
			}
		}
		// unique simple-name match as a last resort
		var found *TypeSymbol
		for _, cand := range c.bySimple[t] {
			if cand.Arity != arity {
				continue
			}
			if found != nil && found != cand {
				return nil
			}
			found = cand
		}
		return found
	}
	return nil
}

func genericArity(args string) int {
	depth, n := 0, 1
	for _, ch := range args {
		switch ch {
		case '<':
			depth++
		case '>':
			depth--
		case ',':
			if depth == 0 {
				n++
			}
		}
	}
	return n
}

func parentNamespace(ns string) string {
	idx := strings.LastIndex(ns, ".")
	if idx < 0 {
		return ""
	}
	return ns[:idx]
}

// ResolveType resolves a fully qualified type name the way configuration
// strings spell them. Generic types configured without an arity marker
// match when only one arity exists.
func (c *Context) ResolveType(name string) *TypeSymbol {
	t := NormalizeTypeText(name)
	t = strings.TrimPrefix(t, "global::")
	if alias, ok := keywordAliases[t]; ok {
		t = alias
	}
	if sym, ok := c.types[t]; ok {
		return sym
	}

	var found *TypeSymbol
	prefix := t + "`"
	for key, sym := range c.types {
		if strings.HasPrefix(key, prefix) {
			if found != nil {
				return nil
			}
			found = sym
		}
	}
	if found != nil {
		return found
	}

	if !strings.Contains(t, ".") {
		var unique *TypeSymbol
		for _, cand := range c.bySimple[t] {
			if unique != nil && unique != cand {
				return nil
			}
			unique = cand
		}
		return unique
	}
	return nil
}

// ModelFor returns the bound model of a unit, or a missing-binding error
// for units this context never saw.
func (c *Context) ModelFor(u *syntax.SourceUnit) (*Model, error) {
	m, ok := c.models[u]
	if !ok {
		path := "<nil>"
		if u != nil {
			path = u.Path
		}
		return nil, errors.MissingBinding(path)
	}
	return m, nil
}

// Units returns the rewrite-candidate units in input order.
func (c *Context) Units() []*syntax.SourceUnit {
	return c.units
}

// References returns the reference-only units in input order.
func (c *Context) References() []*syntax.SourceUnit {
	return c.refs
}

// Types returns every known type in registration order, built-ins first.
func (c *Context) Types() []*TypeSymbol {
	return c.all
}

// Extensions returns the registered extension methods with the given name.
func (c *Context) Extensions(name string) []*MethodSymbol {
	return c.extensions[name]
}
