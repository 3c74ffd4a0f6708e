package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// AsyncSuffix is appended to a method name to form its generated twin's name.
const AsyncSuffix = "Async"

// TypeKind distinguishes the declaration forms a TypeSymbol can come from.
type TypeKind string

const (
	KindClass     TypeKind = "class"
	KindStruct    TypeKind = "struct"
	KindInterface TypeKind = "interface"
)

// TypeRef is a type as written in source. Symbol is set when the written
// name resolved against the context; unresolved references compare by
// normalized text.
type TypeRef struct {
	Text   string
	Symbol *TypeSymbol
}

// IsResolved reports whether the reference bound to a known type.
func (r TypeRef) IsResolved() bool {
	return r.Symbol != nil
}

// Equal compares two references: by symbol identity when both resolved,
// by normalized source text otherwise.
func (r TypeRef) Equal(o TypeRef) bool {
	if r.Symbol != nil && o.Symbol != nil {
		return r.Symbol == o.Symbol
	}
	return NormalizeTypeText(r.Text) == NormalizeTypeText(o.Text)
}

// NormalizeTypeText strips insignificant whitespace from a type's source
// text so `Dictionary<string, int>` and `Dictionary<string,int>` compare
// equal.
func NormalizeTypeText(text string) string {
	var b strings.Builder
	for _, ch := range text {
		switch ch {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

// Parameter describes one declared parameter.
type Parameter struct {
	Name     string
	Type     TypeRef
	Text     string // verbatim declaration
	This     bool   // extension-method receiver
	Params   bool   // variadic
	Optional bool   // carries a default value
	Default  string // default value text, without the equals sign
}

// Required reports whether the parameter must be supplied at every call
// site.
func (p Parameter) Required() bool {
	return !p.Optional && !p.Params
}

// ParameterListEqual compares two parameter lists by name and type,
// position by position.
func ParameterListEqual(a, b []Parameter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Type.Equal(b[i].Type) {
			return false
		}
	}
	return true
}

// Attribute is one attribute applied to a declaration.
type Attribute struct {
	Name string   // final name segment, argument list stripped
	Args []string // verbatim argument texts
	Text string   // verbatim attribute text, brackets excluded
}

// Matches reports whether the attribute spells the given short name,
// with or without the conventional Attribute suffix.
func (a Attribute) Matches(name string) bool {
	return a.Name == name || a.Name == name+"Attribute"
}

// AttributeList is one bracketed attribute group.
type AttributeList struct {
	Attributes []Attribute
}

// BodyKind distinguishes how a method carries its body.
type BodyKind int

const (
	NoBody BodyKind = iota
	BlockBody
	ArrowBody
)

// MethodSymbol describes a method declaration.
type MethodSymbol struct {
	Name           string
	TypeParams     string // verbatim, angle brackets included; empty when non-generic
	Arity          int
	Parameters     []Parameter
	ReturnType     TypeRef
	Modifiers      []string
	AttributeLists []AttributeList
	Constraints    []string // verbatim where clauses
	Container      *TypeSymbol
	BodyKind       BodyKind

	Decl *sitter.Node // method_declaration node; nil for built-in methods
	Body *sitter.Node // block or arrow_expression_clause; nil when bodyless
	Unit *syntax.SourceUnit
}

// IsExtension reports whether the method is an extension method.
func (m *MethodSymbol) IsExtension() bool {
	return len(m.Parameters) > 0 && m.Parameters[0].This
}

// HasModifier reports whether the declaration carries the given modifier.
func (m *MethodSymbol) HasModifier(name string) bool {
	for _, mod := range m.Modifiers {
		if mod == name {
			return true
		}
	}
	return false
}

// IsStatic reports whether the method is static.
func (m *MethodSymbol) IsStatic() bool {
	return m.HasModifier("static")
}

// RequiredCount returns the number of leading parameters that are neither
// optional nor variadic. This is the boundary index where a cancellation
// parameter slots in.
func (m *MethodSymbol) RequiredCount() int {
	n := 0
	for _, p := range m.Parameters {
		if !p.Required() {
			break
		}
		n++
	}
	return n
}

// Attribute returns the first attribute matching name across all lists.
func (m *MethodSymbol) Attribute(name string) (Attribute, bool) {
	for _, list := range m.AttributeLists {
		for _, a := range list.Attributes {
			if a.Matches(name) {
				return a, true
			}
		}
	}
	return Attribute{}, false
}

// Signature renders a short display form for logs and errors.
func (m *MethodSymbol) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteString(m.TypeParams)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Type.Text)
	}
	b.WriteByte(')')
	return b.String()
}

// TypeSymbol describes a class, struct or interface declaration, or a
// built-in well-known type.
type TypeSymbol struct {
	Name        string
	Namespace   string
	TypeParams  string
	Arity       int
	Kind        TypeKind
	Modifiers   []string
	BaseRefs    []TypeRef
	Constraints []string
	Methods     []*MethodSymbol
	Fields      map[string]TypeRef // fields and auto-properties by name
	Builtin     bool

	Decl *sitter.Node
	Unit *syntax.SourceUnit
}

// QualifiedName joins namespace and name.
func (t *TypeSymbol) QualifiedName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

// HasModifier reports whether the declaration carries the given modifier.
func (t *TypeSymbol) HasModifier(name string) bool {
	for _, mod := range t.Modifiers {
		if mod == name {
			return true
		}
	}
	return false
}

// IsStatic reports whether the type is a static class.
func (t *TypeSymbol) IsStatic() bool {
	return t.HasModifier("static")
}

// Base returns the resolved base class, nil when none resolved. Interface
// entries in the base list do not count.
func (t *TypeSymbol) Base() *TypeSymbol {
	for _, ref := range t.BaseRefs {
		if ref.Symbol == nil {
			continue
		}
		if ref.Symbol.Kind == KindInterface {
			continue
		}
		return ref.Symbol
	}
	return nil
}

// MethodsNamed returns the methods of this type (no inherited ones) with
// the given name.
func (t *TypeSymbol) MethodsNamed(name string) []*MethodSymbol {
	var out []*MethodSymbol
	for _, m := range t.Methods {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// FieldType looks a field or property up on this type only.
func (t *TypeSymbol) FieldType(name string) (TypeRef, bool) {
	ref, ok := t.Fields[name]
	return ref, ok
}

// Lookup collects methods with the given name on this type and up its base
// chain, nearest declarations first.
func (t *TypeSymbol) Lookup(name string) []*MethodSymbol {
	var out []*MethodSymbol
	seen := map[*TypeSymbol]bool{}
	for cur := t; cur != nil && !seen[cur]; cur = cur.Base() {
		seen[cur] = true
		out = append(out, cur.MethodsNamed(name)...)
	}
	return out
}

// LookupField resolves a field or property name on this type and up its
// base chain.
func (t *TypeSymbol) LookupField(name string) (TypeRef, bool) {
	seen := map[*TypeSymbol]bool{}
	for cur := t; cur != nil && !seen[cur]; cur = cur.Base() {
		seen[cur] = true
		if ref, ok := cur.Fields[name]; ok {
			return ref, true
		}
	}
	return TypeRef{}, false
}
