package rewrite

import (
	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// GeneratedMethod is one synthesized method. Lines hold the rendered
// source at zero indentation relative to the class body; the emitter
// applies the enclosing depth.
type GeneratedMethod struct {
	Name  string
	Lines []string
}

// GeneratedClass collects the twins generated for one containing type. The
// declaration mirrors the original type so the output compiles alongside
// it: same kind, name, type parameters and constraints, with partial
// ensured on the modifier list.
type GeneratedClass struct {
	Name        string
	Namespace   string
	Kind        semantic.TypeKind
	Modifiers   []string
	TypeParams  string
	Constraints []string
	Methods     []GeneratedMethod
}

func newGeneratedClass(t *semantic.TypeSymbol) *GeneratedClass {
	mods := append([]string(nil), t.Modifiers...)
	if !t.HasModifier("partial") {
		mods = append(mods, "partial")
	}
	return &GeneratedClass{
		Name:        t.Name,
		Namespace:   t.Namespace,
		Kind:        t.Kind,
		Modifiers:   mods,
		TypeParams:  t.TypeParams,
		Constraints: append([]string(nil), t.Constraints...),
	}
}

// UnitResult is the outcome of rewriting one source unit: the using
// directives the generated code inherits and the classes holding its
// twins. Engines return nil instead of an empty result when a unit has no
// marked methods.
type UnitResult struct {
	Unit    *syntax.SourceUnit
	Usings  []semantic.Using
	Classes []*GeneratedClass
}
