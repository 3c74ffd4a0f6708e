package emit

import (
	"github.com/tumtumtum/AsyncRewriter/rewrite"
	"github.com/tumtumtum/AsyncRewriter/semantic"
)

// requiredUsings back the generated signatures: CancellationToken and the
// Task types. They join every assembled unit that does not already import
// them.
var requiredUsings = []string{
	"System.Threading",
	"System.Threading.Tasks",
}

// Unit is the assembled form of rewritten output: the deduplicated using
// directives and the generated classes grouped by namespace. Units come
// from New and combine with Merge; both leave their inputs untouched.
type Unit struct {
	Usings     []semantic.Using
	Namespaces []*Namespace
}

// Namespace groups generated classes under one namespace name. The empty
// name collects classes declared at the global scope.
type Namespace struct {
	Name    string
	Classes []*rewrite.GeneratedClass
}

// New assembles one unit result: the source unit's own usings in author
// order with the required ones appended when missing, and the generated
// classes grouped by namespace in first-seen order.
func New(res *rewrite.UnitResult) *Unit {
	u := &Unit{}
	seen := map[string]bool{}
	for _, us := range res.Usings {
		u.addUsing(seen, us)
	}
	for _, name := range requiredUsings {
		u.addUsing(seen, semantic.Using{Name: name, Text: "using " + name + ";"})
	}
	for _, gc := range res.Classes {
		ns := u.namespaceFor(gc.Namespace)
		ns.Classes = append(ns.Classes, gc)
	}
	return u
}

// Merge combines assembled units into one: usings deduplicate across
// units, namespaces of the same name collapse into one group with their
// classes concatenated. Everything keeps first-seen order. Merging no
// units yields an empty unit, which renders as the empty string.
func Merge(units []*Unit) *Unit {
	out := &Unit{}
	seen := map[string]bool{}
	for _, u := range units {
		for _, us := range u.Usings {
			out.addUsing(seen, us)
		}
		for _, ns := range u.Namespaces {
			group := out.namespaceFor(ns.Name)
			group.Classes = append(group.Classes, ns.Classes...)
		}
	}
	return out
}

// addUsing appends a using directive unless an equivalent one is already
// present. The key covers the directive form: a static or aliased import
// of a name is not the same directive as a plain one.
func (u *Unit) addUsing(seen map[string]bool, us semantic.Using) {
	if us.Name == "" {
		return
	}
	key := us.Name
	if us.Static {
		key = "static " + key
	}
	if us.Alias != "" {
		key = us.Alias + "=" + key
	}
	if seen[key] {
		return
	}
	seen[key] = true
	u.Usings = append(u.Usings, us)
}

func (u *Unit) namespaceFor(name string) *Namespace {
	for _, ns := range u.Namespaces {
		if ns.Name == name {
			return ns
		}
	}
	ns := &Namespace{Name: name}
	u.Namespaces = append(u.Namespaces, ns)
	return ns
}

func (u *Unit) hasClasses() bool {
	for _, ns := range u.Namespaces {
		if len(ns.Classes) > 0 {
			return true
		}
	}
	return false
}
