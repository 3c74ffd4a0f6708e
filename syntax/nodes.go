package syntax

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// NamedChildren collects the named children of n in order.
func NamedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	children := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		children = append(children, n.NamedChild(i))
	}
	return children
}

// FindChild returns the first named child of n whose type is one of types,
// or nil.
func FindChild(n *sitter.Node, types ...string) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		for _, t := range types {
			if child.Type() == t {
				return child
			}
		}
	}
	return nil
}

// FindChildren returns all named children of n whose type is one of types.
func FindChildren(n *sitter.Node, types ...string) []*sitter.Node {
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		for _, t := range types {
			if child.Type() == t {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// Walk visits n and every named descendant in document order. Returning
// false from fn stops descent below that node.
func Walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		Walk(n.NamedChild(i), fn)
	}
}

// ContainsType reports whether the subtree rooted at n contains a named
// node of the given type, n itself included.
func ContainsType(n *sitter.Node, nodeType string) bool {
	found := false
	Walk(n, func(c *sitter.Node) bool {
		if found {
			return false
		}
		if c.Type() == nodeType {
			found = true
			return false
		}
		return true
	})
	return found
}

// IsStatement reports whether n is a statement-level node. Blocks count:
// a rewritten call whose parent is a statement needs no parenthesization,
// anywhere else it does.
func IsStatement(n *sitter.Node) bool {
	if n == nil {
		return false
	}
	t := n.Type()
	return t == "block" || strings.HasSuffix(t, "_statement")
}

// HasKeyword reports whether a direct child token of n spells the given
// keyword. Parameter modifiers (this, ref, out, in, params) surface as
// plain tokens in some grammar versions and as named nodes in others, so
// the check goes by text.
func HasKeyword(n *sitter.Node, src []byte, keyword string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child.Content(src) == keyword {
			return true
		}
	}
	return false
}

// typeNodeTypes are the node types that can only be type syntax. A bare
// identifier can also be a type; callers resolve that positionally.
var typeNodeTypes = map[string]bool{
	"predefined_type":       true,
	"generic_name":          true,
	"nullable_type":         true,
	"array_type":            true,
	"qualified_name":        true,
	"alias_qualified_name":  true,
	"tuple_type":            true,
	"pointer_type":          true,
	"function_pointer_type": true,
	"implicit_type":         true,
	"ref_type":              true,
}

// IsTypeNode reports whether n is unambiguously type syntax.
func IsTypeNode(n *sitter.Node) bool {
	return n != nil && typeNodeTypes[n.Type()]
}
