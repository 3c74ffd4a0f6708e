package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// CallShape classifies the callee form of an invocation expression.
type CallShape int

const (
	ShapeUnknown CallShape = iota
	ShapeSimple
	ShapeGeneric
	ShapeMember
	ShapeMemberGeneric
	ShapeConditional
)

func (s CallShape) String() string {
	switch s {
	case ShapeSimple:
		return "simple"
	case ShapeGeneric:
		return "generic"
	case ShapeMember:
		return "member"
	case ShapeMemberGeneric:
		return "member_generic"
	case ShapeConditional:
		return "conditional"
	default:
		return "unknown"
	}
}

// CallInfo is the parsed view of one invocation_expression node.
type CallInfo struct {
	Node     *sitter.Node
	Callee   *sitter.Node
	NameNode *sitter.Node
	Receiver *sitter.Node
	ArgList  *sitter.Node
	Args     []*sitter.Node
	Shape    CallShape
	Name     string
	TypeArgs string // verbatim, angle brackets included
}

// ParseCall dissects an invocation_expression node into its callee parts.
func ParseCall(u *syntax.SourceUnit, n *sitter.Node) CallInfo {
	info := CallInfo{Node: n, Shape: ShapeUnknown}
	for _, child := range syntax.NamedChildren(n) {
		if child.Type() == "argument_list" {
			info.ArgList = child
			info.Args = syntax.FindChildren(child, "argument")
			continue
		}
		if info.Callee == nil {
			info.Callee = child
		}
	}
	if info.Callee == nil {
		return info
	}

	switch info.Callee.Type() {
	case "identifier":
		info.Shape = ShapeSimple
		info.NameNode = info.Callee
		info.Name = u.Text(info.Callee)
	case "generic_name":
		info.Shape = ShapeGeneric
		info.NameNode = info.Callee
		info.Name, info.TypeArgs = splitGenericName(u, info.Callee)
	case "member_access_expression":
		kids := syntax.NamedChildren(info.Callee)
		if len(kids) == 0 {
			return info
		}
		if len(kids) >= 2 {
			info.Receiver = kids[0]
		} else if tok := info.Callee.Child(0); tok != nil && !tok.IsNamed() {
			// this and base receivers are anonymous tokens, leaving the
			// member name as the callee's only named child
			switch tok.Content(u.Src) {
			case "this", "base":
				info.Receiver = tok
			}
		}
		if info.Receiver == nil {
			return info
		}
		name := kids[len(kids)-1]
		info.NameNode = name
		switch name.Type() {
		case "identifier":
			info.Shape = ShapeMember
			info.Name = u.Text(name)
		case "generic_name":
			info.Shape = ShapeMemberGeneric
			info.Name, info.TypeArgs = splitGenericName(u, name)
		}
	case "conditional_access_expression":
		// a?.Foo(): the callee carries the receiver in its condition field
		// and the member name inside a member_binding_expression
		info.Shape = ShapeConditional
		info.Receiver = info.Callee.ChildByFieldName("condition")
		if info.Receiver == nil {
			if kids := syntax.NamedChildren(info.Callee); len(kids) > 0 {
				info.Receiver = kids[0]
			}
		}
		if mb := syntax.FindChild(info.Callee, "member_binding_expression"); mb != nil {
			if name := syntax.FindChild(mb, "identifier", "generic_name"); name != nil {
				info.NameNode = name
				if name.Type() == "generic_name" {
					info.Name, info.TypeArgs = splitGenericName(u, name)
				} else {
					info.Name = u.Text(name)
				}
			}
		}
	}
	return info
}

func splitGenericName(u *syntax.SourceUnit, n *sitter.Node) (name, typeArgs string) {
	for _, child := range syntax.NamedChildren(n) {
		switch child.Type() {
		case "identifier":
			name = u.Text(child)
		case "type_argument_list":
			typeArgs = u.Text(child)
		}
	}
	return name, typeArgs
}

// Scope is what the resolver knows about names visible inside one method
// body: parameters first, then every local declaration in document order.
// Locals without a resolvable type still mask outer names.
type Scope struct {
	Method *MethodSymbol
	Model  *Model
	Locals map[string]TypeRef
}

// ScopeFor builds the name scope of a method body.
func (c *Context) ScopeFor(m *MethodSymbol) *Scope {
	s := &Scope{Method: m, Locals: map[string]TypeRef{}}
	if model, ok := c.models[m.Unit]; ok {
		s.Model = model
	}
	for _, p := range m.Parameters {
		s.Locals[p.Name] = p.Type
	}
	if m.Body == nil {
		return s
	}

	syntax.Walk(m.Body, func(n *sitter.Node) bool {
		switch n.Type() {
		case "variable_declaration":
			c.collectDeclaration(s, m, n)
		case "foreach_statement":
			c.collectForeach(s, m, n)
		}
		return true
	})
	return s
}

func (c *Context) collectDeclaration(s *Scope, m *MethodSymbol, n *sitter.Node) {
	u := m.Unit
	var typeNode *sitter.Node
	var decls []*sitter.Node
	for _, child := range syntax.NamedChildren(n) {
		switch {
		case child.Type() == "variable_declarator":
			decls = append(decls, child)
		case child.Type() == "identifier":
			if typeNode == nil {
				typeNode = child
			}
		case syntax.IsTypeNode(child):
			typeNode = child
		}
	}

	typeText := ""
	if typeNode != nil {
		typeText = u.Text(typeNode)
	}
	for _, d := range decls {
		id := syntax.FindChild(d, "identifier")
		if id == nil {
			continue
		}
		name := u.Text(id)
		var ref TypeRef
		if typeText != "" && typeText != "var" {
			ref = TypeRef{
				Text:   typeText,
				Symbol: c.resolveTypeText(typeText, containerNamespace(m), c.usingsFor(u)),
			}
		} else {
			ref = c.inferInitializer(s, m, d)
		}
		if _, exists := s.Locals[name]; !exists {
			s.Locals[name] = ref
		}
	}
}

func (c *Context) collectForeach(s *Scope, m *MethodSymbol, n *sitter.Node) {
	u := m.Unit
	var typeNode, nameNode *sitter.Node
	for _, child := range syntax.NamedChildren(n) {
		switch {
		case child.Type() == "identifier":
			if typeNode == nil {
				typeNode = child
			} else if nameNode == nil {
				nameNode = child
			}
		case syntax.IsTypeNode(child):
			if typeNode == nil {
				typeNode = child
			}
		}
		// the collection expression follows the loop variable; two nodes
		// are all we need
		if nameNode != nil {
			break
		}
	}
	if typeNode == nil || nameNode == nil {
		return
	}

	name := u.Text(nameNode)
	typeText := u.Text(typeNode)
	ref := TypeRef{}
	if typeText != "var" {
		ref = TypeRef{
			Text:   typeText,
			Symbol: c.resolveTypeText(typeText, containerNamespace(m), c.usingsFor(u)),
		}
	}
	if _, exists := s.Locals[name]; !exists {
		s.Locals[name] = ref
	}
}

// inferInitializer types a var declaration from its initializer when the
// initializer is a resolvable call or an object creation.
func (c *Context) inferInitializer(s *Scope, m *MethodSymbol, declarator *sitter.Node) TypeRef {
	u := m.Unit
	root := declarator
	if evc := syntax.FindChild(declarator, "equals_value_clause"); evc != nil {
		root = evc
	}
	expr := syntax.FindChild(root, "invocation_expression", "object_creation_expression")
	if expr == nil {
		return TypeRef{}
	}

	if expr.Type() == "object_creation_expression" {
		tn := syntax.FindChild(expr, "identifier", "qualified_name", "generic_name", "predefined_type")
		if tn == nil {
			return TypeRef{}
		}
		text := u.Text(tn)
		return TypeRef{
			Text:   text,
			Symbol: c.resolveTypeText(text, containerNamespace(m), c.usingsFor(u)),
		}
	}

	rc := c.ResolveCall(s, ParseCall(u, expr))
	if rc == nil {
		return TypeRef{}
	}
	return rc.Method.ReturnType
}

// ResolvedCall is an invocation bound to its target method.
type ResolvedCall struct {
	Method  *MethodSymbol
	Reduced bool // extension method invoked through its receiver
}

// ResolveCall binds an invocation to a method symbol. A nil result means
// the context cannot see a target; such calls are left alone.
func (c *Context) ResolveCall(s *Scope, call CallInfo) *ResolvedCall {
	if call.Name == "" || s == nil || s.Method == nil {
		return nil
	}
	argc := len(call.Args)

	switch call.Shape {
	case ShapeSimple, ShapeGeneric:
		if s.Method.Container == nil {
			return nil
		}
		if m := pickOverload(s.Method.Container.Lookup(call.Name), argc, call); m != nil {
			return &ResolvedCall{Method: m}
		}
	case ShapeMember, ShapeMemberGeneric, ShapeConditional:
		recv := c.receiverType(s, call.Receiver)
		if recv == nil {
			return nil
		}
		if m := pickOverload(recv.Lookup(call.Name), argc, call); m != nil {
			return &ResolvedCall{Method: m}
		}
		for _, ext := range c.Extensions(call.Name) {
			if !extensionApplies(ext, recv) {
				continue
			}
			if arityMatches(ext, call) && argCountCompatible(ext.Parameters[1:], argc) {
				return &ResolvedCall{Method: ext, Reduced: true}
			}
		}
	}
	return nil
}

// receiverType types the receiver expression of a member call.
func (c *Context) receiverType(s *Scope, recv *sitter.Node) *TypeSymbol {
	if recv == nil {
		return nil
	}
	m := s.Method
	u := m.Unit

	// this and base surface as anonymous keyword tokens; grammar revisions
	// that wrap them in expression nodes type them with the _expression names
	switch recv.Type() {
	case "this_expression", "this":
		return m.Container
	case "base_expression", "base":
		if m.Container == nil {
			return nil
		}
		return m.Container.Base()
	case "parenthesized_expression":
		if kids := syntax.NamedChildren(recv); len(kids) == 1 {
			return c.receiverType(s, kids[0])
		}
	case "identifier":
		name := u.Text(recv)
		if ref, ok := s.Locals[name]; ok {
			return ref.Symbol
		}
		if m.Container != nil {
			if ref, ok := m.Container.LookupField(name); ok {
				return ref.Symbol
			}
		}
		return c.resolveTypeText(name, containerNamespace(m), c.usingsFor(u))
	case "member_access_expression":
		kids := syntax.NamedChildren(recv)
		if len(kids) < 2 {
			return nil
		}
		if t := c.receiverType(s, kids[0]); t != nil {
			if ref, ok := t.LookupField(u.Text(kids[len(kids)-1])); ok {
				return ref.Symbol
			}
		}
		// a dotted name can also be a fully qualified static receiver
		return c.resolveTypeText(u.Text(recv), containerNamespace(m), c.usingsFor(u))
	case "invocation_expression":
		rc := c.ResolveCall(s, ParseCall(u, recv))
		if rc == nil {
			return nil
		}
		return rc.Method.ReturnType.Symbol
	case "object_creation_expression":
		tn := syntax.FindChild(recv, "identifier", "qualified_name", "generic_name", "predefined_type")
		if tn == nil {
			return nil
		}
		return c.resolveTypeText(u.Text(tn), containerNamespace(m), c.usingsFor(u))
	}
	return nil
}

func containerNamespace(m *MethodSymbol) string {
	if m.Container == nil {
		return ""
	}
	return m.Container.Namespace
}

// pickOverload chooses among same-name candidates by argument count.
// An exact parameter count wins; otherwise the first compatible candidate
// in lookup order does.
func pickOverload(cands []*MethodSymbol, argc int, call CallInfo) *MethodSymbol {
	var first *MethodSymbol
	for _, m := range cands {
		if !arityMatches(m, call) {
			continue
		}
		if !argCountCompatible(m.Parameters, argc) {
			continue
		}
		if len(m.Parameters) == argc {
			return m
		}
		if first == nil {
			first = m
		}
	}
	return first
}

func arityMatches(m *MethodSymbol, call CallInfo) bool {
	if call.TypeArgs == "" {
		return true
	}
	inner := NormalizeTypeText(call.TypeArgs)
	inner = strings.TrimSuffix(strings.TrimPrefix(inner, "<"), ">")
	return m.Arity == genericArity(inner)
}

func argCountCompatible(params []Parameter, argc int) bool {
	required := 0
	for _, p := range params {
		if !p.Required() {
			break
		}
		required++
	}
	if argc < required {
		return false
	}
	if len(params) > 0 && params[len(params)-1].Params {
		return true
	}
	return argc <= len(params)
}

func extensionApplies(ext *MethodSymbol, recv *TypeSymbol) bool {
	if recv == nil || len(ext.Parameters) == 0 {
		return false
	}
	target := ext.Parameters[0].Type.Symbol
	if target == nil {
		want := NormalizeTypeText(ext.Parameters[0].Type.Text)
		return want == recv.Name || want == NormalizeTypeText(recv.QualifiedName())
	}
	seen := map[*TypeSymbol]bool{}
	for cur := recv; cur != nil && !seen[cur]; cur = cur.Base() {
		seen[cur] = true
		if cur == target {
			return true
		}
	}
	return false
}
