package semantic

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// Using is one using directive of a unit.
type Using struct {
	Name   string // canonical imported name, whitespace collapsed
	Text   string // verbatim directive text
	Static bool
	Alias  string
}

// Model is the bound view of one source unit: its using directives, the
// types it declares, and a mapping from declaration nodes back to symbols.
type Model struct {
	Unit   *syntax.SourceUnit
	Usings []Using
	Types  []*TypeSymbol

	methodByStart map[uint32]*MethodSymbol
}

// MethodAt maps a method_declaration node back to its symbol.
func (m *Model) MethodAt(n *sitter.Node) (*MethodSymbol, bool) {
	sym, ok := m.methodByStart[n.StartByte()]
	return sym, ok
}

// declareUnit runs the declaration pass over one unit. Type references
// stay textual until the whole context resolves them.
func declareUnit(u *syntax.SourceUnit) *Model {
	m := &Model{
		Unit:          u,
		methodByStart: map[uint32]*MethodSymbol{},
	}
	declareScope(m, u.Root(), "")
	return m
}

// declareScope walks one declaration scope: the compilation unit or a
// namespace body.
func declareScope(m *Model, scope *sitter.Node, ns string) {
	for _, child := range syntax.NamedChildren(scope) {
		switch child.Type() {
		case "using_directive":
			m.Usings = append(m.Usings, parseUsing(m.Unit, child))
		case "namespace_declaration":
			name := namespaceName(m.Unit, child)
			if body := syntax.FindChild(child, "declaration_list"); body != nil {
				declareScope(m, body, joinNamespace(ns, name))
			}
		case "file_scoped_namespace_declaration":
			// Member declarations follow the directive as siblings of the
			// compilation unit, so rescope the remaining children. The
			// recursion covers revisions that nest members under the node.
			ns = joinNamespace(ns, namespaceName(m.Unit, child))
			declareScope(m, child, ns)
		case "class_declaration", "struct_declaration", "interface_declaration":
			declareType(m, child, ns)
		}
	}
}

func namespaceName(u *syntax.SourceUnit, node *sitter.Node) string {
	name := syntax.FindChild(node, "qualified_name", "identifier")
	if name == nil {
		return ""
	}
	return u.Text(name)
}

func joinNamespace(outer, inner string) string {
	if outer == "" {
		return inner
	}
	if inner == "" {
		return outer
	}
	return outer + "." + inner
}

func parseUsing(u *syntax.SourceUnit, node *sitter.Node) Using {
	using := Using{
		Text:   strings.TrimSpace(u.Text(node)),
		Static: syntax.HasKeyword(node, u.Src, "static"),
	}

	var names []*sitter.Node
	for _, child := range syntax.NamedChildren(node) {
		switch child.Type() {
		case "name_equals":
			// some grammar revisions nest the alias under a name_equals node
			if id := syntax.FindChild(child, "identifier"); id != nil {
				using.Alias = u.Text(id)
			}
		case "identifier", "qualified_name":
			names = append(names, child)
		}
	}
	// An alias directive surfaces as two name children: the bare alias
	// identifier first, then the imported name.
	if using.Alias == "" && len(names) > 1 {
		using.Alias = u.Text(names[0])
		names = names[1:]
	}
	if len(names) > 0 {
		using.Name = NormalizeTypeText(u.Text(names[len(names)-1]))
	}
	return using
}

func declareType(m *Model, node *sitter.Node, ns string) {
	t := &TypeSymbol{
		Namespace: ns,
		Fields:    map[string]TypeRef{},
		Decl:      node,
		Unit:      m.Unit,
	}
	switch node.Type() {
	case "class_declaration":
		t.Kind = KindClass
	case "struct_declaration":
		t.Kind = KindStruct
	case "interface_declaration":
		t.Kind = KindInterface
	}

	u := m.Unit
	var body *sitter.Node
	for _, child := range syntax.NamedChildren(node) {
		switch child.Type() {
		case "identifier":
			if t.Name == "" {
				t.Name = u.Text(child)
			}
		case "modifier":
			t.Modifiers = append(t.Modifiers, u.Text(child))
		case "type_parameter_list":
			t.TypeParams = u.Text(child)
			t.Arity = len(syntax.FindChildren(child, "type_parameter"))
		case "type_parameter_constraints_clause":
			t.Constraints = append(t.Constraints, u.Text(child))
		case "base_list":
			for _, base := range syntax.NamedChildren(child) {
				switch base.Type() {
				case "identifier", "qualified_name", "generic_name", "predefined_type":
					t.BaseRefs = append(t.BaseRefs, TypeRef{Text: u.Text(base)})
				}
			}
		case "declaration_list":
			body = child
		}
	}
	if t.Name == "" {
		return
	}
	m.Types = append(m.Types, t)
	if body == nil {
		return
	}

	for _, member := range syntax.NamedChildren(body) {
		switch member.Type() {
		case "method_declaration":
			declareMethod(m, t, member)
		case "field_declaration":
			declareField(m, t, member)
		case "property_declaration":
			declareProperty(m, t, member)
		case "class_declaration", "struct_declaration", "interface_declaration":
			// nested declarations surface as independent symbols, the way
			// their generated twins group at emission
			declareType(m, member, ns)
		}
	}
}

func declareMethod(m *Model, t *TypeSymbol, node *sitter.Node) {
	u := m.Unit
	sym := &MethodSymbol{
		Container: t,
		Decl:      node,
		Unit:      u,
	}

	var identifiers []*sitter.Node
	sawParams := false
	for _, child := range syntax.NamedChildren(node) {
		switch child.Type() {
		case "modifier":
			sym.Modifiers = append(sym.Modifiers, u.Text(child))
		case "attribute_list":
			sym.AttributeLists = append(sym.AttributeLists, parseAttributeList(u, child))
		case "type_parameter_list":
			sym.TypeParams = u.Text(child)
			sym.Arity = len(syntax.FindChildren(child, "type_parameter"))
		case "type_parameter_constraints_clause":
			sym.Constraints = append(sym.Constraints, u.Text(child))
		case "parameter_list":
			sawParams = true
			sym.Parameters = parseParameterList(u, child)
		case "block":
			sym.BodyKind = BlockBody
			sym.Body = child
		case "arrow_expression_clause":
			sym.BodyKind = ArrowBody
			sym.Body = child
		case "void_keyword":
			sym.ReturnType = TypeRef{Text: "void"}
		case "identifier":
			if !sawParams {
				identifiers = append(identifiers, child)
			}
		default:
			if syntax.IsTypeNode(child) && !sawParams && sym.ReturnType.Text == "" {
				sym.ReturnType = TypeRef{Text: u.Text(child)}
			}
		}
	}

	// The last identifier before the parameter list is the method name; a
	// preceding bare identifier is the return type.
	if len(identifiers) == 0 {
		return
	}
	sym.Name = u.Text(identifiers[len(identifiers)-1])
	if sym.ReturnType.Text == "" && len(identifiers) > 1 {
		sym.ReturnType = TypeRef{Text: u.Text(identifiers[0])}
	}
	if sym.Name == "" {
		return
	}

	t.Methods = append(t.Methods, sym)
	m.methodByStart[node.StartByte()] = sym
}

func parseParameterList(u *syntax.SourceUnit, list *sitter.Node) []Parameter {
	var out []Parameter

	// A params parameter gets no parameter node of its own in this grammar
	// revision: the list carries a bare params token followed by the element
	// type and the name as direct children. Collect that run into one
	// variadic parameter; parameter_array covers revisions that nest it.
	inParams := false
	var paramsStart uint32
	var paramsType *sitter.Node
	for i := 0; i < int(list.ChildCount()); i++ {
		node := list.Child(i)
		switch {
		case node.Type() == "parameter" || node.Type() == "parameter_array":
			out = append(out, parseParameter(u, node))
		case !node.IsNamed():
			if node.Content(u.Src) == "params" {
				inParams = true
				paramsStart = node.StartByte()
				paramsType = nil
			}
		case !inParams:
		case node.Type() == "identifier" && paramsType != nil:
			out = append(out, Parameter{
				Text:   u.Slice(paramsStart, node.EndByte()),
				Name:   u.Text(node),
				Type:   TypeRef{Text: u.Text(paramsType)},
				Params: true,
			})
			inParams = false
		case syntax.IsTypeNode(node) || node.Type() == "identifier":
			paramsType = node
		}
	}
	return out
}

func parseParameter(u *syntax.SourceUnit, node *sitter.Node) Parameter {
	p := Parameter{
		Text:   strings.TrimSpace(u.Text(node)),
		This:   syntax.HasKeyword(node, u.Src, "this"),
		Params: node.Type() == "parameter_array" || syntax.HasKeyword(node, u.Src, "params"),
	}

	// A default value makes the parameter optional. Grammar versions differ
	// on whether the value sits in an equals_value_clause or after a bare
	// equals token.
	defaultStart := node.EndByte()
	if evc := syntax.FindChild(node, "equals_value_clause"); evc != nil {
		p.Optional = true
		p.Default = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(u.Text(evc)), "="))
		defaultStart = evc.StartByte()
	} else {
		for i := 0; i < int(node.ChildCount()); i++ {
			child := node.Child(i)
			if child.Content(u.Src) == "=" {
				p.Optional = true
				p.Default = strings.TrimSpace(u.Slice(child.EndByte(), node.EndByte()))
				defaultStart = child.StartByte()
				break
			}
		}
	}

	var identifiers []*sitter.Node
	var typeNode *sitter.Node
	for _, child := range syntax.NamedChildren(node) {
		if child.StartByte() >= defaultStart {
			break
		}
		switch {
		case child.Type() == "identifier":
			identifiers = append(identifiers, child)
		case child.Type() == "attribute_list", child.Type() == "equals_value_clause":
			// not part of the type or name
		case syntax.IsTypeNode(child):
			typeNode = child
		}
	}

	if len(identifiers) > 0 {
		p.Name = u.Text(identifiers[len(identifiers)-1])
	}
	switch {
	case typeNode != nil:
		p.Type = TypeRef{Text: u.Text(typeNode)}
	case len(identifiers) > 1:
		p.Type = TypeRef{Text: u.Text(identifiers[0])}
	}
	return p
}

func parseAttributeList(u *syntax.SourceUnit, list *sitter.Node) AttributeList {
	var out AttributeList
	for _, node := range syntax.FindChildren(list, "attribute") {
		out.Attributes = append(out.Attributes, parseAttribute(u, node))
	}
	return out
}

func parseAttribute(u *syntax.SourceUnit, node *sitter.Node) Attribute {
	a := Attribute{Text: strings.TrimSpace(u.Text(node))}

	var nameNode *sitter.Node
	for _, child := range syntax.NamedChildren(node) {
		switch child.Type() {
		case "identifier", "qualified_name", "generic_name":
			if nameNode == nil {
				nameNode = child
			}
		case "attribute_argument_list":
			for _, arg := range syntax.FindChildren(child, "attribute_argument") {
				a.Args = append(a.Args, strings.TrimSpace(u.Text(arg)))
			}
		}
	}
	if nameNode != nil {
		name := u.Text(nameNode)
		if idx := strings.LastIndex(name, "."); idx >= 0 {
			name = name[idx+1:]
		}
		if idx := strings.IndexByte(name, '<'); idx >= 0 {
			name = name[:idx]
		}
		a.Name = name
	}
	return a
}

func declareField(m *Model, t *TypeSymbol, node *sitter.Node) {
	u := m.Unit
	decl := syntax.FindChild(node, "variable_declaration")
	if decl == nil {
		return
	}

	typeText := ""
	var names []string
	for _, child := range syntax.NamedChildren(decl) {
		switch {
		case child.Type() == "variable_declarator":
			if id := syntax.FindChild(child, "identifier"); id != nil {
				names = append(names, u.Text(id))
			}
		case child.Type() == "identifier":
			if typeText == "" {
				typeText = u.Text(child)
			}
		case syntax.IsTypeNode(child):
			typeText = u.Text(child)
		}
	}
	for _, name := range names {
		t.Fields[name] = TypeRef{Text: typeText}
	}
}

func declareProperty(m *Model, t *TypeSymbol, node *sitter.Node) {
	u := m.Unit
	var identifiers []*sitter.Node
	var typeNode *sitter.Node
	for _, child := range syntax.NamedChildren(node) {
		switch {
		case child.Type() == "identifier":
			identifiers = append(identifiers, child)
		case child.Type() == "accessor_list", child.Type() == "arrow_expression_clause":
			// body, not part of the signature
		case syntax.IsTypeNode(child):
			typeNode = child
		}
	}
	if len(identifiers) == 0 {
		return
	}

	name := u.Text(identifiers[len(identifiers)-1])
	typeText := ""
	switch {
	case typeNode != nil:
		typeText = u.Text(typeNode)
	case len(identifiers) > 1:
		typeText = u.Text(identifiers[0])
	}
	if name != "" {
		t.Fields[name] = TypeRef{Text: typeText}
	}
}
