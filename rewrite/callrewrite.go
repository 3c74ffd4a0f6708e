package rewrite

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"go.uber.org/zap"

	"github.com/tumtumtum/AsyncRewriter/errors"
	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// callRewriter turns the rewritable invocations of one method body into
// awaited calls of their async counterparts. Rewriting is a pure splice
// over the immutable parse tree: output text is rebuilt from the source
// gaps between named children, with rewritten children substituted in
// place. Nothing in the tree is ever mutated.
type callRewriter struct {
	rc     *RunContext
	unit   *syntax.SourceUnit
	scope  *semantic.Scope
	method *semantic.MethodSymbol
}

func newCallRewriter(rc *RunContext, m *semantic.MethodSymbol) *callRewriter {
	return &callRewriter{
		rc:     rc,
		unit:   m.Unit,
		scope:  rc.Sem.ScopeFor(m),
		method: m,
	}
}

// Rewrite returns the source text of n with every rewritable invocation
// replaced by its awaited form. Unresolvable calls and resolved calls
// without an async counterpart pass through verbatim; that is the steady
// state, not an error.
func (r *callRewriter) Rewrite(n *sitter.Node) (string, error) {
	return r.rewrite(n)
}

func (r *callRewriter) rewrite(n *sitter.Node) (string, error) {
	if n.Type() == "invocation_expression" {
		return r.rewriteInvocation(n)
	}
	return r.spliceChildren(n)
}

// spliceChildren rebuilds n from its own source, substituting each named
// child with its rewritten form. The gaps carry every token, comment and
// piece of whitespace between children, so unchanged code survives
// byte for byte.
func (r *callRewriter) spliceChildren(n *sitter.Node) (string, error) {
	children := syntax.NamedChildren(n)
	if len(children) == 0 {
		return r.unit.Text(n), nil
	}

	var b strings.Builder
	pos := n.StartByte()
	for _, child := range children {
		b.WriteString(r.unit.Slice(pos, child.StartByte()))
		text, err := r.rewrite(child)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		pos = child.EndByte()
	}
	b.WriteString(r.unit.Slice(pos, n.EndByte()))
	return b.String(), nil
}

func (r *callRewriter) rewriteInvocation(n *sitter.Node) (string, error) {
	call := semantic.ParseCall(r.unit, n)
	resolved := r.rc.Sem.ResolveCall(r.scope, call)
	if resolved == nil {
		return r.spliceChildren(n)
	}
	plan, ok := r.rc.Plan(resolved)
	if !ok {
		return r.spliceChildren(n)
	}

	// The shape gate applies only to calls that are actually going to be
	// rewritten. A conditional access of a rewritable method has no sound
	// awaited spelling, so the run fails rather than emit wrong output.
	switch call.Shape {
	case semantic.ShapeSimple, semantic.ShapeGeneric, semantic.ShapeMember, semantic.ShapeMemberGeneric:
	default:
		Logger().Error("unsupported call shape",
			zap.String("shape", call.Shape.String()),
			zap.String("method", resolved.Method.Name),
			zap.String("path", r.unit.Path),
			zap.Int("line", syntax.Line(n)))
		return "", errors.New(errors.PhaseRewrite, errors.KindUnsupportedExpression).
			Type(r.containerName()).
			Method(r.method.Name).
			Value(call.Shape.String()).
			Detail("cannot rewrite %s invocation of %s at %s:%d",
				call.Shape, resolved.Method.Name, r.unit.Path, syntax.Line(n)).
			Build()
	}

	name := plan.Name + call.TypeArgs
	callee := name
	if call.Receiver != nil {
		recv, err := r.rewrite(call.Receiver)
		if err != nil {
			return "", err
		}
		callee = recv + "." + name
	}

	args, err := r.rewriteArguments(call, plan.TokenIndex)
	if err != nil {
		return "", err
	}

	Logger().Debug("call rewritten",
		zap.String("from", call.Name),
		zap.String("to", plan.Name),
		zap.String("path", r.unit.Path),
		zap.Int("line", syntax.Line(n)))

	text := "await " + callee + args + ".ConfigureAwait(false)"
	if needsParens(n) {
		text = "(" + text + ")"
	}
	return text, nil
}

// rewriteArguments re-spells the argument list with each argument itself
// rewritten and, when tokenIndex is non-negative, the cancellation token
// identifier inserted at that position. An index past the written
// arguments appends; optional parameters the caller omitted make that
// legal at the callee.
func (r *callRewriter) rewriteArguments(call semantic.CallInfo, tokenIndex int) (string, error) {
	list := call.ArgList
	if list == nil || len(call.Args) == 0 {
		if tokenIndex >= 0 {
			return "(" + tokenParameterName + ")", nil
		}
		if list == nil {
			return "()", nil
		}
		return r.unit.Text(list), nil
	}
	if tokenIndex > len(call.Args) {
		tokenIndex = len(call.Args)
	}

	var b strings.Builder
	pos := list.StartByte()
	for i, arg := range call.Args {
		b.WriteString(r.unit.Slice(pos, arg.StartByte()))
		if i == tokenIndex {
			b.WriteString(tokenParameterName)
			b.WriteString(", ")
		}
		text, err := r.rewrite(arg)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
		pos = arg.EndByte()
	}
	if tokenIndex == len(call.Args) {
		b.WriteString(", ")
		b.WriteString(tokenParameterName)
	}
	b.WriteString(r.unit.Slice(pos, list.EndByte()))
	return b.String(), nil
}

// needsParens reports whether the awaited expression must be parenthesized
// to keep the surrounding parse. Statement positions and expression bodies
// take a bare await; everywhere else, receivers and operands included, the
// parenthesized form is the safe spelling.
func needsParens(n *sitter.Node) bool {
	p := n.Parent()
	if p == nil {
		return false
	}
	if p.Type() == "arrow_expression_clause" {
		return false
	}
	return !syntax.IsStatement(p)
}

func (r *callRewriter) containerName() string {
	if r.method.Container == nil {
		return ""
	}
	return r.method.Container.QualifiedName()
}
