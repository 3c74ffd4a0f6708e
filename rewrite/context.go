package rewrite

import (
	"strings"

	"go.uber.org/zap"

	"github.com/tumtumtum/AsyncRewriter/errors"
	"github.com/tumtumtum/AsyncRewriter/semantic"
)

// Marker is the attribute name that flags a method for async synthesis.
// Matching accepts the bare name and the conventional Attribute-suffixed
// form.
const Marker = "RewriteAsync"

// signalTypeName is the well-known cancellation signal type, resolved once
// per run.
const signalTypeName = "System.Threading.CancellationToken"

// tokenParameterName is the name of the inserted cancellation parameter and
// of the identifier threaded into rewritten calls.
const tokenParameterName = "cancellationToken"

// noCancellation is the literal the forwarding variant supplies.
const noCancellation = "CancellationToken.None"

// builtinExcludedTypes never take part in rewriting: their apparently
// blocking members complete synchronously in practice, so awaiting the
// async overloads buys nothing.
var builtinExcludedTypes = []string{
	"System.IO.TextWriter",
	"System.IO.StringWriter",
	"System.IO.MemoryStream",
}

// RunContext is the immutable per-run state every component consumes: the
// semantic context, the resolved exclusion set, the cancellation signal
// type, and the pre-computed counterpart and override tables. Build one per
// run; concurrent runs with separate contexts never share state.
type RunContext struct {
	Sem          *semantic.Context
	Signal       *semantic.TypeSymbol
	Excluded     map[*semantic.TypeSymbol]bool
	Counterparts *semantic.CounterpartTable
	Overrides    *semantic.OverrideTable
}

// NewRunContext resolves the configured exclusions against the semantic
// context and assembles the run state. Any excluded-type name that does not
// resolve fails the whole run before rewriting begins; the builtin
// exclusions resolve from the universe and cannot fail.
func NewRunContext(sem *semantic.Context, excludedTypes []string) (*RunContext, error) {
	rc := &RunContext{
		Sem:      sem,
		Excluded: map[*semantic.TypeSymbol]bool{},
	}

	var unresolved []string
	for _, name := range excludedTypes {
		sym := sem.ResolveType(name)
		if sym == nil {
			unresolved = append(unresolved, name)
			continue
		}
		rc.Excluded[sym] = true
	}
	if len(unresolved) > 0 {
		Logger().Error("excluded types did not resolve", zap.Strings("types", unresolved))
		return nil, errors.NewUnresolvedTypesError(unresolved)
	}

	for _, name := range builtinExcludedTypes {
		if sym := sem.ResolveType(name); sym != nil {
			rc.Excluded[sym] = true
		}
	}

	rc.Signal = sem.ResolveType(signalTypeName)
	rc.Counterparts = semantic.BuildCounterpartTable(sem, rc.Signal)
	rc.Overrides = semantic.BuildOverrideTable(sem, Marker)

	Logger().Debug("run context built",
		zap.Int("excluded_types", len(rc.Excluded)),
		zap.Int("counterparts", rc.Counterparts.Len()))
	return rc, nil
}

// IsMarked reports whether a method declaration carries the rewrite marker.
func IsMarked(m *semantic.MethodSymbol) bool {
	_, ok := m.Attribute(Marker)
	return ok
}

// ForcePublic reports whether the marker's boolean argument requests public
// visibility on the generated methods. The argument may be positional or
// written in the named forcePublic: form.
func ForcePublic(m *semantic.MethodSymbol) bool {
	attr, ok := m.Attribute(Marker)
	if !ok || len(attr.Args) == 0 {
		return false
	}
	arg := attr.Args[0]
	if idx := strings.IndexByte(arg, ':'); idx >= 0 {
		arg = strings.TrimSpace(arg[idx+1:])
	}
	return arg == "true"
}

// RewritePlan describes how one resolved call becomes a suspension point:
// the counterpart name to invoke and the argument-list index where the
// cancellation token goes. TokenIndex is -1 when the counterpart takes no
// token.
type RewritePlan struct {
	Name       string
	TokenIndex int
}

// Plan decides whether a resolved call is rewritable. A marked callee always
// is: its own twins are being generated this run, with the token at the
// boundary index. Calls into excluded types never are. Everything else
// consults the counterpart table. Reduced extension calls shift the index
// down by one since the declared receiver slot holds no argument.
func (rc *RunContext) Plan(call *semantic.ResolvedCall) (RewritePlan, bool) {
	m := call.Method

	if IsMarked(m) {
		idx := m.RequiredCount()
		if call.Reduced {
			idx--
		}
		return RewritePlan{Name: m.Name + semantic.AsyncSuffix, TokenIndex: idx}, true
	}

	if m.Container != nil && rc.Excluded[m.Container] {
		Logger().Debug("call excluded",
			zap.String("method", m.Name),
			zap.String("type", m.Container.QualifiedName()))
		return RewritePlan{}, false
	}

	cp, ok := rc.Counterparts.Lookup(m)
	if !ok {
		Logger().Debug("no async counterpart", zap.String("method", m.Name))
		return RewritePlan{}, false
	}
	idx := cp.TokenIndex
	if idx >= 0 && call.Reduced {
		idx--
	}
	return RewritePlan{Name: cp.Target.Name, TokenIndex: idx}, true
}

// KeepOverride reports whether m's override/new modifiers survive onto its
// generated twins.
func (rc *RunContext) KeepOverride(m *semantic.MethodSymbol) bool {
	return rc.Overrides.Keep(m)
}
