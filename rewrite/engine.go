package rewrite

import (
	"go.uber.org/zap"

	"github.com/tumtumtum/AsyncRewriter/errors"
	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// Config configures an Engine.
type Config struct {
	// Context is the semantic model the engine rewrites against.
	Context *semantic.Context

	// ExcludedTypes lists fully qualified type names whose methods never
	// become suspension points, on top of the built-in exclusions.
	ExcludedTypes []string
}

// Engine synthesizes async twins for the marked methods of bound source
// units. An engine is immutable after New and safe to share across
// goroutines; one unit per goroutine is the intended split.
type Engine struct {
	rc *RunContext
}

// New builds an engine: it resolves the exclusion list and pre-computes
// the counterpart and override tables. Configuration problems surface
// here, before any unit is touched.
func New(cfg Config) (*Engine, error) {
	if cfg.Context == nil {
		return nil, errors.InvalidInput(errors.PhaseRewrite, "engine needs a semantic context")
	}
	rc, err := NewRunContext(cfg.Context, cfg.ExcludedTypes)
	if err != nil {
		return nil, err
	}
	return &Engine{rc: rc}, nil
}

// RewriteUnit synthesizes the twins declared by one unit. A nil result
// with a nil error means the unit has no marked methods and contributes
// nothing to the output.
func (e *Engine) RewriteUnit(u *syntax.SourceUnit) (*UnitResult, error) {
	model, err := e.rc.Sem.ModelFor(u)
	if err != nil {
		Logger().Error("unit not bound", zap.String("path", u.Path), zap.Error(err))
		return nil, err
	}
	if u.HasErrors() {
		Logger().Warn("unit parsed with syntax errors, rewriting what bound",
			zap.String("path", u.Path))
	}

	marked := markedMethods(model, u)
	if len(marked) == 0 {
		Logger().Debug("no marked methods", zap.String("path", u.Path))
		return nil, nil
	}

	result := &UnitResult{Unit: u, Usings: model.Usings}
	classes := map[*semantic.TypeSymbol]*GeneratedClass{}
	for _, m := range marked {
		methods, err := synthesize(e.rc, m)
		if err != nil {
			Logger().Error("synthesis failed",
				zap.String("method", m.Name),
				zap.String("path", u.Path),
				zap.Error(err))
			return nil, err
		}
		Logger().Debug("method synthesized",
			zap.String("method", m.Name),
			zap.String("type", m.Container.QualifiedName()))
		gc, ok := classes[m.Container]
		if !ok {
			gc = newGeneratedClass(m.Container)
			classes[m.Container] = gc
			result.Classes = append(result.Classes, gc)
		}
		gc.Methods = append(gc.Methods, methods...)
	}

	Logger().Info("unit rewritten",
		zap.String("path", u.Path),
		zap.Int("methods", len(marked)),
		zap.Int("classes", len(result.Classes)))
	return result, nil
}

// RewriteAll rewrites every candidate unit in input order, skipping the
// ones without marked methods. The first failure aborts the whole run;
// partial output is never returned.
func (e *Engine) RewriteAll() ([]*UnitResult, error) {
	var out []*UnitResult
	for _, u := range e.rc.Sem.Units() {
		res, err := e.RewriteUnit(u)
		if err != nil {
			return nil, err
		}
		if res == nil {
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

// markedMethods collects the unit's own marked methods in declaration
// order. Partial classes merge their declarations into one shared symbol,
// so both the type list and the method list need the unit filter.
func markedMethods(model *semantic.Model, u *syntax.SourceUnit) []*semantic.MethodSymbol {
	var out []*semantic.MethodSymbol
	seen := map[*semantic.TypeSymbol]bool{}
	for _, t := range model.Types {
		if seen[t] {
			continue
		}
		seen[t] = true
		for _, m := range t.Methods {
			if m.Unit != u || !IsMarked(m) {
				continue
			}
			out = append(out, m)
		}
	}
	return out
}
