package asyncrewriter

import (
	"context"

	"github.com/tumtumtum/AsyncRewriter/emit"
	"github.com/tumtumtum/AsyncRewriter/rewrite"
	"github.com/tumtumtum/AsyncRewriter/semantic"
	"github.com/tumtumtum/AsyncRewriter/syntax"
)

// Config describes one rewriting run.
type Config struct {
	// Files are the C# source files to rewrite, in the order their output
	// should appear.
	Files []string

	// References are source files that participate in resolution but are
	// never rewritten themselves.
	References []string

	// ExcludedTypes lists fully qualified type names whose methods must
	// not become suspension points, on top of the built-in exclusions.
	ExcludedTypes []string
}

// Source is an in-memory source unit for callers that do not work through
// the filesystem.
type Source struct {
	Path    string
	Content []byte
}

// Rewrite runs the whole pipeline over the configured files and returns
// the generated compilation unit as text. The empty string means no input
// declared a marked method. Errors abort the run; there is never partial
// output.
func Rewrite(ctx context.Context, cfg Config) (string, error) {
	units, err := loadFiles(ctx, cfg.Files)
	if err != nil {
		return "", err
	}
	refs, err := loadFiles(ctx, cfg.References)
	if err != nil {
		return "", err
	}
	return run(units, refs, cfg.ExcludedTypes)
}

// RewriteSources is Rewrite for in-memory sources.
func RewriteSources(ctx context.Context, sources, references []Source, excludedTypes []string) (string, error) {
	units, err := parseSources(ctx, sources)
	if err != nil {
		return "", err
	}
	refs, err := parseSources(ctx, references)
	if err != nil {
		return "", err
	}
	return run(units, refs, excludedTypes)
}

func run(units, refs []*syntax.SourceUnit, excludedTypes []string) (string, error) {
	sem, err := semantic.Build(units, refs)
	if err != nil {
		return "", err
	}

	engine, err := rewrite.New(rewrite.Config{
		Context:       sem,
		ExcludedTypes: excludedTypes,
	})
	if err != nil {
		return "", err
	}

	results, err := engine.RewriteAll()
	if err != nil {
		return "", err
	}

	assembled := make([]*emit.Unit, 0, len(results))
	for _, res := range results {
		assembled = append(assembled, emit.New(res))
	}
	return emit.Render(emit.Merge(assembled)), nil
}

func loadFiles(ctx context.Context, paths []string) ([]*syntax.SourceUnit, error) {
	units := make([]*syntax.SourceUnit, 0, len(paths))
	for _, path := range paths {
		u, err := syntax.Load(ctx, path)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

func parseSources(ctx context.Context, sources []Source) ([]*syntax.SourceUnit, error) {
	units := make([]*syntax.SourceUnit, 0, len(sources))
	for _, s := range sources {
		u, err := syntax.Parse(ctx, s.Path, s.Content)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}
