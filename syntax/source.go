package syntax

import (
	"context"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/tumtumtum/AsyncRewriter/errors"
)

// SourceUnit is one parsed C# source file.
type SourceUnit struct {
	Path string
	Src  []byte
	Tree *sitter.Tree
}

// Parse parses C# source text into a SourceUnit. Trees containing syntax
// errors are still returned; callers decide how much of the unit remains
// usable.
func Parse(ctx context.Context, path string, src []byte) (*SourceUnit, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(csharp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}

	return &SourceUnit{
		Path: path,
		Src:  src,
		Tree: tree,
	}, nil
}

// Load reads and parses a C# source file.
func Load(ctx context.Context, path string) (*SourceUnit, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load(path, err)
	}
	return Parse(ctx, path, src)
}

// Root returns the compilation_unit node.
func (u *SourceUnit) Root() *sitter.Node {
	return u.Tree.RootNode()
}

// Text returns the source text backing n.
func (u *SourceUnit) Text(n *sitter.Node) string {
	return n.Content(u.Src)
}

// Slice returns the raw source between byte offsets.
func (u *SourceUnit) Slice(start, end uint32) string {
	return string(u.Src[start:end])
}

// HasErrors reports whether the parse produced error nodes anywhere in the
// tree.
func (u *SourceUnit) HasErrors() bool {
	return u.Tree.RootNode().HasError()
}

// Line returns the 1-based line number where n starts.
func Line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}
