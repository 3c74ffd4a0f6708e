package syntax

import (
	"context"
	"strings"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
)

const sampleSource = `using System;

namespace Demo
{
    public class Greeter
    {
        public string Greet(string name)
        {
            return Format(name);
        }

        private string Format(string name)
        {
            return "hello " + name;
        }
    }
}
`

func TestParse(t *testing.T) {
	unit, err := Parse(context.Background(), "greeter.cs", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if unit.Path != "greeter.cs" {
		t.Errorf("Path = %q, want greeter.cs", unit.Path)
	}
	if unit.Root().Type() != "compilation_unit" {
		t.Errorf("root type = %q, want compilation_unit", unit.Root().Type())
	}
	if unit.HasErrors() {
		t.Error("well-formed source should not produce error nodes")
	}
}

func TestParse_Malformed(t *testing.T) {
	unit, err := Parse(context.Background(), "broken.cs", []byte("class {"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Malformed input still yields a tree; error nodes mark the damage.
	if !unit.HasErrors() {
		t.Error("malformed source should produce error nodes")
	}
}

func TestSourceUnit_Text(t *testing.T) {
	unit, err := Parse(context.Background(), "greeter.cs", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	class := FindChild(findNamespaceBody(t, unit), "class_declaration")
	if class == nil {
		t.Fatal("class_declaration not found")
	}

	text := unit.Text(class)
	if !strings.HasPrefix(text, "public class Greeter") {
		t.Errorf("class text starts with %q", firstLine(text))
	}
	if unit.Slice(class.StartByte(), class.EndByte()) != text {
		t.Error("Slice and Text disagree over the same span")
	}
}

func TestLine(t *testing.T) {
	unit, err := Parse(context.Background(), "greeter.cs", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	ns := FindChild(unit.Root(), "namespace_declaration")
	if ns == nil {
		t.Fatal("namespace_declaration not found")
	}
	if got := Line(ns); got != 3 {
		t.Errorf("Line = %d, want 3", got)
	}
}

func findNamespaceBody(t *testing.T, unit *SourceUnit) *sitter.Node {
	t.Helper()
	ns := FindChild(unit.Root(), "namespace_declaration")
	if ns == nil {
		t.Fatal("namespace_declaration not found")
	}
	body := FindChild(ns, "declaration_list")
	if body == nil {
		t.Fatal("declaration_list not found")
	}
	return body
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
