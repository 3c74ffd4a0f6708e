package emit

import (
	"strings"
	"testing"

	"github.com/tumtumtum/AsyncRewriter/rewrite"
	"github.com/tumtumtum/AsyncRewriter/semantic"
)

func using(text string) semantic.Using {
	name := strings.TrimSuffix(strings.TrimPrefix(text, "using "), ";")
	return semantic.Using{Name: name, Text: text}
}

func class(ns, name string, methods ...rewrite.GeneratedMethod) *rewrite.GeneratedClass {
	return &rewrite.GeneratedClass{
		Name:      name,
		Namespace: ns,
		Kind:      semantic.KindClass,
		Modifiers: []string{"public", "partial"},
		Methods:   methods,
	}
}

func method(name string, lines ...string) rewrite.GeneratedMethod {
	return rewrite.GeneratedMethod{Name: name, Lines: lines}
}

func usingTexts(u *Unit) []string {
	out := make([]string, 0, len(u.Usings))
	for _, us := range u.Usings {
		out = append(out, us.Text)
	}
	return out
}

func TestNew_AppendsRequiredUsings(t *testing.T) {
	res := &rewrite.UnitResult{
		Usings: []semantic.Using{
			using("using System;"),
			using("using System.Threading;"),
		},
		Classes: []*rewrite.GeneratedClass{class("App", "Store")},
	}

	u := New(res)
	want := []string{
		"using System;",
		"using System.Threading;",
		"using System.Threading.Tasks;",
	}
	got := usingTexts(u)
	if len(got) != len(want) {
		t.Fatalf("usings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("using[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew_GroupsByNamespace(t *testing.T) {
	res := &rewrite.UnitResult{
		Classes: []*rewrite.GeneratedClass{
			class("App", "First"),
			class("Lib", "Other"),
			class("App", "Second"),
		},
	}

	u := New(res)
	if len(u.Namespaces) != 2 {
		t.Fatalf("namespace count = %d, want 2", len(u.Namespaces))
	}
	if u.Namespaces[0].Name != "App" || u.Namespaces[1].Name != "Lib" {
		t.Errorf("namespace order = %s, %s", u.Namespaces[0].Name, u.Namespaces[1].Name)
	}
	app := u.Namespaces[0]
	if len(app.Classes) != 2 || app.Classes[0].Name != "First" || app.Classes[1].Name != "Second" {
		t.Errorf("App classes out of order: %v", app.Classes)
	}
}

func TestMerge_DedupsUsings(t *testing.T) {
	a := New(&rewrite.UnitResult{
		Usings: []semantic.Using{
			using("using System;"),
			{Name: "System.Math", Text: "using static System.Math;", Static: true},
		},
		Classes: []*rewrite.GeneratedClass{class("App", "A")},
	})
	b := New(&rewrite.UnitResult{
		Usings: []semantic.Using{
			using("using System;"),
			using("using System.Math;"),
			{Name: "System.IO", Text: "using IO = System.IO;", Alias: "IO"},
		},
		Classes: []*rewrite.GeneratedClass{class("App", "B")},
	})

	merged := Merge([]*Unit{a, b})
	want := []string{
		"using System;",
		"using static System.Math;",
		"using System.Threading;",
		"using System.Threading.Tasks;",
		"using System.Math;",
		"using IO = System.IO;",
	}
	got := usingTexts(merged)
	if len(got) != len(want) {
		t.Fatalf("usings = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("using[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMerge_CollapsesNamespaces(t *testing.T) {
	a := New(&rewrite.UnitResult{Classes: []*rewrite.GeneratedClass{class("App", "A"), class("Lib", "L")}})
	b := New(&rewrite.UnitResult{Classes: []*rewrite.GeneratedClass{class("App", "B")}})

	merged := Merge([]*Unit{a, b})
	if len(merged.Namespaces) != 2 {
		t.Fatalf("namespace count = %d, want 2", len(merged.Namespaces))
	}
	app := merged.Namespaces[0]
	if app.Name != "App" || len(app.Classes) != 2 {
		t.Fatalf("App group = %s with %d classes", app.Name, len(app.Classes))
	}
	if app.Classes[0].Name != "A" || app.Classes[1].Name != "B" {
		t.Errorf("class order = %s, %s", app.Classes[0].Name, app.Classes[1].Name)
	}
}

func TestRender_Empty(t *testing.T) {
	if got := Render(nil); got != "" {
		t.Errorf("Render(nil) = %q", got)
	}
	if got := Render(&Unit{}); got != "" {
		t.Errorf("Render(empty) = %q", got)
	}
	if got := Render(Merge(nil)); got != "" {
		t.Errorf("Render(Merge(nil)) = %q", got)
	}
	// usings alone do not make output
	u := New(&rewrite.UnitResult{Usings: []semantic.Using{using("using System;")}})
	if got := Render(u); got != "" {
		t.Errorf("Render(usings only) = %q", got)
	}
}

func TestRender_Full(t *testing.T) {
	res := &rewrite.UnitResult{
		Usings: []semantic.Using{using("using System;")},
		Classes: []*rewrite.GeneratedClass{
			class("App", "Store",
				method("PingAsync",
					"public Task PingAsync()",
					"{",
					"    return PingAsync(CancellationToken.None);",
					"}"),
				method("PingAsync",
					"public async Task PingAsync(CancellationToken cancellationToken)",
					"{",
					"}"),
			),
		},
	}

	got := Render(New(res))
	want := strings.Join([]string{
		"#pragma warning disable 108, 114",
		"using System;",
		"using System.Threading;",
		"using System.Threading.Tasks;",
		"",
		"namespace App",
		"{",
		"    public partial class Store",
		"    {",
		"        public Task PingAsync()",
		"        {",
		"            return PingAsync(CancellationToken.None);",
		"        }",
		"",
		"        public async Task PingAsync(CancellationToken cancellationToken)",
		"        {",
		"        }",
		"    }",
		"}",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_GlobalNamespace(t *testing.T) {
	res := &rewrite.UnitResult{
		Classes: []*rewrite.GeneratedClass{
			class("", "Loose", method("GoAsync", "public Task GoAsync();")),
		},
	}

	got := Render(New(res))
	want := strings.Join([]string{
		"#pragma warning disable 108, 114",
		"using System.Threading;",
		"using System.Threading.Tasks;",
		"",
		"public partial class Loose",
		"{",
		"    public Task GoAsync();",
		"}",
		"",
	}, "\n")
	if got != want {
		t.Errorf("rendered:\n%s\nwant:\n%s", got, want)
	}
}

func TestRender_ClassHeaderForms(t *testing.T) {
	tests := []struct {
		name string
		c    *rewrite.GeneratedClass
		want string
	}{
		{
			name: "struct",
			c: &rewrite.GeneratedClass{
				Name: "Box", Kind: semantic.KindStruct,
				Modifiers: []string{"public", "partial"},
			},
			want: "public partial struct Box",
		},
		{
			name: "interface",
			c: &rewrite.GeneratedClass{
				Name: "IStore", Kind: semantic.KindInterface,
				Modifiers: []string{"public", "partial"},
			},
			want: "public partial interface IStore",
		},
		{
			name: "generic with constraint",
			c: &rewrite.GeneratedClass{
				Name: "Keeper", Kind: semantic.KindClass,
				Modifiers:   []string{"public", "partial"},
				TypeParams:  "<T>",
				Constraints: []string{"where T : class"},
			},
			want: "public partial class Keeper<T> where T : class",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.c.Methods = []rewrite.GeneratedMethod{method("XAsync", "Task XAsync();")}
			out := Render(New(&rewrite.UnitResult{Classes: []*rewrite.GeneratedClass{tt.c}}))
			if !strings.Contains(out, tt.want+"\n") {
				t.Errorf("output missing header %q:\n%s", tt.want, out)
			}
		})
	}
}

func TestRender_SeparatesNamespaces(t *testing.T) {
	res := &rewrite.UnitResult{
		Classes: []*rewrite.GeneratedClass{
			class("App", "A", method("XAsync", "Task XAsync();")),
			class("Lib", "B", method("YAsync", "Task YAsync();")),
		},
	}

	got := Render(New(res))
	if !strings.Contains(got, "}\n\nnamespace Lib") {
		t.Errorf("namespace groups not separated by a blank line:\n%s", got)
	}
}
