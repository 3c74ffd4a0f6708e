package errors

import (
	"errors"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseRewrite,
				Kind:   KindUnsupportedExpression,
				Path:   []string{"Program.cs", "App", "Run"},
				Type:   "Db.Client",
				Method: "Query",
				Detail: "cannot rewrite",
			},
			contains: []string{"[rewrite]", "unsupported_expression", "Program.cs.App.Run", "Db.Client", "Query", "cannot rewrite"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseBind,
				Kind:  KindMissingBinding,
			},
			contains: []string{"[bind]", "missing_binding"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindInvalidInput,
				Detail: "read failed",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[load]", "invalid_input", "read failed", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !containsSubstring(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseLoad,
		Kind:  KindParse,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	// Test with errors.Unwrap
	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseRewrite,
		Kind:  KindUnsupportedExpression,
		Path:  []string{"foo"},
	}

	// Same phase and kind
	if !err.Is(&Error{Phase: PhaseRewrite, Kind: KindUnsupportedExpression}) {
		t.Error("Is should match same phase and kind")
	}

	// Different phase
	if err.Is(&Error{Phase: PhaseEmit, Kind: KindUnsupportedExpression}) {
		t.Error("Is should not match different phase")
	}

	// Different kind
	if err.Is(&Error{Phase: PhaseRewrite, Kind: KindNotFound}) {
		t.Error("Is should not match different kind")
	}

	// Test with errors.Is
	target := &Error{Phase: PhaseRewrite, Kind: KindUnsupportedExpression}
	if !errors.Is(err, target) {
		t.Error("errors.Is should match")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseResolve, KindConfiguration).
		Path("Program.cs", "App").
		Type("System.IO.MemoryStream").
		Method("Write").
		Value(42).
		Cause(cause).
		Detail("expected %s, got %s", "type", "namespace").
		Build()

	if err.Phase != PhaseResolve {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
	}
	if err.Kind != KindConfiguration {
		t.Errorf("Kind = %v, want %v", err.Kind, KindConfiguration)
	}
	if len(err.Path) != 2 || err.Path[0] != "Program.cs" || err.Path[1] != "App" {
		t.Errorf("Path = %v, want [Program.cs App]", err.Path)
	}
	if err.Type != "System.IO.MemoryStream" {
		t.Errorf("Type = %v, want 'System.IO.MemoryStream'", err.Type)
	}
	if err.Method != "Write" {
		t.Errorf("Method = %v, want 'Write'", err.Method)
	}
	if err.Value != 42 {
		t.Errorf("Value = %v, want 42", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "expected type, got namespace" {
		t.Errorf("Detail = %v, want 'expected type, got namespace'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("Configuration", func(t *testing.T) {
		err := Configuration("no input files")
		if err.Kind != KindConfiguration {
			t.Errorf("Kind = %v, want %v", err.Kind, KindConfiguration)
		}
		if err.Phase != PhaseResolve {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseResolve)
		}
	})

	t.Run("UnsupportedExpression", func(t *testing.T) {
		err := UnsupportedExpression("conditional_access_expression", "Program.cs")
		if err.Kind != KindUnsupportedExpression {
			t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedExpression)
		}
		if err.Value != "conditional_access_expression" {
			t.Errorf("Value = %v, want shape name", err.Value)
		}
		if !containsSubstring(err.Detail, "conditional_access_expression") {
			t.Errorf("Detail = %v, should contain shape", err.Detail)
		}
	})

	t.Run("MissingBinding", func(t *testing.T) {
		err := MissingBinding("Program.cs")
		if err.Kind != KindMissingBinding {
			t.Errorf("Kind = %v, want %v", err.Kind, KindMissingBinding)
		}
		if !containsSubstring(err.Detail, "Program.cs") {
			t.Errorf("Detail = %v, should contain unit path", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseResolve, "type", "Acme.Widget")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
	})

	t.Run("InvalidInput", func(t *testing.T) {
		err := InvalidInput(PhaseLoad, "empty source list")
		if err.Kind != KindInvalidInput {
			t.Errorf("Kind = %v, want %v", err.Kind, KindInvalidInput)
		}
	})

	t.Run("Load", func(t *testing.T) {
		cause := errors.New("no such file")
		err := Load("missing.cs", cause)
		if err.Phase != PhaseLoad {
			t.Errorf("Phase = %v, want %v", err.Phase, PhaseLoad)
		}
		if !errors.Is(err, cause) {
			t.Error("Load should wrap cause")
		}
	})

	t.Run("ParseFailed", func(t *testing.T) {
		cause := errors.New("boom")
		err := ParseFailed("broken.cs", cause)
		if err.Kind != KindParse {
			t.Errorf("Kind = %v, want %v", err.Kind, KindParse)
		}
		if !containsSubstring(err.Detail, "broken.cs") {
			t.Errorf("Detail = %v, should contain path", err.Detail)
		}
	})
}

func TestUnresolvedTypesError(t *testing.T) {
	t.Run("single type", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{"System.IO.MemoryStream"})
		if len(err.Types) != 1 {
			t.Errorf("expected 1 type, got %d", len(err.Types))
		}
		if err.Types[0].Namespace != "System.IO" {
			t.Errorf("namespace = %q, want System.IO", err.Types[0].Namespace)
		}
		if err.Types[0].Name != "MemoryStream" {
			t.Errorf("name = %q, want MemoryStream", err.Types[0].Name)
		}
	})

	t.Run("multiple types same namespace", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{
			"Acme.Data.Connection",
			"Acme.Data.Command",
		})
		if len(err.Types) != 2 {
			t.Errorf("expected 2 types, got %d", len(err.Types))
		}

		msg := err.Error()
		if !containsSubstring(msg, "cannot resolve") {
			t.Errorf("error should contain 'cannot resolve'")
		}
		if !containsSubstring(msg, "2") {
			t.Errorf("error should contain count")
		}
		if !containsSubstring(msg, "Acme.Data") {
			t.Errorf("error should contain namespace")
		}
		if !containsSubstring(msg, "Connection") {
			t.Errorf("error should contain type name")
		}
	})

	t.Run("multiple namespaces grouped", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{
			"Acme.Data.Connection",
			"Acme.Net.Socket",
			"Acme.Data.Command",
		})
		msg := err.Error()
		// Verify grouping by namespace
		if !containsSubstring(msg, "Acme.Data:") {
			t.Errorf("error should group by namespace")
		}
		if !containsSubstring(msg, "Acme.Net:") {
			t.Errorf("error should contain second namespace")
		}
	})

	t.Run("global namespace", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{"Widget"})
		if err.Types[0].Namespace != "" {
			t.Errorf("namespace = %q, want empty", err.Types[0].Namespace)
		}
		if !containsSubstring(err.Error(), "(global)") {
			t.Errorf("error should name the global namespace")
		}
	})

	t.Run("empty types", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{})
		msg := err.Error()
		if !containsSubstring(msg, "no types specified") {
			t.Errorf("empty error should have specific message, got: %s", msg)
		}
	})

	t.Run("errors.Is", func(t *testing.T) {
		err := NewUnresolvedTypesError([]string{"Ns.Widget"})
		if !errors.Is(err, &UnresolvedTypesError{}) {
			t.Error("errors.Is should match UnresolvedTypesError")
		}
		if !errors.Is(err, &Error{Phase: PhaseResolve, Kind: KindConfiguration}) {
			t.Error("errors.Is should match the configuration error shape")
		}
	})
}

func containsSubstring(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(substr) == 0 ||
		(len(s) > 0 && containsSubstringHelper(s, substr)))
}

func containsSubstringHelper(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
