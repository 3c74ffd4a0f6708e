package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the rewrite run the error occurred
type Phase string

const (
	PhaseLoad    Phase = "load"    // reading and parsing source units
	PhaseBind    Phase = "bind"    // semantic context construction
	PhaseResolve Phase = "resolve" // marker and exclusion resolution
	PhaseRewrite Phase = "rewrite" // method synthesis and call rewriting
	PhaseEmit    Phase = "emit"    // output assembly
)

// Kind categorizes the error
type Kind string

const (
	KindConfiguration         Kind = "configuration"
	KindUnsupportedExpression Kind = "unsupported_expression"
	KindMissingBinding        Kind = "missing_binding"
	KindInvalidInput          Kind = "invalid_input"
	KindNotFound              Kind = "not_found"
	KindParse                 Kind = "parse"
)

// Error is the structured error type used throughout the rewriter
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Method string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Method != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Method != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
			b.WriteString(", method ")
			b.WriteString(e.Method)
		} else if e.Type != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("method ")
			b.WriteString(e.Method)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Method != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path (unit, namespace, class, method)
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the type name involved
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Method sets the method name involved
func (b *Builder) Method(m string) *Builder {
	b.err.Method = m
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Configuration creates a configuration error
func Configuration(detail string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindConfiguration,
		Detail: detail,
	}
}

// UnsupportedExpression creates an error for a call shape the rewriter
// cannot transform
func UnsupportedExpression(shape string, path ...string) *Error {
	return &Error{
		Phase:  PhaseRewrite,
		Kind:   KindUnsupportedExpression,
		Path:   path,
		Detail: fmt.Sprintf("cannot rewrite %s invocation", shape),
		Value:  shape,
	}
}

// MissingBinding creates an error for a source unit absent from the
// semantic context
func MissingBinding(unit string) *Error {
	return &Error{
		Phase:  PhaseBind,
		Kind:   KindMissingBinding,
		Detail: fmt.Sprintf("source unit %q is not bound in this context", unit),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a source loading error
func Load(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("read %s", path),
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindParse,
		Detail: fmt.Sprintf("parse %s", path),
		Cause:  cause,
	}
}

// UnresolvedType represents a single configured type name that did not
// resolve to a known symbol
type UnresolvedType struct {
	Namespace string // e.g., "System.IO"
	Name      string // e.g., "MemoryStream"
}

// UnresolvedTypesError is returned when configured exclusions name types
// the semantic context does not know
type UnresolvedTypesError struct {
	Types []UnresolvedType
}

// NewUnresolvedTypesError creates an error from a list of fully qualified
// type names
func NewUnresolvedTypesError(names []string) *UnresolvedTypesError {
	result := &UnresolvedTypesError{
		Types: make([]UnresolvedType, 0, len(names)),
	}
	for _, name := range names {
		ns, simple := splitTypeName(name)
		result.Types = append(result.Types, UnresolvedType{
			Namespace: ns,
			Name:      simple,
		})
	}
	return result
}

func splitTypeName(name string) (namespace, simple string) {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+1:]
}

func (e *UnresolvedTypesError) Error() string {
	if len(e.Types) == 0 {
		return "[resolve] configuration: no types specified"
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("cannot resolve %d excluded type(s):\n", len(e.Types)))

	// Group by namespace for cleaner output
	byNS := make(map[string][]string)
	var nsOrder []string
	for _, t := range e.Types {
		ns := t.Namespace
		if ns == "" {
			ns = "(global)"
		}
		if _, exists := byNS[ns]; !exists {
			nsOrder = append(nsOrder, ns)
		}
		byNS[ns] = append(byNS[ns], t.Name)
	}

	for _, ns := range nsOrder {
		b.WriteString("\n  ")
		b.WriteString(ns)
		b.WriteString(":\n")
		for _, name := range byNS[ns] {
			b.WriteString("    - ")
			b.WriteString(name)
			b.WriteByte('\n')
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

// Is reports whether target matches this error type. A plain *Error with
// the resolve phase and configuration kind also matches, so callers can
// test for configuration failures without caring which concrete type the
// resolver produced.
func (e *UnresolvedTypesError) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return t.Phase == PhaseResolve && t.Kind == KindConfiguration
	}
	_, ok := target.(*UnresolvedTypesError)
	return ok
}
