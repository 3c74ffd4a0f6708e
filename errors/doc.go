// Package errors provides structured error types for the rewriter.
//
// Errors are categorized by Phase (where in the run the error occurred) and
// Kind (error category). The Error type includes rich context: location path,
// the type and method involved, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRewrite, errors.KindUnsupportedExpression).
//		Path("Program.cs", "Db.Client", "Query").
//		Method("Query").
//		Detail("conditional access cannot carry a suspension point").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedExpression("conditional_access_expression", path...)
//	err := errors.MissingBinding("Program.cs")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
