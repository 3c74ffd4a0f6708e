// Package asyncrewriter generates async counterparts for marked methods in
// C# source code.
//
// Methods carrying the RewriteAsync attribute each receive two generated
// twins: a forwarding variant that passes CancellationToken.None, and a
// cancellable variant whose body is the original with every call to
// another rewritable method awaited. The generated code lands in partial
// mirrors of the original types, collected into one compilation unit that
// compiles alongside the untouched sources.
//
// # Architecture Overview
//
// The library is organized into packages along the pipeline:
//
//	asyncrewriter/       Root package with the Rewrite entry points
//	├── syntax/          C# parsing and tree-sitter node helpers
//	├── semantic/        Symbols, binding and invocation resolution
//	├── rewrite/         Method synthesis and call-site rewriting
//	├── emit/            Output assembly, merging and rendering
//	├── errors/          Structured error types for debugging
//	└── cmd/             Command line front end
//
// # Quick Start
//
// Rewrite a set of files:
//
//	output, err := asyncrewriter.Rewrite(ctx, asyncrewriter.Config{
//	    Files:      []string{"Repository.cs", "Service.cs"},
//	    References: []string{"Contracts.cs"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("GeneratedAsync.cs", []byte(output), 0o644)
//
// An empty output string means no input file declared a marked method; no
// output file should be written in that case.
//
// # What Gets Rewritten
//
// Inside a marked method's generated cancellable twin, a call becomes an
// awaited suspension point when its target is itself marked, or when the
// target's type declares an Async counterpart with a matching signature.
// A counterpart taking a CancellationToken receives the twin's token
// argument; a token-free counterpart is awaited without one. Calls the
// resolver cannot bind, and calls into excluded types, pass through
// verbatim.
//
// # Thread Safety
//
// Parsed units, the semantic context and the rewrite engine are all
// immutable after construction. Units can be rewritten concurrently, one
// goroutine per unit; assembly of the final output is the single ordered
// step.
package asyncrewriter
