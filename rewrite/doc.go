// Package rewrite synthesizes the async twins of marked methods.
//
// # Overview
//
// A method marked with the RewriteAsync attribute gets two generated
// counterparts, emitted into a partial mirror of its containing type:
//
//	[RewriteAsync]
//	public int Fetch(string key)
//
//	public Task<int> FetchAsync(string key)
//	public async Task<int> FetchAsync(string key, CancellationToken cancellationToken)
//
// The forwarding variant returns the cancellable twin's task with
// CancellationToken.None supplied. The cancellable variant carries the
// original body, with every call to another rewritable method turned into
// a suspension point:
//
//	Store(key, value);
//	await StoreAsync(key, value, cancellationToken).ConfigureAwait(false);
//
// # Pipeline
//
// New resolves the configured exclusions against the semantic context and
// builds the counterpart tables; anything unresolvable fails the run
// before a single unit is touched. RewriteUnit then walks one unit's
// marked methods and produces a UnitResult for the emit package to
// assemble. Calls that do not resolve, or resolve to a method with no
// async counterpart, pass through unchanged; that is the expected steady
// state. The one fatal rewriting condition is a rewritable call in a
// shape that has no sound awaited spelling, such as a conditional access.
//
// All rewriting is a pure splice over the immutable parse trees. The
// engine never mutates a tree and never writes partial output.
package rewrite
