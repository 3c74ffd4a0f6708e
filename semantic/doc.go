// Package semantic builds the resolved symbol model over a set of parsed
// source units.
//
// Build runs two passes: a declaration pass collecting every namespace,
// class, struct and interface into TypeSymbols with full method and
// parameter data, then a resolution pass binding textual type references
// against the built-in universe, the declaring namespace chain, using
// directives, and unique simple names. References that stay unresolved keep
// their source text and compare textually, so partially known code still
// resolves as far as it can.
//
// On top of the symbol model the package offers invocation resolution
// (ParseCall + ResolveCall bind a call expression to a method symbol,
// typing receivers through parameters, locals, fields, type names, chained
// calls and extension-method reduction) and two run-scoped lookup tables:
// CounterpartTable maps each method to its async twin, OverrideTable
// records whether override/new modifiers survive twin generation. Both are
// computed once per run so later components never re-derive matches at each
// call site.
//
// A Context is immutable after Build. The symbol universe stands in for
// referenced assemblies with the well-known System types the rewrite
// semantics observe.
package semantic
