// Package syntax wraps tree-sitter parsing of C# source units.
//
// A SourceUnit pairs source bytes with their parse tree and keeps byte-exact
// access to node text. Helper functions navigate the raw node structure;
// nothing here interprets meaning, that is the semantic package's job.
//
// Trees are never mutated. Rewriting happens downstream by splicing
// replacement text over node byte ranges, so every consumer can rely on
// spans staying valid for the lifetime of the unit.
package syntax
