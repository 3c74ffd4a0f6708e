// Package emit assembles rewritten unit results into one C# compilation
// unit and renders it as text.
//
// New turns a single unit's generated classes into an assembled Unit;
// Merge folds many assembled units into one, deduplicating using
// directives and regrouping namespaces of the same name. Render spells
// the result: the warning-suppression pragma first, then usings, then
// namespaces and their partial classes, Allman braces throughout. An
// empty unit renders as the empty string.
package emit
