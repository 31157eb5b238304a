// Package reconcile implements the line-reconciliation engine.
//
// EnsurePresent and EnsureAbsent are pure functions: they take the current lines of a
// resource and a domain.Request, and return a fresh line sequence together with a
// changed verdict. They perform no I/O, keep no state between calls and never modify
// the slice they are given.
//
// Matching follows search semantics: a pattern matches a line if it matches anywhere in
// it, unless the pattern itself is anchored. In present mode the last matching line is
// the replacement target; in absent mode every matching line is dropped.
package reconcile
