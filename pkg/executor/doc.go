// Package executor applies plans to an installed state.
//
// Executor is the shared contract. Virtual applies operations to an
// in-memory copy of a state and is used to preview plans; Actual writes and
// removes files in the game directory. Both apply operations in order and
// stop at the first error without undoing earlier ones, so callers that
// want all-or-nothing behavior validate a plan on a Virtual first.
package executor
