// Package engine defines the narrow boundary the conversion pipeline consumes
// from the codec engine: a named buffer workspace, a command-style Run call,
// and an append-only log stream shared by every invocation.
//
// The engine is one stateful resource with no per-call isolation. Callers must
// serialize access to it and must record the log length immediately before Run
// so the segment belonging to a single invocation can be sliced out afterwards.
// Errors at this boundary are classified with the ErrWrite/ErrExec/ErrRead
// sentinels so the pipeline can decide retry behavior without inspecting
// engine-specific message text.
package engine
