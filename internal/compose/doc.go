// Package compose implements the composition state machine for the
// romanized-to-Devanagari input method: key classification and dispatch,
// preedit buffer mutation, candidate list refresh, commit and cancel
// semantics, and the reference-counted lifecycle of the shared
// suggestion backend.
//
// The package is transport-agnostic. The IBus glue in internal/ibus and
// the terminal simulator both drive it through the Handler interface and
// observe it through HostNotifier.
//
// Dispatch runs each key event to completion synchronously; there is no
// internal concurrency. Backend queries block the composition step, and
// the only shared mutable state across sessions is the Lifecycle counter
// and backend handle.
package compose
