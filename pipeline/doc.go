// Package pipeline implements the non-destructive transformation chain that
// molvis runs over a Frame before rendering. A pipeline is an ordered list of
// modifiers; each modifier is a pure transformation of (frame, context) into a
// new frame, with validation and a cache key. Selections flow through the
// per-run Context: a modifier may overwrite the current selection, and later
// modifiers see the change. Application is strictly sequential and in list
// order; the user's explicit ordering is the only ordering contract offered.
//
// Modifier instances are long-lived, user-adjustable settings objects. Their
// parameters persist between Compute calls, but each Compute call gets its own
// fresh Context, so concurrent Compute calls on the same pipeline do not share
// per-run state.
package pipeline
