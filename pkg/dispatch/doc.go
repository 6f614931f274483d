// Package dispatch maps each admin operation kind to the AdminBackend
// calls that carry out its effect (spec.md §4.4), and classifies handler
// errors into Retriable, Ignorable, or Fatal outcomes (spec.md §7) so the
// worker knows whether to retry in place, advance past the record, or halt.
package dispatch
