/*
Package types defines the wire-level data model for Venice admin log
records: the closed set of operation kinds, their payloads, and the
runtime wrapper the tailer and worker pool attach to each one.

# Closed kind set

AdminOperation.Kind is a tagged variant over a fixed set of nineteen kinds
(StoreCreation, schema creation, read/write toggles, field setters,
UpdateStore, version lifecycle, migration, and offline push job control).
Adding a kind is a deliberate schema change that touches this package, the
codec, and the dispatch table together.

# Sparse updates

UpdateStoreOptions models Venice's UPDATE_STORE record as a record of
pointer fields: a nil field means "leave this property alone," matching
the payload's own sparse encoding rather than introducing a second set of
"was this set" booleans.
*/
package types
