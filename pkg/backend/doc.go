// Package backend defines AdminBackend, the administrative state machine
// every DispatchTable handler mutates (store catalog, schema registry,
// version lifecycle, migration bookkeeping). The real administrative state
// machine is out of scope (spec.md §1); Catalog is a complete reference
// implementation so handlers have a real, testable effect rather than a
// stub, grounded on the teacher's pkg/storage/boltdb.go JSON-per-bucket
// pattern.
package backend
