/*
Package codec decodes raw admin log records into typed
types.AdminOperation values.

The wire envelope is a JSON object with a schema version, a kind tag, and
a kind-specific payload, mirroring the {Op, Data json.RawMessage} envelope
the teacher repo uses for its own Raft command log (pkg/manager/fsm.go in
the source tree this package is grounded on). Decode never panics on
attacker- or bug-controlled input: any unknown schema version or kind, or
a payload that does not match its kind, is reported as ErrMalformedRecord
so the tailer can skip the record and move on (spec.md §4.6).
*/
package codec
