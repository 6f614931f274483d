// Package tailer implements the Tailer described in spec.md §4.6: a
// single log consumer cursor that decodes each record, routes it into the
// right StoreQueue, and skips past poison records rather than blocking
// the whole log behind one bad entry.
package tailer
