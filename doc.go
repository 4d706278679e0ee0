// Package structdiff computes and applies structural diffs over a
// self-describing value tree: None, Unit, Bool, Integer, Float, Bytes,
// String, Sequence and Mappings.
//
// A Value tree is diffed with Diff, which produces a Script: a flat,
// ordered list of Change operations framed by EnterSequence/EnterMap/Exit
// pairs instead of a recursive tree, so neither the wire format nor the
// applier needs recursive data structures. Diff always measures a
// structural sub-diff against the cost of simply replacing a subtree
// outright, and picks whichever is cheaper: large rewrites collapse to a
// single Replace rather than a long list of small changes.
//
// Sequence and mapping diffing uses a linear, single-pass matching
// strategy, not an LCS or edit-distance algorithm: it's cheaper to compute
// and, for data that mostly appends or mostly reorders in place, produces
// scripts just as useful.
//
// A Script can be applied back to a Value with Apply, rendered as a
// one-line human-readable string with FormatScript, or encoded to a
// compact versioned binary format with Script.Encode / DecodeScript.
//
// structdiff treats the primitive wire codec as an external collaborator:
// AtomCodec is a small interface around encoding/decoding None, Unit, Bool,
// Integer, Float, Bytes and String, with DefaultAtomCodec as the built-in
// implementation. Converting between a Go value and a Value tree is
// likewise behind an interface, ValueCodec, with ReflectValueCodec as the
// reflect-based default.
//
// Holder wraps a domain value together with the Value snapshot it was last
// diffed against, for callers that want to track a value's mutations over
// time and periodically pull a Script describing what changed.
package structdiff
