// Package grecp owns the GRE Control Protocol wire codec.
//
// Ownership boundary:
// - message header bit packing (message type, tunnel type)
// - attribute id/length framing and per-id value variants
// - filter list package/ack bodies and their nested item lists
// - GRE protocol-type binding predicate
//
// Decode copies out of the input buffer and never trusts a declared length
// beyond bounding what it reads. Encode always derives lengths from the
// serialized values. Nothing in this package logs or performs I/O; callers may
// use it concurrently on independent buffers.
package grecp
