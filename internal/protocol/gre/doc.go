// Package gre owns the GRE envelope around control messages.
//
// Ownership boundary:
// - base header (flags, version, protocol type)
// - optional checksum, key and sequence fields
// - payload size limits
package gre
