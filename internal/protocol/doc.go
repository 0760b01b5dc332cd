// Package protocol groups the GRE Control Protocol wire packages.
//
// Ownership boundary:
// - tlv: tag/length framing primitives
// - gre: GRE envelope header primitives
// - grecp: message, attribute and filter list codecs
// - schema: required-attribute validation entry points
package protocol
