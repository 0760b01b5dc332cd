package main

import (
	"fmt"

	"github.com/danmuck/grecp/internal/config"
	"github.com/danmuck/grecp/internal/observability"
	"github.com/danmuck/grecp/internal/protocol/gre"
	"github.com/danmuck/grecp/internal/protocol/grecp"
	"github.com/danmuck/grecp/internal/protocol/schema"
)

// Skip reasons, also used as metric labels.
const (
	skipGRE    = "gre"
	skipProto  = "proto"
	skipSize   = "size"
	skipSchema = "schema"
)

// decoder runs one packet through envelope, binding, codec and schema checks
// and records metrics for the result.
type decoder struct {
	binding     grecp.Binding
	limits      gre.Limits
	payloadOnly bool
	strict      bool
}

func newDecoder(cfg config.Config) (*decoder, error) {
	binding, err := cfg.Binding()
	if err != nil {
		return nil, err
	}
	return &decoder{
		binding:     binding,
		limits:      cfg.Limits(),
		payloadOnly: cfg.PayloadOnly,
		strict:      cfg.Strict,
	}, nil
}

type outcome struct {
	Header  *gre.Header
	Message grecp.Message
	Decoded bool
	Skipped string
	Err     error
}

func (d *decoder) decode(raw []byte) outcome {
	var out outcome
	payload := raw
	if d.payloadOnly {
		if len(raw) > d.limits.MaxPayloadBytes {
			observability.RecordSkipped(skipSize)
			out.Skipped = skipSize
			out.Err = gre.ErrPayloadTooLarge
			return out
		}
	} else {
		pkt, err := gre.DecodePacket(raw, d.limits)
		if err != nil {
			observability.RecordSkipped(skipGRE)
			out.Skipped = skipGRE
			out.Err = err
			return out
		}
		out.Header = &pkt.Header
		if !d.binding.Matches(pkt.Header.Proto) {
			observability.RecordSkipped(skipProto)
			out.Skipped = skipProto
			out.Err = fmt.Errorf("gre protocol 0x%04x not in binding %s", pkt.Header.Proto, d.binding)
			return out
		}
		payload = pkt.Payload
	}

	m, err := grecp.Decode(payload)
	if err != nil {
		observability.RecordDecodeError(err)
		out.Err = err
		return out
	}
	observability.RecordMessage(m)
	out.Message = m
	out.Decoded = true

	if d.strict {
		if err := schema.Validate(m); err != nil {
			observability.RecordSkipped(skipSchema)
			out.Skipped = skipSchema
			out.Err = err
		}
	}
	return out
}
