package grecp

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeHeaderNibbles(t *testing.T) {
	m, err := Decode([]byte{0x14})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != MessageSetupRequest || m.Tunnel != 4 {
		t.Fatalf("unexpected header: type=%d tunnel=%d", m.Type, m.Tunnel)
	}
	if m.Type.String() != "GRE Tunnel Setup Request" {
		t.Fatalf("unexpected type name: %q", m.Type)
	}
	if len(m.Attributes) != 0 {
		t.Fatalf("expected no attributes, got %d", len(m.Attributes))
	}
}

func TestDecodeUnknownMessageTypeIsStructural(t *testing.T) {
	m, err := Decode([]byte{0xF8, 200, 0, 1, 0x55})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Type != 15 || m.Type.Known() {
		t.Fatalf("unexpected type: %v", m.Type)
	}
	if m.Tunnel != TunnelDSL {
		t.Fatalf("unexpected tunnel: %v", m.Tunnel)
	}
}

func TestDecodeEmptyBufferIsTruncated(t *testing.T) {
	if _, err := Decode(nil); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
}

func TestDecodeReportsAbsoluteOffset(t *testing.T) {
	// hello, timestamp ok, then an ipv4 attribute with a short value
	in := []byte{0x40, 5, 0, 8, 0, 0, 0, 1, 0, 0, 0, 2, 1, 0, 4, 10}
	_, err := Decode(in)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Offset != 12+AttributeHeaderLen {
		t.Fatalf("unexpected offset: %d", de.Offset)
	}
}

func TestMessageRoundTripPreservesOrder(t *testing.T) {
	in := Message{
		Type:   MessageSetupAccept,
		Tunnel: TunnelLTE,
		Attributes: []Attribute{
			{ID: AttrSessionID, Value: Uint32(7)},
			{ID: AttrMagicPadding, Value: Empty{}},
			{ID: AttrBondingKeyValue, Value: Uint32(0xCAFE)},
			{ID: AttrSessionID, Value: Uint32(8)},
			{ID: AttrDSLAccessConcentratorName, Value: Opaque("BNG-01")},
		},
	}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(b) != in.Len() {
		t.Fatalf("Len()=%d, encoded %d", in.Len(), len(b))
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
	if v, ok := out.Uint32(AttrSessionID); !ok || v != 7 {
		t.Fatalf("expected first session id 7, got %d (%v)", v, ok)
	}
	if _, ok := out.Uint32(AttrErrorCode); ok {
		t.Fatalf("unexpected error code attribute")
	}
}

func TestEncodeRejectsHeaderOverflow(t *testing.T) {
	if _, err := Encode(Message{Type: 16}); !errors.Is(err, ErrHeaderRange) {
		t.Fatalf("expected ErrHeaderRange, got %v", err)
	}
	if _, err := Encode(Message{Type: MessageHello, Tunnel: 0x10}); !errors.Is(err, ErrHeaderRange) {
		t.Fatalf("expected ErrHeaderRange, got %v", err)
	}
}

func TestEncodeFailsFastOnBadAttribute(t *testing.T) {
	m := Message{
		Type: MessageHello,
		Attributes: []Attribute{
			{ID: AttrTimestamp, Value: Timestamp{High: 1}},
			{ID: AttrTimestamp, Value: Uint32(1)},
		},
	}
	out, err := m.AppendBinary([]byte{0xEE})
	if !errors.Is(err, ErrValueKind) {
		t.Fatalf("expected ErrValueKind, got %v", err)
	}
	if !bytes.Equal(out, []byte{0xEE}) {
		t.Fatalf("partial message left in buffer: % x", out)
	}
}

func TestMarshalUnmarshalBinary(t *testing.T) {
	in := NewHello(TunnelDSL, 90*time.Second+250*time.Millisecond)
	b, err := in.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := []byte{0x48, 5, 0, 8, 0, 0, 0, 90, 0, 0, 0, 250, 255, 0, 0}
	if !bytes.Equal(b, want) {
		t.Fatalf("hello mismatch:\n got % x\nwant % x", b, want)
	}
	var out Message
	if err := out.UnmarshalBinary(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
	a, _ := out.Attribute(AttrTimestamp)
	if d := a.Value.(Timestamp).Duration(); d != 90*time.Second+250*time.Millisecond {
		t.Fatalf("unexpected uptime: %v", d)
	}
}

func TestBuildersRoundTrip(t *testing.T) {
	cases := map[string]Message{
		"request lte":      NewRequest(TunnelLTE, "OpenHybrid", 0x01020304),
		"request dsl":      NewRequest(TunnelDSL, "ignored", 0),
		"hello":            NewHello(TunnelLTE, 3*time.Second),
		"filter list ack":  NewFilterListAckNotify(12, 1),
		"tunnel verify":    NewTunnelVerificationNotify(),
		"link failure lte": NewLinkFailureNotify(TunnelLTE),
		"link failure dsl": NewLinkFailureNotify(TunnelDSL),
		"bypass traffic":   NewBypassTrafficNotify(2048),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			b, err := Encode(in)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			out, err := Decode(b)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(in, out, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
			}
			last := out.Attributes[len(out.Attributes)-1]
			if last.ID != AttrMagicPadding {
				t.Fatalf("expected trailing padding, got %s", last.ID)
			}
		})
	}
}

func TestNewRequestPadsClientName(t *testing.T) {
	m := NewRequest(TunnelLTE, "OpenHybrid", 0)
	a, ok := m.Attribute(AttrClientIdentificationName)
	if !ok {
		t.Fatalf("missing client identification name")
	}
	name := a.Value.(Opaque)
	if len(name) != ClientIdentificationLen {
		t.Fatalf("expected %d bytes, got %d", ClientIdentificationLen, len(name))
	}
	if string(bytes.TrimRight(name, "\x00")) != "OpenHybrid" {
		t.Fatalf("unexpected name: %q", []byte(name))
	}
	if _, ok := m.Attribute(AttrSessionID); ok {
		t.Fatalf("session id sent without a session")
	}
}

func TestNewLinkFailureReportsOtherLink(t *testing.T) {
	if _, ok := NewLinkFailureNotify(TunnelLTE).Attribute(AttrDSLLinkFailure); !ok {
		t.Fatalf("lte tunnel should report dsl failure")
	}
	if _, ok := NewLinkFailureNotify(TunnelDSL).Attribute(AttrLTELinkFailure); !ok {
		t.Fatalf("dsl tunnel should report lte failure")
	}
}
