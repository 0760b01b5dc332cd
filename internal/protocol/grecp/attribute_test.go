package grecp

import (
	"bytes"
	"errors"
	"net/netip"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestDecodeAttributeIPv4RoundTrip(t *testing.T) {
	in := []byte{0x01, 0x00, 0x04, 0x0A, 0x0B, 0x0C, 0x0D}
	a, n, err := DecodeAttribute(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != len(in) {
		t.Fatalf("expected %d bytes consumed, got %d", len(in), n)
	}
	want := Attribute{ID: AttrHIPv4Address, Value: IPv4{10, 11, 12, 13}}
	if diff := cmp.Diff(want, a); diff != "" {
		t.Fatalf("attribute mismatch (-want +got):\n%s", diff)
	}
	if got := a.Value.(IPv4).Addr(); got != netip.MustParseAddr("10.11.12.13") {
		t.Fatalf("unexpected address: %s", got)
	}
	out, err := EncodeAttribute(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("re-encode mismatch: % x", out)
	}
}

func TestDecodeAttributeUnknownIDIsOpaque(t *testing.T) {
	in := []byte{200, 0x00, 0x03, 0x01, 0x02, 0x03}
	a, _, err := DecodeAttribute(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	op, ok := a.Value.(Opaque)
	if !ok {
		t.Fatalf("expected opaque value, got %T", a.Value)
	}
	if !bytes.Equal(op, []byte{0x01, 0x02, 0x03}) {
		t.Fatalf("opaque bytes not preserved: % x", []byte(op))
	}
	out, err := EncodeAttribute(a)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, in) {
		t.Fatalf("re-encode mismatch: % x", out)
	}
}

func TestDecodeAttributeZeroLengthIsEmpty(t *testing.T) {
	a, n, err := DecodeAttribute([]byte{byte(AttrMagicPadding), 0, 0, 0xFF})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if n != AttributeHeaderLen {
		t.Fatalf("expected %d bytes consumed, got %d", AttributeHeaderLen, n)
	}
	if _, ok := a.Value.(Empty); !ok {
		t.Fatalf("expected empty value, got %T", a.Value)
	}
}

func TestDecodeAttributeVariants(t *testing.T) {
	v6 := netip.MustParseAddr("2003:6:5::1")
	v6b := v6.As16()
	cases := []struct {
		name  string
		input []byte
		want  Attribute
	}{
		{
			name:  "ipv6",
			input: append([]byte{2, 0, 16}, v6b[:]...),
			want:  Attribute{ID: AttrHIPv6Address, Value: IPv6From(v6)},
		},
		{
			name:  "ipv6 prefix to host",
			input: append([]byte{21, 0, 16}, v6b[:]...),
			want:  Attribute{ID: AttrIPv6PrefixAssignedToHost, Value: IPv6From(v6)},
		},
		{
			name:  "ipv6 prefix by haap",
			input: append(append([]byte{13, 0, 17}, v6b[:]...), 56),
			want:  Attribute{ID: AttrIPv6PrefixAssignedByHAAP, Value: IPv6Prefix{Addr: IPv6From(v6), Mask: 56}},
		},
		{
			name:  "session id is an integer",
			input: []byte{4, 0, 4, 0xDE, 0xAD, 0xBE, 0xEF},
			want:  Attribute{ID: AttrSessionID, Value: Uint32(0xDEADBEEF)},
		},
		{
			name:  "timestamp",
			input: []byte{5, 0, 8, 0, 0, 0x01, 0x00, 0, 0, 0x01, 0xF4},
			want:  Attribute{ID: AttrTimestamp, Value: Timestamp{High: 256, Low: 500}},
		},
		{
			name:  "filter list ack",
			input: []byte{30, 0, 5, 0, 0, 0, 7, 1},
			want:  Attribute{ID: AttrFilterListPackageAck, Value: FilterListAck{CommitCount: 7, AckCode: 1}},
		},
		{
			name:  "filter list package without items",
			input: []byte{8, 0, 8, 0, 0, 0, 9, 0, 1, 0, 1},
			want:  Attribute{ID: AttrFilterListPackage, Value: FilterListPackage{CommitCount: 9, PacketSum: 1, PacketID: 1}},
		},
		{
			name:  "client identification name",
			input: []byte{3, 0, 2, 'o', 'h'},
			want:  Attribute{ID: AttrClientIdentificationName, Value: Opaque("oh")},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, n, err := DecodeAttribute(tc.input)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if n != len(tc.input) {
				t.Fatalf("expected %d bytes consumed, got %d", len(tc.input), n)
			}
			if diff := cmp.Diff(tc.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("attribute mismatch (-want +got):\n%s", diff)
			}
			out, err := EncodeAttribute(got)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !bytes.Equal(out, tc.input) {
				t.Fatalf("re-encode mismatch:\n got % x\nwant % x", out, tc.input)
			}
		})
	}
}

func TestDecodeAttributeLengthMismatch(t *testing.T) {
	cases := map[string][]byte{
		"ipv4 short":           {1, 0, 3, 10, 11, 12},
		"ipv4 long":            {1, 0, 5, 10, 11, 12, 13, 14},
		"integer short":        {14, 0, 2, 0, 1},
		"timestamp short":      {5, 0, 4, 0, 0, 0, 1},
		"prefix without mask":  append([]byte{13, 0, 16}, make([]byte, 16)...),
		"ack short":            {30, 0, 4, 0, 0, 0, 1},
		"package below prefix": {8, 0, 4, 0, 0, 0, 1},
		"fixed id zero length": {20, 0, 0},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeAttribute(input)
			if !errors.Is(err, ErrLengthMismatch) {
				t.Fatalf("expected ErrLengthMismatch, got %v", err)
			}
		})
	}
}

func TestDecodeAttributeTruncated(t *testing.T) {
	_, _, err := DecodeAttribute([]byte{1, 0})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short header, got %v", err)
	}

	_, _, err = DecodeAttribute([]byte{1, 0, 4, 10, 11, 12})
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated for short value, got %v", err)
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DecodeError, got %T", err)
	}
	if de.Offset != AttributeHeaderLen {
		t.Fatalf("unexpected offset: %d", de.Offset)
	}
}

func TestEncodeAttributeDerivesLength(t *testing.T) {
	out, err := EncodeAttribute(Attribute{ID: 200, Value: Opaque{1, 2, 3, 4, 5}})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out[:3], []byte{200, 0, 5}) {
		t.Fatalf("unexpected header: % x", out[:3])
	}

	pkg := FilterListPackage{
		CommitCount: 1,
		Items: []FilterListItem{
			{Type: FilterFQDN, Enable: 1, Description: []byte("web"), Value: []byte("example.org")},
		},
	}
	out, err = EncodeAttribute(Attribute{ID: AttrFilterListPackage, Value: pkg})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	wantLen := 8 + 8 + 3 + 11
	if got := int(out[1])<<8 | int(out[2]); got != wantLen {
		t.Fatalf("expected derived length %d, got %d", wantLen, got)
	}
	if len(out) != AttributeHeaderLen+wantLen {
		t.Fatalf("unexpected encoded size: %d", len(out))
	}
}

func TestEncodeAttributeNilValueIsEmpty(t *testing.T) {
	out, err := EncodeAttribute(Attribute{ID: AttrTunnelVerification})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(out, []byte{35, 0, 0}) {
		t.Fatalf("unexpected encoding: % x", out)
	}
}

func TestEncodeAttributeRejectsWrongKind(t *testing.T) {
	_, err := EncodeAttribute(Attribute{ID: AttrHIPv4Address, Value: Uint32(1)})
	if !errors.Is(err, ErrValueKind) {
		t.Fatalf("expected ErrValueKind, got %v", err)
	}
	_, err = EncodeAttribute(Attribute{ID: AttrSessionID, Value: Opaque("session")})
	if !errors.Is(err, ErrValueKind) {
		t.Fatalf("expected ErrValueKind, got %v", err)
	}
}

func TestEncodeAttributeRejectsOversizedPayload(t *testing.T) {
	dst := []byte{0xAA}
	out, err := AppendAttribute(dst, Attribute{ID: 200, Value: Opaque(make([]byte, 0x10000))})
	if !errors.Is(err, ErrInvalidLength) {
		t.Fatalf("expected ErrInvalidLength, got %v", err)
	}
	if !bytes.Equal(out, dst) {
		t.Fatalf("partial attribute left in buffer: %d bytes", len(out))
	}
}

func TestKindOfTable(t *testing.T) {
	integers := []AttributeID{4, 6, 7, 9, 10, 14, 15, 16, 17, 20, 22, 23, 24, 25, 31, 32}
	for _, id := range integers {
		if KindOf(id) != KindUint32 {
			t.Fatalf("id %d: expected uint32, got %s", id, KindOf(id))
		}
	}
	fixed := map[AttributeID]Kind{
		1:   KindIPv4,
		2:   KindIPv6,
		21:  KindIPv6,
		13:  KindIPv6Prefix,
		5:   KindTimestamp,
		8:   KindFilterListPackage,
		30:  KindFilterListAck,
		3:   KindOpaque,
		54:  KindOpaque,
		255: KindOpaque,
	}
	for id, want := range fixed {
		if got := KindOf(id); got != want {
			t.Fatalf("id %d: expected %s, got %s", id, want, got)
		}
	}
}
