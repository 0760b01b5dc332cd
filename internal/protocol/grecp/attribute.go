package grecp

import (
	"errors"
	"fmt"

	"github.com/danmuck/grecp/internal/protocol/tlv"
)

// AttributeHeaderLen is the id byte plus the two length bytes.
const AttributeHeaderLen = 3

// Attribute is one decoded GRECP attribute. The wire length is not stored; it
// is derived from Value on encode.
type Attribute struct {
	ID    AttributeID
	Value Value
}

// Len is the derived payload length.
func (a Attribute) Len() int {
	if a.Value == nil {
		return 0
	}
	return a.Value.Len()
}

// DecodeAttribute decodes one attribute from the front of b and returns the
// number of bytes consumed, always AttributeHeaderLen plus the declared length.
func DecodeAttribute(b []byte) (Attribute, int, error) {
	f, n, err := tlv.Attribute.Next(b)
	if err != nil {
		if errors.Is(err, tlv.ErrShortFieldHeader) {
			return Attribute{}, 0, decodeErr("attribute header", 0, ErrTruncated)
		}
		return Attribute{}, 0, decodeErr(
			fmt.Sprintf("attribute %d value", b[0]),
			AttributeHeaderLen,
			ErrTruncated,
		)
	}
	id := AttributeID(f.Tag)
	v, err := decodeValue(id, f.Value)
	if err != nil {
		return Attribute{}, 0, shift(err, AttributeHeaderLen)
	}
	if v.Len() != len(f.Value) {
		return Attribute{}, 0, decodeErr(
			fmt.Sprintf("attribute %d: consumed %d of length %d", id, v.Len(), len(f.Value)),
			AttributeHeaderLen,
			ErrLengthMismatch,
		)
	}
	return Attribute{ID: id, Value: v}, n, nil
}

// AppendAttribute appends the encoding of a to dst. A nil Value encodes as an
// empty payload.
func AppendAttribute(dst []byte, a Attribute) ([]byte, error) {
	v := a.Value
	if v == nil {
		v = Empty{}
	}
	if want := KindOf(a.ID); !kindAccepts(want, v.Kind()) {
		return dst, fmt.Errorf("%w: attribute %d (%s) wants %s, got %s", ErrValueKind, a.ID, a.ID, want, v.Kind())
	}
	hdr := len(dst)
	dst = append(dst, byte(a.ID), 0, 0)
	dst, err := v.appendValue(dst)
	if err != nil {
		return dst[:hdr], fmt.Errorf("attribute %d: %w", a.ID, err)
	}
	if err := tlv.Attribute.PatchLength(dst, hdr); err != nil {
		return dst[:hdr], fmt.Errorf("%w: attribute %d payload exceeds %d bytes", ErrInvalidLength, a.ID, tlv.Attribute.MaxLength())
	}
	return dst, nil
}

func EncodeAttribute(a Attribute) ([]byte, error) {
	return AppendAttribute(make([]byte, 0, AttributeHeaderLen+a.Len()), a)
}
