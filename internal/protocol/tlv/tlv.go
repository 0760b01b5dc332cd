package tlv

import (
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrShortFieldHeader = errors.New("tlv: short field header")
	ErrShortFieldValue  = errors.New("tlv: short field value")
	ErrFieldTooLarge    = errors.New("tlv: field exceeds length width")
	ErrTagOverflow      = errors.New("tlv: tag exceeds tag width")
)

// Layout describes the byte widths of a tag/length header. Widths are 1, 2 or 4.
type Layout struct {
	TagLen    int
	LengthLen int
}

// GRECP framings.
var (
	Attribute  = Layout{TagLen: 1, LengthLen: 2}
	FilterItem = Layout{TagLen: 2, LengthLen: 2}
)

// Field is one raw TLV field. Value aliases the decoded buffer.
type Field struct {
	Tag   uint32
	Value []byte
}

func (l Layout) HeaderLen() int {
	return l.TagLen + l.LengthLen
}

// MaxLength is the largest value length the layout can declare.
func (l Layout) MaxLength() int {
	return int(maxUint(l.LengthLen))
}

// Next reads one field from the front of b and returns it with the number of
// bytes consumed. The value never extends past the declared length.
func (l Layout) Next(b []byte) (Field, int, error) {
	hl := l.HeaderLen()
	if len(b) < hl {
		return Field{}, 0, ErrShortFieldHeader
	}
	tag := readUint(b[:l.TagLen])
	length := readUint(b[l.TagLen:hl])
	if uint64(len(b)-hl) < uint64(length) {
		return Field{}, 0, ErrShortFieldValue
	}
	end := hl + int(length)
	return Field{Tag: tag, Value: b[hl:end:end]}, end, nil
}

// Split reads fields back-to-back until b is exhausted.
func (l Layout) Split(b []byte) ([]Field, error) {
	var fields []Field
	for i := 0; i < len(b); {
		f, n, err := l.Next(b[i:])
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		i += n
	}
	return fields, nil
}

// AppendField appends the header and value of one field to dst.
func (l Layout) AppendField(dst []byte, tag uint32, value []byte) ([]byte, error) {
	if uint64(tag) > maxUint(l.TagLen) {
		return dst, ErrTagOverflow
	}
	if uint64(len(value)) > maxUint(l.LengthLen) {
		return dst, ErrFieldTooLarge
	}
	dst = appendUint(dst, l.TagLen, tag)
	dst = appendUint(dst, l.LengthLen, uint32(len(value)))
	return append(dst, value...), nil
}

// PatchLength overwrites the length of a header that starts at hdr in dst.
// It is used when the value was appended in place after a placeholder header.
func (l Layout) PatchLength(dst []byte, hdr int) error {
	n := len(dst) - hdr - l.HeaderLen()
	if n < 0 {
		return ErrShortFieldHeader
	}
	if uint64(n) > maxUint(l.LengthLen) {
		return ErrFieldTooLarge
	}
	putUint(dst[hdr+l.TagLen:hdr+l.HeaderLen()], uint32(n))
	return nil
}

func maxUint(width int) uint64 {
	return 1<<(8*uint(width)) - 1
}

func readUint(b []byte) uint32 {
	switch len(b) {
	case 1:
		return uint32(b[0])
	case 2:
		return uint32(binary.BigEndian.Uint16(b))
	case 4:
		return binary.BigEndian.Uint32(b)
	}
	panic(fmt.Sprintf("tlv: unsupported width %d", len(b)))
}

func putUint(b []byte, v uint32) {
	switch len(b) {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(b, uint16(v))
	case 4:
		binary.BigEndian.PutUint32(b, v)
	default:
		panic(fmt.Sprintf("tlv: unsupported width %d", len(b)))
	}
}

func appendUint(dst []byte, width int, v uint32) []byte {
	switch width {
	case 1:
		return append(dst, byte(v))
	case 2:
		return binary.BigEndian.AppendUint16(dst, uint16(v))
	case 4:
		return binary.BigEndian.AppendUint32(dst, v)
	}
	panic(fmt.Sprintf("tlv: unsupported width %d", width))
}
