package gre

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	BaseHeaderLen = 4

	FlagChecksum uint16 = 0x8000
	FlagKey      uint16 = 0x2000
	FlagSequence uint16 = 0x1000
	versionMask  uint16 = 0x0007

	// Flag words sent by bonding clients on control messages.
	FlagsKey         = FlagKey
	FlagsKeySequence = FlagKey | FlagSequence
)

var (
	ErrShortHeader        = errors.New("gre: short header")
	ErrUnsupportedVersion = errors.New("gre: unsupported version")
	ErrPayloadTooLarge    = errors.New("gre: payload too large")
	ErrBadChecksum        = errors.New("gre: checksum mismatch")
)

// Header is a GRE header. Checksum, Key and Sequence are present on the wire
// only when the matching flag bit is set.
type Header struct {
	Flags    uint16
	Proto    uint16
	Checksum uint16
	Key      uint32
	Sequence uint32
}

func (h Header) HasChecksum() bool { return h.Flags&FlagChecksum != 0 }
func (h Header) HasKey() bool      { return h.Flags&FlagKey != 0 }
func (h Header) HasSequence() bool { return h.Flags&FlagSequence != 0 }
func (h Header) Version() uint8    { return uint8(h.Flags & versionMask) }

// Len is the encoded header size implied by the flags.
func (h Header) Len() int {
	n := BaseHeaderLen
	if h.HasChecksum() {
		n += 4
	}
	if h.HasKey() {
		n += 4
	}
	if h.HasSequence() {
		n += 4
	}
	return n
}

// Packet is one GRE header and its payload.
type Packet struct {
	Header  Header
	Payload []byte
}

// Limits constrains packet decode/encode memory use.
type Limits struct {
	MaxPayloadBytes int
}

// DefaultLimits matches the largest packet a bonding client sends.
func DefaultLimits() Limits {
	return Limits{MaxPayloadBytes: 1500}
}

func DecodeHeader(b []byte) (Header, error) {
	if len(b) < BaseHeaderLen {
		return Header{}, ErrShortHeader
	}
	h := Header{
		Flags: binary.BigEndian.Uint16(b[0:2]),
		Proto: binary.BigEndian.Uint16(b[2:4]),
	}
	if h.Version() != 0 {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version())
	}
	if len(b) < h.Len() {
		return Header{}, ErrShortHeader
	}
	off := BaseHeaderLen
	if h.HasChecksum() {
		h.Checksum = binary.BigEndian.Uint16(b[off : off+2])
		off += 4
	}
	if h.HasKey() {
		h.Key = binary.BigEndian.Uint32(b[off : off+4])
		off += 4
	}
	if h.HasSequence() {
		h.Sequence = binary.BigEndian.Uint32(b[off : off+4])
	}
	return h, nil
}

func AppendHeader(dst []byte, h Header) []byte {
	dst = binary.BigEndian.AppendUint16(dst, h.Flags)
	dst = binary.BigEndian.AppendUint16(dst, h.Proto)
	if h.HasChecksum() {
		dst = binary.BigEndian.AppendUint16(dst, h.Checksum)
		dst = append(dst, 0, 0)
	}
	if h.HasKey() {
		dst = binary.BigEndian.AppendUint32(dst, h.Key)
	}
	if h.HasSequence() {
		dst = binary.BigEndian.AppendUint32(dst, h.Sequence)
	}
	return dst
}

// DecodePacket splits b into header and payload. The payload is copied. When
// the checksum bit is set the checksum must verify.
func DecodePacket(b []byte, limits Limits) (Packet, error) {
	h, err := DecodeHeader(b)
	if err != nil {
		return Packet{}, err
	}
	payload := b[h.Len():]
	if len(payload) > limits.MaxPayloadBytes {
		return Packet{}, ErrPayloadTooLarge
	}
	if h.HasChecksum() && checksum(b) != 0 {
		return Packet{}, ErrBadChecksum
	}
	return Packet{Header: h, Payload: append([]byte(nil), payload...)}, nil
}

// EncodePacket serializes p. The checksum is computed when the checksum bit is
// set; any caller supplied value is ignored.
func EncodePacket(p Packet, limits Limits) ([]byte, error) {
	if len(p.Payload) > limits.MaxPayloadBytes {
		return nil, ErrPayloadTooLarge
	}
	if p.Header.Version() != 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, p.Header.Version())
	}
	h := p.Header
	h.Checksum = 0
	buf := AppendHeader(make([]byte, 0, h.Len()+len(p.Payload)), h)
	buf = append(buf, p.Payload...)
	if h.HasChecksum() {
		binary.BigEndian.PutUint16(buf[BaseHeaderLen:BaseHeaderLen+2], checksum(buf))
	}
	return buf, nil
}

// checksum is the one's complement of the one's complement sum of b. It is
// zero over a buffer whose embedded checksum is correct.
func checksum(b []byte) uint16 {
	var sum uint32
	for i := 0; i+1 < len(b); i += 2 {
		sum += uint32(binary.BigEndian.Uint16(b[i : i+2]))
	}
	if len(b)%2 == 1 {
		sum += uint32(b[len(b)-1]) << 8
	}
	for sum>>16 != 0 {
		sum = sum&0xffff + sum>>16
	}
	return ^uint16(sum)
}
