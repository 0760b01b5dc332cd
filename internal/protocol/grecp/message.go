package grecp

import "fmt"

// HeaderLen is the size of the packed message type / tunnel type byte.
const HeaderLen = 1

// Message is one GRECP message. Attribute order is significant and preserved.
type Message struct {
	Type       MessageType
	Tunnel     TunnelType
	Attributes []Attribute
}

// Decode parses a GRECP payload. Attributes must fill b exactly.
func Decode(b []byte) (Message, error) {
	if len(b) < HeaderLen {
		return Message{}, decodeErr("message header", 0, ErrTruncated)
	}
	m := Message{
		Type:   MessageType(b[0] >> 4),
		Tunnel: TunnelType(b[0] & 0x0f),
	}
	for off := HeaderLen; off < len(b); {
		a, n, err := DecodeAttribute(b[off:])
		if err != nil {
			return Message{}, shift(err, off)
		}
		m.Attributes = append(m.Attributes, a)
		off += n
	}
	return m, nil
}

// Encode serializes m. It fails if a header field does not fit its nibble or
// an attribute value cannot be represented on the wire.
func Encode(m Message) ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, m.Len()))
}

// Len is the encoded size of m.
func (m Message) Len() int {
	n := HeaderLen
	for _, a := range m.Attributes {
		n += AttributeHeaderLen + a.Len()
	}
	return n
}

func (m Message) AppendBinary(dst []byte) ([]byte, error) {
	if m.Type > 0x0f || m.Tunnel > 0x0f {
		return dst, fmt.Errorf("%w: type=%d tunnel=%d", ErrHeaderRange, m.Type, m.Tunnel)
	}
	start := len(dst)
	dst = append(dst, byte(m.Type)<<4|byte(m.Tunnel))
	for i, a := range m.Attributes {
		var err error
		dst, err = AppendAttribute(dst, a)
		if err != nil {
			return dst[:start], fmt.Errorf("attribute[%d]: %w", i, err)
		}
	}
	return dst, nil
}

func (m Message) MarshalBinary() ([]byte, error) {
	return Encode(m)
}

func (m *Message) UnmarshalBinary(b []byte) error {
	decoded, err := Decode(b)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// Attribute returns the first attribute with the given id.
func (m Message) Attribute(id AttributeID) (Attribute, bool) {
	for _, a := range m.Attributes {
		if a.ID == id {
			return a, true
		}
	}
	return Attribute{}, false
}

// Uint32 returns the value of the first integer attribute with the given id.
func (m Message) Uint32(id AttributeID) (uint32, bool) {
	a, ok := m.Attribute(id)
	if !ok {
		return 0, false
	}
	v, ok := a.Value.(Uint32)
	return uint32(v), ok
}
