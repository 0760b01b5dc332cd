package grecp

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/danmuck/grecp/internal/protocol/tlv"
)

const (
	filterListPrefixLen = 8 // commit count, packet sum, packet id
	filterListAckLen    = 5 // commit count, ack code
	filterItemFixedLen  = 4 // enable, description length; counted by the item length
)

// FilterListPackage distributes one fragment of the remote filter list.
type FilterListPackage struct {
	CommitCount uint32
	PacketSum   uint16
	PacketID    uint16
	Items       []FilterListItem
}

func (FilterListPackage) Kind() Kind { return KindFilterListPackage }

func (p FilterListPackage) Len() int {
	n := filterListPrefixLen
	for _, it := range p.Items {
		n += it.Len()
	}
	return n
}

func (p FilterListPackage) appendValue(dst []byte) ([]byte, error) {
	dst = binary.BigEndian.AppendUint32(dst, p.CommitCount)
	dst = binary.BigEndian.AppendUint16(dst, p.PacketSum)
	dst = binary.BigEndian.AppendUint16(dst, p.PacketID)
	for i, it := range p.Items {
		var err error
		dst, err = AppendFilterListItem(dst, it)
		if err != nil {
			return dst, fmt.Errorf("filter list item %d: %w", i, err)
		}
	}
	return dst, nil
}

// FilterListAck acknowledges a filter list commit.
type FilterListAck struct {
	CommitCount uint32
	AckCode     uint8
}

func (FilterListAck) Kind() Kind { return KindFilterListAck }
func (FilterListAck) Len() int   { return filterListAckLen }

func (a FilterListAck) appendValue(dst []byte) ([]byte, error) {
	dst = binary.BigEndian.AppendUint32(dst, a.CommitCount)
	return append(dst, a.AckCode), nil
}

// FilterListItem is one traffic classification rule.
type FilterListItem struct {
	Type        FilterItemType
	Enable      uint16
	Description []byte
	Value       []byte
}

// Len is the encoded item size including its type and length header.
func (it FilterListItem) Len() int {
	return tlv.FilterItem.HeaderLen() + filterItemFixedLen + len(it.Description) + len(it.Value)
}

// DecodeFilterListPackage decodes the body of a Filter List Package attribute.
// Items are read only from b, so a malformed item cannot reach past it.
func DecodeFilterListPackage(b []byte) (FilterListPackage, error) {
	if len(b) < filterListPrefixLen {
		return FilterListPackage{}, decodeErr(
			fmt.Sprintf("filter list package: length %d below prefix", len(b)),
			0,
			ErrLengthMismatch,
		)
	}
	p := FilterListPackage{
		CommitCount: binary.BigEndian.Uint32(b[0:4]),
		PacketSum:   binary.BigEndian.Uint16(b[4:6]),
		PacketID:    binary.BigEndian.Uint16(b[6:8]),
	}
	items := b[filterListPrefixLen:]
	for off := 0; off < len(items); {
		it, n, err := DecodeFilterListItem(items[off:])
		if err != nil {
			return FilterListPackage{}, shift(err, filterListPrefixLen+off)
		}
		p.Items = append(p.Items, it)
		off += n
	}
	return p, nil
}

// DecodeFilterListAck decodes the body of a Filter List Package ACK attribute.
func DecodeFilterListAck(b []byte) (FilterListAck, error) {
	if len(b) != filterListAckLen {
		return FilterListAck{}, decodeErr(
			fmt.Sprintf("filter list ack: want %d bytes, length %d", filterListAckLen, len(b)),
			0,
			ErrLengthMismatch,
		)
	}
	return FilterListAck{
		CommitCount: binary.BigEndian.Uint32(b[0:4]),
		AckCode:     b[4],
	}, nil
}

// DecodeFilterListItem decodes one item from the front of b and returns the
// number of bytes consumed.
func DecodeFilterListItem(b []byte) (FilterListItem, int, error) {
	f, n, err := tlv.FilterItem.Next(b)
	if err != nil {
		if errors.Is(err, tlv.ErrShortFieldHeader) {
			return FilterListItem{}, 0, decodeErr("filter list item header", 0, ErrTruncated)
		}
		return FilterListItem{}, 0, decodeErr("filter list item value", tlv.FilterItem.HeaderLen(), ErrTruncated)
	}
	v := f.Value
	if len(v) < filterItemFixedLen {
		return FilterListItem{}, 0, decodeErr(
			fmt.Sprintf("filter list item: length %d below fixed fields", len(v)),
			2,
			ErrInvalidLength,
		)
	}
	descLen := int(binary.BigEndian.Uint16(v[2:4]))
	if descLen+filterItemFixedLen > len(v) {
		return FilterListItem{}, 0, decodeErr(
			fmt.Sprintf("filter list item: description length %d exceeds length %d", descLen, len(v)),
			6,
			ErrInvalidLength,
		)
	}
	descEnd := filterItemFixedLen + descLen
	return FilterListItem{
		Type:        FilterItemType(f.Tag),
		Enable:      binary.BigEndian.Uint16(v[0:2]),
		Description: clone(v[filterItemFixedLen:descEnd]),
		Value:       clone(v[descEnd:]),
	}, n, nil
}

// AppendFilterListItem appends the encoding of it to dst. The item length and
// description length are derived from the slices.
func AppendFilterListItem(dst []byte, it FilterListItem) ([]byte, error) {
	if len(it.Description) > 0xFFFF {
		return dst, fmt.Errorf("%w: description of %d bytes", ErrInvalidLength, len(it.Description))
	}
	hdr := len(dst)
	dst = binary.BigEndian.AppendUint16(dst, uint16(it.Type))
	dst = append(dst, 0, 0)
	dst = binary.BigEndian.AppendUint16(dst, it.Enable)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(it.Description)))
	dst = append(dst, it.Description...)
	dst = append(dst, it.Value...)
	if err := tlv.FilterItem.PatchLength(dst, hdr); err != nil {
		return dst[:hdr], fmt.Errorf("%w: filter list item of %d bytes", ErrInvalidLength, it.Len())
	}
	return dst, nil
}

func EncodeFilterListItem(it FilterListItem) ([]byte, error) {
	return AppendFilterListItem(make([]byte, 0, it.Len()), it)
}
