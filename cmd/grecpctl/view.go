package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"unicode"

	"github.com/danmuck/grecp/internal/protocol/gre"
	"github.com/danmuck/grecp/internal/protocol/grecp"
)

type messageView struct {
	GRE        *greView        `json:"gre,omitempty"`
	Type       uint8           `json:"type"`
	TypeName   string          `json:"type_name"`
	Tunnel     uint8           `json:"tunnel"`
	TunnelName string          `json:"tunnel_name"`
	Attributes []attributeView `json:"attributes"`
}

type greView struct {
	Flags    uint16  `json:"flags"`
	Proto    uint16  `json:"proto"`
	Key      *uint32 `json:"key,omitempty"`
	Sequence *uint32 `json:"sequence,omitempty"`
}

type attributeView struct {
	ID     uint8      `json:"id"`
	Name   string     `json:"name"`
	Kind   string     `json:"kind"`
	Length int        `json:"length"`
	Value  string     `json:"value,omitempty"`
	Items  []itemView `json:"items,omitempty"`
}

type itemView struct {
	Type        uint16 `json:"type"`
	TypeName    string `json:"type_name"`
	Enable      uint16 `json:"enable"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value"`
}

type errorView struct {
	Error   string       `json:"error"`
	Kind    string       `json:"kind"`
	Skipped string       `json:"skipped,omitempty"`
	Offset  *int         `json:"offset,omitempty"`
	Message *messageView `json:"message,omitempty"`
}

func newMessageView(h *gre.Header, m grecp.Message) messageView {
	v := messageView{
		Type:       uint8(m.Type),
		TypeName:   m.Type.String(),
		Tunnel:     uint8(m.Tunnel),
		TunnelName: m.Tunnel.String(),
		Attributes: make([]attributeView, 0, len(m.Attributes)),
	}
	if h != nil {
		g := &greView{Flags: h.Flags, Proto: h.Proto}
		if h.HasKey() {
			key := h.Key
			g.Key = &key
		}
		if h.HasSequence() {
			seq := h.Sequence
			g.Sequence = &seq
		}
		v.GRE = g
	}
	for _, a := range m.Attributes {
		av := attributeView{
			ID:     uint8(a.ID),
			Name:   a.ID.String(),
			Kind:   a.Value.Kind().String(),
			Length: a.Len(),
			Value:  formatValue(a.Value),
		}
		if pkg, ok := a.Value.(grecp.FilterListPackage); ok {
			for _, it := range pkg.Items {
				av.Items = append(av.Items, itemView{
					Type:        uint16(it.Type),
					TypeName:    it.Type.String(),
					Enable:      it.Enable,
					Description: string(it.Description),
					Value:       formatBytes(it.Value),
				})
			}
		}
		v.Attributes = append(v.Attributes, av)
	}
	return v
}

func newErrorView(o outcome) errorView {
	v := errorView{Error: o.Err.Error(), Kind: grecp.ErrorLabel(o.Err), Skipped: o.Skipped}
	var de *grecp.DecodeError
	if errors.As(o.Err, &de) {
		off := de.Offset
		v.Offset = &off
	}
	if o.Decoded {
		mv := newMessageView(o.Header, o.Message)
		v.Message = &mv
	}
	return v
}

// formatValue renders a value as a single log or JSON field.
func formatValue(v grecp.Value) string {
	switch v := v.(type) {
	case grecp.Empty:
		return ""
	case grecp.Opaque:
		return formatBytes(v)
	case grecp.IPv4:
		return v.String()
	case grecp.IPv6:
		return v.String()
	case grecp.IPv6Prefix:
		if p := v.Prefix(); p.IsValid() {
			return p.String()
		}
		return fmt.Sprintf("%s/%d", v.Addr, v.Mask)
	case grecp.Uint32:
		return strconv.FormatUint(uint64(v), 10)
	case grecp.Timestamp:
		return v.Duration().String()
	case grecp.FilterListPackage:
		return fmt.Sprintf("commit=%d packet=%d/%d items=%d", v.CommitCount, v.PacketID, v.PacketSum, len(v.Items))
	case grecp.FilterListAck:
		return fmt.Sprintf("commit=%d ack=%d", v.CommitCount, v.AckCode)
	}
	return fmt.Sprint(v)
}

// formatBytes prints NUL padded text as text and anything else as hex.
func formatBytes(b []byte) string {
	end := len(b)
	for end > 0 && b[end-1] == 0 {
		end--
	}
	if end == 0 {
		return hex.EncodeToString(b)
	}
	for _, c := range b[:end] {
		if c >= 0x80 || !unicode.IsPrint(rune(c)) {
			return hex.EncodeToString(b)
		}
	}
	return string(b[:end])
}
