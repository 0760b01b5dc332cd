package grecp

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// GRE protocol types that carry GRECP. Deployed HAAPs use ProtoObserved; the
// protocol document assigns ProtoDocumented. Neither is treated as canonical.
const (
	ProtoObserved   uint16 = 0x0101
	ProtoDocumented uint16 = 0xB7EA
)

// Binding is the set of GRE protocol types whose payload is handed to Decode.
type Binding []uint16

var (
	BindObserved   = Binding{ProtoObserved}
	BindDocumented = Binding{ProtoDocumented}
	BindAny        = Binding{ProtoObserved, ProtoDocumented}
)

// Matches reports whether a GRE payload with protocol type proto is GRECP.
func (b Binding) Matches(proto uint16) bool {
	return slices.Contains(b, proto)
}

// IsGRECP matches either known protocol type.
func IsGRECP(proto uint16) bool {
	return BindAny.Matches(proto)
}

// ParseBinding builds a binding from names. Accepted names are "observed",
// "documented", "any" and numeric literals such as "0x0101".
func ParseBinding(names []string) (Binding, error) {
	var b Binding
	add := func(p uint16) {
		if !b.Matches(p) {
			b = append(b, p)
		}
	}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		switch name {
		case "":
			continue
		case "observed":
			add(ProtoObserved)
		case "documented", "rfc":
			add(ProtoDocumented)
		case "any", "both":
			add(ProtoObserved)
			add(ProtoDocumented)
		default:
			v, err := strconv.ParseUint(name, 0, 16)
			if err != nil {
				return nil, fmt.Errorf("grecp: invalid protocol type %q: %w", raw, err)
			}
			add(uint16(v))
		}
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("grecp: binding has no protocol types")
	}
	return b, nil
}

func (b Binding) String() string {
	parts := make([]string, 0, len(b))
	for _, p := range b {
		parts = append(parts, fmt.Sprintf("0x%04x", p))
	}
	return strings.Join(parts, ",")
}
