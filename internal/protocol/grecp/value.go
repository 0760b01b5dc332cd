package grecp

import (
	"encoding/binary"
	"fmt"
	"net/netip"
	"time"
)

// Kind names the value shape an attribute id selects.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindOpaque
	KindIPv4
	KindIPv6
	KindIPv6Prefix
	KindUint32
	KindTimestamp
	KindFilterListPackage
	KindFilterListAck
)

var kindNames = [...]string{
	KindEmpty:             "empty",
	KindOpaque:            "opaque",
	KindIPv4:              "ipv4",
	KindIPv6:              "ipv6",
	KindIPv6Prefix:        "ipv6-prefix",
	KindUint32:            "uint32",
	KindTimestamp:         "timestamp",
	KindFilterListPackage: "filter-list-package",
	KindFilterListAck:     "filter-list-ack",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindOf is the attribute id to value shape table used by both decode and
// encode. Ids outside the table carry raw bytes: KindOpaque when the length is
// nonzero and KindEmpty otherwise.
func KindOf(id AttributeID) Kind {
	switch id {
	case AttrHIPv4Address:
		return KindIPv4
	case AttrHIPv6Address, AttrIPv6PrefixAssignedToHost:
		return KindIPv6
	case AttrIPv6PrefixAssignedByHAAP:
		return KindIPv6Prefix
	case AttrSessionID, // documented as a string, observed as a 32-bit integer
		AttrBypassTrafficRate,
		AttrDSLSynchronizationRate,
		AttrRTTDifferenceThreshold,
		AttrBypassBandwidthCheckInterval,
		AttrActiveHelloInterval,
		AttrHelloRetryTimes,
		AttrIdleTimeout,
		AttrErrorCode,
		AttrBondingKeyValue,
		AttrConfiguredDSLUpstreamBandwidth,
		AttrConfiguredDSLDownstreamBandwidth,
		AttrRTTDifferenceThresholdViolation,
		AttrRTTDifferenceThresholdCompliance,
		AttrIdleHelloInterval,
		AttrNoTrafficMonitoredInterval:
		return KindUint32
	case AttrTimestamp:
		return KindTimestamp
	case AttrFilterListPackage:
		return KindFilterListPackage
	case AttrFilterListPackageAck:
		return KindFilterListAck
	}
	return KindOpaque
}

func kindAccepts(want, got Kind) bool {
	return want == got || (want == KindOpaque && got == KindEmpty)
}

// Value is the payload of one attribute. The set of implementations is closed.
type Value interface {
	Kind() Kind
	// Len is the encoded payload size in bytes.
	Len() int
	appendValue(dst []byte) ([]byte, error)
}

// Empty is the payload of a zero-length attribute outside the id table.
type Empty struct{}

func (Empty) Kind() Kind { return KindEmpty }
func (Empty) Len() int   { return 0 }

func (Empty) appendValue(dst []byte) ([]byte, error) { return dst, nil }

// Opaque keeps the bytes of an attribute outside the id table.
type Opaque []byte

func (Opaque) Kind() Kind { return KindOpaque }
func (o Opaque) Len() int { return len(o) }

func (o Opaque) appendValue(dst []byte) ([]byte, error) { return append(dst, o...), nil }

type IPv4 [4]byte

func IPv4From(addr netip.Addr) IPv4 { return IPv4(addr.As4()) }

func (IPv4) Kind() Kind         { return KindIPv4 }
func (IPv4) Len() int           { return 4 }
func (a IPv4) Addr() netip.Addr { return netip.AddrFrom4(a) }
func (a IPv4) String() string   { return a.Addr().String() }

func (a IPv4) appendValue(dst []byte) ([]byte, error) { return append(dst, a[:]...), nil }

type IPv6 [16]byte

func IPv6From(addr netip.Addr) IPv6 { return IPv6(addr.As16()) }

func (IPv6) Kind() Kind         { return KindIPv6 }
func (IPv6) Len() int           { return 16 }
func (a IPv6) Addr() netip.Addr { return netip.AddrFrom16(a) }
func (a IPv6) String() string   { return a.Addr().String() }

func (a IPv6) appendValue(dst []byte) ([]byte, error) { return append(dst, a[:]...), nil }

// IPv6Prefix is an address followed by a one-byte prefix length.
type IPv6Prefix struct {
	Addr IPv6
	Mask uint8
}

func IPv6PrefixFrom(p netip.Prefix) IPv6Prefix {
	return IPv6Prefix{Addr: IPv6From(p.Addr()), Mask: uint8(p.Bits())}
}

func (IPv6Prefix) Kind() Kind { return KindIPv6Prefix }
func (IPv6Prefix) Len() int   { return 17 }

// Prefix converts to netip.Prefix. Masks above 128 yield an invalid prefix.
func (p IPv6Prefix) Prefix() netip.Prefix {
	return netip.PrefixFrom(p.Addr.Addr(), int(p.Mask))
}

func (p IPv6Prefix) appendValue(dst []byte) ([]byte, error) {
	dst = append(dst, p.Addr[:]...)
	return append(dst, p.Mask), nil
}

type Uint32 uint32

func (Uint32) Kind() Kind { return KindUint32 }
func (Uint32) Len() int   { return 4 }

func (v Uint32) appendValue(dst []byte) ([]byte, error) {
	return binary.BigEndian.AppendUint32(dst, uint32(v)), nil
}

// Timestamp is a 64-bit value split into two 32-bit words. Senders put
// seconds of uptime in High and milliseconds in Low.
type Timestamp struct {
	High uint32
	Low  uint32
}

// NewTimestamp splits d into whole seconds and the remaining milliseconds.
func NewTimestamp(d time.Duration) Timestamp {
	return Timestamp{
		High: uint32(d / time.Second),
		Low:  uint32((d % time.Second) / time.Millisecond),
	}
}

func (Timestamp) Kind() Kind { return KindTimestamp }
func (Timestamp) Len() int   { return 8 }

func (t Timestamp) Uint64() uint64 {
	return uint64(t.High)<<32 | uint64(t.Low)
}

// Duration reads the value as seconds and milliseconds.
func (t Timestamp) Duration() time.Duration {
	return time.Duration(t.High)*time.Second + time.Duration(t.Low)*time.Millisecond
}

func (t Timestamp) appendValue(dst []byte) ([]byte, error) {
	dst = binary.BigEndian.AppendUint32(dst, t.High)
	return binary.BigEndian.AppendUint32(dst, t.Low), nil
}

func decodeValue(id AttributeID, b []byte) (Value, error) {
	kind := KindOf(id)
	switch kind {
	case KindFilterListPackage:
		return DecodeFilterListPackage(b)
	case KindFilterListAck:
		return DecodeFilterListAck(b)
	case KindOpaque:
		if len(b) == 0 {
			return Empty{}, nil
		}
		return Opaque(clone(b)), nil
	}

	if want := fixedLen(kind); len(b) != want {
		return nil, decodeErr(
			fmt.Sprintf("%s value: want %d bytes, length %d", kind, want, len(b)),
			0,
			ErrLengthMismatch,
		)
	}
	switch kind {
	case KindIPv4:
		return IPv4(b), nil
	case KindIPv6:
		return IPv6(b), nil
	case KindIPv6Prefix:
		return IPv6Prefix{Addr: IPv6(b[:16]), Mask: b[16]}, nil
	case KindUint32:
		return Uint32(binary.BigEndian.Uint32(b)), nil
	default:
		return Timestamp{High: binary.BigEndian.Uint32(b[0:4]), Low: binary.BigEndian.Uint32(b[4:8])}, nil
	}
}

func fixedLen(k Kind) int {
	switch k {
	case KindIPv4, KindUint32:
		return 4
	case KindIPv6:
		return 16
	case KindIPv6Prefix:
		return 17
	case KindTimestamp:
		return 8
	}
	return 0
}

func clone(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
