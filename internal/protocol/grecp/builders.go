package grecp

import "time"

// ClientIdentificationLen is the fixed, zero padded size of the client name
// sent in a setup request.
const ClientIdentificationLen = 40

var padding = Attribute{ID: AttrMagicPadding, Value: Empty{}}

// NewRequest builds a tunnel setup request. The client name is sent only on
// the LTE tunnel and the session id only when nonzero.
func NewRequest(tunnel TunnelType, clientName string, sessionID uint32) Message {
	m := Message{Type: MessageSetupRequest, Tunnel: tunnel}
	if tunnel == TunnelLTE {
		name := make([]byte, ClientIdentificationLen)
		copy(name, clientName)
		m.Attributes = append(m.Attributes, Attribute{ID: AttrClientIdentificationName, Value: Opaque(name)})
	}
	if sessionID != 0 {
		m.Attributes = append(m.Attributes, Attribute{ID: AttrSessionID, Value: Uint32(sessionID)})
	}
	m.Attributes = append(m.Attributes, padding)
	return m
}

// NewHello builds a hello carrying the sender's uptime.
func NewHello(tunnel TunnelType, uptime time.Duration) Message {
	return Message{
		Type:   MessageHello,
		Tunnel: tunnel,
		Attributes: []Attribute{
			{ID: AttrTimestamp, Value: NewTimestamp(uptime)},
			padding,
		},
	}
}

func NewFilterListAckNotify(commitCount uint32, ackCode uint8) Message {
	return Message{
		Type:   MessageNotify,
		Tunnel: TunnelLTE,
		Attributes: []Attribute{
			{ID: AttrFilterListPackageAck, Value: FilterListAck{CommitCount: commitCount, AckCode: ackCode}},
			padding,
		},
	}
}

func NewTunnelVerificationNotify() Message {
	return Message{
		Type:       MessageNotify,
		Tunnel:     TunnelLTE,
		Attributes: []Attribute{{ID: AttrTunnelVerification, Value: Empty{}}, padding},
	}
}

// NewLinkFailureNotify reports failure of the other link over tunnel.
func NewLinkFailureNotify(tunnel TunnelType) Message {
	id := AttrLTELinkFailure
	if tunnel == TunnelLTE {
		id = AttrDSLLinkFailure
	}
	return Message{
		Type:       MessageNotify,
		Tunnel:     tunnel,
		Attributes: []Attribute{{ID: id, Value: Empty{}}, padding},
	}
}

// NewBypassTrafficNotify reports traffic bypassing the bond, in kbit/s.
func NewBypassTrafficNotify(kbit uint32) Message {
	return Message{
		Type:       MessageNotify,
		Tunnel:     TunnelDSL,
		Attributes: []Attribute{{ID: AttrBypassTrafficRate, Value: Uint32(kbit)}, padding},
	}
}
