package schema

import (
	"fmt"

	"github.com/danmuck/grecp/internal/protocol/grecp"
	"github.com/rs/zerolog/log"
)

type Requirement struct {
	ID   grecp.AttributeID
	Kind grecp.Kind
}

type ValidationError struct {
	MessageType grecp.MessageType
	AttributeID grecp.AttributeID
	Reason      string
}

func (e ValidationError) Error() string {
	if e.AttributeID == 0 {
		return fmt.Sprintf("schema: message_type=%d: %s", e.MessageType, e.Reason)
	}
	return fmt.Sprintf("schema: message_type=%d attribute=%d: %s", e.MessageType, e.AttributeID, e.Reason)
}

var requirements = map[grecp.MessageType][]Requirement{
	grecp.MessageSetupAccept: {
		{grecp.AttrBondingKeyValue, grecp.KindUint32},
	},
	grecp.MessageSetupDeny: {
		{grecp.AttrErrorCode, grecp.KindUint32},
	},
	grecp.MessageHello: {
		{grecp.AttrTimestamp, grecp.KindTimestamp},
	},
	grecp.MessageSetupRequest: nil,
	grecp.MessageTearDown:     nil,
	grecp.MessageNotify:       nil,
}

// Requirements returns the required attributes for a message type.
func Requirements(mt grecp.MessageType) ([]Requirement, bool) {
	reqs, ok := requirements[mt]
	return reqs, ok
}

// Validate enforces required attributes and their value kinds for a message type.
// Attributes without a requirement are ignored.
func Validate(m grecp.Message) error {
	log.Debug().
		Stringer("message_type", m.Type).
		Int("attributes", len(m.Attributes)).
		Msg("schema.Validate")
	reqs, ok := requirements[m.Type]
	if !ok {
		log.Error().Uint8("message_type", uint8(m.Type)).Msg("schema.Validate unknown message_type")
		return ValidationError{MessageType: m.Type, Reason: "unknown message_type"}
	}
	for _, req := range reqs {
		a, found := m.Attribute(req.ID)
		if !found {
			log.Error().
				Stringer("message_type", m.Type).
				Stringer("attribute", req.ID).
				Msg("schema.Validate missing attribute")
			return ValidationError{MessageType: m.Type, AttributeID: req.ID, Reason: "missing required attribute"}
		}
		if a.Value == nil || a.Value.Kind() != req.Kind {
			log.Error().
				Stringer("message_type", m.Type).
				Stringer("attribute", req.ID).
				Stringer("want", req.Kind).
				Msg("schema.Validate kind mismatch")
			return ValidationError{MessageType: m.Type, AttributeID: req.ID, Reason: "kind mismatch"}
		}
	}
	log.Debug().Stringer("message_type", m.Type).Msg("schema.Validate ok")
	return nil
}
