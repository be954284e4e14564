package signaling

import "encoding/json"

// EventType names a signaling message on the wire.
type EventType string

// Inbound events, sent by clients.
const (
	EventRegisterIdentity EventType = "register-identity"
	EventJoinRoom         EventType = "join-room"
	EventInviteCall       EventType = "invite-call"
	EventSendOffer        EventType = "send-offer"
	EventSendAnswer       EventType = "send-answer"
	EventSendICECandidate EventType = "send-ice-candidate"
)

// Outbound events, delivered to clients.
const (
	EventCallInvitation      EventType = "call-invitation"
	EventReceiveOffer        EventType = "receive-offer"
	EventReceiveAnswer       EventType = "receive-answer"
	EventReceiveICECandidate EventType = "receive-ice-candidate"
)

// Envelope is the wire frame for every signaling message. Payloads are opaque
// to the relay except for the routing fields it decodes.
type Envelope struct {
	Event   EventType       `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RegisterIdentityPayload binds a connection to a user identity for direct
// invitation delivery.
type RegisterIdentityPayload struct {
	UserID string `json:"userId"`
}

// JoinRoomPayload asks to join the room keyed by an appointment ID.
type JoinRoomPayload struct {
	AppointmentID string `json:"appointmentId"`
	UserID        string `json:"userId"`
}

// InviteCallPayload invites a specific user into an appointment's call.
type InviteCallPayload struct {
	TargetUserID  string `json:"userId"`
	AppointmentID string `json:"appointmentId"`
}

// SessionDescriptionPayload carries an opaque SDP offer or answer scoped to a
// room.
type SessionDescriptionPayload struct {
	AppointmentID string          `json:"appointmentId"`
	Description   json.RawMessage `json:"description"`
}

// CandidatePayload carries an opaque ICE candidate scoped to a room.
type CandidatePayload struct {
	AppointmentID string          `json:"appointmentId"`
	Candidate     json.RawMessage `json:"candidate"`
}

func mustEnvelope(event EventType, payload interface{}) Envelope {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payload structs marshal unconditionally; this is unreachable with
		// well-formed inputs.
		panic(err)
	}
	return Envelope{Event: event, Payload: raw}
}
