package signaling

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

// Outcome tags how the relay resolved an inbound message. Drops are modeled
// explicitly so the relay stays testable, but they are never surfaced to the
// sender: an unknown room or identity is indistinguishable from a benign
// client-side timing race, so the message is logged and discarded.
type Outcome string

const (
	OutcomeDelivered        Outcome = "delivered"
	OutcomeRegistered       Outcome = "registered"
	OutcomeJoined           Outcome = "joined"
	OutcomeRoomNotFound     Outcome = "room-not-found"
	OutcomeIdentityNotFound Outcome = "identity-not-found"
	OutcomeBadPayload       Outcome = "bad-payload"
	OutcomeUnknownEvent     Outcome = "unknown-event"
)

// Delivery is one outbound message produced by a relay handler.
type Delivery struct {
	To  Conn
	Msg Envelope
}

// RoomValidator answers whether a room identity refers to an existing
// appointment. It is the only I/O on the relay path and runs once per join.
type RoomValidator interface {
	RoomExists(ctx context.Context, roomID string) (bool, error)
}

// RoomValidatorFunc adapts a function to the RoomValidator interface.
type RoomValidatorFunc func(ctx context.Context, roomID string) (bool, error)

func (f RoomValidatorFunc) RoomExists(ctx context.Context, roomID string) (bool, error) {
	return f(ctx, roomID)
}

// Relay is the message-forwarding core of the video-consultation subsystem.
// It holds no media and performs no codec logic; it only routes opaque
// signaling payloads between the participants of a room. Handlers are pure
// with respect to the network: each consumes one envelope and returns the
// deliveries to perform, which makes the protocol testable without a
// transport.
type Relay struct {
	registry *Registry
	rooms    RoomValidator
	sink     EventSink
}

// NewRelay creates a Relay. A nil sink defaults to LogSink.
func NewRelay(registry *Registry, rooms RoomValidator, sink EventSink) *Relay {
	if sink == nil {
		sink = LogSink{}
	}
	return &Relay{registry: registry, rooms: rooms, sink: sink}
}

// HandleMessage routes one inbound envelope and returns the resolved outcome
// plus the deliveries to perform. Message order is preserved per sender by
// the transport; no cross-sender ordering is guaranteed, which is why
// receiving clients buffer early ICE candidates (see Session).
func (r *Relay) HandleMessage(ctx context.Context, sender Conn, env Envelope) (Outcome, []Delivery) {
	switch env.Event {
	case EventRegisterIdentity:
		return r.handleRegister(sender, env.Payload)
	case EventJoinRoom:
		return r.handleJoin(ctx, sender, env.Payload)
	case EventInviteCall:
		return r.handleInvite(sender, env.Payload)
	case EventSendOffer:
		return r.relayDescription(sender, env.Payload, EventReceiveOffer)
	case EventSendAnswer:
		return r.relayDescription(sender, env.Payload, EventReceiveAnswer)
	case EventSendICECandidate:
		return r.relayCandidate(sender, env.Payload)
	default:
		r.sink.Event("unknown event", map[string]interface{}{
			"event": string(env.Event), "conn": sender.ID(),
		})
		return OutcomeUnknownEvent, nil
	}
}

// Dispatch handles one envelope and performs its deliveries.
func (r *Relay) Dispatch(ctx context.Context, sender Conn, env Envelope) Outcome {
	outcome, deliveries := r.HandleMessage(ctx, sender, env)
	for _, d := range deliveries {
		if !d.To.Send(d.Msg) {
			r.sink.Event("delivery dropped", map[string]interface{}{
				"event": string(d.Msg.Event), "to": d.To.ID(),
			})
		}
	}
	return outcome
}

// Disconnect removes the connection from all memberships.
func (r *Relay) Disconnect(conn Conn) {
	for _, roomID := range r.registry.Disconnect(conn) {
		r.sink.Event("room empty", map[string]interface{}{"room": roomID})
	}
}

func (r *Relay) handleRegister(sender Conn, raw json.RawMessage) (Outcome, []Delivery) {
	var p RegisterIdentityPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UserID == "" {
		r.sink.Event("register without user id", map[string]interface{}{"conn": sender.ID()})
		return OutcomeBadPayload, nil
	}
	r.registry.RegisterIdentity(sender, p.UserID)
	return OutcomeRegistered, nil
}

func (r *Relay) handleJoin(ctx context.Context, sender Conn, raw json.RawMessage) (Outcome, []Delivery) {
	var p JoinRoomPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.AppointmentID == "" {
		r.sink.Event("join with missing appointment id", map[string]interface{}{"conn": sender.ID()})
		return OutcomeBadPayload, nil
	}
	if _, err := uuid.Parse(p.AppointmentID); err != nil {
		// Tolerates clients whose UI renders before the appointment ID is
		// resolved (e.g. a raw route placeholder).
		r.sink.Event("join with malformed appointment id", map[string]interface{}{
			"conn": sender.ID(), "room": p.AppointmentID,
		})
		return OutcomeBadPayload, nil
	}

	exists, err := r.rooms.RoomExists(ctx, p.AppointmentID)
	if err != nil || !exists {
		r.sink.Event("join for unknown appointment", map[string]interface{}{
			"conn": sender.ID(), "room": p.AppointmentID,
		})
		return OutcomeRoomNotFound, nil
	}

	r.registry.JoinRoom(sender, p.AppointmentID)
	size := r.registry.RoomSize(p.AppointmentID)
	r.sink.Event("room joined", map[string]interface{}{
		"room": p.AppointmentID, "user": p.UserID, "size": size,
	})
	if size == 2 {
		r.sink.Event("session started", map[string]interface{}{"room": p.AppointmentID})
	}
	return OutcomeJoined, nil
}

func (r *Relay) handleInvite(sender Conn, raw json.RawMessage) (Outcome, []Delivery) {
	var p InviteCallPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.TargetUserID == "" || p.AppointmentID == "" {
		r.sink.Event("invite with missing fields", map[string]interface{}{"conn": sender.ID()})
		return OutcomeBadPayload, nil
	}

	// Invitations are identity-keyed, not room-keyed: the invitee has not
	// necessarily joined the room yet.
	target, ok := r.registry.ConnByUser(p.TargetUserID)
	if !ok {
		r.sink.Event("invite for unregistered user", map[string]interface{}{
			"user": p.TargetUserID, "room": p.AppointmentID,
		})
		return OutcomeIdentityNotFound, nil
	}

	return OutcomeDelivered, []Delivery{{
		To:  target,
		Msg: mustEnvelope(EventCallInvitation, p),
	}}
}

func (r *Relay) relayDescription(sender Conn, raw json.RawMessage, out EventType) (Outcome, []Delivery) {
	var p SessionDescriptionPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.AppointmentID == "" {
		r.sink.Event("description with missing room", map[string]interface{}{"conn": sender.ID()})
		return OutcomeBadPayload, nil
	}
	return r.broadcast(sender, p.AppointmentID, Envelope{Event: out, Payload: raw})
}

func (r *Relay) relayCandidate(sender Conn, raw json.RawMessage) (Outcome, []Delivery) {
	var p CandidatePayload
	if err := json.Unmarshal(raw, &p); err != nil || p.AppointmentID == "" {
		r.sink.Event("candidate with missing room", map[string]interface{}{"conn": sender.ID()})
		return OutcomeBadPayload, nil
	}
	// Candidates are forwarded immediately, with no buffering here; a client
	// that has no remote description yet queues them on its side.
	return r.broadcast(sender, p.AppointmentID, Envelope{Event: EventReceiveICECandidate, Payload: raw})
}

func (r *Relay) broadcast(sender Conn, roomID string, msg Envelope) (Outcome, []Delivery) {
	if !r.registry.RoomKnown(roomID) {
		r.sink.Event("relay to unknown room", map[string]interface{}{
			"event": string(msg.Event), "room": roomID,
		})
		return OutcomeRoomNotFound, nil
	}
	members := r.registry.RoomMembers(roomID, sender.ID())
	deliveries := make([]Delivery, 0, len(members))
	for _, m := range members {
		deliveries = append(deliveries, Delivery{To: m, Msg: msg})
	}
	return OutcomeDelivered, deliveries
}
