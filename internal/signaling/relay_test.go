package signaling

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	roomA = "6fa1be1e-96ad-4bb5-a9c4-1f1a1c2d3e4f"
	roomB = "7cb2cf2f-07be-4cc6-ba05-202b2d3e4f50"
)

func payload(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func joinedRelay(t *testing.T, conns map[*fakeConn]string) *Relay {
	t.Helper()
	relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
	for conn, room := range conns {
		outcome, _ := relay.HandleMessage(context.Background(), conn,
			Envelope{Event: EventJoinRoom, Payload: payload(t, JoinRoomPayload{AppointmentID: room})})
		require.Equal(t, OutcomeJoined, outcome)
	}
	return relay
}

func TestRelayRegister(t *testing.T) {
	t.Run("registers the sender's identity", func(t *testing.T) {
		registry := NewRegistry()
		relay := NewRelay(registry, allowAllRooms, NopSink{})
		conn := newFakeConn("conn-1")

		outcome, deliveries := relay.HandleMessage(context.Background(), conn,
			Envelope{Event: EventRegisterIdentity, Payload: payload(t, RegisterIdentityPayload{UserID: "user-1"})})

		assert.Equal(t, OutcomeRegistered, outcome)
		assert.Empty(t, deliveries)
		_, ok := registry.ConnByUser("user-1")
		assert.True(t, ok)
	})

	t.Run("missing user id", func(t *testing.T) {
		relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
		outcome, _ := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
			Envelope{Event: EventRegisterIdentity, Payload: json.RawMessage(`{}`)})
		assert.Equal(t, OutcomeBadPayload, outcome)
	})
}

func TestRelayJoin(t *testing.T) {
	t.Run("joins an existing appointment room", func(t *testing.T) {
		joinedRelay(t, map[*fakeConn]string{newFakeConn("conn-1"): roomA})
	})

	t.Run("unknown appointment", func(t *testing.T) {
		deny := RoomValidatorFunc(func(ctx context.Context, roomID string) (bool, error) {
			return false, nil
		})
		relay := NewRelay(NewRegistry(), deny, NopSink{})
		outcome, _ := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
			Envelope{Event: EventJoinRoom, Payload: payload(t, JoinRoomPayload{AppointmentID: roomA})})
		assert.Equal(t, OutcomeRoomNotFound, outcome)
	})

	t.Run("lookup failure counts as unknown", func(t *testing.T) {
		failing := RoomValidatorFunc(func(ctx context.Context, roomID string) (bool, error) {
			return false, fmt.Errorf("store offline")
		})
		relay := NewRelay(NewRegistry(), failing, NopSink{})
		outcome, _ := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
			Envelope{Event: EventJoinRoom, Payload: payload(t, JoinRoomPayload{AppointmentID: roomA})})
		assert.Equal(t, OutcomeRoomNotFound, outcome)
	})

	t.Run("malformed appointment id", func(t *testing.T) {
		relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
		outcome, _ := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
			Envelope{Event: EventJoinRoom, Payload: payload(t, JoinRoomPayload{AppointmentID: ":appointmentId"})})
		assert.Equal(t, OutcomeBadPayload, outcome)
	})
}

func TestRelayInvite(t *testing.T) {
	t.Run("delivers to the registered target", func(t *testing.T) {
		relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
		vet := newFakeConn("conn-vet")
		owner := newFakeConn("conn-owner")
		relay.HandleMessage(context.Background(), owner,
			Envelope{Event: EventRegisterIdentity, Payload: payload(t, RegisterIdentityPayload{UserID: "owner-1"})})

		outcome, deliveries := relay.HandleMessage(context.Background(), vet,
			Envelope{Event: EventInviteCall, Payload: payload(t, InviteCallPayload{TargetUserID: "owner-1", AppointmentID: roomA})})

		assert.Equal(t, OutcomeDelivered, outcome)
		require.Len(t, deliveries, 1)
		assert.Equal(t, "conn-owner", deliveries[0].To.ID())
		assert.Equal(t, EventCallInvitation, deliveries[0].Msg.Event)

		var invite InviteCallPayload
		require.NoError(t, json.Unmarshal(deliveries[0].Msg.Payload, &invite))
		assert.Equal(t, roomA, invite.AppointmentID)
	})

	t.Run("unregistered target is a soft drop", func(t *testing.T) {
		relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
		outcome, deliveries := relay.HandleMessage(context.Background(), newFakeConn("conn-vet"),
			Envelope{Event: EventInviteCall, Payload: payload(t, InviteCallPayload{TargetUserID: "offline-user", AppointmentID: roomA})})
		assert.Equal(t, OutcomeIdentityNotFound, outcome)
		assert.Empty(t, deliveries)
	})
}

func TestRelayBroadcast(t *testing.T) {
	t.Run("offer reaches everyone in the room but the sender", func(t *testing.T) {
		vet := newFakeConn("conn-vet")
		owner := newFakeConn("conn-owner")
		relay := joinedRelay(t, map[*fakeConn]string{vet: roomA, owner: roomA})

		outcome := relay.Dispatch(context.Background(), vet,
			Envelope{Event: EventSendOffer, Payload: payload(t, SessionDescriptionPayload{
				AppointmentID: roomA,
				Description:   json.RawMessage(`{"type":"offer","sdp":"v=0"}`),
			})})

		assert.Equal(t, OutcomeDelivered, outcome)
		assert.Equal(t, []EventType{EventReceiveOffer}, owner.events())
		assert.Empty(t, vet.msgs)
	})

	t.Run("rooms are isolated", func(t *testing.T) {
		vetA := newFakeConn("conn-vet-a")
		ownerA := newFakeConn("conn-owner-a")
		ownerB := newFakeConn("conn-owner-b")
		relay := joinedRelay(t, map[*fakeConn]string{vetA: roomA, ownerA: roomA, ownerB: roomB})

		relay.Dispatch(context.Background(), vetA,
			Envelope{Event: EventSendICECandidate, Payload: payload(t, CandidatePayload{
				AppointmentID: roomA,
				Candidate:     json.RawMessage(`{"candidate":"candidate:1"}`),
			})})

		assert.Equal(t, []EventType{EventReceiveICECandidate}, ownerA.events())
		assert.Empty(t, ownerB.msgs)
	})

	t.Run("answer flows back to the offerer", func(t *testing.T) {
		vet := newFakeConn("conn-vet")
		owner := newFakeConn("conn-owner")
		relay := joinedRelay(t, map[*fakeConn]string{vet: roomA, owner: roomA})

		relay.Dispatch(context.Background(), owner,
			Envelope{Event: EventSendAnswer, Payload: payload(t, SessionDescriptionPayload{
				AppointmentID: roomA,
				Description:   json.RawMessage(`{"type":"answer","sdp":"v=0"}`),
			})})

		assert.Equal(t, []EventType{EventReceiveAnswer}, vet.events())
	})

	t.Run("relay to a room nobody joined", func(t *testing.T) {
		relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
		outcome, deliveries := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
			Envelope{Event: EventSendOffer, Payload: payload(t, SessionDescriptionPayload{AppointmentID: roomA})})
		assert.Equal(t, OutcomeRoomNotFound, outcome)
		assert.Empty(t, deliveries)
	})

	t.Run("a full peer buffer does not fail the dispatch", func(t *testing.T) {
		vet := newFakeConn("conn-vet")
		owner := newFakeConn("conn-owner")
		relay := joinedRelay(t, map[*fakeConn]string{vet: roomA, owner: roomA})
		owner.full = true

		outcome := relay.Dispatch(context.Background(), vet,
			Envelope{Event: EventSendOffer, Payload: payload(t, SessionDescriptionPayload{AppointmentID: roomA})})

		assert.Equal(t, OutcomeDelivered, outcome)
		assert.Empty(t, owner.msgs)
	})
}

func TestRelayUnknownEvent(t *testing.T) {
	relay := NewRelay(NewRegistry(), allowAllRooms, NopSink{})
	outcome, deliveries := relay.HandleMessage(context.Background(), newFakeConn("conn-1"),
		Envelope{Event: "screen-share", Payload: json.RawMessage(`{}`)})
	assert.Equal(t, OutcomeUnknownEvent, outcome)
	assert.Empty(t, deliveries)
}

func TestRelayDisconnect(t *testing.T) {
	vet := newFakeConn("conn-vet")
	owner := newFakeConn("conn-owner")
	relay := joinedRelay(t, map[*fakeConn]string{vet: roomA, owner: roomA})

	relay.Disconnect(owner)

	// The remaining member no longer has a peer to reach.
	outcome, deliveries := relay.HandleMessage(context.Background(), vet,
		Envelope{Event: EventSendOffer, Payload: payload(t, SessionDescriptionPayload{AppointmentID: roomA})})
	assert.Equal(t, OutcomeDelivered, outcome)
	assert.Empty(t, deliveries)

	relay.Disconnect(vet)
	outcome, _ = relay.HandleMessage(context.Background(), newFakeConn("conn-late"),
		Envelope{Event: EventSendOffer, Payload: payload(t, SessionDescriptionPayload{AppointmentID: roomA})})
	assert.Equal(t, OutcomeRoomNotFound, outcome)
}
