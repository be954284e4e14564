package signaling

import "context"

// Compile-time check to ensure fakeConn implements Conn
var _ Conn = (*fakeConn)(nil)

// fakeConn is an in-memory connection that records delivered envelopes.
type fakeConn struct {
	id   string
	msgs []Envelope
	full bool
}

func newFakeConn(id string) *fakeConn {
	return &fakeConn{id: id}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(env Envelope) bool {
	if c.full {
		return false
	}
	c.msgs = append(c.msgs, env)
	return true
}

func (c *fakeConn) events() []EventType {
	types := make([]EventType, 0, len(c.msgs))
	for _, m := range c.msgs {
		types = append(types, m.Event)
	}
	return types
}

// allowAllRooms is a RoomValidator that accepts every room.
var allowAllRooms = RoomValidatorFunc(func(ctx context.Context, roomID string) (bool, error) {
	return true, nil
})
