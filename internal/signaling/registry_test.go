package signaling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIdentity(t *testing.T) {
	t.Run("binds and resolves", func(t *testing.T) {
		reg := NewRegistry()
		conn := newFakeConn("conn-1")

		reg.RegisterIdentity(conn, "user-1")

		got, ok := reg.ConnByUser("user-1")
		require.True(t, ok)
		assert.Equal(t, "conn-1", got.ID())
	})

	t.Run("re-register overwrites the prior identity", func(t *testing.T) {
		reg := NewRegistry()
		conn := newFakeConn("conn-1")

		reg.RegisterIdentity(conn, "user-1")
		reg.RegisterIdentity(conn, "user-2")

		_, ok := reg.ConnByUser("user-1")
		assert.False(t, ok)
		got, ok := reg.ConnByUser("user-2")
		require.True(t, ok)
		assert.Equal(t, "conn-1", got.ID())
	})

	t.Run("reconnect takes over the identity", func(t *testing.T) {
		reg := NewRegistry()
		old := newFakeConn("conn-1")
		fresh := newFakeConn("conn-2")

		reg.RegisterIdentity(old, "user-1")
		reg.RegisterIdentity(fresh, "user-1")

		got, ok := reg.ConnByUser("user-1")
		require.True(t, ok)
		assert.Equal(t, "conn-2", got.ID())
	})
}

func TestJoinRoom(t *testing.T) {
	t.Run("rooms are created on first join", func(t *testing.T) {
		reg := NewRegistry()
		conn := newFakeConn("conn-1")

		assert.False(t, reg.RoomKnown("room-1"))
		reg.JoinRoom(conn, "room-1")
		assert.True(t, reg.RoomKnown("room-1"))
		assert.Equal(t, 1, reg.RoomSize("room-1"))
	})

	t.Run("double join is idempotent", func(t *testing.T) {
		reg := NewRegistry()
		conn := newFakeConn("conn-1")

		reg.JoinRoom(conn, "room-1")
		reg.JoinRoom(conn, "room-1")
		assert.Equal(t, 1, reg.RoomSize("room-1"))
	})

	t.Run("members excludes the asking connection", func(t *testing.T) {
		reg := NewRegistry()
		a := newFakeConn("conn-a")
		b := newFakeConn("conn-b")
		reg.JoinRoom(a, "room-1")
		reg.JoinRoom(b, "room-1")

		members := reg.RoomMembers("room-1", "conn-a")
		require.Len(t, members, 1)
		assert.Equal(t, "conn-b", members[0].ID())
	})
}

func TestDisconnect(t *testing.T) {
	t.Run("clears identity and memberships", func(t *testing.T) {
		reg := NewRegistry()
		conn := newFakeConn("conn-1")
		reg.RegisterIdentity(conn, "user-1")
		reg.JoinRoom(conn, "room-1")

		emptied := reg.Disconnect(conn)

		assert.Equal(t, []string{"room-1"}, emptied)
		assert.False(t, reg.RoomKnown("room-1"))
		_, ok := reg.ConnByUser("user-1")
		assert.False(t, ok)
	})

	t.Run("room with remaining members is not emptied", func(t *testing.T) {
		reg := NewRegistry()
		a := newFakeConn("conn-a")
		b := newFakeConn("conn-b")
		reg.JoinRoom(a, "room-1")
		reg.JoinRoom(b, "room-1")

		emptied := reg.Disconnect(a)

		assert.Empty(t, emptied)
		assert.Equal(t, 1, reg.RoomSize("room-1"))
	})

	t.Run("stale disconnect leaves a reconnected identity alone", func(t *testing.T) {
		reg := NewRegistry()
		old := newFakeConn("conn-1")
		fresh := newFakeConn("conn-2")
		reg.RegisterIdentity(old, "user-1")
		reg.RegisterIdentity(fresh, "user-1")

		reg.Disconnect(old)

		got, ok := reg.ConnByUser("user-1")
		require.True(t, ok)
		assert.Equal(t, "conn-2", got.ID())
	})

	t.Run("unknown connection is a no-op", func(t *testing.T) {
		reg := NewRegistry()
		assert.Empty(t, reg.Disconnect(newFakeConn("never-seen")))
	})
}
