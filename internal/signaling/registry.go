package signaling

import "sync"

// Conn is a live connection handle the registry can deliver envelopes to.
// Send reports false when the message was dropped (closed peer or full
// buffer); callers treat that as a SignalingDrop, never an error.
type Conn interface {
	ID() string
	Send(Envelope) bool
}

// Registry maps connections to user identities and appointment rooms. It is
// the only state shared across rooms, so all map access is guarded by one
// lock; relay handlers hold it only for map reads and writes, never while
// delivering.
type Registry struct {
	mu sync.RWMutex

	identities map[string]Conn            // userID -> conn
	connUsers  map[string]string          // connID -> userID
	rooms      map[string]map[string]Conn // roomID -> connID -> conn
	connRooms  map[string]map[string]bool // connID -> roomIDs
}

// NewRegistry creates an empty Registry. One registry is constructed per
// process and passed to the relay explicitly.
func NewRegistry() *Registry {
	return &Registry{
		identities: make(map[string]Conn),
		connUsers:  make(map[string]string),
		rooms:      make(map[string]map[string]Conn),
		connRooms:  make(map[string]map[string]bool),
	}
}

// RegisterIdentity binds conn to userID. Idempotent: a later call for the
// same connection overwrites the prior mapping.
func (r *Registry) RegisterIdentity(conn Conn, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.connUsers[conn.ID()]; ok && prev != userID {
		delete(r.identities, prev)
	}
	r.identities[userID] = conn
	r.connUsers[conn.ID()] = userID
}

// ConnByUser returns the connection registered for userID.
func (r *Registry) ConnByUser(userID string) (Conn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.identities[userID]
	return conn, ok
}

// JoinRoom adds conn to the room's membership set. Rooms are created
// implicitly on first join.
func (r *Registry) JoinRoom(conn Conn, roomID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[roomID]
	if !ok {
		room = make(map[string]Conn)
		r.rooms[roomID] = room
	}
	room[conn.ID()] = conn

	joined, ok := r.connRooms[conn.ID()]
	if !ok {
		joined = make(map[string]bool)
		r.connRooms[conn.ID()] = joined
	}
	joined[roomID] = true
}

// RoomKnown reports whether any connection has joined roomID.
func (r *Registry) RoomKnown(roomID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID]) > 0
}

// RoomSize returns the current membership count of roomID.
func (r *Registry) RoomSize(roomID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[roomID])
}

// RoomMembers returns the room's connections excluding excludeConnID.
func (r *Registry) RoomMembers(roomID, excludeConnID string) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room := r.rooms[roomID]
	members := make([]Conn, 0, len(room))
	for id, conn := range room {
		if id == excludeConnID {
			continue
		}
		members = append(members, conn)
	}
	return members
}

// Disconnect removes conn from the identity map and every room it joined.
// Rooms left empty are garbage-collected. Returns the rooms that became
// empty so the caller can emit lifecycle events.
func (r *Registry) Disconnect(conn Conn) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	connID := conn.ID()
	if userID, ok := r.connUsers[connID]; ok {
		// Only clear the identity if it still points at this connection; a
		// reconnect may have re-registered the same user elsewhere.
		if current, ok := r.identities[userID]; ok && current.ID() == connID {
			delete(r.identities, userID)
		}
		delete(r.connUsers, connID)
	}

	var emptied []string
	for roomID := range r.connRooms[connID] {
		room := r.rooms[roomID]
		delete(room, connID)
		if len(room) == 0 {
			delete(r.rooms, roomID)
			emptied = append(emptied, roomID)
		}
	}
	delete(r.connRooms, connID)
	return emptied
}
