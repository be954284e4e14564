package signaling

import (
	"encoding/json"
	"sync"
)

// Session tracks one call attempt on the receiving side of the relay. The
// relay forwards ICE candidates immediately, so candidates can arrive before
// the session answer; a Session queues them until the remote description is
// applied, then drains the queue once in arrival order. Drained candidates
// are discarded and never replayed.
type Session struct {
	mu        sync.Mutex
	remoteSet bool
	pending   []json.RawMessage

	applyDescription func(json.RawMessage) error
	applyCandidate   func(json.RawMessage) error
	sink             EventSink
}

// NewSession creates a Session around the peer-connection callbacks. A nil
// sink defaults to NopSink.
func NewSession(applyDescription, applyCandidate func(json.RawMessage) error, sink EventSink) *Session {
	if sink == nil {
		sink = NopSink{}
	}
	return &Session{
		applyDescription: applyDescription,
		applyCandidate:   applyCandidate,
		sink:             sink,
	}
}

// AddCandidate applies the candidate if the remote description is already
// set, otherwise queues it for the drain in SetRemoteDescription.
func (s *Session) AddCandidate(candidate json.RawMessage) error {
	s.mu.Lock()
	if !s.remoteSet {
		s.pending = append(s.pending, candidate)
		n := len(s.pending)
		s.mu.Unlock()
		s.sink.Event("candidate queued", map[string]interface{}{"pending": n})
		return nil
	}
	s.mu.Unlock()

	if err := s.applyCandidate(candidate); err != nil {
		return err
	}
	s.sink.Event("candidate applied", nil)
	return nil
}

// SetRemoteDescription applies the remote session description, then drains
// the pending candidate queue in arrival order. The queue is cleared before
// applying so a candidate is never replayed, even if a later call races in.
func (s *Session) SetRemoteDescription(description json.RawMessage) error {
	s.mu.Lock()
	if s.remoteSet {
		s.mu.Unlock()
		return nil
	}
	s.remoteSet = true
	queued := s.pending
	s.pending = nil
	s.mu.Unlock()

	if err := s.applyDescription(description); err != nil {
		return err
	}

	for _, c := range queued {
		if err := s.applyCandidate(c); err != nil {
			// Keep draining: one bad candidate must not strand the rest.
			s.sink.Event("queued candidate failed", map[string]interface{}{"error": err.Error()})
			continue
		}
		s.sink.Event("candidate applied", nil)
	}
	return nil
}

// RemoteSet reports whether the remote description has been applied.
func (s *Session) RemoteSet() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteSet
}

// PendingCount returns the number of queued candidates awaiting the remote
// description.
func (s *Session) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
