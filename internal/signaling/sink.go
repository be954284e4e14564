package signaling

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// EventSink receives structured signaling lifecycle events (room joined,
// candidate queued, candidate applied, room empty). It is the interface point
// for an external observability collaborator; the default sink just logs.
type EventSink interface {
	Event(name string, fields map[string]interface{})
}

// LogSink writes events to the standard logger.
type LogSink struct{}

func (LogSink) Event(name string, fields map[string]interface{}) {
	if len(fields) == 0 {
		log.Printf("signaling: %s", name)
		return
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	log.Printf("signaling: %s%s", name, b.String())
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Event(string, map[string]interface{}) {}
