package parking

import (
	"sync"
	"time"
)

const DefaultActivityLogSize = 10

type EventType string

const (
	EventParked       EventType = "vehicle_parked"
	EventUnparked     EventType = "vehicle_unparked"
	EventRejected     EventType = "operation_rejected"
	EventReconfigured EventType = "lot_reconfigured"
)

// Event describes one outcome of a lot operation, for the activity log and
// for live subscribers.
type Event struct {
	Type    EventType
	Time    time.Time
	Plate   string
	SlotID  string
	Message string
	Fee     *Fee
	Status  Status
}

// ActivityLog keeps the most recent events, bounded to a fixed size.
type ActivityLog struct {
	mu      sync.Mutex
	entries []Event
	limit   int
}

func NewActivityLog(limit int) *ActivityLog {
	if limit <= 0 {
		limit = DefaultActivityLogSize
	}
	return &ActivityLog{
		entries: make([]Event, 0, limit),
		limit:   limit,
	}
}

func (l *ActivityLog) Add(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == l.limit {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.limit-1]
	}
	l.entries = append(l.entries, event)
}

// Recent returns the retained events, newest first.
func (l *ActivityLog) Recent() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.entries))
	for i, e := range l.entries {
		out[len(l.entries)-1-i] = e
	}
	return out
}

func (l *ActivityLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
