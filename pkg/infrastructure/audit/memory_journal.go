package audit

import (
	"sync"
)

// MemoryJournal is an in-process Journal. Suitable for a single service
// instance; entries do not survive a restart.
type MemoryJournal struct {
	mutex       sync.RWMutex
	streams     map[string][]Entry
	all         []Entry
	subscribers map[Kind][]Handler
}

var _ Journal = (*MemoryJournal)(nil)

// NewMemoryJournal creates an empty journal
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		streams:     make(map[string][]Entry),
		subscribers: make(map[Kind][]Handler),
	}
}

// Record appends an entry to its employee stream and assigns its sequence
func (j *MemoryJournal) Record(entry Entry) {
	j.mutex.Lock()
	entry.Seq = len(j.streams[entry.EmployeeID]) + 1
	j.streams[entry.EmployeeID] = append(j.streams[entry.EmployeeID], entry)
	j.all = append(j.all, entry)
	handlers := j.subscribers[entry.Kind]
	j.mutex.Unlock()

	for _, handler := range handlers {
		if handler.CanHandle(entry.Kind) {
			handler.Handle(entry)
		}
	}
}

// Stream returns the entries recorded for one employee, oldest first
func (j *MemoryJournal) Stream(employeeID string) []Entry {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	entries := j.streams[employeeID]
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// All returns every recorded entry in append order
func (j *MemoryJournal) All() []Entry {
	j.mutex.RLock()
	defer j.mutex.RUnlock()

	out := make([]Entry, len(j.all))
	copy(out, j.all)
	return out
}

// Subscribe registers a handler for the given kinds. Handlers run on the
// recording goroutine.
func (j *MemoryJournal) Subscribe(kinds []Kind, handler Handler) {
	j.mutex.Lock()
	defer j.mutex.Unlock()

	for _, kind := range kinds {
		j.subscribers[kind] = append(j.subscribers[kind], handler)
	}
}
