// Package audit keeps an append-only journal of the write transactions
// the service runs against the ERP. Entries are grouped into per-employee
// streams so a supervisor view can replay what one person did.
package audit

import (
	"time"
)

// Kind identifies the transaction an entry records
type Kind string

const (
	KindLaborStart     Kind = "labor.start"
	KindLaborEnd       Kind = "labor.end"
	KindQuantityChange Kind = "job.quantity"
	KindReceipt        Kind = "kanban.receipt"
)

// Entry is one recorded transaction. Seq is assigned per stream when the
// entry is appended.
type Entry struct {
	Kind       Kind
	EmployeeID string
	JobNum     string
	OpCode     string
	Quantity   string
	At         time.Time
	Seq        int
}

// Handler receives entries as they are appended
type Handler interface {
	Handle(entry Entry)
	CanHandle(kind Kind) bool
}

// Journal records transactions and serves them back by stream
type Journal interface {
	Record(entry Entry)
	Stream(employeeID string) []Entry
	All() []Entry
	Subscribe(kinds []Kind, handler Handler)
}

// NewEntry stamps an entry with the current time
func NewEntry(kind Kind, employeeID, jobNum string) Entry {
	return Entry{
		Kind:       kind,
		EmployeeID: employeeID,
		JobNum:     jobNum,
		At:         time.Now(),
	}
}
