package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee represents an entry in the employee directory
type Employee struct {
	ID     string
	Name   string
	Active bool
}

// Checkin is a historical labor entry against a part/operation, used for
// the "who last ran this" lookup on the queue detail panel.
type Checkin struct {
	EmployeeNum  string
	EmployeeName string
	LaborQty     decimal.Decimal
	ClockInDate  time.Time
	JobNum       JobNumber
	OpCode       string
}
