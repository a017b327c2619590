package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobNumber represents a unique manufacturing job identifier
type JobNumber string

// Job represents a manufacturing job header
type Job struct {
	JobNum      JobNumber
	PartNum     PartNumber
	Description string
	Released    bool
	Complete    bool
	ProdQty     decimal.Decimal
	Priority    string // scheduling code from the ERP
	StartDate   time.Time
	ReqDueDate  time.Time
	DueDate     time.Time
}

// Assembly represents a sub-assembly of a job. AssemblySeq 0 is the
// top-level assembly and carries the job's own part; higher sequences
// are sub-assemblies with their own part and required quantity.
type Assembly struct {
	JobNum      JobNumber
	AssemblySeq int
	PartNum     PartNumber
	Description string
	RequiredQty decimal.Decimal
}
