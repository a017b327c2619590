package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// QueueRow is one operation ready to work at a work cell, enriched for
// display. PartNum and PartDescription are the effective part: the
// sub-assembly's part when AssemblySeq > 0, the job's top part otherwise.
type QueueRow struct {
	JobNum          entities.JobNumber
	PartNum         entities.PartNumber
	PartDescription string
	AssemblySeq     int
	OprSeq          int
	OpCode          string
	OpDesc          string
	Priority        string
	RequiredQty     decimal.Decimal
	QtyCompleted    decimal.Decimal
	QtyRemaining    decimal.Decimal
	QtyFromPrior    decimal.Decimal
	IsFirstOp       bool
	Notes           string
	StartDate       time.Time
	ReqDueDate      time.Time
	DueDate         time.Time
	DaysUntilDue    int
	MtlStatus       entities.SufficiencyTier
	MtlCount        int
	MaxProducible   *decimal.Decimal // nil when no material bounds production
	LastEntryDate   *time.Time
}

// ClassifiedMaterial is a single material requirement with its inventory
// standing, for the operation detail panel.
type ClassifiedMaterial struct {
	MtlSeq       int
	PartNum      entities.PartNumber
	Description  string
	RequiredQty  decimal.Decimal
	UOM          string
	OnHandQty    decimal.Decimal
	DemandQty    decimal.Decimal
	Status       entities.SufficiencyTier
	QtyShort     decimal.Decimal
	SourceOprSeq int // operation the requirement is attached to
	SourceOpCode string
}

// MaterialOption is an entry in the material filter dropdown
type MaterialOption struct {
	PartNum     entities.PartNumber
	Description string
}

// JobDetail is the job drill-down view: header, countable operations and
// the classified materials of the focused operation.
type JobDetail struct {
	Job        *entities.Job
	Operations []*entities.Operation
	Materials  []ClassifiedMaterial
}
