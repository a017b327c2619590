package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryMethod describes how labor quantity is reported for an operation
type EntryMethod int

const (
	// Countable operations have quantity reported explicitly by a worker
	Countable EntryMethod = iota
	// Backflush operations consume material automatically and are never
	// reported on their own; their materials fold into the next countable
	// operation in sequence
	Backflush
)

// EntryMethodFromCode maps the ERP labor entry method code to an EntryMethod.
// "B" is backflush; everything else is treated as countable.
func EntryMethodFromCode(code string) EntryMethod {
	if code == "B" {
		return Backflush
	}
	return Countable
}

// String method for EntryMethod enum
func (m EntryMethod) String() string {
	switch m {
	case Countable:
		return "Countable"
	case Backflush:
		return "Backflush"
	default:
		return "Unknown"
	}
}

// SchedRelation is the scheduling relationship between an operation and its
// predecessor. Two values permit an operation to start before its
// predecessor has reported quantity.
type SchedRelation int

const (
	// RelationNone is the default finish-to-start relationship
	RelationNone SchedRelation = iota
	// RelationStartToStart allows the operation to start in parallel with
	// its predecessor
	RelationStartToStart
	// RelationFinishToFinish allows the operation to run overlapped so both
	// finish together
	RelationFinishToFinish
)

// SchedRelationFromCode maps the ERP scheduling relation code ("SS", "FF")
// to a SchedRelation. Unrecognized codes get no override.
func SchedRelationFromCode(code string) SchedRelation {
	switch code {
	case "SS":
		return RelationStartToStart
	case "FF":
		return RelationFinishToFinish
	default:
		return RelationNone
	}
}

// AllowsParallelStart reports whether the relation permits starting an
// operation whose predecessor has not yet reported quantity.
func (r SchedRelation) AllowsParallelStart() bool {
	return r == RelationStartToStart || r == RelationFinishToFinish
}

// String method for SchedRelation enum
func (r SchedRelation) String() string {
	switch r {
	case RelationNone:
		return "None"
	case RelationStartToStart:
		return "StartToStart"
	case RelationFinishToFinish:
		return "FinishToFinish"
	default:
		return "Unknown"
	}
}

// StandardFormat is the unit format of an operation's production standard
type StandardFormat int

const (
	FormatUnknown StandardFormat = iota
	HoursPerPiece
	MinutesPerPiece
	PiecesPerHour
	PiecesPerMinute
	FixedHours
)

// StandardFormatFromCode maps the ERP standard format code to a
// StandardFormat. Unrecognized codes map to FormatUnknown.
func StandardFormatFromCode(code string) StandardFormat {
	switch code {
	case "HP":
		return HoursPerPiece
	case "MP":
		return MinutesPerPiece
	case "PH":
		return PiecesPerHour
	case "PM":
		return PiecesPerMinute
	case "FX":
		return FixedHours
	default:
		return FormatUnknown
	}
}

// String method for StandardFormat enum
func (f StandardFormat) String() string {
	switch f {
	case HoursPerPiece:
		return "HoursPerPiece"
	case MinutesPerPiece:
		return "MinutesPerPiece"
	case PiecesPerHour:
		return "PiecesPerHour"
	case PiecesPerMinute:
		return "PiecesPerMinute"
	case FixedHours:
		return "FixedHours"
	default:
		return "Unknown"
	}
}

// OperationKey uniquely identifies an operation within a job
type OperationKey struct {
	JobNum      JobNumber
	AssemblySeq int
	OprSeq      int
}

// Operation represents a single routing step on a job assembly.
// OprSeq values are strictly increasing within (job, assembly) and define
// operation order.
type Operation struct {
	JobNum        JobNumber
	AssemblySeq   int
	OprSeq        int
	OpCode        string
	OpDesc        string
	Complete      bool
	QtyCompleted  decimal.Decimal
	ProdStandard  decimal.Decimal
	StdFormat     StandardFormat
	EntryMethod   EntryMethod
	SchedRelation SchedRelation
	ResourceGrpID string
	Notes         string
	LastEntryDate *time.Time // most recent labor entry with qty > 0, if any
}

// Key returns the operation's identifying key
func (o Operation) Key() OperationKey {
	return OperationKey{JobNum: o.JobNum, AssemblySeq: o.AssemblySeq, OprSeq: o.OprSeq}
}
