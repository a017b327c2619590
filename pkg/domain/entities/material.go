package entities

import "github.com/shopspring/decimal"

// MaterialRequirement represents a job material line. RelatedOperation is
// the sequence of the operation the material is attached to, which is not
// necessarily the operation whose queue row displays it (backflush
// operations fold their materials into a later countable operation).
type MaterialRequirement struct {
	JobNum           JobNumber
	AssemblySeq      int
	RelatedOperation int
	MtlSeq           int
	PartNum          PartNumber
	Description      string
	RequiredQty      decimal.Decimal
	UOM              string
}

// AttachedTo returns the key of the operation the requirement is
// physically attached to.
func (m MaterialRequirement) AttachedTo() OperationKey {
	return OperationKey{JobNum: m.JobNum, AssemblySeq: m.AssemblySeq, OprSeq: m.RelatedOperation}
}

// SufficiencyTier ranks material availability for an operation
type SufficiencyTier int

const (
	// TierNone means no materials are attributed to the operation
	TierNone SufficiencyTier = iota
	// TierMissing means at least one material has nothing on hand
	TierMissing
	// TierPartial means at least one material has some stock but less than
	// this job requires
	TierPartial
	// TierCheck means every material covers this job but at least one does
	// not cover total shop demand
	TierCheck
	// TierStar means every material covers total shop demand
	TierStar
)

// String method for SufficiencyTier enum
func (t SufficiencyTier) String() string {
	switch t {
	case TierNone:
		return "none"
	case TierMissing:
		return "missing"
	case TierPartial:
		return "partial"
	case TierCheck:
		return "check"
	case TierStar:
		return "star"
	default:
		return "none"
	}
}
