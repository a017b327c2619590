package readiness

import (
	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// MaterialStanding pairs a requirement with its shop-wide inventory
// position. Demand defaults to the required quantity when the part has no
// inventory aggregate.
type MaterialStanding struct {
	Requirement *entities.MaterialRequirement
	OnHand      decimal.Decimal
	Demand      decimal.Decimal
}

// NewStanding builds the standing for a requirement. inv may be nil.
func NewStanding(req *entities.MaterialRequirement, inv *entities.PartInventory) MaterialStanding {
	s := MaterialStanding{Requirement: req, Demand: req.RequiredQty}
	if inv != nil {
		s.OnHand = inv.OnHandQty
		s.Demand = inv.DemandQty
	}
	return s
}

// TierFor classifies a single material: star when on-hand covers total
// shop demand, check when it covers this job, partial when some stock
// exists, missing when none does.
func TierFor(s MaterialStanding) entities.SufficiencyTier {
	switch {
	case s.OnHand.GreaterThanOrEqual(s.Demand):
		return entities.TierStar
	case s.OnHand.GreaterThanOrEqual(s.Requirement.RequiredQty):
		return entities.TierCheck
	case s.OnHand.IsPositive():
		return entities.TierPartial
	default:
		return entities.TierMissing
	}
}

// TierForSet classifies an operation's full attributed material set.
// First match wins: missing beats partial beats check beats star. An
// empty set is TierNone. The bulk queue path and the single-operation
// detail path both call this; there is exactly one algorithm.
func TierForSet(set []MaterialStanding) entities.SufficiencyTier {
	if len(set) == 0 {
		return entities.TierNone
	}

	anyPartial := false
	anyCheck := false
	for _, s := range set {
		switch {
		case s.OnHand.IsZero() || s.OnHand.IsNegative():
			return entities.TierMissing
		case s.OnHand.LessThan(s.Requirement.RequiredQty):
			anyPartial = true
		case s.OnHand.LessThan(s.Demand):
			anyCheck = true
		}
	}
	if anyPartial {
		return entities.TierPartial
	}
	if anyCheck {
		return entities.TierCheck
	}
	return entities.TierStar
}

// QtyShort returns how much of the requirement is not on hand, floored at
// zero.
func QtyShort(s MaterialStanding) decimal.Decimal {
	short := s.Requirement.RequiredQty.Sub(s.OnHand)
	if short.IsNegative() {
		return decimal.Zero
	}
	return short
}

// MaxProducible computes the largest whole quantity the operation could
// produce from current stock: the floor of the minimum over materials of
// on_hand / (required / job production qty). Materials with a
// non-positive requirement, or a zero production quantity, do not bound
// production. The second return is false when nothing bounds it.
func MaxProducible(set []MaterialStanding, prodQty decimal.Decimal) (decimal.Decimal, bool) {
	if !prodQty.IsPositive() {
		return decimal.Zero, false
	}

	bounded := false
	var min decimal.Decimal
	for _, s := range set {
		if !s.Requirement.RequiredQty.IsPositive() {
			continue
		}
		perUnit := s.Requirement.RequiredQty.Div(prodQty)
		if !perUnit.IsPositive() {
			continue
		}
		producible := s.OnHand.Div(perUnit)
		if !bounded || producible.LessThan(min) {
			min = producible
			bounded = true
		}
	}
	if !bounded {
		return decimal.Zero, false
	}
	return min.Floor(), true
}
