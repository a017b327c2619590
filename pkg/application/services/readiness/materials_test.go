package readiness

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

func standing(onHand, required, demand int64) MaterialStanding {
	return MaterialStanding{
		Requirement: &entities.MaterialRequirement{RequiredQty: decimal.NewFromInt(required)},
		OnHand:      decimal.NewFromInt(onHand),
		Demand:      decimal.NewFromInt(demand),
	}
}

func TestNewStandingDefaultsDemandToRequired(t *testing.T) {
	req := &entities.MaterialRequirement{RequiredQty: decimal.NewFromInt(5)}

	s := NewStanding(req, nil)
	assert.True(t, s.OnHand.IsZero())
	assert.True(t, s.Demand.Equal(decimal.NewFromInt(5)))

	inv := &entities.PartInventory{
		OnHandQty: decimal.NewFromInt(8),
		DemandQty: decimal.NewFromInt(12),
	}
	s = NewStanding(req, inv)
	assert.True(t, s.OnHand.Equal(decimal.NewFromInt(8)))
	assert.True(t, s.Demand.Equal(decimal.NewFromInt(12)))
}

func TestTierForSingleMaterial(t *testing.T) {
	tests := []struct {
		name     string
		onHand   int64
		required int64
		demand   int64
		want     entities.SufficiencyTier
	}{
		{"nothing on hand", 0, 5, 5, entities.TierMissing},
		{"some stock short of requirement", 3, 5, 5, entities.TierPartial},
		{"covers job not shop demand", 5, 5, 8, entities.TierCheck},
		{"covers total shop demand", 8, 5, 8, entities.TierStar},
		{"exactly at demand", 8, 5, 8, entities.TierStar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TierFor(standing(tt.onHand, tt.required, tt.demand)))
		})
	}
}

func TestTierForSetPriority(t *testing.T) {
	assert.Equal(t, entities.TierNone, TierForSet(nil))

	// Any material with zero on hand dominates everything else.
	assert.Equal(t, entities.TierMissing, TierForSet([]MaterialStanding{
		standing(8, 5, 8),
		standing(0, 5, 5),
	}))

	// A partial material beats check and star.
	assert.Equal(t, entities.TierPartial, TierForSet([]MaterialStanding{
		standing(8, 5, 8),
		standing(3, 5, 5),
		standing(5, 5, 8),
	}))

	// Check only when everything covers the job but something misses demand.
	assert.Equal(t, entities.TierCheck, TierForSet([]MaterialStanding{
		standing(8, 5, 8),
		standing(5, 5, 8),
	}))

	// Star requires every material to cover shop demand.
	assert.Equal(t, entities.TierStar, TierForSet([]MaterialStanding{
		standing(8, 5, 8),
		standing(10, 10, 10),
	}))
}

func TestTierForSetNegativeOnHandIsMissing(t *testing.T) {
	assert.Equal(t, entities.TierMissing, TierForSet([]MaterialStanding{
		standing(-2, 5, 5),
	}))
}

func TestQtyShort(t *testing.T) {
	assert.True(t, QtyShort(standing(3, 5, 5)).Equal(decimal.NewFromInt(2)))
	assert.True(t, QtyShort(standing(8, 5, 5)).IsZero())
	assert.True(t, QtyShort(standing(0, 5, 5)).Equal(decimal.NewFromInt(5)))
}

func TestMaxProducible(t *testing.T) {
	prodQty := decimal.NewFromInt(5)

	// Requirement of 10 across a production quantity of 5 consumes 2 per
	// unit; 7 on hand supports 3 whole units.
	set := []MaterialStanding{standing(7, 10, 10)}
	producible, bounded := MaxProducible(set, prodQty)
	assert.True(t, bounded)
	assert.True(t, producible.Equal(decimal.NewFromInt(3)), "got %s", producible)

	// The tightest material bounds the answer.
	set = []MaterialStanding{
		standing(100, 10, 10),
		standing(4, 5, 5), // 1 per unit, 4 producible
	}
	producible, bounded = MaxProducible(set, prodQty)
	assert.True(t, bounded)
	assert.True(t, producible.Equal(decimal.NewFromInt(4)))
}

func TestMaxProducibleUnbounded(t *testing.T) {
	_, bounded := MaxProducible(nil, decimal.NewFromInt(5))
	assert.False(t, bounded)

	// Zero-requirement materials do not bound production.
	_, bounded = MaxProducible([]MaterialStanding{standing(7, 0, 0)}, decimal.NewFromInt(5))
	assert.False(t, bounded)

	// A job with no production quantity cannot bound anything sensibly.
	_, bounded = MaxProducible([]MaterialStanding{standing(7, 10, 10)}, decimal.Zero)
	assert.False(t, bounded)
}
