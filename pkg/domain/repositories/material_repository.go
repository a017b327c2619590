package repositories

import (
	"context"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// MaterialRepository provides read access to job material requirements.
// Only requirements with RequiredQty > 0 are returned.
type MaterialRepository interface {
	GetRequirementsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.MaterialRequirement, error)
	GetRequirementsForOperation(ctx context.Context, key entities.OperationKey) ([]*entities.MaterialRequirement, error)
}

// InventoryRepository provides read access to shop-wide inventory
// aggregates. Parts with no inventory rows are simply absent from the
// result map.
type InventoryRepository interface {
	GetAggregates(ctx context.Context, parts []entities.PartNumber) (map[entities.PartNumber]*entities.PartInventory, error)
}
