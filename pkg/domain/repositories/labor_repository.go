package repositories

import (
	"context"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// EmployeeRepository provides read access to the employee directory
type EmployeeRepository interface {
	GetEmployee(ctx context.Context, id string) (*entities.Employee, error)
}

// LaborHistoryRepository provides read access to past labor entries
type LaborHistoryRepository interface {
	// GetLastCheckin returns the most recent labor entry with quantity > 0
	// against the given assembly part, optionally restricted to an op code
	// (empty opCode means any operation). Returns nil when there is none.
	GetLastCheckin(ctx context.Context, part entities.PartNumber, opCode string) (*entities.Checkin, error)
}

// ResourceRepository resolves resource group and department master data,
// used by the resource-group fallback chain when the remote defaulting
// leaves a new labor detail without one. Lookups that find nothing return
// an empty string and a nil error.
type ResourceRepository interface {
	GetResourceGroupForOpCode(ctx context.Context, opCode string) (string, error)
	GetDepartmentForResourceGroup(ctx context.Context, resourceGrpID string) (string, error)
}
