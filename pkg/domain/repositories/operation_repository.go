package repositories

import (
	"context"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// OperationRepository provides read access to job operations
type OperationRepository interface {
	// GetOperation returns a single operation by key.
	GetOperation(ctx context.Context, key entities.OperationKey) (*entities.Operation, error)

	// GetCandidateOperations returns every incomplete countable operation
	// whose op code is in the given set and whose parent job is released
	// and not complete.
	GetCandidateOperations(ctx context.Context, opCodes []string) ([]*entities.Operation, error)

	// GetOperationsForJobs returns all operations (countable and backflush,
	// every assembly) for the given jobs, ordered by job, assembly,
	// sequence.
	GetOperationsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.Operation, error)
}
