package repositories

import (
	"context"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// JobRepository provides read access to job headers and assemblies
type JobRepository interface {
	GetJob(ctx context.Context, jobNum entities.JobNumber) (*entities.Job, error)
	GetJobs(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber]*entities.Job, error)

	// GetAssemblies returns the sub-assembly records (AssemblySeq > 0) for
	// the given jobs, keyed by job and assembly sequence.
	GetAssemblies(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber][]*entities.Assembly, error)
}
