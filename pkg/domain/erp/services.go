package erp

import "context"

// LaborService drives the remote labor business object. Each call blocks
// on the remote response; the dataset returned by one step feeds the next.
type LaborService interface {
	// ClockIn opens a clock-in session for the employee if one is not
	// already open. The remote call is idempotent per shift.
	ClockIn(ctx context.Context, employeeID string, shift int) error

	// GetActiveHeaders returns the employee's open session headers, most
	// recent first.
	GetActiveHeaders(ctx context.Context, employeeID string) ([]LaborHed, error)

	// GetActiveDetails returns the open (still clocked-in) detail rows
	// across the employee's active sessions.
	GetActiveDetails(ctx context.Context, employeeID string) ([]LaborDtl, error)

	// GetByID fetches the full dataset for a session header.
	GetByID(ctx context.Context, laborHedSeq int) (*LaborDataset, error)

	// StartActivity creates a fresh detail row under the header. StartType
	// "P" is production labor.
	StartActivity(ctx context.Context, laborHedSeq int, startType string, ds *LaborDataset) (*LaborDataset, error)

	// DefaultJobNum applies remote defaulting after the job is attached.
	DefaultJobNum(ctx context.Context, jobNum string, ds *LaborDataset) (*LaborDataset, error)

	// DefaultOprSeq applies remote defaulting after the operation is
	// attached (resource group, resource, department).
	DefaultOprSeq(ctx context.Context, oprSeq int, ds *LaborDataset) (*LaborDataset, error)

	// EndActivity transitions the detail out of active state. The remote
	// side recomputes labor hours from wall-clock times as a side effect.
	EndActivity(ctx context.Context, ds *LaborDataset) (*LaborDataset, error)

	// Update persists rows marked with a RowMod.
	Update(ctx context.Context, ds *LaborDataset) (*LaborDataset, error)

	// RecallFromApproval pulls a submitted or approved detail back to an
	// editable state, when the remote workflow allows it.
	RecallFromApproval(ctx context.Context, ds *LaborDataset) (*LaborDataset, error)

	// SubmitForApproval re-enters the detail into the approval workflow.
	SubmitForApproval(ctx context.Context, ds *LaborDataset) (*LaborDataset, error)
}

// KanbanService drives the remote kanban receipts business object
type KanbanService interface {
	GetNewReceipt(ctx context.Context) (*KanbanDataset, error)
	ChangePart(ctx context.Context, ds *KanbanDataset, partNum, uomCode string) (*KanbanDataset, error)
	ChangeWarehouse(ctx context.Context, ds *KanbanDataset, warehouseCode string) (*KanbanDataset, error)
	ChangeBin(ctx context.Context, ds *KanbanDataset, binNum string) (*KanbanDataset, error)

	// PreProcess validates the receipt before commit.
	PreProcess(ctx context.Context, ds *KanbanDataset) (*KanbanDataset, error)

	// Process atomically creates the produced-to-stock job, reports the
	// quantity, closes the job and receives it into inventory.
	Process(ctx context.Context, ds *KanbanDataset) error
}

// JobService drives the remote job entry business object
type JobService interface {
	GetJobByID(ctx context.Context, jobNum string) (*JobDataset, error)
	UpdateJob(ctx context.Context, ds *JobDataset) (*JobDataset, error)
}
