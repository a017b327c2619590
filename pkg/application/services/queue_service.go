// Package services exposes the synchronous operations the calling layer
// (web/UI, excluded from this core) invokes: queue reads and the labor
// and kanban write transactions.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/application/dto"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/kanban"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/labor"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/readiness"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/erp"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/audit"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/config"
)

// QueueService composes the readiness engine and the orchestrators behind
// one surface. Successful write transactions are recorded in the journal.
type QueueService struct {
	catalog   *config.WorkcellCatalog
	readiness *readiness.Engine
	labor     *labor.Orchestrator
	kanban    *kanban.Orchestrator
	journal   audit.Journal
}

// NewQueueService wires the facade. journal may be nil when no audit
// trail is wanted.
func NewQueueService(
	catalog *config.WorkcellCatalog,
	readinessEngine *readiness.Engine,
	laborOrch *labor.Orchestrator,
	kanbanOrch *kanban.Orchestrator,
	journal audit.Journal,
) *QueueService {
	return &QueueService{
		catalog:   catalog,
		readiness: readinessEngine,
		labor:     laborOrch,
		kanban:    kanbanOrch,
		journal:   journal,
	}
}

func (s *QueueService) record(entry audit.Entry) {
	if s.journal != nil {
		s.journal.Record(entry)
	}
}

// Workcells lists the configured work cells for the home view
func (s *QueueService) Workcells() []config.Workcell {
	return s.catalog.Workcells()
}

// GetQueue returns the ordered queue for a work cell
func (s *QueueService) GetQueue(ctx context.Context, workcellID string) ([]dto.QueueRow, error) {
	return s.readiness.GetQueue(ctx, workcellID)
}

// GetMaterialsForOperation returns the classified materials attributed to
// an operation
func (s *QueueService) GetMaterialsForOperation(ctx context.Context, jobNum entities.JobNumber, assemblySeq, oprSeq int) ([]dto.ClassifiedMaterial, error) {
	key := entities.OperationKey{JobNum: jobNum, AssemblySeq: assemblySeq, OprSeq: oprSeq}
	return s.readiness.GetMaterialsForOperation(ctx, key)
}

// GetJobDetail returns the job drill-down view
func (s *QueueService) GetJobDetail(ctx context.Context, jobNum entities.JobNumber, assemblySeq, oprSeq int) (*dto.JobDetail, error) {
	key := entities.OperationKey{JobNum: jobNum, AssemblySeq: assemblySeq, OprSeq: oprSeq}
	return s.readiness.GetJobDetail(ctx, key)
}

// GetMaterialsForWorkcell returns the material filter options for a cell
func (s *QueueService) GetMaterialsForWorkcell(ctx context.Context, workcellID string) ([]dto.MaterialOption, error) {
	return s.readiness.GetMaterialsForWorkcell(ctx, workcellID)
}

// GetOperationsUsingMaterial returns the queue keys using a material
func (s *QueueService) GetOperationsUsingMaterial(ctx context.Context, workcellID string, part entities.PartNumber) ([]entities.OperationKey, error) {
	return s.readiness.GetOperationsUsingMaterial(ctx, workcellID, part)
}

// GetLastCheckin returns the most recent labor entry against a part
func (s *QueueService) GetLastCheckin(ctx context.Context, part entities.PartNumber, opCode string) (*entities.Checkin, error) {
	return s.readiness.GetLastCheckin(ctx, part, opCode)
}

// StartLabor begins a labor activity and returns the created transaction
// identifiers
func (s *QueueService) StartLabor(ctx context.Context, req labor.StartRequest) (*labor.StartResult, error) {
	result, err := s.labor.StartActivity(ctx, req)
	if err != nil {
		return nil, err
	}
	entry := audit.NewEntry(audit.KindLaborStart, req.EmployeeID, string(req.JobNum))
	entry.OpCode = req.OpCode
	s.record(entry)
	return result, nil
}

// EndLabor reports quantity and ends a labor activity
func (s *QueueService) EndLabor(ctx context.Context, req labor.EndRequest) error {
	if err := s.labor.EndActivity(ctx, req); err != nil {
		return err
	}
	entry := audit.NewEntry(audit.KindLaborEnd, "", "")
	entry.Quantity = req.Qty.String()
	s.record(entry)
	return nil
}

// GetActiveLabor returns an employee's open labor details
func (s *QueueService) GetActiveLabor(ctx context.Context, employeeID string) ([]erp.LaborDtl, error) {
	return s.labor.GetActiveLabor(ctx, employeeID)
}

// UpdateJobQuantity changes a job's production quantity
func (s *QueueService) UpdateJobQuantity(ctx context.Context, jobNum entities.JobNumber, qty decimal.Decimal) error {
	if err := s.labor.UpdateJobQuantity(ctx, jobNum, qty); err != nil {
		return err
	}
	entry := audit.NewEntry(audit.KindQuantityChange, "", string(jobNum))
	entry.Quantity = qty.String()
	s.record(entry)
	return nil
}

// SubmitKanbanReceipt runs a stock replenishment receipt
func (s *QueueService) SubmitKanbanReceipt(ctx context.Context, req kanban.ReceiptRequest) error {
	if err := s.kanban.SubmitReceipt(ctx, req); err != nil {
		return err
	}
	entry := audit.NewEntry(audit.KindReceipt, req.EmployeeID, "")
	entry.Quantity = req.Quantity.String()
	s.record(entry)
	return nil
}

// Journal exposes the recorded transaction trail
func (s *QueueService) Journal() audit.Journal {
	return s.journal
}
