// Package labor drives start/end-of-activity transactions against the
// remote labor business object. Each transaction is a strict sequence of
// dependent remote calls; two transactions against the same labor header
// must be serialized by the caller.
package labor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/erp"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
)

var (
	// ErrNoActiveSession means no open clock-in session could be found for
	// the employee even after clocking in
	ErrNoActiveSession = errors.New("no active labor session after clock in")
	// ErrNoDetailCreated means the remote start-activity call produced no
	// detail row
	ErrNoDetailCreated = errors.New("start activity created no labor detail")
	// ErrDetailNotFound means the target detail is absent from the header's
	// dataset
	ErrDetailNotFound = errors.New("labor detail not found")
	// ErrUnknownEmployee means the employee is missing from the directory
	// or marked inactive
	ErrUnknownEmployee = errors.New("unknown or inactive employee")
)

const (
	startTypeProduction = "P"
	defaultShift        = 1
)

// hoursTolerance is the allowed disagreement between the standard-based
// hours and what the remote side persisted before a repair is attempted
var hoursTolerance = decimal.RequireFromString("0.01")

// Deps bundles the read-side lookups the orchestrator needs
type Deps struct {
	Operations repositories.OperationRepository
	Resources  repositories.ResourceRepository
	Employees  repositories.EmployeeRepository
}

// Orchestrator sequences labor transactions against the remote service
type Orchestrator struct {
	labor  erp.LaborService
	jobs   erp.JobService
	deps   Deps
	logger *slog.Logger
}

// NewOrchestrator creates a labor orchestrator. A nil logger falls back
// to slog.Default().
func NewOrchestrator(laborSvc erp.LaborService, jobSvc erp.JobService, deps Deps, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{labor: laborSvc, jobs: jobSvc, deps: deps, logger: logger}
}

// StartRequest identifies the operation to start labor on. ResourceGrpID,
// ResourceID and Department are optional hints; when absent the remote
// defaulting and then the local fallback chain fill them in.
type StartRequest struct {
	EmployeeID    string
	JobNum        entities.JobNumber
	AssemblySeq   int
	OprSeq        int
	OpCode        string
	ResourceGrpID string
	ResourceID    string
	Department    string
	Shift         int
}

// StartResult identifies the labor transaction created by StartActivity
type StartResult struct {
	LaborHedSeq int
	LaborDtlSeq int
}

// EndRequest reports quantity against an open labor detail
type EndRequest struct {
	LaborHedSeq int
	LaborDtlSeq int
	Qty         decimal.Decimal
	ScrapQty    decimal.Decimal
	ScrapReason string
	Complete    bool
}

// StartActivity ensures an open clock-in session, creates a fresh labor
// detail under it, attaches the job and operation with remote defaulting,
// resolves the resource group through the fallback chain, and persists.
// A failure partway leaves any created detail in place for manual
// cleanup; nothing is rolled back.
func (o *Orchestrator) StartActivity(ctx context.Context, req StartRequest) (*StartResult, error) {
	log := o.logger.With(
		"trace", uuid.NewString(),
		"employee", req.EmployeeID,
		"job", req.JobNum,
		"assembly", req.AssemblySeq,
		"operation", req.OprSeq,
	)

	if o.deps.Employees != nil {
		emp, err := o.deps.Employees.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			log.Warn("employee directory lookup failed, proceeding", "error", err)
		} else if emp == nil || !emp.Active {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEmployee, req.EmployeeID)
		}
	}

	shift := req.Shift
	if shift == 0 {
		shift = defaultShift
	}

	// Clock-in failure alone is not fatal: the employee may already have an
	// open session. It only matters if no active header turns up below.
	clockInErr := o.labor.ClockIn(ctx, req.EmployeeID, shift)
	if clockInErr != nil {
		log.Debug("clock in reported an error", "error", clockInErr)
	}

	heds, err := o.labor.GetActiveHeaders(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if len(heds) == 0 {
		if clockInErr != nil {
			return nil, fmt.Errorf("%w for %s: %v", ErrNoActiveSession, req.EmployeeID, clockInErr)
		}
		return nil, fmt.Errorf("%w for %s", ErrNoActiveSession, req.EmployeeID)
	}
	hedSeq := heds[0].LaborHedSeq
	log.Debug("active session located", "laborHedSeq", hedSeq)

	ds, err := o.labor.GetByID(ctx, hedSeq)
	if err != nil {
		return nil, err
	}

	// Pre-existing open details are left untouched; a fresh detail is
	// always created.
	ds.LaborDtl = nil

	ds, err = o.labor.StartActivity(ctx, hedSeq, startTypeProduction, ds)
	if err != nil {
		return nil, err
	}
	if len(ds.LaborDtl) == 0 {
		return nil, ErrNoDetailCreated
	}

	ds.LaborDtl[0].JobNum = string(req.JobNum)
	if req.OpCode != "" {
		ds.LaborDtl[0].OpCode = req.OpCode
	}

	ds, err = o.labor.DefaultJobNum(ctx, string(req.JobNum), ds)
	if err != nil {
		return nil, err
	}
	if len(ds.LaborDtl) == 0 {
		return nil, ErrNoDetailCreated
	}

	ds.LaborDtl[0].AssemblySeq = req.AssemblySeq
	ds.LaborDtl[0].OprSeq = req.OprSeq

	// Operation defaulting populates resource group, resource and
	// department from routing data. Its failure is tolerated; the fallback
	// chain below covers the gap.
	if defaulted, err := o.labor.DefaultOprSeq(ctx, req.OprSeq, ds); err == nil {
		ds = defaulted
	} else {
		log.Debug("operation defaulting failed", "error", err)
	}
	if len(ds.LaborDtl) == 0 {
		return nil, ErrNoDetailCreated
	}

	dtl := &ds.LaborDtl[0]
	if req.ResourceGrpID != "" {
		dtl.ResourceGrpID = req.ResourceGrpID
	}
	if req.ResourceID != "" {
		dtl.ResourceID = req.ResourceID
	}
	if req.Department != "" {
		dtl.JCDept = req.Department
	}
	o.resolveResourceGroup(ctx, dtl, req, log)
	dtl.Rework = false

	ds, err = o.labor.Update(ctx, ds)
	if err != nil {
		return nil, err
	}

	result := &StartResult{LaborHedSeq: hedSeq}
	if hed := ds.Header(); hed != nil {
		result.LaborHedSeq = hed.LaborHedSeq
	}
	if len(ds.LaborDtl) > 0 {
		result.LaborDtlSeq = ds.LaborDtl[0].LaborDtlSeq
		if result.LaborHedSeq == 0 {
			result.LaborHedSeq = ds.LaborDtl[0].LaborHedSeq
		}
	}
	log.Info("labor activity started", "laborHedSeq", result.LaborHedSeq, "laborDtlSeq", result.LaborDtlSeq)
	return result, nil
}

// resolveResourceGroup applies the fallback chain when remote defaulting
// left the resource group unset: caller hint (already applied), then the
// job-operation record, then the op-code master, then department from
// whichever group was found.
func (o *Orchestrator) resolveResourceGroup(ctx context.Context, dtl *erp.LaborDtl, req StartRequest, log *slog.Logger) {
	if dtl.ResourceGrpID == "" && o.deps.Operations != nil {
		key := entities.OperationKey{JobNum: req.JobNum, AssemblySeq: req.AssemblySeq, OprSeq: req.OprSeq}
		op, err := o.deps.Operations.GetOperation(ctx, key)
		if err != nil {
			log.Debug("job operation lookup failed", "error", err)
		} else if op != nil && op.ResourceGrpID != "" {
			dtl.ResourceGrpID = op.ResourceGrpID
		}
	}
	if dtl.ResourceGrpID == "" && o.deps.Resources != nil {
		opCode := dtl.OpCode
		if opCode == "" {
			opCode = req.OpCode
		}
		grp, err := o.deps.Resources.GetResourceGroupForOpCode(ctx, opCode)
		if err != nil {
			log.Debug("op code resource group lookup failed", "error", err)
		} else if grp != "" {
			dtl.ResourceGrpID = grp
		}
	}
	if dtl.ResourceGrpID != "" && dtl.JCDept == "" && o.deps.Resources != nil {
		dept, err := o.deps.Resources.GetDepartmentForResourceGroup(ctx, dtl.ResourceGrpID)
		if err != nil {
			log.Debug("department lookup failed", "error", err)
		} else if dept != "" {
			dtl.JCDept = dept
		}
	}
}

// EndActivity reports quantity and scrap against a detail, ends the
// activity, and reconciles hours. The remote end-activity transition
// recomputes hours from wall-clock times; when the persisted value
// disagrees with the standard-based calculation beyond tolerance, a
// single-attempt repair runs: set directly while editable, or recall from
// approval, set, and resubmit. An unrepairable discrepancy is logged and
// the quantity report still succeeds.
func (o *Orchestrator) EndActivity(ctx context.Context, req EndRequest) error {
	log := o.logger.With(
		"trace", uuid.NewString(),
		"laborHedSeq", req.LaborHedSeq,
		"laborDtlSeq", req.LaborDtlSeq,
	)

	ds, err := o.labor.GetByID(ctx, req.LaborHedSeq)
	if err != nil {
		return err
	}
	dtl := ds.FindDetail(req.LaborDtlSeq)
	if dtl == nil {
		return fmt.Errorf("%w: detail %d on header %d", ErrDetailNotFound, req.LaborDtlSeq, req.LaborHedSeq)
	}

	expectedHours, hoursKnown := o.expectedHours(ctx, dtl, req.Qty.Add(req.ScrapQty), log)

	dtl.LaborQty = req.Qty
	dtl.ScrapQty = req.ScrapQty
	if req.ScrapQty.IsPositive() && req.ScrapReason != "" {
		dtl.ScrapReasonCode = req.ScrapReason
	}
	if req.Complete {
		dtl.OpComplete = true
		dtl.Complete = true
	}
	dtl.RowMod = erp.RowModUpdated

	ds, err = o.labor.EndActivity(ctx, ds)
	if err != nil {
		return err
	}
	if _, err = o.labor.Update(ctx, ds); err != nil {
		return err
	}
	log.Info("labor activity ended", "qty", req.Qty, "scrap", req.ScrapQty, "complete", req.Complete)

	if !hoursKnown {
		return nil
	}
	o.reconcileHours(ctx, req.LaborHedSeq, req.LaborDtlSeq, expectedHours, log)
	return nil
}

// expectedHours looks up the operation's production standard and computes
// standard-based hours. Missing operations or unrecognized formats skip
// the hours correction rather than failing the report.
func (o *Orchestrator) expectedHours(ctx context.Context, dtl *erp.LaborDtl, qty decimal.Decimal, log *slog.Logger) (decimal.Decimal, bool) {
	if o.deps.Operations == nil {
		return decimal.Zero, false
	}
	key := entities.OperationKey{
		JobNum:      entities.JobNumber(dtl.JobNum),
		AssemblySeq: dtl.AssemblySeq,
		OprSeq:      dtl.OprSeq,
	}
	op, err := o.deps.Operations.GetOperation(ctx, key)
	if err != nil || op == nil {
		log.Warn("operation lookup failed, skipping hours correction", "error", err)
		return decimal.Zero, false
	}
	hours, ok := ComputeStandardHours(op.ProdStandard, op.StdFormat, qty)
	if !ok {
		log.Warn("unrecognized standard format, skipping hours correction", "format", op.StdFormat)
		return decimal.Zero, false
	}
	return hours, true
}

// reconcileHours re-reads the persisted detail and repairs its hours when
// they drifted from the standard-based value. Best effort: every failure
// here is logged, never raised, because the quantity report is the
// primary contract.
func (o *Orchestrator) reconcileHours(ctx context.Context, hedSeq, dtlSeq int, expected decimal.Decimal, log *slog.Logger) {
	ds, err := o.labor.GetByID(ctx, hedSeq)
	if err != nil {
		log.Warn("hours verification fetch failed", "error", err)
		return
	}
	dtl := ds.FindDetail(dtlSeq)
	if dtl == nil {
		log.Warn("detail disappeared during hours verification")
		return
	}
	if dtl.LaborHrs.Sub(expected).Abs().LessThanOrEqual(hoursTolerance) {
		return
	}
	log.Debug("persisted hours disagree with standard", "persisted", dtl.LaborHrs, "expected", expected)

	if dtl.TimeStatus.Editable() {
		dtl.LaborHrs = expected
		dtl.RowMod = erp.RowModUpdated
		if _, err := o.labor.Update(ctx, ds); err != nil {
			log.Warn("hours repair failed", "error", err)
		}
		return
	}

	// The remote auto-submit/approve workflow beat us to the record.
	// Recall once; if that does not yield an editable detail, leave the
	// discrepancy in place.
	dtl.RowMod = erp.RowModUpdated
	recalled, err := o.labor.RecallFromApproval(ctx, ds)
	if err != nil {
		log.Warn("recall from approval failed, leaving hours discrepancy", "error", err)
		return
	}
	dtl = recalled.FindDetail(dtlSeq)
	if dtl == nil || !dtl.TimeStatus.Editable() {
		log.Warn("recall did not yield an editable detail, leaving hours discrepancy")
		return
	}

	dtl.LaborHrs = expected
	dtl.RowMod = erp.RowModUpdated
	updated, err := o.labor.Update(ctx, recalled)
	if err != nil {
		log.Warn("hours repair after recall failed", "error", err)
		return
	}
	if dtl = updated.FindDetail(dtlSeq); dtl != nil {
		dtl.RowMod = erp.RowModUpdated
	}
	// Resubmission re-enters the remote approval workflow, which is
	// expected to auto-approve.
	if _, err := o.labor.SubmitForApproval(ctx, updated); err != nil {
		log.Warn("resubmit for approval failed", "error", err)
	}
}

// GetActiveLabor returns the employee's open labor details across active
// sessions.
func (o *Orchestrator) GetActiveLabor(ctx context.Context, employeeID string) ([]erp.LaborDtl, error) {
	return o.labor.GetActiveDetails(ctx, employeeID)
}

// UpdateJobQuantity changes a job's production quantity through its
// make-to-stock demand link, falling back to the header when the job has
// no demand link.
func (o *Orchestrator) UpdateJobQuantity(ctx context.Context, jobNum entities.JobNumber, qty decimal.Decimal) error {
	ds, err := o.jobs.GetJobByID(ctx, string(jobNum))
	if err != nil {
		return err
	}
	switch {
	case len(ds.JobProd) > 0:
		ds.JobProd[0].MakeToStockQty = qty
		ds.JobProd[0].RowMod = erp.RowModUpdated
	case len(ds.JobHead) > 0:
		ds.JobHead[0].ProdQty = qty
		ds.JobHead[0].RowMod = erp.RowModUpdated
	default:
		return fmt.Errorf("job %s dataset has no header or demand link", jobNum)
	}
	if _, err := o.jobs.UpdateJob(ctx, ds); err != nil {
		return err
	}
	o.logger.Info("job quantity updated", "job", jobNum, "qty", qty)
	return nil
}
