package labor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/erp"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/memory"
)

// fakeLabor scripts the remote labor service. GetByID responses pop off
// a queue so the end/reconcile sequence can observe different persisted
// states.
type fakeLabor struct {
	calls []string

	clockInErr    error
	headers       []erp.LaborHed
	headersErr    error
	getByID       []*erp.LaborDataset
	defaultJobErr error
	defaultOprErr error
	recallErr     error
	recallStatus  erp.TimeStatus

	nextDtlSeq int
	updates    []erp.LaborDataset
	startInput *erp.LaborDataset
	submitted  bool
}

var _ erp.LaborService = (*fakeLabor)(nil)

func copyDataset(ds *erp.LaborDataset) erp.LaborDataset {
	return erp.LaborDataset{
		LaborHed: append([]erp.LaborHed(nil), ds.LaborHed...),
		LaborDtl: append([]erp.LaborDtl(nil), ds.LaborDtl...),
	}
}

func (f *fakeLabor) ClockIn(ctx context.Context, employeeID string, shift int) error {
	f.calls = append(f.calls, "ClockIn")
	return f.clockInErr
}

func (f *fakeLabor) GetActiveHeaders(ctx context.Context, employeeID string) ([]erp.LaborHed, error) {
	f.calls = append(f.calls, "GetActiveHeaders")
	return f.headers, f.headersErr
}

func (f *fakeLabor) GetActiveDetails(ctx context.Context, employeeID string) ([]erp.LaborDtl, error) {
	f.calls = append(f.calls, "GetActiveDetails")
	var details []erp.LaborDtl
	for _, ds := range f.getByID {
		details = append(details, ds.LaborDtl...)
	}
	return details, nil
}

func (f *fakeLabor) GetByID(ctx context.Context, laborHedSeq int) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "GetByID")
	if len(f.getByID) == 0 {
		return &erp.LaborDataset{LaborHed: []erp.LaborHed{{LaborHedSeq: laborHedSeq}}}, nil
	}
	ds := copyDataset(f.getByID[0])
	f.getByID = f.getByID[1:]
	return &ds, nil
}

func (f *fakeLabor) StartActivity(ctx context.Context, laborHedSeq int, startType string, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "StartActivity")
	input := copyDataset(ds)
	f.startInput = &input
	if startType != "P" {
		return nil, errors.New("unexpected start type")
	}
	f.nextDtlSeq++
	ds.LaborDtl = append(ds.LaborDtl, erp.LaborDtl{
		LaborHedSeq: laborHedSeq,
		LaborDtlSeq: f.nextDtlSeq,
		ActiveTrans: true,
		RowMod:      erp.RowModAdded,
	})
	return ds, nil
}

func (f *fakeLabor) DefaultJobNum(ctx context.Context, jobNum string, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "DefaultJobNum")
	if f.defaultJobErr != nil {
		return nil, f.defaultJobErr
	}
	return ds, nil
}

func (f *fakeLabor) DefaultOprSeq(ctx context.Context, oprSeq int, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "DefaultOprSeq")
	if f.defaultOprErr != nil {
		return nil, f.defaultOprErr
	}
	return ds, nil
}

func (f *fakeLabor) EndActivity(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "EndActivity")
	return ds, nil
}

func (f *fakeLabor) Update(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "Update")
	f.updates = append(f.updates, copyDataset(ds))
	return ds, nil
}

func (f *fakeLabor) RecallFromApproval(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "RecallFromApproval")
	if f.recallErr != nil {
		return nil, f.recallErr
	}
	recalled := copyDataset(ds)
	for i := range recalled.LaborDtl {
		recalled.LaborDtl[i].TimeStatus = f.recallStatus
	}
	return &recalled, nil
}

func (f *fakeLabor) SubmitForApproval(ctx context.Context, ds *erp.LaborDataset) (*erp.LaborDataset, error) {
	f.calls = append(f.calls, "SubmitForApproval")
	f.submitted = true
	return ds, nil
}

// fakeJobs scripts the remote job entry service
type fakeJobs struct {
	ds      *erp.JobDataset
	updated *erp.JobDataset
}

var _ erp.JobService = (*fakeJobs)(nil)

func (f *fakeJobs) GetJobByID(ctx context.Context, jobNum string) (*erp.JobDataset, error) {
	if f.ds == nil {
		return &erp.JobDataset{}, nil
	}
	return f.ds, nil
}

func (f *fakeJobs) UpdateJob(ctx context.Context, ds *erp.JobDataset) (*erp.JobDataset, error) {
	f.updated = ds
	return ds, nil
}

func testDeps() Deps {
	shop := memory.NewShopRepository()
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD",
		EntryMethod:   entities.Countable,
		ProdStandard:  decimal.NewFromInt(2),
		StdFormat:     entities.HoursPerPiece,
		ResourceGrpID: "WLD-GRP",
	})

	directory := memory.NewDirectoryRepository()
	directory.AddEmployee(entities.Employee{ID: "100", Name: "Pat", Active: true})
	directory.MapResourceDepartment("WLD-GRP", "WELD-DEPT")

	return Deps{Operations: shop, Resources: directory, Employees: directory}
}

func testOrchestrator(svc *fakeLabor, jobs *fakeJobs, deps Deps) *Orchestrator {
	if jobs == nil {
		jobs = &fakeJobs{}
	}
	return NewOrchestrator(svc, jobs, deps, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func startRequest() StartRequest {
	return StartRequest{
		EmployeeID:  "100",
		JobNum:      "J1",
		AssemblySeq: 0,
		OprSeq:      30,
		OpCode:      "WELD",
	}
}

func TestStartActivitySequence(t *testing.T) {
	svc := &fakeLabor{
		headers: []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}},
		getByID: []*erp.LaborDataset{{
			LaborHed: []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}},
			// A stale open detail from an earlier shift must not leak into
			// the new transaction.
			LaborDtl: []erp.LaborDtl{{LaborHedSeq: 42, LaborDtlSeq: 1}},
		}},
	}
	orch := testOrchestrator(svc, nil, testDeps())

	result, err := orch.StartActivity(context.Background(), startRequest())
	require.NoError(t, err)
	assert.Equal(t, 42, result.LaborHedSeq)
	assert.Equal(t, 1, result.LaborDtlSeq)

	assert.Equal(t, []string{
		"ClockIn", "GetActiveHeaders", "GetByID", "StartActivity",
		"DefaultJobNum", "DefaultOprSeq", "Update",
	}, svc.calls)

	require.NotNil(t, svc.startInput)
	assert.Empty(t, svc.startInput.LaborDtl, "stale details must be cleared before starting")

	require.Len(t, svc.updates, 1)
	dtl := svc.updates[0].LaborDtl[0]
	assert.Equal(t, "J1", dtl.JobNum)
	assert.Equal(t, 30, dtl.OprSeq)
	assert.Equal(t, "WELD", dtl.OpCode)
	assert.False(t, dtl.Rework)
	// Resource group resolved from the job operation record, department
	// from the resource group master.
	assert.Equal(t, "WLD-GRP", dtl.ResourceGrpID)
	assert.Equal(t, "WELD-DEPT", dtl.JCDept)
}

func TestStartActivityUnknownEmployee(t *testing.T) {
	svc := &fakeLabor{}
	orch := testOrchestrator(svc, nil, testDeps())

	req := startRequest()
	req.EmployeeID = "999"
	_, err := orch.StartActivity(context.Background(), req)
	require.ErrorIs(t, err, ErrUnknownEmployee)
	assert.Empty(t, svc.calls, "no remote call before the directory check")
}

func TestStartActivityClockInFailureTolerated(t *testing.T) {
	svc := &fakeLabor{
		clockInErr: errors.New("already clocked in"),
		headers:    []erp.LaborHed{{LaborHedSeq: 7, ActiveTrans: true}},
	}
	orch := testOrchestrator(svc, nil, testDeps())

	result, err := orch.StartActivity(context.Background(), startRequest())
	require.NoError(t, err)
	assert.Equal(t, 7, result.LaborHedSeq)
}

func TestStartActivityNoActiveSession(t *testing.T) {
	svc := &fakeLabor{clockInErr: errors.New("terminal down")}
	orch := testOrchestrator(svc, nil, testDeps())

	_, err := orch.StartActivity(context.Background(), startRequest())
	require.ErrorIs(t, err, ErrNoActiveSession)
}

func TestStartActivityJobDefaultingFatal(t *testing.T) {
	remoteErr := erp.NewStepError("DefaultJobNum", 400, `{"ErrorMessage":"job on hold"}`)
	svc := &fakeLabor{
		headers:       []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}},
		defaultJobErr: remoteErr,
	}
	orch := testOrchestrator(svc, nil, testDeps())

	_, err := orch.StartActivity(context.Background(), startRequest())
	var stepErr *erp.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "DefaultJobNum", stepErr.Step)
	assert.Contains(t, stepErr.Body, "job on hold")
}

func TestStartActivityOperationDefaultingTolerated(t *testing.T) {
	svc := &fakeLabor{
		headers:       []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}},
		defaultOprErr: errors.New("defaulting unavailable"),
	}
	orch := testOrchestrator(svc, nil, testDeps())

	_, err := orch.StartActivity(context.Background(), startRequest())
	require.NoError(t, err)
	require.Len(t, svc.updates, 1)
}

func TestStartActivityResourceFallbackToOpCodeMaster(t *testing.T) {
	shop := memory.NewShopRepository()
	// The job operation exists but carries no resource group.
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD",
		EntryMethod: entities.Countable,
	})
	directory := memory.NewDirectoryRepository()
	directory.AddEmployee(entities.Employee{ID: "100", Active: true})
	directory.MapOpCodeResource("WELD", "WGRP")
	directory.MapResourceDepartment("WGRP", "DEPT-W")

	svc := &fakeLabor{headers: []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}}}
	orch := testOrchestrator(svc, nil, Deps{Operations: shop, Resources: directory, Employees: directory})

	_, err := orch.StartActivity(context.Background(), startRequest())
	require.NoError(t, err)
	require.Len(t, svc.updates, 1)
	dtl := svc.updates[0].LaborDtl[0]
	assert.Equal(t, "WGRP", dtl.ResourceGrpID)
	assert.Equal(t, "DEPT-W", dtl.JCDept)
}

func TestStartActivityHintBeatsFallback(t *testing.T) {
	svc := &fakeLabor{headers: []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}}}
	orch := testOrchestrator(svc, nil, testDeps())

	req := startRequest()
	req.ResourceGrpID = "HINT-GRP"
	req.Department = "HINT-DEPT"
	_, err := orch.StartActivity(context.Background(), req)
	require.NoError(t, err)
	dtl := svc.updates[0].LaborDtl[0]
	assert.Equal(t, "HINT-GRP", dtl.ResourceGrpID)
	assert.Equal(t, "HINT-DEPT", dtl.JCDept)
}

func endDataset(hrs string, status erp.TimeStatus) *erp.LaborDataset {
	return &erp.LaborDataset{
		LaborHed: []erp.LaborHed{{LaborHedSeq: 42, ActiveTrans: true}},
		LaborDtl: []erp.LaborDtl{{
			LaborHedSeq: 42, LaborDtlSeq: 7,
			JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD",
			LaborHrs:   decimal.RequireFromString(hrs),
			TimeStatus: status,
		}},
	}
}

func endRequest() EndRequest {
	return EndRequest{
		LaborHedSeq: 42,
		LaborDtlSeq: 7,
		Qty:         decimal.NewFromInt(10),
		Complete:    true,
	}
}

func TestEndActivityReportsQuantity(t *testing.T) {
	svc := &fakeLabor{getByID: []*erp.LaborDataset{
		endDataset("0", ""),
		// 10 units at 2 hours per piece: persisted hours already agree.
		endDataset("20", erp.TimeStatusEntered),
	}}
	orch := testOrchestrator(svc, nil, testDeps())

	require.NoError(t, orch.EndActivity(context.Background(), endRequest()))

	assert.Equal(t, []string{"GetByID", "EndActivity", "Update", "GetByID"}, svc.calls)
	require.Len(t, svc.updates, 1)
	dtl := svc.updates[0].LaborDtl[0]
	assert.True(t, dtl.LaborQty.Equal(decimal.NewFromInt(10)))
	assert.True(t, dtl.OpComplete)
	assert.True(t, dtl.Complete)
	assert.Equal(t, erp.RowModUpdated, dtl.RowMod)
	assert.Empty(t, dtl.ScrapReasonCode)
}

func TestEndActivityScrapReasonOnlyWithScrap(t *testing.T) {
	svc := &fakeLabor{getByID: []*erp.LaborDataset{
		endDataset("0", ""),
		endDataset("24", erp.TimeStatusEntered), // 12 units at 2 hours each
	}}
	orch := testOrchestrator(svc, nil, testDeps())

	req := endRequest()
	req.ScrapQty = decimal.NewFromInt(2)
	req.ScrapReason = "WELD-DEFECT"
	require.NoError(t, orch.EndActivity(context.Background(), req))

	dtl := svc.updates[0].LaborDtl[0]
	assert.True(t, dtl.ScrapQty.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "WELD-DEFECT", dtl.ScrapReasonCode)
}

func TestEndActivityRepairsEditableHours(t *testing.T) {
	svc := &fakeLabor{getByID: []*erp.LaborDataset{
		endDataset("0", ""),
		// Wall-clock derived hours drifted; the detail is still editable.
		endDataset("0.25", erp.TimeStatusEntered),
	}}
	orch := testOrchestrator(svc, nil, testDeps())

	require.NoError(t, orch.EndActivity(context.Background(), endRequest()))

	assert.Equal(t, []string{"GetByID", "EndActivity", "Update", "GetByID", "Update"}, svc.calls)
	require.Len(t, svc.updates, 2)
	repaired := svc.updates[1].LaborDtl[0]
	assert.True(t, repaired.LaborHrs.Equal(decimal.NewFromInt(20)), "got %s", repaired.LaborHrs)
	assert.False(t, svc.submitted)
}

func TestEndActivityRecallsSubmittedHours(t *testing.T) {
	svc := &fakeLabor{
		getByID: []*erp.LaborDataset{
			endDataset("0", ""),
			// The auto-approve workflow already got the record.
			endDataset("0.25", erp.TimeStatusApproved),
		},
		recallStatus: erp.TimeStatusEntered,
	}
	orch := testOrchestrator(svc, nil, testDeps())

	require.NoError(t, orch.EndActivity(context.Background(), endRequest()))

	assert.Equal(t, []string{
		"GetByID", "EndActivity", "Update", "GetByID",
		"RecallFromApproval", "Update", "SubmitForApproval",
	}, svc.calls)
	repaired := svc.updates[1].LaborDtl[0]
	assert.True(t, repaired.LaborHrs.Equal(decimal.NewFromInt(20)))
	assert.True(t, svc.submitted)
}

func TestEndActivityRecallFailureAbandonsRepair(t *testing.T) {
	svc := &fakeLabor{
		getByID: []*erp.LaborDataset{
			endDataset("0", ""),
			endDataset("0.25", erp.TimeStatusApproved),
		},
		recallErr: errors.New("period locked"),
	}
	orch := testOrchestrator(svc, nil, testDeps())

	// The quantity report stands even when the repair cannot run.
	require.NoError(t, orch.EndActivity(context.Background(), endRequest()))
	require.Len(t, svc.updates, 1)
	assert.False(t, svc.submitted)
}

func TestEndActivityDetailNotFound(t *testing.T) {
	svc := &fakeLabor{getByID: []*erp.LaborDataset{
		{LaborHed: []erp.LaborHed{{LaborHedSeq: 42}}},
	}}
	orch := testOrchestrator(svc, nil, testDeps())

	err := orch.EndActivity(context.Background(), endRequest())
	require.ErrorIs(t, err, ErrDetailNotFound)
}

func TestEndActivitySkipsRepairForUnknownFormat(t *testing.T) {
	shop := memory.NewShopRepository()
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD",
		EntryMethod:  entities.Countable,
		ProdStandard: decimal.NewFromInt(2),
		StdFormat:    entities.FormatUnknown,
	})
	directory := memory.NewDirectoryRepository()
	directory.AddEmployee(entities.Employee{ID: "100", Active: true})

	svc := &fakeLabor{getByID: []*erp.LaborDataset{endDataset("0", "")}}
	orch := testOrchestrator(svc, nil, Deps{Operations: shop, Resources: directory, Employees: directory})

	require.NoError(t, orch.EndActivity(context.Background(), endRequest()))
	// No verification fetch when the standard cannot be computed.
	assert.Equal(t, []string{"GetByID", "EndActivity", "Update"}, svc.calls)
}

func TestUpdateJobQuantityPrefersDemandLink(t *testing.T) {
	jobs := &fakeJobs{ds: &erp.JobDataset{
		JobHead: []erp.JobHead{{JobNum: "J1", ProdQty: decimal.NewFromInt(10)}},
		JobProd: []erp.JobProd{{JobNum: "J1", MakeToStockQty: decimal.NewFromInt(10)}},
	}}
	orch := testOrchestrator(&fakeLabor{}, jobs, testDeps())

	require.NoError(t, orch.UpdateJobQuantity(context.Background(), "J1", decimal.NewFromInt(15)))
	require.NotNil(t, jobs.updated)
	assert.True(t, jobs.updated.JobProd[0].MakeToStockQty.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, erp.RowModUpdated, jobs.updated.JobProd[0].RowMod)
	assert.Empty(t, jobs.updated.JobHead[0].RowMod, "header untouched when the demand link exists")
}

func TestUpdateJobQuantityFallsBackToHeader(t *testing.T) {
	jobs := &fakeJobs{ds: &erp.JobDataset{
		JobHead: []erp.JobHead{{JobNum: "J1", ProdQty: decimal.NewFromInt(10)}},
	}}
	orch := testOrchestrator(&fakeLabor{}, jobs, testDeps())

	require.NoError(t, orch.UpdateJobQuantity(context.Background(), "J1", decimal.NewFromInt(15)))
	assert.True(t, jobs.updated.JobHead[0].ProdQty.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, erp.RowModUpdated, jobs.updated.JobHead[0].RowMod)
}

func TestUpdateJobQuantityEmptyDataset(t *testing.T) {
	orch := testOrchestrator(&fakeLabor{}, &fakeJobs{}, testDeps())

	err := orch.UpdateJobQuantity(context.Background(), "J1", decimal.NewFromInt(15))
	require.Error(t, err)
}
