package erpdb

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
)

// ShopRepository reads the shop floor model from the ERP database replica
type ShopRepository struct {
	db *gorm.DB
}

// NewShopRepository creates a database-backed shop repository
func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{db: db}
}

// Verify interface compliance
var _ repositories.JobRepository = (*ShopRepository)(nil)
var _ repositories.OperationRepository = (*ShopRepository)(nil)
var _ repositories.MaterialRepository = (*ShopRepository)(nil)
var _ repositories.InventoryRepository = (*ShopRepository)(nil)
var _ repositories.LaborHistoryRepository = (*ShopRepository)(nil)

// Migrate creates the replica tables. Used by tests and the demo
// command; a production replica is populated externally.
func (r *ShopRepository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(
		&JobHead{}, &JobAsmbl{}, &JobOper{}, &JobMtl{},
		&Part{}, &PartQty{}, &LaborDtl{}, &EmpBasic{},
		&OpMasDtl{}, &ResourceGroup{},
	)
}

// GetJob returns a job header, or nil when absent
func (r *ShopRepository) GetJob(ctx context.Context, jobNum entities.JobNumber) (*entities.Job, error) {
	var head JobHead
	err := r.db.WithContext(ctx).Where("JobNum = ?", string(jobNum)).First(&head).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	descs, err := r.partDescriptions(ctx, []string{head.PartNum})
	if err != nil {
		return nil, err
	}
	return toJob(head, descs[head.PartNum]), nil
}

// GetJobs returns the headers for the given jobs
func (r *ShopRepository) GetJobs(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber]*entities.Job, error) {
	if len(jobNums) == 0 {
		return map[entities.JobNumber]*entities.Job{}, nil
	}

	var heads []JobHead
	err := r.db.WithContext(ctx).Where("JobNum IN ?", jobNumStrings(jobNums)).Find(&heads).Error
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(heads))
	for _, head := range heads {
		parts = append(parts, head.PartNum)
	}
	descs, err := r.partDescriptions(ctx, parts)
	if err != nil {
		return nil, err
	}

	result := make(map[entities.JobNumber]*entities.Job, len(heads))
	for _, head := range heads {
		result[entities.JobNumber(head.JobNum)] = toJob(head, descs[head.PartNum])
	}
	return result, nil
}

// GetAssemblies returns sub-assembly records keyed by job
func (r *ShopRepository) GetAssemblies(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber][]*entities.Assembly, error) {
	if len(jobNums) == 0 {
		return map[entities.JobNumber][]*entities.Assembly{}, nil
	}

	var rows []JobAsmbl
	err := r.db.WithContext(ctx).
		Where("JobNum IN ?", jobNumStrings(jobNums)).
		Where("AssemblySeq > ?", 0).
		Order("JobNum, AssemblySeq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[entities.JobNumber][]*entities.Assembly)
	for _, row := range rows {
		asm := &entities.Assembly{
			JobNum:      entities.JobNumber(row.JobNum),
			AssemblySeq: row.AssemblySeq,
			PartNum:     entities.PartNumber(row.PartNum),
			Description: row.Description,
			RequiredQty: row.RequiredQty,
		}
		result[asm.JobNum] = append(result[asm.JobNum], asm)
	}
	return result, nil
}

// GetOperation returns a single operation by key, or nil when absent
func (r *ShopRepository) GetOperation(ctx context.Context, key entities.OperationKey) (*entities.Operation, error) {
	var row JobOper
	err := r.db.WithContext(ctx).
		Where("JobNum = ? AND AssemblySeq = ? AND OprSeq = ?", string(key.JobNum), key.AssemblySeq, key.OprSeq).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toOperation(row), nil
}

// GetCandidateOperations returns incomplete countable operations matching
// the op code set, restricted to released and not-complete jobs
func (r *ShopRepository) GetCandidateOperations(ctx context.Context, opCodes []string) ([]*entities.Operation, error) {
	if len(opCodes) == 0 {
		return nil, nil
	}

	var rows []JobOper
	err := r.db.WithContext(ctx).
		Model(&JobOper{}).
		Select("JobOper.*").
		Joins("INNER JOIN JobHead ON JobHead.JobNum = JobOper.JobNum").
		Where("JobHead.JobReleased = ?", true).
		Where("JobHead.JobComplete = ?", false).
		Where("JobOper.OpCode IN ?", opCodes).
		Where("JobOper.OpComplete = ?", false).
		Where("JobOper.LaborEntryMethod <> ?", "B").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.attachLastEntries(ctx, rows)
}

// GetOperationsForJobs returns every operation for the given jobs in
// job, assembly, sequence order
func (r *ShopRepository) GetOperationsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.Operation, error) {
	if len(jobNums) == 0 {
		return nil, nil
	}

	var rows []JobOper
	err := r.db.WithContext(ctx).
		Where("JobNum IN ?", jobNumStrings(jobNums)).
		Order("JobNum, AssemblySeq, OprSeq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return r.attachLastEntries(ctx, rows)
}

// GetRequirementsForJobs returns material lines with positive required
// quantity for the given jobs
func (r *ShopRepository) GetRequirementsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.MaterialRequirement, error) {
	if len(jobNums) == 0 {
		return nil, nil
	}
	return r.requirements(ctx, r.db.WithContext(ctx).
		Where("JobNum IN ?", jobNumStrings(jobNums)))
}

// GetRequirementsForOperation returns material lines attached directly to
// an operation
func (r *ShopRepository) GetRequirementsForOperation(ctx context.Context, key entities.OperationKey) ([]*entities.MaterialRequirement, error) {
	return r.requirements(ctx, r.db.WithContext(ctx).
		Where("JobNum = ? AND AssemblySeq = ? AND RelatedOperation = ?", string(key.JobNum), key.AssemblySeq, key.OprSeq))
}

func (r *ShopRepository) requirements(ctx context.Context, scope *gorm.DB) ([]*entities.MaterialRequirement, error) {
	var rows []JobMtl
	err := scope.
		Where("RequiredQty > ?", 0).
		Order("JobNum, AssemblySeq, RelatedOperation, MtlSeq").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	parts := make([]string, 0, len(rows))
	for _, row := range rows {
		parts = append(parts, row.PartNum)
	}
	descs, err := r.partDescriptions(ctx, parts)
	if err != nil {
		return nil, err
	}

	reqs := make([]*entities.MaterialRequirement, 0, len(rows))
	for _, row := range rows {
		reqs = append(reqs, &entities.MaterialRequirement{
			JobNum:           entities.JobNumber(row.JobNum),
			AssemblySeq:      row.AssemblySeq,
			RelatedOperation: row.RelatedOperation,
			MtlSeq:           row.MtlSeq,
			PartNum:          entities.PartNumber(row.PartNum),
			Description:      descs[row.PartNum],
			RequiredQty:      row.RequiredQty,
			UOM:              row.IUM,
		})
	}
	return reqs, nil
}

// GetAggregates returns shop-wide inventory aggregates summed across
// warehouses. Parts with no inventory rows are absent from the result.
func (r *ShopRepository) GetAggregates(ctx context.Context, parts []entities.PartNumber) (map[entities.PartNumber]*entities.PartInventory, error) {
	if len(parts) == 0 {
		return map[entities.PartNumber]*entities.PartInventory{}, nil
	}

	partStrings := make([]string, len(parts))
	for i, part := range parts {
		partStrings[i] = string(part)
	}

	var rows []struct {
		PartNum   string
		OnHandQty decimal.Decimal
		DemandQty decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&PartQty{}).
		Select("PartNum, SUM(OnHandQty) AS on_hand_qty, SUM(DemandQty) AS demand_qty").
		Where("PartNum IN ?", partStrings).
		Group("PartNum").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make(map[entities.PartNumber]*entities.PartInventory, len(rows))
	for _, row := range rows {
		result[entities.PartNumber(row.PartNum)] = &entities.PartInventory{
			PartNum:   entities.PartNumber(row.PartNum),
			OnHandQty: row.OnHandQty,
			DemandQty: row.DemandQty,
		}
	}
	return result, nil
}

// GetLastCheckin returns the most recent positive labor entry against the
// assembly part, optionally restricted to an op code
func (r *ShopRepository) GetLastCheckin(ctx context.Context, part entities.PartNumber, opCode string) (*entities.Checkin, error) {
	query := r.db.WithContext(ctx).
		Model(&LaborDtl{}).
		Select("LaborDtl.EmployeeNum, EmpBasic.Name AS employee_name, LaborDtl.LaborQty, LaborDtl.ClockInDate, LaborDtl.JobNum, LaborDtl.OpCode").
		Joins("INNER JOIN JobAsmbl ON JobAsmbl.JobNum = LaborDtl.JobNum AND JobAsmbl.AssemblySeq = LaborDtl.AssemblySeq").
		Joins("LEFT JOIN EmpBasic ON EmpBasic.EmpID = LaborDtl.EmployeeNum").
		Where("JobAsmbl.PartNum = ?", string(part)).
		Where("LaborDtl.LaborQty > ?", 0).
		Order("LaborDtl.ClockInDate DESC").
		Limit(1)
	if opCode != "" {
		query = query.Where("LaborDtl.OpCode = ?", opCode)
	}

	var rows []struct {
		EmployeeNum  string
		EmployeeName string
		LaborQty     decimal.Decimal
		ClockInDate  time.Time
		JobNum       string
		OpCode       string
	}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &entities.Checkin{
		EmployeeNum:  row.EmployeeNum,
		EmployeeName: row.EmployeeName,
		LaborQty:     row.LaborQty,
		ClockInDate:  row.ClockInDate,
		JobNum:       entities.JobNumber(row.JobNum),
		OpCode:       row.OpCode,
	}, nil
}

// attachLastEntries joins the most recent positive labor entry date onto
// each operation
func (r *ShopRepository) attachLastEntries(ctx context.Context, rows []JobOper) ([]*entities.Operation, error) {
	ops := make([]*entities.Operation, 0, len(rows))
	jobSet := make(map[string]bool)
	for _, row := range rows {
		ops = append(ops, toOperation(row))
		jobSet[row.JobNum] = true
	}
	if len(ops) == 0 {
		return ops, nil
	}

	jobs := make([]string, 0, len(jobSet))
	for job := range jobSet {
		jobs = append(jobs, job)
	}

	var entries []LaborDtl
	err := r.db.WithContext(ctx).
		Where("JobNum IN ?", jobs).
		Where("LaborQty > ?", 0).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	byKey := make(map[entities.OperationKey]time.Time)
	for _, entry := range entries {
		key := entities.OperationKey{
			JobNum:      entities.JobNumber(entry.JobNum),
			AssemblySeq: entry.AssemblySeq,
			OprSeq:      entry.OprSeq,
		}
		if current, ok := byKey[key]; !ok || entry.ClockInDate.After(current) {
			byKey[key] = entry.ClockInDate
		}
	}
	for _, op := range ops {
		if last, ok := byKey[op.Key()]; ok {
			lastCopy := last
			op.LastEntryDate = &lastCopy
		}
	}
	return ops, nil
}

func (r *ShopRepository) partDescriptions(ctx context.Context, partNums []string) (map[string]string, error) {
	if len(partNums) == 0 {
		return map[string]string{}, nil
	}

	var parts []Part
	err := r.db.WithContext(ctx).Where("PartNum IN ?", partNums).Find(&parts).Error
	if err != nil {
		return nil, err
	}

	descs := make(map[string]string, len(parts))
	for _, part := range parts {
		descs[part.PartNum] = part.PartDescription
	}
	return descs, nil
}

func toJob(head JobHead, partDescription string) *entities.Job {
	return &entities.Job{
		JobNum:      entities.JobNumber(head.JobNum),
		PartNum:     entities.PartNumber(head.PartNum),
		Description: partDescription,
		Released:    head.JobReleased,
		Complete:    head.JobComplete,
		ProdQty:     head.ProdQty,
		Priority:    head.SchedCode,
		StartDate:   head.StartDate,
		ReqDueDate:  head.ReqDueDate,
		DueDate:     head.DueDate,
	}
}

func toOperation(row JobOper) *entities.Operation {
	return &entities.Operation{
		JobNum:        entities.JobNumber(row.JobNum),
		AssemblySeq:   row.AssemblySeq,
		OprSeq:        row.OprSeq,
		OpCode:        row.OpCode,
		OpDesc:        row.OpDesc,
		Complete:      row.OpComplete,
		QtyCompleted:  row.QtyCompleted,
		ProdStandard:  row.ProdStandard,
		StdFormat:     entities.StandardFormatFromCode(row.StdFormat),
		EntryMethod:   entities.EntryMethodFromCode(row.LaborEntryMethod),
		SchedRelation: entities.SchedRelationFromCode(row.SchedRelation),
		ResourceGrpID: row.ResourceGrpID,
		Notes:         row.CommentText,
	}
}

func jobNumStrings(jobNums []entities.JobNumber) []string {
	strs := make([]string, len(jobNums))
	for i, num := range jobNums {
		strs[i] = string(num)
	}
	return strs
}
