// Package readiness computes which job operations are ready to work at a
// work cell and how well stocked their materials are. All computation runs
// on a per-request snapshot of the relational source; there is no shared
// mutable state between requests.
package readiness

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/application/dto"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/config"
)

// Repos bundles the read-side repositories the engine queries
type Repos struct {
	Jobs       repositories.JobRepository
	Operations repositories.OperationRepository
	Materials  repositories.MaterialRepository
	Inventory  repositories.InventoryRepository
	History    repositories.LaborHistoryRepository
}

// Engine produces the ordered, filtered queue for a work cell
type Engine struct {
	catalog *config.WorkcellCatalog
	repos   Repos
	logger  *slog.Logger
	now     func() time.Time
}

// NewEngine creates a readiness engine over the given catalog and
// repositories. A nil logger falls back to slog.Default().
func NewEngine(catalog *config.WorkcellCatalog, repos Repos, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		catalog: catalog,
		repos:   repos,
		logger:  logger,
		now:     time.Now,
	}
}

type asmKey struct {
	jobNum      entities.JobNumber
	assemblySeq int
}

// snapshot is the consistent read of everything needed to evaluate a set
// of jobs within one request
type snapshot struct {
	jobs       map[entities.JobNumber]*entities.Job
	assemblies map[entities.JobNumber][]*entities.Assembly
	opsByKey   map[entities.OperationKey]*entities.Operation
	countable  map[asmKey][]*entities.Operation // sorted by OprSeq
	ownership  map[entities.OperationKey][]entities.OperationKey
	materials  map[entities.OperationKey][]*entities.MaterialRequirement // keyed by owning operation
	inventory  map[entities.PartNumber]*entities.PartInventory
}

// GetQueue returns the ordered list of operations ready to work at the
// given work cell. An unknown or empty work cell yields an empty queue,
// not an error.
func (e *Engine) GetQueue(ctx context.Context, workcellID string) ([]dto.QueueRow, error) {
	codes := e.catalog.OpCodes(workcellID)
	if len(codes) == 0 {
		return nil, nil
	}

	candidates, err := e.repos.Operations.GetCandidateOperations(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate operations: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	snap, err := e.loadSnapshot(ctx, jobNumbersOf(candidates))
	if err != nil {
		return nil, err
	}

	codeSet := make(map[string]bool, len(codes))
	for _, code := range codes {
		codeSet[code] = true
	}

	var rows []dto.QueueRow
	for _, op := range candidates {
		job := snap.jobs[op.JobNum]
		if job == nil || !job.Released || job.Complete {
			continue
		}
		if op.Complete || op.EntryMethod != entities.Countable || !codeSet[op.OpCode] {
			continue
		}

		isFirst, prior := snap.priorCountable(op)
		qtyFromPrior := decimal.Zero
		if prior != nil {
			qtyFromPrior = prior.QtyCompleted
		}
		if !isFirst && !qtyFromPrior.IsPositive() && !op.SchedRelation.AllowsParallelStart() {
			continue
		}
		if op.AssemblySeq == 0 && !snap.subAssembliesReady(op.JobNum) {
			continue
		}

		rows = append(rows, e.buildRow(snap, job, op, isFirst, qtyFromPrior))
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.JobNum != b.JobNum {
			return a.JobNum < b.JobNum
		}
		if a.AssemblySeq != b.AssemblySeq {
			return a.AssemblySeq < b.AssemblySeq
		}
		return a.OprSeq < b.OprSeq
	})

	return rows, nil
}

// GetMaterialsForOperation returns the classified materials attributed to
// an operation through the ownership mapping. An operation with no
// attributed materials yields an empty list.
func (e *Engine) GetMaterialsForOperation(ctx context.Context, key entities.OperationKey) ([]dto.ClassifiedMaterial, error) {
	snap, err := e.loadSnapshot(ctx, []entities.JobNumber{key.JobNum})
	if err != nil {
		return nil, err
	}
	return e.classifiedMaterials(snap, key), nil
}

// GetJobDetail returns the drill-down view for a job: header, countable
// operations (sub-assemblies first, then sequence order) and the
// classified materials of the focused operation. A missing job yields nil.
func (e *Engine) GetJobDetail(ctx context.Context, key entities.OperationKey) (*dto.JobDetail, error) {
	job, err := e.repos.Jobs.GetJob(ctx, key.JobNum)
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", key.JobNum, err)
	}
	if job == nil {
		return nil, nil
	}

	snap, err := e.loadSnapshot(ctx, []entities.JobNumber{key.JobNum})
	if err != nil {
		return nil, err
	}

	var ops []*entities.Operation
	for _, op := range snap.opsByKey {
		if op.EntryMethod == entities.Countable {
			ops = append(ops, op)
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].AssemblySeq != ops[j].AssemblySeq {
			return ops[i].AssemblySeq > ops[j].AssemblySeq
		}
		return ops[i].OprSeq < ops[j].OprSeq
	})

	return &dto.JobDetail{
		Job:        job,
		Operations: ops,
		Materials:  e.classifiedMaterials(snap, key),
	}, nil
}

// GetMaterialsForWorkcell returns the distinct parts attributed to the
// work cell's visible operations, for the material filter dropdown.
func (e *Engine) GetMaterialsForWorkcell(ctx context.Context, workcellID string) ([]dto.MaterialOption, error) {
	snap, candidates, err := e.workcellSnapshot(ctx, workcellID)
	if err != nil || snap == nil {
		return nil, err
	}

	seen := make(map[entities.PartNumber]string)
	for _, op := range candidates {
		for _, req := range snap.materials[op.Key()] {
			if _, ok := seen[req.PartNum]; !ok {
				seen[req.PartNum] = req.Description
			}
		}
	}

	options := make([]dto.MaterialOption, 0, len(seen))
	for part, desc := range seen {
		options = append(options, dto.MaterialOption{PartNum: part, Description: desc})
	}
	sort.Slice(options, func(i, j int) bool {
		if options[i].Description != options[j].Description {
			return options[i].Description < options[j].Description
		}
		return options[i].PartNum < options[j].PartNum
	})
	return options, nil
}

// GetOperationsUsingMaterial returns the keys of the work cell's visible
// operations whose attributed materials include the given part, for the
// material filter.
func (e *Engine) GetOperationsUsingMaterial(ctx context.Context, workcellID string, part entities.PartNumber) ([]entities.OperationKey, error) {
	snap, candidates, err := e.workcellSnapshot(ctx, workcellID)
	if err != nil || snap == nil {
		return nil, err
	}

	var keys []entities.OperationKey
	for _, op := range candidates {
		for _, req := range snap.materials[op.Key()] {
			if req.PartNum == part {
				keys = append(keys, op.Key())
				break
			}
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.JobNum != b.JobNum {
			return a.JobNum < b.JobNum
		}
		if a.AssemblySeq != b.AssemblySeq {
			return a.AssemblySeq < b.AssemblySeq
		}
		return a.OprSeq < b.OprSeq
	})
	return keys, nil
}

// GetLastCheckin returns the most recent labor entry against a part,
// optionally at a specific op code. Nil when there is none.
func (e *Engine) GetLastCheckin(ctx context.Context, part entities.PartNumber, opCode string) (*entities.Checkin, error) {
	return e.repos.History.GetLastCheckin(ctx, part, opCode)
}

func (e *Engine) workcellSnapshot(ctx context.Context, workcellID string) (*snapshot, []*entities.Operation, error) {
	codes := e.catalog.OpCodes(workcellID)
	if len(codes) == 0 {
		return nil, nil, nil
	}
	candidates, err := e.repos.Operations.GetCandidateOperations(ctx, codes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load candidate operations: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil, nil
	}
	snap, err := e.loadSnapshot(ctx, jobNumbersOf(candidates))
	if err != nil {
		return nil, nil, err
	}
	return snap, candidates, nil
}

// loadSnapshot reads everything needed to evaluate the given jobs. A
// failure loading materials or inventory degrades to none-classified
// results rather than failing the queue view.
func (e *Engine) loadSnapshot(ctx context.Context, jobNums []entities.JobNumber) (*snapshot, error) {
	jobs, err := e.repos.Jobs.GetJobs(ctx, jobNums)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs: %w", err)
	}

	assemblies, err := e.repos.Jobs.GetAssemblies(ctx, jobNums)
	if err != nil {
		e.logger.Warn("assembly load failed, falling back to job parts", "error", err)
		assemblies = nil
	}

	allOps, err := e.repos.Operations.GetOperationsForJobs(ctx, jobNums)
	if err != nil {
		return nil, fmt.Errorf("failed to load operations: %w", err)
	}

	snap := &snapshot{
		jobs:       jobs,
		assemblies: assemblies,
		opsByKey:   make(map[entities.OperationKey]*entities.Operation, len(allOps)),
		countable:  make(map[asmKey][]*entities.Operation),
		ownership:  MapOwnership(allOps, e.catalog.FinishingExclusion()),
		materials:  make(map[entities.OperationKey][]*entities.MaterialRequirement),
		inventory:  make(map[entities.PartNumber]*entities.PartInventory),
	}

	for _, op := range allOps {
		snap.opsByKey[op.Key()] = op
		if op.EntryMethod == entities.Countable {
			key := asmKey{jobNum: op.JobNum, assemblySeq: op.AssemblySeq}
			snap.countable[key] = append(snap.countable[key], op)
		}
	}
	for _, group := range snap.countable {
		sort.Slice(group, func(i, j int) bool { return group[i].OprSeq < group[j].OprSeq })
	}

	requirements, err := e.repos.Materials.GetRequirementsForJobs(ctx, jobNums)
	if err != nil {
		e.logger.Warn("material load failed, queue degrades to none-classified", "error", err)
		return snap, nil
	}

	bySource := make(map[entities.OperationKey][]*entities.MaterialRequirement)
	for _, req := range requirements {
		if !req.RequiredQty.IsPositive() {
			continue
		}
		source := req.AttachedTo()
		if op := snap.opsByKey[source]; op != nil && op.OpCode == e.catalog.FinishingExclusion() {
			continue
		}
		bySource[source] = append(bySource[source], req)
	}

	partSet := make(map[entities.PartNumber]bool)
	for owner, sources := range snap.ownership {
		for _, source := range sources {
			for _, req := range bySource[source] {
				snap.materials[owner] = append(snap.materials[owner], req)
				partSet[req.PartNum] = true
			}
		}
	}

	if len(partSet) > 0 {
		parts := make([]entities.PartNumber, 0, len(partSet))
		for part := range partSet {
			parts = append(parts, part)
		}
		inventory, err := e.repos.Inventory.GetAggregates(ctx, parts)
		if err != nil {
			e.logger.Warn("inventory load failed, queue degrades to none-classified", "error", err)
			snap.materials = make(map[entities.OperationKey][]*entities.MaterialRequirement)
			return snap, nil
		}
		snap.inventory = inventory
	}

	return snap, nil
}

func (e *Engine) buildRow(snap *snapshot, job *entities.Job, op *entities.Operation, isFirst bool, qtyFromPrior decimal.Decimal) dto.QueueRow {
	partNum := job.PartNum
	partDesc := job.Description
	requiredQty := job.ProdQty
	if op.AssemblySeq > 0 {
		for _, asm := range snap.assemblies[job.JobNum] {
			if asm.AssemblySeq == op.AssemblySeq {
				partNum = asm.PartNum
				partDesc = asm.Description
				requiredQty = asm.RequiredQty
				break
			}
		}
	}

	standings := snap.standingsFor(op.Key())
	tier := TierForSet(standings)
	var maxProducible *decimal.Decimal
	if producible, bounded := MaxProducible(standings, job.ProdQty); bounded {
		maxProducible = &producible
	}

	daysUntilDue := 0
	if !job.ReqDueDate.IsZero() {
		daysUntilDue = daysBetween(e.now(), job.ReqDueDate)
	}

	return dto.QueueRow{
		JobNum:          job.JobNum,
		PartNum:         partNum,
		PartDescription: partDesc,
		AssemblySeq:     op.AssemblySeq,
		OprSeq:          op.OprSeq,
		OpCode:          op.OpCode,
		OpDesc:          op.OpDesc,
		Priority:        job.Priority,
		RequiredQty:     requiredQty,
		QtyCompleted:    op.QtyCompleted,
		QtyRemaining:    job.ProdQty.Sub(op.QtyCompleted),
		QtyFromPrior:    qtyFromPrior,
		IsFirstOp:       isFirst,
		Notes:           op.Notes,
		StartDate:       job.StartDate,
		ReqDueDate:      job.ReqDueDate,
		DueDate:         job.DueDate,
		DaysUntilDue:    daysUntilDue,
		MtlStatus:       tier,
		MtlCount:        len(standings),
		MaxProducible:   maxProducible,
		LastEntryDate:   op.LastEntryDate,
	}
}

func (e *Engine) classifiedMaterials(snap *snapshot, owner entities.OperationKey) []dto.ClassifiedMaterial {
	reqs := snap.materials[owner]
	materials := make([]dto.ClassifiedMaterial, 0, len(reqs))
	for _, req := range reqs {
		standing := NewStanding(req, snap.inventory[req.PartNum])
		sourceCode := ""
		if op := snap.opsByKey[req.AttachedTo()]; op != nil {
			sourceCode = op.OpCode
		}
		materials = append(materials, dto.ClassifiedMaterial{
			MtlSeq:       req.MtlSeq,
			PartNum:      req.PartNum,
			Description:  req.Description,
			RequiredQty:  req.RequiredQty,
			UOM:          req.UOM,
			OnHandQty:    standing.OnHand,
			DemandQty:    standing.Demand,
			Status:       TierFor(standing),
			QtyShort:     QtyShort(standing),
			SourceOprSeq: req.RelatedOperation,
			SourceOpCode: sourceCode,
		})
	}
	sort.Slice(materials, func(i, j int) bool {
		if materials[i].SourceOprSeq != materials[j].SourceOprSeq {
			return materials[i].SourceOprSeq < materials[j].SourceOprSeq
		}
		return materials[i].MtlSeq < materials[j].MtlSeq
	})
	return materials
}

// priorCountable returns whether the operation is the first countable
// operation on its assembly, and the immediately preceding countable
// operation when it is not.
func (s *snapshot) priorCountable(op *entities.Operation) (bool, *entities.Operation) {
	group := s.countable[asmKey{jobNum: op.JobNum, assemblySeq: op.AssemblySeq}]
	var prior *entities.Operation
	for _, candidate := range group {
		if candidate.OprSeq >= op.OprSeq {
			break
		}
		prior = candidate
	}
	return prior == nil, prior
}

// subAssembliesReady reports whether every sub-assembly of the job has
// quantity completed on its last countable operation. Jobs without
// sub-assemblies are ready by definition.
func (s *snapshot) subAssembliesReady(jobNum entities.JobNumber) bool {
	for key, group := range s.countable {
		if key.jobNum != jobNum || key.assemblySeq == 0 || len(group) == 0 {
			continue
		}
		last := group[len(group)-1]
		if !last.QtyCompleted.IsPositive() {
			return false
		}
	}
	return true
}

func (s *snapshot) standingsFor(owner entities.OperationKey) []MaterialStanding {
	reqs := s.materials[owner]
	standings := make([]MaterialStanding, 0, len(reqs))
	for _, req := range reqs {
		standings = append(standings, NewStanding(req, s.inventory[req.PartNum]))
	}
	return standings
}

func jobNumbersOf(ops []*entities.Operation) []entities.JobNumber {
	seen := make(map[entities.JobNumber]bool, len(ops))
	var jobNums []entities.JobNumber
	for _, op := range ops {
		if !seen[op.JobNum] {
			seen[op.JobNum] = true
			jobNums = append(jobNums, op.JobNum)
		}
	}
	return jobNums
}

// daysBetween counts whole calendar days from one date to another,
// ignoring time of day.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}
