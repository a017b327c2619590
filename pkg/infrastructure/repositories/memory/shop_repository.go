// Package memory provides in-memory repository implementations used by
// tests and the demo command. Data is loaded up front; reads never fail.
package memory

import (
	"context"
	"sort"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
)

// ShopRepository holds a snapshot of the shop floor read model: jobs,
// assemblies, operations, material requirements, inventory aggregates
// and labor history.
type ShopRepository struct {
	jobs       map[entities.JobNumber]*entities.Job
	assemblies map[entities.JobNumber][]*entities.Assembly
	operations []entities.Operation
	opIndex    map[entities.OperationKey]int
	materials  []entities.MaterialRequirement
	inventory  map[entities.PartNumber]*entities.PartInventory
	checkins   []checkinRecord
}

type checkinRecord struct {
	part    entities.PartNumber
	checkin entities.Checkin
}

// NewShopRepository creates an empty shop floor snapshot
func NewShopRepository() *ShopRepository {
	return &ShopRepository{
		jobs:       make(map[entities.JobNumber]*entities.Job),
		assemblies: make(map[entities.JobNumber][]*entities.Assembly),
		opIndex:    make(map[entities.OperationKey]int),
		inventory:  make(map[entities.PartNumber]*entities.PartInventory),
	}
}

// Verify interface compliance
var _ repositories.JobRepository = (*ShopRepository)(nil)
var _ repositories.OperationRepository = (*ShopRepository)(nil)
var _ repositories.MaterialRepository = (*ShopRepository)(nil)
var _ repositories.InventoryRepository = (*ShopRepository)(nil)
var _ repositories.LaborHistoryRepository = (*ShopRepository)(nil)

// AddJob adds a job header
func (r *ShopRepository) AddJob(job entities.Job) {
	r.jobs[job.JobNum] = &job
}

// AddAssembly adds a sub-assembly record
func (r *ShopRepository) AddAssembly(asm entities.Assembly) {
	r.assemblies[asm.JobNum] = append(r.assemblies[asm.JobNum], &asm)
}

// AddOperation adds a routing operation, replacing any prior row with
// the same key
func (r *ShopRepository) AddOperation(op entities.Operation) {
	if index, ok := r.opIndex[op.Key()]; ok {
		r.operations[index] = op
		return
	}
	r.opIndex[op.Key()] = len(r.operations)
	r.operations = append(r.operations, op)
}

// AddRequirement adds a material requirement line
func (r *ShopRepository) AddRequirement(req entities.MaterialRequirement) {
	r.materials = append(r.materials, req)
}

// SetInventory sets the shop-wide aggregate for a part
func (r *ShopRepository) SetInventory(inv entities.PartInventory) {
	r.inventory[inv.PartNum] = &inv
}

// AddCheckin records a historical labor entry against a part
func (r *ShopRepository) AddCheckin(part entities.PartNumber, checkin entities.Checkin) {
	r.checkins = append(r.checkins, checkinRecord{part: part, checkin: checkin})
}

// GetJob returns a job header, or nil when absent
func (r *ShopRepository) GetJob(ctx context.Context, jobNum entities.JobNumber) (*entities.Job, error) {
	return r.jobs[jobNum], nil
}

// GetJobs returns the headers for the given jobs
func (r *ShopRepository) GetJobs(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber]*entities.Job, error) {
	result := make(map[entities.JobNumber]*entities.Job, len(jobNums))
	for _, num := range jobNums {
		if job, ok := r.jobs[num]; ok {
			result[num] = job
		}
	}
	return result, nil
}

// GetAssemblies returns sub-assembly records keyed by job
func (r *ShopRepository) GetAssemblies(ctx context.Context, jobNums []entities.JobNumber) (map[entities.JobNumber][]*entities.Assembly, error) {
	result := make(map[entities.JobNumber][]*entities.Assembly, len(jobNums))
	for _, num := range jobNums {
		if asms, ok := r.assemblies[num]; ok {
			result[num] = asms
		}
	}
	return result, nil
}

// GetOperation returns a single operation by key, or nil when absent
func (r *ShopRepository) GetOperation(ctx context.Context, key entities.OperationKey) (*entities.Operation, error) {
	index, ok := r.opIndex[key]
	if !ok {
		return nil, nil
	}
	op := r.operations[index]
	return &op, nil
}

// GetCandidateOperations returns incomplete countable operations matching
// the op code set, restricted to released and not-complete jobs
func (r *ShopRepository) GetCandidateOperations(ctx context.Context, opCodes []string) ([]*entities.Operation, error) {
	codeSet := make(map[string]bool, len(opCodes))
	for _, code := range opCodes {
		codeSet[code] = true
	}

	var candidates []*entities.Operation
	for i := range r.operations {
		op := r.operations[i]
		if op.Complete || op.EntryMethod != entities.Countable || !codeSet[op.OpCode] {
			continue
		}
		job, ok := r.jobs[op.JobNum]
		if !ok || !job.Released || job.Complete {
			continue
		}
		candidates = append(candidates, &op)
	}
	return candidates, nil
}

// GetOperationsForJobs returns every operation for the given jobs in
// job, assembly, sequence order
func (r *ShopRepository) GetOperationsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.Operation, error) {
	wanted := make(map[entities.JobNumber]bool, len(jobNums))
	for _, num := range jobNums {
		wanted[num] = true
	}

	var ops []*entities.Operation
	for i := range r.operations {
		op := r.operations[i]
		if wanted[op.JobNum] {
			ops = append(ops, &op)
		}
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].JobNum != ops[j].JobNum {
			return ops[i].JobNum < ops[j].JobNum
		}
		if ops[i].AssemblySeq != ops[j].AssemblySeq {
			return ops[i].AssemblySeq < ops[j].AssemblySeq
		}
		return ops[i].OprSeq < ops[j].OprSeq
	})
	return ops, nil
}

// GetRequirementsForJobs returns material lines with positive required
// quantity for the given jobs
func (r *ShopRepository) GetRequirementsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.MaterialRequirement, error) {
	wanted := make(map[entities.JobNumber]bool, len(jobNums))
	for _, num := range jobNums {
		wanted[num] = true
	}

	var reqs []*entities.MaterialRequirement
	for i := range r.materials {
		req := r.materials[i]
		if wanted[req.JobNum] && req.RequiredQty.IsPositive() {
			reqs = append(reqs, &req)
		}
	}
	return reqs, nil
}

// GetRequirementsForOperation returns material lines attached directly to
// an operation
func (r *ShopRepository) GetRequirementsForOperation(ctx context.Context, key entities.OperationKey) ([]*entities.MaterialRequirement, error) {
	var reqs []*entities.MaterialRequirement
	for i := range r.materials {
		req := r.materials[i]
		if req.AttachedTo() == key && req.RequiredQty.IsPositive() {
			reqs = append(reqs, &req)
		}
	}
	return reqs, nil
}

// GetAggregates returns the inventory aggregates for the given parts.
// Parts with no inventory row are absent from the result.
func (r *ShopRepository) GetAggregates(ctx context.Context, parts []entities.PartNumber) (map[entities.PartNumber]*entities.PartInventory, error) {
	result := make(map[entities.PartNumber]*entities.PartInventory, len(parts))
	for _, part := range parts {
		if inv, ok := r.inventory[part]; ok {
			result[part] = inv
		}
	}
	return result, nil
}

// GetLastCheckin returns the most recent labor entry against the part,
// optionally restricted to an op code
func (r *ShopRepository) GetLastCheckin(ctx context.Context, part entities.PartNumber, opCode string) (*entities.Checkin, error) {
	var latest *entities.Checkin
	for i := range r.checkins {
		rec := r.checkins[i]
		if rec.part != part {
			continue
		}
		if opCode != "" && rec.checkin.OpCode != opCode {
			continue
		}
		if !rec.checkin.LaborQty.IsPositive() {
			continue
		}
		if latest == nil || rec.checkin.ClockInDate.After(latest.ClockInDate) {
			latest = &r.checkins[i].checkin
		}
	}
	return latest, nil
}
