package readiness

import (
	"sort"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

// MapOwnership folds backflush operations into the countable operation
// that materially depends on them. Walking each (job, assembly) in
// sequence order, backflush operations accumulate until the next countable
// operation, which owns the accumulated set plus itself; the pending set
// then resets. Backflush operations with the excluded finishing op code
// are never accumulated, and backflush operations after the last countable
// operation have no owner.
func MapOwnership(ops []*entities.Operation, excludeOpCode string) map[entities.OperationKey][]entities.OperationKey {
	groups := make(map[asmKey][]*entities.Operation)
	var order []asmKey
	for _, op := range ops {
		key := asmKey{jobNum: op.JobNum, assemblySeq: op.AssemblySeq}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], op)
	}

	ownership := make(map[entities.OperationKey][]entities.OperationKey)
	for _, key := range order {
		group := groups[key]
		sort.Slice(group, func(i, j int) bool { return group[i].OprSeq < group[j].OprSeq })

		var pending []entities.OperationKey
		for _, op := range group {
			if op.EntryMethod == entities.Backflush {
				if op.OpCode != excludeOpCode {
					pending = append(pending, op.Key())
				}
				continue
			}
			owned := make([]entities.OperationKey, 0, len(pending)+1)
			owned = append(owned, pending...)
			owned = append(owned, op.Key())
			ownership[op.Key()] = owned
			pending = nil
		}
	}

	return ownership
}
