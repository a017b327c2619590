package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
)

func op(job string, asm, opr int, code string, method entities.EntryMethod) *entities.Operation {
	return &entities.Operation{
		JobNum:      entities.JobNumber(job),
		AssemblySeq: asm,
		OprSeq:      opr,
		OpCode:      code,
		EntryMethod: method,
	}
}

func key(job string, asm, opr int) entities.OperationKey {
	return entities.OperationKey{JobNum: entities.JobNumber(job), AssemblySeq: asm, OprSeq: opr}
}

func TestMapOwnershipFoldsBackflushIntoNextCountable(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 0, 10, "SAW", entities.Countable),
		op("J1", 0, 20, "DEBUR", entities.Backflush),
		op("J1", 0, 25, "CLEAN", entities.Backflush),
		op("J1", 0, 30, "WELD", entities.Countable),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Equal(t, []entities.OperationKey{key("J1", 0, 10)}, ownership[key("J1", 0, 10)])
	assert.Equal(t,
		[]entities.OperationKey{key("J1", 0, 20), key("J1", 0, 25), key("J1", 0, 30)},
		ownership[key("J1", 0, 30)])
}

func TestMapOwnershipPendingResetsAtEachCountable(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 0, 10, "DEBUR", entities.Backflush),
		op("J1", 0, 20, "SAW", entities.Countable),
		op("J1", 0, 30, "CLEAN", entities.Backflush),
		op("J1", 0, 40, "WELD", entities.Countable),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Equal(t,
		[]entities.OperationKey{key("J1", 0, 10), key("J1", 0, 20)},
		ownership[key("J1", 0, 20)])
	assert.Equal(t,
		[]entities.OperationKey{key("J1", 0, 30), key("J1", 0, 40)},
		ownership[key("J1", 0, 40)])
}

func TestMapOwnershipExcludesFinishingOpCode(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 0, 10, "PAINT", entities.Backflush),
		op("J1", 0, 20, "DEBUR", entities.Backflush),
		op("J1", 0, 30, "ASSY", entities.Countable),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Equal(t,
		[]entities.OperationKey{key("J1", 0, 20), key("J1", 0, 30)},
		ownership[key("J1", 0, 30)])
}

func TestMapOwnershipDropsTrailingBackflush(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 0, 10, "SAW", entities.Countable),
		op("J1", 0, 20, "DEBUR", entities.Backflush),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Len(t, ownership, 1)
	assert.Equal(t, []entities.OperationKey{key("J1", 0, 10)}, ownership[key("J1", 0, 10)])
}

func TestMapOwnershipKeepsAssembliesSeparate(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 1, 10, "DEBUR", entities.Backflush),
		op("J1", 0, 10, "ASSY", entities.Countable),
		op("J1", 1, 20, "SAW", entities.Countable),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Equal(t, []entities.OperationKey{key("J1", 0, 10)}, ownership[key("J1", 0, 10)])
	assert.Equal(t,
		[]entities.OperationKey{key("J1", 1, 10), key("J1", 1, 20)},
		ownership[key("J1", 1, 20)])
}

func TestMapOwnershipSortsOutOfOrderInput(t *testing.T) {
	ops := []*entities.Operation{
		op("J1", 0, 30, "WELD", entities.Countable),
		op("J1", 0, 10, "DEBUR", entities.Backflush),
	}

	ownership := MapOwnership(ops, "PAINT")

	assert.Equal(t,
		[]entities.OperationKey{key("J1", 0, 10), key("J1", 0, 30)},
		ownership[key("J1", 0, 30)])
}
