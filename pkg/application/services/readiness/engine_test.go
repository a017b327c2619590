package readiness

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/repositories"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/config"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/memory"
)

const catalogYAML = `
workcells:
  weld:
    name: Welding
    ops: [WELD]
  saw:
    name: Saws
    ops: [SAW]
`

func testCatalog(t *testing.T) *config.WorkcellCatalog {
	t.Helper()
	catalog, err := config.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	return catalog
}

func testEngine(catalog *config.WorkcellCatalog, shop *memory.ShopRepository) *Engine {
	return NewEngine(catalog, Repos{
		Jobs:       shop,
		Operations: shop,
		Materials:  shop,
		Inventory:  shop,
		History:    shop,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// seedShop builds a released job J1 of 10 units with a saw, a backflush
// debur and a weld step. The debur materials fold into the weld step.
func seedShop() *memory.ShopRepository {
	shop := memory.NewShopRepository()
	shop.AddJob(entities.Job{
		JobNum:      "J1",
		PartNum:     "FRAME-100",
		Description: "Frame weldment",
		Released:    true,
		ProdQty:     decimal.NewFromInt(10),
		StartDate:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		ReqDueDate:  time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 10, OpCode: "SAW", OpDesc: "Saw to length",
		EntryMethod: entities.Countable, QtyCompleted: decimal.NewFromInt(5),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 20, OpCode: "DEBUR", OpDesc: "Debur edges",
		EntryMethod: entities.Backflush,
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD", OpDesc: "Weld frame",
		EntryMethod: entities.Countable,
	})
	shop.AddRequirement(entities.MaterialRequirement{
		JobNum: "J1", AssemblySeq: 0, RelatedOperation: 20, MtlSeq: 10,
		PartNum: "MTL-A", Description: "Angle stock", RequiredQty: decimal.NewFromInt(10), UOM: "EA",
	})
	shop.AddRequirement(entities.MaterialRequirement{
		JobNum: "J1", AssemblySeq: 0, RelatedOperation: 30, MtlSeq: 10,
		PartNum: "MTL-B", Description: "Weld wire", RequiredQty: decimal.NewFromInt(5), UOM: "LB",
	})
	shop.SetInventory(entities.PartInventory{
		PartNum: "MTL-A", OnHandQty: decimal.NewFromInt(7), DemandQty: decimal.NewFromInt(10),
	})
	shop.SetInventory(entities.PartInventory{
		PartNum: "MTL-B", OnHandQty: decimal.NewFromInt(5), DemandQty: decimal.NewFromInt(8),
	})
	return shop
}

func TestGetQueueUnknownWorkcell(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	rows, err := engine.GetQueue(context.Background(), "paint-booth")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGetQueueRowContents(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, entities.JobNumber("J1"), row.JobNum)
	assert.Equal(t, entities.PartNumber("FRAME-100"), row.PartNum)
	assert.Equal(t, 30, row.OprSeq)
	assert.False(t, row.IsFirstOp)
	assert.True(t, row.QtyFromPrior.Equal(decimal.NewFromInt(5)))
	assert.True(t, row.QtyRemaining.Equal(decimal.NewFromInt(10)))
	// MTL-A covers 7 of 10 required, which caps the whole set at partial
	// and bounds production at 7 units.
	assert.Equal(t, entities.TierPartial, row.MtlStatus)
	assert.Equal(t, 2, row.MtlCount)
	require.NotNil(t, row.MaxProducible)
	assert.True(t, row.MaxProducible.Equal(decimal.NewFromInt(7)))
}

func TestGetQueuePredecessorGating(t *testing.T) {
	shop := seedShop()
	// Reset the saw step so nothing has flowed downstream yet.
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 10, OpCode: "SAW",
		EntryMethod: entities.Countable,
	})
	engine := testEngine(testCatalog(t), shop)

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	assert.Empty(t, rows, "weld must wait for saw quantity")

	rows, err = engine.GetQueue(context.Background(), "saw")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsFirstOp)
}

func TestGetQueueScheduleRelationOverride(t *testing.T) {
	shop := seedShop()
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 10, OpCode: "SAW",
		EntryMethod: entities.Countable,
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 0, OprSeq: 30, OpCode: "WELD",
		EntryMethod:   entities.Countable,
		SchedRelation: entities.RelationStartToStart,
	})
	engine := testEngine(testCatalog(t), shop)

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	require.Len(t, rows, 1, "start-to-start runs in parallel with its predecessor")
	assert.True(t, rows[0].QtyFromPrior.IsZero())
}

func TestGetQueueSubAssemblyGating(t *testing.T) {
	shop := seedShop()
	shop.AddAssembly(entities.Assembly{
		JobNum: "J1", AssemblySeq: 1, PartNum: "BRACKET-7",
		Description: "Bracket", RequiredQty: decimal.NewFromInt(20),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 1, OprSeq: 10, OpCode: "SAW",
		EntryMethod: entities.Countable,
	})
	engine := testEngine(testCatalog(t), shop)

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	assert.Empty(t, rows, "top level waits for sub-assemblies")

	// The sub-assembly operation itself shows, carrying its own part.
	rows, err = engine.GetQueue(context.Background(), "saw")
	require.NoError(t, err)
	var subRow bool
	for _, row := range rows {
		if row.AssemblySeq == 1 {
			subRow = true
			assert.Equal(t, entities.PartNumber("BRACKET-7"), row.PartNum)
			assert.True(t, row.RequiredQty.Equal(decimal.NewFromInt(20)))
		}
	}
	assert.True(t, subRow)

	// Finishing the sub-assembly releases the top level.
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 1, OprSeq: 10, OpCode: "SAW",
		EntryMethod: entities.Countable, QtyCompleted: decimal.NewFromInt(20),
	})
	rows, err = engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGetQueueOrdering(t *testing.T) {
	shop := seedShop()
	shop.AddJob(entities.Job{
		JobNum:   "J0",
		PartNum:  "FRAME-200",
		Released: true,
		ProdQty:  decimal.NewFromInt(2),
		// Earlier start date sorts first even though J0 > J1 hits later
		// tie-breakers.
		StartDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J0", AssemblySeq: 0, OprSeq: 10, OpCode: "WELD",
		EntryMethod: entities.Countable,
	})
	engine := testEngine(testCatalog(t), shop)

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, entities.JobNumber("J0"), rows[0].JobNum)
	assert.Equal(t, entities.JobNumber("J1"), rows[1].JobNum)
}

func TestGetQueueSkipsUnreleasedJobs(t *testing.T) {
	shop := seedShop()
	shop.AddJob(entities.Job{
		JobNum:  "J9",
		PartNum: "FRAME-900",
		ProdQty: decimal.NewFromInt(1),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J9", AssemblySeq: 0, OprSeq: 10, OpCode: "WELD",
		EntryMethod: entities.Countable,
	})
	engine := testEngine(testCatalog(t), shop)

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err)
	for _, row := range rows {
		assert.NotEqual(t, entities.JobNumber("J9"), row.JobNum)
	}
}

func TestGetMaterialsForOperationMatchesQueueClassification(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())
	ctx := context.Background()

	materials, err := engine.GetMaterialsForOperation(ctx, key("J1", 0, 30))
	require.NoError(t, err)
	require.Len(t, materials, 2)

	assert.Equal(t, entities.PartNumber("MTL-A"), materials[0].PartNum)
	assert.Equal(t, entities.TierPartial, materials[0].Status)
	assert.True(t, materials[0].QtyShort.Equal(decimal.NewFromInt(3)))
	assert.Equal(t, 20, materials[0].SourceOprSeq)
	assert.Equal(t, "DEBUR", materials[0].SourceOpCode)

	assert.Equal(t, entities.PartNumber("MTL-B"), materials[1].PartNum)
	assert.Equal(t, entities.TierCheck, materials[1].Status)
	assert.True(t, materials[1].QtyShort.IsZero())

	// The set-level tier the queue displayed agrees with the detail view.
	rows, err := engine.GetQueue(ctx, "weld")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	standings := []MaterialStanding{
		standing(7, 10, 10),
		standing(5, 5, 8),
	}
	assert.Equal(t, rows[0].MtlStatus, TierForSet(standings))
}

func TestGetMaterialsForOperationWithoutOwnership(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	// The saw step owns only itself and has no attached materials.
	materials, err := engine.GetMaterialsForOperation(context.Background(), key("J1", 0, 10))
	require.NoError(t, err)
	assert.Empty(t, materials)
}

func TestGetMaterialsForWorkcell(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	options, err := engine.GetMaterialsForWorkcell(context.Background(), "weld")
	require.NoError(t, err)
	require.Len(t, options, 2)
	// Sorted by description.
	assert.Equal(t, entities.PartNumber("MTL-A"), options[0].PartNum)
	assert.Equal(t, entities.PartNumber("MTL-B"), options[1].PartNum)
}

func TestGetOperationsUsingMaterial(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	keys, err := engine.GetOperationsUsingMaterial(context.Background(), "weld", "MTL-A")
	require.NoError(t, err)
	assert.Equal(t, []entities.OperationKey{key("J1", 0, 30)}, keys)

	keys, err = engine.GetOperationsUsingMaterial(context.Background(), "weld", "MTL-Z")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestGetJobDetail(t *testing.T) {
	shop := seedShop()
	shop.AddAssembly(entities.Assembly{
		JobNum: "J1", AssemblySeq: 1, PartNum: "BRACKET-7", RequiredQty: decimal.NewFromInt(20),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J1", AssemblySeq: 1, OprSeq: 10, OpCode: "SAW",
		EntryMethod: entities.Countable,
	})
	engine := testEngine(testCatalog(t), shop)

	detail, err := engine.GetJobDetail(context.Background(), key("J1", 0, 30))
	require.NoError(t, err)
	require.NotNil(t, detail)
	assert.Equal(t, entities.JobNumber("J1"), detail.Job.JobNum)

	// Countable operations only, sub-assemblies listed before the top level.
	require.Len(t, detail.Operations, 3)
	assert.Equal(t, 1, detail.Operations[0].AssemblySeq)
	assert.Equal(t, 0, detail.Operations[1].AssemblySeq)
	assert.Equal(t, 10, detail.Operations[1].OprSeq)
	assert.Equal(t, 30, detail.Operations[2].OprSeq)

	assert.Len(t, detail.Materials, 2)
}

func TestGetJobDetailMissingJob(t *testing.T) {
	engine := testEngine(testCatalog(t), seedShop())

	detail, err := engine.GetJobDetail(context.Background(), key("NOPE", 0, 10))
	require.NoError(t, err)
	assert.Nil(t, detail)
}

// failingMaterials simulates an unavailable material source
type failingMaterials struct {
	repositories.MaterialRepository
}

func (failingMaterials) GetRequirementsForJobs(ctx context.Context, jobNums []entities.JobNumber) ([]*entities.MaterialRequirement, error) {
	return nil, errors.New("replica offline")
}

func TestGetQueueDegradesWhenMaterialsUnavailable(t *testing.T) {
	shop := seedShop()
	engine := NewEngine(testCatalog(t), Repos{
		Jobs:       shop,
		Operations: shop,
		Materials:  failingMaterials{},
		Inventory:  shop,
		History:    shop,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rows, err := engine.GetQueue(context.Background(), "weld")
	require.NoError(t, err, "material outage must not take down the queue")
	require.Len(t, rows, 1)
	assert.Equal(t, entities.TierNone, rows[0].MtlStatus)
	assert.Equal(t, 0, rows[0].MtlCount)
	assert.Nil(t, rows[0].MaxProducible)
}

func TestGetLastCheckinDelegates(t *testing.T) {
	shop := seedShop()
	older := entities.Checkin{
		EmployeeNum: "100", EmployeeName: "Pat",
		LaborQty:    decimal.NewFromInt(3),
		ClockInDate: time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC),
		JobNum:      "J1", OpCode: "WELD",
	}
	newer := older
	newer.EmployeeNum = "200"
	newer.EmployeeName = "Sam"
	newer.ClockInDate = time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	shop.AddCheckin("FRAME-100", older)
	shop.AddCheckin("FRAME-100", newer)
	engine := testEngine(testCatalog(t), shop)

	checkin, err := engine.GetLastCheckin(context.Background(), "FRAME-100", "WELD")
	require.NoError(t, err)
	require.NotNil(t, checkin)
	assert.Equal(t, "200", checkin.EmployeeNum)

	checkin, err = engine.GetLastCheckin(context.Background(), "FRAME-100", "SAW")
	require.NoError(t, err)
	assert.Nil(t, checkin)
}
