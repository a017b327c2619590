package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/application/services/readiness"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/config"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/memory"
	"github.com/JaimeeMiles/TheQueue/pkg/interfaces/cli/output"
)

const catalogYAML = `
workcells:
  weld:
    name: Welding
    ops: [WELD, TACK]
  saw:
    name: Saws
    ops: [SAW]
`

func main() {
	ctx := context.Background()

	catalog, err := config.ParseCatalog([]byte(catalogYAML))
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse catalog: %v\n", err)
		os.Exit(1)
	}

	shop := memory.NewShopRepository()
	seedShopFloor(shop)

	engine := readiness.NewEngine(catalog, readiness.Repos{
		Jobs:       shop,
		Operations: shop,
		Materials:  shop,
		Inventory:  shop,
		History:    shop,
	}, slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	for _, cell := range catalog.Workcells() {
		rows, err := engine.GetQueue(ctx, cell.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "queue for %s: %v\n", cell.ID, err)
			os.Exit(1)
		}
		if err := output.WriteQueue(os.Stdout, cell.ID, rows, output.Config{Format: "text"}); err != nil {
			fmt.Fprintf(os.Stderr, "write queue: %v\n", err)
			os.Exit(1)
		}
		fmt.Println()
	}
}

// seedShopFloor loads two frame jobs: J100 with material fully on hand
// and J200 still waiting on stock.
func seedShopFloor(shop *memory.ShopRepository) {
	start := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)

	shop.AddJob(entities.Job{
		JobNum:      "J100",
		PartNum:     "FRAME-100",
		Description: "Frame weldment",
		Released:    true,
		ProdQty:     decimal.NewFromInt(10),
		StartDate:   start,
		DueDate:     start.AddDate(0, 0, 14),
	})
	shop.AddJob(entities.Job{
		JobNum:      "J200",
		PartNum:     "FRAME-200",
		Description: "Heavy frame weldment",
		Released:    true,
		ProdQty:     decimal.NewFromInt(4),
		StartDate:   start.AddDate(0, 0, 3),
		DueDate:     start.AddDate(0, 0, 21),
	})

	shop.AddOperation(entities.Operation{
		JobNum: "J100", OprSeq: 10, OpCode: "SAW", OpDesc: "Cut stock",
		QtyCompleted: decimal.NewFromInt(10),
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J100", OprSeq: 20, OpCode: "WELD", OpDesc: "Weld frame",
		ProdStandard: decimal.NewFromInt(2), StdFormat: entities.HoursPerPiece,
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J200", OprSeq: 10, OpCode: "SAW", OpDesc: "Cut stock",
	})
	shop.AddOperation(entities.Operation{
		JobNum: "J200", OprSeq: 20, OpCode: "WELD", OpDesc: "Weld frame",
		SchedRelation: entities.RelationStartToStart,
	})

	shop.AddRequirement(entities.MaterialRequirement{
		JobNum: "J100", RelatedOperation: 20, MtlSeq: 10,
		PartNum: "TUBE-50", Description: "50mm box tube",
		RequiredQty: decimal.NewFromInt(20), UOM: "EA",
	})
	shop.AddRequirement(entities.MaterialRequirement{
		JobNum: "J200", RelatedOperation: 20, MtlSeq: 10,
		PartNum: "PLATE-12", Description: "12mm plate",
		RequiredQty: decimal.NewFromInt(8), UOM: "EA",
	})

	shop.SetInventory(entities.PartInventory{
		PartNum:   "TUBE-50",
		OnHandQty: decimal.NewFromInt(60),
		DemandQty: decimal.NewFromInt(20),
	})
	shop.SetInventory(entities.PartInventory{
		PartNum:   "PLATE-12",
		OnHandQty: decimal.NewFromInt(3),
		DemandQty: decimal.NewFromInt(8),
	})
}
