// Package kanban drives the stock replenishment receipt transaction
// against the remote kanban receipts business object: obtain a new
// receipt, validate the part, set quantities and location, pre-validate,
// then commit. The commit atomically creates the produced-to-stock job,
// reports the quantity, closes the job and receives it into inventory.
package kanban

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/erp"
)

// ErrNoReceiptCreated means the remote get-new call produced no receipt row
var ErrNoReceiptCreated = errors.New("no kanban receipt record created")

// Defaults are the receipt destinations used when a request leaves them
// blank
type Defaults struct {
	Warehouse string
	Bin       string
	UOM       string
}

// DefaultReceiptDefaults returns the production warehouse defaults
func DefaultReceiptDefaults() Defaults {
	return Defaults{Warehouse: "PROD", Bin: "PR-01", UOM: "EA"}
}

// Orchestrator sequences kanban receipt transactions
type Orchestrator struct {
	svc      erp.KanbanService
	defaults Defaults
	logger   *slog.Logger
}

// NewOrchestrator creates a kanban orchestrator. A nil logger falls back
// to slog.Default().
func NewOrchestrator(svc erp.KanbanService, defaults Defaults, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if defaults.Warehouse == "" {
		defaults.Warehouse = DefaultReceiptDefaults().Warehouse
	}
	if defaults.Bin == "" {
		defaults.Bin = DefaultReceiptDefaults().Bin
	}
	if defaults.UOM == "" {
		defaults.UOM = DefaultReceiptDefaults().UOM
	}
	return &Orchestrator{svc: svc, defaults: defaults, logger: logger}
}

// ReceiptRequest describes a stock receipt. Warehouse and Bin override
// the configured defaults when set.
type ReceiptRequest struct {
	EmployeeID  string
	PartNum     entities.PartNumber
	Quantity    decimal.Decimal
	ScrapQty    decimal.Decimal
	ScrapReason string
	Warehouse   string
	Bin         string
}

// SubmitReceipt runs the receipt transaction to completion. Any fatal
// step failure aborts with the remote error; no compensating rollback is
// attempted since a failed remote commit leaves no partial stock movement.
func (o *Orchestrator) SubmitReceipt(ctx context.Context, req ReceiptRequest) error {
	log := o.logger.With(
		"trace", uuid.NewString(),
		"employee", req.EmployeeID,
		"part", req.PartNum,
		"qty", req.Quantity,
	)

	warehouse := req.Warehouse
	if warehouse == "" {
		warehouse = o.defaults.Warehouse
	}
	bin := req.Bin
	if bin == "" {
		bin = o.defaults.Bin
	}

	ds, err := o.svc.GetNewReceipt(ctx)
	if err != nil {
		return err
	}
	receipt := ds.Receipt()
	if receipt == nil {
		return ErrNoReceiptCreated
	}
	receipt.PartNum = string(req.PartNum)

	ds, err = o.svc.ChangePart(ctx, ds, string(req.PartNum), o.defaults.UOM)
	if err != nil {
		return err
	}
	receipt = ds.Receipt()
	if receipt == nil {
		return ErrNoReceiptCreated
	}

	receipt.Quantity = req.Quantity
	receipt.WarehouseCode = warehouse
	receipt.BinNum = bin
	receipt.EmployeeID = req.EmployeeID
	if req.ScrapQty.IsPositive() {
		receipt.ScrapQty = req.ScrapQty
		if req.ScrapReason != "" {
			receipt.ScrapReasonCode = req.ScrapReason
		}
	}

	// Warehouse and bin revalidation can fail on cells that keep the
	// defaults; the pre-validate step below is the real gate.
	if changed, err := o.svc.ChangeWarehouse(ctx, ds, warehouse); err == nil {
		ds = changed
	} else {
		log.Debug("change warehouse failed", "error", err)
	}
	if changed, err := o.svc.ChangeBin(ctx, ds, bin); err == nil {
		ds = changed
	} else {
		log.Debug("change bin failed", "error", err)
	}

	ds, err = o.svc.PreProcess(ctx, ds)
	if err != nil {
		return err
	}
	if receipt = ds.Receipt(); receipt != nil {
		receipt.ValidateOK = true
	}

	if err := o.svc.Process(ctx, ds); err != nil {
		return err
	}

	log.Info("kanban receipt committed", "warehouse", warehouse, "bin", bin)
	return nil
}
