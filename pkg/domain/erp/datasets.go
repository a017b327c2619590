// Package erp defines the contract with the remote ERP business-object
// services: typed per-step datasets, the service interfaces the
// orchestrators drive, and the step error they surface. The remote
// protocol exchanges a mutable dataset between calls; fields set locally
// are not assumed to persist without re-verification.
package erp

import "github.com/shopspring/decimal"

// Row modification markers understood by the remote Update call
const (
	RowModAdded   = "A"
	RowModUpdated = "U"
)

// TimeStatus is the approval lifecycle tag on a labor detail
type TimeStatus string

const (
	TimeStatusEntered   TimeStatus = "E"
	TimeStatusSubmitted TimeStatus = "S"
	TimeStatusApproved  TimeStatus = "A"
)

// Editable reports whether the detail can still be modified directly.
// A blank status means the detail was never submitted.
func (s TimeStatus) Editable() bool {
	return s == "" || s == TimeStatusEntered
}

// LaborHed is a clock-in session header row
type LaborHed struct {
	LaborHedSeq int    `json:"LaborHedSeq"`
	EmployeeNum string `json:"EmployeeNum"`
	ActiveTrans bool   `json:"ActiveTrans"`
	RowMod      string `json:"RowMod,omitempty"`
}

// LaborDtl is a single job/operation time entry under a session header
type LaborDtl struct {
	LaborHedSeq     int             `json:"LaborHedSeq"`
	LaborDtlSeq     int             `json:"LaborDtlSeq"`
	JobNum          string          `json:"JobNum"`
	AssemblySeq     int             `json:"AssemblySeq"`
	OprSeq          int             `json:"OprSeq"`
	OpCode          string          `json:"OpCode"`
	LaborQty        decimal.Decimal `json:"LaborQty"`
	ScrapQty        decimal.Decimal `json:"ScrapQty"`
	ScrapReasonCode string          `json:"ScrapReasonCode,omitempty"`
	LaborHrs        decimal.Decimal `json:"LaborHrs"`
	OpComplete      bool            `json:"OpComplete"`
	Complete        bool            `json:"Complete"`
	ActiveTrans     bool            `json:"ActiveTrans"`
	TimeStatus      TimeStatus      `json:"TimeStatus"`
	ResourceGrpID   string          `json:"ResourceGrpID"`
	ResourceID      string          `json:"ResourceID"`
	JCDept          string          `json:"JCDept"`
	Rework          bool            `json:"Rework"`
	RowMod          string          `json:"RowMod,omitempty"`
}

// LaborDataset is the dataset exchanged with the labor service
type LaborDataset struct {
	LaborHed []LaborHed `json:"LaborHed"`
	LaborDtl []LaborDtl `json:"LaborDtl"`
}

// FindDetail returns a pointer to the detail row with the given sequence,
// or nil when the dataset does not contain it.
func (ds *LaborDataset) FindDetail(dtlSeq int) *LaborDtl {
	for i := range ds.LaborDtl {
		if ds.LaborDtl[i].LaborDtlSeq == dtlSeq {
			return &ds.LaborDtl[i]
		}
	}
	return nil
}

// Header returns the first header row, or nil when the dataset has none
func (ds *LaborDataset) Header() *LaborHed {
	if len(ds.LaborHed) == 0 {
		return nil
	}
	return &ds.LaborHed[0]
}

// KanbanReceipt is a stock replenishment receipt row
type KanbanReceipt struct {
	PartNum         string          `json:"PartNum"`
	UOM             string          `json:"UM"`
	Quantity        decimal.Decimal `json:"Quantity"`
	ScrapQty        decimal.Decimal `json:"ScrapQty"`
	ScrapReasonCode string          `json:"ScrapReasonCode,omitempty"`
	WarehouseCode   string          `json:"WarehouseCode"`
	BinNum          string          `json:"BinNum"`
	EmployeeID      string          `json:"EmployeeID"`
	ValidateOK      bool            `json:"ValidateOK"`
	RowMod          string          `json:"RowMod,omitempty"`
}

// KanbanDataset is the dataset exchanged with the kanban receipts service
type KanbanDataset struct {
	KanbanReceipts []KanbanReceipt `json:"KanbanReceipts"`
}

// Receipt returns the first receipt row, or nil when the dataset has none
func (ds *KanbanDataset) Receipt() *KanbanReceipt {
	if len(ds.KanbanReceipts) == 0 {
		return nil
	}
	return &ds.KanbanReceipts[0]
}

// JobHead is the job header row of the job entry dataset
type JobHead struct {
	JobNum  string          `json:"JobNum"`
	ProdQty decimal.Decimal `json:"ProdQty"`
	RowMod  string          `json:"RowMod,omitempty"`
}

// JobProd is a demand link row; the make-to-stock quantity cascades to the
// job header production quantity when updated.
type JobProd struct {
	JobNum         string          `json:"JobNum"`
	MakeToStockQty decimal.Decimal `json:"MakeToStockQty"`
	RowMod         string          `json:"RowMod,omitempty"`
}

// JobDataset is the dataset exchanged with the job entry service
type JobDataset struct {
	JobHead []JobHead `json:"JobHead"`
	JobProd []JobProd `json:"JobProd"`
}
