// Package erpdb implements the read-side repositories against a
// relational replica of the ERP production tables using GORM. All access
// is read-only; writes go through the remote business objects instead.
package erpdb

import (
	"time"

	"github.com/shopspring/decimal"
)

// JobHead is a job header row
type JobHead struct {
	JobNum      string          `gorm:"column:JobNum;primaryKey"`
	PartNum     string          `gorm:"column:PartNum"`
	JobReleased bool            `gorm:"column:JobReleased"`
	JobComplete bool            `gorm:"column:JobComplete"`
	ProdQty     decimal.Decimal `gorm:"column:ProdQty;type:decimal(20,8)"`
	SchedCode   string          `gorm:"column:SchedCode"`
	StartDate   time.Time       `gorm:"column:StartDate"`
	ReqDueDate  time.Time       `gorm:"column:ReqDueDate"`
	DueDate     time.Time       `gorm:"column:DueDate"`
}

func (JobHead) TableName() string { return "JobHead" }

// JobAsmbl is a job assembly row. AssemblySeq 0 is the top level.
type JobAsmbl struct {
	JobNum      string          `gorm:"column:JobNum;primaryKey"`
	AssemblySeq int             `gorm:"column:AssemblySeq;primaryKey"`
	PartNum     string          `gorm:"column:PartNum"`
	Description string          `gorm:"column:Description"`
	RequiredQty decimal.Decimal `gorm:"column:RequiredQty;type:decimal(20,8)"`
}

func (JobAsmbl) TableName() string { return "JobAsmbl" }

// JobOper is a job routing operation row
type JobOper struct {
	JobNum           string          `gorm:"column:JobNum;primaryKey"`
	AssemblySeq      int             `gorm:"column:AssemblySeq;primaryKey"`
	OprSeq           int             `gorm:"column:OprSeq;primaryKey"`
	OpCode           string          `gorm:"column:OpCode"`
	OpDesc           string          `gorm:"column:OpDesc"`
	OpComplete       bool            `gorm:"column:OpComplete"`
	QtyCompleted     decimal.Decimal `gorm:"column:QtyCompleted;type:decimal(20,8)"`
	ProdStandard     decimal.Decimal `gorm:"column:ProdStandard;type:decimal(20,8)"`
	StdFormat        string          `gorm:"column:StdFormat"`
	LaborEntryMethod string          `gorm:"column:LaborEntryMethod"`
	SchedRelation    string          `gorm:"column:SchedRelation"`
	ResourceGrpID    string          `gorm:"column:ResourceGrpID"`
	CommentText      string          `gorm:"column:CommentText"`
}

func (JobOper) TableName() string { return "JobOper" }

// JobMtl is a job material requirement row
type JobMtl struct {
	JobNum           string          `gorm:"column:JobNum;primaryKey"`
	AssemblySeq      int             `gorm:"column:AssemblySeq;primaryKey"`
	MtlSeq           int             `gorm:"column:MtlSeq;primaryKey"`
	RelatedOperation int             `gorm:"column:RelatedOperation"`
	PartNum          string          `gorm:"column:PartNum"`
	RequiredQty      decimal.Decimal `gorm:"column:RequiredQty;type:decimal(20,8)"`
	IUM              string          `gorm:"column:IUM"`
}

func (JobMtl) TableName() string { return "JobMtl" }

// Part is a part master row
type Part struct {
	PartNum         string `gorm:"column:PartNum;primaryKey"`
	PartDescription string `gorm:"column:PartDescription"`
	IUM             string `gorm:"column:IUM"`
}

func (Part) TableName() string { return "Part" }

// PartQty is a per-warehouse inventory quantity row. Aggregates sum
// across warehouses.
type PartQty struct {
	PartNum       string          `gorm:"column:PartNum;primaryKey"`
	WarehouseCode string          `gorm:"column:WarehouseCode;primaryKey"`
	OnHandQty     decimal.Decimal `gorm:"column:OnHandQty;type:decimal(20,8)"`
	DemandQty     decimal.Decimal `gorm:"column:DemandQty;type:decimal(20,8)"`
}

func (PartQty) TableName() string { return "PartQty" }

// LaborDtl is a historical labor detail row
type LaborDtl struct {
	LaborHedSeq int             `gorm:"column:LaborHedSeq;primaryKey"`
	LaborDtlSeq int             `gorm:"column:LaborDtlSeq;primaryKey"`
	EmployeeNum string          `gorm:"column:EmployeeNum"`
	JobNum      string          `gorm:"column:JobNum"`
	AssemblySeq int             `gorm:"column:AssemblySeq"`
	OprSeq      int             `gorm:"column:OprSeq"`
	OpCode      string          `gorm:"column:OpCode"`
	LaborQty    decimal.Decimal `gorm:"column:LaborQty;type:decimal(20,8)"`
	ClockInDate time.Time       `gorm:"column:ClockInDate"`
}

func (LaborDtl) TableName() string { return "LaborDtl" }

// EmpBasic is an employee directory row. EmpStatus "A" marks an active
// employee.
type EmpBasic struct {
	EmpID     string `gorm:"column:EmpID;primaryKey"`
	Name      string `gorm:"column:Name"`
	EmpStatus string `gorm:"column:EmpStatus"`
}

func (EmpBasic) TableName() string { return "EmpBasic" }

// OpMasDtl is an operation master scheduling detail row carrying the
// operation's primary resource group
type OpMasDtl struct {
	OpCode        string `gorm:"column:OpCode;primaryKey"`
	DtlNum        int    `gorm:"column:DtlNum;primaryKey"`
	ResourceGrpID string `gorm:"column:ResourceGrpID"`
}

func (OpMasDtl) TableName() string { return "OpMasDtl" }

// ResourceGroup is a resource group master row
type ResourceGroup struct {
	ResourceGrpID string `gorm:"column:ResourceGrpID;primaryKey"`
	JCDept        string `gorm:"column:JCDept"`
}

func (ResourceGroup) TableName() string { return "ResourceGroup" }
