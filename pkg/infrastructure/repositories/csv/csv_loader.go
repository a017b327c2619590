// Package csv loads ERP table extracts into the replica database. Used to
// stand up a local queue database from flat files when no replication feed
// is available.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/erpdb"
)

// Loader parses ERP extract files
type Loader struct{}

// NewLoader creates a new extract loader
func NewLoader() *Loader {
	return &Loader{}
}

// Extract holds the parsed rows of one extract directory
type Extract struct {
	Jobs       []erpdb.JobHead
	Assemblies []erpdb.JobAsmbl
	Operations []erpdb.JobOper
	Materials  []erpdb.JobMtl
	Parts      []erpdb.Part
	Inventory  []erpdb.PartQty
	Labor      []erpdb.LaborDtl
	Employees  []erpdb.EmpBasic
}

// Import writes the extract into the database
func (e *Extract) Import(ctx context.Context, db *gorm.DB) error {
	tables := []struct {
		name string
		rows any
		n    int
	}{
		{"jobs", e.Jobs, len(e.Jobs)},
		{"assemblies", e.Assemblies, len(e.Assemblies)},
		{"operations", e.Operations, len(e.Operations)},
		{"materials", e.Materials, len(e.Materials)},
		{"parts", e.Parts, len(e.Parts)},
		{"inventory", e.Inventory, len(e.Inventory)},
		{"labor", e.Labor, len(e.Labor)},
		{"employees", e.Employees, len(e.Employees)},
	}
	for _, table := range tables {
		if table.n == 0 {
			continue
		}
		if err := db.WithContext(ctx).Create(table.rows).Error; err != nil {
			return fmt.Errorf("import %s: %w", table.name, err)
		}
	}
	return nil
}

// LoadDir parses every recognized extract file in a directory. Missing
// files are skipped; an extract need not cover every table.
func (l *Loader) LoadDir(dir string) (*Extract, error) {
	extract := &Extract{}
	loaders := []struct {
		file string
		load func(string) error
	}{
		{"jobs.csv", func(p string) (err error) { extract.Jobs, err = l.LoadJobs(p); return }},
		{"assemblies.csv", func(p string) (err error) { extract.Assemblies, err = l.LoadAssemblies(p); return }},
		{"operations.csv", func(p string) (err error) { extract.Operations, err = l.LoadOperations(p); return }},
		{"materials.csv", func(p string) (err error) { extract.Materials, err = l.LoadMaterials(p); return }},
		{"parts.csv", func(p string) (err error) { extract.Parts, err = l.LoadParts(p); return }},
		{"inventory.csv", func(p string) (err error) { extract.Inventory, err = l.LoadInventory(p); return }},
		{"labor.csv", func(p string) (err error) { extract.Labor, err = l.LoadLabor(p); return }},
		{"employees.csv", func(p string) (err error) { extract.Employees, err = l.LoadEmployees(p); return }},
	}
	for _, entry := range loaders {
		path := filepath.Join(dir, entry.file)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := entry.load(path); err != nil {
			return nil, err
		}
	}
	return extract, nil
}

// LoadJobs loads job headers from a CSV file
func (l *Loader) LoadJobs(filename string) ([]erpdb.JobHead, error) {
	records, err := readRecords(filename, "jobs",
		[]string{"job_num", "part_num", "released", "complete", "prod_qty", "sched_code", "start_date", "req_due_date", "due_date"})
	if err != nil {
		return nil, err
	}

	var jobs []erpdb.JobHead
	for i, record := range records {
		released, err := parseBool(record[2], "released")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}
		complete, err := parseBool(record[3], "complete")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}
		prodQty, err := parseDecimal(record[4], "prod_qty")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}
		startDate, err := parseDate(record[6], "start_date")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}
		reqDue, err := parseDate(record[7], "req_due_date")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}
		due, err := parseDate(record[8], "due_date")
		if err != nil {
			return nil, rowErr("jobs", i, err)
		}

		jobs = append(jobs, erpdb.JobHead{
			JobNum:      record[0],
			PartNum:     record[1],
			JobReleased: released,
			JobComplete: complete,
			ProdQty:     prodQty,
			SchedCode:   record[5],
			StartDate:   startDate,
			ReqDueDate:  reqDue,
			DueDate:     due,
		})
	}
	return jobs, nil
}

// LoadAssemblies loads job assemblies from a CSV file
func (l *Loader) LoadAssemblies(filename string) ([]erpdb.JobAsmbl, error) {
	records, err := readRecords(filename, "assemblies",
		[]string{"job_num", "assembly_seq", "part_num", "description", "required_qty"})
	if err != nil {
		return nil, err
	}

	var assemblies []erpdb.JobAsmbl
	for i, record := range records {
		seq, err := parseInt(record[1], "assembly_seq")
		if err != nil {
			return nil, rowErr("assemblies", i, err)
		}
		required, err := parseDecimal(record[4], "required_qty")
		if err != nil {
			return nil, rowErr("assemblies", i, err)
		}
		assemblies = append(assemblies, erpdb.JobAsmbl{
			JobNum:      record[0],
			AssemblySeq: seq,
			PartNum:     record[2],
			Description: record[3],
			RequiredQty: required,
		})
	}
	return assemblies, nil
}

// LoadOperations loads routing operations from a CSV file
func (l *Loader) LoadOperations(filename string) ([]erpdb.JobOper, error) {
	records, err := readRecords(filename, "operations",
		[]string{"job_num", "assembly_seq", "opr_seq", "op_code", "op_desc", "complete", "qty_completed", "prod_standard", "std_format", "entry_method", "sched_relation", "resource_grp", "comments"})
	if err != nil {
		return nil, err
	}

	var ops []erpdb.JobOper
	for i, record := range records {
		asmSeq, err := parseInt(record[1], "assembly_seq")
		if err != nil {
			return nil, rowErr("operations", i, err)
		}
		oprSeq, err := parseInt(record[2], "opr_seq")
		if err != nil {
			return nil, rowErr("operations", i, err)
		}
		complete, err := parseBool(record[5], "complete")
		if err != nil {
			return nil, rowErr("operations", i, err)
		}
		qtyCompleted, err := parseDecimal(record[6], "qty_completed")
		if err != nil {
			return nil, rowErr("operations", i, err)
		}
		standard, err := parseDecimal(record[7], "prod_standard")
		if err != nil {
			return nil, rowErr("operations", i, err)
		}
		ops = append(ops, erpdb.JobOper{
			JobNum:           record[0],
			AssemblySeq:      asmSeq,
			OprSeq:           oprSeq,
			OpCode:           record[3],
			OpDesc:           record[4],
			OpComplete:       complete,
			QtyCompleted:     qtyCompleted,
			ProdStandard:     standard,
			StdFormat:        record[8],
			LaborEntryMethod: record[9],
			SchedRelation:    record[10],
			ResourceGrpID:    record[11],
			CommentText:      record[12],
		})
	}
	return ops, nil
}

// LoadMaterials loads material requirements from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]erpdb.JobMtl, error) {
	records, err := readRecords(filename, "materials",
		[]string{"job_num", "assembly_seq", "mtl_seq", "related_operation", "part_num", "required_qty", "uom"})
	if err != nil {
		return nil, err
	}

	var materials []erpdb.JobMtl
	for i, record := range records {
		asmSeq, err := parseInt(record[1], "assembly_seq")
		if err != nil {
			return nil, rowErr("materials", i, err)
		}
		mtlSeq, err := parseInt(record[2], "mtl_seq")
		if err != nil {
			return nil, rowErr("materials", i, err)
		}
		related, err := parseInt(record[3], "related_operation")
		if err != nil {
			return nil, rowErr("materials", i, err)
		}
		required, err := parseDecimal(record[5], "required_qty")
		if err != nil {
			return nil, rowErr("materials", i, err)
		}
		materials = append(materials, erpdb.JobMtl{
			JobNum:           record[0],
			AssemblySeq:      asmSeq,
			MtlSeq:           mtlSeq,
			RelatedOperation: related,
			PartNum:          record[4],
			RequiredQty:      required,
			IUM:              record[6],
		})
	}
	return materials, nil
}

// LoadParts loads the part master from a CSV file
func (l *Loader) LoadParts(filename string) ([]erpdb.Part, error) {
	records, err := readRecords(filename, "parts",
		[]string{"part_num", "description", "uom"})
	if err != nil {
		return nil, err
	}

	var parts []erpdb.Part
	for _, record := range records {
		parts = append(parts, erpdb.Part{
			PartNum:         record[0],
			PartDescription: record[1],
			IUM:             record[2],
		})
	}
	return parts, nil
}

// LoadInventory loads per-warehouse quantities from a CSV file
func (l *Loader) LoadInventory(filename string) ([]erpdb.PartQty, error) {
	records, err := readRecords(filename, "inventory",
		[]string{"part_num", "warehouse", "on_hand_qty", "demand_qty"})
	if err != nil {
		return nil, err
	}

	var rows []erpdb.PartQty
	for i, record := range records {
		onHand, err := parseDecimal(record[2], "on_hand_qty")
		if err != nil {
			return nil, rowErr("inventory", i, err)
		}
		demand, err := parseDecimal(record[3], "demand_qty")
		if err != nil {
			return nil, rowErr("inventory", i, err)
		}
		rows = append(rows, erpdb.PartQty{
			PartNum:       record[0],
			WarehouseCode: record[1],
			OnHandQty:     onHand,
			DemandQty:     demand,
		})
	}
	return rows, nil
}

// LoadLabor loads historical labor details from a CSV file
func (l *Loader) LoadLabor(filename string) ([]erpdb.LaborDtl, error) {
	records, err := readRecords(filename, "labor",
		[]string{"hed_seq", "dtl_seq", "employee", "job_num", "assembly_seq", "opr_seq", "op_code", "labor_qty", "clock_in_date"})
	if err != nil {
		return nil, err
	}

	var rows []erpdb.LaborDtl
	for i, record := range records {
		hedSeq, err := parseInt(record[0], "hed_seq")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		dtlSeq, err := parseInt(record[1], "dtl_seq")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		asmSeq, err := parseInt(record[4], "assembly_seq")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		oprSeq, err := parseInt(record[5], "opr_seq")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		qty, err := parseDecimal(record[7], "labor_qty")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		clockIn, err := parseDate(record[8], "clock_in_date")
		if err != nil {
			return nil, rowErr("labor", i, err)
		}
		rows = append(rows, erpdb.LaborDtl{
			LaborHedSeq: hedSeq,
			LaborDtlSeq: dtlSeq,
			EmployeeNum: record[2],
			JobNum:      record[3],
			AssemblySeq: asmSeq,
			OprSeq:      oprSeq,
			OpCode:      record[6],
			LaborQty:    qty,
			ClockInDate: clockIn,
		})
	}
	return rows, nil
}

// LoadEmployees loads the employee directory from a CSV file
func (l *Loader) LoadEmployees(filename string) ([]erpdb.EmpBasic, error) {
	records, err := readRecords(filename, "employees",
		[]string{"emp_id", "name", "status"})
	if err != nil {
		return nil, err
	}

	var rows []erpdb.EmpBasic
	for _, record := range records {
		rows = append(rows, erpdb.EmpBasic{
			EmpID:     record[0],
			Name:      record[1],
			EmpStatus: record[2],
		})
	}
	return rows, nil
}

// Helper functions for parsing CSV records

func readRecords(filename, table string, expectedHeader []string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", table, filename, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", table, err)
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("%s CSV must have a header row", table)
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("%s CSV header mismatch. Expected: %v, Got: %v", table, expectedHeader, records[0])
	}

	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("%s CSV row %d: expected %d columns, got %d", table, i+2, len(expectedHeader), len(record))
		}
	}
	return records[1:], nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func rowErr(table string, index int, err error) error {
	return fmt.Errorf("%s CSV row %d: %w", table, index+2, err)
}

func parseInt(s, field string) (int, error) {
	value, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %s", field, s)
	}
	return value, nil
}

func parseBool(s, field string) (bool, error) {
	value, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid %s: %s", field, s)
	}
	return value, nil
}

func parseDecimal(s, field string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s: %s", field, s)
	}
	return value, nil
}

func parseDate(s, field string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, nil
	}
	value, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s format: %s (expected YYYY-MM-DD)", field, s)
	}
	return value, nil
}
