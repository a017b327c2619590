// Package commands implements the command-line entry points.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/JaimeeMiles/TheQueue/pkg/application/services"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/kanban"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/labor"
	"github.com/JaimeeMiles/TheQueue/pkg/application/services/readiness"
	"github.com/JaimeeMiles/TheQueue/pkg/domain/entities"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/audit"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/config"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/erphttp"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/csv"
	"github.com/JaimeeMiles/TheQueue/pkg/infrastructure/repositories/erpdb"
	"github.com/JaimeeMiles/TheQueue/pkg/interfaces/cli/output"
)

// Config holds configuration for the queue command
type Config struct {
	Action      string
	ConfigPath  string
	DBPath      string
	DataDir     string
	Workcell    string
	JobNum      string
	AssemblySeq int
	OprSeq      int
	Part        string
	OpCode      string
	EmployeeID  string
	Qty         string
	ScrapQty    string
	ScrapReason string
	Complete    bool
	LaborHedSeq int
	LaborDtlSeq int
	Warehouse   string
	Bin         string
	ERPBaseURL  string
	ERPAPIKey   string
	ERPUsername string
	ERPPassword string
	Format      string
	Verbose     bool
	Help        bool
}

// QueueCommand dispatches queue reads and labor/receipt transactions
type QueueCommand struct {
	config Config
	logger *slog.Logger
}

// NewQueueCommand creates a queue command with the given configuration
func NewQueueCommand(cfg Config) *QueueCommand {
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return &QueueCommand{config: cfg, logger: logger}
}

// Execute runs the selected action
func (c *QueueCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if c.config.Action == "load" {
		return c.runLoad(ctx)
	}

	service, err := c.buildService()
	if err != nil {
		return err
	}

	out := output.Config{Format: c.config.Format, Verbose: c.config.Verbose}

	switch c.config.Action {
	case "workcells":
		for _, cell := range service.Workcells() {
			fmt.Printf("%s\t%s\n", cell.ID, cell.Name)
		}
		return nil

	case "queue":
		if c.config.Workcell == "" {
			return fmt.Errorf("queue requires -workcell")
		}
		rows, err := service.GetQueue(ctx, c.config.Workcell)
		if err != nil {
			return fmt.Errorf("load queue: %w", err)
		}
		return output.WriteQueue(os.Stdout, c.config.Workcell, rows, out)

	case "materials":
		if c.config.Workcell == "" {
			return fmt.Errorf("materials requires -workcell")
		}
		options, err := service.GetMaterialsForWorkcell(ctx, c.config.Workcell)
		if err != nil {
			return fmt.Errorf("load materials: %w", err)
		}
		return output.WriteMaterialOptions(os.Stdout, options, out)

	case "detail":
		if c.config.JobNum == "" {
			return fmt.Errorf("detail requires -job")
		}
		detail, err := service.GetJobDetail(ctx, entities.JobNumber(c.config.JobNum), c.config.AssemblySeq, c.config.OprSeq)
		if err != nil {
			return fmt.Errorf("load job detail: %w", err)
		}
		if detail == nil {
			return fmt.Errorf("job %s not found", c.config.JobNum)
		}
		return output.WriteJobDetail(os.Stdout, detail, out)

	case "mtl":
		if c.config.JobNum == "" {
			return fmt.Errorf("mtl requires -job")
		}
		materials, err := service.GetMaterialsForOperation(ctx, entities.JobNumber(c.config.JobNum), c.config.AssemblySeq, c.config.OprSeq)
		if err != nil {
			return fmt.Errorf("load operation materials: %w", err)
		}
		return output.WriteMaterials(os.Stdout, materials, out)

	case "last-checkin":
		if c.config.Part == "" {
			return fmt.Errorf("last-checkin requires -part")
		}
		checkin, err := service.GetLastCheckin(ctx, entities.PartNumber(c.config.Part), c.config.OpCode)
		if err != nil {
			return fmt.Errorf("load last checkin: %w", err)
		}
		if checkin == nil {
			fmt.Println("no prior labor entry")
			return nil
		}
		fmt.Printf("%s (%s) ran %s on job %s at %s, qty %s\n",
			checkin.EmployeeName, checkin.EmployeeNum, checkin.OpCode,
			checkin.JobNum, checkin.ClockInDate.Format("2006-01-02 15:04"), checkin.LaborQty)
		return nil

	case "start":
		if c.config.EmployeeID == "" || c.config.JobNum == "" {
			return fmt.Errorf("start requires -employee and -job")
		}
		result, err := service.StartLabor(ctx, labor.StartRequest{
			EmployeeID:  c.config.EmployeeID,
			JobNum:      entities.JobNumber(c.config.JobNum),
			AssemblySeq: c.config.AssemblySeq,
			OprSeq:      c.config.OprSeq,
			OpCode:      c.config.OpCode,
		})
		if err != nil {
			return fmt.Errorf("start labor: %w", err)
		}
		fmt.Printf("started labor: header %d detail %d\n", result.LaborHedSeq, result.LaborDtlSeq)
		return nil

	case "end":
		qty, err := decimal.NewFromString(c.config.Qty)
		if err != nil {
			return fmt.Errorf("invalid -qty: %w", err)
		}
		scrap, err := optionalDecimal(c.config.ScrapQty)
		if err != nil {
			return fmt.Errorf("invalid -scrap: %w", err)
		}
		err = service.EndLabor(ctx, labor.EndRequest{
			LaborHedSeq: c.config.LaborHedSeq,
			LaborDtlSeq: c.config.LaborDtlSeq,
			Qty:         qty,
			ScrapQty:    scrap,
			ScrapReason: c.config.ScrapReason,
			Complete:    c.config.Complete,
		})
		if err != nil {
			return fmt.Errorf("end labor: %w", err)
		}
		fmt.Println("labor ended")
		return nil

	case "active":
		if c.config.EmployeeID == "" {
			return fmt.Errorf("active requires -employee")
		}
		details, err := service.GetActiveLabor(ctx, c.config.EmployeeID)
		if err != nil {
			return fmt.Errorf("load active labor: %w", err)
		}
		for _, dtl := range details {
			fmt.Printf("header %d detail %d: job %s op %d\n",
				dtl.LaborHedSeq, dtl.LaborDtlSeq, dtl.JobNum, dtl.OprSeq)
		}
		return nil

	case "set-qty":
		qty, err := decimal.NewFromString(c.config.Qty)
		if err != nil {
			return fmt.Errorf("invalid -qty: %w", err)
		}
		if err := service.UpdateJobQuantity(ctx, entities.JobNumber(c.config.JobNum), qty); err != nil {
			return fmt.Errorf("update job quantity: %w", err)
		}
		fmt.Println("job quantity updated")
		return nil

	case "receipt":
		qty, err := decimal.NewFromString(c.config.Qty)
		if err != nil {
			return fmt.Errorf("invalid -qty: %w", err)
		}
		scrap, err := optionalDecimal(c.config.ScrapQty)
		if err != nil {
			return fmt.Errorf("invalid -scrap: %w", err)
		}
		err = service.SubmitKanbanReceipt(ctx, kanban.ReceiptRequest{
			EmployeeID:  c.config.EmployeeID,
			PartNum:     entities.PartNumber(c.config.Part),
			Quantity:    qty,
			ScrapQty:    scrap,
			ScrapReason: c.config.ScrapReason,
			Warehouse:   c.config.Warehouse,
			Bin:         c.config.Bin,
		})
		if err != nil {
			return fmt.Errorf("submit receipt: %w", err)
		}
		fmt.Println("receipt committed")
		return nil

	default:
		return fmt.Errorf("unknown action %q, see -help", c.config.Action)
	}
}

// runLoad creates the replica schema and imports CSV extracts
func (c *QueueCommand) runLoad(ctx context.Context) error {
	if c.config.DBPath == "" || c.config.DataDir == "" {
		return fmt.Errorf("load requires -db and -data")
	}

	db, err := gorm.Open(sqlite.Open(c.config.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := erpdb.NewShopRepository(db).Migrate(ctx); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	extract, err := csv.NewLoader().LoadDir(c.config.DataDir)
	if err != nil {
		return fmt.Errorf("parse extracts: %w", err)
	}
	if err := extract.Import(ctx, db); err != nil {
		return err
	}

	fmt.Printf("loaded %d jobs, %d operations, %d materials, %d inventory rows\n",
		len(extract.Jobs), len(extract.Operations), len(extract.Materials), len(extract.Inventory))
	return nil
}

// buildService wires the catalog, database repositories and remote
// services into the facade
func (c *QueueCommand) buildService() (*services.QueueService, error) {
	if c.config.ConfigPath == "" {
		return nil, fmt.Errorf("missing -config (workcell catalog yaml)")
	}
	catalog, err := config.LoadCatalog(c.config.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load workcell catalog: %w", err)
	}

	if c.config.DBPath == "" {
		return nil, fmt.Errorf("missing -db (replica database path)")
	}
	db, err := gorm.Open(sqlite.Open(c.config.DBPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	shop := erpdb.NewShopRepository(db)
	directory := erpdb.NewDirectoryRepository(db)

	engine := readiness.NewEngine(catalog, readiness.Repos{
		Jobs:       shop,
		Operations: shop,
		Materials:  shop,
		Inventory:  shop,
		History:    shop,
	}, c.logger)

	erpClient := erphttp.NewClient(erphttp.Config{
		BaseURL:  c.config.ERPBaseURL,
		APIKey:   c.config.ERPAPIKey,
		Username: c.config.ERPUsername,
		Password: c.config.ERPPassword,
	}, c.logger)

	laborOrch := labor.NewOrchestrator(erpClient, erpClient, labor.Deps{
		Operations: shop,
		Resources:  directory,
		Employees:  directory,
	}, c.logger)

	kanbanOrch := kanban.NewOrchestrator(erpClient, kanban.Defaults{
		Warehouse: c.config.Warehouse,
		Bin:       c.config.Bin,
	}, c.logger)

	return services.NewQueueService(catalog, engine, laborOrch, kanbanOrch, audit.NewMemoryJournal()), nil
}

func optionalDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// showHelp displays the help message
func (c *QueueCommand) showHelp() {
	fmt.Print(`TheQueue - shop floor work queue

USAGE:
    thequeue -action <action> -config <workcells.yaml> -db <replica.db> [options]

READ ACTIONS:
    workcells                      List configured work cells
    queue        -workcell <id>    Show the ready queue for a work cell
    materials    -workcell <id>    List material filter options for a cell
    detail       -job <n> [-asm <n> -opr <n>]   Job drill-down view
    mtl          -job <n> -asm <n> -opr <n>     Classified materials for an operation
    last-checkin -part <pn> [-op <code>]        Most recent labor entry for a part
    load         -db <file> -data <dir>         Create the replica schema and import CSV extracts

TRANSACTION ACTIONS (require -erp-url and credentials):
    start    -employee <id> -job <n> -asm <n> -opr <n> [-op <code>]
    end      -hedseq <n> -dtlseq <n> -qty <q> [-scrap <q> -scrap-reason <code> -done]
    active   -employee <id>
    set-qty  -job <n> -qty <q>
    receipt  -employee <id> -part <pn> -qty <q> [-warehouse <w> -bin <b>]

OPTIONS:
    -config <file>    Work cell catalog YAML
    -db <file>        SQLite replica of the ERP read tables
    -erp-url <url>    ERP REST base URL
    -erp-key <key>    ERP API key
    -erp-user <user>  Basic auth username
    -erp-pass <pass>  Basic auth password
    -format <fmt>     Output format: text, json (default: text)
    -verbose          Enable debug logging
    -help             Show this help message
`)
}
