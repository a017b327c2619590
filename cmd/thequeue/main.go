package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/JaimeeMiles/TheQueue/pkg/interfaces/cli/commands"
)

func main() {
	// Command line flags
	var (
		action      = flag.String("action", "queue", "Action: workcells, queue, materials, detail, mtl, last-checkin, load, start, end, active, set-qty, receipt")
		configPath  = flag.String("config", "workcells.yaml", "Path to work cell catalog YAML")
		dbPath      = flag.String("db", "", "Path to SQLite replica of the ERP read tables")
		dataDir     = flag.String("data", "", "Directory of CSV extracts for the load action")
		workcell    = flag.String("workcell", "", "Work cell ID")
		jobNum      = flag.String("job", "", "Job number")
		assemblySeq = flag.Int("asm", 0, "Assembly sequence")
		oprSeq      = flag.Int("opr", 0, "Operation sequence")
		part        = flag.String("part", "", "Part number")
		opCode      = flag.String("op", "", "Operation code")
		employee    = flag.String("employee", "", "Employee ID")
		qty         = flag.String("qty", "", "Quantity")
		scrapQty    = flag.String("scrap", "", "Scrap quantity")
		scrapReason = flag.String("scrap-reason", "", "Scrap reason code")
		complete    = flag.Bool("done", false, "Mark the operation complete when ending labor")
		hedSeq      = flag.Int("hedseq", 0, "Labor header sequence")
		dtlSeq      = flag.Int("dtlseq", 0, "Labor detail sequence")
		warehouse   = flag.String("warehouse", "", "Receipt warehouse override")
		bin         = flag.String("bin", "", "Receipt bin override")
		erpURL      = flag.String("erp-url", os.Getenv("ERP_BASE_URL"), "ERP REST base URL")
		erpKey      = flag.String("erp-key", os.Getenv("ERP_API_KEY"), "ERP API key")
		erpUser     = flag.String("erp-user", os.Getenv("ERP_USERNAME"), "ERP basic auth username")
		erpPass     = flag.String("erp-pass", os.Getenv("ERP_PASSWORD"), "ERP basic auth password")
		format      = flag.String("format", "text", "Output format: text, json")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		help        = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	// Create command configuration
	config := commands.Config{
		Action:      *action,
		ConfigPath:  *configPath,
		DBPath:      *dbPath,
		DataDir:     *dataDir,
		Workcell:    *workcell,
		JobNum:      *jobNum,
		AssemblySeq: *assemblySeq,
		OprSeq:      *oprSeq,
		Part:        *part,
		OpCode:      *opCode,
		EmployeeID:  *employee,
		Qty:         *qty,
		ScrapQty:    *scrapQty,
		ScrapReason: *scrapReason,
		Complete:    *complete,
		LaborHedSeq: *hedSeq,
		LaborDtlSeq: *dtlSeq,
		Warehouse:   *warehouse,
		Bin:         *bin,
		ERPBaseURL:  *erpURL,
		ERPAPIKey:   *erpKey,
		ERPUsername: *erpUser,
		ERPPassword: *erpPass,
		Format:      *format,
		Verbose:     *verbose,
		Help:        *help,
	}

	// Create and execute command
	cmd := commands.NewQueueCommand(config)
	ctx := context.Background()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
