// Package output renders queue views for the command line in text or
// JSON form.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/JaimeeMiles/TheQueue/pkg/application/dto"
)

// Config controls rendering
type Config struct {
	Format  string // "text" or "json"
	Verbose bool
}

const dateLayout = "2006-01-02"

// WriteQueue renders the queue rows for a work cell
func WriteQueue(w io.Writer, workcellID string, rows []dto.QueueRow, config Config) error {
	if config.Format == "json" {
		return writeJSON(w, rows)
	}

	fmt.Fprintf(w, "Queue for %s (%d jobs)\n\n", workcellID, len(rows))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tASM\tOPR\tOP\tPART\tQTY LEFT\tPRIOR\tSTART\tDUE IN\tMTL")
	for _, row := range rows {
		due := fmt.Sprintf("%dd", row.DaysUntilDue)
		if row.ReqDueDate.IsZero() {
			due = "-"
		}
		prior := row.QtyFromPrior.String()
		if row.IsFirstOp {
			prior = "first"
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.JobNum, row.AssemblySeq, row.OprSeq, row.OpCode,
			row.PartNum, row.QtyRemaining, prior,
			row.StartDate.Format(dateLayout), due, materialCell(row),
		)
	}
	return tw.Flush()
}

func materialCell(row dto.QueueRow) string {
	if row.MtlCount == 0 {
		return "-"
	}
	cell := fmt.Sprintf("%s (%d)", row.MtlStatus, row.MtlCount)
	if row.MaxProducible != nil {
		cell += fmt.Sprintf(" max %s", row.MaxProducible)
	}
	return cell
}

// WriteMaterials renders the classified materials of an operation
func WriteMaterials(w io.Writer, materials []dto.ClassifiedMaterial, config Config) error {
	if config.Format == "json" {
		return writeJSON(w, materials)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tPART\tDESCRIPTION\tREQ\tON HAND\tDEMAND\tSHORT\tSTATUS\tSOURCE")
	for _, mtl := range materials {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s %s\t%s\t%s\t%s\t%s\t%d/%s\n",
			mtl.MtlSeq, mtl.PartNum, truncate(mtl.Description, 40),
			mtl.RequiredQty, mtl.UOM, mtl.OnHandQty, mtl.DemandQty,
			mtl.QtyShort, mtl.Status, mtl.SourceOprSeq, mtl.SourceOpCode,
		)
	}
	return tw.Flush()
}

// WriteJobDetail renders the job drill-down view
func WriteJobDetail(w io.Writer, detail *dto.JobDetail, config Config) error {
	if config.Format == "json" {
		return writeJSON(w, detail)
	}

	job := detail.Job
	fmt.Fprintf(w, "Job %s: %s %s\n", job.JobNum, job.PartNum, job.Description)
	fmt.Fprintf(w, "Qty %s  Start %s  Due %s\n\n",
		job.ProdQty, job.StartDate.Format(dateLayout), formatDate(job.ReqDueDate))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ASM\tOPR\tOP\tDESCRIPTION\tDONE\tCOMPLETE")
	for _, op := range detail.Operations {
		complete := ""
		if op.Complete {
			complete = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
			op.AssemblySeq, op.OprSeq, op.OpCode, truncate(op.OpDesc, 40),
			op.QtyCompleted, complete)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(detail.Materials) > 0 {
		fmt.Fprintln(w)
		return WriteMaterials(w, detail.Materials, config)
	}
	return nil
}

// WriteMaterialOptions renders the material filter list for a work cell
func WriteMaterialOptions(w io.Writer, options []dto.MaterialOption, config Config) error {
	if config.Format == "json" {
		return writeJSON(w, options)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PART\tDESCRIPTION")
	for _, opt := range options {
		fmt.Fprintf(tw, "%s\t%s\n", opt.PartNum, opt.Description)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
