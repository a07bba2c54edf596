package writer

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/insightdelivered/statement-flagger/internal/models"
)

// WriteTable prints records as aligned columns for terminal output.
func WriteTable(out io.Writer, records []models.TransactionRecord) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tAmount\tFlag reason\tDescription\t")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t\n", rec.Date, FormatCurrency(rec.Amount), rec.FlagReason(), rec.Description)
	}
	return tw.Flush()
}
