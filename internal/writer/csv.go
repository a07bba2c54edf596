package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-flagger/internal/models"
)

// Header is the column contract for flagged-transaction exports.
var Header = []string{"Date", "Description", "Amount", "Flag reason"}

// CSVWriter writes flagged transactions to CSV format.
type CSVWriter struct {
	// IncludeHeader adds "# key,value" summary rows before the column header.
	IncludeHeader bool
}

// WriteToFile writes the scan result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, res *models.ScanResult) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("closing output file %q: %w", path, cerr)
		}
	}()

	return w.Write(f, res)
}

// Write writes the scan result in CSV format to the given writer. Amounts
// are raw signed numbers.
func (w *CSVWriter) Write(out io.Writer, res *models.ScanResult) error {
	writer := csv.NewWriter(out)

	if w.IncludeHeader {
		meta := [][]string{
			{"# Scan ID", res.ID},
			{"# Source", res.Source},
			{"# Institution", res.Institution},
			{"# Lines scanned", strconv.Itoa(res.LinesTotal)},
			{"# Flagged", strconv.Itoa(len(res.Records))},
		}
		for _, row := range meta {
			if row[1] == "" {
				continue
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write CSV metadata: %w", err)
			}
		}
	}

	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, rec := range res.Records {
		row := []string{
			rec.Date,
			rec.Description,
			FormatAmount(rec.Amount),
			rec.FlagReason(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// FormatAmount renders the raw signed value, e.g. "-1234.56" or "4.5".
func FormatAmount(amount float64) string {
	return decimal.NewFromFloat(amount).String()
}

// FormatCurrency renders a display value such as "$12,345.67" or "-$4.50".
func FormatCurrency(amount float64) string {
	s := "$" + humanize.FormatFloat("#,###.##", math.Abs(amount))
	if amount < 0 {
		return "-" + s
	}
	return s
}
