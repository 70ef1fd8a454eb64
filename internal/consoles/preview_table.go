// Package consoles renders results for a terminal.
package consoles

import (
	"fmt"
	"io"

	"burnout-chart/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	previewHeader    = "      Time          |  Req (rps) | Succ (rps) | Fail (rps) | AvgDura(ms)|"
	previewSeparator = "--------------------+------------+------------+------------+------------+"

	// NoDataMatched is printed when a filtered series is empty.
	NoDataMatched = "No data matched."
)

// PreviewTable prints rolled-up buckets as a fixed width table with grouped digits.
type PreviewTable struct {
	printer *message.Printer
}

func NewPreviewTable() *PreviewTable {
	return &PreviewTable{printer: message.NewPrinter(language.English)}
}

// Write prints one row per bucket, or NoDataMatched when there are none.
func (t *PreviewTable) Write(w io.Writer, buckets []models.RollupBucket) error {
	if len(buckets) == 0 {
		_, err := fmt.Fprintln(w, NoDataMatched)
		return err
	}

	if _, err := fmt.Fprintf(w, "%s\n%s\n", previewHeader, previewSeparator); err != nil {
		return err
	}
	for _, b := range buckets {
		avg := ""
		if v, ok := b.Point.AvgSuccDura(); ok {
			avg = t.number(v)
		}
		_, err := fmt.Fprintf(w, "%s | %10s | %10s | %10s | %10s |\n",
			b.Key,
			t.number(b.Point.ReqCount),
			t.number(b.Point.SuccCount),
			t.number(b.Point.FailCount),
			avg,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *PreviewTable) number(n int64) string {
	return t.printer.Sprintf("%d", n)
}
