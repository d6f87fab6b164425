// internal/app/system/csvutil/contributions.go
package csvutil

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ContributionRow is one line of a contributions export, with member and
// fund names already resolved.
type ContributionRow struct {
	GivenAt     time.Time
	MemberName  string
	FundName    string
	Method      string
	CheckNumber string
	AmountCents int64
	Note        string
}

var contributionHeader = []string{
	"Date", "Member", "Fund", "Method", "Check #", "Amount", "Note",
}

// WriteContributions streams rows as CSV to w, header first. Amounts are
// written as decimal dollars.
func WriteContributions(w io.Writer, rows []ContributionRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(contributionHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range rows {
		rec := []string{
			row.GivenAt.Format("2006-01-02"),
			row.MemberName,
			row.FundName,
			row.Method,
			row.CheckNumber,
			FormatAmount(row.AmountCents),
			row.Note,
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// FormatAmount renders cents as decimal dollars without a currency sign,
// e.g. 12550 -> "125.50".
func FormatAmount(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
