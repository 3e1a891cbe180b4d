package etl

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell parsing is deliberately best-effort: the source spreadsheets are
// human-maintained, so an unparseable cell yields a safe default (nil, 0 or
// false) instead of failing the run.

// excelEpochOffset is the number of days between the Unix epoch and the
// Excel serial-date epoch (1899-12-30).
const excelEpochOffset = 25569

// dateLayouts are the free-text formats accepted by ParseDate, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"2006/01/02",
	"02-Jan-2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseDate normalizes a raw cell into a calendar date. It accepts Excel
// numeric date serials (days since 1899-12-30) and the free-text layouts
// above. The result is truncated to midnight UTC. Unparseable or empty
// input yields nil.
func ParseDate(cell string) *time.Time {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}

	// Numeric cells arrive as serial strings when the workbook is read raw.
	if serial, err := decimal.NewFromString(s); err == nil {
		days := serial.IntPart()
		// Serials below ~62 would predate 1900; treat them as not-a-date so
		// small numeric cells are not mistaken for dates.
		if days > 61 {
			t := time.Unix((days-excelEpochOffset)*86400, 0).UTC()
			d := dayStart(t)
			return &d
		}
		return nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := dayStart(t.UTC())
			return &d
		}
	}
	return nil
}

// FormatDate renders a date as an ISO yyyy-mm-dd string. A nil date renders
// as the empty string.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// currencyReplacer strips currency symbols, thousands separators and
// spacing from amount strings before decimal parsing.
var currencyReplacer = strings.NewReplacer(
	"$", "",
	"£", "",
	"€", "",
	",", "",
	" ", "",
	" ", "",
	"(", "-",
	")", "",
)

// ParseAmount normalizes a raw cell into a currency number. Strings like
// "$1,234.56" and "(500.00)" parse; unparseable input yields 0.
func ParseAmount(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	s = currencyReplacer.Replace(s)
	if s == "" || s == "-" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}

// ParseInt normalizes a raw cell into an integer, tolerating currency
// formatting and decimal tails. Unparseable input yields 0.
func ParseInt(cell string) int {
	return int(ParseAmount(cell))
}

// ParseBool reports whether a raw cell holds an affirmative value. The
// accepted spellings are "true", "TRUE", "1" and "Yes"; everything else,
// including blank cells, is false.
func ParseBool(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "true", "TRUE", "1", "Yes":
		return true
	}
	return false
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
