// Package thai formats dates and numbers as Buddhist-era, Thai-numeral
// strings for embedding in official documents.
package thai

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is emitted for absent or invalid dates so that document
// generation never aborts on bad input.
const Placeholder = "…"

// nbsp joins day/month/year so the triple never line-wraps. The leading
// connective word keeps a normal breakable space.
const nbsp = "\u00a0"

var digits = [10]rune{'๐', '๑', '๒', '๓', '๔', '๕', '๖', '๗', '๘', '๙'}

var months = [12]string{
	"มกราคม", "กุมภาพันธ์", "มีนาคม", "เมษายน", "พฤษภาคม", "มิถุนายน",
	"กรกฎาคม", "สิงหาคม", "กันยายน", "ตุลาคม", "พฤศจิกายน", "ธันวาคม",
}

var printer = message.NewPrinter(language.English)

// Digits maps ASCII digits 0-9 to Thai numeral glyphs. Non-digit characters
// pass through unchanged; empty input yields an empty string.
func Digits(s string) string {
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s) * 3)
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(digits[r-'0'])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BuddhistYear converts a Gregorian time to its Buddhist-era year.
func BuddhistYear(t time.Time) int {
	return t.Year() + 543
}

// MonthName returns the Thai month name for a 1-based month number.
func MonthName(month time.Month) string {
	if month < time.January || month > time.December {
		return Placeholder
	}
	return months[month-1]
}

// FormatDate renders a date as "<day> <month> <year+543>" in Thai numerals,
// joined with non-breaking spaces. Zero dates degrade to the placeholder.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return Placeholder
	}
	return Digits(strconv.Itoa(t.Day())) + nbsp + MonthName(t.Month()) + nbsp + Digits(strconv.Itoa(BuddhistYear(t)))
}

// ParseISODate accepts "2006-01-02" or RFC3339 input. The second return
// value reports whether parsing succeeded.
func ParseISODate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// FormatDateISO formats an ISO date string, degrading to the placeholder on
// invalid input.
func FormatDateISO(s string) string {
	t, ok := ParseISODate(s)
	if !ok {
		return Placeholder
	}
	return FormatDate(t)
}

// FormatDateRange produces the document phrase for a travel period together
// with the inclusive day count (minimum 1).
//
// Same start and end yield a single-date phrase; dates within one month
// collapse to "day–day month year"; otherwise both full dates are joined.
func FormatDateRange(start, end time.Time) (string, int) {
	days := DayCount(start, end)
	switch {
	case start.IsZero() && end.IsZero():
		return "ในวันที่ " + Placeholder, days
	case start.IsZero():
		return "ในวันที่ " + FormatDate(end), days
	case end.IsZero():
		return "ในวันที่ " + FormatDate(start), days
	}
	if sameDay(start, end) {
		return "ในวันที่ " + FormatDate(start), days
	}
	if start.Year() == end.Year() && start.Month() == end.Month() {
		span := Digits(strconv.Itoa(start.Day())) + "–" + Digits(strconv.Itoa(end.Day()))
		return "ระหว่างวันที่ " + span + nbsp + MonthName(start.Month()) + nbsp + Digits(strconv.Itoa(BuddhistYear(start))), days
	}
	return "ระหว่างวันที่ " + FormatDate(start) + " ถึงวันที่ " + FormatDate(end), days
}

// DayCount returns the inclusive number of days between two dates, never
// less than 1.
func DayCount(start, end time.Time) int {
	if start.IsZero() || end.IsZero() {
		return 1
	}
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int(e.Sub(s).Hours()/24) + 1
	if days < 1 {
		return 1
	}
	return days
}

// Baht formats a monetary amount with thousands separators and two decimal
// places, translated to Thai numerals.
func Baht(d decimal.Decimal) string {
	grouped := printer.Sprint(number.Decimal(d.InexactFloat64(),
		number.Scale(2), number.MinFractionDigits(2)))
	return Digits(grouped)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
