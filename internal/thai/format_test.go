package thai

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDigits(t *testing.T) {
	require.Equal(t, "๐๑๒๓๔๕๖๗๘๙", Digits("0123456789"))
	require.Equal(t, "๕/๒๕๖๙", Digits("5/2569"))
	require.Equal(t, "ไม่มีเลข", Digits("ไม่มีเลข"))
	require.Equal(t, "", Digits(""))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)
	require.Equal(t, "๙ กุมภาพันธ์ ๒๕๖๙", FormatDate(d))
	require.Equal(t, Placeholder, FormatDate(time.Time{}))
}

func TestFormatDateISO(t *testing.T) {
	require.Equal(t, "๙ กุมภาพันธ์ ๒๕๖๙", FormatDateISO("2026-02-09"))
	require.Equal(t, Placeholder, FormatDateISO("not-a-date"))
	require.Equal(t, Placeholder, FormatDateISO(""))
}

func TestFormatDateRangeSingleDay(t *testing.T) {
	d := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)
	phrase, days := FormatDateRange(d, d)
	require.Equal(t, "ในวันที่ ๙ กุมภาพันธ์ ๒๕๖๙", phrase)
	require.Equal(t, 1, days)
}

func TestFormatDateRangeSameMonth(t *testing.T) {
	start := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 11, 0, 0, 0, 0, time.UTC)
	phrase, days := FormatDateRange(start, end)
	require.Equal(t, "ระหว่างวันที่ ๙–๑๑ กุมภาพันธ์ ๒๕๖๙", phrase)
	require.Equal(t, 3, days)
}

func TestFormatDateRangeCrossMonth(t *testing.T) {
	start := time.Date(2026, time.January, 30, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	phrase, days := FormatDateRange(start, end)
	require.Equal(t, "ระหว่างวันที่ ๓๐ มกราคม ๒๕๖๙ ถึงวันที่ ๒ กุมภาพันธ์ ๒๕๖๙", phrase)
	require.Equal(t, 4, days)
}

func TestFormatDateRangeDegradesOnMissingDates(t *testing.T) {
	phrase, days := FormatDateRange(time.Time{}, time.Time{})
	require.Equal(t, "ในวันที่ "+Placeholder, phrase)
	require.Equal(t, 1, days)

	d := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	phrase, days = FormatDateRange(d, time.Time{})
	require.Equal(t, "ในวันที่ ๑ มีนาคม ๒๕๖๙", phrase)
	require.Equal(t, 1, days)
}

func TestDayCountNeverBelowOne(t *testing.T) {
	start := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 9, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 1, DayCount(start, end))
}

func TestBaht(t *testing.T) {
	require.Equal(t, "๑,๒๓๔.๕๐", Baht(decimal.RequireFromString("1234.5")))
	require.Equal(t, "๐.๐๐", Baht(decimal.Zero))
	require.Equal(t, "๒,๐๐๐,๐๐๐.๒๕", Baht(decimal.RequireFromString("2000000.25")))
}

func TestBuddhistYear(t *testing.T) {
	require.Equal(t, 2569, BuddhistYear(time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)))
}
