package travel

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sarabun-oss/sarabun/internal/sheet"
)

func TestParseAttendeesListAndStringAreEquivalent(t *testing.T) {
	asList := json.RawMessage(`[{"name":"สมหญิง","position":"ครู"},{"name":"สมศรี","position":""}]`)
	asString := json.RawMessage(`"[{\"name\":\"สมหญิง\",\"position\":\"ครู\"},{\"name\":\"สมศรี\",\"position\":\"\"}]"`)

	require.Equal(t, ParseAttendees(asList), ParseAttendees(asString))
	require.Len(t, ParseAttendees(asList), 2)
}

func TestParseAttendeesMalformedYieldsEmpty(t *testing.T) {
	require.Nil(t, ParseAttendees(json.RawMessage(`"not json at all"`)))
	require.Nil(t, ParseAttendees(json.RawMessage(`42`)))
	require.Nil(t, ParseAttendees(nil))
	require.Nil(t, ParseAttendees(json.RawMessage(`""`)))
}

func TestParseAttendeesDropsNamelessEntries(t *testing.T) {
	got := ParseAttendees(json.RawMessage(`[{"name":"  ","position":"ครู"},{"name":"สมหญิง"}]`))
	require.Len(t, got, 1)
	require.Equal(t, "สมหญิง", got[0].Name)
}

func TestHeadCountDeduplicatesRequester(t *testing.T) {
	attendees := []Attendee{
		{Name: "สมหญิง"},
		{Name: "สมชาย  ใจดี"}, // requester again, extra interior space
		{Name: "สมศรี"},
	}
	require.Equal(t, 3, HeadCount("สมชาย ใจดี", attendees))
}

func TestMergedAttendeesRequesterFirst(t *testing.T) {
	attendees := []Attendee{{Name: "สมหญิง", Position: "ครู"}}
	merged := MergedAttendees("สมชาย", "นักวิชาการ", attendees)
	require.Len(t, merged, 2)
	require.Equal(t, "สมชาย", merged[0].Name)
	require.Equal(t, "นักวิชาการ", merged[0].Position)
}

func TestFiscalYearOf(t *testing.T) {
	require.Equal(t, 2569, FiscalYearOf("005/2569", time.Time{}))
	require.Equal(t, 2569, FiscalYearOf("", time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)))
	// Garbage suffix falls back to the document date.
	require.Equal(t, 2569, FiscalYearOf("005/99", time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC)))
	require.Equal(t, 0, FiscalYearOf("no-year", time.Time{}))
}

func TestSequenceOf(t *testing.T) {
	seq, ok := SequenceOf("010/2569")
	require.True(t, ok)
	require.Equal(t, 10, seq)

	seq, ok = SequenceOf(" อว 7/2569")
	require.True(t, ok)
	require.Equal(t, 7, seq)

	_, ok = SequenceOf("draft/2569")
	require.False(t, ok)
}

func TestFormatID(t *testing.T) {
	require.Equal(t, "006/2569", FormatID(6, 2569))
	require.Equal(t, "123/2569", FormatID(123, 2569))
	require.Equal(t, "1234/2569", FormatID(1234, 2569))
}

func TestSortMergedNewestFirst(t *testing.T) {
	requests := []Request{
		{ID: "002/2569"},
		{ID: "010/2569"},
		{ID: "005/2569"},
	}
	SortMerged(requests)
	require.Equal(t, "010/2569", requests[0].ID)
	require.Equal(t, "005/2569", requests[1].ID)
	require.Equal(t, "002/2569", requests[2].ID)
}

func TestSortMergedTiebreakByTimestamp(t *testing.T) {
	older := Request{ID: "no-seq-a", Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := Request{ID: "no-seq-b", Timestamp: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)}
	requests := []Request{older, newer}
	SortMerged(requests)
	require.Equal(t, "no-seq-b", requests[0].ID)
}

func TestFromRecordDefensiveParsing(t *testing.T) {
	rec := sheet.RequestRecord{
		ID:           " 005/2569 ",
		StartDate:    "2026-02-09",
		EndDate:      "not-a-date",
		TotalExpense: "1,234.50",
		Status:       "approved",
		Attendees:    json.RawMessage(`"broken`),
	}
	req := FromRecord(rec)
	require.Equal(t, "005/2569", req.ID)
	require.False(t, req.StartDate.IsZero())
	require.True(t, req.EndDate.IsZero())
	require.Equal(t, "1234.50", req.TotalExpense.StringFixed(2))
	require.Equal(t, StatusCommandIssued, req.Status)
	require.Empty(t, req.Attendees)
}

func TestRecordRoundTrip(t *testing.T) {
	req := Request{
		ID:            "005/2569",
		RequesterName: "สมชาย",
		StartDate:     time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC),
		Attendees:     []Attendee{{Name: "สมหญิง", Position: "ครู"}},
		Status:        StatusPending,
	}
	got := FromRecord(ToRecord(req))
	require.Equal(t, req.ID, got.ID)
	require.Equal(t, req.Attendees, got.Attendees)
	require.True(t, req.StartDate.Equal(got.StartDate))
	require.Equal(t, req.Status, got.Status)
}
