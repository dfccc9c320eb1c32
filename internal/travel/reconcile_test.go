package travel

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/sheet"
)

type stubSheets struct {
	records []sheet.RequestRecord
	err     error
}

func (s *stubSheets) ListRequests(context.Context) ([]sheet.RequestRecord, error) {
	return s.records, s.err
}

func (s *stubSheets) ListRequestsByYear(context.Context, int) ([]sheet.RequestRecord, error) {
	return s.records, s.err
}

type stubShadows struct {
	snapshot map[string]shadow.Document
	err      error
}

func (s *stubShadows) GetAll(context.Context) (map[string]shadow.Document, error) {
	return s.snapshot, s.err
}

func TestOverlayShadowPrecedence(t *testing.T) {
	req := Request{
		ID:        "005/2569",
		Status:    StatusPending,
		PDFURL:    "https://old.example/005.pdf",
		Attendees: []Attendee{{Name: "สมหญิง"}},
	}
	OverlayShadow(&req, map[string]any{
		"pdfUrl":        "https://new.example/005.pdf",
		"commandPdfUrl": "https://new.example/cmd.pdf",
		"status":        "COMMAND_ISSUED",
		"attendees":     []any{},
	})

	require.Equal(t, "https://new.example/005.pdf", req.PDFURL)
	require.Equal(t, "https://new.example/cmd.pdf", req.CommandPDFURL)
	require.Equal(t, StatusCommandIssued, req.Status)
	// Attendees always come from the authoritative store.
	require.Len(t, req.Attendees, 1)
}

func TestOverlayShadowLegacyAliases(t *testing.T) {
	req := Request{ID: "005/2569"}
	OverlayShadow(&req, map[string]any{
		"pdf_link":       "https://legacy.example/005.pdf",
		"commandPdf":     "https://legacy.example/cmd.pdf",
		"dispatchPdfUrl": "https://legacy.example/dispatch.pdf",
		"memoPdf":        "https://legacy.example/memo.pdf",
	})
	require.Equal(t, "https://legacy.example/005.pdf", req.PDFURL)
	require.Equal(t, "https://legacy.example/cmd.pdf", req.CommandPDFURL)
	require.Equal(t, "https://legacy.example/dispatch.pdf", req.DispatchBookURL)
	require.Equal(t, "https://legacy.example/memo.pdf", req.MemoPDFURL)
}

func TestOverlayShadowEmptyValuesIgnored(t *testing.T) {
	req := Request{ID: "005/2569", PDFURL: "https://keep.example/005.pdf"}
	OverlayShadow(&req, map[string]any{"pdfUrl": "", "status": ""})
	require.Equal(t, "https://keep.example/005.pdf", req.PDFURL)
}

func TestMergedRequestsFiltersYearAndSorts(t *testing.T) {
	sheets := &stubSheets{records: []sheet.RequestRecord{
		{ID: "002/2569", StartDate: "2026-02-09"},
		{ID: "010/2569"},
		{ID: "001/2568"}, // other fiscal year
	}}
	shadows := &stubShadows{snapshot: map[string]shadow.Document{
		"002-2569": {Key: "002-2569", Doc: map[string]any{"pdfUrl": "https://x/002.pdf"}},
	}}

	r := NewReconciler(sheets, shadows, slog.Default())
	merged, err := r.MergedRequests(context.Background(), 2569)
	require.NoError(t, err)
	require.Len(t, merged, 2)
	require.Equal(t, "010/2569", merged[0].ID)
	require.Equal(t, "002/2569", merged[1].ID)
	require.Equal(t, "https://x/002.pdf", merged[1].PDFURL)
}

func TestMergedRequestsIncludesDocDateFallbackYear(t *testing.T) {
	sheets := &stubSheets{records: []sheet.RequestRecord{
		{ID: "002/2569"},
		// No parseable year suffix; the document date decides the year.
		{ID: "หนังสือเวียน", DocDate: "2026-02-09"},
		{ID: "แจ้งเวียน", DocDate: "2025-09-30"},
	}}

	r := NewReconciler(sheets, &stubShadows{}, slog.Default())
	merged, err := r.MergedRequests(context.Background(), 2569)
	require.NoError(t, err)
	require.Len(t, merged, 2)

	ids := []string{merged[0].ID, merged[1].ID}
	require.Contains(t, ids, "002/2569")
	require.Contains(t, ids, "หนังสือเวียน")
	require.NotContains(t, ids, "แจ้งเวียน")
}

func TestMergedRequestsDegradesWithoutShadow(t *testing.T) {
	sheets := &stubSheets{records: []sheet.RequestRecord{{ID: "002/2569"}}}
	shadows := &stubShadows{err: errors.New("connection refused")}

	r := NewReconciler(sheets, shadows, slog.Default())
	merged, err := r.MergedRequests(context.Background(), 2569)
	require.NoError(t, err)
	require.Len(t, merged, 1)
}

func TestMergedRequestsSheetFailureIsFatal(t *testing.T) {
	sheets := &stubSheets{err: errors.New("api down")}
	r := NewReconciler(sheets, &stubShadows{}, slog.Default())
	_, err := r.MergedRequests(context.Background(), 2569)
	require.Error(t, err)
}

func TestShadowDocCarriesAttendees(t *testing.T) {
	req := FromRecord(sheet.RequestRecord{
		ID:        "005/2569",
		Attendees: json.RawMessage(`[{"name":"สมหญิง","position":"ครู"}]`),
	})
	doc := ShadowDoc(req)
	require.Equal(t, "005/2569", doc["id"])
	attendees, ok := doc["attendees"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, attendees, 1)
	require.Equal(t, "สมหญิง", attendees[0]["name"])
}

func TestMemoKey(t *testing.T) {
	require.Equal(t, "memo_005-2569", MemoKey("005/2569"))
}
