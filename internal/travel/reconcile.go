package travel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/sheet"
	"github.com/sarabun-oss/sarabun/internal/thai"
)

// SheetSource lists travel requests from the authoritative store.
type SheetSource interface {
	ListRequests(ctx context.Context) ([]sheet.RequestRecord, error)
	ListRequestsByYear(ctx context.Context, year int) ([]sheet.RequestRecord, error)
}

// ShadowSource reads the shadow-store snapshot.
type ShadowSource interface {
	GetAll(ctx context.Context) (map[string]shadow.Document, error)
}

// Reconciler merges spreadsheet rows with their shadow documents into one
// coherent record per entity id. The spreadsheet is ground truth for
// content — attendee lists above all — while the shadow store contributes
// generated-artifact URLs, the latest workflow status, and the timestamp.
type Reconciler struct {
	sheets  SheetSource
	shadows ShadowSource
	logger  *slog.Logger
}

// NewReconciler constructs a Reconciler.
func NewReconciler(sheets SheetSource, shadows ShadowSource, logger *slog.Logger) *Reconciler {
	return &Reconciler{sheets: sheets, shadows: shadows, logger: logger}
}

// MergedRequests returns the reconciled, sorted request list for a fiscal
// year. Single-record parse failures degrade that record to an empty
// attendee list and never abort the batch.
func (r *Reconciler) MergedRequests(ctx context.Context, year int) ([]Request, error) {
	if r == nil || r.sheets == nil {
		return nil, fmt.Errorf("travel: reconciler not configured")
	}

	var (
		records  []sheet.RequestRecord
		snapshot map[string]shadow.Document
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = r.sheets.ListRequestsByYear(gctx, year)
		return err
	})
	g.Go(func() error {
		if r.shadows == nil {
			return nil
		}
		var err error
		snapshot, err = r.shadows.GetAll(gctx)
		if err != nil && r.logger != nil {
			// The shadow store is a cache; losing it degrades to
			// sheet-only records rather than failing the listing.
			r.logger.Warn("shadow snapshot unavailable", slog.Any("error", err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]Request, 0, len(records))
	for _, rec := range records {
		req := FromRecord(rec)
		if FiscalYearOf(req.ID, req.DocDate) != year {
			continue
		}
		if doc, ok := snapshot[shadow.NormalizeKey(req.ID)]; ok {
			OverlayShadow(&req, doc.Doc)
		}
		merged = append(merged, req)
	}
	SortMerged(merged)
	return merged, nil
}

// OverlayShadow applies the shadow document's fields onto a request
// following the precedence rules: artifact URLs (falling back through
// legacy field-name aliases), workflow status, and timestamp come from the
// shadow entry; attendees always stay with the spreadsheet because the
// shadow store is known to lose them during partial writes.
func OverlayShadow(req *Request, doc map[string]any) {
	if req == nil || doc == nil {
		return
	}
	if v := firstString(doc, "pdfUrl", "pdf_link", "pdfURL"); v != "" {
		req.PDFURL = v
	}
	if v := firstString(doc, "commandPdfUrl", "commandPdf", "commandPDFUrl"); v != "" {
		req.CommandPDFURL = v
	}
	if v := firstString(doc, "dispatchBookUrl", "dispatchPdfUrl"); v != "" {
		req.DispatchBookURL = v
	}
	if v := firstString(doc, "memoPdfUrl", "memoPdf"); v != "" {
		req.MemoPDFURL = v
	}
	if v := firstString(doc, "status"); v != "" {
		req.Status = NormalizeStatus(v)
	}
	if v := firstString(doc, "commandStatus"); v != "" {
		req.CommandStatus = v
	}
	if v := firstString(doc, "timestamp"); v != "" {
		if t, ok := thai.ParseISODate(v); ok {
			req.Timestamp = t
		}
	}
}

// ShadowDoc builds the full shadow document for a request, as written by
// the bulk reconciliation.
func ShadowDoc(req Request) map[string]any {
	doc := map[string]any{
		"id":                req.ID,
		"username":          req.Username,
		"requesterName":     req.RequesterName,
		"requesterPosition": req.RequesterPosition,
		"location":          req.Location,
		"purpose":           req.Purpose,
		"expenseOption":     string(req.ExpenseOption),
		"totalExpense":      req.TotalExpense.StringFixed(2),
		"vehicleOption":     string(req.VehicleOption),
		"status":            string(req.Status),
		"attendees":         attendeeDocs(req.Attendees),
	}
	if req.CommandStatus != "" {
		doc["commandStatus"] = req.CommandStatus
	}
	if !req.StartDate.IsZero() {
		doc["startDate"] = req.StartDate.Format("2006-01-02")
	}
	if !req.EndDate.IsZero() {
		doc["endDate"] = req.EndDate.Format("2006-01-02")
	}
	if !req.DocDate.IsZero() {
		doc["docDate"] = req.DocDate.Format("2006-01-02")
	}
	if !req.Timestamp.IsZero() {
		doc["timestamp"] = req.Timestamp.Format(time.RFC3339)
	}
	if req.PDFURL != "" {
		doc["pdfUrl"] = req.PDFURL
	}
	if req.CommandPDFURL != "" {
		doc["commandPdfUrl"] = req.CommandPDFURL
	}
	if req.DispatchBookURL != "" {
		doc["dispatchBookUrl"] = req.DispatchBookURL
	}
	if req.MemoPDFURL != "" {
		doc["memoPdfUrl"] = req.MemoPDFURL
	}
	return doc
}

// MemoShadowDoc builds the shadow document for a memo. Memo keys carry a
// "memo_" prefix so they never collide with request documents.
func MemoShadowDoc(memo Memo) map[string]any {
	doc := map[string]any{
		"refNumber":   memo.RefNumber,
		"status":      memo.Status,
		"submittedBy": memo.SubmittedBy,
	}
	if memo.FileURL != "" {
		doc["fileURL"] = memo.FileURL
	}
	if memo.CompletedMemoURL != "" {
		doc["completedMemoUrl"] = memo.CompletedMemoURL
	}
	if memo.CompletedCommandURL != "" {
		doc["completedCommandUrl"] = memo.CompletedCommandURL
	}
	if memo.DispatchBookURL != "" {
		doc["dispatchBookUrl"] = memo.DispatchBookURL
	}
	if !memo.Timestamp.IsZero() {
		doc["timestamp"] = memo.Timestamp.Format(time.RFC3339)
	}
	return doc
}

// MemoKey is the shadow-store key for a memo document.
func MemoKey(refNumber string) string {
	return "memo_" + shadow.NormalizeKey(refNumber)
}

func attendeeDocs(attendees []Attendee) []map[string]any {
	out := make([]map[string]any, 0, len(attendees))
	for _, a := range attendees {
		out = append(out, map[string]any{"name": a.Name, "position": a.Position})
	}
	return out
}

func firstString(doc map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := doc[key]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
