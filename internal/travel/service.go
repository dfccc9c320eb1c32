package travel

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sarabun-oss/sarabun/internal/observability"
	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/sheet"
)

// DocType selects a generated document kind. The approval-command template
// variant (solo, small group, large group) is derived from the head count.
type DocType string

const (
	DocTypeRequest  DocType = "request"
	DocTypeMemo     DocType = "memo"
	DocTypeCommand  DocType = "command"
	DocTypeDispatch DocType = "dispatch"
)

// Valid reports whether the document type is known.
func (d DocType) Valid() bool {
	switch d {
	case DocTypeRequest, DocTypeMemo, DocTypeCommand, DocTypeDispatch:
		return true
	}
	return false
}

// SheetAPI is the slice of the authoritative data API the workflow uses.
type SheetAPI interface {
	SheetSource
	CreateRequest(ctx context.Context, rec sheet.RequestRecord) error
	UpdateRequest(ctx context.Context, rec sheet.RequestRecord) error
	DeleteRequest(ctx context.Context, id string) error
	ListMemos(ctx context.Context) ([]sheet.MemoRecord, error)
	CreateMemo(ctx context.Context, rec sheet.MemoRecord) error
	UpdateMemo(ctx context.Context, rec sheet.MemoRecord) error
	DeleteMemo(ctx context.Context, refNumber string) error
	UploadFile(ctx context.Context, filename, mimeType string, data []byte) (string, error)
	GetDraft(ctx context.Context, token string) (sheet.DraftRecord, error)
	SaveDraft(ctx context.Context, draft sheet.DraftRecord) error
}

// ShadowStore is the slice of the shadow document store the workflow uses.
type ShadowStore interface {
	ShadowSource
	Get(ctx context.Context, key string) (shadow.Document, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	BatchPut(ctx context.Context, docs []shadow.Document) error
	DeleteMany(ctx context.Context, keys []string) error
}

// Queue enqueues retryable side effects: shadow mirror writes and
// notification emails. Their failure never blocks or rolls back the
// authoritative write.
type Queue interface {
	EnqueueMirror(ctx context.Context, key string, fields map[string]any) error
	EnqueueMirrorReplace(ctx context.Context, key string, doc map[string]any) error
	EnqueueEmail(ctx context.Context, to, subject, body string) error
}

// DocumentRenderer fills the template for a document type and returns the
// rendered office binary.
type DocumentRenderer interface {
	Render(docType DocType, req Request) ([]byte, error)
}

// Converter turns a rendered office binary into a PDF.
type Converter interface {
	ConvertToPDF(ctx context.Context, filename string, document []byte) ([]byte, error)
}

// ListCache is the explicit application-state store for list views.
type ListCache interface {
	Get(ctx context.Context, year int, dest any) error
	Refresh(ctx context.Context, year int, value any) error
	Invalidate(ctx context.Context, year int) error
	InvalidateAll(ctx context.Context) error
}

// Service orchestrates the travel-request workflow.
type Service struct {
	sheets     SheetAPI
	shadows    ShadowStore
	cache      ListCache
	queue      Queue
	renderer   DocumentRenderer
	converter  Converter
	reconciler *Reconciler
	metrics    *observability.Metrics
	logger     *slog.Logger
	validate   *validator.Validate
	now        func() time.Time
}

// ServiceConfig wires the Service dependencies.
type ServiceConfig struct {
	Sheets    SheetAPI
	Shadows   ShadowStore
	Cache     ListCache
	Queue     Queue
	Renderer  DocumentRenderer
	Converter Converter
	Metrics   *observability.Metrics
	Logger    *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		sheets:     cfg.Sheets,
		shadows:    cfg.Shadows,
		cache:      cfg.Cache,
		queue:      cfg.Queue,
		renderer:   cfg.Renderer,
		converter:  cfg.Converter,
		reconciler: NewReconciler(cfg.Sheets, cfg.Shadows, cfg.Logger),
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		validate:   validator.New(),
		now:        time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SubmitForm is the user submission payload.
type SubmitForm struct {
	Username             string     `json:"username" validate:"required"`
	RequesterName        string     `json:"requesterName" validate:"required"`
	RequesterPosition    string     `json:"requesterPosition" validate:"required"`
	Location             string     `json:"location" validate:"required"`
	Purpose              string     `json:"purpose" validate:"required"`
	StartDate            string     `json:"startDate" validate:"required"`
	EndDate              string     `json:"endDate" validate:"required"`
	DocDate              string     `json:"docDate"`
	Attendees            []Attendee `json:"attendees"`
	ExpenseOption        string     `json:"expenseOption" validate:"omitempty,oneof=none partial"`
	ExpenseItems         []string   `json:"expenseItems"`
	ExpenseOtherDetail   string     `json:"expenseOtherDetail"`
	TotalExpense         string     `json:"totalExpense"`
	VehicleOption        string     `json:"vehicleOption" validate:"omitempty,oneof=government private public"`
	LicensePlate         string     `json:"licensePlate"`
	PublicVehicleDetails string     `json:"publicVehicleDetails"`
}

func (s *Service) formToRequest(form SubmitForm) (Request, error) {
	if err := s.validate.Struct(form); err != nil {
		return Request{}, fmt.Errorf("travel: %w: %v", httpx.ErrValidation, err)
	}
	req := Request{
		Username:             form.Username,
		RequesterName:        strings.TrimSpace(form.RequesterName),
		RequesterPosition:    strings.TrimSpace(form.RequesterPosition),
		Location:             strings.TrimSpace(form.Location),
		Purpose:              strings.TrimSpace(form.Purpose),
		Attendees:            cleanAttendees(form.Attendees),
		ExpenseOption:        normalizeExpense(form.ExpenseOption),
		ExpenseItems:         form.ExpenseItems,
		ExpenseOtherDetail:   form.ExpenseOtherDetail,
		VehicleOption:        normalizeVehicle(form.VehicleOption),
		LicensePlate:         form.LicensePlate,
		PublicVehicleDetails: form.PublicVehicleDetails,
		Status:               StatusPending,
		Timestamp:            s.now(),
	}
	start, ok := parseRequired(form.StartDate)
	if !ok {
		return Request{}, fmt.Errorf("travel: %w: invalid startDate", httpx.ErrValidation)
	}
	end, ok := parseRequired(form.EndDate)
	if !ok {
		return Request{}, fmt.Errorf("travel: %w: invalid endDate", httpx.ErrValidation)
	}
	if end.Before(start) {
		return Request{}, fmt.Errorf("travel: %w: endDate before startDate", httpx.ErrValidation)
	}
	req.StartDate = start
	req.EndDate = end
	if doc, ok := parseRequired(form.DocDate); ok {
		req.DocDate = doc
	} else {
		now := s.now()
		req.DocDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	}
	if form.TotalExpense != "" {
		d, err := decimal.NewFromString(strings.ReplaceAll(form.TotalExpense, ",", ""))
		if err != nil {
			return Request{}, fmt.Errorf("travel: %w: invalid totalExpense", httpx.ErrValidation)
		}
		req.TotalExpense = d
	}
	return req, nil
}

// Submit validates a user form, allocates the next document number within
// the fiscal year, and writes the request to both stores.
func (s *Service) Submit(ctx context.Context, form SubmitForm) (Request, error) {
	req, err := s.formToRequest(form)
	if err != nil {
		return Request{}, err
	}
	year := FiscalYearOf("", req.DocDate)
	id, err := s.nextID(ctx, year)
	if err != nil {
		return Request{}, err
	}
	req.ID = id
	if err := s.sheets.CreateRequest(ctx, ToRecord(req)); err != nil {
		return Request{}, err
	}
	s.mirror(ctx, shadow.NormalizeKey(req.ID), ShadowDoc(req))
	s.invalidate(ctx, year)
	return req, nil
}

// nextID allocates "<seq>/<year>" from the highest existing sequence. Two
// concurrent submissions may race; the spreadsheet service rejects the
// duplicate and the user retries.
func (s *Service) nextID(ctx context.Context, year int) (string, error) {
	records, err := s.sheets.ListRequestsByYear(ctx, year)
	if err != nil {
		return "", err
	}
	maxSeq := 0
	for _, rec := range records {
		if FiscalYearOf(rec.ID, time.Time{}) != year {
			continue
		}
		if seq, ok := SequenceOf(rec.ID); ok && seq > maxSeq {
			maxSeq = seq
		}
	}
	return FormatID(maxSeq+1, year), nil
}

// ListByYear returns the reconciled request list for a fiscal year,
// serving from the state cache when warm.
func (s *Service) ListByYear(ctx context.Context, year int) ([]Request, error) {
	if s.cache != nil {
		var cached []Request
		if err := s.cache.Get(ctx, year, &cached); err == nil {
			return cached, nil
		}
	}
	merged, err := s.reconciler.MergedRequests(ctx, year)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Refresh(ctx, year, merged); err != nil && s.logger != nil {
			s.logger.Warn("refresh list cache", slog.Any("error", err))
		}
	}
	return merged, nil
}

// Get loads one reconciled request by its normalized key ("005-2569"). Keys
// without a parseable year suffix resolve through the document date, the
// same fallback the year listing uses, so every listed request stays
// addressable.
func (s *Service) Get(ctx context.Context, key string) (Request, error) {
	year, ok := yearFromKey(key)
	if !ok {
		var err error
		year, err = s.lookupYear(ctx, key)
		if err != nil {
			return Request{}, err
		}
	}
	list, err := s.ListByYear(ctx, year)
	if err != nil {
		return Request{}, err
	}
	for _, req := range list {
		if shadow.NormalizeKey(req.ID) == key {
			return req, nil
		}
	}
	return Request{}, fmt.Errorf("travel: request %s: %w", key, httpx.ErrNotFound)
}

// Update rewrites a request that is still in an editable state. A request
// returned for correction re-enters the pending state on resubmission.
func (s *Service) Update(ctx context.Context, key string, form SubmitForm) (Request, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return Request{}, err
	}
	if !current.Status.Editable() {
		return Request{}, fmt.Errorf("travel: %w: status %s is not editable", httpx.ErrConflict, current.Status)
	}
	req, err := s.formToRequest(form)
	if err != nil {
		return Request{}, err
	}
	req.ID = current.ID
	req.Status = StatusPending
	req.PDFURL = current.PDFURL
	req.CommandPDFURL = current.CommandPDFURL
	req.DispatchBookURL = current.DispatchBookURL
	req.MemoPDFURL = current.MemoPDFURL
	req.CommandStatus = current.CommandStatus
	if err := s.sheets.UpdateRequest(ctx, ToRecord(req)); err != nil {
		return Request{}, err
	}
	// A rewrite replaces the shadow copy outright so stale fields from the
	// old document (legacy URL aliases above all) do not survive the merge.
	s.mirrorReplace(ctx, key, ShadowDoc(req))
	s.invalidate(ctx, FiscalYearOf(req.ID, req.DocDate))
	return req, nil
}

// Delete removes a request from both stores. There is no soft delete.
func (s *Service) Delete(ctx context.Context, key string) error {
	current, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := s.sheets.DeleteRequest(ctx, current.ID); err != nil {
		return err
	}
	if err := s.shadows.Delete(ctx, key); err != nil && s.logger != nil {
		s.logger.Warn("shadow delete", slog.String("key", key), slog.Any("error", err))
	}
	s.invalidate(ctx, FiscalYearOf(current.ID, current.DocDate))
	return nil
}

// Transition moves a request to a new workflow state.
func (s *Service) Transition(ctx context.Context, key string, target Status) (Request, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return Request{}, err
	}
	if !current.Status.CanTransition(target) {
		return Request{}, fmt.Errorf("travel: %w: %s -> %s", httpx.ErrConflict, current.Status, target)
	}
	current.Status = target
	current.Timestamp = s.now()
	if err := s.sheets.UpdateRequest(ctx, ToRecord(current)); err != nil {
		return Request{}, err
	}
	s.mirror(ctx, key, map[string]any{
		"status":    string(target),
		"timestamp": current.Timestamp.Format(time.RFC3339),
	})
	s.invalidate(ctx, FiscalYearOf(current.ID, current.DocDate))
	return current, nil
}

// GenerateDocument runs the pipeline for one document type: render the
// template, convert to PDF, upload the artifact, write URL and status to
// the authoritative store, then mirror to the shadow store via the queue.
func (s *Service) GenerateDocument(ctx context.Context, key string, docType DocType) (Request, error) {
	if !docType.Valid() {
		return Request{}, fmt.Errorf("travel: %w: unknown document type %q", httpx.ErrValidation, docType)
	}
	current, err := s.Get(ctx, key)
	if err != nil {
		return Request{}, err
	}
	target, hasTarget := docTargetStatus(docType)
	if hasTarget && current.Status != target && !current.Status.CanTransition(target) {
		return Request{}, fmt.Errorf("travel: %w: %s -> %s", httpx.ErrConflict, current.Status, target)
	}

	rendered, err := s.renderer.Render(docType, current)
	if err != nil {
		return Request{}, err
	}
	baseName := string(docType) + "_" + key
	pdf, err := s.converter.ConvertToPDF(ctx, baseName+".docx", rendered)
	if err != nil {
		if s.metrics != nil {
			s.metrics.ConversionFailures.Inc()
		}
		return Request{}, err
	}
	url, err := s.sheets.UploadFile(ctx, baseName+".pdf", "application/pdf", pdf)
	if err != nil {
		return Request{}, err
	}

	fields := map[string]any{}
	switch docType {
	case DocTypeRequest:
		current.PDFURL = url
		fields["pdfUrl"] = url
	case DocTypeMemo:
		current.MemoPDFURL = url
		fields["memoPdfUrl"] = url
	case DocTypeCommand:
		current.CommandPDFURL = url
		fields["commandPdfUrl"] = url
	case DocTypeDispatch:
		current.DispatchBookURL = url
		fields["dispatchBookUrl"] = url
	}
	if hasTarget && current.Status != target {
		current.Status = target
	}
	current.Timestamp = s.now()
	fields["status"] = string(current.Status)
	fields["timestamp"] = current.Timestamp.Format(time.RFC3339)

	if err := s.sheets.UpdateRequest(ctx, ToRecord(current)); err != nil {
		return Request{}, err
	}
	s.mirror(ctx, key, fields)
	s.invalidate(ctx, FiscalYearOf(current.ID, current.DocDate))
	if s.metrics != nil {
		s.metrics.DocumentsRendered.WithLabelValues(string(docType)).Inc()
	}
	if s.logger != nil {
		s.logger.Info("document generated",
			slog.String("id", current.ID),
			slog.String("doc_type", string(docType)),
			slog.String("url", url))
	}
	return current, nil
}

// docTargetStatus maps artifact generation onto its workflow transition.
func docTargetStatus(docType DocType) (Status, bool) {
	switch docType {
	case DocTypeCommand:
		return StatusCommandIssued, true
	case DocTypeDispatch:
		return StatusDispatchIssued, true
	}
	return "", false
}

// MarkSent records that the signed paperwork went out physically: the
// request moves to SENT_FOR_SIGNATURE and a memo row is created.
func (s *Service) MarkSent(ctx context.Context, key, submittedBy, fileURL string) (Request, error) {
	current, err := s.Transition(ctx, key, StatusSentForSignature)
	if err != nil {
		return Request{}, err
	}
	memo := Memo{
		RefNumber:   current.ID,
		Status:      "PENDING",
		SubmittedBy: submittedBy,
		FileURL:     fileURL,
		Timestamp:   s.now(),
	}
	if err := s.sheets.CreateMemo(ctx, MemoToRecord(memo)); err != nil {
		return Request{}, err
	}
	s.mirror(ctx, MemoKey(current.ID), MemoShadowDoc(memo))
	return current, nil
}

// MemoUploads is the admin payload attaching completed artifacts to a memo.
type MemoUploads struct {
	CompletedMemoURL    string `json:"completedMemoUrl"`
	CompletedCommandURL string `json:"completedCommandUrl"`
	DispatchBookURL     string `json:"dispatchBookUrl"`
}

// CompleteMemo attaches completed-artifact URLs to the memo, completes the
// request, and queues the notification email to the owner. The submission
// record written by MarkSent (submitter, scanned file) survives: only the
// status and the supplied upload URLs change.
func (s *Service) CompleteMemo(ctx context.Context, key string, uploads MemoUploads) (Request, error) {
	current, err := s.Get(ctx, key)
	if err != nil {
		return Request{}, err
	}
	memo, err := s.findMemo(ctx, current.ID)
	if err != nil {
		return Request{}, err
	}
	current, err = s.Transition(ctx, key, StatusCompleted)
	if err != nil {
		return Request{}, err
	}
	memo.Status = "COMPLETED"
	if uploads.CompletedMemoURL != "" {
		memo.CompletedMemoURL = uploads.CompletedMemoURL
	}
	if uploads.CompletedCommandURL != "" {
		memo.CompletedCommandURL = uploads.CompletedCommandURL
	}
	if uploads.DispatchBookURL != "" {
		memo.DispatchBookURL = uploads.DispatchBookURL
	}
	memo.Timestamp = s.now()
	if err := s.sheets.UpdateMemo(ctx, MemoToRecord(memo)); err != nil {
		return Request{}, err
	}
	s.mirror(ctx, MemoKey(current.ID), MemoShadowDoc(memo))
	if s.queue != nil {
		subject := "เอกสารเดินทางเลขที่ " + current.ID + " ดำเนินการเสร็จสิ้น"
		if err := s.queue.EnqueueEmail(ctx, current.Username, subject, "เอกสารของท่านพร้อมให้ดาวน์โหลดแล้ว"); err != nil && s.logger != nil {
			s.logger.Warn("enqueue email", slog.Any("error", err))
		}
	}
	return current, nil
}

// findMemo loads the authoritative memo row for a request id.
func (s *Service) findMemo(ctx context.Context, refNumber string) (Memo, error) {
	records, err := s.sheets.ListMemos(ctx)
	if err != nil {
		return Memo{}, err
	}
	for _, rec := range records {
		if strings.TrimSpace(rec.RefNumber) == refNumber {
			return MemoFromRecord(rec), nil
		}
	}
	return Memo{}, fmt.Errorf("travel: memo %s: %w", refNumber, httpx.ErrNotFound)
}

// ListMemos returns all memos, overlaying the submission record and
// completed-artifact URLs mirrored in the shadow store.
func (s *Service) ListMemos(ctx context.Context) ([]Memo, error) {
	records, err := s.sheets.ListMemos(ctx)
	if err != nil {
		return nil, err
	}
	memos := make([]Memo, 0, len(records))
	for _, rec := range records {
		memo := MemoFromRecord(rec)
		if s.shadows != nil {
			if doc, err := s.shadows.Get(ctx, MemoKey(memo.RefNumber)); err == nil {
				overlayMemo(&memo, doc.Doc)
			}
		}
		memos = append(memos, memo)
	}
	return memos, nil
}

// DeleteMemo removes a memo from both stores. The request survives.
func (s *Service) DeleteMemo(ctx context.Context, refNumber string) error {
	if err := s.sheets.DeleteMemo(ctx, refNumber); err != nil {
		return err
	}
	if err := s.shadows.Delete(ctx, MemoKey(refNumber)); err != nil && s.logger != nil {
		s.logger.Warn("shadow delete memo", slog.Any("error", err))
	}
	return nil
}

// SaveDraft stores an unsubmitted form and returns its token.
func (s *Service) SaveDraft(ctx context.Context, username string, payload json.RawMessage) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", fmt.Errorf("travel: %w: username required", httpx.ErrValidation)
	}
	token := uuid.NewString()
	draft := sheet.DraftRecord{
		Token:    token,
		Username: username,
		Payload:  payload,
		SavedAt:  s.now().Format(time.RFC3339),
	}
	if err := s.sheets.SaveDraft(ctx, draft); err != nil {
		return "", err
	}
	return token, nil
}

// GetDraft loads a saved draft by its token.
func (s *Service) GetDraft(ctx context.Context, token string) (sheet.DraftRecord, error) {
	return s.sheets.GetDraft(ctx, token)
}

// Reconcile rebuilds the shadow store from the authoritative store: every
// request and memo is rewritten as a full document in batches, and shadow
// keys with no authoritative counterpart are removed. Running it twice
// against an unchanged sheet leaves the shadow state identical.
func (s *Service) Reconcile(ctx context.Context) (int, error) {
	var (
		records []sheet.RequestRecord
		memos   []sheet.MemoRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.sheets.ListRequests(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		memos, err = s.sheets.ListMemos(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	desired := make([]shadow.Document, 0, len(records)+len(memos))
	keep := make(map[string]struct{}, len(records)+len(memos))
	for _, rec := range records {
		req := FromRecord(rec)
		if req.ID == "" {
			continue
		}
		key := shadow.NormalizeKey(req.ID)
		desired = append(desired, shadow.Document{Key: key, Doc: ShadowDoc(req)})
		keep[key] = struct{}{}
	}
	for _, rec := range memos {
		memo := MemoFromRecord(rec)
		if memo.RefNumber == "" {
			continue
		}
		key := MemoKey(memo.RefNumber)
		desired = append(desired, shadow.Document{Key: key, Doc: MemoShadowDoc(memo)})
		keep[key] = struct{}{}
	}

	if err := s.shadows.BatchPut(ctx, desired); err != nil {
		return 0, err
	}
	existing, err := s.shadows.Keys(ctx)
	if err != nil {
		return 0, err
	}
	var orphans []string
	for _, key := range existing {
		if _, ok := keep[key]; !ok {
			orphans = append(orphans, key)
		}
	}
	if len(orphans) > 0 {
		if err := s.shadows.DeleteMany(ctx, orphans); err != nil {
			return 0, err
		}
	}
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil && s.logger != nil {
			s.logger.Warn("invalidate cache", slog.Any("error", err))
		}
	}
	if s.metrics != nil {
		s.metrics.ReconcileRuns.Inc()
	}
	if s.logger != nil {
		s.logger.Info("shadow reconciliation complete",
			slog.Int("documents", len(desired)),
			slog.Int("orphans_removed", len(orphans)))
	}
	return len(desired), nil
}

// mirror queues a shadow mirror write; enqueue failures are logged, never
// surfaced, and never roll back the authoritative write.
func (s *Service) mirror(ctx context.Context, key string, fields map[string]any) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueMirror(ctx, key, fields); err != nil && s.logger != nil {
		s.logger.Warn("enqueue mirror", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) mirrorReplace(ctx context.Context, key string, doc map[string]any) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueMirrorReplace(ctx, key, doc); err != nil && s.logger != nil {
		s.logger.Warn("enqueue mirror", slog.String("key", key), slog.Any("error", err))
	}
}

func (s *Service) invalidate(ctx context.Context, year int) {
	if s.cache == nil || year == 0 {
		return
	}
	if err := s.cache.Invalidate(ctx, year); err != nil && s.logger != nil {
		s.logger.Warn("invalidate cache", slog.Int("year", year), slog.Any("error", err))
	}
}

func overlayMemo(memo *Memo, doc map[string]any) {
	if memo == nil || doc == nil {
		return
	}
	if memo.SubmittedBy == "" {
		memo.SubmittedBy = firstString(doc, "submittedBy")
	}
	if memo.FileURL == "" {
		memo.FileURL = firstString(doc, "fileURL")
	}
	if v := firstString(doc, "completedMemoUrl"); v != "" {
		memo.CompletedMemoURL = v
	}
	if v := firstString(doc, "completedCommandUrl"); v != "" {
		memo.CompletedCommandURL = v
	}
	if v := firstString(doc, "dispatchBookUrl"); v != "" {
		memo.DispatchBookURL = v
	}
	if v := firstString(doc, "status"); v != "" {
		memo.Status = v
	}
}

// lookupYear resolves the fiscal year of a request whose id carries no
// parseable year suffix, via the document date on the authoritative row.
func (s *Service) lookupYear(ctx context.Context, key string) (int, error) {
	records, err := s.sheets.ListRequests(ctx)
	if err != nil {
		return 0, err
	}
	for _, rec := range records {
		req := FromRecord(rec)
		if shadow.NormalizeKey(req.ID) != key {
			continue
		}
		if year := FiscalYearOf(req.ID, req.DocDate); year != 0 {
			return year, nil
		}
	}
	return 0, fmt.Errorf("travel: request %s: %w", key, httpx.ErrNotFound)
}

// yearFromKey parses the fiscal year from a normalized key like "005-2569".
func yearFromKey(key string) (int, bool) {
	idx := strings.LastIndex(key, "-")
	if idx < 0 || idx == len(key)-1 {
		return 0, false
	}
	year := 0
	for _, r := range key[idx+1:] {
		if r < '0' || r > '9' {
			return 0, false
		}
		year = year*10 + int(r-'0')
	}
	if year < 2400 || year > 2700 {
		return 0, false
	}
	return year, true
}

func parseRequired(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
