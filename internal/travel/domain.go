// Package travel holds the travel-request domain: typed records, the
// workflow status machine, and the reconciliation of the authoritative
// spreadsheet rows with the shadow document store.
package travel

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sarabun-oss/sarabun/internal/sheet"
	"github.com/sarabun-oss/sarabun/internal/thai"
)

// ExpenseOption selects how travel expenses are claimed.
type ExpenseOption string

const (
	ExpenseNone    ExpenseOption = "none"
	ExpensePartial ExpenseOption = "partial"
)

// VehicleOption selects the travel vehicle category.
type VehicleOption string

const (
	VehicleGovernment VehicleOption = "government"
	VehiclePrivate    VehicleOption = "private"
	VehiclePublic     VehicleOption = "public"
)

// Attendee is one member of the travel party.
type Attendee struct {
	Name     string `json:"name"`
	Position string `json:"position"`
}

// Request is a travel-authorization request. The spreadsheet service stays
// authoritative for its content; artifact URLs and the latest status may be
// overlaid from the shadow store.
type Request struct {
	ID                   string          `json:"id"`
	Username             string          `json:"username"`
	RequesterName        string          `json:"requesterName"`
	RequesterPosition    string          `json:"requesterPosition"`
	Location             string          `json:"location"`
	Purpose              string          `json:"purpose"`
	StartDate            time.Time       `json:"startDate"`
	EndDate              time.Time       `json:"endDate"`
	DocDate              time.Time       `json:"docDate"`
	Attendees            []Attendee      `json:"attendees"`
	ExpenseOption        ExpenseOption   `json:"expenseOption"`
	ExpenseItems         []string        `json:"expenseItems,omitempty"`
	ExpenseOtherDetail   string          `json:"expenseOtherDetail,omitempty"`
	TotalExpense         decimal.Decimal `json:"totalExpense"`
	VehicleOption        VehicleOption   `json:"vehicleOption"`
	LicensePlate         string          `json:"licensePlate,omitempty"`
	PublicVehicleDetails string          `json:"publicVehicleDetails,omitempty"`
	Status               Status          `json:"status"`
	CommandStatus        string          `json:"commandStatus,omitempty"`
	PDFURL               string          `json:"pdfUrl,omitempty"`
	CommandPDFURL        string          `json:"commandPdfUrl,omitempty"`
	DispatchBookURL      string          `json:"dispatchBookUrl,omitempty"`
	MemoPDFURL           string          `json:"memoPdfUrl,omitempty"`
	Timestamp            time.Time       `json:"timestamp,omitempty"`
}

// Memo records the out-of-band "paperwork sent" step, keyed by the request id.
type Memo struct {
	RefNumber           string    `json:"refNumber"`
	Status              string    `json:"status"`
	SubmittedBy         string    `json:"submittedBy"`
	FileURL             string    `json:"fileURL,omitempty"`
	CompletedMemoURL    string    `json:"completedMemoUrl,omitempty"`
	CompletedCommandURL string    `json:"completedCommandUrl,omitempty"`
	DispatchBookURL     string    `json:"dispatchBookUrl,omitempty"`
	Timestamp           time.Time `json:"timestamp,omitempty"`
}

// ParseAttendees accepts either a structured list or a JSON-string encoding
// of one. Malformed input yields an empty list, never an error; the shadow
// store is known to corrupt attendee data during partial writes and a bad
// row must not abort a whole batch.
func ParseAttendees(raw json.RawMessage) []Attendee {
	if len(raw) == 0 {
		return nil
	}
	var list []Attendee
	if err := json.Unmarshal(raw, &list); err == nil {
		return cleanAttendees(list)
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil
	}
	if strings.TrimSpace(encoded) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(encoded), &list); err != nil {
		return nil
	}
	return cleanAttendees(list)
}

func cleanAttendees(list []Attendee) []Attendee {
	out := make([]Attendee, 0, len(list))
	for _, a := range list {
		a.Name = strings.TrimSpace(a.Name)
		a.Position = strings.TrimSpace(a.Position)
		if a.Name == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// NormalizeName collapses interior whitespace for duplicate detection.
func NormalizeName(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// MergedAttendees places the requester first and removes duplicate entries
// matching the requester's whitespace-normalized name.
func MergedAttendees(requesterName, requesterPosition string, attendees []Attendee) []Attendee {
	requester := NormalizeName(requesterName)
	var out []Attendee
	if requester != "" {
		out = append(out, Attendee{Name: strings.TrimSpace(requesterName), Position: strings.TrimSpace(requesterPosition)})
	}
	for _, a := range attendees {
		if requester != "" && NormalizeName(a.Name) == requester {
			continue
		}
		out = append(out, a)
	}
	return out
}

// HeadCount counts the travel party. The requester always counts once even
// when also listed literally among the attendees.
func HeadCount(requesterName string, attendees []Attendee) int {
	return len(MergedAttendees(requesterName, "", attendees))
}

// FiscalYearFromID parses the Buddhist year suffix of ids shaped like
// "005/2569". The second return value reports success.
func FiscalYearFromID(id string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(id), "/")
	if len(parts) < 2 {
		return 0, false
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || year < 2400 || year > 2700 {
		return 0, false
	}
	return year, true
}

// FiscalYearOf resolves a record's fiscal year: the id suffix when parseable,
// otherwise the document date's Buddhist year. Zero means unknown.
func FiscalYearOf(id string, docDate time.Time) int {
	if year, ok := FiscalYearFromID(id); ok {
		return year
	}
	if !docDate.IsZero() {
		return thai.BuddhistYear(docDate)
	}
	return 0
}

// SequenceOf extracts the leading numeric component of an id. Non-numeric
// characters in the leading segment are ignored.
func SequenceOf(id string) (int, bool) {
	segment := strings.TrimSpace(id)
	if idx := strings.Index(segment, "/"); idx >= 0 {
		segment = segment[:idx]
	}
	var b strings.Builder
	for _, r := range segment {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	seq, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return seq, true
}

// FormatID renders a document id from its sequence and fiscal year.
func FormatID(seq, year int) string {
	return leftPad(strconv.Itoa(seq), 3) + "/" + strconv.Itoa(year)
}

func leftPad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}
	return s
}

// sortTime picks the tiebreak instant for merged-list ordering.
func sortTime(r Request) time.Time {
	if !r.Timestamp.IsZero() {
		return r.Timestamp
	}
	return r.DocDate
}

// SortMerged orders requests by the id's leading numeric component
// descending (newest first); equal or unparseable sequences fall back to
// timestamp/document-date descending.
func SortMerged(requests []Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		si, oki := SequenceOf(requests[i].ID)
		sj, okj := SequenceOf(requests[j].ID)
		if oki && okj && si != sj {
			return si > sj
		}
		return sortTime(requests[i]).After(sortTime(requests[j]))
	})
}

// FromRecord converts a spreadsheet row into a typed Request, parsing every
// loosely typed field defensively.
func FromRecord(rec sheet.RequestRecord) Request {
	req := Request{
		ID:                   strings.TrimSpace(rec.ID),
		Username:             rec.Username,
		RequesterName:        rec.RequesterName,
		RequesterPosition:    rec.RequesterPosition,
		Location:             rec.Location,
		Purpose:              rec.Purpose,
		Attendees:            ParseAttendees(rec.Attendees),
		ExpenseOption:        normalizeExpense(rec.ExpenseOption),
		ExpenseItems:         rec.ExpenseItems,
		ExpenseOtherDetail:   rec.ExpenseOtherDetail,
		VehicleOption:        normalizeVehicle(rec.VehicleOption),
		LicensePlate:         rec.LicensePlate,
		PublicVehicleDetails: rec.PublicVehicleDetails,
		Status:               NormalizeStatus(rec.Status),
		CommandStatus:        rec.CommandStatus,
		PDFURL:               rec.PDFURL,
		CommandPDFURL:        rec.CommandPDFURL,
		DispatchBookURL:      rec.DispatchBookURL,
		MemoPDFURL:           rec.MemoPDFURL,
	}
	if t, ok := thai.ParseISODate(rec.StartDate); ok {
		req.StartDate = t
	}
	if t, ok := thai.ParseISODate(rec.EndDate); ok {
		req.EndDate = t
	}
	if t, ok := thai.ParseISODate(rec.DocDate); ok {
		req.DocDate = t
	}
	if t, ok := thai.ParseISODate(rec.Timestamp); ok {
		req.Timestamp = t
	}
	if d, err := decimal.NewFromString(strings.ReplaceAll(rec.TotalExpense, ",", "")); err == nil {
		req.TotalExpense = d
	}
	return req
}

// ToRecord converts a Request back to its spreadsheet row shape.
func ToRecord(req Request) sheet.RequestRecord {
	attendees, _ := json.Marshal(req.Attendees)
	rec := sheet.RequestRecord{
		ID:                   req.ID,
		Username:             req.Username,
		RequesterName:        req.RequesterName,
		RequesterPosition:    req.RequesterPosition,
		Location:             req.Location,
		Purpose:              req.Purpose,
		Attendees:            attendees,
		ExpenseOption:        string(req.ExpenseOption),
		ExpenseItems:         req.ExpenseItems,
		ExpenseOtherDetail:   req.ExpenseOtherDetail,
		TotalExpense:         req.TotalExpense.StringFixed(2),
		VehicleOption:        string(req.VehicleOption),
		LicensePlate:         req.LicensePlate,
		PublicVehicleDetails: req.PublicVehicleDetails,
		Status:               string(req.Status),
		CommandStatus:        req.CommandStatus,
		PDFURL:               req.PDFURL,
		CommandPDFURL:        req.CommandPDFURL,
		DispatchBookURL:      req.DispatchBookURL,
		MemoPDFURL:           req.MemoPDFURL,
	}
	if !req.StartDate.IsZero() {
		rec.StartDate = req.StartDate.Format("2006-01-02")
	}
	if !req.EndDate.IsZero() {
		rec.EndDate = req.EndDate.Format("2006-01-02")
	}
	if !req.DocDate.IsZero() {
		rec.DocDate = req.DocDate.Format("2006-01-02")
	}
	if !req.Timestamp.IsZero() {
		rec.Timestamp = req.Timestamp.Format(time.RFC3339)
	}
	return rec
}

func normalizeExpense(v string) ExpenseOption {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(ExpensePartial):
		return ExpensePartial
	default:
		return ExpenseNone
	}
}

func normalizeVehicle(v string) VehicleOption {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case string(VehiclePrivate):
		return VehiclePrivate
	case string(VehiclePublic):
		return VehiclePublic
	default:
		return VehicleGovernment
	}
}

// MemoFromRecord converts a memo row into its typed form.
func MemoFromRecord(rec sheet.MemoRecord) Memo {
	memo := Memo{
		RefNumber:           strings.TrimSpace(rec.RefNumber),
		Status:              strings.TrimSpace(rec.Status),
		SubmittedBy:         rec.SubmittedBy,
		FileURL:             rec.FileURL,
		CompletedMemoURL:    rec.CompletedMemoURL,
		CompletedCommandURL: rec.CompletedCommandURL,
		DispatchBookURL:     rec.DispatchBookURL,
	}
	if t, ok := thai.ParseISODate(rec.Timestamp); ok {
		memo.Timestamp = t
	}
	return memo
}

// MemoToRecord converts a Memo back to its row shape.
func MemoToRecord(memo Memo) sheet.MemoRecord {
	rec := sheet.MemoRecord{
		RefNumber:           memo.RefNumber,
		Status:              memo.Status,
		SubmittedBy:         memo.SubmittedBy,
		FileURL:             memo.FileURL,
		CompletedMemoURL:    memo.CompletedMemoURL,
		CompletedCommandURL: memo.CompletedCommandURL,
		DispatchBookURL:     memo.DispatchBookURL,
	}
	if !memo.Timestamp.IsZero() {
		rec.Timestamp = memo.Timestamp.Format(time.RFC3339)
	}
	return rec
}
