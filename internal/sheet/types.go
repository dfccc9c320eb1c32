package sheet

import "encoding/json"

// RequestRecord is the wire shape of a travel request row in the
// spreadsheet-backed service. Attendees may arrive either as a structured
// list or as a JSON string encoding of one; callers parse defensively.
type RequestRecord struct {
	ID                   string          `json:"id"`
	Username             string          `json:"username"`
	RequesterName        string          `json:"requesterName"`
	RequesterPosition    string          `json:"requesterPosition"`
	Location             string          `json:"location"`
	Purpose              string          `json:"purpose"`
	StartDate            string          `json:"startDate"`
	EndDate              string          `json:"endDate"`
	DocDate              string          `json:"docDate"`
	Attendees            json.RawMessage `json:"attendees,omitempty"`
	ExpenseOption        string          `json:"expenseOption"`
	ExpenseItems         []string        `json:"expenseItems,omitempty"`
	ExpenseOtherDetail   string          `json:"expenseOtherDetail,omitempty"`
	TotalExpense         string          `json:"totalExpense,omitempty"`
	VehicleOption        string          `json:"vehicleOption"`
	LicensePlate         string          `json:"licensePlate,omitempty"`
	PublicVehicleDetails string          `json:"publicVehicleDetails,omitempty"`
	Status               string          `json:"status"`
	CommandStatus        string          `json:"commandStatus,omitempty"`
	PDFURL               string          `json:"pdfUrl,omitempty"`
	CommandPDFURL        string          `json:"commandPdfUrl,omitempty"`
	DispatchBookURL      string          `json:"dispatchBookUrl,omitempty"`
	MemoPDFURL           string          `json:"memoPdfUrl,omitempty"`
	Timestamp            string          `json:"timestamp,omitempty"`
}

// MemoRecord mirrors the send-paperwork memo rows, keyed by the request id.
type MemoRecord struct {
	RefNumber           string `json:"refNumber"`
	Status              string `json:"status"`
	SubmittedBy         string `json:"submittedBy"`
	FileURL             string `json:"fileURL,omitempty"`
	CompletedMemoURL    string `json:"completedMemoUrl,omitempty"`
	CompletedCommandURL string `json:"completedCommandUrl,omitempty"`
	DispatchBookURL     string `json:"dispatchBookUrl,omitempty"`
	Timestamp           string `json:"timestamp,omitempty"`
}

// UserRecord is an application user row.
type UserRecord struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	Position     string `json:"position"`
	Role         string `json:"role"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// DraftRecord stores an unsubmitted form keyed by a draft token.
type DraftRecord struct {
	Token    string          `json:"token"`
	Username string          `json:"username"`
	Payload  json.RawMessage `json:"payload"`
	SavedAt  string          `json:"savedAt,omitempty"`
}
