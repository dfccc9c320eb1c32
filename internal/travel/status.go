package travel

import "strings"

// Status captures the workflow state of a request. The source data carries
// free-form strings; unrecognized values normalize to StatusUnknown and are
// surfaced as-is but never used as an implicit transition source.
type Status string

const (
	StatusPending          Status = "PENDING"
	StatusCommandIssued    Status = "COMMAND_ISSUED"
	StatusDispatchIssued   Status = "DISPATCH_ISSUED"
	StatusSentForSignature Status = "SENT_FOR_SIGNATURE"
	StatusCompleted        Status = "COMPLETED"
	StatusReturned         Status = "RETURNED_FOR_CORRECTION"
	StatusUnknown          Status = "UNKNOWN"
)

// legacyStatuses maps literal strings observed in older rows onto the
// closed set.
var legacyStatuses = map[string]Status{
	"PENDING":                 StatusPending,
	"WAITING":                 StatusPending,
	"COMMAND_ISSUED":          StatusCommandIssued,
	"COMMAND ISSUED":          StatusCommandIssued,
	"APPROVED":                StatusCommandIssued,
	"DISPATCH_ISSUED":         StatusDispatchIssued,
	"DISPATCH ISSUED":         StatusDispatchIssued,
	"SENT_FOR_SIGNATURE":      StatusSentForSignature,
	"SENT-FOR-SIGNATURE":      StatusSentForSignature,
	"SENT":                    StatusSentForSignature,
	"COMPLETED":               StatusCompleted,
	"DONE":                    StatusCompleted,
	"RETURNED_FOR_CORRECTION": StatusReturned,
	"RETURNED-FOR-CORRECTION": StatusReturned,
	"RETURNED":                StatusReturned,
}

// NormalizeStatus maps a raw status string onto the closed set. Empty input
// means a fresh submission; anything unrecognized becomes StatusUnknown.
func NormalizeStatus(v string) Status {
	v = strings.TrimSpace(strings.ToUpper(v))
	if v == "" {
		return StatusPending
	}
	if s, ok := legacyStatuses[v]; ok {
		return s
	}
	return StatusUnknown
}

// transitions is the legal state machine. RETURNED_FOR_CORRECTION is
// reachable from every post-submission state and returns the request to a
// re-editable condition.
var transitions = map[Status][]Status{
	StatusPending:          {StatusCommandIssued, StatusReturned},
	StatusCommandIssued:    {StatusDispatchIssued, StatusReturned},
	StatusDispatchIssued:   {StatusSentForSignature, StatusReturned},
	StatusSentForSignature: {StatusCompleted, StatusReturned},
	StatusCompleted:        {StatusReturned},
	StatusReturned:         {StatusPending},
	StatusUnknown:          {StatusReturned},
}

// CanTransition reports whether moving from s to target is legal.
func (s Status) CanTransition(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Editable reports whether a request in this state may be rewritten by its
// owner.
func (s Status) Editable() bool {
	return s == StatusPending || s == StatusReturned
}
