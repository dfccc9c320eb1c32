package render

import (
	"strconv"
	"strings"

	"github.com/sarabun-oss/sarabun/internal/thai"
	"github.com/sarabun-oss/sarabun/internal/travel"
)

// checkMark is printed into the checked box of a checkbox pair; the
// unchecked box receives an empty string.
const checkMark = "✓"

// BuildContext flattens a request into the placeholder map shared by all
// document templates. Every value is a string: absent optional fields
// become the ellipsis placeholder so the printed form shows a fill-in
// blank rather than an empty gap, and checkbox marks collapse to "".
func BuildContext(req travel.Request, orgPrefix string) map[string]interface{} {
	period, _ := thai.FormatDateRange(req.StartDate, req.EndDate)
	days := thai.DayCount(req.StartDate, req.EndDate)
	attendees := travel.MergedAttendees(req.RequesterName, req.RequesterPosition, req.Attendees)

	ctx := map[string]interface{}{
		"doc_number":         docNumber(req.ID, orgPrefix),
		"doc_date":           orPlaceholder(thai.FormatDate(req.DocDate)),
		"requester_name":     orPlaceholder(req.RequesterName),
		"requester_position": orPlaceholder(req.RequesterPosition),
		"location":           orPlaceholder(req.Location),
		"purpose":            orPlaceholder(req.Purpose),
		"travel_period":      orPlaceholder(period),
		"day_count":          thai.Digits(strconv.Itoa(days)),
		"attendee_count":     thai.Digits(strconv.Itoa(len(attendees))),
		"attendee_block":     attendeeBlock(attendees),
		"total_expense":      thai.Baht(req.TotalExpense),
		"expense_items":      orPlaceholder(strings.Join(req.ExpenseItems, " ")),
		"expense_other":      orPlaceholder(req.ExpenseOtherDetail),
	}

	ctx["expense_none_mark"] = mark(req.ExpenseOption == travel.ExpenseNone)
	ctx["expense_partial_mark"] = mark(req.ExpenseOption == travel.ExpensePartial)

	ctx["vehicle_government_mark"] = mark(req.VehicleOption == travel.VehicleGovernment)
	ctx["vehicle_private_mark"] = mark(req.VehicleOption == travel.VehiclePrivate)
	ctx["vehicle_public_mark"] = mark(req.VehicleOption == travel.VehiclePublic)
	ctx["license_plate"] = orPlaceholder(req.LicensePlate)
	ctx["public_vehicle_details"] = orPlaceholder(req.PublicVehicleDetails)
	return ctx
}

// docNumber renders the official document number: Thai digits with the
// organization prefix. The source id may already carry the prefix or stray
// punctuation in its leading segment; the sequence is re-derived from the
// digits alone so neither reaches the printed number.
func docNumber(id, orgPrefix string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return thai.Placeholder
	}
	if orgPrefix != "" {
		id = strings.TrimSpace(strings.TrimPrefix(id, orgPrefix))
	}
	if seq, ok := travel.SequenceOf(id); ok {
		if year, ok := travel.FiscalYearFromID(id); ok {
			id = travel.FormatID(seq, year)
		}
	}
	number := thai.Digits(id)
	if orgPrefix == "" {
		return number
	}
	return orgPrefix + " " + number
}

// attendeeBlock lists the travel party one per line, numbered with Thai
// numerals starting at one.
func attendeeBlock(attendees []travel.Attendee) string {
	if len(attendees) == 0 {
		return thai.Placeholder
	}
	lines := make([]string, 0, len(attendees))
	for i, a := range attendees {
		line := thai.Digits(strconv.Itoa(i+1)) + ". " + a.Name
		if a.Position != "" {
			line += " ตำแหน่ง " + a.Position
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func orPlaceholder(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return thai.Placeholder
	}
	return s
}

func mark(checked bool) string {
	if checked {
		return checkMark
	}
	return ""
}
