// Package render fills the office-document templates for the travel
// workflow. Templates are embedded in the binary; a missing or unreadable
// template is a build artifact problem and fails construction outright.
package render

import (
	"bytes"
	"embed"
	"fmt"

	docx "github.com/lukasjarosch/go-docx"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/travel"
)

//go:embed templates/*.docx
var templateFS embed.FS

// template file per document type; the approval command has three variants
// chosen by head count.
const (
	tplRequest      = "templates/request.docx"
	tplMemo         = "templates/memo.docx"
	tplCommandSolo  = "templates/command_solo.docx"
	tplCommandSmall = "templates/command_small.docx"
	tplCommandLarge = "templates/command_large.docx"
	tplDispatch     = "templates/dispatch.docx"
)

var allTemplates = []string{
	tplRequest, tplMemo, tplCommandSolo, tplCommandSmall, tplCommandLarge, tplDispatch,
}

// Renderer fills embedded templates with request data.
type Renderer struct {
	orgPrefix string
	templates map[string][]byte
}

// NewRenderer loads every embedded template up front so a broken embed
// surfaces at startup, not on the first render.
func NewRenderer(orgPrefix string) (*Renderer, error) {
	templates := make(map[string][]byte, len(allTemplates))
	for _, name := range allTemplates {
		data, err := templateFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("render: load template %s: %w", name, err)
		}
		templates[name] = data
	}
	return &Renderer{orgPrefix: orgPrefix, templates: templates}, nil
}

// Render fills the template for the given document type and returns the
// filled office binary. Placeholders absent from a particular template are
// skipped silently, so all templates share one context shape.
func (r *Renderer) Render(docType travel.DocType, req travel.Request) ([]byte, error) {
	if err := validateForRender(req); err != nil {
		return nil, err
	}
	name := r.templateFor(docType, req)
	data, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("render: no template for document type %q", docType)
	}

	doc, err := docx.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("render: open template %s: %w", name, err)
	}

	ctx := docx.PlaceholderMap(BuildContext(req, r.orgPrefix))
	if err := doc.ReplaceAll(ctx); err != nil {
		return nil, fmt.Errorf("render: fill template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		return nil, fmt.Errorf("render: write document: %w", err)
	}
	return buf.Bytes(), nil
}

// templateFor picks the template file. The approval command comes in three
// wordings: a lone traveller, a small group, and a delegation of seven or
// more.
func (r *Renderer) templateFor(docType travel.DocType, req travel.Request) string {
	switch docType {
	case travel.DocTypeMemo:
		return tplMemo
	case travel.DocTypeDispatch:
		return tplDispatch
	case travel.DocTypeCommand:
		switch n := travel.HeadCount(req.RequesterName, req.Attendees); {
		case n <= 1:
			return tplCommandSolo
		case n <= 6:
			return tplCommandSmall
		default:
			return tplCommandLarge
		}
	default:
		return tplRequest
	}
}

// validateForRender rejects requests whose required fields would leave the
// printed document meaningless.
func validateForRender(req travel.Request) error {
	var missing []string
	if req.RequesterName == "" {
		missing = append(missing, "requesterName")
	}
	if req.Location == "" {
		missing = append(missing, "location")
	}
	if req.Purpose == "" {
		missing = append(missing, "purpose")
	}
	if req.StartDate.IsZero() {
		missing = append(missing, "startDate")
	}
	if req.EndDate.IsZero() {
		missing = append(missing, "endDate")
	}
	if len(missing) > 0 {
		return &httpx.BindingError{Fields: missing}
	}
	return nil
}
