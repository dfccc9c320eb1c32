package travel

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sarabun-oss/sarabun/internal/platform/httpx"
	"github.com/sarabun-oss/sarabun/internal/shadow"
	"github.com/sarabun-oss/sarabun/internal/thai"
)

// Handler exposes the travel workflow over HTTP.
type Handler struct {
	svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// MountRoutes registers the workflow routes on the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/requests", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.submit)
		r.Route("/{key}", func(r chi.Router) {
			r.Get("/", h.get)
			r.Put("/", h.update)
			r.Delete("/", h.delete)
			r.Post("/transition", h.transition)
			r.Post("/documents/{type}", h.generateDocument)
			r.Post("/sent", h.markSent)
			r.Post("/complete", h.complete)
		})
	})
	r.Route("/memos", func(r chi.Router) {
		r.Get("/", h.listMemos)
		r.Delete("/{ref}", h.deleteMemo)
	})
	r.Route("/drafts", func(r chi.Router) {
		r.Post("/", h.saveDraft)
		r.Get("/{token}", h.getDraft)
	})
	r.Post("/admin/reconcile", h.reconcile)
}

func requestKey(r *http.Request) string {
	return shadow.NormalizeKey(chi.URLParam(r, "key"))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	year := thai.BuddhistYear(time.Now())
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 2400 || parsed > 2700 {
			httpx.RespondError(w, fmt.Errorf("travel: %w: invalid year %q", httpx.ErrValidation, raw))
			return
		}
		year = parsed
	}
	requests, err := h.svc.ListByYear(r.Context(), year)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"year": year, "requests": requests})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var form SubmitForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.svc.Submit(r.Context(), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, req)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	req, err := h.svc.Get(r.Context(), requestKey(r))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var form SubmitForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.svc.Update(r.Context(), requestKey(r), form)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), requestKey(r)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	target := NormalizeStatus(body.Status)
	if target == StatusUnknown {
		httpx.RespondError(w, fmt.Errorf("travel: %w: unknown status %q", httpx.ErrValidation, body.Status))
		return
	}
	req, err := h.svc.Transition(r.Context(), requestKey(r), target)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) generateDocument(w http.ResponseWriter, r *http.Request) {
	docType := DocType(chi.URLParam(r, "type"))
	req, err := h.svc.GenerateDocument(r.Context(), requestKey(r), docType)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) markSent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SubmittedBy string `json:"submittedBy"`
		FileURL     string `json:"fileUrl"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.svc.MarkSent(r.Context(), requestKey(r), body.SubmittedBy, body.FileURL)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) complete(w http.ResponseWriter, r *http.Request) {
	var uploads MemoUploads
	if err := httpx.DecodeJSON(r, &uploads); err != nil {
		httpx.RespondError(w, err)
		return
	}
	req, err := h.svc.CompleteMemo(r.Context(), requestKey(r), uploads)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, req)
}

func (h *Handler) listMemos(w http.ResponseWriter, r *http.Request) {
	memos, err := h.svc.ListMemos(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"memos": memos})
}

func (h *Handler) deleteMemo(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteMemo(r.Context(), chi.URLParam(r, "ref")); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) saveDraft(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string          `json:"username"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.RespondError(w, err)
		return
	}
	token, err := h.svc.SaveDraft(r.Context(), body.Username, body.Payload)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]string{"token": token})
}

func (h *Handler) getDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.svc.GetDraft(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	count, err := h.svc.Reconcile(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"documents": count})
}
