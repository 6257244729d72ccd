package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/wrenlabs/slate/internal/interfaces"
)

// handleAdminInquiries handles GET /api/admin/inquiries — list inquiry
// records with filtering and pagination.
func (s *Server) handleAdminInquiries(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r, s.app.Config); !ok {
		return
	}

	q := r.URL.Query()
	opts := interfaces.InquiryListOptions{
		Variant: q.Get("variant"),
		Email:   q.Get("email"),
		Sort:    q.Get("sort"),
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.Page = n
		}
	}
	if v := q.Get("perPage"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			opts.PerPage = n
		}
	}
	if v := q.Get("since"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			opts.Since = &t
		} else {
			WriteError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
	}
	if v := q.Get("before"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			opts.Before = &t
		} else {
			WriteError(w, http.StatusBadRequest, "before must be RFC3339")
			return
		}
	}

	items, total, err := s.app.Storage.InquiryStore().List(r.Context(), opts)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list inquiries")
		WriteError(w, http.StatusInternalServerError, "failed to list inquiries")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"data": map[string]interface{}{
			"items": items,
			"total": total,
		},
	})
}

// handleAdminInquiryByID handles GET and DELETE /api/admin/inquiries/{id}.
func (s *Server) handleAdminInquiryByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	if _, ok := requireAdmin(w, r, s.app.Config); !ok {
		return
	}

	id := PathParam(r, "/api/admin/inquiries/", "")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "inquiry id is required in path")
		return
	}

	store := s.app.Storage.InquiryStore()

	switch r.Method {
	case http.MethodGet:
		record, err := store.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, interfaces.ErrNotFound) {
				WriteError(w, http.StatusNotFound, "inquiry not found")
				return
			}
			s.logger.Error().Err(err).Str("inquiry_id", id).Msg("Failed to get inquiry")
			WriteError(w, http.StatusInternalServerError, "failed to get inquiry")
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "data": record})

	case http.MethodDelete:
		if err := store.Delete(r.Context(), id); err != nil {
			s.logger.Error().Err(err).Str("inquiry_id", id).Msg("Failed to delete inquiry")
			WriteError(w, http.StatusInternalServerError, "failed to delete inquiry")
			return
		}
		s.logger.Info().Str("inquiry_id", id).Msg("Inquiry deleted")
		WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
	}
}

// handleAdminInquirySummary handles GET /api/admin/inquiries/summary.
func (s *Server) handleAdminInquirySummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireAdmin(w, r, s.app.Config); !ok {
		return
	}

	summary, err := s.app.Storage.InquiryStore().Summary(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to summarize inquiries")
		WriteError(w, http.StatusInternalServerError, "failed to summarize inquiries")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "data": summary})
}
