package server

import (
	"errors"
	"net/http"

	"github.com/wrenlabs/slate/internal/models"
	"github.com/wrenlabs/slate/internal/services/inquiry"
)

// inquiryData is the record as returned to the submitter. The development
// and SMM variants additionally report which notification sends succeeded.
type inquiryData struct {
	*models.Inquiry
	EmailsSent *inquiry.EmailsSent `json:"emailsSent,omitempty"`
}

// inquiryHandler builds the handler for one inquiry variant. All three
// endpoints share the pipeline; only the variant descriptor and the
// response shape differ.
func (s *Server) inquiryHandler(variant string, reportEmails bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Method guard comes before any body or store work. Unlike the
		// JSON API endpoints, the form pipeline reports every failure in
		// its success/message envelope.
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			WritePipelineError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}

		var payload inquiry.Payload
		if !DecodeJSON(w, r, &payload) {
			return
		}

		result, err := s.app.InquiryService.Submit(r.Context(), variant, &payload)
		if err != nil {
			var vErr *inquiry.ValidationError
			if errors.As(err, &vErr) {
				WritePipelineError(w, http.StatusBadRequest, vErr.Error())
				return
			}
			s.logger.Error().Err(err).Str("variant", variant).Msg("Inquiry submission failed")
			WritePipelineError(w, http.StatusInternalServerError, "Failed to send message")
			return
		}

		data := inquiryData{Inquiry: result.Record}
		if reportEmails {
			sent := result.EmailsSent
			data.EmailsSent = &sent
		}

		WriteJSON(w, http.StatusCreated, PipelineResponse{
			Success: true,
			Message: "Message sent successfully",
			Data:    data,
		})
	}
}
