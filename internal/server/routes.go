package server

import (
	"net/http"
	"time"

	"github.com/wrenlabs/slate/internal/common"
	"github.com/wrenlabs/slate/internal/models"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)
	mux.HandleFunc("/api/shutdown", s.handleShutdown)

	// Auth
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// Inquiry pipelines
	mux.HandleFunc("/api/contact", s.inquiryHandler(models.InquiryVariantContact, false))
	mux.HandleFunc("/api/dev", s.inquiryHandler(models.InquiryVariantDevelopment, true))
	mux.HandleFunc("/api/smm", s.inquiryHandler(models.InquiryVariantSMM, true))

	// User (session-bound)
	mux.HandleFunc("/api/user/update-finances", s.handleUserFinances)
	mux.HandleFunc("/api/user/update-profile", s.handleUserProfile)
	mux.HandleFunc("/api/user/finance-chart", s.handleFinanceChart)

	// Admin
	mux.HandleFunc("/api/admin/inquiries/summary", s.handleAdminInquirySummary)
	mux.HandleFunc("/api/admin/inquiries/", s.handleAdminInquiryByID)
	mux.HandleFunc("/api/admin/inquiries", s.handleAdminInquiries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet, http.MethodHead) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig exposes non-secret runtime settings for diagnostics.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment":       cfg.Environment,
		"site_base_url":     cfg.Site.BaseURL,
		"storage_backend":   cfg.Storage.Backend,
		"logging_level":     cfg.Logging.Level,
		"notify_configured": cfg.Notify.APIKey != "",
		"notify_redirected": cfg.Notify.RedirectAllTo != "",
		"uptime":            time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

// handleShutdown handles POST /api/shutdown (dev mode only).
func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if s.app.Config.IsProduction() {
		WriteError(w, http.StatusForbidden, "Shutdown endpoint disabled in production")
		return
	}

	s.logger.Info().Msg("Shutdown requested via HTTP endpoint")

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Shutting down gracefully...\n"))

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	if s.shutdownChan != nil {
		go func() {
			time.Sleep(100 * time.Millisecond)
			s.shutdownChan <- struct{}{}
		}()
	}
}
