package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/models"
)

const defaultInquiryLimit = 50

// AdminPage is the data of the admin view
type AdminPage struct {
	Page
	Inquiries []*models.Inquiry
	Posters   bool
}

func (s *server) adminRoutes(r chi.Router) {
	r.Get("/", s.AdminHandler)
	r.Get("/inquiries", s.InquiriesHandler)
	r.Post("/cache/flush", s.FlushCacheHandler)
	r.Post("/posters/generate", s.GeneratePosterHandler)
	r.Post("/posters/clear", s.ClearPosterHandler)
	r.Post("/posters/bulk", s.BulkGeneratePostersHandler)
}

// AdminHandler handles requests for the admin page
func (s *server) AdminHandler(w http.ResponseWriter, r *http.Request) {
	logging.L().Debug("generating admin page")

	inquiries, err := s.contact.Recent(r.Context(), defaultInquiryLimit)
	if err != nil {
		logging.L().Error("failed to list inquiries", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	meta := s.site.NotFound()
	meta.Title = "Admin - SIGNAL"
	s.render(w, http.StatusOK, "admin", AdminPage{
		Page:      s.page(r, meta, "admin"),
		Inquiries: inquiries,
		Posters:   s.posters != nil && s.cfg.BucketEnabled(),
	})
}

// InquiriesHandler lists stored inquiries, newest first
func (s *server) InquiriesHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultInquiryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	inquiries, err := s.contact.Recent(r.Context(), limit)
	if err != nil {
		logging.L().Error("failed to list inquiries", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if inquiries == nil {
		inquiries = []*models.Inquiry{}
	}
	writeJSON(w, http.StatusOK, inquiries)
}

// FlushCacheHandler drops every cached catalog
func (s *server) FlushCacheHandler(w http.ResponseWriter, _ *http.Request) {
	if s.posters == nil {
		writeError(w, http.StatusNotImplemented, "cache not available")
		return
	}
	s.posters.FlushCacheInternal()
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Cache flushed",
	})
}

// GeneratePosterHandler handles API requests to generate a single poster
func (s *server) GeneratePosterHandler(w http.ResponseWriter, r *http.Request) {
	if s.posters == nil {
		writeError(w, http.StatusNotImplemented, "posters not available")
		return
	}

	var req struct {
		VideoPath string `json:"videoPath"`
		TimeMs    int    `json:"timeMs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VideoPath == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logging.L().Info("generating poster", zap.String("video", req.VideoPath), zap.Int("time_ms", req.TimeMs))

	if err := s.posters.GeneratePoster(r.Context(), req.VideoPath, req.TimeMs, nil); err != nil {
		logging.L().Error("error generating poster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Poster generated successfully",
	})
}

// ClearPosterHandler handles API requests to clear a single poster
func (s *server) ClearPosterHandler(w http.ResponseWriter, r *http.Request) {
	if s.posters == nil {
		writeError(w, http.StatusNotImplemented, "posters not available")
		return
	}

	var req struct {
		PosterPath string `json:"posterPath"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PosterPath == "" {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logging.L().Info("clearing poster", zap.String("poster", req.PosterPath))

	if err := s.posters.ClearPoster(r.Context(), req.PosterPath); err != nil {
		logging.L().Error("error clearing poster", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Poster cleared successfully",
	})
}

// BulkGeneratePostersHandler handles API requests to generate all missing posters
func (s *server) BulkGeneratePostersHandler(w http.ResponseWriter, r *http.Request) {
	if s.posters == nil {
		writeError(w, http.StatusNotImplemented, "posters not available")
		return
	}

	var req struct {
		TimeMs int  `json:"timeMs"`
		Force  bool `json:"force"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	logging.L().Info("bulk generating posters", zap.Int("time_ms", req.TimeMs), zap.Bool("force", req.Force))

	report, err := s.posters.GeneratePosters(r.Context(), req.TimeMs, req.Force)
	if err != nil {
		logging.L().Error("error in bulk generate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Bulk poster generation completed",
		"processed": report.Processed,
		"skipped":   report.Skipped,
		"errors":    report.Failed,
	})
}
