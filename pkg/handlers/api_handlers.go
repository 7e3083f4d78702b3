package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"signal-portfolio/pkg/layout"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/models"
	"signal-portfolio/pkg/services"
)

// maxContactBody bounds a JSON contact submission
const maxContactBody = 64 << 10

// FrameResponse is the resolved frame of one gallery slot
type FrameResponse struct {
	Category string `json:"category"`
	Position int    `json:"position"`
	layout.Dimensions
}

// CategoriesAPIHandler lists every category
func (s *server) CategoriesAPIHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.GetCategoriesInternal())
}

// CatalogAPIHandler serves the catalog of one category as JSON
func (s *server) CatalogAPIHandler(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "category")

	view, err := s.catalog.GetCatalogViewInternal(r.Context(), name)
	switch {
	case errors.Is(err, services.ErrUnknownCategory):
		writeError(w, http.StatusNotFound, "unknown category: "+name)
		return
	case err != nil:
		logging.L().Error("failed to load catalog", zap.String("category", name), zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, msgLoadFailed)
		return
	}

	if view.Items == nil {
		view.Items = models.Catalog{}
	}
	writeJSON(w, http.StatusOK, view)
}

// FrameAPIHandler resolves the frame of a gallery slot. Any category name
// resolves; unknown ones get the default portrait frame.
func (s *server) FrameAPIHandler(w http.ResponseWriter, r *http.Request) {
	category := strings.ToLower(chi.URLParam(r, "category"))
	position, err := strconv.Atoi(chi.URLParam(r, "position"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "position must be an integer")
		return
	}

	writeJSON(w, http.StatusOK, FrameResponse{
		Category:   category,
		Position:   position,
		Dimensions: s.catalog.Resolver().Resolve(category, position),
	})
}

// ContactAPIHandler accepts a JSON inquiry
func (s *server) ContactAPIHandler(w http.ResponseWriter, r *http.Request) {
	var form models.InquiryForm
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxContactBody)).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	inquiry, err := s.contact.Submit(r.Context(), form)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  models.ErrInvalidInquiry.Error(),
			Fields: verr.Fields,
		})
	case err != nil:
		logging.L().Error("failed to submit inquiry", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to send message. Please try again later.")
	default:
		writeJSON(w, http.StatusCreated, inquiry)
	}
}
