package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/primecutstudio/outreach/internal/dto"
	middleware "github.com/primecutstudio/outreach/internal/middleware"
	"github.com/primecutstudio/outreach/internal/pipeline"
	"github.com/primecutstudio/outreach/internal/repository"
	"github.com/primecutstudio/outreach/internal/search"
)

// PipelineRunner executes the discovery pipeline for one request.
type PipelineRunner interface {
	Run(ctx context.Context, req dto.DiscoverRequest, requestID string) ([]dto.BusinessResult, string, error)
}

// Recorder persists search history without affecting the response.
type Recorder interface {
	Record(rec repository.AuditRecord)
}

// DiscoverHandler serves the business discovery endpoint.
type DiscoverHandler struct {
	pipeline PipelineRunner
	recorder Recorder
}

// NewDiscoverHandler constructs a discover handler.
func NewDiscoverHandler(p PipelineRunner, r Recorder) *DiscoverHandler {
	return &DiscoverHandler{pipeline: p, recorder: r}
}

// Discover handles POST /discover requests.
func (h *DiscoverHandler) Discover(c echo.Context) error {
	var req dto.DiscoverRequest
	if err := c.Bind(&req); err != nil {
		return discoverError(c, http.StatusBadRequest, "invalid payload")
	}

	req.City = strings.TrimSpace(req.City)
	req.CountryCode = strings.TrimSpace(req.CountryCode)
	req.Niche = strings.TrimSpace(req.Niche)
	req.AffiliateName = strings.TrimSpace(req.AffiliateName)
	req.AffiliateID = strings.TrimSpace(req.AffiliateID)

	if req.City == "" {
		return discoverError(c, http.StatusBadRequest, "city is required")
	}
	if req.CountryCode == "" {
		return discoverError(c, http.StatusBadRequest, "countryCode is required")
	}
	if req.Niche == "" {
		return discoverError(c, http.StatusBadRequest, "niche is required")
	}

	rid := middleware.RequestIDFromContext(c)
	results, query, err := h.pipeline.Run(c.Request().Context(), req, rid)
	if err != nil {
		switch {
		case errors.Is(err, search.ErrAPIKeyMissing):
			return discoverError(c, http.StatusInternalServerError, "search provider not configured")
		default:
			var upstream *search.UpstreamError
			if errors.As(err, &upstream) {
				return discoverError(c, http.StatusInternalServerError, fmt.Sprintf("business search failed: upstream status %d", upstream.Status))
			}
			return discoverError(c, http.StatusInternalServerError, "business search failed")
		}
	}

	if h.recorder != nil {
		city, region := pipeline.SplitCityRegion(req.City)
		h.recorder.Record(repository.AuditRecord{
			RequesterID:   req.AffiliateID,
			RequesterName: req.AffiliateName,
			SearchType:    "business_discovery",
			Query:         query,
			City:          city,
			Region:        region,
			Niche:         req.Niche,
			ResultCount:   len(results),
			CreditsUsed:   len(results),
		})
	}

	return c.JSON(http.StatusOK, dto.DiscoverResponse{
		Success:     true,
		Results:     results,
		CountryCode: req.CountryCode,
	})
}

func discoverError(c echo.Context, status int, message string) error {
	return c.JSON(status, dto.ErrorResponse{Success: false, Error: message})
}
