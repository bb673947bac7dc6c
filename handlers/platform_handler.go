package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services"
	"github.com/upb/review-generator/utils"
)

// ReviewLinkResponse is the response for GET /api/v1/platforms/{platform}/link
type ReviewLinkResponse struct {
	Platform    models.Platform `json:"platform"`
	DisplayName string          `json:"display_name"`
	Hotel       string          `json:"hotel"`
	URL         string          `json:"url"`
}

// PlatformHandler serves review platform metadata and links
type PlatformHandler struct {
	logger *zap.Logger
}

// NewPlatformHandler creates a new PlatformHandler
func NewPlatformHandler(logger *zap.Logger) *PlatformHandler {
	return &PlatformHandler{logger: logger}
}

// HandleList handles GET /api/v1/platforms
func (h *PlatformHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	specs := make([]models.PlatformSpec, 0, len(models.SupportedPlatforms))
	for _, p := range models.SupportedPlatforms {
		if spec, ok := models.GetPlatformSpec(p); ok {
			specs = append(specs, spec)
		}
	}
	_ = utils.WriteOK(w, specs)
}

// HandleLink handles GET /api/v1/platforms/{platform}/link?hotel=
func (h *PlatformHandler) HandleLink(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(chi.URLParam(r, "platform"))
	spec, ok := models.GetPlatformSpec(models.Platform(name))
	if !ok {
		HandleServiceError(w, fmt.Errorf("platform %q: %w", name, services.ErrPlatformNotFound), h.logger)
		return
	}

	hotel := strings.TrimSpace(r.URL.Query().Get("hotel"))
	if hotel == "" {
		HandleServiceError(w, services.ErrEmptyHotelName, h.logger)
		return
	}

	_ = utils.WriteOK(w, ReviewLinkResponse{
		Platform:    spec.Platform,
		DisplayName: spec.DisplayName,
		Hotel:       hotel,
		URL:         spec.ReviewURL(hotel),
	})
}
