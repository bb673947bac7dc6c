package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/services/analytics"
	"github.com/upb/review-generator/services/budget"
	"github.com/upb/review-generator/services/cache"
	"github.com/upb/review-generator/services/experiment"
	"github.com/upb/review-generator/services/ratelimit"
	"github.com/upb/review-generator/utils"
)

// ProviderStatusSource reports runtime provider state
type ProviderStatusSource interface {
	ProviderStates() []models.ProviderState
}

// BudgetSource reports tracked spend
type BudgetSource interface {
	Entries() []budget.Entry
}

// CacheStatsSource reports response cache statistics
type CacheStatsSource interface {
	Stats() cache.Stats
}

// AdminSources groups what the admin endpoints read. Throttle, Variants and Analytics may be nil.
type AdminSources struct {
	Providers ProviderStatusSource
	Budget    BudgetSource
	Cache     CacheStatsSource
	Throttle  *ratelimit.ProviderThrottle
	Variants  *experiment.Assigner
	Analytics *analytics.Service
}

// ProvidersResponse is the response for GET /api/v1/admin/providers
type ProvidersResponse struct {
	Providers []models.ProviderState    `json:"providers"`
	Throttle  []ratelimit.ThrottleStats `json:"throttle,omitempty"`
	Variants  []experiment.Variant      `json:"variants,omitempty"`
}

// AdminHandler serves read-only operational status
type AdminHandler struct {
	sources AdminSources
	logger  *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(sources AdminSources, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		sources: sources,
		logger:  logger,
	}
}

// HandleProviders handles GET /api/v1/admin/providers
func (h *AdminHandler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	resp := ProvidersResponse{
		Providers: h.sources.Providers.ProviderStates(),
	}
	if h.sources.Throttle != nil {
		resp.Throttle = h.sources.Throttle.Stats()
	}
	if h.sources.Variants != nil {
		resp.Variants = h.sources.Variants.Variants()
	}
	_ = utils.WriteOK(w, resp)
}

// HandleBudget handles GET /api/v1/admin/budget
func (h *AdminHandler) HandleBudget(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.sources.Budget.Entries())
}

// HandleCache handles GET /api/v1/admin/cache
func (h *AdminHandler) HandleCache(w http.ResponseWriter, r *http.Request) {
	_ = utils.WriteOK(w, h.sources.Cache.Stats())
}

// HandleAnalytics handles GET /api/v1/admin/analytics
func (h *AdminHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	if h.sources.Analytics == nil {
		_ = utils.WriteNotFound(w, "Analytics pipeline not running")
		return
	}
	_ = utils.WriteOK(w, h.sources.Analytics.GetStats())
}
