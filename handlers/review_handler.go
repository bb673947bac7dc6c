package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/upb/review-generator/middleware"
	"github.com/upb/review-generator/models"
	"github.com/upb/review-generator/utils"
)

// SessionHeader carries the session ID back to clients that did not send one
const SessionHeader = "X-Session-ID"

// ReviewGenerator defines the interface for review generation
type ReviewGenerator interface {
	Generate(ctx context.Context, req *models.ReviewRequest) (*models.GenerationResult, error)
}

// ReviewHandler handles review generation requests
type ReviewHandler struct {
	generator ReviewGenerator
	logger    *zap.Logger
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(generator ReviewGenerator, logger *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		generator: generator,
		logger:    logger,
	}
}

// HandleGenerate handles POST /api/v1/reviews
func (h *ReviewHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req models.ReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	// Sessions pin the experiment variant; a new one is minted when absent
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	result, err := h.generator.Generate(ctx, &req)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	w.Header().Set(SessionHeader, result.SessionID)
	if err := utils.WriteOK(w, result); err != nil {
		h.logger.Error("failed to write response",
			zap.String("request_id", requestID),
			zap.Error(err))
	}
}
