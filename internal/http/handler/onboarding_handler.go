package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/http/middleware"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/napoleonmm83/emmotion-api/internal/service"
)

// OnboardingHandler handles the public onboarding wizard endpoints
type OnboardingHandler struct {
	quoteService      *service.QuoteService
	submissionService *service.SubmissionService
	logger            *zap.Logger
}

// NewOnboardingHandler creates a new OnboardingHandler
func NewOnboardingHandler(quoteService *service.QuoteService, submissionService *service.SubmissionService, logger *zap.Logger) *OnboardingHandler {
	return &OnboardingHandler{
		quoteService:      quoteService,
		submissionService: submissionService,
		logger:            logger,
	}
}

// GetConfig godoc
// @Summary Get the wizard bootstrap for a service type
// @Description Returns the questions, extras and contract clauses the wizard needs for one service type.
// @Tags Onboarding
// @Produce json
// @Param serviceType path string true "Service type" Enums(imagefilm, eventvideo, social_media, drone, product_video, post_production)
// @Success 200 {object} service.OnboardingConfigResponse
// @Failure 400 {object} domain.APIError
// @Router /onboarding/config/{serviceType} [get]
func (h *OnboardingHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	serviceType := pricing.ServiceType(chi.URLParam(r, "serviceType"))

	cfg, err := h.quoteService.OnboardingConfig(r.Context(), serviceType)
	if err != nil {
		if errors.Is(err, service.ErrUnknownServiceType) {
			respondWithError(w, http.StatusBadRequest, domain.MsgInvalidRequest)
			return
		}
		h.logger.Error("failed to build onboarding config", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, domain.MsgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

// Submit godoc
// @Summary Submit a signed contract
// @Description Accepts the completed wizard payload with the drawn signature. Validation failures are fatal; downstream failures are absorbed and the submission is still accepted.
// @Tags Onboarding
// @Accept json
// @Produce json
// @Param request body domain.SubmitContractRequest true "Signed contract payload"
// @Success 200 {object} domain.SubmitContractResponse
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 413 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Router /onboarding/submit [post]
func (h *OnboardingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req domain.SubmitContractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			respondWithError(w, http.StatusRequestEntityTooLarge, domain.MsgPayloadTooLarge)
			return
		}
		respondWithError(w, http.StatusBadRequest, domain.MsgInvalidRequest)
		return
	}

	resp, err := h.submissionService.Submit(r.Context(), &req, middleware.ClientIP(r), r.UserAgent())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingSignature):
			respondWithError(w, http.StatusBadRequest, domain.MsgMissingSignature)
		case errors.Is(err, service.ErrTermsNotAccepted),
			errors.Is(err, service.ErrInvalidInput),
			errors.Is(err, service.ErrUnknownServiceType),
			errors.Is(err, service.ErrUnknownOption):
			respondWithError(w, http.StatusBadRequest, domain.MsgInvalidRequest)
		default:
			h.logger.Error("submission failed before acceptance", zap.Error(err))
			respondWithError(w, http.StatusInternalServerError, domain.MsgInternalError)
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
