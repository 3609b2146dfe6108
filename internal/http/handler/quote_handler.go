package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/service"
)

// QuoteHandler handles the public price configurator endpoint
type QuoteHandler struct {
	quoteService *service.QuoteService
	logger       *zap.Logger
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *service.QuoteService, logger *zap.Logger) *QuoteHandler {
	return &QuoteHandler{
		quoteService: quoteService,
		logger:       logger,
	}
}

// Estimate godoc
// @Summary Compute a non-binding price estimate
// @Description Prices a service configuration against the active rule tables. The result is explicitly non-binding.
// @Tags Quote
// @Accept json
// @Produce json
// @Param request body domain.QuoteRequest true "Service configuration"
// @Success 200 {object} domain.QuoteResponse
// @Failure 400 {object} domain.APIError
// @Failure 429 {object} domain.APIError
// @Router /quote [post]
func (h *QuoteHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req domain.QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, domain.MsgInvalidRequest)
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	resp, err := h.quoteService.Estimate(r.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownServiceType) || errors.Is(err, service.ErrUnknownOption) {
			respondWithError(w, http.StatusBadRequest, domain.MsgInvalidRequest)
			return
		}
		h.logger.Error("failed to compute estimate", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, domain.MsgInternalError)
		return
	}

	respondJSON(w, http.StatusOK, resp)
}
