package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/napoleonmm83/emmotion-api/internal/auth"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/mapper"
	"github.com/napoleonmm83/emmotion-api/internal/service"
)

// SubmissionHandler handles the admin submission endpoints
type SubmissionHandler struct {
	submissionService *service.SubmissionService
	logger            *zap.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(submissionService *service.SubmissionService, logger *zap.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		logger:            logger,
	}
}

// ListSubmissions godoc
// @Summary List submissions
// @Description Get paginated list of signed submissions with optional filters
// @Tags Admin
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Items per page" default(20)
// @Param status query string false "Filter by status" Enums(signed, corrected)
// @Param serviceType query string false "Filter by service type"
// @Success 200 {object} domain.PaginatedResponse
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/submissions [get]
func (h *SubmissionHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var status *domain.SubmissionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.SubmissionStatus(s)
		if st != domain.SubmissionStatusSigned && st != domain.SubmissionStatusCorrected {
			respondWithError(w, http.StatusBadRequest, "Invalid status: must be one of signed, corrected")
			return
		}
		status = &st
	}

	var serviceType *string
	if s := r.URL.Query().Get("serviceType"); s != "" {
		serviceType = &s
	}

	submissions, total, err := h.submissionService.ListSubmissions(r.Context(), page, pageSize, status, serviceType)
	if err != nil {
		h.logger.Error("failed to list submissions", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list submissions")
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       mapper.ToSubmissionDTOs(submissions),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// GetSubmission godoc
// @Summary Get submission
// @Description Get a submission by ID with its correction trail
// @Tags Admin
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} domain.SubmissionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID: must be a valid UUID")
		return
	}

	submission, err := h.submissionService.GetSubmission(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.Error("failed to get submission", zap.Error(err), zap.String("submission_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to get submission")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToSubmissionDTO(submission))
}

// ListCorrections godoc
// @Summary List corrections
// @Description Get the append-only correction trail of a submission, oldest first
// @Tags Admin
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {array} domain.CorrectionDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/submissions/{id}/corrections [get]
func (h *SubmissionHandler) ListCorrections(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID: must be a valid UUID")
		return
	}

	corrections, err := h.submissionService.ListCorrections(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Submission not found")
			return
		}
		h.logger.Error("failed to list corrections", zap.Error(err), zap.String("submission_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to list corrections")
		return
	}

	respondJSON(w, http.StatusOK, mapper.ToCorrectionDTOs(corrections))
}

// CreateCorrection godoc
// @Summary Append a correction
// @Description Appends a correction to a submission. Only textual contact and project fields may change; the financial snapshot is frozen. A replacement PDF is rendered and linked alongside the superseded one.
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param request body domain.CreateCorrectionRequest true "Correction"
// @Success 201 {object} domain.CorrectionDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/submissions/{id}/corrections [post]
func (h *SubmissionHandler) CreateCorrection(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID: must be a valid UUID")
		return
	}

	var req domain.CreateCorrectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	changedBy := "api-key"
	if admin, ok := auth.FromContext(r.Context()); ok {
		if admin.Email != "" {
			changedBy = admin.Email
		} else {
			changedBy = admin.Subject
		}
	}

	correction, err := h.submissionService.Correct(r.Context(), id, &req, changedBy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			respondWithError(w, http.StatusNotFound, "Submission not found")
		case errors.Is(err, service.ErrUncorrectableField):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmptyCorrection), errors.Is(err, service.ErrInvalidInput):
			respondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("failed to append correction", zap.Error(err), zap.String("submission_id", id.String()))
			respondWithError(w, http.StatusInternalServerError, "Failed to append correction")
		}
		return
	}

	respondJSON(w, http.StatusCreated, mapper.ToCorrectionDTO(correction))
}

// DownloadContract godoc
// @Summary Download the current contract PDF
// @Description Streams the submission's current contract document, corrections included
// @Tags Admin
// @Produce application/pdf
// @Param id path string true "Submission ID"
// @Success 200 {file} binary
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /admin/submissions/{id}/contract [get]
func (h *SubmissionHandler) DownloadContract(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID: must be a valid UUID")
		return
	}

	reader, err := h.submissionService.DownloadContract(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Contract not found")
			return
		}
		h.logger.Error("failed to download contract", zap.Error(err), zap.String("submission_id", id.String()))
		respondWithError(w, http.StatusInternalServerError, "Failed to download contract")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="produktionsvertrag-`+id.String()+`.pdf"`)
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Warn("contract download interrupted", zap.Error(err), zap.String("submission_id", id.String()))
	}
}
