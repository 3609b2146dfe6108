package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/logger"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

// correctableFields are the columns a correction may change. The
// configuration and financial snapshot of the original submission are
// frozen; price adjustments are recorded in the trail and rendered into
// the replacement PDF without rewriting the signed record.
var correctableFields = map[string]struct{}{
	"clientName":         {},
	"clientCompany":      {},
	"clientEmail":        {},
	"clientPhone":        {},
	"clientStreet":       {},
	"clientZip":          {},
	"clientCity":         {},
	"projectName":        {},
	"projectDescription": {},
	"shootingDate":       {},
	"deadline":           {},
}

// Correct appends a correction to a submission's audit trail. The
// original record keeps its financial snapshot; the correction entry
// records old and new values, and a replacement PDF is rendered from
// the corrected view and linked alongside the superseded one.
func (s *SubmissionService) Correct(ctx context.Context, submissionID uuid.UUID, req *domain.CreateCorrectionRequest, changedBy string) (*domain.SubmissionCorrection, error) {
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(req.FieldChanges) == 0 {
		return nil, ErrEmptyCorrection
	}

	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	corrected := *submission
	changes := make(map[string]map[string]string, len(req.FieldChanges))
	for field, raw := range req.FieldChanges {
		if _, ok := correctableFields[field]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUncorrectableField, field)
		}
		value, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s must be a string", ErrInvalidInput, field)
		}
		value = sanitizeText(value, maxLongField)
		changes[field] = map[string]string{
			"old": readCorrectableField(submission, field),
			"new": value,
		}
		applyCorrectableField(&corrected, field, value)
	}

	log := logger.WithSubmission(s.logger, submissionID.String())

	// Render the replacement contract from the corrected view. The
	// signature image is not re-captured; the replacement references
	// the original signature by its stored path.
	revisions, err := s.corrections.CountBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	revision := int(revisions) + 2
	_, newPDFPath := s.renderAndStoreContract(ctx, log, &corrected, s.snapshots.Get(ctx).Clauses, nil, "", revision)

	fieldChanges, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode field changes: %w", err)
	}

	correction := &domain.SubmissionCorrection{
		SubmissionID: submissionID,
		ChangedBy:    changedBy,
		Reason:       sanitizeText(req.Reason, maxLongField),
		FieldChanges: string(fieldChanges),
		PreviousPDF:  submission.PDFPath,
	}
	if newPDFPath != "" {
		correction.NewPDF = &newPDFPath
	}

	if err := s.corrections.Create(ctx, correction); err != nil {
		return nil, fmt.Errorf("failed to append correction: %w", err)
	}
	if err := s.submissions.MarkCorrected(ctx, submissionID); err != nil {
		log.Warn("Failed to flip submission status to corrected", zap.Error(err))
	}
	if newPDFPath != "" {
		if err := s.submissions.SetPDFPath(ctx, submissionID, newPDFPath); err != nil {
			log.Warn("Failed to point submission at replacement PDF", zap.Error(err))
		}
	}

	if s.mailer != nil {
		if err := s.mailer.SendCorrectionNotice(ctx, &corrected, correction.Reason, nil); err != nil {
			log.Warn("Correction notice mail failed", zap.Error(err))
		}
	}

	log.Info("Correction appended",
		zap.String("changed_by", changedBy),
		zap.Int("fields", len(changes)),
		zap.Int("revision", revision))
	return correction, nil
}

// ListCorrections returns a submission's correction trail, oldest first.
func (s *SubmissionService) ListCorrections(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionCorrection, error) {
	if _, err := s.GetSubmission(ctx, submissionID); err != nil {
		return nil, err
	}
	return s.corrections.ListBySubmission(ctx, submissionID)
}

// DownloadContract streams a submission's current contract PDF.
func (s *SubmissionService) DownloadContract(ctx context.Context, submissionID uuid.UUID) (io.ReadCloser, error) {
	submission, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if submission.PDFPath == nil || *submission.PDFPath == "" {
		return nil, ErrNotFound
	}
	return s.store.Download(ctx, *submission.PDFPath)
}

func readCorrectableField(submission *domain.Submission, field string) string {
	switch field {
	case "clientName":
		return submission.ClientName
	case "clientCompany":
		return submission.ClientCompany
	case "clientEmail":
		return submission.ClientEmail
	case "clientPhone":
		return submission.ClientPhone
	case "clientStreet":
		return submission.ClientStreet
	case "clientZip":
		return submission.ClientZip
	case "clientCity":
		return submission.ClientCity
	case "projectName":
		return submission.ProjectName
	case "projectDescription":
		return submission.ProjectDescription
	case "shootingDate":
		return submission.ShootingDate
	case "deadline":
		return submission.Deadline
	}
	return ""
}

func applyCorrectableField(submission *domain.Submission, field, value string) {
	switch field {
	case "clientName":
		submission.ClientName = value
	case "clientCompany":
		submission.ClientCompany = value
	case "clientEmail":
		submission.ClientEmail = value
	case "clientPhone":
		submission.ClientPhone = value
	case "clientStreet":
		submission.ClientStreet = value
	case "clientZip":
		submission.ClientZip = value
	case "clientCity":
		submission.ClientCity = value
	case "projectName":
		submission.ProjectName = value
	case "projectDescription":
		submission.ProjectDescription = value
	case "shootingDate":
		submission.ShootingDate = value
	case "deadline":
		submission.Deadline = value
	}
}

// formDataFromSubmission reconstructs the wizard form view of a
// persisted submission for contract rendering.
func formDataFromSubmission(submission *domain.Submission) domain.OnboardingFormData {
	extras := make(map[pricing.ExtraID]bool, len(submission.Extras))
	for _, id := range submission.Extras {
		extras[pricing.ExtraID(id)] = true
	}
	answers := map[string]string{}
	if submission.ServiceAnswers != "" {
		_ = json.Unmarshal([]byte(submission.ServiceAnswers), &answers)
	}

	return domain.OnboardingFormData{
		ServiceType: submission.ServiceType,
		ProjectDetails: domain.ProjectDetails{
			ProjectName:  submission.ProjectName,
			Description:  submission.ProjectDescription,
			BudgetBucket: submission.BudgetBucket,
			ShootingDate: submission.ShootingDate,
			Deadline:     submission.Deadline,
		},
		Duration:       submission.Duration,
		Complexity:     submission.Complexity,
		Extras:         extras,
		ServiceAnswers: answers,
		ClientInfo:     clientInfoFromSubmission(submission),
		TermsAccepted:  true,
	}
}

func clientInfoFromSubmission(submission *domain.Submission) domain.ClientInfo {
	return domain.ClientInfo{
		Name:    submission.ClientName,
		Company: submission.ClientCompany,
		Email:   submission.ClientEmail,
		Phone:   submission.ClientPhone,
		Street:  submission.ClientStreet,
		Zip:     submission.ClientZip,
		City:    submission.ClientCity,
	}
}

// pricingFromSubmission reconstructs the frozen pricing result of a
// persisted submission.
func pricingFromSubmission(submission *domain.Submission) pricing.Result {
	var breakdown []pricing.BreakdownLine
	if submission.Breakdown != "" {
		_ = json.Unmarshal([]byte(submission.Breakdown), &breakdown)
	}
	return pricing.Result{
		Breakdown:         breakdown,
		TotalPrice:        submission.TotalPrice,
		DepositPercentage: submission.DepositPercentage,
		DepositAmount:     submission.DepositAmount,
		RemainingAmount:   submission.RemainingAmount,
		EstimatedDays:     submission.EstimatedDays,
	}
}
