package mapper

import (
	"encoding/json"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

// ToSubmissionDTO converts a Submission to its admin-facing DTO.
func ToSubmissionDTO(submission *domain.Submission) domain.SubmissionDTO {
	var breakdown []pricing.BreakdownLine
	if submission.Breakdown != "" {
		_ = json.Unmarshal([]byte(submission.Breakdown), &breakdown)
	}

	return domain.SubmissionDTO{
		ID:                submission.ID,
		Status:            submission.Status,
		ServiceType:       submission.ServiceType,
		Duration:          submission.Duration,
		Complexity:        submission.Complexity,
		Extras:            submission.Extras,
		ProjectName:       submission.ProjectName,
		ClientName:        submission.ClientName,
		ClientEmail:       submission.ClientEmail,
		TotalPrice:        submission.TotalPrice,
		DepositPercentage: submission.DepositPercentage,
		DepositAmount:     submission.DepositAmount,
		RemainingAmount:   submission.RemainingAmount,
		EstimatedDays:     submission.EstimatedDays,
		Breakdown:         breakdown,
		ContractVersion:   submission.ContractVersion,
		PDFPath:           submission.PDFPath,
		InvoiceReference:  submission.InvoiceRef,
		EmailsSent:        submission.EmailsSent,
		SignedAt:          submission.SignedAt,
		CreatedAt:         submission.CreatedAt,
	}
}

// ToSubmissionDTOs converts a slice of submissions.
func ToSubmissionDTOs(submissions []domain.Submission) []domain.SubmissionDTO {
	dtos := make([]domain.SubmissionDTO, len(submissions))
	for i := range submissions {
		dtos[i] = ToSubmissionDTO(&submissions[i])
	}
	return dtos
}

// ToCorrectionDTO converts a SubmissionCorrection to its DTO.
func ToCorrectionDTO(correction *domain.SubmissionCorrection) domain.CorrectionDTO {
	fieldChanges := map[string]any{}
	if correction.FieldChanges != "" {
		_ = json.Unmarshal([]byte(correction.FieldChanges), &fieldChanges)
	}

	return domain.CorrectionDTO{
		ID:           correction.ID,
		SubmissionID: correction.SubmissionID,
		ChangedBy:    correction.ChangedBy,
		Reason:       correction.Reason,
		FieldChanges: fieldChanges,
		PreviousPDF:  correction.PreviousPDF,
		NewPDF:       correction.NewPDF,
		CreatedAt:    correction.CreatedAt,
	}
}

// ToCorrectionDTOs converts a slice of corrections.
func ToCorrectionDTOs(corrections []domain.SubmissionCorrection) []domain.CorrectionDTO {
	dtos := make([]domain.CorrectionDTO, len(corrections))
	for i := range corrections {
		dtos[i] = ToCorrectionDTO(&corrections[i])
	}
	return dtos
}
