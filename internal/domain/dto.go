package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

// ClientInfo is the contact block collected in the onboarding wizard.
type ClientInfo struct {
	Name    string `json:"name" validate:"required,max=200"`
	Company string `json:"company,omitempty" validate:"max=200"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Street  string `json:"street" validate:"required,max=200"`
	Zip     string `json:"zip" validate:"required,max=20"`
	City    string `json:"city" validate:"required,max=100"`
}

// ProjectDetails is the first wizard step. Shooting date and deadline are
// deliberately optional; they are settled in conversation later.
type ProjectDetails struct {
	ProjectName  string `json:"projectName" validate:"required,max=200"`
	Description  string `json:"description" validate:"required,max=4000"`
	BudgetBucket string `json:"budgetBucket" validate:"required,max=50"`
	ShootingDate string `json:"shootingDate,omitempty" validate:"max=30"`
	Deadline     string `json:"deadline,omitempty" validate:"max=30"`
}

// OnboardingFormData aggregates everything the wizard collects. It lives only
// in the client session until final submission; nothing is persisted server
// side before the signature step.
type OnboardingFormData struct {
	ServiceType    pricing.ServiceType      `json:"serviceType" validate:"required"`
	ProjectDetails ProjectDetails           `json:"projectDetails"`
	Duration       pricing.Duration         `json:"duration"`
	Complexity     pricing.Complexity       `json:"complexity"`
	Extras         map[pricing.ExtraID]bool `json:"extras"`
	ServiceAnswers map[string]string        `json:"serviceAnswers"`
	ClientInfo     ClientInfo               `json:"clientInfo"`
	TermsAccepted  bool                     `json:"termsAccepted"`
}

// Configuration derives the pricing input from the collected form data.
func (f *OnboardingFormData) Configuration() pricing.Configuration {
	return pricing.Configuration{
		ServiceType: f.ServiceType,
		Duration:    f.Duration,
		Complexity:  f.Complexity,
		Extras:      f.Extras,
	}
}

// QuoteRequest is the public configurator's input.
type QuoteRequest struct {
	ServiceType string   `json:"serviceType" validate:"required,max=50"`
	Duration    string   `json:"duration" validate:"required,max=50"`
	Complexity  string   `json:"complexity" validate:"required,max=50"`
	Extras      []string `json:"extras" validate:"max=10,dive,max=50"`
}

// Configuration converts the request's raw strings into a typed pricing
// configuration. Enum membership is checked by the quote service against the
// active rule tables, not here.
func (r *QuoteRequest) Configuration() pricing.Configuration {
	extras := make(map[pricing.ExtraID]bool, len(r.Extras))
	for _, e := range r.Extras {
		extras[pricing.ExtraID(e)] = true
	}
	return pricing.Configuration{
		ServiceType: pricing.ServiceType(r.ServiceType),
		Duration:    pricing.Duration(r.Duration),
		Complexity:  pricing.Complexity(r.Complexity),
		Extras:      extras,
	}
}

// QuoteResponse is the public configurator's output. The price is explicitly
// non-binding; the band communicates the negotiation margin.
type QuoteResponse struct {
	Pricing  pricing.Result `json:"pricing"`
	Currency string         `json:"currency"`
	Binding  bool           `json:"binding"`
	Version  string         `json:"configVersion"`
}

// SubmitContractRequest is the single server-side submission at the end of
// the wizard. The client-side pricing result is advisory; the server
// recomputes from FormData and the current rule snapshot.
type SubmitContractRequest struct {
	FormData         OnboardingFormData `json:"formData" validate:"required"`
	Pricing          *pricing.Result    `json:"pricing,omitempty"`
	SignatureDataURL string             `json:"signatureDataUrl" validate:"required"`
	ContractVersion  string             `json:"contractVersion" validate:"required,max=100"`
}

// SubmitContractResponse summarizes which pipeline stages succeeded. The
// caller shows a single success confirmation regardless of best-effort
// failures; the contract is formed once the signature is accepted.
type SubmitContractResponse struct {
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	SubmissionID     string  `json:"submissionId,omitempty"`
	PDFURL           *string `json:"pdfUrl"`
	EmailsSent       bool    `json:"emailsSent"`
	InvoiceReference *string `json:"invoiceReference,omitempty"`
}

// CreateCorrectionRequest records a post-signature change to a submission.
// The original financial fields are never touched; each correction is
// appended to the audit trail.
type CreateCorrectionRequest struct {
	Reason       string         `json:"reason" validate:"required,max=2000"`
	FieldChanges map[string]any `json:"fieldChanges" validate:"required,min=1"`
}

// SubmissionDTO is the admin-facing representation of a submission record.
type SubmissionDTO struct {
	ID                uuid.UUID               `json:"id"`
	Status            SubmissionStatus        `json:"status"`
	ServiceType       pricing.ServiceType     `json:"serviceType"`
	Duration          pricing.Duration        `json:"duration"`
	Complexity        pricing.Complexity      `json:"complexity"`
	Extras            []string                `json:"extras"`
	ProjectName       string                  `json:"projectName"`
	ClientName        string                  `json:"clientName"`
	ClientEmail       string                  `json:"clientEmail"`
	TotalPrice        int                     `json:"totalPrice"`
	DepositPercentage int                     `json:"depositPercentage"`
	DepositAmount     int                     `json:"depositAmount"`
	RemainingAmount   int                     `json:"remainingAmount"`
	EstimatedDays     int                     `json:"estimatedDays"`
	Breakdown         []pricing.BreakdownLine `json:"breakdown"`
	ContractVersion   string                  `json:"contractVersion"`
	PDFPath           *string                 `json:"pdfPath,omitempty"`
	InvoiceReference  *string                 `json:"invoiceReference,omitempty"`
	EmailsSent        bool                    `json:"emailsSent"`
	SignedAt          time.Time               `json:"signedAt"`
	CreatedAt         time.Time               `json:"createdAt"`
}

// CorrectionDTO is the admin-facing representation of a correction event.
type CorrectionDTO struct {
	ID           uuid.UUID      `json:"id"`
	SubmissionID uuid.UUID      `json:"submissionId"`
	ChangedBy    string         `json:"changedBy"`
	Reason       string         `json:"reason"`
	FieldChanges map[string]any `json:"fieldChanges"`
	PreviousPDF  *string        `json:"previousPdfPath,omitempty"`
	NewPDF       *string        `json:"newPdfPath,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// PaginatedResponse wraps any paginated list payload.
type PaginatedResponse struct {
	Data       any   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}
