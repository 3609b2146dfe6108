package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/invoicing"
	"github.com/napoleonmm83/emmotion-api/internal/logger"
	"github.com/napoleonmm83/emmotion-api/internal/pdf"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"github.com/napoleonmm83/emmotion-api/internal/storage"
)

var validate = validator.New()

// ContractRenderer renders the production contract document.
type ContractRenderer interface {
	Render(data pdf.ContractData) ([]byte, error)
}

// SubmissionStore persists submission records.
type SubmissionStore interface {
	Create(ctx context.Context, submission *domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error)
	List(ctx context.Context, page, pageSize int, status *domain.SubmissionStatus, serviceType *string) ([]domain.Submission, int64, error)
	SetPDFPath(ctx context.Context, id uuid.UUID, pdfPath string) error
	SetInvoiceRefs(ctx context.Context, id uuid.UUID, contactRef, invoiceRef string) error
	SetEmailsSent(ctx context.Context, id uuid.UUID) error
	MarkCorrected(ctx context.Context, id uuid.UUID) error
}

// CorrectionStore persists the append-only correction trail.
type CorrectionStore interface {
	Create(ctx context.Context, correction *domain.SubmissionCorrection) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionCorrection, error)
	CountBySubmission(ctx context.Context, submissionID uuid.UUID) (int64, error)
}

// Invoicer raises deposit invoices in the external accounting system.
type Invoicer interface {
	EnsureContact(ctx context.Context, info domain.ClientInfo) (*invoicing.Contact, error)
	CreateDepositInvoice(ctx context.Context, contactID int, deposit invoicing.DepositInvoice) (*invoicing.Invoice, error)
	IssueAndSend(ctx context.Context, invoiceID int) error
}

// Mailer sends the transactional onboarding mails.
type Mailer interface {
	SendClientConfirmation(ctx context.Context, submission *domain.Submission, contractPDF []byte) error
	SendOwnerNotification(ctx context.Context, submission *domain.Submission, contractPDF []byte) error
	SendCorrectionNotice(ctx context.Context, submission *domain.Submission, reason string, contractPDF []byte) error
}

// SubmissionService runs the signed-contract pipeline. Only input
// validation is fatal; every later stage is best effort so a signed
// contract is never lost to a downstream outage.
type SubmissionService struct {
	snapshots   SnapshotSource
	renderer    ContractRenderer
	store       storage.Storage
	submissions SubmissionStore
	corrections CorrectionStore
	invoicer    Invoicer
	mailer      Mailer
	logger      *zap.Logger
}

func NewSubmissionService(
	snapshots SnapshotSource,
	renderer ContractRenderer,
	store storage.Storage,
	submissions SubmissionStore,
	corrections CorrectionStore,
	invoicer Invoicer,
	mailer Mailer,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		snapshots:   snapshots,
		renderer:    renderer,
		store:       store,
		submissions: submissions,
		corrections: corrections,
		invoicer:    invoicer,
		mailer:      mailer,
		logger:      logger,
	}
}

// Submit accepts a signed contract and runs the pipeline: validate,
// sanitize, render and store the PDF, persist the record, raise the
// deposit invoice, send the mails. The response reports success once
// the signature is accepted, regardless of best-effort failures.
func (s *SubmissionService) Submit(ctx context.Context, req *domain.SubmitContractRequest, clientIP, userAgent string) (*domain.SubmitContractResponse, error) {
	// Step 1: validation is the only fatal stage. Nothing has side
	// effects before this point.
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validate.Struct(&req.FormData); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !req.FormData.TermsAccepted {
		return nil, ErrTermsNotAccepted
	}

	signature, signatureType, err := pdf.DecodeSignatureDataURL(req.SignatureDataURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingSignature, err)
	}

	snapshot := s.snapshots.Get(ctx)
	if err := validateConfiguration(req.FormData.Configuration(), snapshot.Rules); err != nil {
		return nil, err
	}

	// Step 2: sanitize before anything reaches the PDF, the database
	// or outbound mail.
	sanitizeFormData(&req.FormData)

	// Pricing is always recomputed server side; the client's result is
	// advisory only.
	result := pricing.Compute(req.FormData.Configuration(), snapshot.Rules)
	if req.Pricing != nil && req.Pricing.TotalPrice != result.TotalPrice {
		s.logger.Warn("Client pricing differs from server computation, using server values",
			zap.Int("client_total", req.Pricing.TotalPrice),
			zap.Int("server_total", result.TotalPrice))
	}

	submission, err := buildSubmission(&req.FormData, result, snapshot.ContractVersion, clientIP, userAgent)
	if err != nil {
		return nil, err
	}
	submission.ID = uuid.New()
	log := logger.WithSubmission(s.logger, submission.ID.String())

	// Step 3: contract PDF. A rendering or upload failure must not
	// lose the submission.
	contractPDF, pdfPath := s.renderAndStoreContract(ctx, log, submission, snapshot.Clauses, signature, signatureType, 1)
	if pdfPath != "" {
		submission.PDFPath = &pdfPath
	}
	s.storeSignature(ctx, log, submission, signature, signatureType)

	// Step 4: persistence. A failure here is the most serious partial
	// failure; the mails below become the fallback record.
	persisted := true
	if err := s.submissions.Create(ctx, submission); err != nil {
		persisted = false
		log.Error("Failed to persist signed submission, mails are the only record",
			zap.Error(err))
	}

	// Step 5: deposit invoice, fully best effort.
	invoiceRef := s.raiseDepositInvoice(ctx, log, submission, persisted)

	// Step 6: confirmation mails.
	emailsSent := s.sendSubmissionMails(ctx, log, submission, contractPDF, persisted)
	submission.EmailsSent = emailsSent

	response := &domain.SubmitContractResponse{
		Success:      true,
		Message:      domain.MsgSubmitAccepted,
		SubmissionID: submission.ID.String(),
		EmailsSent:   emailsSent,
	}
	if pdfPath != "" {
		response.PDFURL = &pdfPath
	}
	if invoiceRef != "" {
		response.InvoiceReference = &invoiceRef
	}

	log.Info("Submission accepted",
		zap.String("service_type", string(submission.ServiceType)),
		zap.Int("total_price", submission.TotalPrice),
		zap.Bool("pdf_stored", pdfPath != ""),
		zap.Bool("persisted", persisted),
		zap.Bool("invoiced", invoiceRef != ""),
		zap.Bool("emails_sent", emailsSent))
	return response, nil
}

func (s *SubmissionService) renderAndStoreContract(
	ctx context.Context,
	log *zap.Logger,
	submission *domain.Submission,
	clauses []content.Clause,
	signature []byte,
	signatureType string,
	revision int,
) (contractPDF []byte, pdfPath string) {
	data := pdf.ContractData{
		SubmissionID:    submission.ID.String(),
		FormData:        formDataFromSubmission(submission),
		Pricing:         pricingFromSubmission(submission),
		Clauses:         clauses,
		ContractVersion: submission.ContractVersion,
		SignaturePNG:    signature,
		SignatureType:   signatureType,
		SignedAt:        submission.SignedAt,
	}

	rendered, err := s.renderer.Render(data)
	if err != nil {
		log.Error("Contract PDF rendering failed, continuing without document", zap.Error(err))
		return nil, ""
	}

	path := storage.ContractPDFPath(submission.ID.String(), revision)
	if _, err := s.store.Upload(ctx, path, "application/pdf", bytes.NewReader(rendered)); err != nil {
		log.Error("Contract PDF upload failed, continuing without document", zap.Error(err))
		return rendered, ""
	}
	return rendered, path
}

func (s *SubmissionService) storeSignature(ctx context.Context, log *zap.Logger, submission *domain.Submission, signature []byte, signatureType string) {
	path := storage.SignaturePath(submission.ID.String(), signatureType)
	contentType := "image/png"
	if signatureType == "JPG" {
		contentType = "image/jpeg"
	}
	if _, err := s.store.Upload(ctx, path, contentType, bytes.NewReader(signature)); err != nil {
		log.Warn("Signature image upload failed", zap.Error(err))
		return
	}
	submission.SignaturePath = path
}

func (s *SubmissionService) raiseDepositInvoice(ctx context.Context, log *zap.Logger, submission *domain.Submission, persisted bool) string {
	if s.invoicer == nil {
		return ""
	}

	contact, err := s.invoicer.EnsureContact(ctx, clientInfoFromSubmission(submission))
	if err != nil {
		log.Warn("Accounting contact lookup failed, submission continues without invoice", zap.Error(err))
		return ""
	}

	invoice, err := s.invoicer.CreateDepositInvoice(ctx, contact.ID, invoicing.DepositInvoice{
		SubmissionID:      submission.ID.String(),
		ProjectName:       submission.ProjectName,
		TotalPrice:        submission.TotalPrice,
		DepositPercentage: submission.DepositPercentage,
		DepositAmount:     submission.DepositAmount,
	})
	if err != nil {
		log.Warn("Deposit invoice creation failed, submission continues without invoice", zap.Error(err))
		return ""
	}

	if err := s.invoicer.IssueAndSend(ctx, invoice.ID); err != nil {
		log.Warn("Deposit invoice issue/send failed", zap.Error(err))
	}

	contactRef := strconv.Itoa(contact.ID)
	invoiceRef := invoice.DocumentNr
	submission.InvoiceContactRef = &contactRef
	submission.InvoiceRef = &invoiceRef
	if persisted {
		if err := s.submissions.SetInvoiceRefs(ctx, submission.ID, contactRef, invoiceRef); err != nil {
			log.Warn("Failed to patch invoice references", zap.Error(err))
		}
	}
	return invoiceRef
}

func (s *SubmissionService) sendSubmissionMails(ctx context.Context, log *zap.Logger, submission *domain.Submission, contractPDF []byte, persisted bool) bool {
	if s.mailer == nil {
		return false
	}

	ok := true
	if err := s.mailer.SendClientConfirmation(ctx, submission, contractPDF); err != nil {
		ok = false
		log.Error("Client confirmation mail failed", zap.Error(err))
	}
	if err := s.mailer.SendOwnerNotification(ctx, submission, contractPDF); err != nil {
		ok = false
		log.Error("Owner notification mail failed", zap.Error(err))
	}

	if ok && persisted {
		if err := s.submissions.SetEmailsSent(ctx, submission.ID); err != nil {
			log.Warn("Failed to patch emails-sent flag", zap.Error(err))
		}
	}
	return ok
}

func buildSubmission(form *domain.OnboardingFormData, result pricing.Result, contractVersion, clientIP, userAgent string) (*domain.Submission, error) {
	answers, err := json.Marshal(form.ServiceAnswers)
	if err != nil {
		return nil, fmt.Errorf("failed to encode service answers: %w", err)
	}
	breakdown, err := json.Marshal(result.Breakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode breakdown: %w", err)
	}

	extras := make(pq.StringArray, 0, len(form.Extras))
	for _, id := range pricing.CanonicalExtraOrder {
		if form.Extras[id] {
			extras = append(extras, string(id))
		}
	}

	return &domain.Submission{
		Status:             domain.SubmissionStatusSigned,
		ClientName:         form.ClientInfo.Name,
		ClientCompany:      form.ClientInfo.Company,
		ClientEmail:        form.ClientInfo.Email,
		ClientPhone:        form.ClientInfo.Phone,
		ClientStreet:       form.ClientInfo.Street,
		ClientZip:          form.ClientInfo.Zip,
		ClientCity:         form.ClientInfo.City,
		ProjectName:        form.ProjectDetails.ProjectName,
		ProjectDescription: form.ProjectDetails.Description,
		BudgetBucket:       form.ProjectDetails.BudgetBucket,
		ShootingDate:       form.ProjectDetails.ShootingDate,
		Deadline:           form.ProjectDetails.Deadline,
		ServiceType:        form.ServiceType,
		Duration:           form.Duration,
		Complexity:         form.Complexity,
		Extras:             extras,
		ServiceAnswers:     string(answers),
		Breakdown:          string(breakdown),
		TotalPrice:         result.TotalPrice,
		DepositPercentage:  result.DepositPercentage,
		DepositAmount:      result.DepositAmount,
		RemainingAmount:    result.RemainingAmount,
		EstimatedDays:      result.EstimatedDays,
		ContractVersion:    contractVersion,
		SignedAt:           time.Now().UTC(),
		ClientIP:           clientIP,
		UserAgent:          userAgent,
	}, nil
}

// GetSubmission loads one submission with its correction trail.
func (s *SubmissionService) GetSubmission(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return submission, nil
}

// ListSubmissions returns a page of submissions, newest first.
func (s *SubmissionService) ListSubmissions(ctx context.Context, page, pageSize int, status *domain.SubmissionStatus, serviceType *string) ([]domain.Submission, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.submissions.List(ctx, page, pageSize, status, serviceType)
}
