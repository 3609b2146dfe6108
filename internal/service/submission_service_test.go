package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/content"
	"github.com/napoleonmm83/emmotion-api/internal/domain"
	"github.com/napoleonmm83/emmotion-api/internal/invoicing"
	"github.com/napoleonmm83/emmotion-api/internal/pdf"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
)

type fakeSnapshots struct {
	snapshot *content.Snapshot
}

func (f *fakeSnapshots) Get(context.Context) *content.Snapshot { return f.snapshot }

type fakeRenderer struct {
	err   error
	calls int
}

func (f *fakeRenderer) Render(pdf.ContractData) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeStorage struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{uploads: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, path, _ string, data io.Reader) (int64, error) {
	if f.uploadErr != nil {
		return 0, f.uploadErr
	}
	raw, _ := io.ReadAll(data)
	f.mu.Lock()
	f.uploads[path] = raw
	f.mu.Unlock()
	return int64(len(raw)), nil
}

func (f *fakeStorage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.uploads[path]
	if !ok {
		return nil, errors.New("file not found")
	}
	return io.NopCloser(bytes.NewReader(raw)), nil
}

func (f *fakeStorage) Delete(context.Context, string) error { return nil }

type fakeSubmissionStore struct {
	created     []*domain.Submission
	createErr   error
	invoicedRef string
	emailsSent  bool
	corrected   bool
	pdfPatched  string
}

func (f *fakeSubmissionStore) Create(_ context.Context, s *domain.Submission) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, s)
	return nil
}

func (f *fakeSubmissionStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Submission, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeSubmissionStore) List(context.Context, int, int, *domain.SubmissionStatus, *string) ([]domain.Submission, int64, error) {
	out := make([]domain.Submission, len(f.created))
	for i, s := range f.created {
		out[i] = *s
	}
	return out, int64(len(out)), nil
}

func (f *fakeSubmissionStore) SetPDFPath(_ context.Context, _ uuid.UUID, path string) error {
	f.pdfPatched = path
	return nil
}

func (f *fakeSubmissionStore) SetInvoiceRefs(_ context.Context, _ uuid.UUID, _, invoiceRef string) error {
	f.invoicedRef = invoiceRef
	return nil
}

func (f *fakeSubmissionStore) SetEmailsSent(context.Context, uuid.UUID) error {
	f.emailsSent = true
	return nil
}

func (f *fakeSubmissionStore) MarkCorrected(context.Context, uuid.UUID) error {
	f.corrected = true
	return nil
}

type fakeCorrectionStore struct {
	entries []*domain.SubmissionCorrection
}

func (f *fakeCorrectionStore) Create(_ context.Context, c *domain.SubmissionCorrection) error {
	f.entries = append(f.entries, c)
	return nil
}

func (f *fakeCorrectionStore) ListBySubmission(_ context.Context, id uuid.UUID) ([]domain.SubmissionCorrection, error) {
	var out []domain.SubmissionCorrection
	for _, c := range f.entries {
		if c.SubmissionID == id {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCorrectionStore) CountBySubmission(_ context.Context, id uuid.UUID) (int64, error) {
	var count int64
	for _, c := range f.entries {
		if c.SubmissionID == id {
			count++
		}
	}
	return count, nil
}

type fakeInvoicer struct {
	contactErr error
	invoiceErr error
	sendErr    error
	issued     bool
}

func (f *fakeInvoicer) EnsureContact(context.Context, domain.ClientInfo) (*invoicing.Contact, error) {
	if f.contactErr != nil {
		return nil, f.contactErr
	}
	return &invoicing.Contact{ID: 42}, nil
}

func (f *fakeInvoicer) CreateDepositInvoice(context.Context, int, invoicing.DepositInvoice) (*invoicing.Invoice, error) {
	if f.invoiceErr != nil {
		return nil, f.invoiceErr
	}
	return &invoicing.Invoice{ID: 9001, DocumentNr: "RE-2026-0042"}, nil
}

func (f *fakeInvoicer) IssueAndSend(context.Context, int) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.issued = true
	return nil
}

type fakeMailer struct {
	clientErr   error
	ownerErr    error
	clientSent  int
	ownerSent   int
	noticesSent int
}

func (f *fakeMailer) SendClientConfirmation(context.Context, *domain.Submission, []byte) error {
	if f.clientErr != nil {
		return f.clientErr
	}
	f.clientSent++
	return nil
}

func (f *fakeMailer) SendOwnerNotification(context.Context, *domain.Submission, []byte) error {
	if f.ownerErr != nil {
		return f.ownerErr
	}
	f.ownerSent++
	return nil
}

func (f *fakeMailer) SendCorrectionNotice(context.Context, *domain.Submission, string, []byte) error {
	f.noticesSent++
	return nil
}

type pipeline struct {
	service     *SubmissionService
	renderer    *fakeRenderer
	storage     *fakeStorage
	submissions *fakeSubmissionStore
	corrections *fakeCorrectionStore
	invoicer    *fakeInvoicer
	mailer      *fakeMailer
}

func newPipeline() *pipeline {
	p := &pipeline{
		renderer:    &fakeRenderer{},
		storage:     newFakeStorage(),
		submissions: &fakeSubmissionStore{},
		corrections: &fakeCorrectionStore{},
		invoicer:    &fakeInvoicer{},
		mailer:      &fakeMailer{},
	}
	p.service = NewSubmissionService(
		&fakeSnapshots{snapshot: content.DefaultSnapshot()},
		p.renderer,
		p.storage,
		p.submissions,
		p.corrections,
		p.invoicer,
		p.mailer,
		zap.NewNop(),
	)
	return p
}

func testSignatureDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("fake signature png"))
}

func validSubmitRequest() *domain.SubmitContractRequest {
	return &domain.SubmitContractRequest{
		FormData: domain.OnboardingFormData{
			ServiceType: pricing.ServiceImagefilm,
			ProjectDetails: domain.ProjectDetails{
				ProjectName:  "Imagefilm Zimmerei Muster",
				Description:  "Ein Imagefilm über unseren Familienbetrieb.",
				BudgetBucket: "2000-5000",
			},
			Duration:   pricing.DurationMedium,
			Complexity: pricing.ComplexityStandard,
			Extras:     map[pricing.ExtraID]bool{pricing.ExtraDroneFootage: true},
			ServiceAnswers: map[string]string{
				"target_audience": "Neukunden",
				"locations":       "2-3",
				"interviews":      "nein",
			},
			ClientInfo: domain.ClientInfo{
				Name:   "Martina Muster",
				Email:  "Martina@Muster-Zimmerei.ch",
				Phone:  "+41 79 123 45 67",
				Street: "Werkstrasse 12",
				Zip:    "3011",
				City:   "Bern",
			},
			TermsAccepted: true,
		},
		SignatureDataURL: testSignatureDataURL(),
		ContractVersion:  content.DefaultContractVersion,
	}
}

func TestSubmitHappyPath(t *testing.T) {
	p := newPipeline()

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "203.0.113.7", "Mozilla/5.0")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, domain.MsgSubmitAccepted, resp.Message)
	assert.NotEmpty(t, resp.SubmissionID)
	require.NotNil(t, resp.PDFURL)
	assert.Contains(t, *resp.PDFURL, "contract-v1.pdf")
	require.NotNil(t, resp.InvoiceReference)
	assert.Equal(t, "RE-2026-0042", *resp.InvoiceReference)
	assert.True(t, resp.EmailsSent)

	require.Len(t, p.submissions.created, 1)
	stored := p.submissions.created[0]
	assert.Equal(t, domain.SubmissionStatusSigned, stored.Status)
	assert.Equal(t, "203.0.113.7", stored.ClientIP)
	assert.Equal(t, "martina@muster-zimmerei.ch", stored.ClientEmail)
	assert.Equal(t, []string{"drone_footage"}, []string(stored.Extras))
	assert.NotNil(t, stored.PDFPath)
	assert.NotEmpty(t, stored.SignaturePath)

	// Server-computed totals: 2400 base + 400 drone = 2800.
	assert.Equal(t, 2800, stored.TotalPrice)
	assert.Equal(t, stored.DepositAmount+stored.RemainingAmount, stored.TotalPrice)

	assert.Equal(t, "RE-2026-0042", p.submissions.invoicedRef)
	assert.True(t, p.submissions.emailsSent)
	assert.True(t, p.invoicer.issued)
	assert.Equal(t, 1, p.mailer.clientSent)
	assert.Equal(t, 1, p.mailer.ownerSent)
	assert.Contains(t, p.storage.uploads, *stored.PDFPath)
	assert.Contains(t, p.storage.uploads, stored.SignaturePath)
}

func TestSubmitRecomputesPricingServerSide(t *testing.T) {
	p := newPipeline()
	req := validSubmitRequest()
	req.Pricing = &pricing.Result{TotalPrice: 1} // tampered client value

	resp, err := p.service.Submit(context.Background(), req, "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 2800, p.submissions.created[0].TotalPrice)
}

func TestSubmitRejectsMissingSignature(t *testing.T) {
	p := newPipeline()
	req := validSubmitRequest()
	req.SignatureDataURL = "data:image/png;base64,"

	_, err := p.service.Submit(context.Background(), req, "", "")

	assert.ErrorIs(t, err, ErrMissingSignature)
	assert.Empty(t, p.submissions.created)
	assert.Empty(t, p.storage.uploads)
}

func TestSubmitRejectsUnacceptedTerms(t *testing.T) {
	p := newPipeline()
	req := validSubmitRequest()
	req.FormData.TermsAccepted = false

	_, err := p.service.Submit(context.Background(), req, "", "")

	assert.ErrorIs(t, err, ErrTermsNotAccepted)
	assert.Empty(t, p.submissions.created)
}

func TestSubmitRejectsUnknownConfiguration(t *testing.T) {
	p := newPipeline()
	req := validSubmitRequest()
	req.FormData.Extras["popcorn_machine"] = true

	_, err := p.service.Submit(context.Background(), req, "", "")

	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Empty(t, p.submissions.created)
}

func TestSubmitRejectsMissingContactFields(t *testing.T) {
	p := newPipeline()
	req := validSubmitRequest()
	req.FormData.ClientInfo.Email = ""

	_, err := p.service.Submit(context.Background(), req, "", "")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, p.submissions.created)
}

func TestSubmitSurvivesPDFFailure(t *testing.T) {
	p := newPipeline()
	p.renderer.err = errors.New("font table corrupted")

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.PDFURL)

	// The record is persisted without a document reference; invoicing
	// and mail still run.
	require.Len(t, p.submissions.created, 1)
	assert.Nil(t, p.submissions.created[0].PDFPath)
	require.NotNil(t, resp.InvoiceReference)
	assert.True(t, resp.EmailsSent)
}

func TestSubmitSurvivesPersistenceFailure(t *testing.T) {
	p := newPipeline()
	p.submissions.createErr = errors.New("connection refused")

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)

	// Invoice and mails still go out as the fallback record, but no
	// patches are attempted against the missing row.
	require.NotNil(t, resp.InvoiceReference)
	assert.True(t, resp.EmailsSent)
	assert.Equal(t, 1, p.mailer.clientSent)
	assert.Empty(t, p.submissions.invoicedRef)
	assert.False(t, p.submissions.emailsSent)
}

func TestSubmitSurvivesInvoicingFailure(t *testing.T) {
	p := newPipeline()
	p.invoicer.contactErr = errors.New("accounting api down")

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.InvoiceReference)
	assert.True(t, resp.EmailsSent)
	require.Len(t, p.submissions.created, 1)
}

func TestSubmitSurvivesMailFailure(t *testing.T) {
	p := newPipeline()
	p.mailer.clientErr = errors.New("smtp timeout")

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.False(t, resp.EmailsSent)
	assert.False(t, p.submissions.emailsSent)
	// The owner mail is still attempted after the client mail failed.
	assert.Equal(t, 1, p.mailer.ownerSent)
}

func TestSubmitWithoutOptionalIntegrations(t *testing.T) {
	p := newPipeline()
	p.service = NewSubmissionService(
		&fakeSnapshots{snapshot: content.DefaultSnapshot()},
		p.renderer, p.storage, p.submissions, p.corrections,
		nil, nil, zap.NewNop(),
	)

	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")

	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.InvoiceReference)
	assert.False(t, resp.EmailsSent)
}

func TestCorrectAppendsTrailAndPreservesFinancials(t *testing.T) {
	p := newPipeline()
	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")
	require.NoError(t, err)
	id := uuid.MustParse(resp.SubmissionID)
	originalPDF := *p.submissions.created[0].PDFPath

	correction, err := p.service.Correct(context.Background(), id, &domain.CreateCorrectionRequest{
		Reason:       "Tippfehler im Projektnamen",
		FieldChanges: map[string]any{"projectName": "Imagefilm Zimmerei Muster AG"},
	}, "admin@emmotion.ch")

	require.NoError(t, err)
	assert.Equal(t, "admin@emmotion.ch", correction.ChangedBy)
	assert.Contains(t, correction.FieldChanges, `"old":"Imagefilm Zimmerei Muster"`)
	assert.Contains(t, correction.FieldChanges, `"new":"Imagefilm Zimmerei Muster AG"`)
	require.NotNil(t, correction.PreviousPDF)
	assert.Equal(t, originalPDF, *correction.PreviousPDF)
	require.NotNil(t, correction.NewPDF)
	assert.Contains(t, *correction.NewPDF, "contract-v2.pdf")

	assert.True(t, p.submissions.corrected)
	assert.Equal(t, *correction.NewPDF, p.submissions.pdfPatched)
	assert.Equal(t, 1, p.mailer.noticesSent)

	// The signed record's financial snapshot is untouched.
	assert.Equal(t, 2800, p.submissions.created[0].TotalPrice)
}

func TestCorrectRejectsFrozenFields(t *testing.T) {
	p := newPipeline()
	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")
	require.NoError(t, err)
	id := uuid.MustParse(resp.SubmissionID)

	_, err = p.service.Correct(context.Background(), id, &domain.CreateCorrectionRequest{
		Reason:       "Rabatt",
		FieldChanges: map[string]any{"totalPrice": 1000},
	}, "admin@emmotion.ch")

	assert.ErrorIs(t, err, ErrUncorrectableField)
	assert.Empty(t, p.corrections.entries)
}

func TestCorrectUnknownSubmission(t *testing.T) {
	p := newPipeline()

	_, err := p.service.Correct(context.Background(), uuid.New(), &domain.CreateCorrectionRequest{
		Reason:       "Adresse",
		FieldChanges: map[string]any{"clientCity": "Thun"},
	}, "admin@emmotion.ch")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCorrectionRevisionsIncrement(t *testing.T) {
	p := newPipeline()
	resp, err := p.service.Submit(context.Background(), validSubmitRequest(), "", "")
	require.NoError(t, err)
	id := uuid.MustParse(resp.SubmissionID)

	for i, city := range []string{"Thun", "Biel"} {
		correction, err := p.service.Correct(context.Background(), id, &domain.CreateCorrectionRequest{
			Reason:       "Adresse angepasst",
			FieldChanges: map[string]any{"clientCity": city},
		}, "admin@emmotion.ch")
		require.NoError(t, err)
		require.NotNil(t, correction.NewPDF)
		assert.Contains(t, *correction.NewPDF, "contract-v"+string(rune('2'+i))+".pdf")
	}

	trail, err := p.service.ListCorrections(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, trail, 2)
}
