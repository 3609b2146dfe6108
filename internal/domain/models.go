package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/napoleonmm83/emmotion-api/internal/pricing"
	"gorm.io/gorm"
)

// BaseModel carries the common identity and timestamp columns.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID so inserts do not rely on a database default.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// SubmissionStatus represents the lifecycle state of a signed submission.
// Corrections never move a submission back to signed; the original record
// stays untouched and the correction trail grows.
type SubmissionStatus string

const (
	SubmissionStatusSigned    SubmissionStatus = "signed"
	SubmissionStatusCorrected SubmissionStatus = "corrected"
)

// IsValid checks if the SubmissionStatus is a valid enum value
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusSigned, SubmissionStatusCorrected:
		return true
	}
	return false
}

// Submission is the immutable record created once a contract is signed and
// accepted. Financial fields are frozen at signature time; later automation
// results (PDF path, invoice references, email flags) are appended via
// dedicated patch methods, and any human correction goes through
// SubmissionCorrection.
type Submission struct {
	BaseModel
	Status SubmissionStatus `gorm:"type:varchar(20);not null;default:'signed';index"`

	// Client contact block (sanitized before persistence).
	ClientName    string `gorm:"type:varchar(200);not null"`
	ClientCompany string `gorm:"type:varchar(200)"`
	ClientEmail   string `gorm:"type:varchar(255);not null;index"`
	ClientPhone   string `gorm:"type:varchar(50);not null"`
	ClientStreet  string `gorm:"type:varchar(200);not null"`
	ClientZip     string `gorm:"type:varchar(20);not null"`
	ClientCity    string `gorm:"type:varchar(100);not null"`

	// Project block.
	ProjectName        string `gorm:"type:varchar(200);not null"`
	ProjectDescription string `gorm:"type:text"`
	BudgetBucket       string `gorm:"type:varchar(50)"`
	ShootingDate       string `gorm:"type:varchar(30)"`
	Deadline           string `gorm:"type:varchar(30)"`

	// Configuration snapshot.
	ServiceType    pricing.ServiceType `gorm:"type:varchar(50);not null;index"`
	Duration       pricing.Duration    `gorm:"type:varchar(20);not null"`
	Complexity     pricing.Complexity  `gorm:"type:varchar(20);not null"`
	Extras         pq.StringArray      `gorm:"type:text[]"`
	ServiceAnswers string              `gorm:"type:jsonb;column:service_answers"`

	// Pricing snapshot, recomputed server side at signature time.
	Breakdown         string `gorm:"type:jsonb"`
	TotalPrice        int    `gorm:"not null"`
	DepositPercentage int    `gorm:"not null;column:deposit_percentage"`
	DepositAmount     int    `gorm:"not null;column:deposit_amount"`
	RemainingAmount   int    `gorm:"not null;column:remaining_amount"`
	EstimatedDays     int    `gorm:"not null;column:estimated_days"`

	// Signature capture.
	ContractVersion string    `gorm:"type:varchar(100);not null;column:contract_version"`
	SignaturePath   string    `gorm:"type:varchar(500);column:signature_path"`
	SignedAt        time.Time `gorm:"not null;column:signed_at"`
	ClientIP        string    `gorm:"type:varchar(64);column:client_ip"`
	UserAgent       string    `gorm:"type:varchar(500);column:user_agent"`

	// Appended by the pipeline after creation.
	PDFPath           *string `gorm:"type:varchar(500);column:pdf_path"`
	InvoiceContactRef *string `gorm:"type:varchar(100);column:invoice_contact_ref"`
	InvoiceRef        *string `gorm:"type:varchar(100);column:invoice_ref"`
	EmailsSent        bool    `gorm:"not null;default:false;column:emails_sent"`

	Corrections []SubmissionCorrection `gorm:"foreignKey:SubmissionID"`
}

// SubmissionCorrection is one append-only entry in a submission's audit
// trail. It records what changed, who changed it, and links both the
// superseded and the replacement contract PDF.
type SubmissionCorrection struct {
	ID           uuid.UUID   `gorm:"type:uuid;primary_key"`
	SubmissionID uuid.UUID   `gorm:"type:uuid;not null;index;column:submission_id"`
	Submission   *Submission `gorm:"foreignKey:SubmissionID"`
	ChangedBy    string      `gorm:"type:varchar(200);not null;column:changed_by"`
	Reason       string      `gorm:"type:text;not null"`
	FieldChanges string      `gorm:"type:jsonb;not null;column:field_changes"`
	PreviousPDF  *string     `gorm:"type:varchar(500);column:previous_pdf_path"`
	NewPDF       *string     `gorm:"type:varchar(500);column:new_pdf_path"`
	CreatedAt    time.Time   `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns the ID so inserts do not rely on a database default.
func (c *SubmissionCorrection) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name to match the migration
func (SubmissionCorrection) TableName() string {
	return "submission_corrections"
}
