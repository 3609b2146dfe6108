package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

type SubmissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission *domain.Submission) error {
	return r.db.WithContext(ctx).Create(submission).Error
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Submission, error) {
	var submission domain.Submission
	err := r.db.WithContext(ctx).
		Preload("Corrections", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *SubmissionRepository) List(ctx context.Context, page, pageSize int, status *domain.SubmissionStatus, serviceType *string) ([]domain.Submission, int64, error) {
	var submissions []domain.Submission
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Submission{})

	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if serviceType != nil {
		query = query.Where("service_type = ?", *serviceType)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Order("created_at DESC").Find(&submissions).Error

	return submissions, total, err
}

// SetPDFPath records the rendered contract's storage path. The pricing
// and form columns stay untouched.
func (r *SubmissionRepository) SetPDFPath(ctx context.Context, id uuid.UUID, pdfPath string) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		Update("pdf_path", pdfPath).Error
}

// SetInvoiceRefs records the accounting references once the deposit
// invoice exists.
func (r *SubmissionRepository) SetInvoiceRefs(ctx context.Context, id uuid.UUID, contactRef, invoiceRef string) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"invoice_contact_ref": contactRef,
			"invoice_ref":         invoiceRef,
		}).Error
}

// SetEmailsSent flags that both confirmation mails went out.
func (r *SubmissionRepository) SetEmailsSent(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		Update("emails_sent", true).Error
}

// MarkCorrected flips the lifecycle status after a correction was
// appended. It never changes any other column.
func (r *SubmissionRepository) MarkCorrected(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("id = ?", id).
		Update("status", domain.SubmissionStatusCorrected).Error
}

func (r *SubmissionRepository) CountByStatus(ctx context.Context, status domain.SubmissionStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Submission{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
