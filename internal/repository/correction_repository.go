package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/napoleonmm83/emmotion-api/internal/domain"
)

type CorrectionRepository struct {
	db *gorm.DB
}

func NewCorrectionRepository(db *gorm.DB) *CorrectionRepository {
	return &CorrectionRepository{db: db}
}

// Create appends a correction entry. Corrections are never updated or
// deleted afterwards.
func (r *CorrectionRepository) Create(ctx context.Context, correction *domain.SubmissionCorrection) error {
	return r.db.WithContext(ctx).Create(correction).Error
}

func (r *CorrectionRepository) ListBySubmission(ctx context.Context, submissionID uuid.UUID) ([]domain.SubmissionCorrection, error) {
	var corrections []domain.SubmissionCorrection
	err := r.db.WithContext(ctx).
		Where("submission_id = ?", submissionID).
		Order("created_at ASC").
		Find(&corrections).Error
	return corrections, err
}

func (r *CorrectionRepository) CountBySubmission(ctx context.Context, submissionID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.SubmissionCorrection{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return count, err
}
