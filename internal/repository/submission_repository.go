package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mhoang/assessforms/internal/model"
)

// SubmissionRepository persists committed answer records.
type SubmissionRepository interface {
	Create(ctx context.Context, formID string, record map[string]any) (*model.Submission, error)
	FindByFormID(ctx context.Context, formID string) ([]model.Submission, error)
	FindAll(ctx context.Context, limit, offset int) ([]model.Submission, error)
	FindByID(ctx context.Context, id string) (*model.Submission, error)
}

type submissionRepository struct {
	db *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, formID string, record map[string]any) (*model.Submission, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("encode submission record: %w", err)
	}
	row := model.Submission{
		ID:          uuid.NewString(),
		FormID:      formID,
		Record:      data,
		SubmittedAt: time.Now().UTC(),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, fmt.Errorf("create submission for form %s: %w", formID, err)
	}
	return &row, nil
}

func (r *submissionRepository) FindByFormID(ctx context.Context, formID string) ([]model.Submission, error) {
	var rows []model.Submission
	err := r.db.WithContext(ctx).
		Where("form_id = ?", formID).
		Order("submitted_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions for form %s: %w", formID, err)
	}
	return rows, nil
}

func (r *submissionRepository) FindAll(ctx context.Context, limit, offset int) ([]model.Submission, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var rows []model.Submission
	err := r.db.WithContext(ctx).
		Order("submitted_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return rows, nil
}

func (r *submissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	var row model.Submission
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("load submission %s: %w", id, err)
	}
	return &row, nil
}
