package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/schema"
)

// LeadRepository persists sales leads captured from submissions.
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	FindAll(ctx context.Context, status string) ([]model.Lead, error)
	UpdateStatus(ctx context.Context, id, status string) (*model.Lead, error)
}

type leadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) LeadRepository {
	return &leadRepository{db: db}
}

func (r *leadRepository) Create(ctx context.Context, lead *model.Lead) error {
	if lead.ID == "" {
		lead.ID = uuid.NewString()
	}
	if lead.Status == "" {
		lead.Status = model.LeadStatusNew
	}
	if err := r.db.WithContext(ctx).Create(lead).Error; err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	return nil
}

func (r *leadRepository) FindAll(ctx context.Context, status string) ([]model.Lead, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var rows []model.Lead
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return rows, nil
}

func (r *leadRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.WithContext(ctx).First(&lead, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &schema.NotFoundError{Kind: "lead", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load lead %s: %w", id, err)
	}
	lead.Status = status
	if err := r.db.WithContext(ctx).Save(&lead).Error; err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}
	return &lead, nil
}
