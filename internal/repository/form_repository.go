package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/schema"
)

// FormRepository persists form schemas. It satisfies builder.Store, so the
// form engine never sees gorm.
type FormRepository interface {
	SaveForm(ctx context.Context, form *schema.Form) error
	LoadForm(ctx context.Context, id string) (*schema.Form, error)
	FindAll(ctx context.Context) ([]model.Form, error)
	Delete(ctx context.Context, id string) error
}

type formRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) FormRepository {
	return &formRepository{db: db}
}

func (r *formRepository) SaveForm(ctx context.Context, form *schema.Form) error {
	data, err := json.Marshal(schema.Serialize(form))
	if err != nil {
		return fmt.Errorf("encode form schema: %w", err)
	}
	row := model.Form{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Status:      string(form.Status),
		Schema:      data,
		CreatedAt:   form.CreatedAt,
		UpdatedAt:   form.UpdatedAt,
	}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("save form %s: %w", form.ID, err)
	}
	return nil
}

func (r *formRepository) LoadForm(ctx context.Context, id string) (*schema.Form, error) {
	var row model.Form
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &schema.NotFoundError{Kind: "form", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("load form %s: %w", id, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(row.Schema, &raw); err != nil {
		return nil, &schema.SchemaError{Reason: "stored schema is not valid JSON"}
	}
	return schema.Deserialize(raw)
}

func (r *formRepository) FindAll(ctx context.Context) ([]model.Form, error) {
	var rows []model.Form
	err := r.db.WithContext(ctx).
		Select("id", "title", "description", "status", "created_at", "updated_at").
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	return rows, nil
}

func (r *formRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&model.Form{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete form %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return &schema.NotFoundError{Kind: "form", ID: id}
	}
	return nil
}
