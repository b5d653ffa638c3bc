package service

import (
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/schema"
)

// formToDTO flattens a schema.Form into its response shape, preserving
// section and question order exactly as stored.
func formToDTO(form *schema.Form, warnings []string) *dto.FormResponseDTO {
	resp := &dto.FormResponseDTO{
		ID:          form.ID,
		Title:       form.Title,
		Description: form.Description,
		Status:      string(form.Status),
		Sections:    make([]dto.SectionResponseDTO, 0, len(form.Sections)),
		Warnings:    warnings,
		CreatedAt:   form.CreatedAt,
		UpdatedAt:   form.UpdatedAt,
	}
	for _, s := range form.Sections {
		section := dto.SectionResponseDTO{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Questions:   make([]dto.QuestionResponseDTO, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			cfg := make(map[string]any, len(q.Config))
			for k, v := range q.Config {
				cfg[k] = v
			}
			section.Questions = append(section.Questions, dto.QuestionResponseDTO{
				ID:          q.ID,
				Type:        string(q.Type),
				Label:       q.Label,
				Description: q.Description,
				Required:    q.Required,
				Config:      cfg,
			})
		}
		resp.Sections = append(resp.Sections, section)
	}
	return resp
}
