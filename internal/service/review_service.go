package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/repository"
)

// ReviewService is the admin read side: browse submissions and work leads.
type ReviewService interface {
	ListSubmissions(ctx context.Context, limit, offset int) ([]dto.SubmissionResponseDTO, error)
	ListSubmissionsForForm(ctx context.Context, formID string) ([]dto.SubmissionResponseDTO, error)
	ListLeads(ctx context.Context, status string) ([]dto.LeadResponseDTO, error)
	UpdateLeadStatus(ctx context.Context, leadID string, req dto.LeadStatusUpdateDTO) (*dto.LeadResponseDTO, error)
}

type reviewService struct {
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	leads       repository.LeadRepository
}

func NewReviewService(
	forms repository.FormRepository,
	submissions repository.SubmissionRepository,
	leads repository.LeadRepository,
) ReviewService {
	return &reviewService{forms: forms, submissions: submissions, leads: leads}
}

func (s *reviewService) ListSubmissions(ctx context.Context, limit, offset int) ([]dto.SubmissionResponseDTO, error) {
	rows, err := s.submissions.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return s.toSubmissionDTOs(ctx, rows)
}

func (s *reviewService) ListSubmissionsForForm(ctx context.Context, formID string) ([]dto.SubmissionResponseDTO, error) {
	rows, err := s.submissions.FindByFormID(ctx, formID)
	if err != nil {
		return nil, err
	}
	return s.toSubmissionDTOs(ctx, rows)
}

func (s *reviewService) ListLeads(ctx context.Context, status string) ([]dto.LeadResponseDTO, error) {
	rows, err := s.leads.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	var out []dto.LeadResponseDTO
	if err := copier.Copy(&out, &rows); err != nil {
		return nil, fmt.Errorf("prepare lead listing: %w", err)
	}
	return out, nil
}

func (s *reviewService) UpdateLeadStatus(ctx context.Context, leadID string, req dto.LeadStatusUpdateDTO) (*dto.LeadResponseDTO, error) {
	lead, err := s.leads.UpdateStatus(ctx, leadID, req.Status)
	if err != nil {
		return nil, err
	}
	var out dto.LeadResponseDTO
	if err := copier.Copy(&out, lead); err != nil {
		return nil, fmt.Errorf("prepare lead response: %w", err)
	}
	return &out, nil
}

func (s *reviewService) toSubmissionDTOs(ctx context.Context, rows []model.Submission) ([]dto.SubmissionResponseDTO, error) {
	titles := map[string]string{}
	out := make([]dto.SubmissionResponseDTO, 0, len(rows))
	for _, row := range rows {
		var record map[string]any
		if err := json.Unmarshal(row.Record, &record); err != nil {
			log.Warn().Err(err).Str("submissionID", row.ID).Msg("Stored submission record is not valid JSON, skipping")
			continue
		}
		title, ok := titles[row.FormID]
		if !ok {
			if form, err := s.forms.LoadForm(ctx, row.FormID); err == nil {
				title = form.Title
			}
			titles[row.FormID] = title
		}
		out = append(out, dto.SubmissionResponseDTO{
			ID:          row.ID,
			FormID:      row.FormID,
			FormTitle:   title,
			Record:      record,
			SubmittedAt: row.SubmittedAt,
		})
	}
	return out, nil
}
