package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/queue"
	"github.com/mhoang/assessforms/internal/repository"
	"github.com/mhoang/assessforms/internal/schema"
)

// DurabilityPolicy names what happens when a live commit fails.
type DurabilityPolicy string

const (
	// OptimisticQueue queues the record locally and reports the submission
	// as accepted. A transient backend outage is invisible to the
	// respondent; delivery is deferred to the retry driver.
	OptimisticQueue DurabilityPolicy = "optimistic_queue"

	// FailClosed surfaces commit errors to the caller instead of queuing.
	FailClosed DurabilityPolicy = "fail_closed"
)

// SubmissionService is the submission pipeline: validate answers against
// the published schema, attempt a live commit, and on failure hand the
// record to the local durable queue.
type SubmissionService interface {
	GetPublishedForm(ctx context.Context, formID string) (*dto.FormResponseDTO, error)
	Submit(ctx context.Context, formID string, answers schema.AnswerMap) (*dto.SubmitResultDTO, error)
	SaveDraft(formID string, answers schema.AnswerMap) error
	LoadDraft(formID string) (*dto.DraftResponseDTO, error)
	ClearDraft(formID string) error
}

type submissionService struct {
	forms     repository.FormRepository
	committer Committer
	pending   *queue.Queue
	policy    DurabilityPolicy
}

func NewSubmissionService(
	forms repository.FormRepository,
	committer Committer,
	pending *queue.Queue,
	policy DurabilityPolicy,
) SubmissionService {
	if policy == "" {
		policy = OptimisticQueue
	}
	return &submissionService{forms: forms, committer: committer, pending: pending, policy: policy}
}

func (s *submissionService) GetPublishedForm(ctx context.Context, formID string) (*dto.FormResponseDTO, error) {
	form, err := s.loadPublished(ctx, formID)
	if err != nil {
		return nil, err
	}
	return formToDTO(form, nil), nil
}

func (s *submissionService) Submit(ctx context.Context, formID string, answers schema.AnswerMap) (*dto.SubmitResultDTO, error) {
	form, err := s.loadPublished(ctx, formID)
	if err != nil {
		return nil, err
	}

	if errs := schema.ValidateAll(form, answers); len(errs) > 0 {
		return &dto.SubmitResultDTO{Accepted: false, Errors: errs}, nil
	}

	record := schema.Flatten(form, answers)
	if err := s.committer.Commit(ctx, formID, record); err != nil {
		if s.policy == FailClosed {
			return nil, fmt.Errorf("commit submission for form %s: %w", formID, err)
		}
		log.Error().Err(err).Str("formID", formID).Msg("Live commit failed, queuing submission locally")
		if qErr := s.pending.Enqueue(formID, record); qErr != nil {
			return nil, fmt.Errorf("queue submission after failed commit: %w", qErr)
		}
	}

	if err := s.pending.ClearDraft(formID); err != nil {
		log.Warn().Err(err).Str("formID", formID).Msg("Failed to clear draft after submission")
	}
	return &dto.SubmitResultDTO{Accepted: true}, nil
}

func (s *submissionService) SaveDraft(formID string, answers schema.AnswerMap) error {
	return s.pending.SaveDraft(formID, answers)
}

func (s *submissionService) LoadDraft(formID string) (*dto.DraftResponseDTO, error) {
	answers, found, err := s.pending.LoadDraft(formID)
	if err != nil {
		return nil, err
	}
	return &dto.DraftResponseDTO{FormID: formID, Answers: answers, Found: found}, nil
}

func (s *submissionService) ClearDraft(formID string) error {
	return s.pending.ClearDraft(formID)
}

// loadPublished hides drafts from the public surface: an unpublished form
// is indistinguishable from a missing one.
func (s *submissionService) loadPublished(ctx context.Context, formID string) (*schema.Form, error) {
	form, err := s.forms.LoadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	if form.Status != schema.StatusPublished {
		return nil, &schema.NotFoundError{Kind: "form", ID: formID}
	}
	return form, nil
}
