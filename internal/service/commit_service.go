package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/repository"
	"github.com/mhoang/assessforms/internal/schema"
)

// Committer is the backend-commit capability the submission pipeline and
// the retry driver share. A non-nil error means the record was not durably
// stored and must be queued or retried.
type Committer interface {
	Commit(ctx context.Context, formID string, record map[string]any) error
}

type commitService struct {
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	leads       repository.LeadRepository
}

// NewCommitService builds the production Committer: one submission row per
// commit, plus best-effort lead capture from the answers.
func NewCommitService(
	forms repository.FormRepository,
	submissions repository.SubmissionRepository,
	leads repository.LeadRepository,
) Committer {
	return &commitService{forms: forms, submissions: submissions, leads: leads}
}

func (s *commitService) Commit(ctx context.Context, formID string, record map[string]any) error {
	submission, err := s.submissions.Create(ctx, formID, record)
	if err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}

	// Lead capture must never fail a commit that already succeeded.
	if err := s.captureLead(ctx, submission, record); err != nil {
		log.Warn().Err(err).Str("submissionID", submission.ID).Msg("Lead capture failed for committed submission")
	}
	return nil
}

// captureLead lifts contact fields out of the record. A question opts into
// lead capture through a "leadField" config key (name, email or company);
// questions of type email fall back to the email slot when none is tagged.
func (s *commitService) captureLead(ctx context.Context, submission *model.Submission, record map[string]any) error {
	form, err := s.forms.LoadForm(ctx, submission.FormID)
	if err != nil {
		return fmt.Errorf("load form for lead capture: %w", err)
	}

	lead := model.Lead{SubmissionID: &submission.ID}
	for _, section := range form.Sections {
		for _, q := range section.Questions {
			answer, ok := record[q.ID].(string)
			if !ok || answer == "" {
				continue
			}
			field, _ := q.Config["leadField"].(string)
			if field == "" && q.Type == schema.TypeEmail {
				field = "email"
			}
			switch field {
			case "name":
				lead.Name = answer
			case "email":
				if lead.Email == "" {
					lead.Email = answer
				}
			case "company":
				lead.Company = answer
			}
		}
	}
	if lead.Email == "" && lead.Name == "" {
		return nil
	}
	return s.leads.Create(ctx, &lead)
}
