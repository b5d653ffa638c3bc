package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/mhoang/assessforms/config"
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/repository"
)

// ErrInsightDisabled is returned when no Gemini API key is configured.
var ErrInsightDisabled = errors.New("insight service is not configured")

// InsightService produces an admin-facing summary of one assessment
// submission: what the answers say about the lead and where to follow up.
type InsightService interface {
	SummarizeSubmission(ctx context.Context, submissionID string) (*dto.InsightResponseDTO, error)
}

type insightService struct {
	client      *genai.GenerativeModel
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
}

func NewInsightService(
	cfg *config.Config,
	forms repository.FormRepository,
	submissions repository.SubmissionRepository,
) (InsightService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. InsightService will be non-functional.")
		return &insightService{forms: forms, submissions: submissions}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &insightService{client: model, forms: forms, submissions: submissions}, nil
}

func (s *insightService) SummarizeSubmission(ctx context.Context, submissionID string) (*dto.InsightResponseDTO, error) {
	if s.client == nil {
		return nil, ErrInsightDisabled
	}

	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	form, err := s.forms.LoadForm(ctx, submission.FormID)
	if err != nil {
		return nil, err
	}
	var record map[string]any
	if err := json.Unmarshal(submission.Record, &record); err != nil {
		return nil, fmt.Errorf("decode submission record: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("You are reviewing a business assessment submitted on a consultancy's website.\n")
	sb.WriteString("Summarize in under 120 words what the answers say about this prospect and suggest one follow-up angle.\n\n")
	sb.WriteString("Assessment: " + form.Title + "\n")
	for _, section := range form.Sections {
		for _, q := range section.Questions {
			answer, ok := record[q.ID]
			if !ok {
				continue
			}
			sb.WriteString(fmt.Sprintf("Q: %s\nA: %v\n", q.Label, answer))
		}
	}

	resp, err := s.client.GenerateContent(ctx, genai.Text(sb.String()))
	if err != nil {
		log.Error().Err(err).Str("submissionID", submissionID).Msg("Gemini request failed")
		return nil, fmt.Errorf("generate insight: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("insight model returned no content")
	}

	var summary strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			summary.WriteString(string(text))
		}
	}
	return &dto.InsightResponseDTO{SubmissionID: submissionID, Summary: strings.TrimSpace(summary.String())}, nil
}
