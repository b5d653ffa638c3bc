package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/builder"
	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/repository"
	"github.com/mhoang/assessforms/internal/schema"
)

// FormBuilderService is the admin surface over the form engine. Every
// mutation runs load → edit → save; a failed save returns the error and
// persists nothing partial.
type FormBuilderService interface {
	CreateForm(ctx context.Context, req dto.FormCreateDTO) (*dto.FormResponseDTO, error)
	GetForm(ctx context.Context, formID string) (*dto.FormResponseDTO, error)
	ListForms(ctx context.Context) ([]dto.FormSummaryDTO, error)
	UpdateFormMeta(ctx context.Context, formID string, req dto.FormMetaUpdateDTO) (*dto.FormResponseDTO, error)
	DeleteForm(ctx context.Context, formID string) error
	SetStatus(ctx context.Context, formID string, status schema.FormStatus) (*dto.FormResponseDTO, error)

	AddSection(ctx context.Context, formID string, req dto.SectionCreateDTO) (*dto.FormResponseDTO, error)
	RemoveSection(ctx context.Context, formID, sectionID string) (*dto.FormResponseDTO, error)
	ReorderSections(ctx context.Context, formID string, req dto.ReorderDTO) (*dto.FormResponseDTO, error)
	MoveSection(ctx context.Context, formID, sectionID string, offset int) (*dto.FormResponseDTO, error)

	AddQuestion(ctx context.Context, formID, sectionID string, req dto.QuestionCreateDTO) (*dto.FormResponseDTO, error)
	UpdateQuestion(ctx context.Context, formID, questionID string, req dto.QuestionUpdateDTO) (*dto.FormResponseDTO, error)
	UpdateQuestionConfig(ctx context.Context, formID, questionID string, req dto.ConfigPatchDTO) (*dto.FormResponseDTO, error)
	RemoveQuestion(ctx context.Context, formID, sectionID, questionID string) (*dto.FormResponseDTO, error)
	ReorderQuestions(ctx context.Context, formID, sectionID string, req dto.ReorderDTO) (*dto.FormResponseDTO, error)
	MoveQuestion(ctx context.Context, formID, sectionID, questionID string, offset int) (*dto.FormResponseDTO, error)

	ListQuestionTypes() []dto.QuestionTypeDTO
}

type formBuilderService struct {
	forms repository.FormRepository
}

func NewFormBuilderService(forms repository.FormRepository) FormBuilderService {
	return &formBuilderService{forms: forms}
}

func (s *formBuilderService) CreateForm(ctx context.Context, req dto.FormCreateDTO) (*dto.FormResponseDTO, error) {
	form, err := schema.NewForm(req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.forms.SaveForm(ctx, form); err != nil {
		log.Error().Err(err).Str("title", req.Title).Msg("Failed to persist new form")
		return nil, err
	}
	return formToDTO(form, nil), nil
}

func (s *formBuilderService) GetForm(ctx context.Context, formID string) (*dto.FormResponseDTO, error) {
	form, err := s.forms.LoadForm(ctx, formID)
	if err != nil {
		return nil, err
	}
	return formToDTO(form, nil), nil
}

func (s *formBuilderService) ListForms(ctx context.Context) ([]dto.FormSummaryDTO, error) {
	rows, err := s.forms.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]dto.FormSummaryDTO, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, dto.FormSummaryDTO{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Status:      row.Status,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		})
	}
	return summaries, nil
}

func (s *formBuilderService) UpdateFormMeta(ctx context.Context, formID string, req dto.FormMetaUpdateDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		if req.Title == "" {
			return nil, &schema.ValidationError{Field: "title", Reason: "must not be empty"}
		}
		session.Form().Title = req.Title
		session.Form().Description = req.Description
		return nil, nil
	})
}

func (s *formBuilderService) DeleteForm(ctx context.Context, formID string) error {
	return s.forms.Delete(ctx, formID)
}

func (s *formBuilderService) SetStatus(ctx context.Context, formID string, status schema.FormStatus) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		if status != schema.StatusDraft && status != schema.StatusPublished {
			return nil, &schema.ValidationError{Field: "status", Reason: "must be draft or published"}
		}
		session.Form().Status = status
		return nil, nil
	})
}

func (s *formBuilderService) AddSection(ctx context.Context, formID string, req dto.SectionCreateDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		section, err := session.AddSection(req.Title)
		if err != nil {
			return nil, err
		}
		section.Description = req.Description
		return nil, nil
	})
}

func (s *formBuilderService) RemoveSection(ctx context.Context, formID, sectionID string) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		return nil, session.RemoveSection(sectionID)
	})
}

func (s *formBuilderService) ReorderSections(ctx context.Context, formID string, req dto.ReorderDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		return nil, session.Form().ReorderSections(req.Order)
	})
}

func (s *formBuilderService) MoveSection(ctx context.Context, formID, sectionID string, offset int) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		return nil, session.MoveSection(sectionID, offset)
	})
}

func (s *formBuilderService) AddQuestion(ctx context.Context, formID, sectionID string, req dto.QuestionCreateDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		q, err := session.AddQuestion(sectionID, schema.QuestionType(req.Type), req.Label)
		if err != nil {
			return nil, err
		}
		q.Description = req.Description
		q.Required = req.Required
		return nil, nil
	})
}

func (s *formBuilderService) UpdateQuestion(ctx context.Context, formID, questionID string, req dto.QuestionUpdateDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		q, err := session.Form().Question(questionID)
		if err != nil {
			return nil, err
		}
		if req.Label == "" {
			return nil, &schema.ValidationError{Field: "label", Reason: "must not be empty"}
		}
		q.Label = req.Label
		q.Description = req.Description
		q.Required = req.Required
		return nil, nil
	})
}

func (s *formBuilderService) UpdateQuestionConfig(ctx context.Context, formID, questionID string, req dto.ConfigPatchDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		warnings, err := session.UpdateQuestionConfig(questionID, req.Config)
		if err != nil {
			return nil, err
		}
		for _, w := range warnings {
			log.Warn().Str("formID", formID).Str("questionID", questionID).Msg(w)
		}
		return warnings, nil
	})
}

func (s *formBuilderService) RemoveQuestion(ctx context.Context, formID, sectionID, questionID string) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		return nil, session.RemoveQuestion(sectionID, questionID)
	})
}

func (s *formBuilderService) ReorderQuestions(ctx context.Context, formID, sectionID string, req dto.ReorderDTO) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		section, err := session.Form().Section(sectionID)
		if err != nil {
			return nil, err
		}
		return nil, section.ReorderQuestions(req.Order)
	})
}

func (s *formBuilderService) MoveQuestion(ctx context.Context, formID, sectionID, questionID string, offset int) (*dto.FormResponseDTO, error) {
	return s.edit(ctx, formID, func(session *builder.Session) ([]string, error) {
		return nil, session.MoveQuestion(sectionID, questionID, offset)
	})
}

func (s *formBuilderService) ListQuestionTypes() []dto.QuestionTypeDTO {
	types := schema.ListTypes()
	out := make([]dto.QuestionTypeDTO, 0, len(types))
	for _, t := range types {
		spec := schema.ConfigSchemaFor(t)
		cfg := make(map[string]dto.FieldSpecDTO, len(spec))
		for key, fs := range spec {
			cfg[key] = dto.FieldSpecDTO{Kind: string(fs.Kind), Description: fs.Description}
		}
		out = append(out, dto.QuestionTypeDTO{Type: string(t), Config: cfg})
	}
	return out
}

// edit runs one builder mutation against a freshly loaded form and saves
// the result. Mutation errors leave the stored form untouched.
func (s *formBuilderService) edit(ctx context.Context, formID string, fn func(*builder.Session) ([]string, error)) (*dto.FormResponseDTO, error) {
	session, err := builder.Open(ctx, s.forms, formID)
	if err != nil {
		return nil, err
	}
	warnings, err := fn(session)
	if err != nil {
		return nil, err
	}
	if err := session.Save(ctx); err != nil {
		log.Error().Err(err).Str("formID", formID).Msg("Failed to persist form edit")
		return nil, err
	}
	return formToDTO(session.Form(), warnings), nil
}
