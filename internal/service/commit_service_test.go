package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/schema"
)

type fakeSubmissionRepository struct {
	created []model.Submission
	fail    error
}

func (r *fakeSubmissionRepository) Create(ctx context.Context, formID string, record map[string]any) (*model.Submission, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	sub := model.Submission{ID: uuid.NewString(), FormID: formID}
	r.created = append(r.created, sub)
	return &sub, nil
}

func (r *fakeSubmissionRepository) FindByFormID(ctx context.Context, formID string) ([]model.Submission, error) {
	return nil, nil
}

func (r *fakeSubmissionRepository) FindAll(ctx context.Context, limit, offset int) ([]model.Submission, error) {
	return nil, nil
}

func (r *fakeSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	return nil, nil
}

type fakeLeadRepository struct {
	created []model.Lead
	fail    error
}

func (r *fakeLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	if r.fail != nil {
		return r.fail
	}
	r.created = append(r.created, *lead)
	return nil
}

func (r *fakeLeadRepository) FindAll(ctx context.Context, status string) ([]model.Lead, error) {
	return nil, nil
}

func (r *fakeLeadRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Lead, error) {
	return nil, nil
}

// commitFixture builds a published form with tagged lead-capture questions
// and returns the wired commit service plus the question ids by role.
func commitFixture(t *testing.T) (Committer, *fakeSubmissionRepository, *fakeLeadRepository, string, map[string]string) {
	t.Helper()

	form, err := schema.NewForm("Contact", "")
	require.NoError(t, err)
	section, err := form.AddSection("Main")
	require.NoError(t, err)

	ids := map[string]string{}
	name, _ := section.AddQuestion(schema.TypeText, "Your name")
	name.UpdateConfig(map[string]any{"leadField": "name"})
	ids["name"] = name.ID
	email, _ := section.AddQuestion(schema.TypeEmail, "Work email")
	ids["email"] = email.ID
	company, _ := section.AddQuestion(schema.TypeText, "Company")
	company.UpdateConfig(map[string]any{"leadField": "company"})
	ids["company"] = company.ID
	plain, _ := section.AddQuestion(schema.TypeText, "Anything else?")
	ids["plain"] = plain.ID
	form.Status = schema.StatusPublished

	forms := newFakeFormRepository()
	require.NoError(t, forms.SaveForm(context.Background(), form))

	submissions := &fakeSubmissionRepository{}
	leads := &fakeLeadRepository{}
	return NewCommitService(forms, submissions, leads), submissions, leads, form.ID, ids
}

func TestCommitStoresSubmissionAndLead(t *testing.T) {
	svc, submissions, leads, formID, ids := commitFixture(t)

	err := svc.Commit(context.Background(), formID, map[string]any{
		ids["name"]:    "Ada Lovelace",
		ids["email"]:   "ada@example.com",
		ids["company"]: "Analytical Engines Ltd",
		ids["plain"]:   "nothing",
	})
	require.NoError(t, err)

	require.Len(t, submissions.created, 1)
	require.Len(t, leads.created, 1)
	lead := leads.created[0]
	assert.Equal(t, "Ada Lovelace", lead.Name)
	assert.Equal(t, "ada@example.com", lead.Email)
	assert.Equal(t, "Analytical Engines Ltd", lead.Company)
	require.NotNil(t, lead.SubmissionID)
	assert.Equal(t, submissions.created[0].ID, *lead.SubmissionID)
}

func TestCommitSkipsLeadWithoutContactFields(t *testing.T) {
	svc, submissions, leads, formID, ids := commitFixture(t)

	err := svc.Commit(context.Background(), formID, map[string]any{
		ids["plain"]: "just a comment",
	})
	require.NoError(t, err)
	assert.Len(t, submissions.created, 1)
	assert.Empty(t, leads.created)
}

func TestCommitSurvivesLeadFailure(t *testing.T) {
	svc, submissions, leads, formID, ids := commitFixture(t)
	leads.fail = errors.New("leads table locked")

	err := svc.Commit(context.Background(), formID, map[string]any{
		ids["email"]: "ada@example.com",
	})
	require.NoError(t, err)
	assert.Len(t, submissions.created, 1)
}

func TestCommitFailsWhenSubmissionFails(t *testing.T) {
	svc, submissions, leads, formID, ids := commitFixture(t)
	submissions.fail = errors.New("backend unavailable")

	err := svc.Commit(context.Background(), formID, map[string]any{
		ids["email"]: "ada@example.com",
	})
	require.Error(t, err)
	assert.Empty(t, leads.created)
}
