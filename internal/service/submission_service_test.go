package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoang/assessforms/internal/model"
	"github.com/mhoang/assessforms/internal/queue"
	"github.com/mhoang/assessforms/internal/schema"
)

// fakeFormRepository keeps forms in memory, enough of FormRepository for the
// pipeline tests.
type fakeFormRepository struct {
	forms map[string]map[string]any
}

func newFakeFormRepository() *fakeFormRepository {
	return &fakeFormRepository{forms: map[string]map[string]any{}}
}

func (r *fakeFormRepository) SaveForm(ctx context.Context, form *schema.Form) error {
	r.forms[form.ID] = schema.Serialize(form)
	return nil
}

func (r *fakeFormRepository) LoadForm(ctx context.Context, id string) (*schema.Form, error) {
	raw, ok := r.forms[id]
	if !ok {
		return nil, &schema.NotFoundError{Kind: "form", ID: id}
	}
	return schema.Deserialize(raw)
}

func (r *fakeFormRepository) FindAll(ctx context.Context) ([]model.Form, error) {
	return nil, nil
}

func (r *fakeFormRepository) Delete(ctx context.Context, id string) error {
	if _, ok := r.forms[id]; !ok {
		return &schema.NotFoundError{Kind: "form", ID: id}
	}
	delete(r.forms, id)
	return nil
}

// fakeCommitter records commits and fails the first failFirst calls.
type fakeCommitter struct {
	failFirst int
	failIndex map[int]error
	calls     int
	committed []map[string]any
}

func (c *fakeCommitter) Commit(ctx context.Context, formID string, record map[string]any) error {
	call := c.calls
	c.calls++
	if call < c.failFirst {
		return errors.New("backend unavailable")
	}
	if err, ok := c.failIndex[call]; ok {
		return err
	}
	c.committed = append(c.committed, record)
	return nil
}

// pipelineFixture returns a published one-question form (required text,
// minLength 3) plus the wired service collaborators.
func pipelineFixture(t *testing.T, policy DurabilityPolicy, committer *fakeCommitter) (SubmissionService, *queue.Queue, string, string) {
	t.Helper()

	form, err := schema.NewForm("Assessment", "")
	require.NoError(t, err)
	section, err := form.AddSection("Main")
	require.NoError(t, err)
	q, err := section.AddQuestion(schema.TypeText, "Your name")
	require.NoError(t, err)
	q.Required = true
	q.UpdateConfig(map[string]any{"minLength": 3})
	qID := q.ID
	form.Status = schema.StatusPublished

	forms := newFakeFormRepository()
	require.NoError(t, forms.SaveForm(context.Background(), form))

	pending, err := queue.OpenInMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { pending.Close() })

	return NewSubmissionService(forms, committer, pending, policy), pending, form.ID, qID
}

func TestSubmitValidAnswersCommitsLive(t *testing.T) {
	committer := &fakeCommitter{}
	svc, pending, formID, qID := pipelineFixture(t, OptimisticQueue, committer)

	result, err := svc.Submit(context.Background(), formID, schema.AnswerMap{qID: "hello"})
	require.NoError(t, err)
	assert.True(t, result.Accepted)
	assert.Empty(t, result.Errors)

	require.Len(t, committer.committed, 1)
	assert.Equal(t, map[string]any{qID: "hello"}, committer.committed[0])

	n, err := pending.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitReportsValidationErrors(t *testing.T) {
	committer := &fakeCommitter{}
	svc, _, formID, qID := pipelineFixture(t, OptimisticQueue, committer)

	result, err := svc.Submit(context.Background(), formID, schema.AnswerMap{qID: "hi"})
	require.NoError(t, err)
	assert.False(t, result.Accepted)
	assert.Equal(t, "must be at least 3 characters", result.Errors[qID])

	// Nothing reached the backend.
	assert.Zero(t, committer.calls)
}

func TestSubmitQueuesOnCommitFailureThenDrains(t *testing.T) {
	committer := &fakeCommitter{failFirst: 1}
	svc, pending, formID, qID := pipelineFixture(t, OptimisticQueue, committer)

	// The commit fails but the respondent still sees acceptance.
	result, err := svc.Submit(context.Background(), formID, schema.AnswerMap{qID: "hello"})
	require.NoError(t, err)
	assert.True(t, result.Accepted)

	entries, err := pending.ListAll()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, formID, entries[0].FormID)
	assert.Equal(t, map[string]any{qID: "hello"}, entries[0].Record)

	// The backend is back; one drain pass delivers the queued record.
	retry := NewRetryService(pending, committer)
	summary, err := retry.DrainOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 0, summary.Remaining)

	require.Len(t, committer.committed, 1)
	assert.Equal(t, map[string]any{qID: "hello"}, committer.committed[0])
}

func TestSubmitFailClosedSurfacesCommitError(t *testing.T) {
	committer := &fakeCommitter{failFirst: 1}
	svc, pending, formID, qID := pipelineFixture(t, FailClosed, committer)

	_, err := svc.Submit(context.Background(), formID, schema.AnswerMap{qID: "hello"})
	require.Error(t, err)

	// Nothing was queued.
	n, err := pending.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSubmitHidesUnpublishedForms(t *testing.T) {
	committer := &fakeCommitter{}

	form, err := schema.NewForm("Draft only", "")
	require.NoError(t, err)
	forms := newFakeFormRepository()
	require.NoError(t, forms.SaveForm(context.Background(), form))
	pending, err := queue.OpenInMemory(0)
	require.NoError(t, err)
	t.Cleanup(func() { pending.Close() })

	svc := NewSubmissionService(forms, committer, pending, OptimisticQueue)

	var notFound *schema.NotFoundError

	_, err = svc.Submit(context.Background(), form.ID, schema.AnswerMap{})
	require.ErrorAs(t, err, &notFound)

	_, err = svc.GetPublishedForm(context.Background(), form.ID)
	require.ErrorAs(t, err, &notFound)
}

func TestSubmitClearsDraftAfterAcceptance(t *testing.T) {
	committer := &fakeCommitter{}
	svc, pending, formID, qID := pipelineFixture(t, OptimisticQueue, committer)

	require.NoError(t, svc.SaveDraft(formID, schema.AnswerMap{qID: "hel"}))
	draft, err := svc.LoadDraft(formID)
	require.NoError(t, err)
	assert.True(t, draft.Found)

	_, err = svc.Submit(context.Background(), formID, schema.AnswerMap{qID: "hello"})
	require.NoError(t, err)

	_, found, err := pending.LoadDraft(formID)
	require.NoError(t, err)
	assert.False(t, found)
}
