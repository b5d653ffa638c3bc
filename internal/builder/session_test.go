package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mhoang/assessforms/internal/schema"
)

// memoryStore keeps serialized forms in a map and can be told to fail the
// next save.
type memoryStore struct {
	forms    map[string]map[string]any
	failSave error
	saves    int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{forms: map[string]map[string]any{}}
}

func (m *memoryStore) SaveForm(ctx context.Context, form *schema.Form) error {
	m.saves++
	if m.failSave != nil {
		err := m.failSave
		m.failSave = nil
		return err
	}
	m.forms[form.ID] = schema.Serialize(form)
	return nil
}

func (m *memoryStore) LoadForm(ctx context.Context, id string) (*schema.Form, error) {
	raw, ok := m.forms[id]
	if !ok {
		return nil, &schema.NotFoundError{Kind: "form", ID: id}
	}
	return schema.Deserialize(raw)
}

func sessionFixture(t *testing.T) (*Session, *memoryStore) {
	t.Helper()
	form, err := schema.NewForm("Assessment", "")
	require.NoError(t, err)
	store := newMemoryStore()
	return NewSession(form, store), store
}

func sectionIDs(form *schema.Form) []string {
	ids := make([]string, len(form.Sections))
	for i, s := range form.Sections {
		ids[i] = s.ID
	}
	return ids
}

func TestMoveSectionResolvesOffsets(t *testing.T) {
	sess, _ := sessionFixture(t)
	a, _ := sess.AddSection("A")
	b, _ := sess.AddSection("B")
	c, _ := sess.AddSection("C")
	aID, bID, cID := a.ID, b.ID, c.ID

	// Move C up two positions.
	require.NoError(t, sess.MoveSection(cID, -2))
	assert.Equal(t, []string{cID, aID, bID}, sectionIDs(sess.Form()))

	// Offsets past the ends clamp instead of failing.
	require.NoError(t, sess.MoveSection(cID, 10))
	assert.Equal(t, []string{aID, bID, cID}, sectionIDs(sess.Form()))
	require.NoError(t, sess.MoveSection(bID, -10))
	assert.Equal(t, []string{bID, aID, cID}, sectionIDs(sess.Form()))

	// Zero offset is a no-op.
	require.NoError(t, sess.MoveSection(aID, 0))
	assert.Equal(t, []string{bID, aID, cID}, sectionIDs(sess.Form()))

	err := sess.MoveSection("bogus", 1)
	var notFound *schema.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestMoveQuestionWithinSection(t *testing.T) {
	sess, _ := sessionFixture(t)
	section, _ := sess.AddSection("Main")
	q1, _ := sess.AddQuestion(section.ID, schema.TypeText, "One")
	q2, _ := sess.AddQuestion(section.ID, schema.TypeText, "Two")
	q3, _ := sess.AddQuestion(section.ID, schema.TypeText, "Three")
	ids := []string{q1.ID, q2.ID, q3.ID}

	require.NoError(t, sess.MoveQuestion(section.ID, ids[0], 2))
	got, err := sess.Form().Section(section.ID)
	require.NoError(t, err)
	assert.Equal(t, ids[1], got.Questions[0].ID)
	assert.Equal(t, ids[2], got.Questions[1].ID)
	assert.Equal(t, ids[0], got.Questions[2].ID)
}

func TestSelectionFollowsEdits(t *testing.T) {
	sess, _ := sessionFixture(t)
	section, _ := sess.AddSection("Main")
	q, _ := sess.AddQuestion(section.ID, schema.TypeText, "One")

	gotSection, gotQuestion := sess.Selection()
	assert.Equal(t, section.ID, gotSection)
	assert.Equal(t, q.ID, gotQuestion)

	require.NoError(t, sess.RemoveQuestion(section.ID, q.ID))
	_, gotQuestion = sess.Selection()
	assert.Empty(t, gotQuestion)

	require.NoError(t, sess.RemoveSection(section.ID))
	gotSection, _ = sess.Selection()
	assert.Empty(t, gotSection)
}

func TestSaveFailureKeepsEdits(t *testing.T) {
	sess, store := sessionFixture(t)
	section, _ := sess.AddSection("Main")
	_, err := sess.AddQuestion(section.ID, schema.TypeText, "One")
	require.NoError(t, err)

	store.failSave = errors.New("connection refused")
	err = sess.Save(context.Background())
	require.Error(t, err)

	// The in-memory form still carries the unsaved edits.
	require.Len(t, sess.Form().Sections, 1)
	require.Len(t, sess.Form().Sections[0].Questions, 1)

	// Retrying the save succeeds and persists them.
	require.NoError(t, sess.Save(context.Background()))
	assert.Equal(t, 2, store.saves)
	assert.Contains(t, store.forms, sess.Form().ID)
}

func TestOpenRoundTripsThroughStore(t *testing.T) {
	sess, store := sessionFixture(t)
	section, _ := sess.AddSection("Main")
	q, _ := sess.AddQuestion(section.ID, schema.TypeRadio, "Size")
	_, err := sess.UpdateQuestionConfig(q.ID, map[string]any{"options": []any{
		map[string]any{"value": "small", "label": "Small"},
	}})
	require.NoError(t, err)
	require.NoError(t, sess.Save(context.Background()))

	reopened, err := Open(context.Background(), store, sess.Form().ID)
	require.NoError(t, err)
	gotSection, err := reopened.Form().Section(section.ID)
	require.NoError(t, err)
	require.Len(t, gotSection.Questions, 1)
	assert.Equal(t, schema.TypeRadio, gotSection.Questions[0].Type)

	_, err = Open(context.Background(), store, "missing")
	var notFound *schema.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestUpdateQuestionConfigWarnsOnUnknownKeys(t *testing.T) {
	sess, _ := sessionFixture(t)
	section, _ := sess.AddSection("Main")
	q, _ := sess.AddQuestion(section.ID, schema.TypeText, "Name")

	warnings, err := sess.UpdateQuestionConfig(q.ID, map[string]any{
		"minLength": 2,
		"leadField": "name",
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "leadField")
}
