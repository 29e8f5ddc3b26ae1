package merge

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aimemo/internal/perception"
	"aimemo/internal/vault"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeModel struct {
	resp    *perception.Response
	err     error
	calls   int
	prompt  string
	purpose string
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (*perception.Response, error) {
	f.calls++
	f.prompt = prompt
	f.purpose = perception.PurposeFrom(ctx)
	return f.resp, f.err
}

func writeNote(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "SQLinjection", "Summary.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMerge_Success(t *testing.T) {
	existing := "# SQLinjection\n\n## Memo\n- old bullet\n"
	path := writeNote(t, existing)
	updated := "# SQLinjection\n\n## Memo\n- old bullet\n- Found SQL injection in login form"
	model := &fakeModel{resp: &perception.Response{Candidates: []string{"\n" + updated + "\n\n"}}}

	got, err := New(model).Merge(context.Background(), path, "Found SQL injection in login form", vault.Summary)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	assert.Equal(t, 1, model.calls)
	assert.Contains(t, model.prompt, existing)
	assert.Contains(t, model.prompt, "Found SQL injection in login form")
	assert.Contains(t, model.prompt, `"## Memo"`)
	assert.Equal(t, "merge:Summary", model.purpose)

	onDisk, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, existing, string(onDisk), "merge never writes")
}

func TestMerge_DiagnosisSection(t *testing.T) {
	path := writeNote(t, "## How to diagnose\n")
	model := &fakeModel{resp: &perception.Response{Candidates: []string{"## How to diagnose\n- x"}}}

	_, err := New(model).Merge(context.Background(), path, "x", vault.Diagnosis)
	require.NoError(t, err)
	assert.Contains(t, model.prompt, `"## How to diagnose"`)
	assert.NotContains(t, model.prompt, `"## Memo"`)
}

func TestMerge_ReadFailureSkipsModel(t *testing.T) {
	model := &fakeModel{}
	_, err := New(model).Merge(context.Background(), filepath.Join(t.TempDir(), "missing.md"), "memo", vault.Summary)
	assert.ErrorIs(t, err, ErrRead)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, model.calls)
}

func TestMerge_ModelFailures(t *testing.T) {
	tests := []struct {
		name  string
		model *fakeModel
	}{
		{"call error", &fakeModel{err: errors.New("503 unavailable")}},
		{"no candidates", &fakeModel{resp: &perception.Response{}}},
		{"blocked", &fakeModel{resp: &perception.Response{BlockReason: "SAFETY"}}},
		{"blank text", &fakeModel{resp: &perception.Response{Candidates: []string{" \n "}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeNote(t, "## Memo\n")
			_, err := New(tt.model).Merge(context.Background(), path, "memo", vault.Summary)
			assert.ErrorIs(t, err, ErrMerge)
			assert.NotErrorIs(t, err, ErrRead)
			assert.Equal(t, 1, tt.model.calls, "no retry")
		})
	}
}
