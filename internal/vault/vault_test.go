package vault

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"aimemo/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate(t *testing.T) {
	p := Locate("/vault", "SQLinjection")
	assert.Equal(t, filepath.Join("/vault", "SQLinjection", "Summary.md"), p.Summary)
	assert.Equal(t, filepath.Join("/vault", "SQLinjection", "Diagnosis.md"), p.Diagnosis)
	assert.Equal(t, p.Summary, p.For(Summary))
	assert.Equal(t, p.Diagnosis, p.For(Diagnosis))
}

func TestLocate_UnknownLabelIsLiteral(t *testing.T) {
	p := Locate("/vault", "SQLInjectionVariant")
	assert.Equal(t, filepath.Join("/vault", "SQLInjectionVariant", "Summary.md"), p.Summary)
}

func TestNoteKind(t *testing.T) {
	assert.Equal(t, "Summary.md", Summary.FileName())
	assert.Equal(t, "## Memo", Summary.Section())
	assert.Equal(t, "Diagnosis.md", Diagnosis.FileName())
	assert.Equal(t, "## How to diagnose", Diagnosis.Section())
	assert.Equal(t, []NoteKind{Summary, Diagnosis}, Kinds)
	assert.Equal(t, "XXE/Diagnosis.md", DisplayName("XXE", Diagnosis))
}

// scriptedConfirmer answers from a fixed list and records questions.
type scriptedConfirmer struct {
	answers   []bool
	err       error
	questions []string
}

func (s *scriptedConfirmer) Confirm(question string) (bool, error) {
	s.questions = append(s.questions, question)
	if s.err != nil {
		return false, s.err
	}
	ans := s.answers[0]
	s.answers = s.answers[1:]
	return ans, nil
}

func TestEnsureExists_Existing(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "XXE", "Summary.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("## Memo\n"), 0644))

	confirm := &scriptedConfirmer{}
	state, err := NewInitializer(config.CreateAsk, confirm).EnsureExists(path, "XXE/Summary.md")
	require.NoError(t, err)
	assert.Equal(t, Exists, state)
	assert.Empty(t, confirm.questions, "no question for an existing note")
}

func TestEnsureExists_Accept(t *testing.T) {
	root := t.TempDir()
	path := Locate(root, "SQLinjection").Summary

	confirm := &scriptedConfirmer{answers: []bool{true}}
	state, err := NewInitializer(config.CreateAsk, confirm).EnsureExists(path, "SQLinjection/Summary.md")
	require.NoError(t, err)
	assert.Equal(t, Created, state)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
	assert.Equal(t, []string{"'SQLinjection/Summary.md' not found. Create it? (y/n): "}, confirm.questions)
}

func TestEnsureExists_Decline(t *testing.T) {
	root := t.TempDir()
	path := Locate(root, "SQLinjection").Summary

	state, err := NewInitializer(config.CreateAsk, &scriptedConfirmer{answers: []bool{false}}).EnsureExists(path, "SQLinjection/Summary.md")
	require.NoError(t, err)
	assert.Equal(t, Skipped, state)

	_, err = os.Stat(filepath.Dir(path))
	assert.True(t, errors.Is(err, os.ErrNotExist), "category directory must not be created")
}

func TestEnsureExists_ConfirmErrorDeclines(t *testing.T) {
	root := t.TempDir()
	path := Locate(root, "XXE").Diagnosis

	state, err := NewInitializer(config.CreateAsk, &scriptedConfirmer{err: errors.New("EOF")}).EnsureExists(path, "XXE/Diagnosis.md")
	require.NoError(t, err)
	assert.Equal(t, Skipped, state)
	assert.NoFileExists(t, path)
}

func TestEnsureExists_Modes(t *testing.T) {
	t.Run("always creates without asking", func(t *testing.T) {
		path := Locate(t.TempDir(), "XXE").Summary
		confirm := &scriptedConfirmer{}
		state, err := NewInitializer(config.CreateAlways, confirm).EnsureExists(path, "XXE/Summary.md")
		require.NoError(t, err)
		assert.Equal(t, Created, state)
		assert.FileExists(t, path)
		assert.Empty(t, confirm.questions)
	})

	t.Run("never skips without asking", func(t *testing.T) {
		path := Locate(t.TempDir(), "XXE").Summary
		confirm := &scriptedConfirmer{}
		state, err := NewInitializer(config.CreateNever, confirm).EnsureExists(path, "XXE/Summary.md")
		require.NoError(t, err)
		assert.Equal(t, Skipped, state)
		assert.NoFileExists(t, path)
		assert.Empty(t, confirm.questions)
	})

	t.Run("ask without confirmer declines", func(t *testing.T) {
		path := Locate(t.TempDir(), "XXE").Summary
		state, err := NewInitializer("", nil).EnsureExists(path, "XXE/Summary.md")
		require.NoError(t, err)
		assert.Equal(t, Skipped, state)
	})
}

func TestEnsureExists_SecondNoteReusesDirectory(t *testing.T) {
	root := t.TempDir()
	paths := Locate(root, "XXE")
	in := NewInitializer(config.CreateAlways, nil)

	_, err := in.EnsureExists(paths.Summary, "XXE/Summary.md")
	require.NoError(t, err)
	state, err := in.EnsureExists(paths.Diagnosis, "XXE/Diagnosis.md")
	require.NoError(t, err)
	assert.Equal(t, Created, state)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "exists", Exists.String())
	assert.Equal(t, "created", Created.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "State(9)", State(9).String())
}

func TestReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Summary.md")
	require.NoError(t, os.WriteFile(path, []byte("a much longer original body that must disappear\n"), 0600))

	require.NoError(t, Write(path, "short"))

	got, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "short", got, "write truncates instead of appending")

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing permissions kept")
}

func TestWrite_MissingFile(t *testing.T) {
	err := Write(filepath.Join(t.TempDir(), "nope", "Summary.md"), "text")
	assert.ErrorIs(t, err, ErrWrite)
}

func TestRead_Missing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureExists_BlockedPathIsReadError(t *testing.T) {
	root := t.TempDir()
	// A file where the category directory should be.
	require.NoError(t, os.WriteFile(filepath.Join(root, "XXE"), []byte("x"), 0644))

	confirm := &scriptedConfirmer{}
	path := Locate(root, "XXE").Summary
	state, err := NewInitializer(config.CreateAsk, confirm).EnsureExists(path, "XXE/Summary.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRead))
	assert.Equal(t, Skipped, state)
	assert.Empty(t, confirm.questions)
}
