package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekot-dev/dekot/pkg/edit"
)

// fakeWriter is an in-memory FileWriter for tests.
type fakeWriter struct {
	files  map[string][]byte
	failOn string
}

var errInjected = errors.New("injected failure")

func newFakeWriter() *fakeWriter {
	return &fakeWriter{files: make(map[string][]byte)}
}

func (w *fakeWriter) ReadFile(path string) ([]byte, error) {
	data, ok := w.files[path]
	if !ok {
		return nil, errInjected
	}

	return data, nil
}

func (w *fakeWriter) WriteFile(path string, data []byte) error {
	if path == w.failOn {
		return errInjected
	}

	w.files[path] = data

	return nil
}

func editSet(t *testing.T, start, end uint, newText string) *edit.EditSet {
	t.Helper()

	set := &edit.EditSet{}
	require.NoError(t, set.Replace(start, end, newText))

	return set
}

func TestCompose_DropsNothing(t *testing.T) {
	t.Parallel()

	cmd := Compose(Nop(), Nop())

	assert.True(t, cmd.IsNothing())
	assert.IsType(t, Nothing{}, cmd)
}

func TestCompose_UnwrapsSingleSurvivor(t *testing.T) {
	t.Parallel()

	cmd := Compose(Nop(), Error("boom"), Nop())

	assert.IsType(t, ShowError{}, cmd)
}

func TestCompose_FlattensNestedComposites(t *testing.T) {
	t.Parallel()

	inner := Compose(Error("a"), Error("b"))
	cmd := Compose(inner, Error("c"))

	composite, ok := cmd.(Composite)
	require.True(t, ok)
	assert.Len(t, composite.Commands, 3)
}

func TestCompose_NilMembersIgnored(t *testing.T) {
	t.Parallel()

	cmd := Compose(nil, Error("x"))

	assert.IsType(t, ShowError{}, cmd)
}

func TestApplyEdits_IsNothingWhenEmpty(t *testing.T) {
	t.Parallel()

	assert.True(t, Update("f.kt", &edit.EditSet{}).IsNothing())
	assert.True(t, ApplyEdits{Path: "f.kt"}.IsNothing())
}

func TestPerformer_AppliesEdits(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	writer.files["f.kt"] = []byte("val point = p")

	performer := NewPerformer(writer)

	err := performer.Perform(Update("f.kt", editSet(t, 4, 9, "(x, y)")))
	require.NoError(t, err)
	assert.Equal(t, "val (x, y) = p", string(writer.files["f.kt"]))
}

func TestPerformer_WriteFailurePropagates(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	writer.files["f.kt"] = []byte("content")
	writer.failOn = "f.kt"

	performer := NewPerformer(writer)

	err := performer.Perform(Update("f.kt", editSet(t, 0, 1, "C")))
	assert.ErrorIs(t, err, errInjected)
}

func TestPerformer_BadEditLeavesFileUntouched(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	writer.files["f.kt"] = []byte("abc")

	performer := NewPerformer(writer)

	err := performer.Perform(Update("f.kt", editSet(t, 0, 100, "X")))
	require.Error(t, err)
	assert.Equal(t, "abc", string(writer.files["f.kt"]))
}

func TestPerformer_NilWriterRejected(t *testing.T) {
	t.Parallel()

	performer := NewPerformer(nil)

	err := performer.Perform(Update("f.kt", editSet(t, 0, 1, "x")))
	assert.ErrorIs(t, err, ErrNilWriter)
}

func TestPerformer_ShowErrorReachesCallback(t *testing.T) {
	t.Parallel()

	performer := NewPerformer(newFakeWriter())

	var got string

	performer.OnMessage = func(message string) { got = message }

	require.NoError(t, performer.Perform(Error("cannot rewrite")))
	assert.Equal(t, "cannot rewrite", got)
}

func TestPerformer_NavigateReachesCallback(t *testing.T) {
	t.Parallel()

	performer := NewPerformer(newFakeWriter())

	var got Navigate

	performer.OnNavigate = func(nav Navigate) { got = nav }

	require.NoError(t, performer.Perform(Select("f.kt", 4, 10)))
	assert.Equal(t, Navigate{Path: "f.kt", Start: 4, End: 10, Caret: 4}, got)
}

func TestPerformer_CompositeStopsOnFirstError(t *testing.T) {
	t.Parallel()

	writer := newFakeWriter()
	writer.files["a.kt"] = []byte("aa")
	writer.failOn = "a.kt"
	writer.files["b.kt"] = []byte("bb")

	performer := NewPerformer(writer)

	cmd := Composite{Commands: []Command{
		Update("a.kt", editSet(t, 0, 1, "X")),
		Update("b.kt", editSet(t, 0, 1, "Y")),
	}}

	err := performer.Perform(cmd)
	require.ErrorIs(t, err, errInjected)
	assert.Equal(t, "bb", string(writer.files["b.kt"]))
}

func TestPerformer_NothingIsNoop(t *testing.T) {
	t.Parallel()

	performer := NewPerformer(nil)

	assert.NoError(t, performer.Perform(Nop()))
	assert.NoError(t, performer.Perform(nil))
}
