package oplog

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempLog(t *testing.T) *Log {
	t.Helper()

	return Open(filepath.Join(t.TempDir(), "oplog"))
}

func sampleRecord(path string) Record {
	return Record{
		Time:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Op:         OpRewrite,
		Path:       path,
		BeforeHash: HashContent([]byte("before")),
		AfterHash:  HashContent([]byte("after")),
		BeforeSize: 6,
		AfterSize:  5,
	}
}

func TestLog_AppendReadRoundTrip(t *testing.T) {
	t.Parallel()

	log := tempLog(t)

	first := sampleRecord("a.kt")
	second := sampleRecord("b.kt")

	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(second))

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first, records[0])
	assert.Equal(t, second, records[1])
}

func TestLog_ReadMissingFileYieldsNoRecords(t *testing.T) {
	t.Parallel()

	log := Open(filepath.Join(t.TempDir(), "absent"))

	records, err := log.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLog_CompressibleRecordSurvives(t *testing.T) {
	t.Parallel()

	log := tempLog(t)

	rec := sampleRecord(strings.Repeat("long/path/segment/", 50) + "file.kt")
	require.NoError(t, log.Append(rec))

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rec.Path, records[0].Path)
}

func TestLog_TruncatedTailReturnsError(t *testing.T) {
	t.Parallel()

	log := tempLog(t)
	require.NoError(t, log.Append(sampleRecord("a.kt")))

	file, err := os.OpenFile(log.Path(), os.O_WRONLY|os.O_APPEND, 0o644)
	require.NoError(t, err)

	_, err = file.Write([]byte{0x01, 0x02, 0x03})
	require.NoError(t, err)
	require.NoError(t, file.Close())

	records, err := log.ReadAll()
	assert.ErrorIs(t, err, errFrameTruncated)
	assert.Len(t, records, 1)
}

func TestHashContent_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashContent([]byte("x")), HashContent([]byte("x")))
	assert.NotEqual(t, HashContent([]byte("x")), HashContent([]byte("y")))
	assert.Len(t, HashContent(nil), 40)
}

// recordingWriter captures writes and optionally fails reads.
type recordingWriter struct {
	files map[string][]byte
}

func (w *recordingWriter) ReadFile(path string) ([]byte, error) {
	return w.files[path], nil
}

func (w *recordingWriter) WriteFile(path string, data []byte) error {
	w.files[path] = data

	return nil
}

func TestInterceptor_RecordsWriteTransition(t *testing.T) {
	t.Parallel()

	log := tempLog(t)
	inner := &recordingWriter{files: map[string][]byte{"f.kt": []byte("old content")}}

	interceptor := NewInterceptor(inner, log, slog.Default())

	data, err := interceptor.ReadFile("f.kt")
	require.NoError(t, err)
	assert.Equal(t, "old content", string(data))

	require.NoError(t, interceptor.WriteFile("f.kt", []byte("new")))
	assert.Equal(t, "new", string(inner.files["f.kt"]))

	records, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, OpRewrite, rec.Op)
	assert.Equal(t, "f.kt", rec.Path)
	assert.Equal(t, HashContent([]byte("old content")), rec.BeforeHash)
	assert.Equal(t, HashContent([]byte("new")), rec.AfterHash)
	assert.Equal(t, 11, rec.BeforeSize)
	assert.Equal(t, 3, rec.AfterSize)
}

func TestInterceptor_LogFailureDoesNotFailWrite(t *testing.T) {
	t.Parallel()

	// A log path inside a missing directory cannot be created.
	log := Open(filepath.Join(t.TempDir(), "missing", "oplog"))
	inner := &recordingWriter{files: map[string][]byte{}}

	interceptor := NewInterceptor(inner, log, slog.Default())

	require.NoError(t, interceptor.WriteFile("f.kt", []byte("data")))
	assert.Equal(t, "data", string(inner.files["f.kt"]))
}
