package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekot-dev/dekot/internal/oplog"
)

func TestCandidateTable_EmptyMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	CandidateTable(&buf, nil)

	assert.Contains(t, buf.String(), msgNoCandidates)
}

func TestCandidateTable_RendersRows(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	CandidateTable(&buf, []Candidate{
		{Path: "a.kt", Line: 4, Col: 9, Kind: "local variable", Aggregate: "Point", Pattern: "(x, y)", Suggested: true},
		{Path: "b.kt", Line: 2, Col: 10, Kind: "loop parameter", Aggregate: "Map.Entry", Pattern: "(key, value)"},
	})

	out := buf.String()
	assert.Contains(t, out, "a.kt:4:9")
	assert.Contains(t, out, "(key, value)")
	assert.Contains(t, out, "yes")
	assert.Contains(t, out, "Total: 2")
}

func TestUnifiedDiff_MarksChangedLines(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	before := []byte("val point = p\nprintln(point.x)\n")
	after := []byte("val (x, y) = p\nprintln(x)\n")

	UnifiedDiff(&buf, "f.kt", before, after, false)

	out := buf.String()
	assert.Contains(t, out, "--- f.kt")
	assert.Contains(t, out, "-val point = p")
	assert.Contains(t, out, "+val (x, y) = p")
}

func TestUnifiedDiff_EqualInputNoMarkers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	content := []byte("unchanged\n")

	UnifiedDiff(&buf, "f.kt", content, content, false)

	out := buf.String()
	assert.Contains(t, out, " unchanged")
	assert.NotContains(t, out, "+unchanged")
	assert.NotContains(t, out, "-unchanged")
}

func TestLogTable_EmptyMessage(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	LogTable(&buf, nil)

	assert.Contains(t, buf.String(), "empty")
}

func TestLogTable_RendersRecords(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	LogTable(&buf, []oplog.Record{
		{
			Time:       time.Now().Add(-time.Hour),
			Op:         oplog.OpRewrite,
			Path:       "src/main.kt",
			AfterHash:  "abcdef0123456789",
			BeforeSize: 120,
			AfterSize:  100,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "src/main.kt")
	assert.Contains(t, out, "rewrite")
	assert.Contains(t, out, "abcdef012345")
	assert.Contains(t, out, "Total: 1")
}

func TestShortHash_TruncatesLongHashes(t *testing.T) {
	t.Parallel()

	require.Equal(t, "short", shortHash("short"))
	assert.Len(t, shortHash("0123456789abcdef0123"), shortHashLen)
}
