package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	processor "github.com/joseph-ayodele/findoc-reader/internal/pipeline"
)

// stubProcessor echoes the file body as the status it should report.
type stubProcessor struct {
	mu    sync.Mutex
	names []string
}

func (s *stubProcessor) Process(ctx context.Context, name string, data []byte) processor.Result {
	s.mu.Lock()
	s.names = append(s.names, name)
	s.mu.Unlock()

	reqID := common.RequestIDFromContext(ctx)
	status := constants.Status(strings.TrimSpace(string(data)))
	res := processor.Result{File: name, Format: constants.MapExtToFormat(filepath.Ext(name)), Status: status, RequestID: reqID}
	if status == constants.StatusFailed {
		res.Err = common.InvalidInputError("bad file")
		res.Error = res.Err.Error()
	}
	return res
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestIngestPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "desk.txt"), "OK")
	writeFile(t, filepath.Join(dir, "big.txt"), strings.Repeat("x", 64))
	writeFile(t, filepath.Join(dir, "scan.pdf"), "OK")

	stub := &stubProcessor{}
	ing := NewFSIngestor(stub, common.BatchConfig{}, 32, nil)

	res, err := ing.IngestPath(context.Background(), filepath.Join(dir, "desk.txt"))
	require.NoError(t, err)
	assert.Equal(t, constants.StatusOK, res.Status)
	assert.Equal(t, constants.CHAT, res.Format)
	assert.NotEmpty(t, res.RequestID)

	res, err = ing.IngestPath(context.Background(), filepath.Join(dir, "big.txt"))
	assert.ErrorIs(t, err, common.ErrTooLarge)
	assert.Equal(t, constants.StatusFailed, res.Status)

	res, err = ing.IngestPath(context.Background(), filepath.Join(dir, "scan.pdf"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.Equal(t, constants.StatusUnsupported, res.Status)

	_, err = ing.IngestPath(context.Background(), filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)

	assert.Len(t, stub.names, 1, "only readable supported files reach the processor")
}

func TestIngestPath_KeepsRequestID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.chat"), "OK")

	ing := NewFSIngestor(&stubProcessor{}, common.BatchConfig{}, 0, nil)
	res, err := ing.IngestPath(common.WithRequestID(context.Background(), "req-7"), filepath.Join(dir, "a.chat"))
	require.NoError(t, err)
	assert.Equal(t, "req-7", res.RequestID)
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.docx"), "OK")
	writeFile(t, filepath.Join(dir, "b.txt"), "EMPTY")
	writeFile(t, filepath.Join(dir, "nested", "c.xlsx"), "FAILED")
	writeFile(t, filepath.Join(dir, "nested", "d.log"), "OK")
	writeFile(t, filepath.Join(dir, "notes.pdf"), "OK")
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "OK")
	writeFile(t, filepath.Join(dir, ".cache", "e.txt"), "OK")

	stub := &stubProcessor{}
	ing := NewFSIngestor(stub, common.BatchConfig{Workers: 2, QueueSize: 1}, 0, nil)

	results, stats, err := ing.IngestDirectory(context.Background(), dir, true)
	require.NoError(t, err)
	require.Len(t, results, 4)

	var files []string
	for _, r := range results {
		files = append(files, filepath.Base(r.File))
	}
	assert.Equal(t, []string{"a.docx", "b.txt", "c.xlsx", "d.log"}, files, "walk order is kept")

	assert.Equal(t, uint32(4), stats.Matched)
	assert.Equal(t, uint32(3), stats.Succeeded)
	assert.Equal(t, uint32(1), stats.Empty)
	assert.Equal(t, uint32(1), stats.Failed)
	assert.GreaterOrEqual(t, stats.Scanned, uint32(6))

	ids := map[string]struct{}{}
	for _, r := range results {
		ids[r.RequestID] = struct{}{}
	}
	assert.Len(t, ids, 4, "each file gets its own request id")
}

func TestIngestDirectory_IncludesHidden(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".hidden.txt"), "OK")
	writeFile(t, filepath.Join(dir, ".cache", "e.txt"), "OK")

	stub := &stubProcessor{}
	results, stats, err := NewFSIngestor(stub, common.BatchConfig{}, 0, nil).IngestDirectory(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, uint32(2), stats.Succeeded)

	sort.Strings(stub.names)
	assert.Equal(t, filepath.Join(dir, ".cache", "e.txt"), stub.names[0])
}

func TestIngestDirectory_Errors(t *testing.T) {
	ing := NewFSIngestor(&stubProcessor{}, common.BatchConfig{}, 0, nil)

	_, _, err := ing.IngestDirectory(context.Background(), " ", true)
	assert.ErrorIs(t, err, common.ErrInvalidInput)

	results, stats, err := ing.IngestDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"), true)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, constants.StatusFailed, results[0].Status)
	assert.Equal(t, uint32(1), stats.Failed)
}

func TestIngestDirectory_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "OK")
	writeFile(t, filepath.Join(dir, "b.txt"), "OK")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stub := &stubProcessor{}
	results, stats, err := NewFSIngestor(stub, common.BatchConfig{}, 0, nil).IngestDirectory(ctx, dir, true)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, constants.StatusFailed, r.Status)
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
	assert.Equal(t, uint32(2), stats.Failed)
	assert.Empty(t, stub.names)
}

func TestIsHidden(t *testing.T) {
	assert.True(t, IsHidden("/tmp/.git"))
	assert.True(t, IsHidden(".env"))
	assert.False(t, IsHidden("."))
	assert.False(t, IsHidden(".."))
	assert.False(t, IsHidden("/tmp/desk.txt"))
}

func TestAllowedExt(t *testing.T) {
	for _, ext := range []string{".docx", "XLSX", "txt", ".chat", ".log"} {
		assert.True(t, AllowedExt(ext), ext)
	}
	for _, ext := range []string{".pdf", "", ".doc"} {
		assert.False(t, AllowedExt(ext), ext)
	}
	assert.Len(t, AllowedExtensions(), 5)
}
