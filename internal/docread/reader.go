// Package docread turns uploaded term-sheet containers into the ordered
// lines the line-scan extractor consumes.
package docread

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
)

// Reader implements extract.LineSource for .docx and .xlsx content.
type Reader struct {
	logger *slog.Logger
}

func NewReader(logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{logger: logger}
}

// ReadLines picks the container format from the extension of name.
func (r *Reader) ReadLines(ctx context.Context, name string, data []byte) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ext := constants.NormalizeExt(filepath.Ext(name))

	var (
		lines []string
		err   error
	)
	switch ext {
	case "docx":
		lines, err = readDocx(data)
	case "xlsx":
		lines, err = readXlsx(data)
	default:
		return nil, common.UnsupportedFormatErrorf("no document reader for %q", ext)
	}
	if err != nil {
		r.logger.Warn("docread.failed", "file", name, "format", ext, "err", err)
		return nil, common.InvalidInputCause("document could not be read", err)
	}

	r.logger.Debug("docread.ok", "file", name, "format", ext, "lines", len(lines))
	return lines, nil
}
