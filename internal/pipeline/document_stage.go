package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
	"github.com/joseph-ayodele/findoc-reader/internal/extract"
)

// DocumentStage reads a term-sheet container into lines and scans them.
type DocumentStage struct {
	Logger    *slog.Logger
	Lines     extract.LineSource
	Extractor extract.DocumentExtractor
}

func NewDocumentStage(logger *slog.Logger, lines extract.LineSource, ex extract.DocumentExtractor) *DocumentStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentStage{Logger: logger, Lines: lines, Extractor: ex}
}

// Run returns the result set for one document. Party A / Party B, when the
// extractor resolves them separately, are folded into Counterparty.
func (s *DocumentStage) Run(ctx context.Context, name string, data []byte) (*entity.FieldSet, error) {
	lines, err := s.Lines.ReadLines(ctx, name, data)
	if err != nil {
		return nil, fmt.Errorf("read lines: %w", err)
	}
	fs := s.Extractor.Extract(lines)
	if CombineParties(fs) {
		s.Logger.Debug("processor.document.parties", "file", name)
	}
	return fs, nil
}

// CombineParties sets Counterparty to "<Party A>, <Party B>" (or whichever
// one is set) when fs carries both party fields. It reports whether
// Counterparty was changed.
func CombineParties(fs *entity.FieldSet) bool {
	if !fs.Has(constants.PartyA) || !fs.Has(constants.PartyB) || !fs.Has(constants.Counterparty) {
		return false
	}
	pa, okA := fs.Get(constants.PartyA)
	pb, okB := fs.Get(constants.PartyB)
	var combined string
	switch {
	case okA && okB:
		combined = pa + ", " + pb
	case okA:
		combined = pa
	case okB:
		combined = pb
	default:
		return false
	}
	fs.Override(constants.Counterparty, combined)
	return true
}
