package extract

import (
	"context"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

// Generic span labels understood by the mapper. Label sources may emit others;
// they are carried through untouched.
const (
	LabelPerson   = "PERSON"
	LabelOrg      = "ORG"
	LabelDate     = "DATE"
	LabelCardinal = "CARDINAL"
	LabelMoney    = "MONEY"
	LabelPercent  = "PERCENT"
)

// Labels maps a generic label to its span texts in order of appearance.
// Duplicates are kept.
type Labels map[string][]string

// Add appends a span under label.
func (l Labels) Add(label, text string) {
	l[label] = append(l[label], text)
}

// Spans returns the spans recorded for label, nil if none.
func (l Labels) Spans(label string) []string {
	return l[label]
}

// LineSource is Stage 1 for documents: container bytes -> ordered lines.
// Paragraph texts come first, then table rows rendered "<cell0> ► <cell1>".
type LineSource interface {
	ReadLines(ctx context.Context, name string, data []byte) ([]string, error)
}

// LabelSource is Stage 1 for chat text: raw text -> labelled spans.
// Implementations must be safe for concurrent use.
type LabelSource interface {
	Label(ctx context.Context, text string) (Labels, error)
}

// DocumentExtractor is Stage 2 for documents: lines -> result set.
type DocumentExtractor interface {
	Extract(lines []string) *entity.FieldSet
	Fields() []constants.Field
}

// SpanMapper is Stage 2 for chat text: raw text + spans -> result set.
type SpanMapper interface {
	Map(text string, labels Labels) *entity.FieldSet
	Fields() []constants.Field
}
