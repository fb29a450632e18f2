// Package linescan resolves canonical fields from the lines of a
// semi-structured document by alias lookup and key/value splitting.
package linescan

import (
	"log/slog"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

// Separators in preference order. The table-row marker is what document
// readers put between the first two cells of a row.
const (
	RowSeparator = "►"
	tabSeparator = "\t"
	colSeparator = ":"
)

var separators = []string{RowSeparator, tabSeparator, colSeparator}

// Extractor scans lines for a fixed table. It holds no per-call state and is
// safe for concurrent use.
type Extractor struct {
	table  Table
	lower  [][]string // lowered aliases, parallel to table
	logger *slog.Logger
}

// NewExtractor builds an extractor over table; an empty table means DefaultTable.
func NewExtractor(table Table, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if len(table) == 0 {
		table = DefaultTable()
	}
	lower := make([][]string, len(table))
	for i, fa := range table {
		for _, a := range fa.Names() {
			lower[i] = append(lower[i], strings.ToLower(a))
		}
	}
	return &Extractor{table: table, lower: lower, logger: logger}
}

func (e *Extractor) Table() Table { return e.table }

// Fields lists the keys every result of this extractor carries.
func (e *Extractor) Fields() []constants.Field { return e.table.Fields() }

// Extract resolves every field of the table against lines. For each field the
// first line (in order) carrying one of its aliases with a non-empty value
// wins; on that line aliases are tried in priority order.
func (e *Extractor) Extract(lines []string) *entity.FieldSet {
	out := entity.NewFieldSet(e.table.Fields())

	lowered := make([]string, len(lines))
	for i, l := range lines {
		lowered[i] = strings.ToLower(l)
	}

	for i, fa := range e.table {
		e.resolve(out, fa.Field, e.lower[i], lines, lowered)
	}
	return out
}

func (e *Extractor) resolve(out *entity.FieldSet, field constants.Field, aliases, lines, lowered []string) {
	for li, line := range lines {
		for _, alias := range aliases {
			if !strings.Contains(lowered[li], alias) {
				continue
			}
			_, value := SplitKeyValue(line)
			if out.Assign(field, value) {
				e.logger.Debug("linescan.hit", "field", string(field), "alias", alias, "line", li)
				return
			}
		}
	}
}

// SplitKeyValue splits line at the first occurrence of the first separator it
// contains, in preference order ► > tab > colon. Without a separator the whole
// line is the key and the value is empty. Both parts are trimmed.
func SplitKeyValue(line string) (key, value string) {
	for _, sep := range separators {
		if k, v, found := strings.Cut(line, sep); found {
			return strings.TrimSpace(k), strings.TrimSpace(v)
		}
	}
	return strings.TrimSpace(line), ""
}
