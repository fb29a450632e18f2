package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

const (
	fieldsSheet  = "Fields"
	resultsSheet = "Results"
)

// Row is one processed file in a batch workbook.
type Row struct {
	File   string
	Format string
	Status string
	Error  string
	Fields *entity.FieldSet
}

// Service renders result sets as XLSX workbooks.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FieldSetXLSX returns a one-sheet workbook with a Field | Value row per key,
// in the result set's order. Null values are left blank.
func (s *Service) FieldSetXLSX(source string, fs *entity.FieldSet) ([]byte, error) {
	start := time.Now()

	f, err := newWorkbook(fieldsSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	writeRow(f, fieldsSheet, 1, "Field", "Value")
	row := 2
	for _, field := range fs.Fields() {
		v, _ := fs.Get(field)
		writeRow(f, fieldsSheet, row, string(field), v)
		row++
	}
	_ = f.SetColWidth(fieldsSheet, "A", "A", 24)
	_ = f.SetColWidth(fieldsSheet, "B", "B", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"source", source,
		"rows", fs.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ResultsXLSX returns a workbook with one row per file. Field columns are the
// union of the rows' keys in first-seen order; documents are never merged.
func (s *Service) ResultsXLSX(rows []Row) ([]byte, error) {
	start := time.Now()

	f, err := newWorkbook(resultsSheet)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	columns := fieldColumns(rows)
	headers := []any{"File", "Format", "Status", "Error"}
	for _, c := range columns {
		headers = append(headers, string(c))
	}
	writeRow(f, resultsSheet, 1, headers...)

	for i, r := range rows {
		values := []any{r.File, r.Format, r.Status, truncate(r.Error, 240)}
		for _, c := range columns {
			v := ""
			if r.Fields != nil {
				v, _ = r.Fields.Get(c)
			}
			values = append(values, v)
		}
		writeRow(f, resultsSheet, i+2, values...)
	}
	_ = f.SetColWidth(resultsSheet, "A", "A", 40)
	_ = f.SetColWidth(resultsSheet, "B", "C", 12)
	_ = f.SetColWidth(resultsSheet, "D", "D", 48)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"rows", len(rows),
		"columns", len(headers),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	idx, err := f.NewSheet(sheet)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func fieldColumns(rows []Row) []constants.Field {
	seen := map[constants.Field]struct{}{}
	var out []constants.Field
	for _, r := range rows {
		if r.Fields == nil {
			continue
		}
		for _, f := range r.Fields.Fields() {
			if _, ok := seen[f]; ok {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
