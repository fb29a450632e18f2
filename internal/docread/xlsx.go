package docread

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/findoc-reader/internal/linescan"
)

// readXlsx renders every sheet row with at least two cells as
// "<cell0> ► <cell1>", sheets in workbook order.
func readXlsx(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx workbook: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			lines = append(lines, strings.TrimSpace(row[0])+" "+linescan.RowSeparator+" "+strings.TrimSpace(row[1]))
		}
	}
	return lines, nil
}
