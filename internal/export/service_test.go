package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/entity"
)

func readSheet(t *testing.T, data []byte) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Len(t, sheets, 1)
	rows, err := f.GetRows(sheets[0])
	require.NoError(t, err)
	return sheets[0], rows
}

func TestFieldSetXLSX(t *testing.T) {
	fs := entity.NewFieldSet(constants.ChatFields)
	fs.Assign(constants.ISIN, "FR0001234567")
	fs.Assign(constants.Bid, "ESTR+35bps")

	data, err := NewService(nil).FieldSetXLSX("desk.txt", fs)
	require.NoError(t, err)

	sheet, rows := readSheet(t, data)
	assert.Equal(t, "Fields", sheet)
	require.Len(t, rows, len(constants.ChatFields)+1)
	assert.Equal(t, []string{"Field", "Value"}, rows[0])
	for i, f := range constants.ChatFields {
		assert.Equal(t, string(f), rows[i+1][0])
	}
	assert.Equal(t, []string{"ISIN", "FR0001234567"}, rows[3])
	assert.Equal(t, []string{"Notional"}, rows[2], "null values stay blank")
}

func TestResultsXLSX(t *testing.T) {
	doc := entity.NewFieldSet(constants.DocumentFields)
	doc.Assign(constants.Notional, "50,000,000 EUR")
	chat := entity.NewFieldSet(constants.ChatFields)
	chat.Assign(constants.Notional, "50 mio")
	chat.Assign(constants.Bid, "ESTR+35bps")

	data, err := NewService(nil).ResultsXLSX([]Row{
		{File: "a.docx", Format: "DOCUMENT", Status: "OK", Fields: doc},
		{File: "b.txt", Format: "CHAT", Status: "OK", Fields: chat},
		{File: "c.pdf", Status: "UNSUPPORTED", Error: strings.Repeat("x", 300)},
	})
	require.NoError(t, err)

	sheet, rows := readSheet(t, data)
	assert.Equal(t, "Results", sheet)
	require.Len(t, rows, 4)

	header := rows[0]
	assert.Equal(t, []string{"File", "Format", "Status", "Error"}, header[:4])
	// Document keys first, then chat-only keys; shared keys appear once.
	assert.Len(t, header, 4+len(constants.DocumentFields)+4)
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %q", name)
		return -1
	}
	assert.Equal(t, "50,000,000 EUR", rows[1][col("Notional")])
	assert.Equal(t, "50 mio", rows[2][col("Notional")])
	assert.Equal(t, "ESTR+35bps", rows[2][col("Bid")])
	assert.Equal(t, "UNSUPPORTED", rows[3][2])
	assert.Len(t, []rune(rows[3][3]), 240)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "a", truncate("abc", 1))
	assert.Equal(t, "abc", truncate("abc", 0))
}
