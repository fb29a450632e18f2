package docread

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/findoc-reader/constants"
	"github.com/joseph-ayodele/findoc-reader/internal/common"
	"github.com/joseph-ayodele/findoc-reader/internal/linescan"
)

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr><w:r><w:t>Indicative Terms</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Party A: </w:t></w:r><w:r><w:t>Bank X</w:t></w:r></w:p>
<w:p><w:r><w:t>Termination Date</w:t></w:r><w:r><w:tab/><w:t>15 June 2030</w:t></w:r></w:p>
<w:p><w:del><w:r><w:delText>Old</w:delText></w:r></w:del><w:r><w:t>Kept</w:t></w:r></w:p>
<w:tbl>
  <w:tr>
    <w:tc><w:p><w:r><w:t>Notional Amount (N)</w:t></w:r></w:p></w:tc>
    <w:tc><w:p><w:r><w:t>50,000,000 EUR</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>Lonely cell</w:t></w:r></w:p></w:tc>
  </w:tr>
  <w:tr>
    <w:tc><w:p><w:r><w:t>Coupon (C)</w:t></w:r></w:p></w:tc>
    <w:tc>
      <w:p><w:r><w:t>4.5%</w:t></w:r></w:p>
      <w:tbl><w:tr>
        <w:tc><w:p><w:r><w:t>inner</w:t></w:r></w:p></w:tc>
        <w:tc><w:p><w:r><w:t>cell</w:t></w:r></w:p></w:tc>
      </w:tr></w:tbl>
    </w:tc>
    <w:tc><w:p><w:r><w:t>third</w:t></w:r></w:p></w:tc>
  </w:tr>
</w:tbl>
<w:p><w:r><w:t>After</w:t><w:br/><w:t>table</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func buildDocx(t *testing.T) []byte {
	return buildZip(t, map[string]string{
		"[Content_Types].xml": `<Types/>`,
		"word/document.xml":   documentXML,
	})
}

func buildXlsx(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Notional"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "10 mio"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Title only"))
	_, err := f.NewSheet("Dates")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Dates", "A1", " Maturity "))
	require.NoError(t, f.SetCellValue("Dates", "B1", "5Y"))
	require.NoError(t, f.SetCellValue("Dates", "C1", "ignored"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadLines_Docx(t *testing.T) {
	lines, err := NewReader(nil).ReadLines(context.Background(), "terms.docx", buildDocx(t))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Indicative Terms",
		"Party A: Bank X",
		"Termination Date\t15 June 2030",
		"Kept",
		"After\ntable",
		"Notional Amount (N) ► 50,000,000 EUR",
		"Coupon (C) ► 4.5%",
	}, lines)
}

func TestReadLines_DocxFeedsExtractor(t *testing.T) {
	lines, err := NewReader(nil).ReadLines(context.Background(), "TERMS.DOCX", buildDocx(t))
	require.NoError(t, err)

	fs := linescan.NewExtractor(nil, nil).Extract(lines)
	for field, want := range map[constants.Field]string{
		constants.Counterparty: "Bank X",
		constants.Maturity:     "15 June 2030",
		constants.Notional:     "50,000,000 EUR",
		constants.Coupon:       "4.5%",
	} {
		got, ok := fs.Get(field)
		require.Truef(t, ok, "field %q", field)
		assert.Equal(t, want, got)
	}
	assert.False(t, fs.IsSet(constants.Barrier))
}

func TestReadLines_Xlsx(t *testing.T) {
	lines, err := NewReader(nil).ReadLines(context.Background(), "terms.xlsx", buildXlsx(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"Notional ► 10 mio", "Maturity ► 5Y"}, lines)
}

func TestReadLines_EmptyDocument(t *testing.T) {
	data := buildZip(t, map[string]string{
		"word/document.xml": `<w:document xmlns:w="urn:w"><w:body/></w:document>`,
	})
	lines, err := NewReader(nil).ReadLines(context.Background(), "empty.docx", data)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestReadLines_Errors(t *testing.T) {
	r := NewReader(nil)
	ctx := context.Background()

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := r.ReadLines(ctx, "terms.pdf", []byte("%PDF"))
		assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	})
	t.Run("not a zip", func(t *testing.T) {
		_, err := r.ReadLines(ctx, "terms.docx", []byte("plain text"))
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("missing document part", func(t *testing.T) {
		_, err := r.ReadLines(ctx, "terms.docx", buildZip(t, map[string]string{"word/other.xml": "<x/>"}))
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("malformed xml", func(t *testing.T) {
		_, err := r.ReadLines(ctx, "terms.docx", buildZip(t, map[string]string{"word/document.xml": "<w:document><w:body>"}))
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("corrupt workbook", func(t *testing.T) {
		_, err := r.ReadLines(ctx, "terms.xlsx", []byte("nope"))
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := r.ReadLines(cctx, "terms.docx", buildDocx(t))
		assert.ErrorIs(t, err, context.Canceled)
	})
}
