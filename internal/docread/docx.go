package docread

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/joseph-ayodele/findoc-reader/internal/linescan"
)

const documentPart = "word/document.xml"

// maxPartBytes caps the decompressed main document part.
const maxPartBytes = 64 << 20

// readDocx returns body paragraph texts in order, then one line per row of
// every top-level table with at least two cells, "<cell0> ► <cell1>".
func readDocx(data []byte) ([]string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == documentPart {
			part = f
			break
		}
	}
	if part == nil {
		return nil, fmt.Errorf("docx archive has no %s", documentPart)
	}
	rc, err := part.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", documentPart, err)
	}
	defer rc.Close()

	return parseDocumentXML(io.LimitReader(rc, maxPartBytes))
}

// docxWalker accumulates WordprocessingML text while the decoder streams tokens.
type docxWalker struct {
	paragraphs []string
	rows       []string

	tableDepth int
	inRun      bool
	inText     bool
	para       strings.Builder
	cell       []string
	row        []string
}

func parseDocumentXML(r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)
	w := &docxWalker{}
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", documentPart, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			// Text boxes and deleted runs are not part of the visible body.
			if t.Name.Local == "txbxContent" || t.Name.Local == "del" {
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("decode %s: %w", documentPart, err)
				}
				continue
			}
			w.start(t.Name.Local)
		case xml.EndElement:
			w.end(t.Name.Local)
		case xml.CharData:
			if w.inText {
				w.para.Write(t)
			}
		}
	}
	return append(w.paragraphs, w.rows...), nil
}

func (w *docxWalker) start(name string) {
	switch name {
	case "tbl":
		w.tableDepth++
	case "tr":
		if w.tableDepth == 1 {
			w.row = w.row[:0]
		}
	case "tc":
		if w.tableDepth == 1 {
			w.cell = w.cell[:0]
		}
	case "p":
		w.para.Reset()
	case "r":
		w.inRun = true
	case "t":
		w.inText = w.inRun
	case "tab":
		if w.inRun {
			w.para.WriteByte('\t')
		}
	case "br", "cr":
		if w.inRun {
			w.para.WriteByte('\n')
		}
	}
}

func (w *docxWalker) end(name string) {
	switch name {
	case "t":
		w.inText = false
	case "r":
		w.inRun = false
	case "p":
		switch w.tableDepth {
		case 0:
			w.paragraphs = append(w.paragraphs, w.para.String())
		case 1:
			w.cell = append(w.cell, w.para.String())
		}
		w.para.Reset()
	case "tc":
		if w.tableDepth == 1 {
			w.row = append(w.row, strings.Join(w.cell, "\n"))
		}
	case "tr":
		if w.tableDepth == 1 && len(w.row) >= 2 {
			w.rows = append(w.rows, w.row[0]+" "+linescan.RowSeparator+" "+w.row[1])
		}
	case "tbl":
		w.tableDepth--
	}
}
