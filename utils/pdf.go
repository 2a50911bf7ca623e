package utils

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPreview extracts the plain text of the first numPages pages of a PDF.
// Pages that fail text extraction are skipped rather than failing the
// whole preview.
func PDFPreview(data []byte, numPages int) ([]byte, error) {
	if numPages < 1 {
		return nil, fmt.Errorf("preview pages must be at least 1")
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if numPages > total {
		numPages = total
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
	}

	if sb.Len() == 0 {
		return nil, fmt.Errorf("no text extracted from PDF")
	}
	return []byte(sb.String()), nil
}
