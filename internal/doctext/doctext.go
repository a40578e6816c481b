// Package doctext converts uploaded filing documents to plain text.
//
// Filings arrive as PDF or plain-text uploads. PDF content is extracted
// page by page; pages that fail to decode are skipped rather than
// failing the whole document, since filings frequently contain scanned
// or malformed pages.
package doctext

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// DefaultMaxFileBytes bounds a single uploaded filing when the caller
// does not supply its own ceiling.
const DefaultMaxFileBytes = 50 << 20 // 50MB

const (
	extPDF = ".pdf"
	extTXT = ".txt"
)

// Allowed reports whether the filename carries a supported extension.
func Allowed(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case extPDF, extTXT:
		return true
	default:
		return false
	}
}

// FromUpload converts uploaded file contents to plain text, dispatching
// on the file extension. maxBytes caps the input size; a value <= 0
// applies DefaultMaxFileBytes.
func FromUpload(filename string, data []byte, maxBytes int64) (string, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxFileBytes
	}
	if int64(len(data)) > maxBytes {
		return "", fmt.Errorf("file %q exceeds %d byte limit", filename, maxBytes)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case extPDF:
		return fromPDF(data)
	case extTXT:
		return string(data), nil
	default:
		return "", fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}

// fromPDF extracts plain text from all pages, joined with blank lines.
func fromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}

	return b.String(), nil
}
