// Package extractor adapts statement documents into the plain text the
// scanner consumes. Plain-text files pass through; PDFs are decoded with
// ledongthuc/pdf, falling back to poppler's pdftotext when installed.
// Scanned image-only PDFs are not supported.
package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither PDF nor text.
	ErrUnsupportedFormat = errors.New("unsupported file format: expected .pdf or .txt")
	// ErrNoReadableText is returned when a PDF decodes to nothing usable.
	ErrNoReadableText = errors.New("no readable text could be extracted; the PDF may be image-based/scanned")
)

// pageBreak separates pages in the combined text.
const pageBreak = "\n\n"

// ExtractText reads the document at path and returns its full text.
func ExtractText(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", path, err)
	}
	defer f.Close()

	return ExtractFromReader(f, filepath.Base(path))
}

// ExtractFromReader extracts text from an uploaded document. The file name
// only selects the decoder.
func ExtractFromReader(r io.Reader, name string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", name, err)
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".text":
		return decodeText(data)
	case ".pdf":
		pages, err := extractPDF(data)
		if err != nil {
			return "", err
		}
		return strings.Join(pages, pageBreak), nil
	default:
		return "", fmt.Errorf("%q: %w", name, ErrUnsupportedFormat)
	}
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(data), nil
}
