// Package docload turns uploaded document files into best-effort linear
// text. Readers never fail on partially broken content: a page or paragraph
// that cannot be decoded contributes nothing, and a document with no
// recoverable text yields zero segments rather than an error. Only
// file-level problems (missing file, unknown format) surface as errors.
package docload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// ErrUnsupportedFormat marks file extensions no reader handles.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Load reads a document and returns its text as ordered segments: pages for
// PDF, paragraphs for DOCX, blocks for HTML, the whole content for plain
// text. Segment order matches document reading order.
func Load(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return loadPDF(path)
	case ".docx", ".doc":
		return loadDOCX(path)
	case ".html", ".htm":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return readHTML(b), nil
	case ".txt", ".text", ".md":
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []string{string(b)}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Allowed reports whether the extension (with or without leading dot) maps
// to a reader. Upload surfaces use this as their allowlist.
func Allowed(ext string) bool {
	e := strings.ToLower(strings.TrimPrefix(ext, "."))
	switch e {
	case "pdf", "doc", "docx", "html", "htm", "txt", "text", "md":
		return true
	}
	return false
}

func loadPDF(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	segments := readPDF(b)
	log.Debug().Str("path", path).Int("streams", len(segments)).Msg("extracted text from PDF")
	return segments, nil
}

func loadDOCX(path string) ([]string, error) {
	paras, err := readDOCX(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("path", path).Int("paragraphs", len(paras)).Msg("extracted text from DOCX")
	return paras, nil
}
