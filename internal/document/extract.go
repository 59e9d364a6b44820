// Package document turns uploaded files into plain text and answers questions over it.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

var (
	ErrNoText          = errors.New("document: no text could be extracted")
	ErrUnsupportedType = errors.New("document: unsupported file type")
)

// PageProgress is called after each page with the fraction of pages read.
type PageProgress func(fraction float64)

// ExtractPDF reads every page's text, skipping empty or unreadable pages,
// and joins them with blank lines.
func ExtractPDF(r io.ReaderAt, size int64, log *logger.Logger, progress PageProgress) (string, error) {
	if log == nil {
		log = logger.Nop()
	}
	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	total := reader.NumPage()
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		text, err := pageText(reader, i)
		if err != nil {
			log.Warn("pdf page extraction failed", "page", i, "error", err)
		} else if t := strings.TrimSpace(text); t != "" {
			parts = append(parts, t)
		}
		if progress != nil {
			progress(float64(i) / float64(total))
		}
	}
	if len(parts) == 0 {
		return "", ErrNoText
	}
	full := strings.Join(parts, "\n\n")
	log.Info("pdf text extracted", "characters", utf8.RuneCountInString(full), "pages", len(parts))
	return full, nil
}

// pageText guards against panics inside the pdf parser on malformed content streams.
func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d: %v", n, r)
		}
	}()
	p := reader.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

// ExtractText dispatches on the file extension.
func ExtractText(name string, data []byte, log *logger.Logger) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return ExtractPDF(bytes.NewReader(data), int64(len(data)), log, nil)
	case ".txt", ".md", ".markdown", "":
		if !utf8.Valid(data) {
			return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsupportedType, name)
		}
		text := strings.TrimSpace(string(data))
		if text == "" {
			return "", ErrNoText
		}
		return text, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(name))
	}
}
