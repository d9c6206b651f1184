// Package extract turns an uploaded document into plain UTF-8 text.
package extract

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

const (
	TypePDF      = "application/pdf"
	TypeDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText     = "text/plain"
	TypeMarkdown = "text/markdown"
	TypeBinary   = "application/octet-stream"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrExtraction      = errors.New("text extraction failed")
	ErrEmptyDocument   = errors.New("Could not extract text from the document or document is empty.")
)

// UnsupportedTypeError names the rejected content type.
type UnsupportedTypeError struct {
	ContentType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("Unsupported file type: %s. Supported types: PDF, DOCX, TXT, MD", e.ContentType)
}

func (e *UnsupportedTypeError) Unwrap() error { return ErrUnsupportedType }

// Extract dispatches on the declared content type. The filename only matters
// for octet-stream uploads of markdown files. An empty content type is
// sniffed from the data.
func Extract(data []byte, contentType, filename string) (string, error) {
	mediaType := normalize(contentType)
	if mediaType == "" {
		mediaType = normalize(mimetype.Detect(data).String())
	}

	var (
		text string
		err  error
	)
	switch {
	case mediaType == TypePDF:
		text, err = extractPDF(data)
	case mediaType == TypeDOCX:
		text, err = extractDOCX(data)
	case mediaType == TypeText, mediaType == TypeMarkdown:
		text = decodeUTF8(data)
	case mediaType == TypeBinary && isMarkdownName(filename):
		text = decodeUTF8(data)
	default:
		reported := strings.TrimSpace(contentType)
		if reported == "" {
			reported = mediaType
		}
		return "", &UnsupportedTypeError{ContentType: reported}
	}
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyDocument
	}
	return text, nil
}

func normalize(contentType string) string {
	contentType = strings.TrimSpace(contentType)
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(contentType)
	}
	return strings.ToLower(mediaType)
}

func isMarkdownName(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".md", ".markdown":
		return true
	}
	return false
}

// decodeUTF8 replaces invalid sequences with U+FFFD.
func decodeUTF8(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return strings.ToValidUTF8(string(data), "�")
}
