package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractPlainAndMarkdown(t *testing.T) {
	cases := []struct {
		name        string
		contentType string
		filename    string
	}{
		{"plain", "text/plain", "notes.txt"},
		{"plain with charset", "text/plain; charset=utf-8", "notes.txt"},
		{"markdown", "text/markdown", "README.md"},
		{"octet-stream markdown", "application/octet-stream", "guide.MD"},
		{"octet-stream long extension", "application/octet-stream", "guide.markdown"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Extract([]byte("# Title\nbody"), tc.contentType, tc.filename)
			if err != nil {
				t.Fatalf("extract: %v", err)
			}
			if got != "# Title\nbody" {
				t.Fatalf("got %q", got)
			}
		})
	}
}

func TestExtractRejectsUnsupportedTypes(t *testing.T) {
	cases := []struct {
		contentType string
		filename    string
	}{
		{"image/png", "logo.png"},
		{"application/octet-stream", "archive.bin"},
		{"application/msword", "legacy.doc"},
	}
	for _, tc := range cases {
		_, err := Extract([]byte("data"), tc.contentType, tc.filename)
		if !errors.Is(err, ErrUnsupportedType) {
			t.Fatalf("%s: expected unsupported, got %v", tc.contentType, err)
		}
		want := "Unsupported file type: " + tc.contentType + ". Supported types: PDF, DOCX, TXT, MD"
		if err.Error() != want {
			t.Fatalf("message = %q", err.Error())
		}
	}
}

func TestExtractEmptyText(t *testing.T) {
	_, err := Extract([]byte(" \n\t "), "text/plain", "blank.txt")
	if !errors.Is(err, ErrEmptyDocument) {
		t.Fatalf("expected empty document error, got %v", err)
	}
}

func TestExtractInvalidUTF8IsReplaced(t *testing.T) {
	got, err := Extract([]byte{'o', 'k', 0xff, '!'}, "text/plain", "x.txt")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "ok�!" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractSniffsMissingContentType(t *testing.T) {
	got, err := Extract([]byte("just some text"), "", "upload")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if got != "just some text" {
		t.Fatalf("got %q", got)
	}
}

func TestExtractUnsupportedReportsSniffedType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	_, err := Extract(png, "", "upload")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected unsupported, got %v", err)
	}
	want := "Unsupported file type: image/png. Supported types: PDF, DOCX, TXT, MD"
	if err.Error() != want {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestExtractCorruptPDF(t *testing.T) {
	_, err := Extract([]byte("%PDF-1.4 not really"), TypePDF, "broken.pdf")
	if !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func TestExtractDOCX(t *testing.T) {
	data := buildDOCX(t, "Hello DOCX")
	got, err := Extract(data, TypeDOCX, "doc.docx")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !strings.Contains(got, "Hello DOCX") {
		t.Fatalf("got %q", got)
	}

	if _, err := Extract([]byte("not a zip"), TypeDOCX, "bad.docx"); !errors.Is(err, ErrExtraction) {
		t.Fatalf("expected extraction error, got %v", err)
	}
}

func buildDOCX(t *testing.T, text string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body><w:p><w:r><w:t>` + text + `</w:t></w:r></w:p></w:body>
</w:document>`,
	}
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}
