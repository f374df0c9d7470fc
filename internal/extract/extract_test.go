package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDocxParagraphsJoinedByNewline(t *testing.T) {
	doc := buildDocx(t, `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Executive Summary</w:t></w:r></w:p>
    <w:p><w:r><w:t>This report covers the pilot rollout.</w:t></w:r></w:p>
  </w:body>
</w:document>`)

	text, err := ExtractTextFromBytes(context.Background(), doc, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", "report.docx")
	if err != nil {
		t.Fatalf("extract docx: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(text), "\n")
	var nonEmpty []string
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			nonEmpty = append(nonEmpty, strings.TrimSpace(l))
		}
	}
	if len(nonEmpty) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d: %q", len(nonEmpty), text)
	}
	if nonEmpty[0] != "Executive Summary" {
		t.Fatalf("unexpected first paragraph: %q", nonEmpty[0])
	}
}

func TestExtractDocxFromZipMime(t *testing.T) {
	doc := buildDocx(t, `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>hello</w:t></w:r></w:p></w:body></w:document>`)
	if _, err := ExtractTextFromBytes(context.Background(), doc, "application/zip", "report.docx"); err != nil {
		t.Fatalf("expected docx to extract from zip mime, got error: %v", err)
	}
}

func TestExtractRejectsPlainZip(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("notes.txt")
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("hello")); err != nil {
		t.Fatalf("write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	_, err = ExtractTextFromBytes(context.Background(), buf.Bytes(), "application/zip", "notes.zip")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got: %v", err)
	}
}

func TestCollectPagesSkipsFailedPage(t *testing.T) {
	got := collectPages(3, func(i int) (string, error) {
		switch i {
		case 1:
			return "page one", nil
		case 2:
			return "", errors.New("damaged xref")
		default:
			return "page three", nil
		}
	})
	if got != "page one\npage three\n" {
		t.Fatalf("unexpected join: %q", got)
	}
}

func TestCollectPagesAllFailedYieldsEmpty(t *testing.T) {
	got := collectPages(2, func(i int) (string, error) {
		return "", errors.New("broken")
	})
	if got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestExtractCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ExtractTextFromBytes(ctx, []byte("x"), "application/pdf", "a.pdf"); err == nil {
		t.Fatal("expected context error")
	}
}
