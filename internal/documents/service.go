package documents

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docwizard-backend/internal/extract"
	"docwizard-backend/internal/shared/storage/object"
	"docwizard-backend/internal/shared/telemetry"
	"docwizard-backend/internal/shared/util"
)

// MaxUploadBytes caps accepted uploads at 10MB.
const MaxUploadBytes = 10 << 20

// Service handles document intake: store the original, extract its text
// once, persist the record. Extraction failures do not fail the intake;
// the wizard degrades to an insufficient-content error at the analysis
// step instead.
type Service struct {
	Store object.ObjectStore
	Repo  Repo

	now func() time.Time
}

// NewService constructs a Service.
func NewService(store object.ObjectStore, repo Repo) *Service {
	return &Service{
		Store: store,
		Repo:  repo,
		now:   time.Now,
	}
}

// Upload stores an uploaded file, extracts its text and records the
// document. It returns the record and the extracted text, which is empty
// when extraction failed.
func (s *Service) Upload(ctx context.Context, sessionID, docType, fileName string, r io.Reader) (Document, string, error) {
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, "", err
	}

	key, size, mimeType, err := s.Store.Save(ctx, sessionID, clean, io.LimitReader(r, MaxUploadBytes))
	if err != nil {
		return Document{}, "", fmt.Errorf("save upload: %w", err)
	}

	text := s.extractStored(ctx, key, mimeType, clean)

	now := s.now().UTC()
	doc := Document{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		DocType:    docType,
		FileName:   clean,
		MimeType:   mimeType,
		Source:     SourceUpload,
		SizeBytes:  size,
		WordCount:  len(strings.Fields(text)),
		StorageKey: key,
		CreatedAt:  now,
	}

	if text != "" {
		textKey := key + ".extracted.txt"
		if _, err := s.Store.SaveWithKey(ctx, textKey, "text/plain; charset=utf-8", strings.NewReader(text)); err != nil {
			telemetry.Warn("documents.extracted_text_save_failed", map[string]any{
				"session_key": util.HashSessionKey(sessionID),
				"err":         err.Error(),
			})
		} else {
			doc.ExtractedTextKey = textKey
			doc.ExtractedAt = &now
		}
	}

	s.record(ctx, doc)
	return doc, text, nil
}

// SaveEditor stores editor-written text as a document. The text is its own
// extracted content, so no extraction pass runs.
func (s *Service) SaveEditor(ctx context.Context, sessionID, docType, text string) (Document, error) {
	now := s.now().UTC()
	fileName := "editor_content_" + now.Format("20060102_150405") + ".txt"

	key, size, mimeType, err := s.Store.Save(ctx, sessionID, fileName, strings.NewReader(text))
	if err != nil {
		return Document{}, fmt.Errorf("save editor content: %w", err)
	}

	doc := Document{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		DocType:          docType,
		FileName:         fileName,
		MimeType:         mimeType,
		Source:           SourceEditor,
		SizeBytes:        size,
		WordCount:        len(strings.Fields(text)),
		StorageKey:       key,
		ExtractedTextKey: key,
		ExtractedAt:      &now,
		CreatedAt:        now,
	}

	s.record(ctx, doc)
	return doc, nil
}

// Current returns the session's most recent document.
func (s *Service) Current(ctx context.Context, sessionID string) (Document, error) {
	return s.Repo.GetCurrentBySession(ctx, sessionID)
}

// extractStored reads the stored object back and extracts its text.
// Extraction failure is absorbed; analysis gates on content later.
func (s *Service) extractStored(ctx context.Context, key, mimeType, fileName string) string {
	rc, err := s.Store.Open(ctx, key)
	if err != nil {
		telemetry.Warn("documents.open_failed", map[string]any{"key": key, "err": err.Error()})
		return ""
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		telemetry.Warn("documents.read_failed", map[string]any{"key": key, "err": err.Error()})
		return ""
	}

	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		telemetry.Warn("documents.extract_failed", map[string]any{
			"file_name": fileName,
			"mime_type": mimeType,
			"err":       err.Error(),
		})
		return ""
	}
	return text
}

// record persists the document. Persistence is an audit trail, not wizard
// state, so failures are logged and absorbed.
func (s *Service) record(ctx context.Context, doc Document) {
	if s.Repo == nil {
		return
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		telemetry.Warn("documents.record_failed", map[string]any{
			"document_id": doc.ID,
			"err":         err.Error(),
		})
	}
}
