package documents

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
	id, session_id, doc_type, file_name, mime_type, source,
	size_bytes, word_count, storage_key, extracted_text_key, extracted_at, created_at
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.DB.ExecContext(ctx, query,
		doc.ID,
		doc.SessionID,
		doc.DocType,
		doc.FileName,
		doc.MimeType,
		doc.Source,
		doc.SizeBytes,
		doc.WordCount,
		nullString(doc.StorageKey),
		nullString(doc.ExtractedTextKey),
		doc.ExtractedAt,
		doc.CreatedAt,
	)
	return err
}

// GetCurrentBySession returns the most recent document for a session.
func (r *PGRepo) GetCurrentBySession(ctx context.Context, sessionID string) (Document, error) {
	const query = `
SELECT id, session_id, doc_type, file_name, mime_type, source,
       size_bytes, word_count, storage_key, extracted_text_key, extracted_at, created_at
FROM documents
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1`

	doc, err := scanDocument(r.DB.QueryRowContext(ctx, query, sessionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	return doc, nil
}

// ListBySession returns the session's documents ordered newest-first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Document, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	const query = `
SELECT id, session_id, doc_type, file_name, mime_type, source,
       size_bytes, word_count, storage_key, extracted_text_key, extracted_at, created_at
FROM documents
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var wordCount sql.NullInt64
	var storageKey sql.NullString
	var extractedTextKey sql.NullString
	var extractedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.SessionID,
		&doc.DocType,
		&doc.FileName,
		&doc.MimeType,
		&doc.Source,
		&doc.SizeBytes,
		&wordCount,
		&storageKey,
		&extractedTextKey,
		&extractedAt,
		&doc.CreatedAt,
	)
	if err != nil {
		return Document{}, err
	}
	if wordCount.Valid {
		doc.WordCount = int(wordCount.Int64)
	}
	if storageKey.Valid {
		doc.StorageKey = storageKey.String
	}
	if extractedTextKey.Valid {
		doc.ExtractedTextKey = extractedTextKey.String
	}
	if extractedAt.Valid {
		doc.ExtractedAt = &extractedAt.Time
	}
	return doc, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
