package documents

import "time"

// Document sources.
const (
	SourceUpload = "upload"
	SourceEditor = "editor"
)

// Document is the durable record of one intake, whether a file upload or
// editor-written text. Extraction happens once at intake; the extracted
// text is stored next to the original under ExtractedTextKey.
type Document struct {
	ID               string     `json:"id"`
	SessionID        string     `json:"-"`
	DocType          string     `json:"doc_type"`
	FileName         string     `json:"file_name"`
	MimeType         string     `json:"mime_type"`
	Source           string     `json:"source"`
	SizeBytes        int64      `json:"size_bytes"`
	WordCount        int        `json:"word_count,omitempty"`
	StorageKey       string     `json:"-"`
	ExtractedTextKey string     `json:"-"`
	ExtractedAt      *time.Time `json:"extracted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
