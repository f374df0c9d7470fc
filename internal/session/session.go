package session

import (
	"time"

	"docwizard-backend/internal/analysis"
)

// FileInfo records what the wizard knows about the selected document. It is
// echoed back to the client on state reads, so field names are part of the
// API surface.
type FileInfo struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Type       string    `json:"type"`
	Source     string    `json:"source"`
	WordCount  int       `json:"word_count,omitempty"`
	UploadedAt time.Time `json:"uploaded_at"`

	StorageKey string `json:"-"`
}

// Enhancement is the editable-document step output.
type Enhancement struct {
	OriginalText string    `json:"original_text"`
	Improvements []string  `json:"improvements"`
	EnhancedAt   time.Time `json:"enhanced_at"`
}

// Session is the per-visitor wizard state. Content holds the extracted text
// of the current document so the analysis step never re-reads storage.
type Session struct {
	ID       string
	DocType  string
	FileInfo *FileInfo
	Content  string
	Analysis *analysis.Result
	Enhanced *Enhancement

	CreatedAt time.Time
	ExpiresAt time.Time
}
