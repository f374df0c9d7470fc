package documents

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"docwizard-backend/internal/session"
	"docwizard-backend/internal/shared/server/respond"
	"docwizard-backend/internal/shared/telemetry"
)

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".docx": {},
}

// Handler exposes document intake over HTTP.
type Handler struct {
	Service  *Service
	Sessions *session.Store
}

// NewHandler constructs a Handler.
func NewHandler(service *Service, sessions *session.Store) *Handler {
	return &Handler{Service: service, Sessions: sessions}
}

// RegisterRoutes mounts the document routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/upload", h.upload)
	rg.POST("/save-editor-content", h.saveEditor)
	rg.GET("/documents/current", h.current)
}

type intakeResponse struct {
	Success  bool             `json:"success"`
	FileInfo session.FileInfo `json:"file_info"`
	NextStep int              `json:"next_step"`
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	sess, ok := h.Sessions.Get(sessionID)
	if !ok || sess.DocType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a document type first", nil)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file provided", nil)
		return
	}
	if file.Filename == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file selected", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, allowed := allowedExtensions[ext]; !allowed {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid file type. Please upload a PDF or DOCX file", nil)
		return
	}
	if file.Size > MaxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "File exceeds the 10MB upload limit", nil)
		return
	}

	src, err := file.Open()
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to read upload", nil)
		return
	}
	defer src.Close()

	doc, text, err := h.Service.Upload(c.Request.Context(), sessionID, sess.DocType, file.Filename, src)
	if err != nil {
		telemetry.Error("documents.upload_failed", map[string]any{
			"file_name":  file.Filename,
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store upload", nil)
		return
	}

	info := session.FileInfo{
		Name:       doc.FileName,
		Size:       doc.SizeBytes,
		Type:       strings.TrimPrefix(ext, "."),
		Source:     SourceUpload,
		UploadedAt: doc.CreatedAt,
		StorageKey: doc.StorageKey,
	}
	h.Sessions.SetDocument(sessionID, info, text)

	respond.OK(c, intakeResponse{Success: true, FileInfo: info, NextStep: 3})
}

type editorRequest struct {
	Content string `json:"content"`
	Text    string `json:"text"`
}

func (h *Handler) saveEditor(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	sess, ok := h.Sessions.Get(sessionID)
	if !ok || sess.DocType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a document type first", nil)
		return
	}

	var req editorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	text := req.Text
	if text == "" {
		text = req.Content
	}
	if len(strings.TrimSpace(text)) < 50 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Content is too short. Please write at least 50 characters.", nil)
		return
	}

	doc, err := h.Service.SaveEditor(c.Request.Context(), sessionID, sess.DocType, text)
	if err != nil {
		telemetry.Error("documents.save_editor_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"err":        err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store editor content", nil)
		return
	}

	info := session.FileInfo{
		Name:       doc.FileName,
		Size:       doc.SizeBytes,
		Type:       "editor",
		Source:     SourceEditor,
		WordCount:  doc.WordCount,
		UploadedAt: doc.CreatedAt,
		StorageKey: doc.StorageKey,
	}
	h.Sessions.SetDocument(sessionID, info, text)

	respond.OK(c, intakeResponse{Success: true, FileInfo: info, NextStep: 3})
}

func (h *Handler) current(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	doc, err := h.Service.Current(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "no document for this session", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		return
	}
	respond.OK(c, doc)
}
