package wizard

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docwizard-backend/internal/analysis"
	"docwizard-backend/internal/doctypes"
	"docwizard-backend/internal/session"
	"docwizard-backend/internal/shared/server/respond"
	"docwizard-backend/internal/shared/telemetry"
)

// Wizard step numbers. The flow is linear: type selection, document
// intake, analysis, enhancement, share.
const (
	StepSelectType = 1
	StepDocument   = 2
	StepAnalyze    = 3
	StepEnhance    = 4
	StepShare      = 5
)

// enhancementImprovements is the fixed improvement list applied at the
// enhancement step.
var enhancementImprovements = []string{
	"Added executive summary",
	"Enhanced technical specifications",
	"Included reference standards",
	"Added data visualizations",
}

// Handler drives the wizard flow: step gating, analysis, enhancement and
// sharing, plus template/sample downloads.
type Handler struct {
	Sessions    *session.Store
	Analysis    *analysis.Service
	TemplateDir string
	SampleDir   string

	now func() time.Time
}

// NewHandler constructs a Handler.
func NewHandler(sessions *session.Store, svc *analysis.Service, templateDir, sampleDir string) *Handler {
	return &Handler{
		Sessions:    sessions,
		Analysis:    svc,
		TemplateDir: templateDir,
		SampleDir:   sampleDir,
		now:         time.Now,
	}
}

// RegisterRoutes mounts the wizard routes on the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/doc-types", h.listDocTypes)
	rg.POST("/select-type", h.selectType)
	rg.POST("/next-step", h.nextStep)
	rg.GET("/state", h.state)
	rg.POST("/analyze", h.analyze)
	rg.POST("/enhance", h.enhance)
	rg.POST("/share", h.share)
	rg.POST("/reset", h.reset)
	rg.GET("/download_template/:docType", h.downloadTemplate)
	rg.GET("/download_sample/:docType", h.downloadSample)
}

func (h *Handler) listDocTypes(c *gin.Context) {
	respond.OK(c, gin.H{"types": doctypes.All()})
}

type selectTypeRequest struct {
	Type string `json:"type" form:"type"`
}

type selectTypeResponse struct {
	Success  bool          `json:"success"`
	DocType  string        `json:"doc_type"`
	TypeInfo doctypes.Type `json:"type_info"`
	NextStep int           `json:"next_step"`
}

func (h *Handler) selectType(c *gin.Context) {
	var req selectTypeRequest
	if err := c.ShouldBind(&req); err != nil || req.Type == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid document type", nil)
		return
	}

	info, err := doctypes.Get(req.Type)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid document type", nil)
		return
	}

	sessionID := c.GetString("sessionId")
	h.Sessions.SetDocType(sessionID, info.ID)

	respond.OK(c, selectTypeResponse{
		Success:  true,
		DocType:  info.ID,
		TypeInfo: info,
		NextStep: StepDocument,
	})
}

type nextStepRequest struct {
	CurrentStep int `json:"current_step"`
}

type nextStepResponse struct {
	Success        bool              `json:"success"`
	NextStep       int               `json:"next_step"`
	CurrentDocType string            `json:"current_doc_type,omitempty"`
	FileInfo       *session.FileInfo `json:"file_info,omitempty"`
}

func (h *Handler) nextStep(c *gin.Context) {
	var req nextStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if req.CurrentStep < StepSelectType || req.CurrentStep > StepShare {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid step", nil)
		return
	}

	sess, _ := h.Sessions.Get(c.GetString("sessionId"))

	switch req.CurrentStep {
	case StepSelectType:
		if sess.DocType == "" {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a document type first", nil)
			return
		}
	case StepDocument:
		if sess.FileInfo == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please upload a file first", nil)
			return
		}
	case StepAnalyze:
		if sess.FileInfo == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Please upload a file first", nil)
			return
		}
		if sess.Analysis == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Analysis not completed", nil)
			return
		}
	case StepEnhance:
		if sess.Enhanced == nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Enhancement not completed", nil)
			return
		}
	}

	next := req.CurrentStep + 1
	if next > StepShare {
		next = StepShare
	}
	respond.OK(c, nextStepResponse{
		Success:        true,
		NextStep:       next,
		CurrentDocType: sess.DocType,
		FileInfo:       sess.FileInfo,
	})
}

type stateResponse struct {
	CurrentDocType  string               `json:"current_doc_type,omitempty"`
	FileInfo        *session.FileInfo    `json:"file_info,omitempty"`
	Analysis        *analysis.Result     `json:"analysis,omitempty"`
	EnhancedContent *session.Enhancement `json:"enhanced_content,omitempty"`
}

func (h *Handler) state(c *gin.Context) {
	sess, _ := h.Sessions.Get(c.GetString("sessionId"))
	respond.OK(c, stateResponse{
		CurrentDocType:  sess.DocType,
		FileInfo:        sess.FileInfo,
		Analysis:        sess.Analysis,
		EnhancedContent: sess.Enhanced,
	})
}

type analyzeResponse struct {
	Success  bool            `json:"success"`
	NextStep int             `json:"next_step"`
	Analysis analysis.Result `json:"analysis"`
}

func (h *Handler) analyze(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	sess, ok := h.Sessions.Get(sessionID)
	if !ok || sess.FileInfo == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file uploaded", nil)
		return
	}
	if sess.DocType == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Please select a document type first", nil)
		return
	}

	result, err := h.Analysis.Analyze(c.Request.Context(), sess.DocType, sess.Content)
	if err != nil {
		switch {
		case errors.Is(err, analysis.ErrNotConfigured):
			respond.Error(c, http.StatusServiceUnavailable, "config_error", "Analysis provider API key not configured", nil)
		case errors.Is(err, analysis.ErrInsufficientContent):
			respond.Error(c, http.StatusBadRequest, "insufficient_content", "Could not extract sufficient content from the document", nil)
		default:
			telemetry.Error("wizard.analyze_failed", map[string]any{
				"doc_type":   sess.DocType,
				"request_id": c.GetString("requestId"),
				"err":        err.Error(),
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Analysis failed", nil)
		}
		return
	}

	h.Sessions.SetAnalysis(sessionID, result)
	respond.OK(c, analyzeResponse{Success: true, NextStep: StepEnhance, Analysis: result})
}

type enhanceResponse struct {
	Success         bool                `json:"success"`
	NextStep        int                 `json:"next_step"`
	EnhancedContent session.Enhancement `json:"enhanced_content"`
}

func (h *Handler) enhance(c *gin.Context) {
	sessionID := c.GetString("sessionId")
	sess, ok := h.Sessions.Get(sessionID)
	if !ok || sess.Analysis == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Document not analyzed", nil)
		return
	}

	enhanced := session.Enhancement{
		OriginalText: sess.Content,
		Improvements: append([]string(nil), enhancementImprovements...),
		EnhancedAt:   h.now().UTC(),
	}
	h.Sessions.SetEnhanced(sessionID, enhanced)

	respond.OK(c, enhanceResponse{Success: true, NextStep: StepShare, EnhancedContent: enhanced})
}

type shareInfo struct {
	SharedAt time.Time `json:"shared_at"`
	ShareURL string    `json:"share_url"`
	Expiry   string    `json:"expiry"`
}

type shareResponse struct {
	Success   bool      `json:"success"`
	ShareInfo shareInfo `json:"share_info"`
}

func (h *Handler) share(c *gin.Context) {
	sess, ok := h.Sessions.Get(c.GetString("sessionId"))
	if !ok || sess.Enhanced == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Document not enhanced", nil)
		return
	}

	respond.OK(c, shareResponse{
		Success: true,
		ShareInfo: shareInfo{
			SharedAt: h.now().UTC(),
			ShareURL: "https://example.com/share/" + uuid.NewString(),
			Expiry:   "24 hours",
		},
	})
}

func (h *Handler) reset(c *gin.Context) {
	h.Sessions.Reset(c.GetString("sessionId"))
	respond.OK(c, gin.H{"success": true, "next_step": StepSelectType})
}

func (h *Handler) downloadTemplate(c *gin.Context) {
	h.downloadArtifact(c, h.TemplateDir, func(t doctypes.Type) string { return t.TemplateFile })
}

func (h *Handler) downloadSample(c *gin.Context) {
	h.downloadArtifact(c, h.SampleDir, func(t doctypes.Type) string { return t.SampleFile })
}

func (h *Handler) downloadArtifact(c *gin.Context, dir string, pick func(doctypes.Type) string) {
	info, err := doctypes.Get(c.Param("docType"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid document type", nil)
		return
	}

	fileName := pick(info)
	path := filepath.Join(dir, fileName)
	if _, err := os.Stat(path); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "File not found", nil)
		return
	}
	c.FileAttachment(path, fileName)
}
