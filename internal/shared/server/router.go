package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"docwizard-backend/internal/analysis"
	"docwizard-backend/internal/documents"
	"docwizard-backend/internal/llm"
	"docwizard-backend/internal/llm/gemini"
	"docwizard-backend/internal/llm/openai"
	"docwizard-backend/internal/session"
	"docwizard-backend/internal/shared/config"
	"docwizard-backend/internal/shared/metrics"
	"docwizard-backend/internal/shared/server/middleware"
	"docwizard-backend/internal/shared/server/respond"
	"docwizard-backend/internal/shared/storage/db"
	localstore "docwizard-backend/internal/shared/storage/object/local"
	"docwizard-backend/internal/wizard"
)

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(cfg config.Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	sessions := session.NewStore(cfg.SessionTTL)

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		session.Middleware(sessions),
	)

	// Dependencies
	store := localstore.New(cfg.UploadDir)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		dbConn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else {
			if err := db.RunMigrations(context.Background(), dbConn); err != nil {
				log.Printf("failed to run migrations, falling back to memory: %v", err)
				dbConn = nil
			}
		}
		sqlDB = dbConn
	}

	var docRepo documents.Repo
	if sqlDB != nil {
		docRepo = &documents.PGRepo{DB: sqlDB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}
	docSvc := documents.NewService(store, docRepo)
	docHandler := documents.NewHandler(docSvc, sessions)

	analysisSvc := buildAnalysisService(cfg)
	wizardHandler := wizard.NewHandler(sessions, analysisSvc, cfg.TemplateDir, cfg.SampleDir)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	docHandler.RegisterRoutes(api)
	wizardHandler.RegisterRoutes(api)

	r.GET("/metrics", metrics.Handler())

	return r
}

// buildAnalysisService selects the strategy and provider client from
// configuration. A missing or placeholder credential leaves the service
// unconfigured; analysis requests then fail fast without a network call.
func buildAnalysisService(cfg config.Config) *analysis.Service {
	var (
		strategy   analysis.Strategy
		client     llm.Client
		configured bool
		err        error
	)

	switch cfg.AnalysisStrategy {
	case "freeform":
		strategy = analysis.NewFreeform(cfg.FreeformTimeout)
		if config.CredentialConfigured(cfg.GeminiAPIKey) {
			client, err = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
			configured = err == nil
		}
	default:
		strategy = analysis.NewChecklist(cfg.ChecklistTimeout)
		if config.CredentialConfigured(cfg.OpenAIAPIKey) {
			client, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
			configured = err == nil
		}
	}
	if err != nil {
		log.Printf("analysis provider client init failed, analysis disabled: %v", err)
	}

	return analysis.NewService(strategy, client, configured)
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
