package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/sutra-starters/internal/http/handlers"
	httpMW "github.com/yungbote/sutra-starters/internal/http/middleware"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type RouterConfig struct {
	Log     *logger.Logger
	Service string

	AllowOrigins    []string
	MaxRequestBytes int64

	// Metrics records per-route request counts. MetricsHandler, when set, is
	// served at GET /metrics.
	Metrics        httpMW.HTTPRecorder
	MetricsHandler http.Handler

	// Auth, when set, guards every route except health and metrics.
	Auth *httpMW.TokenAuth

	HealthHandler     *httpH.HealthHandler
	NewsHandler       *httpH.NewsHandler
	SearchHandler     *httpH.SearchHandler
	MindmapHandler    *httpH.MindmapHandler
	QuizHandler       *httpH.QuizHandler
	FlashcardsHandler *httpH.FlashcardsHandler
	ChatHandler       *httpH.ChatHandler
	AssistHandler     *httpH.AssistHandler
	DocumentHandler   *httpH.DocumentHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	r := gin.New()
	if cfg.Service != "" {
		r.Use(otelgin.Middleware(cfg.Service))
	}
	r.Use(httpMW.Recover(log))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log))
	if cfg.Metrics != nil {
		r.Use(httpMW.Metrics(cfg.Metrics))
	}
	r.Use(httpMW.CORS(cfg.AllowOrigins))
	if cfg.MaxRequestBytes > 0 {
		r.Use(httpMW.LimitBody(cfg.MaxRequestBytes))
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/health", cfg.HealthHandler.HealthCheck)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	api := r.Group("/")
	if cfg.Auth != nil {
		api.Use(cfg.Auth.RequireAuth())
	}

	// News hub
	if cfg.NewsHandler != nil {
		api.GET("/languages", cfg.NewsHandler.Languages)
		api.POST("/search", cfg.NewsHandler.Search)
		api.POST("/translate", cfg.NewsHandler.Translate)
		api.POST("/translate-query", cfg.NewsHandler.TranslateQuery)
		api.POST("/translate-text", cfg.NewsHandler.TranslateText)
	}

	// Job and shopping hubs
	if cfg.SearchHandler != nil {
		api.POST("/jobs/search", cfg.SearchHandler.Jobs)
		api.POST("/shopping/search", cfg.SearchHandler.Shopping)
	}

	if cfg.MindmapHandler != nil {
		api.POST("/mindmap", cfg.MindmapHandler.Generate)
		api.POST("/mindmap/upload", cfg.MindmapHandler.Upload)
	}

	// Quizzes
	if cfg.QuizHandler != nil {
		api.POST("/quizzes/generate", cfg.QuizHandler.Generate)
		api.POST("/quizzes", cfg.QuizHandler.Save)
		api.GET("/quizzes", cfg.QuizHandler.List)
		api.GET("/quizzes/history", cfg.QuizHandler.History)
		api.DELETE("/quizzes/history", cfg.QuizHandler.ClearHistory)
		api.GET("/quizzes/:id", cfg.QuizHandler.Get)
		api.DELETE("/quizzes/:id", cfg.QuizHandler.Delete)
		api.POST("/quizzes/:id/attempts", cfg.QuizHandler.Attempt)
	}

	if cfg.FlashcardsHandler != nil {
		api.POST("/flashcards", cfg.FlashcardsHandler.Generate)
		api.POST("/flashcards/vocabulary", cfg.FlashcardsHandler.Vocabulary)
	}

	// Chat
	if cfg.ChatHandler != nil {
		api.GET("/chat/personas", cfg.ChatHandler.Personas)
		api.POST("/chat", cfg.ChatHandler.Send)
		api.DELETE("/chat/:session", cfg.ChatHandler.Reset)
	}

	if cfg.AssistHandler != nil {
		api.GET("/assist", cfg.AssistHandler.Apps)
		api.POST("/assist/:app", cfg.AssistHandler.Answer)
	}

	if cfg.DocumentHandler != nil {
		api.POST("/documents/ask", cfg.DocumentHandler.Ask)
	}

	return r
}

// Routes is the endpoint index shown at GET /.
func Routes() map[string]string {
	return map[string]string{
		"languages":         "/languages",
		"search":            "/search",
		"translate":         "/translate",
		"translate_query":   "/translate-query",
		"jobs":              "/jobs/search",
		"shopping":          "/shopping/search",
		"mindmap":           "/mindmap",
		"quizzes":           "/quizzes",
		"flashcards":        "/flashcards",
		"chat":              "/chat",
		"assist":            "/assist/{app}",
		"document_question": "/documents/ask",
		"health":            "/health",
	}
}
