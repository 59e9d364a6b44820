package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/assist"
	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type AssistHandlerDeps struct {
	Log    *logger.Logger
	Models llm.Provider
}

// AssistHandler serves the single-turn assistants (farmer, scheme, travel, story).
type AssistHandler struct {
	log    *logger.Logger
	models llm.Provider
}

func NewAssistHandlerWithDeps(deps AssistHandlerDeps) *AssistHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &AssistHandler{log: log.With("handler", "AssistHandler"), models: deps.Models}
}

type assistReq struct {
	assist.Request
	Stream      bool   `json:"stream"`
	SutraAPIKey string `json:"sutra_api_key"`
}

// GET /assist
func (h *AssistHandler) Apps(c *gin.Context) {
	response.RespondOK(c, gin.H{"apps": assist.Names()})
}

// POST /assist/:app
func (h *AssistHandler) Answer(c *gin.Context) {
	var req assistReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	name := c.Param("app")
	// Render once up front so bad params fail before any stream starts.
	if _, _, err := assist.Build(name, req.Request); err != nil {
		respondErr(c, err)
		return
	}
	svc := assist.NewService(h.models.ForKey(req.SutraAPIKey))
	ctx := c.Request.Context()
	streamOrJSON(c, req.Stream, func(onDelta func(string)) (any, error) {
		var (
			text string
			err  error
		)
		if onDelta != nil {
			text, err = svc.Stream(ctx, name, req.Request, onDelta)
		} else {
			text, err = svc.Answer(ctx, name, req.Request)
		}
		if err != nil {
			return nil, err
		}
		return gin.H{"app": name, "answer": text}, nil
	})
}
