package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/flashcards"
	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type FlashcardsHandlerDeps struct {
	Log    *logger.Logger
	Models llm.Provider
}

type FlashcardsHandler struct {
	log    *logger.Logger
	models llm.Provider
}

func NewFlashcardsHandlerWithDeps(deps FlashcardsHandlerDeps) *FlashcardsHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &FlashcardsHandler{log: log.With("handler", "FlashcardsHandler"), models: deps.Models}
}

func (h *FlashcardsHandler) generator(key string) *flashcards.Generator {
	return flashcards.NewGenerator(h.models.ForKey(key), h.log)
}

type flashcardsReq struct {
	flashcards.Request
	SutraAPIKey string `json:"sutra_api_key"`
}

// POST /flashcards
func (h *FlashcardsHandler) Generate(c *gin.Context) {
	var req flashcardsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	set, err := h.generator(req.SutraAPIKey).Generate(c.Request.Context(), req.Request)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, set)
}

type vocabularyReq struct {
	flashcards.VocabRequest
	SutraAPIKey string `json:"sutra_api_key"`
}

// POST /flashcards/vocabulary
func (h *FlashcardsHandler) Vocabulary(c *gin.Context) {
	var req vocabularyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cards, err := h.generator(req.SutraAPIKey).Vocabulary(c.Request.Context(), req.VocabRequest)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"source_language": req.SourceLanguage,
		"target_language": req.TargetLanguage,
		"flashcards":      cards,
	})
}
