package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/search"
	"github.com/yungbote/sutra-starters/internal/translate"
)

type NewsHandlerDeps struct {
	Log          *logger.Logger
	Models       llm.Provider
	Serper       *search.Serper
	Recorder     translate.Recorder
	ImageWorkers int
}

type NewsHandler struct {
	log          *logger.Logger
	models       llm.Provider
	serper       *search.Serper
	rec          translate.Recorder
	imageWorkers int
}

func NewNewsHandlerWithDeps(deps NewsHandlerDeps) *NewsHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &NewsHandler{
		log:          log.With("handler", "NewsHandler"),
		models:       deps.Models,
		serper:       deps.Serper,
		rec:          deps.Recorder,
		imageWorkers: deps.ImageWorkers,
	}
}

func (h *NewsHandler) translator(key string) *translate.Translator {
	return translate.New(h.models.ForKey(key), h.log, h.rec)
}

// GET /languages
func (h *NewsHandler) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, translate.Languages)
}

type searchNewsReq struct {
	Query        string `json:"query" binding:"required"`
	NumResults   int    `json:"num_results"`
	Language     string `json:"language"`
	Page         int    `json:"page"`
	SerperAPIKey string `json:"serper_api_key"`
	TranslateTo  string `json:"translate_to"`
	SutraAPIKey  string `json:"sutra_api_key"`
}

func (r *searchNewsReq) validate() error {
	if r.NumResults == 0 {
		r.NumResults = 10
	}
	if r.NumResults < 5 || r.NumResults > 30 {
		return fmt.Errorf("num_results must be between 5 and 30")
	}
	if r.Page == 0 {
		r.Page = 1
	}
	if r.Page < 1 {
		return fmt.Errorf("page must be at least 1")
	}
	return nil
}

// POST /search
func (h *NewsHandler) Search(c *gin.Context) {
	var req searchNewsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.validate(); err != nil {
		badRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	translating := translate.NeedsTranslation(req.TranslateTo)
	query := req.Query
	if translating {
		query = h.translator(req.SutraAPIKey).QueryToEnglish(ctx, req.Query)
	}

	serper := h.serper.WithAPIKey(req.SerperAPIKey)
	items, err := serper.News(ctx, search.Query{Q: query, Num: req.NumResults, Language: req.Language, Page: req.Page})
	if err != nil {
		respondErr(c, err)
		return
	}
	items = search.EnrichImages(ctx, items, serper, search.NewsImages, h.imageWorkers, h.log)
	if translating {
		items = h.translator(req.SutraAPIKey).Items(ctx, items, translate.News, req.TranslateTo)
	}

	language := req.TranslateTo
	if language == "" {
		language = req.Language
	}
	if language == "" {
		language = "English"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"query":            req.Query,
		"translated_query": changed(query, req.Query),
		"count":            len(items),
		"language":         language,
		"news":             nonNil(items),
	})
}

type translateNewsReq struct {
	NewsItems      []search.Item `json:"news_items" binding:"required"`
	TargetLanguage string        `json:"target_language" binding:"required"`
	SutraAPIKey    string        `json:"sutra_api_key"`
}

// POST /translate
func (h *NewsHandler) Translate(c *gin.Context) {
	var req translateNewsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if !translate.IsSupported(req.TargetLanguage) {
		respondErr(c, fmt.Errorf("%w: %s", translate.ErrUnsupportedLanguage, req.TargetLanguage))
		return
	}
	items := req.NewsItems
	if translate.NeedsTranslation(req.TargetLanguage) {
		items = h.translator(req.SutraAPIKey).Items(c.Request.Context(), items, translate.News, req.TargetLanguage)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"target_language": req.TargetLanguage,
		"count":           len(items),
		"news":            nonNil(items),
	})
}

type translateQueryReq struct {
	Query       string `json:"query" binding:"required"`
	SutraAPIKey string `json:"sutra_api_key"`
}

// POST /translate-query
func (h *NewsHandler) TranslateQuery(c *gin.Context) {
	var req translateQueryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out := h.translator(req.SutraAPIKey).QueryToEnglish(c.Request.Context(), strings.TrimSpace(req.Query))
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"original_query":   req.Query,
		"translated_query": out,
	})
}

type translateTextReq struct {
	Text           string `json:"text" binding:"required"`
	TargetLanguage string `json:"target_language" binding:"required"`
	SutraAPIKey    string `json:"sutra_api_key"`
}

// POST /translate-text
func (h *NewsHandler) TranslateText(c *gin.Context) {
	var req translateTextReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.translator(req.SutraAPIKey).Text(c.Request.Context(), req.Text, req.TargetLanguage)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"target_language": req.TargetLanguage, "text": out})
}

func nonNil(items []search.Item) []search.Item {
	if items == nil {
		return []search.Item{}
	}
	return items
}
