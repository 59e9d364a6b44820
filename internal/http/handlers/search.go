package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/search"
	"github.com/yungbote/sutra-starters/internal/translate"
)

type SearchHandlerDeps struct {
	Log          *logger.Logger
	Models       llm.Provider
	Serper       *search.Serper
	SerpAPI      *search.SerpAPI
	Recorder     translate.Recorder
	ImageWorkers int
}

// SearchHandler serves the job and shopping hubs.
type SearchHandler struct {
	log          *logger.Logger
	models       llm.Provider
	serper       *search.Serper
	serpapi      *search.SerpAPI
	rec          translate.Recorder
	imageWorkers int
}

func NewSearchHandlerWithDeps(deps SearchHandlerDeps) *SearchHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	return &SearchHandler{
		log:          log.With("handler", "SearchHandler"),
		models:       deps.Models,
		serper:       deps.Serper,
		serpapi:      deps.SerpAPI,
		rec:          deps.Recorder,
		imageWorkers: deps.ImageWorkers,
	}
}

type jobsReq struct {
	Query         string `json:"query" binding:"required"`
	Location      string `json:"location"`
	JobType       string `json:"job_type"`
	NumResults    int    `json:"num_results"`
	TranslateTo   string `json:"translate_to"`
	SerpAPIAPIKey string `json:"serpapi_api_key"`
	SutraAPIKey   string `json:"sutra_api_key"`
}

// POST /jobs/search
func (h *SearchHandler) Jobs(c *gin.Context) {
	var req jobsReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.NumResults == 0 {
		req.NumResults = 10
	}
	if req.NumResults < 1 || req.NumResults > 30 {
		badRequest(c, fmt.Errorf("num_results must be between 1 and 30"))
		return
	}
	ctx := c.Request.Context()
	tr := translate.New(h.models.ForKey(req.SutraAPIKey), h.log, h.rec)

	translating := translate.NeedsTranslation(req.TranslateTo)
	query := req.Query
	if translating {
		query = tr.QueryToEnglish(ctx, req.Query)
	}
	client := h.serpapi.WithAPIKey(req.SerpAPIAPIKey)
	items, err := client.Jobs(ctx, search.JobQuery{Q: query, Location: req.Location, JobType: req.JobType, Num: req.NumResults})
	if err != nil {
		respondErr(c, err)
		return
	}
	items = search.EnrichImages(ctx, items, client, search.JobLogos, h.imageWorkers, h.log)
	if translating {
		items = tr.Items(ctx, items, translate.Jobs, req.TranslateTo)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"query":            req.Query,
		"translated_query": changed(query, req.Query),
		"count":            len(items),
		"jobs":             nonNil(items),
	})
}

type shoppingReq struct {
	Query        string   `json:"query" binding:"required"`
	NumResults   int      `json:"num_results"`
	Language     string   `json:"language"`
	MinPrice     *float64 `json:"min_price"`
	MaxPrice     *float64 `json:"max_price"`
	TranslateTo  string   `json:"translate_to"`
	SerperAPIKey string   `json:"serper_api_key"`
	SutraAPIKey  string   `json:"sutra_api_key"`
}

// POST /shopping/search
func (h *SearchHandler) Shopping(c *gin.Context) {
	var req shoppingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.NumResults == 0 {
		req.NumResults = 10
	}
	if req.NumResults < 1 || req.NumResults > 40 {
		badRequest(c, fmt.Errorf("num_results must be between 1 and 40"))
		return
	}
	ctx := c.Request.Context()
	tr := translate.New(h.models.ForKey(req.SutraAPIKey), h.log, h.rec)

	translating := translate.NeedsTranslation(req.TranslateTo)
	query := req.Query
	if translating {
		query = tr.QueryToEnglish(ctx, req.Query)
	}
	client := h.serper.WithAPIKey(req.SerperAPIKey)
	items, err := client.Shopping(ctx, search.Query{Q: query, Num: req.NumResults, Language: req.Language})
	if err != nil {
		respondErr(c, err)
		return
	}
	if req.MinPrice != nil || req.MaxPrice != nil {
		lo, hi := 0.0, 1e12
		if req.MinPrice != nil {
			lo = *req.MinPrice
		}
		if req.MaxPrice != nil {
			hi = *req.MaxPrice
		}
		items = search.FilterByPrice(items, lo, hi)
	}
	items = search.EnrichImages(ctx, items, client, search.ShoppingImages, h.imageWorkers, h.log)
	if translating {
		items = tr.Items(ctx, items, translate.Shopping, req.TranslateTo)
	}
	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"query":            req.Query,
		"translated_query": changed(query, req.Query),
		"count":            len(items),
		"products":         nonNil(items),
	})
}

func changed(got, orig string) any {
	if got == orig {
		return nil
	}
	return got
}
