package handlers

import (
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/document"
	"github.com/yungbote/sutra-starters/internal/http/response"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

const (
	passageSize    = 1000
	passageOverlap = 200
)

type DocumentHandlerDeps struct {
	Log            *logger.Logger
	Models         llm.Provider
	MaxUploadBytes int64
}

type DocumentHandler struct {
	log       *logger.Logger
	models    llm.Provider
	maxUpload int64
}

func NewDocumentHandlerWithDeps(deps DocumentHandlerDeps) *DocumentHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 32 << 20
	}
	return &DocumentHandler{
		log:       log.With("handler", "DocumentHandler"),
		models:    deps.Models,
		maxUpload: deps.MaxUploadBytes,
	}
}

// POST /documents/ask
//
// Multipart form: file, question, language, k, sutra_api_key.
func (h *DocumentHandler) Ask(c *gin.Context) {
	// PostForm hides parse errors, so surface an oversized body first.
	if _, err := c.MultipartForm(); err != nil {
		badRequest(c, err)
		return
	}
	question := strings.TrimSpace(c.PostForm("question"))
	if question == "" {
		respondErr(c, document.ErrNoQuestion)
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, err)
		return
	}
	if fh.Size > h.maxUpload {
		response413(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, err)
		return
	}
	data, err := io.ReadAll(io.LimitReader(f, h.maxUpload))
	_ = f.Close()
	if err != nil {
		badRequest(c, err)
		return
	}
	text, err := document.ExtractText(fh.Filename, data, h.log)
	if err != nil {
		respondErr(c, err)
		return
	}

	ctx := c.Request.Context()
	backend := h.models.ForKey(c.PostForm("sutra_api_key"))
	ix := document.NewIndex(backend)
	n, err := ix.Add(ctx, text, passageSize, passageOverlap)
	if err != nil {
		respondErr(c, err)
		return
	}
	k, _ := strconv.Atoi(c.PostForm("k"))
	ans, err := document.Ask(ctx, backend, ix, question, c.PostForm("language"), k)
	if err != nil {
		respondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"file":     fh.Filename,
		"passages": n,
		"answer":   ans.Answer,
		"sources":  ans.Sources,
	})
}
