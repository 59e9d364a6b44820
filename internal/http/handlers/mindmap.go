package handlers

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/document"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/mindmap"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
)

type MindmapHandlerDeps struct {
	Log      *logger.Logger
	Models   llm.Provider
	Config   config.MindmapConfig
	Recorder mindmap.ChunkRecorder
	// MaxUploadBytes caps the multipart file size.
	MaxUploadBytes int64
}

type MindmapHandler struct {
	log       *logger.Logger
	models    llm.Provider
	cfg       config.MindmapConfig
	rec       mindmap.ChunkRecorder
	maxUpload int64
}

func NewMindmapHandlerWithDeps(deps MindmapHandlerDeps) *MindmapHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 32 << 20
	}
	return &MindmapHandler{
		log:       log.With("handler", "MindmapHandler"),
		models:    deps.Models,
		cfg:       deps.Config,
		rec:       deps.Recorder,
		maxUpload: deps.MaxUploadBytes,
	}
}

type mindmapReq struct {
	Text        string `json:"text"`
	Topic       string `json:"topic"`
	Language    string `json:"language"`
	Format      string `json:"format"`
	Stream      bool   `json:"stream"`
	SutraAPIKey string `json:"sutra_api_key"`
}

type mindmapResp struct {
	mindmap.Result
	HTML string `json:"html,omitempty"`
}

// POST /mindmap
func (h *MindmapHandler) Generate(c *gin.Context) {
	var req mindmapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = strings.TrimSpace(req.Topic)
	}
	if text == "" {
		respondErr(c, mindmap.ErrNoInput)
		return
	}
	h.run(c, mindmap.Request{Text: text, Language: req.Language}, req.Format, req.Stream, req.SutraAPIKey)
}

// POST /mindmap/upload
//
// Multipart form: file (PDF or text), language, format, stream, sutra_api_key.
func (h *MindmapHandler) Upload(c *gin.Context) {
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
	stream := c.PostForm("stream") == "true"
	h.run(c, mindmap.Request{Text: text, Language: c.PostForm("language")}, c.PostForm("format"), stream, c.PostForm("sutra_api_key"))
}

func (h *MindmapHandler) run(c *gin.Context, req mindmap.Request, format string, stream bool, key string) {
	ctx := c.Request.Context()
	model := h.models.ForKey(key)
	gen := mindmap.New(model, h.cfg, h.log, h.rec)
	wantHTML := strings.EqualFold(format, "html")

	finish := func(res mindmap.Result) (mindmapResp, error) {
		out := mindmapResp{Result: res}
		if wantHTML {
			html, err := mindmap.RenderHTMLString(res.Markdown, res.Language)
			if err != nil {
				return mindmapResp{}, err
			}
			out.HTML = html
		}
		return out, nil
	}

	if stream && !strings.EqualFold(format, "png") {
		if sw, ok := newSSEWriter(c); ok {
			var (
				res mindmap.Result
				err error
			)
			if utf8.RuneCountInString(req.Text) > h.cfg.ChunkSize {
				res, err = gen.Generate(ctx, req, func(fraction float64, message string) {
					sw.send("progress", gin.H{"fraction": fraction, "message": message})
				})
			} else {
				res, err = gen.Stream(ctx, model, req, sw.delta)
			}
			var out mindmapResp
			if err == nil {
				out, err = finish(res)
			}
			if err != nil {
				_ = c.Error(err)
				sw.fail(err)
				return
			}
			sw.send("done", out)
			return
		}
	}

	res, err := gen.Generate(ctx, req, nil)
	if err != nil {
		respondErr(c, err)
		return
	}
	if strings.EqualFold(format, "png") {
		var buf bytes.Buffer
		if err := mindmap.RenderPNG(&buf, res.Markdown, mindmap.ImageOptions{FontPath: h.cfg.FontPath}); err != nil {
			respondErr(c, err)
			return
		}
		c.Data(http.StatusOK, "image/png", buf.Bytes())
		return
	}
	out, err := finish(res)
	if err != nil {
		respondErr(c, err)
		return
	}
	if wantHTML && c.Query("raw") == "1" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(out.HTML))
		return
	}
	c.JSON(http.StatusOK, out)
}
