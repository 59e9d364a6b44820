package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/flashcards"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/mindmap"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/quiz"
	"github.com/yungbote/sutra-starters/internal/search"
	"github.com/yungbote/sutra-starters/internal/translate"
)

type Deps struct {
	Log     *logger.Logger
	Model   llm.Backend
	Serper  *search.Serper
	Mindmap config.MindmapConfig
	Version string

	TranslateRecorder translate.Recorder
	MindmapRecorder   mindmap.ChunkRecorder
	ImageWorkers      int
}

// Server exposes the starter features as MCP tools.
type Server struct {
	log  *logger.Logger
	deps Deps
	mcp  *server.MCPServer
}

func New(deps Deps) *Server {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Version == "" {
		deps.Version = "1.0.0"
	}
	s := &Server{log: deps.Log.With("service", "MCPServer"), deps: deps}
	s.mcp = server.NewMCPServer("sutra-starters", deps.Version, server.WithToolCapabilities(false))
	s.register()
	return s
}

func (s *Server) MCP() *server.MCPServer { return s.mcp }

// ServeStdio blocks serving JSON-RPC over stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

func (s *Server) register() {
	s.mcp.AddTool(mcp.NewTool("generate_mindmap",
		mcp.WithDescription("Summarize text into a hierarchical Markdown mindmap in the requested language."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Source text or a topic")),
		mcp.WithString("language", mcp.Description("Output language, default English")),
		mcp.WithBoolean("html", mcp.Description("Return a standalone HTML page instead of Markdown")),
	), s.generateMindmap)

	s.mcp.AddTool(mcp.NewTool("translate_text",
		mcp.WithDescription("Translate free text into one of the supported languages."),
		mcp.WithString("text", mcp.Required()),
		mcp.WithString("target_language", mcp.Required(), mcp.Enum(translate.Languages...)),
	), s.translateText)

	s.mcp.AddTool(mcp.NewTool("search_news",
		mcp.WithDescription("Search recent news and optionally translate the results."),
		mcp.WithString("query", mcp.Required()),
		mcp.WithNumber("num_results", mcp.Description("5 to 30, default 10")),
		mcp.WithString("translate_to", mcp.Description("Target language for titles and snippets")),
	), s.searchNews)

	s.mcp.AddTool(mcp.NewTool("generate_quiz",
		mcp.WithDescription("Generate a multiple choice or true/false quiz on a topic."),
		mcp.WithString("topic", mcp.Required()),
		mcp.WithString("language"),
		mcp.WithString("difficulty", mcp.Enum(quiz.Difficulties...)),
		mcp.WithString("type", mcp.Enum(quiz.Types...)),
		mcp.WithNumber("count"),
	), s.generateQuiz)

	s.mcp.AddTool(mcp.NewTool("generate_flashcards",
		mcp.WithDescription("Generate study flashcards on a topic."),
		mcp.WithString("topic", mcp.Required()),
		mcp.WithString("language"),
		mcp.WithNumber("count"),
	), s.generateFlashcards)
}

func (s *Server) generateMindmap(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language := req.GetString("language", "English")
	gen := mindmap.New(s.deps.Model, s.deps.Mindmap, s.log, s.deps.MindmapRecorder)
	res, err := gen.Generate(ctx, mindmap.Request{Text: text, Language: language}, nil)
	if err != nil {
		return toolError("generate mindmap", err), nil
	}
	if req.GetBool("html", false) {
		page, err := mindmap.RenderHTMLString(res.Markdown, res.Language)
		if err != nil {
			return toolError("render mindmap", err), nil
		}
		return mcp.NewToolResultText(page), nil
	}
	return mcp.NewToolResultText(res.Markdown), nil
}

func (s *Server) translateText(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	target, err := req.RequireString("target_language")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := translate.New(s.deps.Model, s.log, s.deps.TranslateRecorder).Text(ctx, text, target)
	if err != nil {
		return toolError("translate", err), nil
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}

func (s *Server) searchNews(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.deps.Serper == nil {
		return mcp.NewToolResultError("news search is not configured"), nil
	}
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	num := req.GetInt("num_results", 10)
	if num < 5 || num > 30 {
		return mcp.NewToolResultError("num_results must be between 5 and 30"), nil
	}
	target := req.GetString("translate_to", "")
	tr := translate.New(s.deps.Model, s.log, s.deps.TranslateRecorder)

	q := query
	if translate.NeedsTranslation(target) {
		if !translate.IsSupported(target) {
			return mcp.NewToolResultError(fmt.Sprintf("unsupported language %q", target)), nil
		}
		q = tr.QueryToEnglish(ctx, query)
	}
	items, err := s.deps.Serper.News(ctx, search.Query{Q: q, Num: num})
	if err != nil {
		return toolError("search news", err), nil
	}
	items = search.EnrichImages(ctx, items, s.deps.Serper, search.NewsImages, s.deps.ImageWorkers, s.log)
	if translate.NeedsTranslation(target) {
		items = tr.Items(ctx, items, translate.News, target)
	}
	return jsonResult(map[string]any{"query": query, "count": len(items), "news": items})
}

func (s *Server) generateQuiz(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	q, err := quiz.NewGenerator(s.deps.Model, s.log).Generate(ctx, quiz.Request{
		Topic:      topic,
		Language:   req.GetString("language", ""),
		Difficulty: req.GetString("difficulty", ""),
		Type:       req.GetString("type", ""),
		Count:      req.GetInt("count", 0),
	})
	if err != nil {
		return toolError("generate quiz", err), nil
	}
	return jsonResult(q)
}

func (s *Server) generateFlashcards(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := req.RequireString("topic")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	set, err := flashcards.NewGenerator(s.deps.Model, s.log).Generate(ctx, flashcards.Request{
		Topic:    topic,
		Language: req.GetString("language", ""),
		Count:    req.GetInt("count", 0),
	})
	if err != nil {
		return toolError("generate flashcards", err), nil
	}
	return jsonResult(set)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func toolError(op string, err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", op, err))
}
