package mcpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/search"
)

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type %T", res.Content[0])
	}
	return tc.Text
}

func newTestServer(model *llm.Mock, serper *search.Serper) *Server {
	return New(Deps{
		Model:   model,
		Serper:  serper,
		Mindmap: config.MindmapConfig{ChunkSize: 4000, Overlap: 100, Workers: 2, MaxTokens: 1024, Temperature: 0.3},
	})
}

func TestToolsAreRegistered(t *testing.T) {
	s := newTestServer(&llm.Mock{}, nil)
	resp := s.MCP().HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, name := range []string{"generate_mindmap", "translate_text", "search_news", "generate_quiz", "generate_flashcards"} {
		if !strings.Contains(string(raw), `"name":"`+name+`"`) {
			t.Fatalf("tool %s not listed in %s", name, raw)
		}
	}
}

func TestGenerateMindmap(t *testing.T) {
	model := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return "# Photosynthesis\n## Light reactions", nil
	}}
	s := newTestServer(model, nil)

	res, err := s.generateMindmap(context.Background(), call("generate_mindmap", map[string]any{"text": "plants make food", "language": "Hindi"}))
	if err != nil {
		t.Fatalf("generateMindmap: %v", err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "# Photosynthesis") {
		t.Fatalf("result=%+v", res)
	}

	res, _ = s.generateMindmap(context.Background(), call("generate_mindmap", map[string]any{"text": "plants", "html": true}))
	if !strings.Contains(resultText(t, res), "<!DOCTYPE html>") {
		t.Fatalf("expected html page")
	}
}

func TestMissingArgumentIsToolError(t *testing.T) {
	s := newTestServer(&llm.Mock{}, nil)
	res, err := s.translateText(context.Background(), call("translate_text", map[string]any{"text": "hi"}))
	if err != nil {
		t.Fatalf("translateText: %v", err)
	}
	if !res.IsError {
		t.Fatalf("expected tool error, got %+v", res)
	}
}

func TestTranslateUnsupportedLanguage(t *testing.T) {
	s := newTestServer(&llm.Mock{}, nil)
	res, _ := s.translateText(context.Background(), call("translate_text", map[string]any{"text": "hi", "target_language": "Elvish"}))
	if !res.IsError || !strings.Contains(resultText(t, res), "unsupported") {
		t.Fatalf("result=%+v", res)
	}
}

func TestSearchNews(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/news":
			_, _ = w.Write([]byte(`{"news":[{"title":"Budget 2025","snippet":"Highlights"}]}`))
		case "/images":
			_, _ = w.Write([]byte(`{"images":[]}`))
		}
	}))
	defer srv.Close()
	serper := search.NewSerper(config.SearchConfig{SerperBaseURL: srv.URL, SerperAPIKey: "k"}, srv.Client())
	s := newTestServer(&llm.Mock{}, serper)

	res, err := s.searchNews(context.Background(), call("search_news", map[string]any{"query": "budget"}))
	if err != nil {
		t.Fatalf("searchNews: %v", err)
	}
	var out struct {
		Count int           `json:"count"`
		News  []search.Item `json:"news"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || out.News[0].String("title") != "Budget 2025" {
		t.Fatalf("out=%+v", out)
	}
}

func TestGenerateQuiz(t *testing.T) {
	model := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return "```json\n{\"questions\":[{\"question\":\"2+2?\",\"options\":[\"3\",\"4\",\"5\",\"6\"],\"answer\":\"B\",\"explanation\":\"basic\"}]}\n```", nil
	}}
	s := newTestServer(model, nil)
	res, err := s.generateQuiz(context.Background(), call("generate_quiz", map[string]any{"topic": "Math", "count": 3}))
	if err != nil {
		t.Fatalf("generateQuiz: %v", err)
	}
	if res.IsError || !strings.Contains(resultText(t, res), "Math Quiz") {
		t.Fatalf("result=%s", resultText(t, res))
	}
}
