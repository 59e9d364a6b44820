package mindmap

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
)

var chunkNote = regexp.MustCompile(`This is chunk (\d+) of (\d+)`)

func isMerge(msgs []llm.Message) bool {
	return strings.Contains(msgs[0].Content, "consolidating")
}

func chunkIndex(msgs []llm.Message) int {
	m := chunkNote.FindStringSubmatch(llm.LastUser(msgs))
	if m == nil {
		return 1
	}
	var n int
	fmt.Sscanf(m[1], "%d", &n)
	return n
}

func testCfg() config.MindmapConfig {
	return config.MindmapConfig{ChunkSize: 8000, Overlap: 200, Workers: 3, MaxTokens: 4000, Temperature: 0.3}
}

type chunkCounter struct {
	mu     sync.Mutex
	status map[string]int
}

func (c *chunkCounter) MindmapChunk(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status == nil {
		c.status = map[string]int{}
	}
	c.status[s]++
}

func TestGenerate_SingleChunkSkipsMerge(t *testing.T) {
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		if isMerge(msgs) {
			t.Fatalf("merge must not run for one chunk")
		}
		return "# Photosynthesis\n## Light reactions", nil
	}}
	var fractions []float64
	res, err := New(m, testCfg(), nil, nil).Generate(context.Background(),
		Request{Text: "Plants turn light into sugar.", Language: "Hindi"},
		func(f float64, _ string) { fractions = append(fractions, f) })
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if m.CallCount() != 1 || res.Merged || res.Chunks != 1 {
		t.Fatalf("calls=%d res=%+v", m.CallCount(), res)
	}
	if res.Stats.MainTopics != 1 || res.Stats.Subtopics != 1 {
		t.Fatalf("stats=%+v", res.Stats)
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("progress=%v", fractions)
	}
	if !strings.Contains(llm.LastUser(m.Calls()[0]), "हिंदी में एक श्रेणीबद्ध माइंडमैप बनाएं") {
		t.Fatalf("language instruction missing")
	}
}

func TestGenerate_MultiChunkMergesInOrder(t *testing.T) {
	var inflight, peak atomic.Int32
	var mergePrompt string
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		if isMerge(msgs) {
			mergePrompt = llm.LastUser(msgs)
			return "# Merged", nil
		}
		n := inflight.Add(1)
		defer inflight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return fmt.Sprintf("# Part %d", chunkIndex(msgs)), nil
	}}
	rec := &chunkCounter{}
	res, err := New(m, testCfg(), nil, rec).Generate(context.Background(),
		Request{Text: strings.Repeat("x", 20000), Language: "English"}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Chunks != 3 || res.Succeeded != 3 || !res.Merged || res.Markdown != "# Merged" {
		t.Fatalf("res=%+v", res)
	}
	if m.CallCount() != 4 {
		t.Fatalf("calls=%d want 3 chunks + 1 merge", m.CallCount())
	}
	if peak.Load() > 3 {
		t.Fatalf("peak concurrency %d exceeds pool size", peak.Load())
	}
	i1 := strings.Index(mergePrompt, "SECTION 1:\n# Part 1")
	i2 := strings.Index(mergePrompt, "SECTION 2:\n# Part 2")
	i3 := strings.Index(mergePrompt, "SECTION 3:\n# Part 3")
	if i1 < 0 || i2 < i1 || i3 < i2 {
		t.Fatalf("merge prompt sections out of order:\n%s", mergePrompt)
	}
	if rec.status["ok"] != 3 {
		t.Fatalf("recorded=%v", rec.status)
	}
}

func TestGenerate_DropsFailedChunks(t *testing.T) {
	var sections int
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		if isMerge(msgs) {
			sections = strings.Count(llm.LastUser(msgs), "SECTION ")
			return "# Merged", nil
		}
		if chunkIndex(msgs) == 2 {
			return "", errors.New("upstream 500")
		}
		return "# ok", nil
	}}
	rec := &chunkCounter{}
	res, err := New(m, testCfg(), nil, rec).Generate(context.Background(), Request{Text: strings.Repeat("y", 20000)}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Succeeded != 2 || sections != 2 {
		t.Fatalf("succeeded=%d sections=%d", res.Succeeded, sections)
	}
	if rec.status["failed"] != 1 {
		t.Fatalf("recorded=%v", rec.status)
	}
}

func TestGenerate_OneSurvivorIsReturnedUnmerged(t *testing.T) {
	m := &llm.Mock{Handler: func(_ context.Context, msgs []llm.Message) (string, error) {
		if isMerge(msgs) {
			t.Fatalf("merge must not run for a single outline")
		}
		if chunkIndex(msgs) != 3 {
			return "", errors.New("timeout")
		}
		return "# Only survivor", nil
	}}
	res, err := New(m, testCfg(), nil, nil).Generate(context.Background(), Request{Text: strings.Repeat("z", 20000)}, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if res.Markdown != "# Only survivor" || res.Merged {
		t.Fatalf("res=%+v", res)
	}
}

func TestGenerate_AllChunksFail(t *testing.T) {
	m := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return "", errors.New("down")
	}}
	_, err := New(m, testCfg(), nil, nil).Generate(context.Background(), Request{Text: strings.Repeat("w", 20000)}, nil)
	if !errors.Is(err, ErrAllChunksFailed) {
		t.Fatalf("err=%v", err)
	}
}

func TestGenerate_EmptyInput(t *testing.T) {
	if _, err := New(&llm.Mock{}, testCfg(), nil, nil).Generate(context.Background(), Request{Text: "  \n"}, nil); !errors.Is(err, ErrNoInput) {
		t.Fatalf("err=%v", err)
	}
}

func TestMerge_SingleOutlineIsIdentity(t *testing.T) {
	m := &llm.Mock{}
	out, err := New(m, testCfg(), nil, nil).Merge(context.Background(), []string{"# A\n## B"}, "English")
	if err != nil || out != "# A\n## B" || m.CallCount() != 0 {
		t.Fatalf("out=%q err=%v calls=%d", out, err, m.CallCount())
	}
}

func TestStream_ShortText(t *testing.T) {
	m := &llm.Mock{Handler: func(context.Context, []llm.Message) (string, error) {
		return "# Streamed mindmap with enough text to split", nil
	}}
	var got strings.Builder
	res, err := New(m, testCfg(), nil, nil).Stream(context.Background(), m, Request{Text: "topic"}, func(d string) { got.WriteString(d) })
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if got.String() != res.Markdown || res.Stats.MainTopics != 1 {
		t.Fatalf("streamed=%q res=%+v", got.String(), res)
	}
}

func TestComputeStats(t *testing.T) {
	md := "# Root\n## A\n### A1\n- point\n#### A1a\n## B\n#NotAHeading\n  * nested point"
	s := ComputeStats(md)
	if s.MainTopics != 1 || s.Subtopics != 2 || s.Details != 1 || s.MaxDepth != 4 || s.Nodes != 7 {
		t.Fatalf("stats=%+v", s)
	}
}

func TestRenderHTML(t *testing.T) {
	html, err := RenderHTMLString("# मुख्य\n## `code` ${x} </script>", "Hindi")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if !strings.Contains(html, "Noto Sans Devanagari, Arial, sans-serif") {
		t.Fatalf("font family missing")
	}
	if strings.Contains(html, "## `code` ${x} </script>") {
		t.Fatalf("markdown was not escaped for the script context")
	}
	if FontFamily("Klingon") != "Arial, sans-serif" {
		t.Fatalf("default font")
	}
}
