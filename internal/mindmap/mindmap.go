package mindmap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/textsplit"
)

var (
	ErrNoInput         = errors.New("mindmap: no input text")
	ErrAllChunksFailed = errors.New("mindmap: every chunk failed")
)

// Progress reports a completion fraction in [0,1] with a short status message.
type Progress func(fraction float64, message string)

// ChunkRecorder counts chunk outcomes. observability.Metrics implements it.
type ChunkRecorder interface {
	MindmapChunk(status string)
}

type Request struct {
	Text     string
	Language string
}

type Result struct {
	Markdown  string `json:"markdown"`
	Language  string `json:"language"`
	Chunks    int    `json:"chunks"`
	Succeeded int    `json:"succeeded"`
	Merged    bool   `json:"merged"`
	Stats     Stats  `json:"stats"`
}

type Generator struct {
	model   llm.Completer
	log     *logger.Logger
	rec     ChunkRecorder
	tracer  trace.Tracer
	cfg     config.MindmapConfig
	options llm.Options
}

func New(model llm.Completer, cfg config.MindmapConfig, log *logger.Logger, rec ChunkRecorder) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Generator{
		model:   model,
		log:     log.With("service", "MindmapGenerator"),
		rec:     rec,
		tracer:  otel.Tracer("github.com/yungbote/sutra-starters/internal/mindmap"),
		cfg:     cfg,
		options: llm.Options{Temperature: llm.Temperature(cfg.Temperature), MaxTokens: cfg.MaxTokens},
	}
}

// Generate splits the text, outlines every chunk on a bounded pool and merges
// the outlines. Failed chunks are dropped; the call fails only when none succeed.
func (g *Generator) Generate(ctx context.Context, req Request, progress Progress) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{}, ErrNoInput
	}
	language := languageOrDefault(req.Language)
	report := func(f float64, msg string) {
		if progress != nil {
			progress(f, msg)
		}
	}

	ctx, span := g.tracer.Start(ctx, "mindmap.generate", trace.WithAttributes(
		attribute.String("mindmap.language", language),
		attribute.Int("mindmap.input_chars", utf8.RuneCountInString(text)),
	))
	defer span.End()

	chunks := textsplit.Split(text, g.cfg.ChunkSize, g.cfg.Overlap)
	span.SetAttributes(attribute.Int("mindmap.chunks", len(chunks)))
	g.log.Info("mindmap generation started", "language", language, "chunks", len(chunks))

	if len(chunks) == 1 {
		report(0.5, "Generating mindmap...")
		out, err := g.model.Complete(ctx, chunkMessages(language, chunks[0], 0, 1), g.options)
		if err != nil {
			g.record("failed")
			return Result{}, fmt.Errorf("generate mindmap: %w", err)
		}
		g.record("ok")
		report(1.0, "Mindmap generated successfully!")
		return newResult(out, language, 1, 1, false), nil
	}

	outlines := g.outlineChunks(ctx, chunks, language, report)
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if len(outlines) == 0 {
		return Result{}, ErrAllChunksFailed
	}

	report(0.9, "Merging mindmap sections...")
	merged, err := g.Merge(ctx, outlines, language)
	if err != nil {
		return Result{}, fmt.Errorf("merge mindmap sections: %w", err)
	}
	report(1.0, "Mindmap generated successfully!")
	return newResult(merged, language, len(chunks), len(outlines), len(outlines) > 1), nil
}

// outlineChunks returns the successful outlines in chunk order.
func (g *Generator) outlineChunks(ctx context.Context, chunks []string, language string, report Progress) []string {
	slots := make([]string, len(chunks))
	var (
		mu   sync.Mutex
		done int
	)

	var eg errgroup.Group
	eg.SetLimit(g.cfg.Workers)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		eg.Go(func() error {
			cctx, span := g.tracer.Start(ctx, "mindmap.chunk", trace.WithAttributes(attribute.Int("mindmap.chunk_index", i)))
			out, err := g.model.Complete(cctx, chunkMessages(language, chunk, i, len(chunks)), g.options)
			span.End()
			if err != nil {
				g.record("failed")
				g.log.Error("mindmap chunk failed", "chunk", i+1, "of", len(chunks), "error", err)
			} else {
				g.record("ok")
				slots[i] = strings.TrimSpace(out)
			}

			mu.Lock()
			done++
			n := done
			mu.Unlock()
			report(float64(n)/float64(len(chunks))*0.8, fmt.Sprintf("Processing chunk %d/%d...", n, len(chunks)))
			return nil
		})
	}
	_ = eg.Wait()

	outlines := make([]string, 0, len(slots))
	for _, s := range slots {
		if s != "" {
			outlines = append(outlines, s)
		}
	}
	return outlines
}

// Merge combines partial outlines with one call. A single outline is returned unchanged.
func (g *Generator) Merge(ctx context.Context, outlines []string, language string) (string, error) {
	switch len(outlines) {
	case 0:
		return "", ErrAllChunksFailed
	case 1:
		return outlines[0], nil
	}
	ctx, span := g.tracer.Start(ctx, "mindmap.merge", trace.WithAttributes(attribute.Int("mindmap.sections", len(outlines))))
	defer span.End()
	return g.model.Complete(ctx, mergeMessages(languageOrDefault(language), outlines), g.options)
}

// Stream outlines short text in one streaming call. Text that would need
// chunking goes through Generate instead.
func (g *Generator) Stream(ctx context.Context, s llm.Streamer, req Request, onDelta func(string)) (Result, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return Result{}, ErrNoInput
	}
	language := languageOrDefault(req.Language)
	if utf8.RuneCountInString(text) > g.cfg.ChunkSize {
		return g.Generate(ctx, req, nil)
	}
	out, err := s.Stream(ctx, chunkMessages(language, text, 0, 1), g.options, onDelta)
	if err != nil {
		return Result{}, fmt.Errorf("stream mindmap: %w", err)
	}
	return newResult(out, language, 1, 1, false), nil
}

func (g *Generator) record(status string) {
	if g.rec != nil {
		g.rec.MindmapChunk(status)
	}
}

func newResult(markdown, language string, chunks, succeeded int, merged bool) Result {
	markdown = strings.TrimSpace(markdown)
	return Result{
		Markdown:  markdown,
		Language:  language,
		Chunks:    chunks,
		Succeeded: succeeded,
		Merged:    merged,
		Stats:     ComputeStats(markdown),
	}
}

func languageOrDefault(language string) string {
	if l := strings.TrimSpace(language); l != "" {
		return l
	}
	return "English"
}
