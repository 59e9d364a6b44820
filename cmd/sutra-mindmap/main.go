package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/document"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/mindmap"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/platform/shutdown"
)

type options struct {
	pdf       string
	textFile  string
	topic     string
	language  string
	chunkSize int
	overlap   int
	workers   int
	html      string
	png       string
	font      string
	out       string
	stream    bool
	apiKey    string
}

func main() {
	var o options
	pflag.StringVar(&o.pdf, "pdf", "", "PDF file to summarize")
	pflag.StringVar(&o.textFile, "text-file", "", "plain text or markdown file to summarize")
	pflag.StringVarP(&o.topic, "topic", "t", "", "topic or short text to map")
	pflag.StringVarP(&o.language, "language", "l", "English", "output language")
	pflag.IntVar(&o.chunkSize, "chunk-size", 0, "characters per chunk (default from config)")
	pflag.IntVar(&o.overlap, "overlap", -1, "characters shared between chunks (default from config)")
	pflag.IntVar(&o.workers, "workers", 0, "chunks summarized concurrently (default from config)")
	pflag.StringVar(&o.html, "html", "", "also write an interactive HTML page to this path")
	pflag.StringVar(&o.png, "png", "", "also write a PNG tree diagram to this path")
	pflag.StringVar(&o.font, "font", "", "TTF font for --png (default from config)")
	pflag.StringVarP(&o.out, "out", "o", "", "write markdown here instead of stdout")
	pflag.BoolVar(&o.stream, "stream", false, "stream short inputs token by token")
	pflag.StringVar(&o.apiKey, "api-key", "", "model API key (default SUTRA_API_KEY)")
	pflag.Parse()

	if err := run(o); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(o options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.chunkSize > 0 {
		cfg.Mindmap.ChunkSize = o.chunkSize
	}
	if o.overlap >= 0 {
		cfg.Mindmap.Overlap = o.overlap
	}
	if o.workers > 0 {
		cfg.Mindmap.Workers = o.workers
	}
	if err := cfg.Mindmap.Validate(); err != nil {
		return err
	}
	log, err := logger.New("quiet")
	if err != nil {
		return err
	}
	defer log.Sync()

	text, err := readInput(o, log)
	if err != nil {
		return err
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	model := llm.New(cfg.LLM, log).WithAPIKey(o.apiKey)
	gen := mindmap.New(model, cfg.Mindmap, log, nil)
	req := mindmap.Request{Text: text, Language: o.language}

	var res mindmap.Result
	if o.stream && o.out == "" {
		res, err = gen.Stream(ctx, model, req, func(d string) { fmt.Print(d) })
		fmt.Println()
	} else {
		res, err = gen.Generate(ctx, req, func(f float64, msg string) {
			fmt.Fprintf(os.Stderr, "\r[%3.0f%%] %-48s", f*100, msg)
		})
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}

	switch {
	case o.out != "":
		if err := os.WriteFile(o.out, []byte(res.Markdown), 0o644); err != nil {
			return err
		}
	case !o.stream:
		fmt.Println(res.Markdown)
	}
	if o.html != "" {
		if err := writeHTML(o.html, res.Markdown, res.Language); err != nil {
			return err
		}
	}
	if o.png != "" {
		fontPath := o.font
		if fontPath == "" {
			fontPath = cfg.Mindmap.FontPath
		}
		if err := writePNG(o.png, res.Markdown, mindmap.ImageOptions{FontPath: fontPath}); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "%d chunks, %d summarized, %d nodes, depth %d\n",
		res.Chunks, res.Succeeded, res.Stats.Nodes, res.Stats.MaxDepth)
	return nil
}

func writeHTML(path, markdown, language string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mindmap.RenderHTML(f, markdown, language); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writePNG(path, markdown string, opts mindmap.ImageOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mindmap.RenderPNG(f, markdown, opts); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func readInput(o options, log *logger.Logger) (string, error) {
	switch {
	case o.pdf != "":
		f, err := os.Open(o.pdf)
		if err != nil {
			return "", err
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			return "", err
		}
		return document.ExtractPDF(f, st.Size(), log, func(frac float64) {
			fmt.Fprintf(os.Stderr, "\rreading %s: %3.0f%%", filepath.Base(o.pdf), frac*100)
		})
	case o.textFile != "":
		data, err := os.ReadFile(o.textFile)
		if err != nil {
			return "", err
		}
		return document.ExtractText(o.textFile, data, log)
	case strings.TrimSpace(o.topic) != "":
		return o.topic, nil
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("no input: pass --pdf, --text-file, --topic or pipe text on stdin")
		}
		return string(data), nil
	}
}
