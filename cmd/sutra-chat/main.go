package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/yungbote/sutra-starters/internal/chat"
	"github.com/yungbote/sutra-starters/internal/config"
	"github.com/yungbote/sutra-starters/internal/llm"
	"github.com/yungbote/sutra-starters/internal/memory"
	"github.com/yungbote/sutra-starters/internal/platform/logger"
	"github.com/yungbote/sutra-starters/internal/platform/shutdown"
	"github.com/yungbote/sutra-starters/internal/tui"
)

func main() {
	var (
		persona  = pflag.StringP("persona", "p", chat.Generic.Name, "persona: "+strings.Join(chat.PersonaNames(), ", "))
		language = pflag.StringP("language", "l", "English", "reply language")
		userID   = pflag.StringP("user", "u", "default_user", "user id for long-term memory")
		backend  = pflag.String("memory", "", "memory backend: memory or redis (default from config)")
		apiKey   = pflag.String("api-key", "", "model API key (default SUTRA_API_KEY)")
	)
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("load config: %v", err)
	}
	if *backend != "" {
		cfg.Memory.Backend = *backend
	}
	p, ok := chat.PersonaByName(*persona)
	if !ok {
		fail("unknown persona %q (want one of %s)", *persona, strings.Join(chat.PersonaNames(), ", "))
	}

	// The terminal owns stdout.
	log := logger.Nop()
	mem, err := memory.Open(cfg.Memory, log)
	if err != nil {
		fail("open memory: %v", err)
	}
	defer mem.Close()

	model := llm.New(cfg.LLM, log).WithAPIKey(*apiKey)
	assistant := chat.NewAssistant(p, model, mem, nil, chat.Options{Window: cfg.Memory.Window.Duration, Limit: cfg.Memory.Limit}, log)

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()
	if err := tui.Run(ctx, assistant, tui.Options{
		Title:    "Sutra " + strings.ToUpper(p.Name[:1]) + p.Name[1:] + " Chat",
		UserID:   *userID,
		Language: *language,
	}); err != nil {
		fail("chat: %v", err)
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
