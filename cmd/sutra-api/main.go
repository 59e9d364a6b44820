package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/yungbote/sutra-starters/internal/app"
	"github.com/yungbote/sutra-starters/internal/config"
	httpMW "github.com/yungbote/sutra-starters/internal/http/middleware"
	"github.com/yungbote/sutra-starters/internal/platform/shutdown"
)

func main() {
	issue := pflag.String("issue-token", "", "print a bearer token for this subject and exit (needs SUTRA_AUTH_SECRET)")
	ttl := pflag.Duration("token-ttl", 0, "lifetime of an issued token; 0 never expires")
	pflag.Parse()

	if *issue != "" {
		cfg, err := config.Load()
		if err != nil || cfg.HTTP.AuthSecret == "" {
			fmt.Fprintln(os.Stderr, "auth secret is not configured")
			os.Exit(1)
		}
		tok, err := httpMW.NewTokenAuth(nil, cfg.HTTP.AuthSecret).Issue(*issue, *ttl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue token: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(tok)
		return
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	if err := a.Run(ctx); err != nil {
		a.Log.Error("server exited", "error", err)
		a.Close(context.Background())
		os.Exit(1)
	}
}
