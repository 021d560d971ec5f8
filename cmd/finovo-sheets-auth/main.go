// Command finovo-sheets-auth authorizes the worker to write to a Google
// Sheets spreadsheet as a user and saves the refresh token.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"finovo/internal/cli"
	"finovo/internal/config"
	"finovo/internal/log"
	gsheet "finovo/internal/sheets/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(config.Load(), log.ComponentSheets)

	cfg, err := gsheet.OAuthConfigFromEnv()
	if err != nil {
		cli.Fatal(logger, "Failed to load OAuth client", err)
	}

	port := os.Getenv("OAUTH_REDIRECT_PORT")
	if port == "" {
		port = "8085"
	}

	ctx, cancel := cli.SignalContext(logger)
	defer cancel()
	ctx, timeout := context.WithTimeout(ctx, 5*time.Minute)
	defer timeout()

	tok, err := gsheet.Authorize(ctx, cfg, port, func(url string) {
		fmt.Printf("Open this URL to authorize:\n%s\n", url)
	})
	if err != nil {
		cli.Fatal(logger, "Authorization failed", err)
	}

	out := gsheet.TokenFile()
	if err := gsheet.SaveToken(out, tok); err != nil {
		cli.Fatal(logger, "Failed to save token", err)
	}
	logger.Info("Saved token", "path", out)
}
