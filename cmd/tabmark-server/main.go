// Command tabmark-server serves PDF to Markdown conversion over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/tsawler/tabmark/config"
	"github.com/tsawler/tabmark/logging"
	"github.com/tsawler/tabmark/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := pflag.NewFlagSet("tabmark-server", pflag.ContinueOnError)
	flags.String("addr", ":8080", "listen address")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	configFile := flags.String("config", "", "config file (yaml, json or toml)")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.Load(*configFile, flags)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logging.Setup(logging.Options{Level: cfg.Log.Level, Color: true}); err != nil {
		return err
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg).Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
