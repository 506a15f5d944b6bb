package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"storebot/pkg/channels"
	"storebot/pkg/config"
	"storebot/pkg/flow"
	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/menu"
	"storebot/pkg/render"
	"storebot/pkg/router"
	"storebot/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot with all enabled channels",
	Long: `Run storebot with all channels enabled in the configuration.

Examples:
  # Run with the default config (~/.storebot/config.json)
  storebot serve

  # Run with an explicit config file
  storebot serve -c ./config.json`,
	Run: runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	app := fx.New(
		fx.Supply(config.Path(configPath)),
		config.Module,
		logger.Module,
		session.Module,
		gateway.Module,
		menu.Module,
		flow.Module,
		render.Module,
		router.Module,
		channels.Module,

		fx.NopLogger, // Suppress fx logs
	)

	if err := app.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting storebot: %v\n", err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx := context.Background()
	if err := app.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error stopping storebot: %v\n", err)
	}
}
