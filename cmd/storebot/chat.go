package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"storebot/pkg/config"
	"storebot/pkg/flow"
	"storebot/pkg/gateway"
	"storebot/pkg/logger"
	"storebot/pkg/menu"
	"storebot/pkg/render"
	"storebot/pkg/router"
	"storebot/pkg/session"
)

var (
	chatMessage string
	chatSession string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the store bot from the terminal",
	Long: `Start a terminal chat session with the store bot. The terminal has no
native buttons, so menus render as numbered lists; reply with a number
to select an option.

Examples:
  # Interactive mode
  storebot chat

  # One-shot mode
  storebot chat -m "menu"

  # Use a specific session
  storebot chat -s console:work`,
	Run: runChat,
}

func runChat(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
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

		fx.Invoke(func(lc fx.Lifecycle, log *logger.Logger, rt *router.Router, sessions *session.Manager) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					go func() {
						defer cancel()
						if chatMessage != "" {
							runOneShot(ctx, rt, sessions)
							return
						}
						if err := chatLoop(ctx, rt, sessions); err != nil {
							fmt.Fprintf(os.Stderr, "Error: %v\n", err)
						}
					}()
					return nil
				},
			})
		}),
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

func consoleRequest(st *session.State) *router.Request {
	// The terminal advertises no button capability, so every screen comes
	// back as a numbered text menu.
	return &router.Request{Channel: "console", State: st}
}

func runOneShot(ctx context.Context, rt *router.Router, sessions *session.Manager) {
	err := sessions.With(ctx, chatSession, func(st *session.State) error {
		payload, handled := rt.HandleMessage(ctx, consoleRequest(st), chatMessage)
		if !handled {
			payload = rt.OpenMenu(ctx, consoleRequest(st))
		}
		fmt.Printf("\n%s\n", payload.Text)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func chatLoop(ctx context.Context, rt *router.Router, sessions *session.Manager) error {
	fmt.Printf("%s storebot (Ctrl+C or 'exit' to quit, 'menu' to start over)\n\n", logo)

	// Open with the main menu.
	if err := sessions.With(ctx, chatSession, func(st *session.State) error {
		payload := rt.OpenMenu(ctx, consoleRequest(st))
		fmt.Printf("%s\n\n", payload.Text)
		return nil
	}); err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s > ", logo),
		HistoryFile:     filepath.Join(os.TempDir(), ".storebot_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("initializing readline: %w", err)
	}
	defer rl.Close()

	for {
		select {
		case <-ctx.Done():
			fmt.Println("\nGoodbye!")
			return nil
		default:
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt || err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			fmt.Printf("Error reading input: %v\n", err)
			continue
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == "exit" || input == "quit" {
			fmt.Println("Goodbye!")
			return nil
		}

		if err := sessions.With(ctx, chatSession, func(st *session.State) error {
			if input == "menu" {
				payload := rt.OpenMenu(ctx, consoleRequest(st))
				fmt.Printf("\n%s\n\n", payload.Text)
				return nil
			}
			payload, handled := rt.HandleMessage(ctx, consoleRequest(st), input)
			if !handled {
				fmt.Println("\nNot a menu selection. Type 'menu' to start over.")
				return nil
			}
			fmt.Printf("\n%s\n\n", payload.Text)
			return nil
		}); err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
}
