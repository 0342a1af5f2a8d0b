package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/dogspotter/GoodNameAlert/internal/bot"
	"github.com/dogspotter/GoodNameAlert/internal/config"
	"github.com/dogspotter/GoodNameAlert/internal/dispatch"
	"github.com/dogspotter/GoodNameAlert/internal/platform/logging"
	"github.com/dogspotter/GoodNameAlert/internal/slack"
	"github.com/dogspotter/GoodNameAlert/internal/store"
)

func main() {
	var bindingsPath, storePath string

	root := &cobra.Command{
		Use:           "goodnamebot",
		Short:         "Runs the good name alert bot against a chat channel",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), bindingsPath, storePath)
		},
	}
	root.Flags().StringVarP(&bindingsPath, "bindings", "b", "", "path to the trigger bindings file (overrides BINDINGS_PATH)")
	root.Flags().StringVar(&storePath, "store", "", "path to the good names document (overrides STORE_PATH)")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "goodnamebot:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, bindingsPath, storePath string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if bindingsPath != "" {
		cfg.BindingsPath = bindingsPath
	}
	if storePath != "" {
		cfg.StorePath = storePath
	}

	logging.Init(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Bot starting", "store", cfg.StorePath, "bindings", cfg.BindingsPath, "poll_interval", cfg.PollInterval)

	bindings, err := config.LoadBindings(cfg.BindingsPath)
	if err != nil {
		return fmt.Errorf("load bindings: %w", err)
	}

	clock := clockwork.NewRealClock()

	st := store.New(cfg.StorePath, cfg.CurrentSeason, clock)
	st.Load()

	session := slack.NewSession(slack.NewClient(cfg.SlackToken))
	defer session.Close()

	registry, err := dispatch.NewRegistry(bindings.Actions, st, session)
	if err != nil {
		return fmt.Errorf("build dispatch registry: %w", err)
	}

	b := bot.New(session, registry, session, clock, bot.Config{
		PollInterval: cfg.PollInterval,
		DebugCalls:   bindings.DebugCalls,
	})

	return b.Run(ctx)
}
