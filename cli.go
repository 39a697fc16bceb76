package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configPath string

func newRootCommand() *cobra.Command {
	serve := serveCommand()

	root := &cobra.Command{
		Use:           "slowpoke",
		Short:         "slowpoke: a Discord and Telegram chat bot backed by generative models",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          serve.RunE,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config.toml (default: ./config.toml)")

	root.AddCommand(serve)
	root.AddCommand(registerCommand())

	return root
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Connect to every configured platform and answer commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func registerCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Overwrite the Discord application's slash commands",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return register(cmd.Context())
		},
	}
}

func execute() int {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("slowpoke exited with error")
		return 1
	}

	return 0
}
