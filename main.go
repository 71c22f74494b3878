// Command cdnpls watches Discord channels for media.discordapp.net attachment
// links, replies with their cdn.discordapp.com form and deletes the reply once
// the author fixes the original message.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cdnpls/core"
	"cdnpls/platforms/discord"
	"cdnpls/telemetry"
)

const version = "1.0.0"

func main() {
	// local dev convenience only
	_ = godotenv.Load()

	config, err := LoadConfig("config.toml")
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}
	slog.SetDefault(config.Logger())
	slog.Info("bot starting...", slog.String("version", version))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	telemetry.Init()
	shutdownTracing, err := telemetry.InitTracing("cdnpls", version)
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdownTracing()

	if config.MetricsAddr != "" {
		go func() {
			if err := telemetry.Serve(ctx, config.MetricsAddr); err != nil {
				slog.Error("metrics server exited with error", slog.Any("err", err))
			}
		}()
	}

	adapter, err := discord.NewDiscordAdapter(config.Token)
	if err != nil {
		slog.Error("error creating client", slog.Any("err", err))
		os.Exit(1)
	}

	router := core.NewRouter(adapter, core.NewCorrelationStore())
	if err := adapter.Start(ctx, router); err != nil {
		slog.Error("error starting client", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			slog.Error("failed to close discord session", slog.Any("err", err))
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
}
