package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/tomomira/youtube-video-analyzer/internal/app"
	"github.com/tomomira/youtube-video-analyzer/internal/bot"
	"github.com/tomomira/youtube-video-analyzer/internal/server"
	"github.com/tomomira/youtube-video-analyzer/internal/task"
)

// ShutdownTimeout is the maximum time to wait for graceful shutdown
const ShutdownTimeout = 30 * time.Second

func newBotCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot with the health and metrics server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context(), rt)
		},
	}
}

func runBot(parent context.Context, rt *runtime) error {
	if err := rt.cfg.ValidateBot(); err != nil {
		return err
	}
	log := rt.log

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	runner := task.NewRunner(log)
	a, err := rt.newApp(ctx, app.WithRunner(runner))
	if err != nil {
		return err
	}

	telegramClient, err := bot.NewClient(rt.cfg.Bot.Token)
	if err != nil {
		return err
	}
	log.Info().Str("username", telegramClient.Username()).Msg("Telegram client initialized")

	handler := bot.NewHandler(a, telegramClient, rt.cfg.Bot.ResultPreview, log,
		bot.WithBaseCriteria(defaultCriteria(&rt.cfg.YouTube, "")))
	httpServer := server.NewServer(rt.store, runner, log)

	// Setup signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		if err := httpServer.Start(rt.cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	pollDone := make(chan struct{})
	go func() {
		defer close(pollDone)
		log.Info().Msg("Starting Telegram bot polling")
		for update := range telegramClient.GetUpdates() {
			handler.HandleUpdate(ctx, update)
		}
	}()

	log.Info().Msg("YouTube analyzer bot started")

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer shutdownCancel()

	log.Info().Msg("Starting graceful shutdown...")

	// 1. Stop Telegram bot polling
	telegramClient.StopReceivingUpdates()
	select {
	case <-pollDone:
		log.Info().Msg("Telegram bot polling stopped")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timeout exceeded while stopping polling")
	}

	// 2. Let the running task finish; tasks are not cancellable
	done := make(chan struct{})
	go func() {
		runner.Wait()
		handler.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info().Msg("Background tasks finished")
	case <-shutdownCtx.Done():
		log.Warn().Msg("Shutdown timeout exceeded while waiting for background task")
	}

	// 3. Stop HTTP server
	if err := httpServer.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	} else {
		log.Info().Msg("HTTP server stopped")
	}

	// The store and uploader are closed by the root command
	log.Info().Msg("Graceful shutdown completed")
	return nil
}
