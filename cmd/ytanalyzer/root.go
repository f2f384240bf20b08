package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tomomira/youtube-video-analyzer/internal/app"
	"github.com/tomomira/youtube-video-analyzer/internal/config"
	"github.com/tomomira/youtube-video-analyzer/internal/export"
	"github.com/tomomira/youtube-video-analyzer/internal/logging"
	"github.com/tomomira/youtube-video-analyzer/internal/search"
	"github.com/tomomira/youtube-video-analyzer/internal/store"
	"github.com/tomomira/youtube-video-analyzer/internal/youtube"
)

// runtime holds the process-wide collaborators built before any subcommand runs
type runtime struct {
	cfg   *config.Config
	log   zerolog.Logger
	store store.Store

	// closers run in reverse order after the command
	closers []func() error
}

func newRootCmd() *cobra.Command {
	rt := &runtime{}

	cmd := &cobra.Command{
		Use:   "ytanalyzer",
		Short: "Search, filter and export YouTube videos",
		Long: `ytanalyzer searches YouTube through the Data API, filters the results by
view count and short/normal classification, and exports them to Excel or
Google Sheets. Searches are recorded in history; criteria can be saved as presets.

Examples:
  ytanalyzer search "golang tutorial" --min 10000 --type normal --limit 100
  ytanalyzer search "lofi" --type short --export-xlsx lofi.xlsx
  ytanalyzer preset save daily "news" --order date --limit 20
  ytanalyzer history list
  ytanalyzer bot`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.init()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return rt.close()
		},
	}

	cmd.AddCommand(
		newSearchCmd(rt),
		newPresetCmd(rt),
		newHistoryCmd(rt),
		newBotCmd(rt),
	)
	return cmd
}

func (rt *runtime) init() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	rt.cfg = cfg
	rt.log = logging.New(cfg.Log, os.Stderr)

	st, err := store.Open(&cfg.DB, rt.log)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	rt.store = st
	rt.closers = append(rt.closers, st.Close)

	rt.log.Debug().Str("driver", cfg.DB.Driver).Msg("Configuration loaded")
	return nil
}

func (rt *runtime) close() error {
	var firstErr error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	rt.closers = nil
	return firstErr
}

// newApp wires the search pipeline and the exporters enabled by configuration
func (rt *runtime) newApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	client, err := youtube.NewClient(ctx, &rt.cfg.YouTube, rt.log)
	if err != nil {
		return nil, err
	}
	service := search.NewService(client, search.OptionsFromConfig(&rt.cfg.YouTube), rt.log)

	opts = append([]app.Option{app.WithExportDir(rt.cfg.Export.Dir)}, opts...)

	if rt.cfg.Export.CredentialsPath != "" {
		sheets, err := export.NewSheetsExporter(ctx, rt.cfg.Export.CredentialsPath, rt.log)
		if err != nil {
			return nil, err
		}
		opts = append(opts, app.WithSheetWriter(sheets))
	}

	if rt.cfg.Export.GCSBucket != "" {
		uploader, err := export.NewBucketUploader(ctx, rt.cfg.Export.GCSBucket, rt.log)
		if err != nil {
			return nil, err
		}
		rt.closers = append(rt.closers, uploader.Close)
		opts = append(opts, app.WithUploader(uploader))
	}

	return app.New(service, rt.store, rt.log, opts...), nil
}
