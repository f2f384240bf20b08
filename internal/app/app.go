package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/export"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/tomomira/youtube-video-analyzer/internal/search"
	"github.com/tomomira/youtube-video-analyzer/internal/server"
	"github.com/tomomira/youtube-video-analyzer/internal/store"
	"github.com/tomomira/youtube-video-analyzer/internal/task"
)

// Export formats
const (
	FormatXLSX   = "xlsx"
	FormatSheets = "sheets"
)

var (
	// ErrUnknownFormat is returned for an export format other than xlsx or sheets
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrSheetsDisabled is returned when a sheets export is requested without credentials
	ErrSheetsDisabled = errors.New("sheets export is not configured: set GOOGLE_CREDENTIALS_PATH")
	// ErrUploadDisabled is returned when an upload is requested without a bucket
	ErrUploadDisabled = errors.New("upload is not configured: set EXPORT_GCS_BUCKET")
	// ErrHistoryNotFound is returned when rerunning an unknown history id
	ErrHistoryNotFound = errors.New("history record not found")
)

// Searcher runs the search pipeline
type Searcher interface {
	Search(ctx context.Context, criteria *model.SearchCriteria) ([]*model.VideoInfo, error)
}

// WorkbookWriter writes a local spreadsheet file
type WorkbookWriter interface {
	Export(videos []*model.VideoInfo, path string) error
}

// SheetWriter writes to a cloud spreadsheet and returns its URL
type SheetWriter interface {
	Export(ctx context.Context, videos []*model.VideoInfo, spreadsheetName, worksheetName string) (string, error)
}

// Uploader copies a local file to remote storage and returns its URI
type Uploader interface {
	Upload(ctx context.Context, localPath, object string) (string, error)
}

// ExportRequest describes one export task
type ExportRequest struct {
	Format string
	// Path is the workbook path for xlsx; relative paths resolve under the export dir
	Path            string
	SpreadsheetName string
	Worksheet       string
	// Upload copies the workbook to the configured bucket after writing it
	Upload bool
}

// ExportResult locates the written export
type ExportResult struct {
	Format   string
	Location string
	// UploadURI is set when the workbook was uploaded
	UploadURI string
	Count     int
}

// App is the facade shared by the CLI and the bot
type App struct {
	searcher  Searcher
	store     store.Store
	runner    *task.Runner
	workbook  WorkbookWriter
	sheets    SheetWriter
	uploader  Uploader
	exportDir string
	log       zerolog.Logger
}

// Option configures optional collaborators
type Option func(*App)

// WithWorkbookWriter replaces the default excel exporter
func WithWorkbookWriter(w WorkbookWriter) Option {
	return func(a *App) { a.workbook = w }
}

// WithSheetWriter enables sheets exports
func WithSheetWriter(w SheetWriter) Option {
	return func(a *App) { a.sheets = w }
}

// WithUploader enables workbook uploads
func WithUploader(u Uploader) Option {
	return func(a *App) { a.uploader = u }
}

// WithExportDir sets the directory relative workbook paths resolve under
func WithExportDir(dir string) Option {
	return func(a *App) { a.exportDir = dir }
}

// WithRunner shares a task runner, e.g. with the health endpoint
func WithRunner(r *task.Runner) Option {
	return func(a *App) { a.runner = r }
}

// New creates the application facade
func New(searcher Searcher, st store.Store, logger zerolog.Logger, opts ...Option) *App {
	a := &App{
		searcher:  searcher,
		store:     st,
		exportDir: ".",
		log:       logger.With().Str("component", "app").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.runner == nil {
		a.runner = task.NewRunner(logger)
	}
	if a.workbook == nil {
		a.workbook = export.NewExcelExporter(logger)
	}
	return a
}

// StartSearch validates criteria and submits a search task. Validation errors
// and task.ErrBusy are returned synchronously. A successful search is recorded
// in history; a history write failure is logged and does not fail the search.
func (a *App) StartSearch(ctx context.Context, criteria *model.SearchCriteria) (<-chan task.Outcome[[]*model.VideoInfo], error) {
	if criteria == nil {
		server.RecordError("validation")
		return nil, model.ErrKeywordRequired
	}
	if err := criteria.Validate(); err != nil {
		server.RecordError("validation")
		return nil, err
	}
	c := criteria.Clone()

	return task.Submit(a.runner, ctx, task.KindSearch, func(ctx context.Context) ([]*model.VideoInfo, error) {
		start := time.Now()
		videos, err := a.searcher.Search(ctx, c)
		if err != nil {
			server.RecordSearch(server.StatusFailure, time.Since(start), 0)
			server.RecordError(errorType(err))
			return nil, err
		}
		server.RecordSearch(server.StatusSuccess, time.Since(start), len(videos))

		if _, err := a.store.AddHistory(ctx, c, len(videos)); err != nil {
			server.RecordError("store")
			a.log.Warn().Err(err).Str("keyword", c.Keyword).Msg("Failed to record search history")
		}
		return videos, nil
	})
}

// Search runs a search task and waits for its outcome
func (a *App) Search(ctx context.Context, criteria *model.SearchCriteria) ([]*model.VideoInfo, error) {
	ch, err := a.StartSearch(ctx, criteria)
	if err != nil {
		return nil, err
	}
	outcome := <-ch
	return outcome.Value, outcome.Err
}

// RerunHistory starts a search with the criteria of a history record
func (a *App) RerunHistory(ctx context.Context, id uint) (<-chan task.Outcome[[]*model.VideoInfo], error) {
	record, err := a.store.GetHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrHistoryNotFound
	}
	criteria, err := record.Criteria()
	if err != nil {
		return nil, fmt.Errorf("failed to restore criteria of history %d: %w", id, err)
	}
	return a.StartSearch(ctx, criteria)
}

// StartExport checks the request and submits an export task
func (a *App) StartExport(ctx context.Context, videos []*model.VideoInfo, req ExportRequest) (<-chan task.Outcome[*ExportResult], error) {
	if len(videos) == 0 {
		return nil, export.ErrNoVideos
	}
	switch req.Format {
	case FormatXLSX:
		if req.Path == "" {
			return nil, errors.New("xlsx export requires a path")
		}
		if req.Upload && a.uploader == nil {
			return nil, ErrUploadDisabled
		}
	case FormatSheets:
		if a.sheets == nil {
			return nil, ErrSheetsDisabled
		}
		if req.SpreadsheetName == "" {
			return nil, errors.New("sheets export requires a spreadsheet name")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, req.Format)
	}

	snapshot := make([]*model.VideoInfo, len(videos))
	copy(snapshot, videos)

	return task.Submit(a.runner, ctx, task.KindExport, func(ctx context.Context) (*ExportResult, error) {
		result, err := a.export(ctx, snapshot, req)
		if err != nil {
			server.RecordExport(req.Format, server.StatusFailure)
			server.RecordError("export")
			return nil, err
		}
		server.RecordExport(req.Format, server.StatusSuccess)
		return result, nil
	})
}

// Export runs an export task and waits for its outcome
func (a *App) Export(ctx context.Context, videos []*model.VideoInfo, req ExportRequest) (*ExportResult, error) {
	ch, err := a.StartExport(ctx, videos, req)
	if err != nil {
		return nil, err
	}
	outcome := <-ch
	return outcome.Value, outcome.Err
}

func (a *App) export(ctx context.Context, videos []*model.VideoInfo, req ExportRequest) (*ExportResult, error) {
	result := &ExportResult{Format: req.Format, Count: len(videos)}

	if req.Format == FormatSheets {
		url, err := a.sheets.Export(ctx, videos, req.SpreadsheetName, req.Worksheet)
		if err != nil {
			return nil, err
		}
		result.Location = url
		return result, nil
	}

	path := a.resolvePath(req.Path)
	if err := a.workbook.Export(videos, path); err != nil {
		return nil, err
	}
	result.Location = path

	if req.Upload {
		uri, err := a.uploader.Upload(ctx, path, filepath.Base(path))
		if err != nil {
			return nil, err
		}
		result.UploadURI = uri
	}
	return result, nil
}

func (a *App) resolvePath(path string) string {
	if filepath.IsAbs(path) || a.exportDir == "" {
		return path
	}
	return filepath.Join(a.exportDir, path)
}

// Presets returns the preset service
func (a *App) Presets() store.PresetStore {
	return a.store
}

// History returns the history service
func (a *App) History() store.HistoryStore {
	return a.store
}

// Runner returns the task runner
func (a *App) Runner() *task.Runner {
	return a.runner
}

// Busy reports whether a search or export is in flight
func (a *App) Busy() bool {
	return a.runner.IsRunning()
}

func errorType(err error) string {
	var providerErr *search.ProviderError
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &providerErr):
		return "provider"
	case errors.As(err, &validationErr):
		return "validation"
	default:
		return "search"
	}
}
