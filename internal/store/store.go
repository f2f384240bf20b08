package store

import (
	"context"
	"errors"

	"github.com/tomomira/youtube-video-analyzer/internal/model"
)

// ErrPresetNameRequired is returned when a preset is saved with a blank name
var ErrPresetNameRequired = errors.New("preset name is required")

// HistoryStore persists executed searches. Records are append-only.
type HistoryStore interface {
	AddHistory(ctx context.Context, criteria *model.SearchCriteria, resultCount int) (*model.SearchHistory, error)
	// RecentHistory returns records newest first; limit <= 0 means no limit
	RecentHistory(ctx context.Context, limit int) ([]*model.SearchHistory, error)
	// FindHistory returns records whose keyword contains substring, newest first
	FindHistory(ctx context.Context, substring string, limit int) ([]*model.SearchHistory, error)
	// GetHistory returns nil, nil when no record has the id
	GetHistory(ctx context.Context, id uint) (*model.SearchHistory, error)
	DeleteHistory(ctx context.Context, id uint) (bool, error)
	ClearHistory(ctx context.Context) (int64, error)
}

// PresetStore persists named search criteria, keyed by name
type PresetStore interface {
	SavePreset(ctx context.Context, name string, criteria *model.SearchCriteria) (*model.SearchPreset, error)
	// LoadPreset returns nil, nil when no preset has the name
	LoadPreset(ctx context.Context, name string) (*model.SearchPreset, error)
	// ListPresets returns presets most recently updated first
	ListPresets(ctx context.Context) ([]*model.SearchPreset, error)
	DeletePreset(ctx context.Context, name string) (bool, error)
}

// Store defines the interface for data persistence operations
type Store interface {
	HistoryStore
	PresetStore

	// Health check
	Ping(ctx context.Context) error
	Close() error
}
