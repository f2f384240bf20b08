package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/config"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore implements Store on top of gorm.
// Writes are serialized: the sqlite pool holds a single connection and every
// write runs inside its own transaction.
type GormStore struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to the configured database and creates the schema if absent
func Open(cfg *config.DBConfig, log zerolog.Logger) (*GormStore, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case config.DriverSQLite, "":
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.Driver == config.DriverMySQL {
		maxConns := cfg.MaxConns
		if maxConns <= 0 {
			maxConns = 1
		}
		sqlDB.SetMaxOpenConns(maxConns)
		sqlDB.SetMaxIdleConns(maxConns/2 + 1)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&model.SearchHistory{}, &model.SearchPreset{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("Database opened")

	return &GormStore{db: db, log: log.With().Str("component", "store").Logger()}, nil
}

// AddHistory appends one executed search
func (s *GormStore) AddHistory(ctx context.Context, criteria *model.SearchCriteria, resultCount int) (*model.SearchHistory, error) {
	if criteria == nil {
		return nil, fmt.Errorf("failed to add history: criteria is nil")
	}

	record := &model.SearchHistory{
		CriteriaColumns: model.FromCriteria(criteria),
		ResultCount:     resultCount,
		ExecutedAt:      time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(record).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add history: %w", err)
	}

	s.log.Debug().Uint("id", record.ID).Str("keyword", criteria.Keyword).Msg("History recorded")
	return record, nil
}

// RecentHistory returns the latest records, newest first
func (s *GormStore) RecentHistory(ctx context.Context, limit int) ([]*model.SearchHistory, error) {
	var records []*model.SearchHistory
	result := s.db.WithContext(ctx).
		Order("executed_at DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get recent history: %w", result.Error)
	}
	return records, nil
}

// FindHistory returns records whose keyword contains substring, newest first
func (s *GormStore) FindHistory(ctx context.Context, substring string, limit int) ([]*model.SearchHistory, error) {
	var records []*model.SearchHistory
	result := s.db.WithContext(ctx).
		Where("keyword LIKE ?", "%"+substring+"%").
		Order("executed_at DESC").
		Order("id DESC").
		Limit(normalizeLimit(limit)).
		Find(&records)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to search history: %w", result.Error)
	}
	return records, nil
}

// GetHistory retrieves a record by id
func (s *GormStore) GetHistory(ctx context.Context, id uint) (*model.SearchHistory, error) {
	var record model.SearchHistory
	result := s.db.WithContext(ctx).Where("id = ?", id).First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get history: %w", result.Error)
	}
	return &record, nil
}

// DeleteHistory deletes a record and reports whether it existed
func (s *GormStore) DeleteHistory(ctx context.Context, id uint) (bool, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", id).Delete(&model.SearchHistory{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete history: %w", err)
	}
	return deleted > 0, nil
}

// ClearHistory deletes every record and returns how many were removed
func (s *GormStore) ClearHistory(ctx context.Context) (int64, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.SearchHistory{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}

	s.log.Info().Int64("deleted", deleted).Msg("History cleared")
	return deleted, nil
}

// SavePreset validates criteria and inserts or updates the preset with the trimmed name.
// An existing preset keeps its created_at.
func (s *GormStore) SavePreset(ctx context.Context, name string, criteria *model.SearchCriteria) (*model.SearchPreset, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPresetNameRequired
	}
	if criteria == nil {
		return nil, model.ErrKeywordRequired
	}
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	var preset model.SearchPreset
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", name).First(&preset)
		if result.Error == nil {
			// Preset already exists, overwrite its criteria
			preset.CriteriaColumns = model.FromCriteria(criteria)
			return tx.Save(&preset).Error
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check existing preset: %w", result.Error)
		}

		preset = model.SearchPreset{
			Name:            name,
			CriteriaColumns: model.FromCriteria(criteria),
		}
		return tx.Create(&preset).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save preset: %w", err)
	}

	s.log.Info().Str("name", name).Msg("Preset saved")
	return &preset, nil
}

// LoadPreset retrieves a preset by name
func (s *GormStore) LoadPreset(ctx context.Context, name string) (*model.SearchPreset, error) {
	var preset model.SearchPreset
	result := s.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&preset)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load preset: %w", result.Error)
	}
	return &preset, nil
}

// ListPresets returns every preset, most recently updated first
func (s *GormStore) ListPresets(ctx context.Context) ([]*model.SearchPreset, error) {
	var presets []*model.SearchPreset
	result := s.db.WithContext(ctx).
		Order("updated_at DESC").
		Order("id DESC").
		Find(&presets)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list presets: %w", result.Error)
	}
	return presets, nil
}

// DeletePreset deletes a preset and reports whether it existed
func (s *GormStore) DeletePreset(ctx context.Context, name string) (bool, error) {
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("name = ?", strings.TrimSpace(name)).Delete(&model.SearchPreset{})
		deleted = result.RowsAffected
		return result.Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete preset: %w", err)
	}
	return deleted > 0, nil
}

// Ping checks database connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying db: %w", err)
	}
	return sqlDB.Close()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
