// Mediashelf - Personal Media Catalog
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mediashelf

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tomtom215/mediashelf/internal/config"
	"github.com/tomtom215/mediashelf/internal/logging"
	"github.com/tomtom215/mediashelf/internal/models"
)

// recordRow stores one record as JSON. Seq is assigned on insert and gives
// the display order.
type recordRow struct {
	Seq      int64  `gorm:"primaryKey;autoIncrement"`
	Kind     string `gorm:"size:16;not null;uniqueIndex:idx_records_kind_record"`
	RecordID int64  `gorm:"not null;uniqueIndex:idx_records_kind_record"`
	Body     string `gorm:"type:text;not null"`
}

func (recordRow) TableName() string { return "records" }

type sqliteStore struct {
	db   *gorm.DB
	sql  *sql.DB
	path string
}

func openSQLite(ctx context.Context, path string) (*sqliteStore, error) {
	if path != InMemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.New(gormWriter{log: logging.WithComponent("gorm")}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite handle: %w", err)
	}
	// One connection: sqlite has a single writer, and each :memory:
	// connection would otherwise see its own empty database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&recordRow{}); err != nil {
		sqlDB.Close() //nolint:errcheck,gosec // migration error takes precedence
		return nil, fmt.Errorf("migrate sqlite store: %w", err)
	}
	return &sqliteStore{db: db, sql: sqlDB, path: path}, nil
}

func (s *sqliteStore) name() string { return config.BackendSQLite }

func (s *sqliteStore) kindScope(ctx context.Context, kind models.Kind) *gorm.DB {
	return s.db.WithContext(ctx).Model(&recordRow{}).Where("kind = ?", string(kind))
}

func (s *sqliteStore) list(ctx context.Context, kind models.Kind, offset, limit int) ([]json.RawMessage, int, error) {
	var total int64
	if err := s.kindScope(ctx, kind).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", kind, err)
	}
	if limit == 0 {
		return nil, int(total), nil
	}

	q := s.kindScope(ctx, kind).Order("seq")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []recordRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", kind, err)
	}

	out := make([]json.RawMessage, len(rows))
	for i := range rows {
		out[i] = json.RawMessage(rows[i].Body)
	}
	return out, int(total), nil
}

func (s *sqliteStore) find(tx *gorm.DB, kind models.Kind, id int64) (recordRow, error) {
	var row recordRow
	err := tx.Where("kind = ? AND record_id = ?", string(kind), id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return row, ErrNotFound
	}
	if err != nil {
		return row, fmt.Errorf("get %s: %w", kind, err)
	}
	return row, nil
}

func (s *sqliteStore) get(ctx context.Context, kind models.Kind, id int64) (json.RawMessage, error) {
	row, err := s.find(s.db.WithContext(ctx), kind, id)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(row.Body), nil
}

func (s *sqliteStore) insert(ctx context.Context, kind models.Kind, id int64, body json.RawMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := s.find(tx, kind, id)
		if err == nil {
			return ErrDuplicateID
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		row := recordRow{Kind: string(kind), RecordID: id, Body: string(body)}
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("insert %s: %w", kind, err)
		}
		return nil
	})
}

func (s *sqliteStore) update(ctx context.Context, kind models.Kind, id int64, fn func(json.RawMessage) (json.RawMessage, error)) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, kind, id)
		if err != nil {
			return err
		}
		next, err := fn(json.RawMessage(row.Body))
		if err != nil {
			return err
		}
		if err := tx.Model(&row).Update("body", string(next)).Error; err != nil {
			return fmt.Errorf("update %s: %w", kind, err)
		}
		return nil
	})
}

func (s *sqliteStore) remove(ctx context.Context, kind models.Kind, id int64) error {
	res := s.db.WithContext(ctx).
		Where("kind = ? AND record_id = ?", string(kind), id).
		Delete(&recordRow{})
	if res.Error != nil {
		return fmt.Errorf("delete %s: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *sqliteStore) count(ctx context.Context, kind models.Kind) (int, error) {
	_, total, err := s.list(ctx, kind, 0, 0)
	return total, err
}

func (s *sqliteStore) inspect(ctx context.Context) (models.StoreInspection, error) {
	if err := ctx.Err(); err != nil {
		return models.StoreInspection{}, err
	}
	info := models.StoreInspection{Backend: s.name(), Path: s.path}
	if s.path != InMemoryPath {
		if st, err := os.Stat(s.path); err == nil {
			info.Exists = true
			info.SizeBytes = st.Size()
		}
	}
	return info, nil
}

func (s *sqliteStore) ping(ctx context.Context) error {
	return s.sql.PingContext(ctx)
}

func (s *sqliteStore) close() error {
	return s.sql.Close()
}

// gormWriter adapts gorm's logger output to zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Warn().Msgf(format, args...)
}
