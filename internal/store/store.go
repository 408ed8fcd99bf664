// Package store persists designs and per-ward simulation output through
// gorm, on SQLite, PostgreSQL or MySQL.
package store

import (
	"context"
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"metawards-uq/internal/db"
	"metawards-uq/internal/model"
	"metawards-uq/internal/schema"
)

const batchSize = 500

// Store wraps a connection. It is safe for concurrent use to the extent the
// underlying driver is.
type Store struct {
	conn *gorm.DB
}

func New(conn *gorm.DB) *Store {
	return &Store{conn: conn}
}

// DB exposes the connection for ad-hoc queries.
func (s *Store) DB() *gorm.DB {
	return s.conn
}

func (s *Store) Migrate() error {
	return db.Migrate(s.conn)
}

// CreateDesignTable creates the hypercube table name(key, vars...).
func (s *Store) CreateDesignTable(ctx context.Context, name, key string, vars []string) error {
	return schema.DesignTable(name, key, vars).Create(ctx, s.conn)
}

// ReplaceDesignTable drops any table called name and creates it afresh.
func (s *Store) ReplaceDesignTable(ctx context.Context, name, key string, vars []string) error {
	if err := schema.ValidIdentifier(name); err != nil {
		return err
	}
	if err := s.conn.WithContext(ctx).Migrator().DropTable(name); err != nil {
		return fmt.Errorf("drop %s: %w", name, err)
	}
	return s.CreateDesignTable(ctx, name, key, vars)
}

// HasTable reports whether the named table exists.
func (s *Store) HasTable(name string) bool {
	return s.conn.Migrator().HasTable(name)
}

// Transaction runs fn against a store bound to a single transaction; an
// error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}

// InsertDesignRows writes every row of m keyed by its row index, in one
// transaction.
func (s *Store) InsertDesignRows(ctx context.Context, table, key string, vars []string, m mat.Matrix) error {
	r, c := m.Dims()
	if c != len(vars) {
		return fmt.Errorf("design has %d columns for %d variables", c, len(vars))
	}
	return s.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := 0; i < r; i++ {
			row, err := designRow(key, i, vars, mat.Row(nil, i, m))
			if err != nil {
				return err
			}
			if err := tx.Table(table).Create(row).Error; err != nil {
				return fmt.Errorf("insert design row %d: %w", i, err)
			}
		}
		return nil
	})
}

// InsertDesignPoint records one design point, leaving an existing row with
// the same index untouched.
func (s *Store) InsertDesignPoint(ctx context.Context, table, key string, index int, vars []string, values []float64) error {
	if len(values) != len(vars) {
		return fmt.Errorf("%d values for %d variables", len(values), len(vars))
	}
	row, err := designRow(key, index, vars, values)
	if err != nil {
		return err
	}
	return s.conn.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: key}}, DoNothing: true}).
		Create(row).Error
}

func designRow(key string, index int, vars []string, values []float64) (map[string]interface{}, error) {
	row := map[string]interface{}{key: index}
	for j, v := range vars {
		if err := schema.ValidIdentifier(v); err != nil {
			return nil, err
		}
		row[v] = values[j]
	}
	return row, nil
}

// EnsureChannels returns the ids of the named output channels, creating the
// missing ones.
func (s *Store) EnsureChannels(ctx context.Context, names []string) (map[string]uint, error) {
	ids := make(map[string]uint, len(names))
	for _, name := range names {
		ch := model.OutputChannel{}
		if err := s.conn.WithContext(ctx).Where("name = ?", name).
			Attrs(model.OutputChannel{Name: name}).FirstOrCreate(&ch).Error; err != nil {
			return nil, fmt.Errorf("channel %s: %w", name, err)
		}
		ids[name] = ch.ID
	}
	return ids, nil
}

// RegisterRun records the start of a run of design point designIndex.
func (s *Store) RegisterRun(ctx context.Context, designIndex, repeat int, folder string) (*model.Run, error) {
	run := &model.Run{DesignIndex: designIndex, Repeat: repeat, Folder: folder}
	if err := s.conn.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("register run %s: %w", folder, err)
	}
	return run, nil
}

// RecordDay maps a simulation day to its date once.
func (s *Store) RecordDay(ctx context.Context, day int, date string) error {
	d := model.SimDay{}
	return s.conn.WithContext(ctx).Where("day = ?", day).
		Attrs(model.SimDay{Day: day, Date: date}).FirstOrCreate(&d).Error
}

// RecordResults writes one channel's value for each ward of one day.
// values is indexed by ward; wards before firstWard are skipped.
func (s *Store) RecordResults(ctx context.Context, runID uint, day int, channelID uint, values []int64, firstWard int) error {
	if firstWard >= len(values) {
		return nil
	}
	rows := make([]model.WardResult, 0, len(values)-firstWard)
	for ward := firstWard; ward < len(values); ward++ {
		rows = append(rows, model.WardResult{RunID: runID, Day: day, Ward: ward, ChannelID: channelID, Value: values[ward]})
	}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		CreateInBatches(rows, batchSize).Error
}

// FinishRun stores the last simulated day.
func (s *Store) FinishRun(ctx context.Context, runID uint, endDay int) error {
	res := s.conn.WithContext(ctx).Model(&model.Run{}).Where("id = ?", runID).Update("end_day", endDay)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("run %d: %w", runID, gorm.ErrRecordNotFound)
	}
	return nil
}

// Results returns one channel of one run and day, ordered by ward.
func (s *Store) Results(ctx context.Context, runID uint, day int, channelID uint) ([]model.WardResult, error) {
	var rows []model.WardResult
	err := s.conn.WithContext(ctx).
		Where("run_id = ? AND day = ? AND channel_id = ?", runID, day, channelID).
		Order("ward").Find(&rows).Error
	return rows, err
}

// WideKey identifies one row of a wide output table.
type WideKey struct {
	Design int
	Repeat int
	Day    int
	Ward   int
}

func (k WideKey) row() map[string]interface{} {
	return map[string]interface{}{
		schema.KeyDesign: k.Design,
		schema.KeyRepeat: k.Repeat,
		schema.KeyDay:    k.Day,
		schema.KeyWard:   k.Ward,
	}
}

// CreateWideTable creates the per-ward channel table if it is missing.
func (s *Store) CreateWideTable(ctx context.Context, name string, channels []string) error {
	return schema.WideTable(name, channels).Create(ctx, s.conn)
}

// UpsertWide writes channel values for one key, replacing any earlier values
// of the same channels.
func (s *Store) UpsertWide(ctx context.Context, table string, key WideKey, values map[string]int64) error {
	if len(values) == 0 {
		return nil
	}
	row := key.row()
	update := make([]string, 0, len(values))
	for name, v := range values {
		if err := schema.ValidIdentifier(name); err != nil {
			return err
		}
		row[name] = v
		update = append(update, name)
	}
	conflict := make([]clause.Column, len(schema.WideKeys))
	for i, k := range schema.WideKeys {
		conflict[i] = clause.Column{Name: k}
	}
	return s.conn.WithContext(ctx).Table(table).
		Clauses(clause.OnConflict{Columns: conflict, DoUpdates: clause.AssignmentColumns(update)}).
		Create(row).Error
}
