package hooks

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strconv"

	"metawards-uq/internal/model"
	"metawards-uq/internal/store"
)

// Channel names written by Session.
const (
	ChannelInfected = "infected"
	ChannelRemoved  = "removed"
)

// SessionConfig describes one run for Session.
type SessionConfig struct {
	DesignTable string
	DesignKey   string
	// Vars are the hypercube variable names; their values are read from the
	// run's user parameters.
	Vars   []string
	Folder string
}

// Session records infected and removed counts per ward for one run. The host
// creates one per run and passes it to every extractor call.
type Session struct {
	st       *store.Store
	cfg      SessionConfig
	run      *model.Run
	channels map[string]uint
}

func NewSession(st *store.Store, cfg SessionConfig) *Session {
	if cfg.DesignTable == "" {
		cfg.DesignTable = "design"
	}
	if cfg.DesignKey == "" {
		cfg.DesignKey = "design_index"
	}
	return &Session{st: st, cfg: cfg}
}

// Run returns the registered run, or nil before Setup.
func (s *Session) Run() *model.Run {
	return s.run
}

// Setup records the run's design point and registers the run.
func (s *Session) Setup(ctx context.Context, p UserParams) error {
	idx, err := value(p, "design_index")
	if err != nil {
		return err
	}
	repeat, err := RepeatFromFolder(s.cfg.Folder)
	if err != nil {
		return err
	}

	if !s.st.DB().Migrator().HasTable(s.cfg.DesignTable) {
		if err := s.st.CreateDesignTable(ctx, s.cfg.DesignTable, s.cfg.DesignKey, s.cfg.Vars); err != nil {
			return err
		}
	}
	point := make([]float64, len(s.cfg.Vars))
	for i, v := range s.cfg.Vars {
		if point[i], err = value(p, v); err != nil {
			return err
		}
	}
	if err := s.st.InsertDesignPoint(ctx, s.cfg.DesignTable, s.cfg.DesignKey, int(idx), s.cfg.Vars, point); err != nil {
		return fmt.Errorf("design point %d: %w", int(idx), err)
	}

	if s.channels, err = s.st.EnsureChannels(ctx, []string{ChannelInfected, ChannelRemoved}); err != nil {
		return err
	}
	if s.run, err = s.st.RegisterRun(ctx, int(idx), repeat, filepath.Base(s.cfg.Folder)); err != nil {
		return err
	}
	log.Printf("run %d: design %d repeat %d", s.run.ID, s.run.DesignIndex, repeat)
	return nil
}

// Extract writes today's I and R for every real ward.
func (s *Session) Extract(ctx context.Context, c Clock, w WardCounts) error {
	if s.run == nil {
		return ErrNoRun
	}
	day := c.Day()
	if err := s.st.RecordDay(ctx, day, c.Date().Format("2006-01-02")); err != nil {
		return err
	}
	if err := s.st.RecordResults(ctx, s.run.ID, day, s.channels[ChannelInfected], w.InfectedInWards(), 1); err != nil {
		return err
	}
	return s.st.RecordResults(ctx, s.run.ID, day, s.channels[ChannelRemoved], w.RemovedInWards(), 1)
}

// Finish stores the last simulated day.
func (s *Session) Finish(ctx context.Context, lastDay int) error {
	if s.run == nil {
		return ErrNoRun
	}
	return s.st.FinishRun(ctx, s.run.ID, lastDay)
}

// RepeatFromFolder reads the repeat index from the last three characters of
// a run folder name such as "0i3v0i5x002".
func RepeatFromFolder(folder string) (int, error) {
	base := filepath.Base(folder)
	if len(base) < 3 {
		return 0, fmt.Errorf("%q: %w", folder, ErrInvalidFolder)
	}
	n, err := strconv.Atoi(base[len(base)-3:])
	if err != nil {
		return 0, fmt.Errorf("%q: %w", folder, ErrInvalidFolder)
	}
	return n, nil
}
