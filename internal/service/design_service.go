package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"metawards-uq/internal/config"
	"metawards-uq/internal/csvio"
	"metawards-uq/internal/design"
	"metawards-uq/internal/jobfile"
	"metawards-uq/internal/model"
)

var (
	ErrDesignNotFound = errors.New("service: design not found")
	ErrInvalidJob     = errors.New("service: invalid job")
)

type DesignRequest struct {
	Job jobfile.Job `json:"job"`
	// Samples and Seed override the Latin hypercube settings of the job.
	Samples int    `json:"samples"`
	Seed    *int64 `json:"seed"`
}

type DesignResult struct {
	ID              uint            `json:"id"`
	UID             string          `json:"uid"`
	Method          string          `json:"method"`
	Header          []string        `json:"header"`
	Rows            int             `json:"rows"`
	Seed            uint64          `json:"seed"`
	Stats           []ColumnStats   `json:"stats"`
	Stratification  *Stratification `json:"stratification,omitempty"`
	ResultPath      string          `json:"result_path"`
	SummaryPath     string          `json:"summary_path"`
	SummaryMarkdown string          `json:"summary_markdown"`
	Errors          []string        `json:"errors"`
}

type DesignService struct {
	conn   *gorm.DB
	cfg    config.DesignConfig
	outDir string
}

func NewDesignService(conn *gorm.DB, cfg config.DesignConfig, outDir string) *DesignService {
	return &DesignService{conn: conn, cfg: cfg, outDir: outDir}
}

func (s *DesignService) options(req DesignRequest) []design.Option {
	var opts []design.Option
	if s.cfg.LatinSamples > 0 {
		opts = append(opts, design.WithSamples(s.cfg.LatinSamples))
	}
	if s.cfg.Seed != nil {
		opts = append(opts, design.WithSeed(uint64(*s.cfg.Seed)))
	}
	if req.Samples > 0 {
		opts = append(opts, design.WithSamples(req.Samples))
	}
	if req.Seed != nil {
		opts = append(opts, design.WithSeed(uint64(*req.Seed)))
	}
	return opts
}

// Create validates and generates the design, stores it and writes the CSV
// and a markdown summary under the output directory.
func (s *DesignService) Create(ctx context.Context, req DesignRequest) (*DesignResult, error) {
	job := req.Job
	m, err := design.Process(&job, s.options(req)...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJob, err)
	}

	var csvBody bytes.Buffer
	if err := csvio.WriteMatrix(&csvBody, m.Header(), m.Data); err != nil {
		return nil, fmt.Errorf("render design: %w", err)
	}
	jobJSON, err := json.Marshal(job)
	if err != nil {
		return nil, fmt.Errorf("encode job: %w", err)
	}

	rec := &model.Design{
		UID:     uuid.NewString(),
		Disease: job.Disease,
		Method:  m.Method,
		Stages:  job.Stages,
		Columns: len(m.Columns),
		Rows:    m.Rows(),
		Seed:    int64(m.Seed),
		JobJSON: string(jobJSON),
		Header:  m.HeaderLine(),
		Matrix:  csvBody.String(),
	}
	if err := s.conn.WithContext(ctx).Create(rec).Error; err != nil {
		return nil, fmt.Errorf("save design: %w", err)
	}

	result := &DesignResult{
		ID:     rec.ID,
		UID:    rec.UID,
		Method: rec.Method,
		Header: m.Header(),
		Rows:   rec.Rows,
		Seed:   m.Seed,
		Stats:  ComputeColumnStats(m),
	}
	if m.Method == jobfile.MethodLatinHypercube {
		st := CheckStratification(m)
		result.Stratification = &st
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("output dir: %v", err))
	}
	result.ResultPath = filepath.Join(s.outDir, fmt.Sprintf("design_%s.csv", rec.UID))
	result.SummaryPath = filepath.Join(s.outDir, fmt.Sprintf("design_%s_summary.md", rec.UID))
	result.SummaryMarkdown = RenderDesignSummary(rec, result)

	if err := os.WriteFile(result.ResultPath, csvBody.Bytes(), 0o644); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("write design: %v", err))
	}
	if err := os.WriteFile(result.SummaryPath, []byte(result.SummaryMarkdown), 0o644); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("write summary: %v", err))
	}

	rec.ResultPath = result.ResultPath
	rec.SummaryPath = result.SummaryPath
	if err := s.conn.WithContext(ctx).Save(rec).Error; err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("update design: %v", err))
	}

	log.Printf("design %s: %s %dx%d", rec.UID, rec.Method, rec.Rows, rec.Columns)
	return result, nil
}

// List returns the most recent designs first; limit <= 0 means all.
func (s *DesignService) List(ctx context.Context, limit int) ([]model.Design, error) {
	var out []model.Design
	q := s.conn.WithContext(ctx).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Get looks a design up by uid.
func (s *DesignService) Get(ctx context.Context, uid string) (*model.Design, error) {
	var rec model.Design
	err := s.conn.WithContext(ctx).Where("uid = ?", uid).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", uid, ErrDesignNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete soft deletes a design.
func (s *DesignService) Delete(ctx context.Context, uid string) error {
	res := s.conn.WithContext(ctx).Where("uid = ?", uid).Delete(&model.Design{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", uid, ErrDesignNotFound)
	}
	return nil
}
