package model

import (
	"time"

	"gorm.io/gorm"
)

// Design is one generated design matrix with the job that produced it.
type Design struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UID     string `gorm:"type:varchar(36);uniqueIndex;not null" json:"uid"`
	Disease string `gorm:"type:varchar(200);index" json:"disease"`
	Method  string `gorm:"type:varchar(50);not null;index" json:"method"`
	Stages  int    `json:"stages"`
	Columns int    `json:"columns"`
	Rows    int    `json:"rows"`
	// Seed holds the sampler seed bit pattern; zero for deterministic methods.
	Seed int64 `json:"seed"`

	JobJSON string `gorm:"type:text" json:"job_json"`
	Header  string `gorm:"type:text" json:"header"`
	// Matrix is the headed CSV body.
	Matrix string `gorm:"type:text" json:"-"`

	ResultPath  string `gorm:"type:varchar(500)" json:"result_path"`
	SummaryPath string `gorm:"type:varchar(500)" json:"summary_path"`
}
