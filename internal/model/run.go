package model

// OutputChannel names one recorded quantity, e.g. "I" or "R".
type OutputChannel struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
}

// SimDay maps a simulation day to its calendar date.
type SimDay struct {
	Day  int    `gorm:"primaryKey;autoIncrement:false" json:"day"`
	Date string `gorm:"type:varchar(20);not null" json:"date"`
}

// Run is one simulator run of one design point.
type Run struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	DesignIndex int    `gorm:"not null;index" json:"design_index"`
	Repeat      int    `json:"repeat"`
	EndDay      int    `json:"end_day"`
	Folder      string `gorm:"type:varchar(500);not null" json:"folder"`
}

// WardResult is one channel value for one ward on one day of a run.
type WardResult struct {
	RunID     uint  `gorm:"primaryKey;autoIncrement:false" json:"run_id"`
	Day       int   `gorm:"primaryKey;autoIncrement:false" json:"day"`
	Ward      int   `gorm:"primaryKey;autoIncrement:false" json:"ward"`
	ChannelID uint  `gorm:"primaryKey;autoIncrement:false" json:"channel_id"`
	Value     int64 `json:"value"`
}
