package models

// AnalysisSnapshot represents one persisted run of the analytics pipeline
// using GORM. It corresponds to the 'analysis_snapshots' table.
type AnalysisSnapshot struct {
	ID                uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	UUID              string  `gorm:"not null;uniqueIndex" json:"uuid"`
	StressLevel       float64 `gorm:"not null" json:"stress_level"`
	ProductivityScore float64 `gorm:"not null" json:"productivity_score"`
	SleepQuality      float64 `gorm:"not null" json:"sleep_quality"`
	TrendsJSON        string  `gorm:"not null;column:trends_json" json:"trends_json"` // emotion counts, serialized
	Error             *string `json:"error,omitempty"`
	CreatedAt         int64   `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (AnalysisSnapshot) TableName() string {
	return "analysis_snapshots"
}
