package database

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// AnalysisSnapshotRow is the raw-SQL projection of a persisted analysis run,
// used by the read-side listing queries.
type AnalysisSnapshotRow struct {
	UUID              string  `json:"uuid"`
	StressLevel       float64 `json:"stress_level"`
	ProductivityScore float64 `json:"productivity_score"`
	SleepQuality      float64 `json:"sleep_quality"`
	TrendsJSON        string  `json:"trends_json"`
	Error             *string `json:"error,omitempty"`
	CreatedAt         int64   `json:"created_at"`
}

// ListAnalysisSnapshots returns persisted snapshots, newest first, optionally
// bounded to those created at or after sinceUnix (0 = unbounded) and capped at
// limit rows (<=0 defaults to 50)
func ListAnalysisSnapshots(db *sql.DB, sinceUnix int64, limit int) ([]AnalysisSnapshotRow, error) {
	if limit <= 0 {
		limit = 50
	}

	builder := psql.
		Select("uuid", "stress_level", "productivity_score", "sleep_quality", "trends_json", "error", "created_at").
		From("analysis_snapshots").
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	if sinceUnix > 0 {
		builder = builder.Where(sq.GtOrEq{"created_at": sinceUnix})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build snapshot query: %w", err)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query analysis snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []AnalysisSnapshotRow{}
	for rows.Next() {
		var row AnalysisSnapshotRow
		if err := rows.Scan(&row.UUID, &row.StressLevel, &row.ProductivityScore, &row.SleepQuality, &row.TrendsJSON, &row.Error, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis snapshot: %w", err)
		}
		snapshots = append(snapshots, row)
	}
	return snapshots, rows.Err()
}
