package repository

import (
	"fmt"
	"time"

	"github.com/camden-git/emotionsysbackend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalysisRepository handles database operations for AnalysisSnapshot entities
type AnalysisRepository struct {
	DB *gorm.DB
}

// NewAnalysisRepository creates a new instance of AnalysisRepository
func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{DB: db}
}

// Save persists one analysis run, assigning a UUID and creation time if unset
func (r *AnalysisRepository) Save(snapshot *models.AnalysisSnapshot) error {
	if snapshot.UUID == "" {
		snapshot.UUID = uuid.NewString()
	}
	if snapshot.CreatedAt == 0 {
		snapshot.CreatedAt = time.Now().Unix()
	}
	if err := r.DB.Create(snapshot).Error; err != nil {
		return fmt.Errorf("failed to save analysis snapshot %s: %w", snapshot.UUID, err)
	}
	return nil
}

// ListRecent retrieves the most recent snapshots, newest first
func (r *AnalysisRepository) ListRecent(limit int) ([]models.AnalysisSnapshot, error) {
	if limit <= 0 {
		limit = 50
	}
	var snapshots []models.AnalysisSnapshot
	err := r.DB.Order("created_at DESC").Limit(limit).Find(&snapshots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis snapshots: %w", err)
	}
	return snapshots, nil
}
