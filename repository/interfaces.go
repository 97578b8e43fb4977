package repository

import (
	"github.com/camden-git/emotionsysbackend/models"
)

// PersonRepositoryInterface defines the methods for enrolled-identity data operations
type PersonRepositoryInterface interface {
	Upsert(person *models.Person) error
	GetByName(name string) (*models.Person, error)
	ListAll() ([]models.Person, error)
	DeleteByName(name string) error
}

// AnalysisRepositoryInterface defines the methods for analysis snapshot persistence
type AnalysisRepositoryInterface interface {
	Save(snapshot *models.AnalysisSnapshot) error
	ListRecent(limit int) ([]models.AnalysisSnapshot, error)
}
