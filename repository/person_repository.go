package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/camden-git/emotionsysbackend/models"
	"gorm.io/gorm"
)

// PersonRepository handles database operations for enrolled Person entities
type PersonRepository struct {
	DB *gorm.DB
}

// NewPersonRepository creates a new instance of PersonRepository
func NewPersonRepository(db *gorm.DB) *PersonRepository {
	return &PersonRepository{DB: db}
}

// Upsert creates a person record or, if the name is already enrolled,
// replaces its metadata. Re-enrolling under the same name wins, matching the
// gallery's last-write-wins rule for reference images.
func (r *PersonRepository) Upsert(person *models.Person) error {
	now := time.Now().Unix()

	var existing models.Person
	err := r.DB.Where("name = ?", person.Name).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up person %s: %w", person.Name, err)
		}
		person.CreatedAt = now
		person.UpdatedAt = now
		if err := r.DB.Create(person).Error; err != nil {
			return fmt.Errorf("failed to create person %s: %w", person.Name, err)
		}
		return nil
	}

	person.ID = existing.ID
	person.CreatedAt = existing.CreatedAt
	person.UpdatedAt = now
	if err := r.DB.Save(person).Error; err != nil {
		return fmt.Errorf("failed to update person %s: %w", person.Name, err)
	}
	return nil
}

// GetByName retrieves a person by their enrolled name
func (r *PersonRepository) GetByName(name string) (*models.Person, error) {
	var person models.Person
	err := r.DB.Where("name = ?", name).First(&person).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get person %s: %w", name, err)
	}
	return &person, nil
}

// ListAll retrieves all enrolled people, ordered by name
func (r *PersonRepository) ListAll() ([]models.Person, error) {
	var people []models.Person
	err := r.DB.Order("name ASC").Find(&people).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	return people, nil
}

// DeleteByName removes a person by their enrolled name
func (r *PersonRepository) DeleteByName(name string) error {
	result := r.DB.Where("name = ?", name).Delete(&models.Person{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete person %s: %w", name, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
