package repository

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/camden-git/emotionsysbackend/database"
	"github.com/camden-git/emotionsysbackend/models"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitGormDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitGormDB() error = %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		t.Fatalf("AutoMigrateModels() error = %v", err)
	}
	return db
}

func TestPersonUpsertCreatesAndUpdates(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t))

	first := &models.Person{Name: "alice", ImagePath: "known_faces/alice.jpg"}
	if err := repo.Upsert(first); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if first.ID == 0 || first.CreatedAt == 0 {
		t.Fatalf("created person missing ID or CreatedAt: %+v", first)
	}

	thumb := "gallery_thumbnails/alice.jpg"
	second := &models.Person{Name: "alice", ImagePath: "known_faces/alice.jpg", ThumbnailPath: &thumb}
	if err := repo.Upsert(second); err != nil {
		t.Fatalf("Upsert() re-enroll error = %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-enrolling must reuse the row, got ID %d want %d", second.ID, first.ID)
	}

	stored, err := repo.GetByName("alice")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if stored.ThumbnailPath == nil || *stored.ThumbnailPath != thumb {
		t.Fatalf("re-enrollment did not update metadata: %+v", stored)
	}
	if stored.CreatedAt != first.CreatedAt {
		t.Fatalf("CreatedAt must survive re-enrollment, got %d want %d", stored.CreatedAt, first.CreatedAt)
	}
}

func TestPersonGetByNameNotFound(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t))
	_, err := repo.GetByName("nobody")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("GetByName(nobody) error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestPersonListAllOrdered(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t))
	for _, name := range []string{"carol", "alice", "bob"} {
		if err := repo.Upsert(&models.Person{Name: name}); err != nil {
			t.Fatalf("Upsert(%s) error = %v", name, err)
		}
	}

	people, err := repo.ListAll()
	if err != nil {
		t.Fatalf("ListAll() error = %v", err)
	}
	if len(people) != 3 || people[0].Name != "alice" || people[2].Name != "carol" {
		t.Fatalf("ListAll() = %+v, want alice, bob, carol", people)
	}
}

func TestPersonDeleteByName(t *testing.T) {
	repo := NewPersonRepository(setupTestDB(t))
	if err := repo.Upsert(&models.Person{Name: "alice"}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	if err := repo.DeleteByName("alice"); err != nil {
		t.Fatalf("DeleteByName() error = %v", err)
	}
	if err := repo.DeleteByName("alice"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("deleting a missing person error = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestAnalysisRepositorySaveAndListRecent(t *testing.T) {
	repo := NewAnalysisRepository(setupTestDB(t))

	for i := 0; i < 3; i++ {
		snapshot := &models.AnalysisSnapshot{
			StressLevel:       float64(i),
			ProductivityScore: 50.0,
			TrendsJSON:        `{"all_days":{}}`,
			CreatedAt:         int64(1000 + i),
		}
		if err := repo.Save(snapshot); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if snapshot.UUID == "" {
			t.Fatalf("Save() must assign a UUID")
		}
	}

	snapshots, err := repo.ListRecent(2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(snapshots) != 2 {
		t.Fatalf("ListRecent(2) returned %d snapshots", len(snapshots))
	}
	if snapshots[0].CreatedAt != 1002 {
		t.Fatalf("expected newest snapshot first, got CreatedAt %d", snapshots[0].CreatedAt)
	}
}
