package models

// Person represents an enrolled identity in the face gallery using GORM.
// It corresponds to the 'people' table. The reference image on disk is the
// source of truth for the encoding; this row carries display metadata only.
type Person struct {
	ID            uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string  `gorm:"not null;uniqueIndex" json:"name"`
	ImagePath     string  `gorm:"not null" json:"image_path"`
	ThumbnailPath *string `json:"thumbnail_path,omitempty"`
	CameraMake    *string `json:"camera_make,omitempty"`
	CameraModel   *string `json:"camera_model,omitempty"`
	TakenAt       *int64  `json:"taken_at,omitempty"`
	CreatedAt     int64   `gorm:"not null" json:"created_at"` // Stored as INTEGER in SQLite, Unix timestamp
	UpdatedAt     int64   `gorm:"not null" json:"updated_at"` // Stored as INTEGER in SQLite, Unix timestamp
}

// TableName explicitly sets the table name for GORM.
func (Person) TableName() string {
	return "people"
}
