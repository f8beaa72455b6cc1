package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// File records the last identity document uploaded for an email. Url is filled with a
// signed link when the file is served.
type File struct {
	Email     string    `gorm:"primaryKey" json:"email"`
	FileName  string    `gorm:"not null" json:"file_name"`
	Size      int64     `gorm:"not null" json:"size"`
	ObjectKey string    `gorm:"not null" json:"-"`
	Url       string    `gorm:"-" json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type FileRepository struct {
	DB *gorm.DB
}

func NewFileRepository(db *gorm.DB) *FileRepository {
	return &FileRepository{DB: db}
}

func (r *FileRepository) WithTx(tx *gorm.DB) *FileRepository {
	return &FileRepository{DB: tx}
}

func (r *FileRepository) Save(file *File) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"file_name", "size", "object_key", "created_at"}),
	}).Create(file).Error
}

func (r *FileRepository) GetFile(email string) (*File, error) {
	file := &File{}
	result := r.DB.First(file, "email = ?", email)
	if result.Error != nil {
		return nil, result.Error
	}
	return file, nil
}
