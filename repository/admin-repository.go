package repository

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Admin struct {
	Username     string         `gorm:"primaryKey"`
	PasswordHash string         `gorm:"not null"`
	Roles        pq.StringArray `gorm:"type:text[];not null"`
}

type AdminRepository struct {
	DB *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{DB: db}
}

func (r *AdminRepository) GetAdmin(username string) (*Admin, error) {
	admin := &Admin{}
	result := r.DB.First(admin, "username = ?", username)
	if result.Error != nil {
		return nil, result.Error
	}
	return admin, nil
}

func (r *AdminRepository) Save(admin *Admin) error {
	return r.DB.Save(admin).Error
}
