package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BackupLog struct {
	Table      string    `gorm:"primaryKey;column:table_name"`
	LastBackup time.Time `gorm:"not null"`
}

// BackupRepository writes to the backup database, not the primary one.
type BackupRepository struct {
	DB *gorm.DB
}

func NewBackupRepository(db *gorm.DB) *BackupRepository {
	return &BackupRepository{DB: db}
}

func (r *BackupRepository) Migrate() error {
	return r.DB.AutoMigrate(&Ticket{}, &BackupLog{})
}

// LastBackup returns the zero time when the table was never backed up.
func (r *BackupRepository) LastBackup(table string) (time.Time, error) {
	log := &BackupLog{}
	result := r.DB.Limit(1).Find(log, "table_name = ?", table)
	if result.Error != nil {
		return time.Time{}, result.Error
	}
	return log.LastBackup, nil
}

func (r *BackupRepository) SetLastBackup(table string, at time.Time) error {
	return r.DB.Save(&BackupLog{Table: table, LastBackup: at}).Error
}

func (r *BackupRepository) UpsertTickets(tickets []*Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&tickets).Error
	})
}
