package repository

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
)

type Notification struct {
	Id         int                `gorm:"primaryKey" json:"id"`
	Kind       string             `gorm:"not null" json:"kind"`
	Recipients pq.StringArray     `gorm:"type:text[];not null" json:"recipients"`
	Payload    JSONMap            `gorm:"type:jsonb;not null" json:"payload"`
	Status     NotificationStatus `gorm:"not null;default:PENDING" json:"status"`
	Error      string             `gorm:"not null" json:"error"`
	Attempts   int                `gorm:"not null" json:"attempts"`
	CreatedAt  time.Time          `json:"created_at"`
	SentAt     *time.Time         `json:"sent_at"`
}

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: tx}
}

func (r *NotificationRepository) Create(notification *Notification) error {
	if notification.Payload == nil {
		notification.Payload = JSONMap{}
	}
	if notification.Status == "" {
		notification.Status = NotificationPending
	}
	return r.DB.Create(notification).Error
}

func (r *NotificationRepository) GetNotification(id int) (*Notification, error) {
	notification := &Notification{}
	result := r.DB.First(notification, id)
	if result.Error != nil {
		return nil, result.Error
	}
	return notification, nil
}

// Claim marks a pending notification as attempted. It reports false when another
// worker already took it or it is no longer pending.
func (r *NotificationRepository) Claim(id int) (bool, error) {
	result := r.DB.Model(&Notification{}).
		Where("id = ? AND status = ? AND attempts = 0", id, NotificationPending).
		Update("attempts", gorm.Expr("attempts + 1"))
	return result.RowsAffected > 0, result.Error
}

func (r *NotificationRepository) Finish(id int, status NotificationStatus, errMessage string, payload JSONMap) error {
	updates := map[string]any{
		"status":  status,
		"error":   errMessage,
		"payload": payload,
	}
	if status == NotificationSent {
		updates["sent_at"] = time.Now()
	}
	return r.DB.Model(&Notification{}).Where("id = ?", id).Updates(updates).Error
}

func (r *NotificationRepository) GetPendingIds(olderThan time.Time, limit int) ([]int, error) {
	ids := make([]int, 0)
	result := r.DB.Model(&Notification{}).
		Where("status = ? AND attempts = 0 AND created_at < ?", NotificationPending, olderThan).
		Order("id ASC").Limit(limit).Pluck("id", &ids)
	if result.Error != nil {
		return nil, result.Error
	}
	return ids, nil
}
