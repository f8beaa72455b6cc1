package repository

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Judge struct {
	Jid          string         `gorm:"primaryKey" json:"jid"`
	Name         string         `gorm:"not null" json:"name"`
	Email        string         `gorm:"not null" json:"email"`
	Phone        string         `gorm:"not null" json:"phone"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Events       pq.StringArray `gorm:"type:text[];not null" json:"events"`
	Roles        pq.StringArray `gorm:"type:text[];not null" json:"roles"`
	Slots        pq.StringArray `gorm:"type:text[];not null" json:"slots"`
	Details      JSONMap        `gorm:"type:jsonb;not null" json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

type JudgeRepository struct {
	DB *gorm.DB
}

func NewJudgeRepository(db *gorm.DB) *JudgeRepository {
	return &JudgeRepository{DB: db}
}

func (r *JudgeRepository) WithTx(tx *gorm.DB) *JudgeRepository {
	return &JudgeRepository{DB: tx}
}

func (r *JudgeRepository) Create(judge *Judge) error {
	if judge.Details == nil {
		judge.Details = JSONMap{}
	}
	if judge.Slots == nil {
		judge.Slots = pq.StringArray{}
	}
	return r.DB.Create(judge).Error
}

func (r *JudgeRepository) GetJudge(jid string) (*Judge, error) {
	judge := &Judge{}
	result := r.DB.First(judge, "jid = ?", jid)
	if result.Error != nil {
		return nil, result.Error
	}
	return judge, nil
}

func (r *JudgeRepository) GetJudgeForUpdate(jid string) (*Judge, error) {
	judge := &Judge{}
	result := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(judge, "jid = ?", jid)
	if result.Error != nil {
		return nil, result.Error
	}
	return judge, nil
}

func (r *JudgeRepository) GetJudgesForEvent(event string) ([]*Judge, error) {
	judges := make([]*Judge, 0)
	result := r.DB.Where("? = ANY(events)", event).Order("created_at ASC").Find(&judges)
	if result.Error != nil {
		return nil, result.Error
	}
	return judges, nil
}

func (r *JudgeRepository) UpdateSlots(jid string, slots []string) error {
	return r.DB.Model(&Judge{}).Where("jid = ?", jid).Update("slots", pq.StringArray(slots)).Error
}

func (r *JudgeRepository) JidExists(jid string) (bool, error) {
	var count int64
	result := r.DB.Model(&Judge{}).Where("jid = ?", jid).Count(&count)
	return count > 0, result.Error
}
