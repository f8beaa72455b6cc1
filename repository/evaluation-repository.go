package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Evaluation struct {
	Id        int       `gorm:"primaryKey" json:"-"`
	Event     string    `gorm:"not null" json:"event"`
	Pid       string    `gorm:"not null" json:"pid"`
	Jid       string    `gorm:"not null" json:"jid"`
	Scores    JSONMap   `gorm:"type:jsonb;not null" json:"scores"`
	Total     float64   `gorm:"not null" json:"total"`
	Remarks   string    `gorm:"not null" json:"remarks"`
	CreatedAt time.Time `json:"created_at"`
}

type EvaluationRepository struct {
	DB *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{DB: db}
}

// Insert stores the evaluation unless the judge already evaluated the project.
// The returned flag is false when an evaluation existed.
func (r *EvaluationRepository) Insert(evaluation *Evaluation) (bool, error) {
	if evaluation.Scores == nil {
		evaluation.Scores = JSONMap{}
	}
	result := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(evaluation)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *EvaluationRepository) GetEvaluatedPids(jid string) ([]string, error) {
	pids := make([]string, 0)
	result := r.DB.Model(&Evaluation{}).Where("jid = ?", jid).Order("pid ASC").Pluck("pid", &pids)
	if result.Error != nil {
		return nil, result.Error
	}
	return pids, nil
}

func (r *EvaluationRepository) GetEvaluationsForProject(event string, pid string) ([]*Evaluation, error) {
	evaluations := make([]*Evaluation, 0)
	result := r.DB.Where("event = ? AND pid = ?", event, pid).Order("jid ASC").Find(&evaluations)
	if result.Error != nil {
		return nil, result.Error
	}
	return evaluations, nil
}

func (r *EvaluationRepository) Count(event string, pid string, jid string) (int64, error) {
	var count int64
	result := r.DB.Model(&Evaluation{}).Where("event = ? AND pid = ? AND jid = ?", event, pid, jid).Count(&count)
	return count, result.Error
}
