package repository

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Project struct {
	Pid         string    `gorm:"primaryKey" json:"pid"`
	Event       string    `gorm:"not null" json:"event"`
	Ticket      string    `json:"ticket"`
	Title       string    `gorm:"not null" json:"title"`
	Abstract    string    `gorm:"not null" json:"abstract"`
	Domain      string    `gorm:"not null" json:"domain"`
	Mode        string    `gorm:"not null" json:"mode"`
	Lab         string    `gorm:"not null" json:"lab"`
	PaymentId   string    `gorm:"not null" json:"payment_id"`
	Institution JSONMap   `gorm:"type:jsonb;not null" json:"institution"`
	CreatedAt   time.Time `json:"created_at"`
}

type PidCounter struct {
	Event string `gorm:"primaryKey"`
	Value int    `gorm:"not null"`
}

type ProjectRepository struct {
	DB *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{DB: tx}
}

// NextPid draws the next project id for the event, e.g. CO-0007.
func (r *ProjectRepository) NextPid(event string, code string) (string, error) {
	var value int
	result := r.DB.Raw(`
		INSERT INTO pid_counters (event, value) VALUES (?, 1)
		ON CONFLICT (event) DO UPDATE SET value = pid_counters.value + 1
		RETURNING value`, event).Scan(&value)
	if result.Error != nil {
		return "", result.Error
	}
	return fmt.Sprintf("%s-%04d", code, value), nil
}

func (r *ProjectRepository) Create(project *Project) error {
	if project.Institution == nil {
		project.Institution = JSONMap{}
	}
	return r.DB.Create(project).Error
}

func (r *ProjectRepository) GetProject(event string, pid string) (*Project, error) {
	project := &Project{}
	result := r.DB.First(project, "event = ? AND pid = ?", event, pid)
	if result.Error != nil {
		return nil, result.Error
	}
	return project, nil
}

func (r *ProjectRepository) GetProjectsForEvent(event string) ([]*Project, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetProjectsForEvent"))
	defer timer.ObserveDuration()
	projects := make([]*Project, 0)
	result := r.DB.Where("event = ?", event).Order("pid ASC").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

func (r *ProjectRepository) GetProjectsByPids(pids []string) ([]*Project, error) {
	projects := make([]*Project, 0, len(pids))
	if len(pids) == 0 {
		return projects, nil
	}
	result := r.DB.Where("pid IN ?", pids).Order("pid ASC").Find(&projects)
	if result.Error != nil {
		return nil, result.Error
	}
	return projects, nil
}

// UpdateLab overwrites the lab of the given projects, last writer wins.
func (r *ProjectRepository) UpdateLab(event string, lab string, pids []string) (int64, error) {
	if len(pids) == 0 {
		return 0, nil
	}
	result := r.DB.Model(&Project{}).Where("event = ? AND pid IN ?", event, pids).Update("lab", lab)
	return result.RowsAffected, result.Error
}

// UpdateFields applies a partial update; keys must be column names.
func (r *ProjectRepository) UpdateFields(event string, pid string, fields map[string]any) (int64, error) {
	if len(fields) == 0 {
		return 0, nil
	}
	result := r.DB.Model(&Project{}).Where("event = ? AND pid = ?", event, pid).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r *ProjectRepository) CountByEvent() (map[string]int64, error) {
	type row struct {
		Event string
		Count int64
	}
	rows := make([]row, 0)
	result := r.DB.Model(&Project{}).Select("event, COUNT(*) AS count").Group("event").Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Event] = row.Count
	}
	return counts, nil
}
