package repository

import (
	"time"

	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

type Allocation struct {
	Id        int            `gorm:"primaryKey" json:"-"`
	Event     string         `gorm:"not null" json:"event"`
	Pid       string         `gorm:"not null" json:"pid"`
	Jid       string         `gorm:"not null" json:"jid"`
	Slots     pq.StringArray `gorm:"type:text[];not null" json:"slots"`
	CreatedAt time.Time      `json:"created_at"`
}

type LabProject struct {
	Pid   string         `json:"pid"`
	Title string         `json:"title"`
	Lab   string         `json:"lab"`
	Jids  pq.StringArray `gorm:"type:text[]" json:"jids"`
}

type EvalStat struct {
	Pid       string `json:"pid"`
	Title     string `json:"title"`
	Lab       string `json:"lab"`
	Allocated int    `json:"allocated"`
	Evaluated int    `json:"evaluated"`
}

type AllocationRepository struct {
	DB *gorm.DB
}

func NewAllocationRepository(db *gorm.DB) *AllocationRepository {
	return &AllocationRepository{DB: db}
}

func (r *AllocationRepository) WithTx(tx *gorm.DB) *AllocationRepository {
	return &AllocationRepository{DB: tx}
}

// Upsert inserts the pair or extends its slot set. Slots stay sorted and distinct.
func (r *AllocationRepository) Upsert(event string, pid string, jid string, slots []string) error {
	return r.DB.Exec(`
		INSERT INTO allocations (event, pid, jid, slots) VALUES (?, ?, ?, ?::text[])
		ON CONFLICT (event, pid, jid) DO UPDATE SET
			slots = ARRAY(SELECT DISTINCT s FROM unnest(allocations.slots || EXCLUDED.slots) AS s ORDER BY s)`,
		event, pid, jid, pq.StringArray(slots)).Error
}

func (r *AllocationRepository) Delete(event string, pids []string, jids []string) (int64, error) {
	if len(pids) == 0 || len(jids) == 0 {
		return 0, nil
	}
	result := r.DB.Where("event = ? AND pid IN ? AND jid IN ?", event, pids, jids).Delete(&Allocation{})
	return result.RowsAffected, result.Error
}

// RemoveSlots strips the slot codes from the matching pairs and drops rows left without slots.
func (r *AllocationRepository) RemoveSlots(event string, pids []string, jids []string, slots []string) error {
	if len(pids) == 0 || len(jids) == 0 || len(slots) == 0 {
		return nil
	}
	err := r.DB.Exec(`
		UPDATE allocations
		SET slots = ARRAY(SELECT s FROM unnest(slots) AS s WHERE s <> ALL(?::text[]) ORDER BY s)
		WHERE event = ? AND pid IN ? AND jid IN ?`,
		pq.StringArray(slots), event, pids, jids).Error
	if err != nil {
		return err
	}
	return r.DB.Where("event = ? AND pid IN ? AND jid IN ? AND cardinality(slots) = 0", event, pids, jids).
		Delete(&Allocation{}).Error
}

func (r *AllocationRepository) GetAllocationsForJudge(jid string) ([]*Allocation, error) {
	allocations := make([]*Allocation, 0)
	result := r.DB.Where("jid = ?", jid).Order("pid ASC").Find(&allocations)
	if result.Error != nil {
		return nil, result.Error
	}
	return allocations, nil
}

func (r *AllocationRepository) GetAllocationsForEvent(event string) ([]*Allocation, error) {
	allocations := make([]*Allocation, 0)
	result := r.DB.Where("event = ?", event).Order("pid ASC, jid ASC").Find(&allocations)
	if result.Error != nil {
		return nil, result.Error
	}
	return allocations, nil
}

// GetLabProjects lists every project of the event with the judges whose id starts with
// judgePrefix and whose slots overlap the given slot set. An empty slot set matches any slot.
func (r *AllocationRepository) GetLabProjects(event string, judgePrefix string, slots []string) ([]*LabProject, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetLabProjects"))
	defer timer.ObserveDuration()
	join := "LEFT JOIN allocations a ON a.event = p.event AND a.pid = p.pid AND a.jid LIKE ?"
	args := []any{judgePrefix + "%"}
	if len(slots) > 0 {
		join += " AND a.slots && ?::text[]"
		args = append(args, pq.StringArray(slots))
	}
	args = append(args, event)
	rows := make([]*LabProject, 0)
	result := r.DB.Raw(`
		SELECT p.pid, p.title, p.lab,
			COALESCE(array_agg(DISTINCT a.jid) FILTER (WHERE a.jid IS NOT NULL), '{}') AS jids
		FROM projects p `+join+`
		WHERE p.event = ?
		GROUP BY p.pid, p.title, p.lab
		ORDER BY p.pid`, args...).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}

// GetEvalStats counts allocated and evaluating judges per project, restricted to judge ids
// matching the namespace pattern.
func (r *AllocationRepository) GetEvalStats(event string, namespace string) ([]*EvalStat, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetEvalStats"))
	defer timer.ObserveDuration()
	rows := make([]*EvalStat, 0)
	result := r.DB.Raw(`
		SELECT p.pid, p.title, p.lab,
			COUNT(DISTINCT a.jid) AS allocated,
			COUNT(DISTINCT e.jid) AS evaluated
		FROM projects p
		LEFT JOIN allocations a ON a.event = p.event AND a.pid = p.pid AND a.jid LIKE ?
		LEFT JOIN evaluations e ON e.event = p.event AND e.pid = p.pid AND e.jid LIKE ?
		WHERE p.event = ?
		GROUP BY p.pid, p.title, p.lab
		ORDER BY p.pid`, namespace, namespace, event).Scan(&rows)
	if result.Error != nil {
		return nil, result.Error
	}
	return rows, nil
}
