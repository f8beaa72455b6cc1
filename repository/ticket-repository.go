package repository

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const FinalStep = 5

type Ticket struct {
	Ticket        string    `gorm:"primaryKey" json:"ticket"`
	Event         string    `gorm:"not null" json:"event"`
	Step1         JSONMap   `gorm:"column:step_1;type:jsonb;not null" json:"step_1"`
	Step2         Members   `gorm:"column:step_2;type:jsonb;not null" json:"step_2"`
	Step3         JSONMap   `gorm:"column:step_3;type:jsonb;not null" json:"step_3"`
	Step4         JSONMap   `gorm:"column:step_4;type:jsonb;not null" json:"step_4"`
	StepNo        int       `gorm:"not null" json:"step_no"`
	PaymentId     string    `gorm:"not null;default:''" json:"payment_id"`
	PaymentWaived bool      `gorm:"not null;default:false" json:"payment_waived"`
	Pid           *string   `json:"pid"`
	IsDeleted     bool      `gorm:"not null;default:false" json:"is_deleted"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsTerminal reports whether the ticket finished registration and may no longer change.
func (t *Ticket) IsTerminal() bool {
	return t.StepNo == FinalStep && t.PaymentId != ""
}

type TicketRepository struct {
	DB *gorm.DB
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{DB: db}
}

func (r *TicketRepository) WithTx(tx *gorm.DB) *TicketRepository {
	return &TicketRepository{DB: tx}
}

func (r *TicketRepository) GetTicket(ticket string) (*Ticket, error) {
	t := &Ticket{}
	result := r.DB.First(t, "ticket = ? AND NOT is_deleted", ticket)
	if result.Error != nil {
		return nil, result.Error
	}
	return t, nil
}

// GetTicketForUpdate locks the ticket row until the surrounding transaction ends.
func (r *TicketRepository) GetTicketForUpdate(ticket string) (*Ticket, error) {
	t := &Ticket{}
	result := r.DB.Clauses(clause.Locking{Strength: "UPDATE"}).First(t, "ticket = ? AND NOT is_deleted", ticket)
	if result.Error != nil {
		return nil, result.Error
	}
	return t, nil
}

func (r *TicketRepository) Create(ticket *Ticket) error {
	if ticket.Step1 == nil {
		ticket.Step1 = JSONMap{}
	}
	if ticket.Step2 == nil {
		ticket.Step2 = Members{}
	}
	if ticket.Step3 == nil {
		ticket.Step3 = JSONMap{}
	}
	if ticket.Step4 == nil {
		ticket.Step4 = JSONMap{}
	}
	return r.DB.Create(ticket).Error
}

// SaveStep1 overwrites the project details while payment has not been requested.
// Zero rows changed means the ticket already moved past step 3.
func (r *TicketRepository) SaveStep1(ticket string, payload JSONMap) (int64, error) {
	result := r.DB.Model(&Ticket{}).Where("ticket = ? AND step_no < 4 AND NOT is_deleted", ticket).
		Updates(map[string]any{"step_1": payload, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

// SaveMembers overwrites step 2 and never lowers the step number.
func (r *TicketRepository) SaveMembers(ticket string, members Members) error {
	return r.DB.Model(&Ticket{}).Where("ticket = ?", ticket).
		Updates(map[string]any{
			"step_2":     members,
			"step_no":    gorm.Expr("GREATEST(step_no, 2)"),
			"updated_at": time.Now(),
		}).Error
}

// SaveStep3 stores the institution details of a ticket that has members and has not
// requested payment yet.
func (r *TicketRepository) SaveStep3(ticket string, payload JSONMap) (int64, error) {
	result := r.DB.Model(&Ticket{}).
		Where("ticket = ? AND step_no BETWEEN 2 AND 3 AND step_2 @> '[{}]'::jsonb AND NOT is_deleted", ticket).
		Updates(map[string]any{
			"step_3":     payload,
			"step_no":    3,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}

// RequestPayment moves a ticket from step 3 to step 4 in a single conditional write.
// It returns the number of rows changed; zero means the ticket left step 3 concurrently.
// A reused transaction reference surfaces as gorm.ErrDuplicatedKey.
func (r *TicketRepository) RequestPayment(ticket string, payload JSONMap, paymentId string, waived bool) (int64, error) {
	result := r.DB.Model(&Ticket{}).
		Where("ticket = ? AND step_no = 3 AND payment_id = '' AND step_2 @> '[{}]'::jsonb AND NOT is_deleted", ticket).
		Updates(map[string]any{
			"step_4":         payload,
			"payment_id":     paymentId,
			"payment_waived": waived,
			"step_no":        4,
			"updated_at":     time.Now(),
		})
	return result.RowsAffected, result.Error
}

func (r *TicketRepository) Complete(ticket string, pid string) (int64, error) {
	result := r.DB.Model(&Ticket{}).
		Where("ticket = ? AND step_no = 4", ticket).
		Updates(map[string]any{"pid": pid, "step_no": FinalStep, "updated_at": time.Now()})
	return result.RowsAffected, result.Error
}

func (r *TicketRepository) GetTicketsForEventAtStep(event string, stepNo int) ([]*Ticket, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetTicketsForEventAtStep"))
	defer timer.ObserveDuration()
	tickets := make([]*Ticket, 0)
	result := r.DB.Where("event = ? AND step_no = ? AND NOT is_deleted", event, stepNo).
		Order("updated_at ASC").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tickets, nil
}

func (r *TicketRepository) GetIncompleteTickets(event string) ([]*Ticket, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetIncompleteTickets"))
	defer timer.ObserveDuration()
	tickets := make([]*Ticket, 0)
	result := r.DB.Where("event = ? AND step_no < ? AND NOT is_deleted", event, FinalStep).
		Order("created_at ASC").Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tickets, nil
}

func (r *TicketRepository) GetTicketByPid(event string, pid string) (*Ticket, error) {
	t := &Ticket{}
	result := r.DB.First(t, "event = ? AND pid = ?", event, pid)
	if result.Error != nil {
		return nil, result.Error
	}
	return t, nil
}

// GetTicketPage returns tickets updated after the (afterTime, afterTicket) cursor and no
// later than until, ordered by that cursor.
func (r *TicketRepository) GetTicketPage(afterTime time.Time, afterTicket string, until time.Time, limit int) ([]*Ticket, error) {
	timer := prometheus.NewTimer(queryDuration.WithLabelValues("GetTicketPage"))
	defer timer.ObserveDuration()
	tickets := make([]*Ticket, 0, limit)
	result := r.DB.Where("(updated_at, ticket) > (?, ?) AND updated_at <= ?", afterTime, afterTicket, until).
		Order("updated_at ASC, ticket ASC").Limit(limit).Find(&tickets)
	if result.Error != nil {
		return nil, result.Error
	}
	return tickets, nil
}
