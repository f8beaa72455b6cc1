package repository

import (
	"gorm.io/gorm"
)

// EventMember is one participant registered for an event. Email is unique per event.
type EventMember struct {
	Id     int    `gorm:"primaryKey" json:"-"`
	Event  string `gorm:"not null" json:"event"`
	Email  string `gorm:"not null" json:"email"`
	Pid    string `gorm:"not null" json:"pid"`
	Name   string `gorm:"not null" json:"name"`
	Phone  string `gorm:"not null" json:"phone"`
	IDFile string `gorm:"column:id_file;not null" json:"id_file"`
}

type RosterRepository struct {
	DB *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{DB: db}
}

func (r *RosterRepository) WithTx(tx *gorm.DB) *RosterRepository {
	return &RosterRepository{DB: tx}
}

func (r *RosterRepository) IsRegistered(event string, email string) (bool, error) {
	var count int64
	result := r.DB.Model(&EventMember{}).Where("event = ? AND email = ?", event, email).Count(&count)
	return count > 0, result.Error
}

// AddMembers inserts the whole team. An email already on the roster surfaces as gorm.ErrDuplicatedKey.
func (r *RosterRepository) AddMembers(event string, pid string, members Members) error {
	if len(members) == 0 {
		return nil
	}
	rows := make([]*EventMember, 0, len(members))
	for _, member := range members {
		rows = append(rows, &EventMember{
			Event:  event,
			Email:  member.Email,
			Pid:    pid,
			Name:   member.Name,
			Phone:  member.Phone,
			IDFile: member.IDFile,
		})
	}
	return r.DB.Create(&rows).Error
}

func (r *RosterRepository) GetMembersForEvent(event string) ([]*EventMember, error) {
	members := make([]*EventMember, 0)
	result := r.DB.Where("event = ?", event).Order("pid ASC, id ASC").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}

func (r *RosterRepository) GetMembersForProject(event string, pid string) ([]*EventMember, error) {
	members := make([]*EventMember, 0)
	result := r.DB.Where("event = ? AND pid = ?", event, pid).Order("id ASC").Find(&members)
	if result.Error != nil {
		return nil, result.Error
	}
	return members, nil
}
