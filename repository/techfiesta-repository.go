package repository

import (
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// TechfiestaTeam is a team pre-registered through the partner Techfiesta portal.
// IsUsed lists the events that already consumed the team.
type TechfiestaTeam struct {
	TeamId  string         `gorm:"primaryKey" json:"team_id"`
	Members Members        `gorm:"type:jsonb;not null" json:"members"`
	IsUsed  pq.StringArray `gorm:"type:text[];not null" json:"is_used"`
}

type TechfiestaRepository struct {
	DB *gorm.DB
}

func NewTechfiestaRepository(db *gorm.DB) *TechfiestaRepository {
	return &TechfiestaRepository{DB: db}
}

func (r *TechfiestaRepository) WithTx(tx *gorm.DB) *TechfiestaRepository {
	return &TechfiestaRepository{DB: tx}
}

func (r *TechfiestaRepository) GetTeam(teamId string) (*TechfiestaTeam, error) {
	team := &TechfiestaTeam{}
	result := r.DB.First(team, "team_id = ?", teamId)
	if result.Error != nil {
		return nil, result.Error
	}
	return team, nil
}

func (r *TechfiestaRepository) Save(team *TechfiestaTeam) error {
	if team.IsUsed == nil {
		team.IsUsed = pq.StringArray{}
	}
	return r.DB.Save(team).Error
}

func (r *TechfiestaRepository) MarkUsed(teamId string, event string) error {
	return r.DB.Exec(`
		UPDATE techfiesta_teams SET is_used = array_append(is_used, ?)
		WHERE team_id = ? AND NOT (? = ANY(is_used))`, event, teamId, event).Error
}
