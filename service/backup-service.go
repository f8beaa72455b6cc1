package service

import (
	"context"
	"time"

	"inc/metrics"
	"inc/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	backupBatchSize = 100
	ticketsTable    = "tickets"
)

type BackupResult struct {
	Since  time.Time `json:"since"`
	Until  time.Time `json:"until"`
	Copied int       `json:"copied"`
}

// BackupService copies tickets changed since the last run into the backup database.
type BackupService struct {
	ticketRepository *repository.TicketRepository
	backupRepository *repository.BackupRepository
}

func NewBackupService(db *gorm.DB, backupDB *gorm.DB) *BackupService {
	return &BackupService{
		ticketRepository: repository.NewTicketRepository(db),
		backupRepository: repository.NewBackupRepository(backupDB),
	}
}

func (s *BackupService) Run(ctx context.Context) (*BackupResult, error) {
	if err := s.backupRepository.Migrate(); err != nil {
		return nil, dependency(err)
	}
	since, err := s.backupRepository.LastBackup(ticketsTable)
	if err != nil {
		return nil, dependency(err)
	}
	result := &BackupResult{Since: since, Until: time.Now()}
	cursorTime, cursorTicket := since, ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		batch, err := s.ticketRepository.GetTicketPage(cursorTime, cursorTicket, result.Until, backupBatchSize)
		if err != nil {
			return nil, dependency(err)
		}
		if len(batch) == 0 {
			break
		}
		if err := s.backupRepository.UpsertTickets(batch); err != nil {
			return nil, dependency(err)
		}
		result.Copied += len(batch)
		metrics.BackupRowsTotal.Add(float64(len(batch)))
		last := batch[len(batch)-1]
		cursorTime, cursorTicket = last.UpdatedAt, last.Ticket
		if len(batch) < backupBatchSize {
			break
		}
	}
	if err := s.backupRepository.SetLastBackup(ticketsTable, result.Until); err != nil {
		return nil, dependency(err)
	}
	log.WithFields(log.Fields{"copied": result.Copied, "since": since}).Info("ticket backup finished")
	return result, nil
}
