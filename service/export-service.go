package service

import (
	"context"
	"errors"

	"inc/app_error"
	"inc/config"

	"gorm.io/gorm"
)

type SheetWriter interface {
	ReplaceSheet(ctx context.Context, title string, rows [][]interface{}) error
}

var registrationHeader = []interface{}{"PID", "Title", "Domain", "Mode", "Lab", "Name", "Email", "Phone", "Payment ID"}

type ExportService struct {
	events              *config.Events
	registrationService *RegistrationService
	writer              SheetWriter
}

func NewExportService(db *gorm.DB, events *config.Events, writer SheetWriter) *ExportService {
	return &ExportService{
		events:              events,
		registrationService: NewRegistrationService(db, events, nil, nil),
		writer:              writer,
	}
}

// BuildRegistrationRows renders one row per team member below a header row.
func BuildRegistrationRows(registrations []*Registration) [][]interface{} {
	rows := [][]interface{}{registrationHeader}
	for _, registration := range registrations {
		for _, member := range registration.Members {
			rows = append(rows, []interface{}{
				registration.Pid,
				NormalizeText(registration.Title),
				registration.Domain,
				registration.Mode,
				registration.Lab,
				member.Name,
				member.Email,
				member.Phone,
				registration.PaymentId,
			})
		}
	}
	return rows
}

// ExportRegistrations overwrites the event's sheet and returns the number of member rows.
func (s *ExportService) ExportRegistrations(ctx context.Context, eventName string) (int, error) {
	if s.writer == nil {
		return 0, app_error.DependencyFailure(errors.New("sheets export is not configured"))
	}
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return 0, err
	}
	registrations, err := s.registrationService.Registrations(event.Name)
	if err != nil {
		return 0, err
	}
	rows := BuildRegistrationRows(registrations)
	if err := s.writer.ReplaceSheet(ctx, event.Name, rows); err != nil {
		return 0, dependency(err)
	}
	return len(rows) - 1, nil
}
