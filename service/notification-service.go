package service

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	"inc/client"
	"inc/metrics"
	"inc/repository"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	KindRegistrationConfirmed = "registration_confirmed"
	KindJudgeRegistered       = "judge_registered"
)

//go:embed templates/*.html
var templateFiles embed.FS

var mailTemplates = template.Must(template.ParseFS(templateFiles, "templates/*.html"))

var mailSubjects = map[string]string{
	KindRegistrationConfirmed: "Registration confirmed for {{.event_title}} ({{.pid}})",
	KindJudgeRegistered:       "Judging credentials for {{.event_title}}",
}

// payload keys never kept in the outbox once an attempt was made
var redactedKeys = []string{"password"}

type NotificationService struct {
	db                     *gorm.DB
	notificationRepository *repository.NotificationRepository
	queue                  client.NotificationQueue
	mailer                 client.Mailer
	announcer              client.Announcer
}

func NewNotificationService(db *gorm.DB, queue client.NotificationQueue, mailer client.Mailer, announcer client.Announcer) *NotificationService {
	return &NotificationService{
		db:                     db,
		notificationRepository: repository.NewNotificationRepository(db),
		queue:                  queue,
		mailer:                 mailer,
		announcer:              announcer,
	}
}

// Notify records the notification in the outbox and hands its id to the worker.
// Failures are logged and never reach the caller.
func (s *NotificationService) Notify(ctx context.Context, kind string, recipients []string, data repository.JSONMap) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	logger := log.WithFields(log.Fields{"kind": kind, "recipients": len(recipients)})
	if len(recipients) == 0 {
		logger.Warn("notification without recipients dropped")
		return
	}
	notification := &repository.Notification{
		Kind:       kind,
		Recipients: recipients,
		Payload:    data,
	}
	if err := s.notificationRepository.WithTx(s.db.WithContext(ctx)).Create(notification); err != nil {
		logger.WithError(err).Error("could not store notification")
		return
	}
	if err := s.queue.Publish(ctx, notification.Id); err != nil {
		// the worker sweeps unattempted rows on start
		logger.WithError(err).WithField("id", notification.Id).Warn("could not enqueue notification")
	}
}

// Deliver sends one outbox entry. Entries that are not pending or were already
// attempted are skipped; there are no retries.
func (s *NotificationService) Deliver(ctx context.Context, id int) error {
	claimed, err := s.notificationRepository.Claim(id)
	if err != nil {
		return err
	}
	if !claimed {
		log.WithField("id", id).Debug("notification already handled")
		return nil
	}
	notification, err := s.notificationRepository.GetNotification(id)
	if err != nil {
		return err
	}

	sendErr := s.send(ctx, notification)
	status := repository.NotificationSent
	errMessage := ""
	if sendErr != nil {
		status = repository.NotificationFailed
		errMessage = sendErr.Error()
	}
	metrics.NotificationsTotal.WithLabelValues(notification.Kind, string(status)).Inc()

	if notification.Kind == KindRegistrationConfirmed && sendErr == nil {
		s.announce(ctx, notification.Payload)
	}

	payload := notification.Payload.Clone()
	for _, key := range redactedKeys {
		delete(payload, key)
	}
	if err := s.notificationRepository.Finish(id, status, errMessage, payload); err != nil {
		return err
	}
	return sendErr
}

func (s *NotificationService) send(ctx context.Context, notification *repository.Notification) error {
	subject, body, err := RenderNotification(notification.Kind, notification.Payload)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, &client.Mail{
		To:      notification.Recipients,
		Subject: subject,
		HTML:    body,
	})
}

func (s *NotificationService) announce(ctx context.Context, payload repository.JSONMap) {
	if s.announcer == nil {
		return
	}
	message := fmt.Sprintf("New registration for %v: %v %v", payload["event_title"], payload["pid"], payload["title"])
	if err := s.announcer.Announce(ctx, message); err != nil {
		log.WithError(err).Warn("discord announcement failed")
	}
}

// Requeue publishes outbox entries that were stored but never attempted, e.g. after a restart.
func (s *NotificationService) Requeue(ctx context.Context, olderThan time.Duration) (int, error) {
	ids, err := s.notificationRepository.GetPendingIds(time.Now().Add(-olderThan), 500)
	if err != nil {
		return 0, err
	}
	for _, id := range ids {
		if err := s.queue.Publish(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(ids), nil
}

func RenderNotification(kind string, data repository.JSONMap) (string, string, error) {
	subjectTemplate, ok := mailSubjects[kind]
	if !ok {
		return "", "", errors.New("unknown notification kind " + kind)
	}
	subject, err := texttemplate.New("subject").Parse(subjectTemplate)
	if err != nil {
		return "", "", err
	}
	var subjectBuf, bodyBuf bytes.Buffer
	if err := subject.Execute(&subjectBuf, map[string]any(data)); err != nil {
		return "", "", err
	}
	if err := mailTemplates.ExecuteTemplate(&bodyBuf, kind+".html", map[string]any(data)); err != nil {
		return "", "", err
	}
	return subjectBuf.String(), bodyBuf.String(), nil
}
