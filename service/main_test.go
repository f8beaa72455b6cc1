package service

import (
	"context"
	"errors"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"inc/client"
	"inc/config"
	"inc/testutil"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

var pg *testutil.Postgres

func TestMain(m *testing.M) {
	os.Setenv("JWT_SECRET", "test-secret")
	var err error
	pg, err = testutil.StartPostgres()
	if err != nil {
		if !errors.Is(err, testutil.ErrNoDocker) {
			log.Fatalf("Could not start postgres: %s", err)
		}
		log.Warn("docker unavailable, database tests are skipped")
		pg = nil
	}
	code := m.Run()
	if pg != nil {
		pg.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if pg == nil {
		t.Skip("database tests need docker")
	}
	pg.Truncate()
}

func testEvents(t *testing.T) *config.Events {
	t.Helper()
	events, err := config.LoadEvents("")
	require.NoError(t, err)
	return events
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []*client.Mail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, mail *client.Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) Sent() []*client.Mail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*client.Mail{}, m.sent...)
}

type fakeStore struct {
	uploads  []*client.UploadObject
	deleted  []string
	onUpload func()
}

func (s *fakeStore) Upload(ctx context.Context, object *client.UploadObject) (*client.UploadResponse, error) {
	s.uploads = append(s.uploads, object)
	if s.onUpload != nil {
		s.onUpload()
	}
	return &client.UploadResponse{Key: object.Prefix + "/" + object.FileName}, nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStore) SignedURL(key string, ttl time.Duration) (string, error) {
	return "https://files.example.org/" + key + "?X-Amz-Expires=" + strconv.Itoa(int(ttl.Seconds())), nil
}

type harness struct {
	events        *config.Events
	queue         *client.ChannelQueue
	mailer        *fakeMailer
	store         *fakeStore
	notifications *NotificationService
	registrations *RegistrationService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	requireDB(t)
	h := &harness{
		events: testEvents(t),
		queue:  client.NewChannelQueue(64),
		mailer: &fakeMailer{},
		store:  &fakeStore{},
	}
	h.notifications = NewNotificationService(pg.DB, h.queue, h.mailer, nil)
	h.registrations = NewRegistrationService(pg.DB, h.events, NewFileService(pg.DB, h.store), h.notifications)
	return h
}
