package service

import (
	"context"
	"errors"
	"strings"

	"inc/app_error"
	"inc/auth"
	"inc/config"
	"inc/repository"
	"inc/utils"

	"github.com/lib/pq"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type SlotMode int

const (
	SlotReplace SlotMode = iota
	SlotAdd
	SlotRemove
)

func (m SlotMode) String() string {
	switch m {
	case SlotAdd:
		return "ADD"
	case SlotRemove:
		return "REMOVE"
	default:
		return "REPLACE"
	}
}

// ParseSlotMode accepts the numeric wire values as well as the names.
func ParseSlotMode(value string) (SlotMode, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "", "0", "REPLACE":
		return SlotReplace, nil
	case "1", "ADD":
		return SlotAdd, nil
	case "2", "REMOVE":
		return SlotRemove, nil
	}
	return SlotReplace, app_error.ValidationFailed("unknown slot mode %q", value)
}

// ApplySlots returns the slot set after applying mode. The result is sorted and distinct.
func ApplySlots(current []string, slots []string, mode SlotMode) []string {
	switch mode {
	case SlotAdd:
		return utils.SortedUniques(append(append([]string{}, current...), slots...))
	case SlotRemove:
		return utils.SortedUniques(utils.Filter(current, func(slot string) bool {
			return !utils.Contains(slots, slot)
		}))
	default:
		return utils.SortedUniques(slots)
	}
}

type JudgeRegistration struct {
	Event   string             `json:"event" binding:"required"`
	Name    string             `json:"name" binding:"required"`
	Email   string             `json:"email" binding:"required"`
	Phone   string             `json:"phone"`
	Slots   []string           `json:"slots"`
	Details repository.JSONMap `json:"details"`
}

type JudgeService struct {
	db                  *gorm.DB
	events              *config.Events
	judgeRepository     *repository.JudgeRepository
	projectRepository   *repository.ProjectRepository
	notificationService *NotificationService
}

func NewJudgeService(db *gorm.DB, events *config.Events, notificationService *NotificationService) *JudgeService {
	return &JudgeService{
		db:                  db,
		events:              events,
		judgeRepository:     repository.NewJudgeRepository(db),
		projectRepository:   repository.NewProjectRepository(db),
		notificationService: notificationService,
	}
}

func (s *JudgeService) newJid(event *config.Event) (string, error) {
	for range 5 {
		jid := event.Code + "-J" + utils.RandomString(7)
		exists, err := s.judgeRepository.JidExists(jid)
		if err != nil {
			return "", err
		}
		if !exists {
			return jid, nil
		}
	}
	return "", errors.New("could not mint a unique judge id")
}

// Register creates the judge with a generated password and mails the credentials.
func (s *JudgeService) Register(ctx context.Context, input JudgeRegistration) (*repository.Judge, error) {
	event, err := lookupEvent(s.events, input.Event)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	if name == "" || email == "" {
		return nil, app_error.ValidationFailed("judge name and email are required")
	}
	jid, err := s.newJid(event)
	if err != nil {
		return nil, dependency(err)
	}
	password := utils.RandomString(8)
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, dependency(err)
	}
	judge := &repository.Judge{
		Jid:          jid,
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Events:       pq.StringArray{event.Name},
		Roles:        pq.StringArray{auth.RoleJudge},
		Slots:        utils.SortedUniques(input.Slots),
		Details:      input.Details,
	}
	if err := s.judgeRepository.Create(judge); err != nil {
		return nil, dependency(err)
	}
	log.WithFields(log.Fields{"jid": jid, "event": event.Name}).Info("judge registered")

	s.notificationService.Notify(ctx, KindJudgeRegistered, []string{formatRecipient(repository.Member{Name: name, Email: email})}, repository.JSONMap{
		"name":        name,
		"jid":         jid,
		"password":    password,
		"event_title": event.Title,
		"slots":       event.SlotLabels(judge.Slots),
		"group_link":  event.JudgeGroupLink,
	})
	return judge, nil
}

// Login checks the credentials and returns a judge token.
func (s *JudgeService) Login(jid string, password string) (string, *repository.Judge, error) {
	judge, err := s.judgeRepository.GetJudge(strings.TrimSpace(jid))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, app_error.Unauthorized("Invalid credentials")
		}
		return "", nil, dependency(err)
	}
	if !auth.CheckPassword(judge.PasswordHash, password) {
		return "", nil, app_error.Unauthorized("Invalid credentials")
	}
	token, err := auth.CreateToken(judge.Jid, judge.Roles)
	if err != nil {
		return "", nil, dependency(err)
	}
	return token, judge, nil
}

func (s *JudgeService) GetJudge(jid string) (*repository.Judge, error) {
	judge, err := s.judgeRepository.GetJudge(jid)
	if err != nil {
		return nil, notFoundOr(err, "Judge %s does not exist", jid)
	}
	return judge, nil
}

func (s *JudgeService) ListJudges(eventName string) ([]*repository.Judge, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	judges, err := s.judgeRepository.GetJudgesForEvent(event.Name)
	return judges, dependency(err)
}

func (s *JudgeService) ProjectsForEvent(eventName string) ([]*repository.Project, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepository.GetProjectsForEvent(event.Name)
	return projects, dependency(err)
}

// ModifySlots changes the judge's availability under a row lock.
func (s *JudgeService) ModifySlots(ctx context.Context, jid string, slots []string, mode SlotMode) (*repository.Judge, error) {
	var judge *repository.Judge
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		judges := s.judgeRepository.WithTx(tx)
		var err error
		judge, err = judges.GetJudgeForUpdate(jid)
		if err != nil {
			return notFoundOr(err, "Judge %s does not exist", jid)
		}
		judge.Slots = ApplySlots(judge.Slots, slots, mode)
		return dependency(judges.UpdateSlots(jid, judge.Slots))
	})
	if err != nil {
		return nil, err
	}
	return judge, nil
}
