package service

import (
	"context"
	"strings"

	"inc/app_error"
	"inc/config"
	"inc/metrics"
	"inc/repository"

	"gorm.io/gorm"
)

type EvaluationInput struct {
	Pid     string             `json:"pid" binding:"required"`
	Jid     string             `json:"jid"`
	Scores  repository.JSONMap `json:"scores"`
	Remarks string             `json:"remarks"`
}

type EvaluationService struct {
	events               *config.Events
	evaluationRepository *repository.EvaluationRepository
	projectRepository    *repository.ProjectRepository
	judgeRepository      *repository.JudgeRepository
}

func NewEvaluationService(db *gorm.DB, events *config.Events) *EvaluationService {
	return &EvaluationService{
		events:               events,
		evaluationRepository: repository.NewEvaluationRepository(db),
		projectRepository:    repository.NewProjectRepository(db),
		judgeRepository:      repository.NewJudgeRepository(db),
	}
}

// EvaluateProject records one evaluation per judge and project. A second submission
// fails with a conflict and leaves the first untouched.
func (s *EvaluationService) EvaluateProject(ctx context.Context, eventName string, input EvaluationInput) (*repository.Evaluation, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	pid := strings.TrimSpace(input.Pid)
	jid := strings.TrimSpace(input.Jid)
	if pid == "" || jid == "" {
		return nil, app_error.ValidationFailed("pid and jid are required")
	}
	if _, err := s.projectRepository.GetProject(event.Name, pid); err != nil {
		return nil, notFoundOr(err, "Project does not exist")
	}
	if _, err := s.judgeRepository.GetJudge(jid); err != nil {
		return nil, notFoundOr(err, "Judge %s does not exist", jid)
	}
	scores := input.Scores
	if scores == nil {
		scores = repository.JSONMap{}
	}
	total, err := scoreTotal(scores)
	if err != nil {
		return nil, err
	}

	evaluation := &repository.Evaluation{
		Event:   event.Name,
		Pid:     pid,
		Jid:     jid,
		Scores:  scores,
		Total:   total,
		Remarks: strings.TrimSpace(input.Remarks),
	}
	inserted, err := s.evaluationRepository.Insert(evaluation)
	if err != nil {
		return nil, dependency(err)
	}
	if !inserted {
		metrics.EvaluationsTotal.WithLabelValues(event.Name, "duplicate").Inc()
		return nil, app_error.Conflict("Existing Allocation")
	}
	metrics.EvaluationsTotal.WithLabelValues(event.Name, "stored").Inc()
	return evaluation, nil
}

func (s *EvaluationService) ProjectEvaluations(ctx context.Context, eventName string, pid string) ([]*repository.Evaluation, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepository.GetProject(event.Name, pid); err != nil {
		return nil, notFoundOr(err, "Project does not exist")
	}
	evaluations, err := s.evaluationRepository.GetEvaluationsForProject(event.Name, pid)
	return evaluations, dependency(err)
}
