package service

import (
	"context"
	"strings"

	"inc/app_error"
	"inc/config"
	"inc/repository"
	"inc/utils"

	"gorm.io/gorm"
)

type AllocationRequest struct {
	Pids  []string `json:"pids"`
	Jids  []string `json:"jids"`
	Slots []string `json:"slots"`
}

type LabUpdate struct {
	Lab  string   `json:"lab"`
	Pids []string `json:"pids"`
}

type JudgeProjects struct {
	ProjectsNotEvaluated []*repository.Project `json:"projectsNotEvaluated"`
	ProjectsEvaluated    []string              `json:"projectsEvaluated"`
}

type AllocationService struct {
	db                   *gorm.DB
	events               *config.Events
	allocationRepository *repository.AllocationRepository
	projectRepository    *repository.ProjectRepository
	evaluationRepository *repository.EvaluationRepository
}

func NewAllocationService(db *gorm.DB, events *config.Events) *AllocationService {
	return &AllocationService{
		db:                   db,
		events:               events,
		allocationRepository: repository.NewAllocationRepository(db),
		projectRepository:    repository.NewProjectRepository(db),
		evaluationRepository: repository.NewEvaluationRepository(db),
	}
}

func (r AllocationRequest) clean() (AllocationRequest, error) {
	out := AllocationRequest{
		Pids:  cleanIds(r.Pids),
		Jids:  cleanIds(r.Jids),
		Slots: utils.SortedUniques(utils.Map(r.Slots, strings.TrimSpace)),
	}
	if len(out.Pids) == 0 || len(out.Jids) == 0 {
		return out, app_error.ValidationFailed("pids and jids are required")
	}
	return out, nil
}

// Allocate assigns every project to every judge. Repeated calls extend the slot sets.
func (s *AllocationService) Allocate(ctx context.Context, eventName string, request AllocationRequest) error {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	request, err = request.clean()
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allocations := s.allocationRepository.WithTx(tx)
		for _, pid := range request.Pids {
			for _, jid := range request.Jids {
				if err := allocations.Upsert(event.Name, pid, jid, request.Slots); err != nil {
					return dependency(err)
				}
			}
		}
		return nil
	})
}

// Deallocate removes whole pairs, or only the given slots when any are passed.
func (s *AllocationService) Deallocate(ctx context.Context, eventName string, request AllocationRequest) error {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	request, err = request.clean()
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		allocations := s.allocationRepository.WithTx(tx)
		if len(request.Slots) == 0 {
			_, err := allocations.Delete(event.Name, request.Pids, request.Jids)
			return dependency(err)
		}
		return dependency(allocations.RemoveSlots(event.Name, request.Pids, request.Jids, request.Slots))
	})
}

func (s *AllocationService) UpdateLab(ctx context.Context, eventName string, update LabUpdate) error {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	pids := cleanIds(update.Pids)
	if len(pids) == 0 {
		return app_error.ValidationFailed("pids are required")
	}
	_, err = s.projectRepository.WithTx(s.db.WithContext(ctx)).UpdateLab(event.Name, strings.TrimSpace(update.Lab), pids)
	return dependency(err)
}

// GetLabs lists projects with the judges allowed by the event's lab filter.
func (s *AllocationService) GetLabs(ctx context.Context, eventName string) ([]*repository.LabProject, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	prefix := event.LabFilter.JudgePrefix
	if prefix == "" {
		prefix = event.Code + "-"
	}
	labs, err := s.allocationRepository.GetLabProjects(event.Name, prefix, event.LabFilter.Slots)
	return labs, dependency(err)
}

func (s *AllocationService) EvalStats(ctx context.Context, eventName string) ([]*repository.EvalStat, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	stats, err := s.allocationRepository.GetEvalStats(event.Name, event.JudgeNamespace())
	return stats, dependency(err)
}

// EventAllocations lists every judge assignment of the event.
func (s *AllocationService) EventAllocations(ctx context.Context, eventName string) ([]*repository.Allocation, error) {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return nil, err
	}
	allocations, err := s.allocationRepository.WithTx(s.db.WithContext(ctx)).GetAllocationsForEvent(event.Name)
	return allocations, dependency(err)
}

func (s *AllocationService) JudgeAllocations(ctx context.Context, jid string) ([]*repository.Allocation, error) {
	allocations, err := s.allocationRepository.GetAllocationsForJudge(jid)
	return allocations, dependency(err)
}

// AllocatedProjectsOfJudge splits the judge's projects into evaluated and pending ones.
func (s *AllocationService) AllocatedProjectsOfJudge(ctx context.Context, jid string) (*JudgeProjects, error) {
	allocations, err := s.allocationRepository.GetAllocationsForJudge(jid)
	if err != nil {
		return nil, dependency(err)
	}
	evaluated, err := s.evaluationRepository.GetEvaluatedPids(jid)
	if err != nil {
		return nil, dependency(err)
	}
	pending := make([]string, 0, len(allocations))
	for _, allocation := range allocations {
		if !utils.Contains(evaluated, allocation.Pid) {
			pending = append(pending, allocation.Pid)
		}
	}
	projects, err := s.projectRepository.GetProjectsByPids(cleanIds(pending))
	if err != nil {
		return nil, dependency(err)
	}
	return &JudgeProjects{
		ProjectsNotEvaluated: projects,
		ProjectsEvaluated:    evaluated,
	}, nil
}
