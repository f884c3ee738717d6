package service

import (
	"encoding/json"
	"errors"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
	"ativflow_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ActivityService struct {
	Repo     *repository.ActivityRepository
	Notifier *NotificationService
}

func NewActivityService(repo *repository.ActivityRepository, notifier *NotificationService) *ActivityService {
	return &ActivityService{Repo: repo, Notifier: notifier}
}

type ActivityRequest struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description" binding:"required"`
	Kind        string          `json:"kind" binding:"required"`
	Deadline    time.Time       `json:"deadline" binding:"required"`
	Class       string          `json:"class"`
	Config      json.RawMessage `json:"config"`
}

func (s *ActivityService) Create(creatorID uint, req ActivityRequest) (*model.Activity, error) {
	kind := model.ActivityKind(req.Kind)
	if !model.ValidActivityKind(kind) {
		return nil, errors.New("invalid activity kind")
	}

	activity := &model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Kind:        kind,
		Deadline:    req.Deadline,
		CreatedBy:   creatorID,
		Class:       req.Class,
		Active:      true,
		Config:      req.Config,
	}
	if err := s.Repo.Create(activity); err != nil {
		return nil, err
	}

	// Fan-out to the target class; a notification failure never fails the
	// creation itself.
	if activity.Class != "" && s.Notifier != nil {
		if err := s.Notifier.NotifyNewActivity(activity); err != nil {
			logger.Log.Warn("failed to notify class about new activity",
				zap.Uint("activityId", activity.ID), zap.Error(err))
		}
	}

	return activity, nil
}

func (s *ActivityService) Get(id uint) (*model.Activity, error) {
	activity, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

type ActivityUpdateRequest struct {
	Title       *string          `json:"title"`
	Description *string          `json:"description"`
	Kind        *string          `json:"kind"`
	Deadline    *time.Time       `json:"deadline"`
	Class       *string          `json:"class"`
	Active      *bool            `json:"active"`
	Config      *json.RawMessage `json:"config"`
}

func (s *ActivityService) Update(id uint, req ActivityUpdateRequest) (*model.Activity, error) {
	activity, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		activity.Title = *req.Title
	}
	if req.Description != nil {
		activity.Description = *req.Description
	}
	if req.Kind != nil {
		kind := model.ActivityKind(*req.Kind)
		if !model.ValidActivityKind(kind) {
			return nil, errors.New("invalid activity kind")
		}
		activity.Kind = kind
	}
	if req.Deadline != nil {
		activity.Deadline = *req.Deadline
	}
	if req.Class != nil {
		activity.Class = *req.Class
	}
	if req.Active != nil {
		activity.Active = *req.Active
	}
	if req.Config != nil {
		activity.Config = *req.Config
	}

	if err := s.Repo.Update(activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Deactivate flags the activity inactive instead of deleting it.
func (s *ActivityService) Deactivate(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Deactivate(id)
}

func (s *ActivityService) List(f repository.ActivityFilter, page, limit int) ([]model.Activity, int64, error) {
	return s.Repo.List(f, page, limit)
}
