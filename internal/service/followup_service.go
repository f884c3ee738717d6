package service

import (
	"errors"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"

	"gorm.io/gorm"
)

type FollowUpService struct {
	Repo *repository.FollowUpRepository
}

func NewFollowUpService(repo *repository.FollowUpRepository) *FollowUpService {
	return &FollowUpService{Repo: repo}
}

type FollowUpRequest struct {
	Date           string `json:"date" binding:"required"`
	ActivityDone   string `json:"activityDone" binding:"required"`
	LessonSubject  string `json:"lessonSubject"`
	Responsibility string `json:"responsibility"`
	Justification  string `json:"justification"`
}

// Create records the student's journal entry for a date. One entry per
// student per date; a second submission for the same date is rejected.
func (s *FollowUpService) Create(studentID uint, req FollowUpRequest) (*model.FollowUp, error) {
	date, err := time.Parse(util.DateFormat, req.Date)
	if err != nil {
		return nil, err
	}

	exists, err := s.Repo.ExistsForDate(studentID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrFollowUpExists
	}

	entry := &model.FollowUp{
		StudentID:      studentID,
		Date:           date,
		ActivityDone:   req.ActivityDone,
		LessonSubject:  req.LessonSubject,
		Responsibility: req.Responsibility,
		Justification:  req.Justification,
		Status:         model.FollowUpPending,
	}
	if err := s.Repo.Create(entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrFollowUpExists
		}
		return nil, err
	}
	return entry, nil
}

func (s *FollowUpService) Get(id uint, claims *util.Claims) (*model.FollowUp, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFollowUpNotFound
	}
	if err != nil {
		return nil, err
	}
	if claims.Role == model.Student && entry.StudentID != claims.UserID {
		return nil, util.ErrPermissionDenied
	}
	return entry, nil
}

// UpdateEntry lets the student amend an entry, but only while a teacher-
// granted edit release is in effect.
func (s *FollowUpService) UpdateEntry(id, studentID uint, req FollowUpRequest) (*model.FollowUp, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFollowUpNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	if !entry.Editable {
		return nil, util.ErrFollowUpLocked
	}

	entry.ActivityDone = req.ActivityDone
	entry.LessonSubject = req.LessonSubject
	entry.Responsibility = req.Responsibility
	entry.Justification = req.Justification
	// An edit consumes the grant and sends the entry back for review.
	entry.Editable = false
	entry.Status = model.FollowUpPending
	entry.Reviewed = false
	entry.Feedback = ""

	if err := s.Repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Review records teacher feedback and marks the entry reviewed.
func (s *FollowUpService) Review(id uint, feedback string) (*model.FollowUp, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFollowUpNotFound
	}
	if err != nil {
		return nil, err
	}

	entry.Feedback = feedback
	entry.Status = model.FollowUpReviewed
	entry.Reviewed = true
	entry.Editable = false

	if err := s.Repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ReleaseEdit lets a teacher reopen a reviewed entry for the student.
func (s *FollowUpService) ReleaseEdit(id uint) (*model.FollowUp, error) {
	entry, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrFollowUpNotFound
	}
	if err != nil {
		return nil, err
	}

	entry.Editable = true
	if err := s.Repo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *FollowUpService) ListMine(studentID uint, page, limit int) ([]model.FollowUp, int64, error) {
	return s.Repo.ListByStudent(studentID, page, limit)
}

func (s *FollowUpService) List(f repository.FollowUpFilter, page, limit int) ([]model.FollowUp, int64, error) {
	return s.Repo.List(f, page, limit)
}
