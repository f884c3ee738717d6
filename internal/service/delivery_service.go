package service

import (
	"errors"
	"fmt"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
	"ativflow_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DeliveryService struct {
	Repo         *repository.DeliveryRepository
	ActivityRepo *repository.ActivityRepository
	GroupRepo    *repository.GroupRepository
	Notifier     *NotificationService
}

func NewDeliveryService(repo *repository.DeliveryRepository, activityRepo *repository.ActivityRepository, groupRepo *repository.GroupRepository, notifier *NotificationService) *DeliveryService {
	return &DeliveryService{Repo: repo, ActivityRepo: activityRepo, GroupRepo: groupRepo, Notifier: notifier}
}

type DeliveryRequest struct {
	ActivityID uint `json:"activityId" binding:"required"`
	// FileURLs are reference strings handed back by the upload collaborator;
	// no file bytes pass through here.
	FileURLs       []string `json:"fileUrls"`
	Observations   string   `json:"observations"`
	RoutedToLeader bool     `json:"routedToLeader"`
	ForwardedTo    *uint    `json:"forwardedTo"`
}

// Create records a student delivery. Deliveries past the activity deadline
// are accepted but flagged late. Individual deliveries notify the activity
// creator; leader-routed ones notify the leader instead.
func (s *DeliveryService) Create(studentID uint, req DeliveryRequest) (*model.Delivery, error) {
	activity, err := s.ActivityRepo.FindByID(req.ActivityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}

	status := model.DeliverySubmitted
	if time.Now().After(activity.Deadline) {
		status = model.DeliveryLate
	}

	delivery := &model.Delivery{
		Reference:      model.GenerateUUID(),
		ActivityID:     req.ActivityID,
		StudentID:      &studentID,
		Status:         status,
		FileURLs:       req.FileURLs,
		Observations:   req.Observations,
		RoutedToLeader: req.RoutedToLeader,
		ForwardedTo:    req.ForwardedTo,
	}
	if err := s.Repo.Create(delivery); err != nil {
		return nil, err
	}

	if delivery.RoutedToLeader && delivery.ForwardedTo != nil {
		s.notify(*delivery.ForwardedTo, "Delivery received",
			fmt.Sprintf("A teammate sent you files for %q to consolidate", activity.Title))
	} else {
		s.notify(activity.CreatedBy, "New delivery received",
			fmt.Sprintf("A new delivery was submitted for %q", activity.Title))
	}

	return delivery, nil
}

func (s *DeliveryService) Get(id uint, claims *util.Claims) (*model.Delivery, error) {
	delivery, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}
	if claims.Role == model.Student && (delivery.StudentID == nil || *delivery.StudentID != claims.UserID) {
		return nil, util.ErrPermissionDenied
	}
	return delivery, nil
}

func (s *DeliveryService) List(claims *util.Claims, f repository.DeliveryFilter, page, limit int) ([]model.Delivery, int64, error) {
	// Students only ever see their own deliveries.
	if claims.Role == model.Student {
		f.StudentID = claims.UserID
	}
	return s.Repo.List(f, page, limit)
}

// AllowEdit reopens a delivery so the student may resubmit.
func (s *DeliveryService) AllowEdit(id uint) (*model.Delivery, error) {
	delivery, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, err
	}

	delivery.Status = model.DeliveryPending
	if err := s.Repo.Update(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

type EvaluationRequest struct {
	Score    *float64 `json:"score" binding:"required"`
	Feedback string   `json:"feedback"`
	Rejected bool     `json:"rejected"`
}

// Evaluate closes a delivery with a score and feedback, keeping a separate
// evaluation record, and notifies the owning student or every group member.
func (s *DeliveryService) Evaluate(id, teacherID uint, req EvaluationRequest) (*model.Delivery, *model.Evaluation, error) {
	delivery, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	delivery.Score = req.Score
	delivery.EvaluatedBy = &teacherID
	delivery.EvaluatedAt = &now
	if req.Rejected {
		delivery.Status = model.DeliveryRejected
	} else {
		delivery.Status = model.DeliveryEvaluated
	}

	evaluation := &model.Evaluation{
		DeliveryID: delivery.ID,
		TeacherID:  teacherID,
		Score:      *req.Score,
		Feedback:   req.Feedback,
		Rejected:   req.Rejected,
	}

	err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(delivery).Error; err != nil {
			return err
		}
		return tx.Create(evaluation).Error
	})
	if err != nil {
		return nil, nil, err
	}

	message := fmt.Sprintf("Your delivery was evaluated. Score: %.2f", *req.Score)
	if delivery.StudentID != nil {
		s.notify(*delivery.StudentID, "Delivery evaluated", message)
	} else if delivery.GroupID != nil {
		if group, err := s.GroupRepo.FindByID(*delivery.GroupID); err == nil {
			for _, m := range group.Members {
				s.notify(m.StudentID, "Delivery evaluated", message)
			}
		}
	}

	return delivery, evaluation, nil
}

// LeaderInbox lists the routed deliveries still waiting for the group leader
// to consolidate.
func (s *DeliveryService) LeaderInbox(groupID, requesterID uint) ([]model.Delivery, error) {
	if err := s.requireLeader(groupID, requesterID); err != nil {
		return nil, err
	}
	return s.Repo.ListRoutedToLeader(nil, requesterID, true)
}

// Consolidate merges every pending leader-routed delivery addressed to the
// requesting leader into one group delivery and forwards it to the
// instructor. File lists are concatenated in delivery-creation order,
// duplicates preserved. The sources are marked consumed in the same
// transaction, so running the operation again without new routed deliveries
// fails instead of duplicating the group delivery.
func (s *DeliveryService) Consolidate(groupID, requesterID uint, observations string) (*model.Delivery, error) {
	if err := s.requireLeader(groupID, requesterID); err != nil {
		return nil, err
	}

	group, err := s.GroupRepo.FindByID(groupID)
	if err != nil {
		return nil, err
	}

	consolidated := &model.Delivery{
		Reference:    model.GenerateUUID(),
		ActivityID:   group.ActivityID,
		GroupID:      &groupID,
		Status:       model.DeliverySubmitted,
		Observations: observations,
		Consolidated: true,
	}

	err = s.Repo.DB.Transaction(func(tx *gorm.DB) error {
		sources, err := s.Repo.ListRoutedToLeader(tx, requesterID, true)
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return util.ErrNothingToConsolidate
		}

		var files model.StringList
		for _, src := range sources {
			files = append(files, src.FileURLs...)
		}
		consolidated.FileURLs = files

		if err := tx.Create(consolidated).Error; err != nil {
			return err
		}

		now := time.Now()
		ids := make([]uint, len(sources))
		for i, src := range sources {
			ids[i] = src.ID
		}
		return tx.Model(&model.Delivery{}).Where("id IN ?", ids).
			Update("consumed_at", now).Error
	})
	if err != nil {
		return nil, err
	}

	if activity, err := s.ActivityRepo.FindByID(group.ActivityID); err == nil {
		s.notify(activity.CreatedBy, "Group delivery received",
			fmt.Sprintf("Group %q consolidated its delivery for %q", group.Name, activity.Title))
	}

	return consolidated, nil
}

func (s *DeliveryService) requireLeader(groupID, requesterID uint) error {
	group, err := s.GroupRepo.FindByID(groupID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrGroupNotFound
	}
	if err != nil {
		return err
	}
	if group.LeaderID == nil || *group.LeaderID != requesterID {
		return util.ErrOnlyLeader
	}
	return nil
}

// notify is fire-and-forget: delivery flows never fail because the
// notification record could not be written.
func (s *DeliveryService) notify(userID uint, title, message string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Notify(userID, title, message, model.NotifyInfo); err != nil {
		logger.Log.Warn("notification failed", zap.Uint("userId", userID), zap.Error(err))
	}
}
