package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"
	"ativflow_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NotificationService persists in-app notification records. Actual delivery
// channels (mail, push) live behind the external notification collaborator;
// this service is the record keeper they read from.
type NotificationService struct {
	Repo     *repository.NotificationRepository
	UserRepo *repository.UserRepository
	rdb      *redis.Client
}

func NewNotificationService(repo *repository.NotificationRepository, userRepo *repository.UserRepository, rdb *redis.Client) *NotificationService {
	return &NotificationService{Repo: repo, UserRepo: userRepo, rdb: rdb}
}

// Notify creates a notification for one user.
func (s *NotificationService) Notify(userID uint, title, message string, category model.NotificationCategory) error {
	n := &model.Notification{
		UserID:   &userID,
		Title:    title,
		Message:  message,
		Category: category,
	}
	if err := s.Repo.Create(n); err != nil {
		return err
	}
	s.bumpUnread(userID)
	return nil
}

// NotifyGlobal creates a notification visible to every user.
func (s *NotificationService) NotifyGlobal(title, message string, category model.NotificationCategory) error {
	n := &model.Notification{
		Title:    title,
		Message:  message,
		Category: category,
	}
	return s.Repo.Create(n)
}

// NotifyClass fans a notification out to every active student of a class.
func (s *NotificationService) NotifyClass(class, title, message string, category model.NotificationCategory) error {
	students, err := s.UserRepo.ListStudentsByClass(class)
	if err != nil {
		return err
	}
	for _, student := range students {
		if err := s.Notify(student.ID, title, message, category); err != nil {
			return err
		}
	}
	return nil
}

func (s *NotificationService) NotifyNewActivity(activity *model.Activity) error {
	title := "New activity: " + activity.Title
	message := fmt.Sprintf("A new activity was published. Deadline: %s", activity.Deadline.Format(util.TimeFormat))
	return s.NotifyClass(activity.Class, title, message, model.NotifyInfo)
}

func (s *NotificationService) ListForUser(userID uint, read *bool, page, limit int) ([]model.Notification, int64, error) {
	return s.Repo.ListForUser(userID, read, page, limit)
}

func (s *NotificationService) MarkRead(id, userID uint) error {
	n, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrNotificationNotFound
	}
	if err != nil {
		return err
	}
	if n.UserID != nil && *n.UserID != userID {
		return util.ErrPermissionDenied
	}
	if err := s.Repo.MarkRead(id); err != nil {
		return err
	}
	s.dropUnread(userID)
	return nil
}

func (s *NotificationService) MarkAllRead(userID uint) error {
	if err := s.Repo.MarkAllRead(userID); err != nil {
		return err
	}
	s.dropUnread(userID)
	return nil
}

// UnreadCount serves from the Redis counter when present and falls back to
// the database.
func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	if s.rdb != nil {
		if count, err := s.rdb.Get(context.Background(), unreadKey(userID)).Int64(); err == nil {
			return count, nil
		}
	}

	count, err := s.Repo.CountUnread(userID)
	if err != nil {
		return 0, err
	}
	if s.rdb != nil {
		s.rdb.Set(context.Background(), unreadKey(userID), count, time.Hour)
	}
	return count, nil
}

func (s *NotificationService) CleanupOld(age time.Duration) (int64, error) {
	return s.Repo.DeleteOlderThan(time.Now().Add(-age))
}

// DeadlineSweep notifies classes about activities due within the window. It
// is invoked periodically from the app's background ticker.
func (s *NotificationService) DeadlineSweep(activityRepo *repository.ActivityRepository, window time.Duration) error {
	now := time.Now()
	activities, err := activityRepo.ListDeadlinesWithin(now, now.Add(window))
	if err != nil {
		return err
	}

	for _, a := range activities {
		if a.Class == "" {
			continue
		}
		title := "Deadline approaching: " + a.Title
		message := fmt.Sprintf("The activity %q is due at %s", a.Title, a.Deadline.Format(util.TimeFormat))
		if err := s.NotifyClass(a.Class, title, message, model.NotifyDeadline); err != nil {
			logger.Log.Warn("deadline sweep notification failed",
				zap.Uint("activityId", a.ID), zap.Error(err))
		}
	}
	return nil
}

func unreadKey(userID uint) string {
	return fmt.Sprintf("notifications:unread:%d", userID)
}

func (s *NotificationService) bumpUnread(userID uint) {
	if s.rdb == nil {
		return
	}
	ctx := context.Background()
	if err := s.rdb.Incr(ctx, unreadKey(userID)).Err(); err != nil {
		logger.Log.Warn("failed to bump unread counter", zap.Uint("userId", userID), zap.Error(err))
	}
}

func (s *NotificationService) dropUnread(userID uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(context.Background(), unreadKey(userID)).Err(); err != nil {
		logger.Log.Warn("failed to drop unread counter", zap.Uint("userId", userID), zap.Error(err))
	}
}
