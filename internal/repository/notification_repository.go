package repository

import (
	"time"

	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	DB *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{DB: db}
}

func (r *NotificationRepository) Create(n *model.Notification) error {
	return r.DB.Create(n).Error
}

func (r *NotificationRepository) FindByID(id uint) (*model.Notification, error) {
	var n model.Notification
	err := r.DB.First(&n, id).Error
	return &n, err
}

// ListForUser returns the user's own notifications plus the global ones
// (user_id IS NULL).
func (r *NotificationRepository) ListForUser(userID uint, read *bool, page, limit int) ([]model.Notification, int64, error) {
	query := r.DB.Model(&model.Notification{}).
		Where("user_id = ? OR user_id IS NULL", userID)
	if read != nil {
		query = query.Where("`read` = ?", *read)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&notifications).Error
	return notifications, total, err
}

func (r *NotificationRepository) MarkRead(id uint) error {
	return r.DB.Model(&model.Notification{}).Where("id = ?", id).Update("read", true).Error
}

func (r *NotificationRepository) MarkAllRead(userID uint) error {
	return r.DB.Model(&model.Notification{}).
		Where("user_id = ? AND `read` = ?", userID, false).
		Update("read", true).Error
}

func (r *NotificationRepository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Notification{}).
		Where("(user_id = ? OR user_id IS NULL) AND `read` = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res := r.DB.Where("created_at < ?", cutoff).Delete(&model.Notification{})
	return res.RowsAffected, res.Error
}
