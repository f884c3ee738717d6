package repository

import (
	"errors"
	"time"

	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

type FollowUpRepository struct {
	DB *gorm.DB
}

func NewFollowUpRepository(db *gorm.DB) *FollowUpRepository {
	return &FollowUpRepository{DB: db}
}

func (r *FollowUpRepository) Create(f *model.FollowUp) error {
	return r.DB.Create(f).Error
}

func (r *FollowUpRepository) FindByID(id uint) (*model.FollowUp, error) {
	var f model.FollowUp
	err := r.DB.First(&f, id).Error
	return &f, err
}

func (r *FollowUpRepository) Update(f *model.FollowUp) error {
	return r.DB.Save(f).Error
}

func (r *FollowUpRepository) ExistsForDate(studentID uint, date time.Time) (bool, error) {
	var f model.FollowUp
	err := r.DB.Where("student_id = ? AND date = ?", studentID, date).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FollowUpRepository) ListByStudent(studentID uint, page, limit int) ([]model.FollowUp, int64, error) {
	query := r.DB.Model(&model.FollowUp{}).Where("student_id = ?", studentID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var followups []model.FollowUp
	offset := (page - 1) * limit
	err := query.Order("date desc").Offset(offset).Limit(limit).Find(&followups).Error
	return followups, total, err
}

type FollowUpFilter struct {
	StudentID uint
	From      *time.Time
	To        *time.Time
	Status    model.FollowUpStatus
}

func (r *FollowUpRepository) List(f FollowUpFilter, page, limit int) ([]model.FollowUp, int64, error) {
	query := r.DB.Model(&model.FollowUp{})
	if f.StudentID != 0 {
		query = query.Where("student_id = ?", f.StudentID)
	}
	if f.From != nil {
		query = query.Where("date >= ?", *f.From)
	}
	if f.To != nil {
		query = query.Where("date <= ?", *f.To)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var followups []model.FollowUp
	offset := (page - 1) * limit
	err := query.Order("date desc").Offset(offset).Limit(limit).Find(&followups).Error
	return followups, total, err
}
