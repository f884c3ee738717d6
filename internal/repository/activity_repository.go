package repository

import (
	"time"

	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(activity *model.Activity) error {
	return r.DB.Create(activity).Error
}

func (r *ActivityRepository) FindByID(id uint) (*model.Activity, error) {
	var activity model.Activity
	err := r.DB.First(&activity, id).Error
	return &activity, err
}

func (r *ActivityRepository) Update(activity *model.Activity) error {
	return r.DB.Save(activity).Error
}

// Deactivate keeps the record; activities are never hard-deleted once students
// may hold deliveries against them.
func (r *ActivityRepository) Deactivate(id uint) error {
	return r.DB.Model(&model.Activity{}).Where("id = ?", id).Update("active", false).Error
}

type ActivityFilter struct {
	Kind   model.ActivityKind
	Class  string
	Active *bool
}

func (r *ActivityRepository) List(f ActivityFilter, page, limit int) ([]model.Activity, int64, error) {
	query := r.DB.Model(&model.Activity{})
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.Class != "" {
		query = query.Where("class = ?", f.Class)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []model.Activity
	offset := (page - 1) * limit
	err := query.Order("deadline asc").Offset(offset).Limit(limit).Find(&activities).Error
	return activities, total, err
}

func (r *ActivityRepository) Count(f ActivityFilter) (int64, error) {
	query := r.DB.Model(&model.Activity{})
	if f.Kind != "" {
		query = query.Where("kind = ?", f.Kind)
	}
	if f.Class != "" {
		query = query.Where("class = ?", f.Class)
	}
	if f.Active != nil {
		query = query.Where("active = ?", *f.Active)
	}

	var total int64
	err := query.Count(&total).Error
	return total, err
}

// ListDeadlinesWithin returns every active activity whose deadline falls in
// the given window, without pagination.
func (r *ActivityRepository) ListDeadlinesWithin(from, to time.Time) ([]model.Activity, error) {
	var activities []model.Activity
	err := r.DB.Where("active = ? AND deadline >= ? AND deadline <= ?", true, from, to).
		Order("deadline asc").Find(&activities).Error
	return activities, err
}
