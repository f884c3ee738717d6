package repository

import (
	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

type DeliveryRepository struct {
	DB *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{DB: db}
}

func (r *DeliveryRepository) Create(d *model.Delivery) error {
	return r.DB.Create(d).Error
}

func (r *DeliveryRepository) FindByID(id uint) (*model.Delivery, error) {
	var d model.Delivery
	err := r.DB.First(&d, id).Error
	return &d, err
}

func (r *DeliveryRepository) Update(d *model.Delivery) error {
	return r.DB.Save(d).Error
}

type DeliveryFilter struct {
	ActivityID uint
	StudentID  uint
	Status     model.DeliveryStatus
}

func (r *DeliveryRepository) List(f DeliveryFilter, page, limit int) ([]model.Delivery, int64, error) {
	query := r.DB.Model(&model.Delivery{})
	if f.ActivityID != 0 {
		query = query.Where("activity_id = ?", f.ActivityID)
	}
	if f.StudentID != 0 {
		query = query.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []model.Delivery
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&deliveries).Error
	return deliveries, total, err
}

// ListAll returns every delivery matching the filter, without pagination.
// Reporting aggregates over the full set, not a page.
func (r *DeliveryRepository) ListAll(f DeliveryFilter) ([]model.Delivery, error) {
	query := r.DB.Model(&model.Delivery{})
	if f.ActivityID != 0 {
		query = query.Where("activity_id = ?", f.ActivityID)
	}
	if f.StudentID != 0 {
		query = query.Where("student_id = ?", f.StudentID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var deliveries []model.Delivery
	err := query.Order("created_at desc").Find(&deliveries).Error
	return deliveries, err
}

// ListRoutedToLeader returns the leader-routed deliveries addressed to the
// given leader, oldest first so consolidation preserves submission order.
// With onlyPending set, deliveries already merged into a group delivery are
// excluded.
func (r *DeliveryRepository) ListRoutedToLeader(tx *gorm.DB, leaderID uint, onlyPending bool) ([]model.Delivery, error) {
	if tx == nil {
		tx = r.DB
	}
	query := tx.Where("routed_to_leader = ? AND forwarded_to = ?", true, leaderID)
	if onlyPending {
		query = query.Where("consumed_at IS NULL")
	}

	var deliveries []model.Delivery
	err := query.Order("created_at asc, id asc").Find(&deliveries).Error
	return deliveries, err
}

func (r *DeliveryRepository) CreateEvaluation(e *model.Evaluation) error {
	return r.DB.Create(e).Error
}

func (r *DeliveryRepository) ListEvaluations(deliveryID uint) ([]model.Evaluation, error) {
	var evaluations []model.Evaluation
	err := r.DB.Where("delivery_id = ?", deliveryID).Order("id asc").Find(&evaluations).Error
	return evaluations, err
}
