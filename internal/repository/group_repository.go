package repository

import (
	"errors"

	"ativflow_backend/internal/model"

	"gorm.io/gorm"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

func (r *GroupRepository) Create(g *model.Group) error {
	return r.DB.Create(g).Error
}

func (r *GroupRepository) FindByID(id uint) (*model.Group, error) {
	var g model.Group
	err := r.DB.Preload("Members").First(&g, id).Error
	return &g, err
}

func (r *GroupRepository) Update(g *model.Group) error {
	return r.DB.Save(g).Error
}

func (r *GroupRepository) List(activityID uint, page, limit int) ([]model.Group, int64, error) {
	query := r.DB.Model(&model.Group{})
	if activityID != 0 {
		query = query.Where("activity_id = ?", activityID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []model.Group
	offset := (page - 1) * limit
	err := query.Preload("Members").Order("id asc").Offset(offset).Limit(limit).Find(&groups).Error
	return groups, total, err
}

func (r *GroupRepository) AddMember(m *model.GroupMember) error {
	return r.DB.Create(m).Error
}

func (r *GroupRepository) MemberExists(groupID, studentID uint) (bool, error) {
	var m model.GroupMember
	err := r.DB.Where("group_id = ? AND student_id = ?", groupID, studentID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *GroupRepository) RemoveMember(groupID, memberID uint) error {
	res := r.DB.Where("id = ? AND group_id = ?", memberID, groupID).Delete(&model.GroupMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GroupRepository) ListByStudent(studentID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Preload("Members").
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.student_id = ? AND group_members.deleted_at IS NULL", studentID).
		Find(&groups).Error
	return groups, err
}
