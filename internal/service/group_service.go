package service

import (
	"errors"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"

	"gorm.io/gorm"
)

type GroupService struct {
	Repo         *repository.GroupRepository
	ActivityRepo *repository.ActivityRepository
	UserRepo     *repository.UserRepository
}

func NewGroupService(repo *repository.GroupRepository, activityRepo *repository.ActivityRepository, userRepo *repository.UserRepository) *GroupService {
	return &GroupService{Repo: repo, ActivityRepo: activityRepo, UserRepo: userRepo}
}

type GroupRequest struct {
	Name         string `json:"name" binding:"required"`
	ActivityID   uint   `json:"activityId" binding:"required"`
	LeaderID     *uint  `json:"leaderId"`
	Observations string `json:"observations"`
	MemberIDs    []uint `json:"memberIds"`
}

// Create opens a group under a group-kind activity. The leader, when given,
// is enrolled as a member automatically.
func (s *GroupService) Create(req GroupRequest) (*model.Group, error) {
	activity, err := s.ActivityRepo.FindByID(req.ActivityID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	if activity.Kind != model.ActivityGroup {
		return nil, util.ErrNotGroupKind
	}

	group := &model.Group{
		Name:         req.Name,
		ActivityID:   req.ActivityID,
		LeaderID:     req.LeaderID,
		Status:       model.GroupActive,
		Observations: req.Observations,
	}
	if err := s.Repo.Create(group); err != nil {
		return nil, err
	}

	members := req.MemberIDs
	if req.LeaderID != nil {
		members = append(members, *req.LeaderID)
	}
	for _, studentID := range members {
		if err := s.addMember(group.ID, studentID); err != nil && !errors.Is(err, util.ErrAlreadyMember) {
			return nil, err
		}
	}

	return s.Get(group.ID)
}

func (s *GroupService) Get(id uint) (*model.Group, error) {
	group, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGroupNotFound
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

type GroupUpdateRequest struct {
	Name         *string            `json:"name"`
	LeaderID     *uint              `json:"leaderId"`
	Status       *model.GroupStatus `json:"status"`
	Observations *string            `json:"observations"`
}

func (s *GroupService) Update(id uint, req GroupUpdateRequest) (*model.Group, error) {
	group, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		group.Name = *req.Name
	}
	if req.LeaderID != nil {
		// A new leader must already belong to the group.
		if exists, err := s.Repo.MemberExists(id, *req.LeaderID); err != nil {
			return nil, err
		} else if !exists {
			if err := s.addMember(id, *req.LeaderID); err != nil {
				return nil, err
			}
		}
		group.LeaderID = req.LeaderID
	}
	if req.Status != nil {
		group.Status = *req.Status
	}
	if req.Observations != nil {
		group.Observations = *req.Observations
	}

	if err := s.Repo.Update(group); err != nil {
		return nil, err
	}
	return s.Get(id)
}

func (s *GroupService) List(activityID uint, page, limit int) ([]model.Group, int64, error) {
	return s.Repo.List(activityID, page, limit)
}

func (s *GroupService) AddMember(groupID, studentID uint) error {
	if _, err := s.Get(groupID); err != nil {
		return err
	}
	if _, err := s.UserRepo.FindByID(studentID); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}
	return s.addMember(groupID, studentID)
}

func (s *GroupService) addMember(groupID, studentID uint) error {
	exists, err := s.Repo.MemberExists(groupID, studentID)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrAlreadyMember
	}
	return s.Repo.AddMember(&model.GroupMember{GroupID: groupID, StudentID: studentID})
}

func (s *GroupService) RemoveMember(groupID, studentID uint) error {
	group, err := s.Get(groupID)
	if err != nil {
		return err
	}
	err = s.Repo.RemoveMember(groupID, studentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrMemberNotFound
	}
	if err != nil {
		return err
	}
	// Removing the leader leaves the group leaderless until a new one is set.
	if group.LeaderID != nil && *group.LeaderID == studentID {
		group.LeaderID = nil
		return s.Repo.Update(group)
	}
	return nil
}

// MyGroups lists every group the student belongs to.
func (s *GroupService) MyGroups(studentID uint) ([]model.Group, error) {
	return s.Repo.ListByStudent(studentID)
}
