package service

import (
	"errors"

	"ativflow_backend/internal/model"
	"ativflow_backend/internal/repository"
	"ativflow_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	Repo *repository.UserRepository
}

func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{Repo: repo}
}

type UserRequest struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Role     model.UserRole `json:"role" binding:"required"`
	Class    string         `json:"class"`
}

func (s *UserService) Create(req UserRequest) (*model.User, error) {
	if _, err := s.Repo.FindByEmail(req.Email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hashed),
		Role:     req.Role,
		Class:    req.Class,
		Active:   true,
	}
	if err := s.Repo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrEmailRegistered
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(id uint) (*model.User, error) {
	user, err := s.Repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

type UserUpdateRequest struct {
	Name  *string `json:"name"`
	Class *string `json:"class"`
}

func (s *UserService) Update(id uint, req UserUpdateRequest) (*model.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Class != nil {
		user.Class = *req.Class
	}
	if err := s.Repo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Deactivate(id uint) error {
	user, err := s.Get(id)
	if err != nil {
		return err
	}
	user.Active = false
	return s.Repo.Update(user)
}

func (s *UserService) List(role model.UserRole, class string, page, limit int) ([]model.User, int64, error) {
	return s.Repo.List(role, class, page, limit)
}
