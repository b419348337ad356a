package service

import (
	"time"

	"github.com/krishimart/krishimart/internal/constants"
	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"
)

// UserService 用户管理服务（管理端）
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService 创建用户管理服务
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// List 用户列表
func (s *UserService) List(filter repository.UserListFilter) ([]models.User, int64, error) {
	return s.userRepo.List(filter)
}

// GetByID 用户详情
func (s *UserService) GetByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// SetStatus 启用/禁用用户（禁用同时吊销已签发令牌）
func (s *UserService) SetStatus(id uint, status string) (*models.User, error) {
	if status != constants.UserStatusActive && status != constants.UserStatusDisabled {
		return nil, ErrUserStatusInvalid
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == status {
		return user, nil
	}

	user.Status = status
	if status == constants.UserStatusDisabled {
		user.TokenVersion++
		now := time.Now()
		user.TokenInvalidBefore = &now
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
