package service

import (
	"strings"

	"github.com/krishimart/krishimart/internal/models"
	"github.com/krishimart/krishimart/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo repository.CategoryRepository
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	Image       string
	IsActive    *bool
	SortOrder   int
}

// ListActive 获取启用的分类列表
func (s *CategoryService) ListActive() ([]models.Category, error) {
	return s.repo.ListActive()
}

// List 分页获取分类列表（管理端）
func (s *CategoryService) List(filter repository.CategoryListFilter) ([]models.Category, int64, error) {
	return s.repo.List(filter)
}

// GetByID 获取分类详情
func (s *CategoryService) GetByID(id uint) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// GetBySlug 按 slug 获取分类
func (s *CategoryService) GetBySlug(slug string) (*models.Category, error) {
	category, err := s.repo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.TrimSpace(input.Slug)

	count, err := s.repo.CountBySlug(slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}

	category := models.Category{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(input.Description),
		Image:       strings.TrimSpace(input.Image),
		IsActive:    true,
		SortOrder:   input.SortOrder,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}

	slug := strings.TrimSpace(input.Slug)
	count, err := s.repo.CountBySlug(slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrCategorySlugExists
	}

	category.Name = strings.TrimSpace(input.Name)
	category.Slug = slug
	category.Description = strings.TrimSpace(input.Description)
	category.Image = strings.TrimSpace(input.Image)
	category.SortOrder = input.SortOrder
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete 删除分类（存在商品时拒绝）
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}

	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryHasProducts
	}
	return s.repo.Delete(id)
}
