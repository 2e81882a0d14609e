package service

import (
	"errors"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound   = errors.New("category not found")
	ErrCategorySlugExists = errors.New("category slug already exists")
)

type CategoryService interface {
	CreateCategory(category *model.Category) error
	GetCategory(id uint) (*model.Category, error)
	GetCategoryBySlug(slug string) (*model.Category, error)
	ListCategories() ([]model.Category, error)
	UpdateCategory(category *model.Category) error
	DeleteCategory(id uint) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) CreateCategory(category *model.Category) error {
	if err := s.categoryRepo.Create(category); err != nil {
		if isUniqueViolation(err) {
			return ErrCategorySlugExists
		}
		return err
	}
	return nil
}

func (s *categoryService) GetCategory(id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) GetCategoryBySlug(slug string) (*model.Category, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) ListCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *categoryService) UpdateCategory(category *model.Category) error {
	if _, err := s.categoryRepo.FindByID(category.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := s.categoryRepo.Update(category); err != nil {
		if isUniqueViolation(err) {
			return ErrCategorySlugExists
		}
		return err
	}
	return nil
}

func (s *categoryService) DeleteCategory(id uint) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}
