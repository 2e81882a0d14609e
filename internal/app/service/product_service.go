package service

import (
	"errors"

	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrProductSKUExists = errors.New("product SKU already exists")
)

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProduct(id uint) (*model.Product, error)
	ListProducts(categoryID *uint) ([]model.Product, error)
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) ProductService {
	return &productService{productRepo: productRepo, categoryRepo: categoryRepo}
}

func (s *productService) CreateProduct(product *model.Product) error {
	if _, err := s.categoryRepo.FindByID(product.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := s.productRepo.Create(product); err != nil {
		if isUniqueViolation(err) {
			return ErrProductSKUExists
		}
		return err
	}
	return nil
}

func (s *productService) GetProduct(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) ListProducts(categoryID *uint) ([]model.Product, error) {
	if categoryID != nil {
		return s.productRepo.FindByCategoryID(*categoryID)
	}
	return s.productRepo.FindAll()
}

func (s *productService) UpdateProduct(product *model.Product) error {
	if _, err := s.productRepo.FindByID(product.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	if err := s.productRepo.Update(product); err != nil {
		if isUniqueViolation(err) {
			return ErrProductSKUExists
		}
		return err
	}
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}
