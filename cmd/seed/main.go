package main

import (
	"fmt"
	"log"

	"github.com/minjk/moamall-backend/config"
	"github.com/minjk/moamall-backend/internal/app/model"
	"github.com/minjk/moamall-backend/internal/app/repository"
	"github.com/minjk/moamall-backend/internal/app/service"
	"github.com/minjk/moamall-backend/internal/db"
	"github.com/shopspring/decimal"
)

// Seeds a small demo catalog: one apparel category with size and color
// attributes, one product that overrides the category's pricing for a
// premium color, and one pinned combination.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	gdb := db.GetDB()
	categoryRepo := repository.NewCategoryRepository(gdb)
	productRepo := repository.NewProductRepository(gdb)
	attributeRepo := repository.NewAttributeRepository(gdb)
	categoryAttributeRepo := repository.NewCategoryAttributeRepository(gdb)
	productAttributeRepo := repository.NewProductAttributeRepository(gdb)
	combinationRepo := repository.NewCombinationRepository(gdb)

	attributeService := service.NewAttributeService(
		attributeRepo, categoryAttributeRepo, productAttributeRepo, productRepo, categoryRepo,
	)
	optionService := service.NewOptionService(attributeRepo, categoryAttributeRepo, productAttributeRepo)
	pricingService := service.NewPricingService(productRepo, combinationRepo, attributeService, optionService)
	authService := service.NewAuthService(
		repository.NewAdminUserRepository(gdb),
		cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry,
	)

	// Default admin for local development
	if _, err := authService.CreateAdmin("admin@moamall.local", "admin1234", "Demo Admin", model.RoleAdmin); err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	// Global attributes
	size := &model.GlobalAttribute{
		Name: "size", DisplayName: "Size", Type: model.AttributeTypeSize,
		IsVariant: true, IsRequired: true, IsFilterable: true,
	}
	color := &model.GlobalAttribute{
		Name: "color", DisplayName: "Color", Type: model.AttributeTypeColor,
		IsVariant: true, IsRequired: true, IsFilterable: true, IsSwatch: true,
	}
	for _, attr := range []*model.GlobalAttribute{size, color} {
		if err := attributeService.CreateGlobalAttribute(attr); err != nil {
			log.Fatal("Failed to create attribute:", err)
		}
	}

	for _, value := range []string{"S", "M", "L", "XL"} {
		option := &model.GlobalAttributeOption{AttributeID: size.ID, Value: value}
		if err := optionService.AddGlobalOption(option); err != nil {
			log.Fatal("Failed to create size option:", err)
		}
	}
	colorOptions := map[string]*model.GlobalAttributeOption{}
	for _, value := range []string{"black", "white", "red"} {
		option := &model.GlobalAttributeOption{AttributeID: color.ID, Value: value}
		if err := optionService.AddGlobalOption(option); err != nil {
			log.Fatal("Failed to create color option:", err)
		}
		colorOptions[value] = option
	}

	// Category with overrides
	category := &model.Category{Name: "T-Shirts", Slug: "t-shirts", Description: "Demo apparel category"}
	if err := categoryRepo.Create(category); err != nil {
		log.Fatal("Failed to create category:", err)
	}

	fitLabel := "Fit"
	catSize, err := attributeService.AttachAttributeToCategory(category.ID, size.ID, service.AttributeOverrides{
		DisplayName: &fitLabel,
	})
	if err != nil {
		log.Fatal("Failed to attach size to category:", err)
	}
	catColor, err := attributeService.AttachAttributeToCategory(category.ID, color.ID, service.AttributeOverrides{})
	if err != nil {
		log.Fatal("Failed to attach color to category:", err)
	}

	// Category tier prices XL upward
	xlSurcharge := decimal.NewFromFloat(2.50)
	for _, value := range []string{"S", "M", "L", "XL"} {
		option := &model.CategoryAttributeOption{
			CategoryAttributeID: catSize.ID,
			Value:               value,
		}
		if value == "XL" {
			option.PriceAdjustment = &xlSurcharge
		}
		if err := optionService.AddCategoryOption(option); err != nil {
			log.Fatal("Failed to create category size option:", err)
		}
	}

	// Product
	product := &model.Product{
		CategoryID: category.ID,
		SKU:        "TSHIRT-DEMO-001",
		Name:       "Demo Crew Neck",
		BasePrice:  decimal.NewFromInt(100),
		IsActive:   true,
	}
	if err := productRepo.Create(product); err != nil {
		log.Fatal("Failed to create product:", err)
	}

	if _, err := attributeService.AttachAttributeToProduct(product.ID, size.ID, &catSize.ID, service.AttributeOverrides{}); err != nil {
		log.Fatal("Failed to attach size to product:", err)
	}
	prodColor, err := attributeService.AttachAttributeToProduct(product.ID, color.ID, &catColor.ID, service.AttributeOverrides{})
	if err != nil {
		log.Fatal("Failed to attach color to product:", err)
	}

	// Product tier replaces the color list: red becomes a premium colorway
	redSurcharge := decimal.NewFromInt(35)
	for value, globalOption := range colorOptions {
		option := &model.ProductAttributeOption{
			ProductAttributeID: prodColor.ID,
			BaseOptionID:       &globalOption.ID,
			Value:              value,
		}
		if value == "red" {
			option.PriceAdjustment = &redSurcharge
		}
		if err := optionService.AddProductOption(option); err != nil {
			log.Fatal("Failed to create product color option:", err)
		}
	}

	// Pin one combination below the additive price
	pinned := decimal.NewFromInt(30)
	combo, err := pricingService.CreateCombination(product.ID, map[uint]string{
		size.ID:  "XL",
		color.ID: "red",
	}, pinned, nil, nil)
	if err != nil {
		log.Fatal("Failed to create combination:", err)
	}

	fmt.Printf("Seeded demo catalog: category=%d product=%d combination=%s\n",
		category.ID, product.ID, combo.CombinationHash)
}
