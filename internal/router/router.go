package router

import (
	"github.com/gin-gonic/gin"
	"github.com/minjk/moamall-backend/config"
	"github.com/minjk/moamall-backend/internal/app/controller"
	"github.com/minjk/moamall-backend/internal/middleware"
)

type Router struct {
	authController              *controller.AuthController
	categoryController          *controller.CategoryController
	productController           *controller.ProductController
	attributeController         *controller.AttributeController
	categoryAttributeController *controller.CategoryAttributeController
	productAttributeController  *controller.ProductAttributeController
	pricingController           *controller.PricingController
	valueController             *controller.ValueController
	uploadController            *controller.UploadController
	config                      *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	categoryController *controller.CategoryController,
	productController *controller.ProductController,
	attributeController *controller.AttributeController,
	categoryAttributeController *controller.CategoryAttributeController,
	productAttributeController *controller.ProductAttributeController,
	pricingController *controller.PricingController,
	valueController *controller.ValueController,
	uploadController *controller.UploadController,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:              authController,
		categoryController:          categoryController,
		productController:           productController,
		attributeController:         attributeController,
		categoryAttributeController: categoryAttributeController,
		productAttributeController:  productAttributeController,
		pricingController:           pricingController,
		valueController:             valueController,
		uploadController:            uploadController,
		config:                      cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "MOAMALL catalog API is running",
		})
	})

	admin := middleware.Authenticate(r.config.JWT.Secret)
	adminOnly := middleware.RequireAdmin()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.Refresh)
			auth.GET("/me", admin, r.authController.Me)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/:id", r.categoryController.GetCategory)
			categories.GET("/:id/attributes", r.categoryAttributeController.ListAttributes)
			categories.GET("/:id/filters", r.valueController.CategoryFilters)

			categories.POST("", admin, adminOnly, r.categoryController.CreateCategory)
			categories.PUT("/:id", admin, adminOnly, r.categoryController.UpdateCategory)
			categories.DELETE("/:id", admin, adminOnly, r.categoryController.DeleteCategory)
			categories.POST("/:id/attributes", admin, adminOnly, r.categoryAttributeController.AttachAttribute)
		}

		categoryAttributes := v1.Group("/category-attributes", admin, adminOnly)
		{
			categoryAttributes.PUT("/:attachmentId", r.categoryAttributeController.UpdateOverrides)
			categoryAttributes.DELETE("/:attachmentId", r.categoryAttributeController.DetachAttribute)
			categoryAttributes.POST("/:attachmentId/options", r.categoryAttributeController.AddOption)
			categoryAttributes.DELETE("/options/:optionId", r.categoryAttributeController.DeleteOption)
		}

		attributes := v1.Group("/attributes")
		{
			attributes.GET("", r.attributeController.ListAttributes)
			attributes.GET("/:id", r.attributeController.GetAttribute)

			attributes.POST("", admin, adminOnly, r.attributeController.CreateAttribute)
			attributes.PUT("/:id", admin, adminOnly, r.attributeController.UpdateAttribute)
			attributes.DELETE("/:id", admin, adminOnly, r.attributeController.DeleteAttribute)
			attributes.POST("/:id/options", admin, adminOnly, r.attributeController.AddOption)
			attributes.DELETE("/options/:optionId", admin, adminOnly, r.attributeController.DeleteOption)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/:id", r.productController.GetProduct)
			products.GET("/:id/attributes", r.productAttributeController.GetResolvedAttributes)
			products.GET("/:id/values", r.valueController.ListValues)
			products.GET("/:id/combinations", r.pricingController.ListCombinations)
			products.POST("/:id/price", r.pricingController.ComputePrice)

			products.POST("", admin, adminOnly, r.productController.CreateProduct)
			products.PUT("/:id", admin, adminOnly, r.productController.UpdateProduct)
			products.DELETE("/:id", admin, adminOnly, r.productController.DeleteProduct)
			products.POST("/:id/attributes", admin, adminOnly, r.productAttributeController.AttachAttribute)
			products.POST("/:id/values", admin, adminOnly, r.valueController.AssignValue)
			products.POST("/:id/combinations", admin, adminOnly, r.pricingController.CreateCombination)
			products.GET("/:id/combinations/export", admin, adminOnly, r.pricingController.ExportCombinations)
		}

		productAttributes := v1.Group("/product-attributes", admin, adminOnly)
		{
			productAttributes.PUT("/:attachmentId", r.productAttributeController.UpdateOverrides)
			productAttributes.DELETE("/:attachmentId", r.productAttributeController.RemoveAttribute)
			productAttributes.POST("/:attachmentId/options", r.productAttributeController.AddOption)
			productAttributes.PUT("/options/:optionId", r.productAttributeController.UpdateOption)
			productAttributes.DELETE("/options/:optionId", r.productAttributeController.DeleteOption)
		}

		combinations := v1.Group("/combinations", admin, adminOnly)
		{
			combinations.PUT("/:combinationId", r.pricingController.UpdateCombination)
			combinations.DELETE("/:combinationId", r.pricingController.DeleteCombination)
		}

		values := v1.Group("/values", admin, adminOnly)
		{
			values.PUT("/:valueId", r.valueController.UpdateValue)
			values.DELETE("/:valueId", r.valueController.DeleteValue)
		}

		uploads := v1.Group("/uploads", admin, adminOnly)
		{
			uploads.POST("/swatches", r.uploadController.UploadSwatch)
			uploads.POST("/swatches/presign", r.uploadController.PresignSwatchUpload)
		}
	}

	return router
}
