package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/minjk/moamall-backend/internal/errors"
	"github.com/minjk/moamall-backend/internal/storage"
)

type UploadController struct {
	swatchStorage storage.SwatchStorage
}

func NewUploadController(swatchStorage storage.SwatchStorage) *UploadController {
	return &UploadController{swatchStorage: swatchStorage}
}

// UploadSwatch stores a swatch image and returns its public URL
// @Summary Upload swatch image
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Swatch image"
// @Success 201 {object} object
// @Router /uploads/swatches [post]
func (ctrl *UploadController) UploadSwatch(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "A file field is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apperrors.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key, err := ctrl.swatchStorage.Upload(c.Request.Context(), file, fileHeader.Size, contentType)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrUnsupportedContentType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed")
		case errors.Is(err, storage.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "File exceeds the 5 MiB limit")
		default:
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store file")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"key": key,
		"url": ctrl.swatchStorage.PublicURL(key),
	})
}

// PresignSwatchUpload hands out a short-lived direct upload URL
// @Summary Presign swatch upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Success 200 {object} object
// @Router /uploads/swatches/presign [post]
func (ctrl *UploadController) PresignSwatchUpload(c *gin.Context) {
	var input struct {
		ContentType string `json:"content_type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request body")
		return
	}

	key, uploadURL, err := ctrl.swatchStorage.PresignUpload(c.Request.Context(), input.ContentType, 15*time.Minute)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed")
			return
		}
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to presign upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":        key,
		"upload_url": uploadURL,
		"public_url": ctrl.swatchStorage.PublicURL(key),
	})
}
