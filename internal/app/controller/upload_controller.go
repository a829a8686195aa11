package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sportaccessories/storefront/internal/app/service"
	apperrors "github.com/sportaccessories/storefront/internal/errors"
	"github.com/sportaccessories/storefront/internal/middleware"
	"github.com/sportaccessories/storefront/internal/storage"
)

type UploadController struct {
	productService service.ProductService
}

func NewUploadController(productService service.ProductService) *UploadController {
	return &UploadController{productService: productService}
}

// UploadProductImage stores a multipart "image" file and points the product at it
// POST /api/products/:id/image (admin)
func (ctrl *UploadController) UploadProductImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		log.Warn("Missing image file", map[string]interface{}{
			"product_id": id,
			"error":      err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationRequired, "An image file is required in the \"image\" field")
		return
	}

	file, err := header.Open()
	if err != nil {
		log.Error("Failed to open uploaded file", err)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to read the uploaded file")
		return
	}
	defer file.Close()

	product, err := ctrl.productService.AttachImage(c.Request.Context(), id, service.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidFileType):
			apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only JPEG, PNG, GIF and WEBP images are allowed")
		case errors.Is(err, storage.ErrFileTooLarge):
			apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "The image is empty or too large")
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		default:
			log.Error("Failed to upload product image", err, map[string]interface{}{
				"product_id": id,
			})
			apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to store the image")
		}
		return
	}

	log.Info("Product image uploaded", map[string]interface{}{
		"product_id": id,
		"url":        product.ImageURL,
	})
	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully",
		"product": product,
	})
}
