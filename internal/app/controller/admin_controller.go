package controller

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vibeprint/storefront/internal/app/service"
	apperrors "github.com/vibeprint/storefront/internal/errors"
	"github.com/vibeprint/storefront/internal/middleware"
	"github.com/vibeprint/storefront/internal/storage"
)

const catalogSyncTimeout = 2 * time.Minute

// UploadSigner hands out presigned PUT URLs. nil disables uploads.
type UploadSigner interface {
	PresignUpload(ctx context.Context, key, contentType string) (*storage.PresignedURLResponse, error)
}

type AdminController struct {
	authService  service.AuthService
	catalogSync  service.CatalogSyncService
	uploads      UploadSigner
	catalogS3Key string
}

func NewAdminController(
	authService service.AuthService,
	catalogSync service.CatalogSyncService,
	uploads UploadSigner,
	catalogS3Key string,
) *AdminController {
	return &AdminController{
		authService:  authService,
		catalogSync:  catalogSync,
		uploads:      uploads,
		catalogS3Key: catalogS3Key,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type PresignUploadRequest struct {
	Kind        string `json:"kind" binding:"required,oneof=image catalog"`
	ContentType string `json:"content_type" binding:"required"`
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Login exchanges the operator's credentials for an access token
// POST /api/v1/admin/login
func (ctrl *AdminController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Email and password are required")
		return
	}

	token, err := ctrl.authService.Login(req.Email, req.Password)
	if err != nil {
		respondWithServiceError(c, err, "login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// SyncCatalog re-imports the catalog document now
// POST /api/v1/admin/catalog/sync
func (ctrl *AdminController) SyncCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	ctx, cancel := context.WithTimeout(c.Request.Context(), catalogSyncTimeout)
	defer cancel()

	result, err := ctrl.catalogSync.Sync(ctx)
	if err != nil {
		log.Error("Manual catalog sync failed", err)
		respondWithServiceError(c, err, "catalog")
		return
	}

	email, _ := middleware.GetUserEmail(c)
	log.Info("Manual catalog sync completed", map[string]interface{}{
		"by":       email,
		"products": result.Products,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Catalog synced",
		"result":  result,
	})
}

// PresignUpload returns a presigned S3 URL for a product image or for the
// catalog document itself
// POST /api/v1/admin/uploads/presigned-url
func (ctrl *AdminController) PresignUpload(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	if ctrl.uploads == nil {
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalConfigError, "Object storage is not configured")
		return
	}

	var req PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "kind (image or catalog) and content_type are required")
		return
	}

	key, err := ctrl.uploadKey(req)
	if err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}

	resp, err := ctrl.uploads.PresignUpload(c.Request.Context(), key, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"key": key,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to generate upload URL")
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"key": key,
	})
	c.JSON(http.StatusOK, resp)
}

func (ctrl *AdminController) uploadKey(req PresignUploadRequest) (string, error) {
	if req.Kind == "catalog" {
		if req.ContentType != "application/json" {
			return "", fmt.Errorf("the catalog must be uploaded as application/json")
		}
		return ctrl.catalogS3Key, nil
	}

	ext, ok := allowedImageTypes[req.ContentType]
	if !ok {
		return "", fmt.Errorf("only JPEG, PNG and WEBP images are allowed")
	}
	return fmt.Sprintf("products/%s/%s%s", time.Now().Format("2006/01"), uuid.NewString(), ext), nil
}
