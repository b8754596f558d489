package handler

import (
	"github.com/labstack/echo/v4"

	"marketly/internal/domain/service"
	"marketly/pkg/errors"
	"marketly/pkg/logger"
	"marketly/pkg/response"
	"marketly/pkg/utils"
)

const maxUploadSize = 5 * 1024 * 1024

// FileHandler uploads listing photos. Chat images go through
// ConversationHandler so membership is checked.
type FileHandler struct {
	fileService service.FileUploadService
}

func NewFileHandler(fileService service.FileUploadService) *FileHandler {
	return &FileHandler{
		fileService: fileService,
	}
}

func (h *FileHandler) UploadListingPhoto(c echo.Context) error {
	if h.fileService == nil {
		return response.Error(c, errors.Internal("File storage is not configured", nil))
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}
	if file.Size > maxUploadSize {
		return response.Error(c, errors.BadRequest("Image exceeds the 5MB limit", nil))
	}

	fileType := file.Header.Get("Content-Type")
	if !utils.IsAllowedImageType(fileType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Unable to read file", err))
	}
	defer src.Close()

	userID := currentUser(c)
	url, err := h.fileService.UploadFile(c.Request().Context(), src, fileType, "listings/"+userID, true)
	if err != nil {
		logger.Error("Listing photo upload failed for %s: %v", userID, err)
		return response.Error(c, errors.Internal("Failed to upload file", err))
	}

	return response.Created(c, map[string]string{"url": url})
}

type signedURLRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

// GetSignedUploadURL lets clients upload large listing photos straight to
// the bucket.
func (h *FileHandler) GetSignedUploadURL(c echo.Context) error {
	if h.fileService == nil {
		return response.Error(c, errors.Internal("File storage is not configured", nil))
	}

	var req signedURLRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}
	if !utils.IsAllowedImageType(req.ContentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	url, err := h.fileService.GenerateSignedUploadURL(c.Request().Context(), req.ContentType, "listings/"+currentUser(c), true)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to create upload URL", err))
	}

	return response.Success(c, map[string]string{"upload_url": url})
}
