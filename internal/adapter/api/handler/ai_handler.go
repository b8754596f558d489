package handler

import (
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"marketly/internal/domain/service"
	"marketly/internal/usecase"
	"marketly/pkg/errors"
	"marketly/pkg/response"
	"marketly/pkg/utils"
)

type AIHandler struct {
	aiUseCase *usecase.AIUseCase
}

func NewAIHandler(aiUseCase *usecase.AIUseCase) *AIHandler {
	return &AIHandler{
		aiUseCase: aiUseCase,
	}
}

// AnalyzePhotos accepts up to four "images" parts and returns a price estimate.
func (h *AIHandler) AnalyzePhotos(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, errors.BadRequest("Expected a multipart form", err))
	}

	files := form.File["images"]
	images := make([]service.ImageInput, 0, len(files))
	for _, file := range files {
		contentType := file.Header.Get("Content-Type")
		if !utils.IsAllowedImageType(contentType) {
			return response.Error(c, errors.BadRequest("File type not supported", nil))
		}
		if file.Size > maxUploadSize {
			return response.Error(c, errors.BadRequest("Image exceeds the 5MB limit", nil))
		}

		src, err := file.Open()
		if err != nil {
			return response.Error(c, errors.Internal("Unable to read file", err))
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			return response.Error(c, errors.Internal("Unable to read file", err))
		}

		images = append(images, service.ImageInput{
			Format: imageFormat(contentType),
			Data:   data,
		})
	}

	analysis, err := h.aiUseCase.AnalyzePhotos(c.Request().Context(), currentUser(c), images)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, analysis)
}

func imageFormat(contentType string) string {
	format := strings.TrimPrefix(contentType, "image/")
	if format == "jpg" {
		return "jpeg"
	}
	return format
}
