package http

import (
	"net/http"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	"github.com/PhucHuuDang/GraphQL/pkg/response"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	mediaUseCase usecase.MediaUseCase
	logger       *logger.Logger
}

func NewUploadHandler(mediaUseCase usecase.MediaUseCase, logger *logger.Logger) *UploadHandler {
	return &UploadHandler{
		mediaUseCase: mediaUseCase,
		logger:       logger,
	}
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

// UploadImage godoc
// @Summary      Upload an image
// @Description  Stores a JPEG, PNG, GIF or WebP image (max 5 MB) and returns its public URL, for use as a post's mainImage or a user avatar
// @Tags         uploads
// @Accept       multipart/form-data
// @Produce      json
// @Security     SessionCookie
// @Param        file formData file true "Image file"
// @Success      201  {object}  UploadResponse
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      503  {object}  response.ErrorBody
// @Router       /api/v1/uploads [post]
func (h *UploadHandler) UploadImage(c *gin.Context) {
	identity, _ := middleware.IdentityFrom(c.Request.Context())

	header, err := c.FormFile("file")
	if err != nil {
		response.WriteError(c, errs.Validation("file", "file is required"))
		return
	}
	if header.Size > usecase.MaxImageSize {
		response.WriteError(c, errs.Validation("file", "file must not exceed 5MB"))
		return
	}

	file, err := header.Open()
	if err != nil {
		response.WriteError(c, errs.BadRequest("Failed to read uploaded file"))
		return
	}
	defer file.Close()

	url, err := h.mediaUseCase.UploadImage(c.Request.Context(), identity.UserID, header.Filename, header.Size, file)
	if err != nil {
		if appErr := errs.Resolve(err); appErr.StatusCode >= http.StatusInternalServerError {
			h.logger.Error("Failed to upload image: %v", err)
		}
		response.WriteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, UploadResponse{Success: true, Message: "Image uploaded successfully", URL: url})
}
