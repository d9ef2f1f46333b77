package usecase

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/s3"
)

const MaxImageSize = 5 << 20

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type MediaUseCase interface {
	UploadImage(ctx context.Context, userID, filename string, size int64, body io.ReadSeeker) (string, error)
}

type mediaUseCase struct {
	storage s3.Storage
	logger  *logger.Logger
}

// NewMediaUseCase accepts a nil storage; uploads then fail as unavailable.
func NewMediaUseCase(storage s3.Storage, logger *logger.Logger) MediaUseCase {
	return &mediaUseCase{storage: storage, logger: logger}
}

// UploadImage stores an image under the user's prefix and returns its
// public URL. The content type is sniffed from the bytes.
func (uc *mediaUseCase) UploadImage(ctx context.Context, userID, filename string, size int64, body io.ReadSeeker) (string, error) {
	if uc.storage == nil {
		return "", errs.ServiceUnavailable("Image storage is not configured", nil)
	}
	if size <= 0 {
		return "", errs.Validation("file", "file is empty")
	}
	if size > MaxImageSize {
		return "", errs.Validation("file", "file must not exceed 5MB")
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", errs.BadRequest("Failed to read file")
	}
	contentType := strings.SplitN(http.DetectContentType(head[:n]), ";", 2)[0]
	if !imageTypes[contentType] {
		return "", errs.Validation("file", "file must be a JPEG, PNG, GIF or WebP image")
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		return "", errs.Internal("Failed to rewind file", err)
	}

	key := s3.ImageKey(userID, filename)
	url, err := uc.storage.Upload(ctx, key, body, contentType)
	if err != nil {
		return "", errs.ServiceUnavailable("Failed to upload image", err)
	}

	uc.logger.Info("User %s uploaded %s", userID, key)
	return url, nil
}
