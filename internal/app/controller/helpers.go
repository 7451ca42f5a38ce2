package controller

import (
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/model"
	"github.com/sohwakmo/cucumbermarket-backend/internal/app/service"
	apperrors "github.com/sohwakmo/cucumbermarket-backend/internal/errors"
	"github.com/sohwakmo/cucumbermarket-backend/internal/middleware"
	"github.com/sohwakmo/cucumbermarket-backend/internal/storage"
)

var errNoFile = errors.New("no file uploaded")

// parseIDParam parses a positive uint path parameter, responding 400 when malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, fmt.Sprintf("잘못된 %s 입니다", name))
		return 0, false
	}
	return uint(id), true
}

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	case errors.Is(err, service.ErrMemberNotFound):
		apperrors.NotFound(c, apperrors.MemberNotFound, "회원을 찾을 수 없습니다")
	case errors.Is(err, service.ErrInterestedNotFound):
		apperrors.NotFound(c, apperrors.InterestedNotFound, "관심 상품 내역을 찾을 수 없습니다")
	case errors.Is(err, service.ErrAlreadyInterested):
		apperrors.Conflict(c, apperrors.InterestedAlreadyExists, "이미 관심 상품으로 등록되어 있습니다")
	case errors.Is(err, service.ErrPhotoRequired), errors.Is(err, errNoFile):
		apperrors.BadRequest(c, apperrors.ProductPhotoRequired, "사진을 한 장 이상 등록해주세요")
	case errors.Is(err, service.ErrTooManyPhotos):
		apperrors.BadRequest(c, apperrors.ProductTooManyPhotos, fmt.Sprintf("사진은 최대 %d장까지 등록할 수 있습니다", model.PhotoSlotCount))
	case errors.Is(err, model.ErrPhotoSlotsFull):
		apperrors.Conflict(c, apperrors.ProductPhotoSlotsFull, "더 이상 사진을 추가할 수 없습니다")
	case errors.Is(err, model.ErrBuyerRequired):
		apperrors.BadRequest(c, apperrors.ProductBuyerRequired, "구매자를 지정해주세요")
	case errors.Is(err, storage.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, "파일 크기가 너무 큽니다")
	case errors.Is(err, storage.ErrContentTypeInvalid):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "이미지 파일만 업로드할 수 있습니다 (JPEG, PNG, GIF, WEBP)")
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, err, context)
	}
}

// openUploads validates and opens the multipart files of field.
// The caller closes the returned files.
func openUploads(c *gin.Context, field string) ([]service.PhotoUpload, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, func() {}, errNoFile
	}
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, func() {}, errNoFile
	}

	var opened []multipart.File
	closeAll := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	uploads := make([]service.PhotoUpload, 0, len(headers))
	for _, header := range headers {
		contentType := header.Header.Get("Content-Type")
		if err := storage.ValidateFileSize(header.Size, storage.MaxFileSize); err != nil {
			closeAll()
			return nil, func() {}, err
		}
		if err := storage.ValidateContentType(contentType, storage.AllowedImageTypes); err != nil {
			closeAll()
			return nil, func() {}, err
		}

		f, err := header.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		uploads = append(uploads, service.PhotoUpload{
			Filename:    header.Filename,
			ContentType: contentType,
			Content:     f,
		})
	}
	return uploads, closeAll, nil
}
