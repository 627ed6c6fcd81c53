package minio

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"

	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// ImageUploadURL генерирует presigned PUT URL для картинки новости.
// Ключ имеет вид "news/<countryID>/<uuid><ext>"; клиент обязан передать
// RequiredHeader при загрузке.
func (s *ImagesStorage) ImageUploadURL(ctx context.Context, countryID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/images/ImageUploadURL"

	if strings.TrimSpace(countryID) == "" {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if contentLength <= 0 || contentLength > s.limits.MaxSizeBytes {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if !isAllowedContentType(s.limits.AllowedContentTypes, contentType) {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	key := ImageKey(countryID, uuid.NewString(), contentType)

	u, err := s.client.PresignedPutObject(ctx, s.s3.Bucket, key, s.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		ImageKey:  key,
		Expires:   s.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": fmt.Sprintf("%d", contentLength),
		},
	}, nil
}

// CheckImageUpload подтверждает загрузку по key и возвращает публичный URL
// (пустая строка, если s3.public_base_url не задан).
func (s *ImagesStorage) CheckImageUpload(ctx context.Context, countryID, key string) (string, error) {
	const op = "storage/minio/images/CheckImageUpload"

	if !strings.HasPrefix(key, "news/"+countryID+"/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	info, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > s.limits.MaxSizeBytes {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	if ct := info.ContentType; ct != "" && !isAllowedContentType(s.limits.AllowedContentTypes, ct) {
		return "", fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	return PublicURL(s.s3.PublicBaseURL, key), nil
}

// ImageKey собирает ключ объекта; расширение выводится из content-type.
func ImageKey(countryID, name, contentType string) string {
	var ext string
	switch contentType {
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	case "image/webp":
		ext = ".webp"
	case "image/gif":
		ext = ".gif"
	}

	return path.Join("news", countryID, name+ext)
}

// PublicURL склеивает базовый публичный адрес и ключ.
func PublicURL(base, key string) string {
	if base == "" {
		return ""
	}

	return strings.TrimRight(base, "/") + "/" + key
}

func isAllowedContentType(allow []string, contentType string) bool {
	for _, a := range allow {
		if a == contentType {
			return true
		}
	}

	return false
}
