package minio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	ep, secure := normalizeEndpoint("https://s3.example.com")
	require.Equal(t, "s3.example.com", ep)
	require.True(t, secure)

	ep, secure = normalizeEndpoint("http://minio:9000")
	require.Equal(t, "minio:9000", ep)
	require.False(t, secure)

	ep, secure = normalizeEndpoint("minio:9000")
	require.Equal(t, "minio:9000", ep)
	require.False(t, secure)
}

func TestImageKeyAndPublicURL(t *testing.T) {
	t.Parallel()

	require.Equal(t, "news/c1/abc.png", ImageKey("c1", "abc", "image/png"))
	require.Equal(t, "news/c1/abc", ImageKey("c1", "abc", "application/octet-stream"))

	require.Equal(t, "", PublicURL("", "news/c1/abc.png"))
	require.Equal(t, "http://cdn/img/news/c1/abc.png", PublicURL("http://cdn/img/", "news/c1/abc.png"))
}

// Валидация выполняется до обращения к MinIO, поэтому клиент не нужен.
func TestImageUploadURL_Validation(t *testing.T) {
	t.Parallel()

	s := &ImagesStorage{limits: config.ImagesConfig{
		MaxSizeBytes:        1024,
		AllowedContentTypes: []string{"image/png"},
	}}
	ctx := context.Background()

	_, err := s.ImageUploadURL(ctx, "", "image/png", 10)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = s.ImageUploadURL(ctx, "c1", "image/png", 0)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = s.ImageUploadURL(ctx, "c1", "image/png", 4096)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = s.ImageUploadURL(ctx, "c1", "image/svg+xml", 10)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = s.CheckImageUpload(ctx, "c1", "news/c2/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = s.CheckImageUpload(ctx, "c1", "news/c1/../c2/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}
