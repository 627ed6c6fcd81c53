// minio — реализация storage.Images на базе MinIO/S3.
// minio.go — конструктор клиента: нормализует endpoint, настраивает Secure/creds
// и проверяет наличие бакета; images.go — presigned PUT и подтверждение загрузки.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pribylovaa/lapa-nations/internal/config"
	"github.com/pribylovaa/lapa-nations/internal/storage"
)

// ImagesStorage — адаптер MinIO для изображений новостей.
type ImagesStorage struct {
	s3     config.S3Config
	limits config.ImagesConfig
	client *mclient.Client
}

// New создаёт клиент MinIO и выполняет fail-fast-проверку бакета.
func New(ctx context.Context, cfg *config.Config) (*ImagesStorage, error) {
	const op = "storage/minio/New"

	endpoint, secure := normalizeEndpoint(cfg.S3.Endpoint)

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(cfg.S3.RootUser, cfg.S3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := client.BucketExists(ctx, cfg.S3.Bucket)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s: bucket %q does not exist", op, cfg.S3.Bucket)
	}

	return &ImagesStorage{s3: cfg.S3, limits: cfg.Images, client: client}, nil
}

// normalizeEndpoint убирает схему из endpoint и выводит по ней Secure.
func normalizeEndpoint(raw string) (string, bool) {
	endpoint := raw
	secure := strings.HasPrefix(raw, "https://")

	if u, err := url.Parse(raw); err == nil && u.Scheme != "" && u.Host != "" {
		endpoint = u.Host
		secure = u.Scheme == "https"
	}

	return endpoint, secure
}

var _ storage.Images = (*ImagesStorage)(nil)
