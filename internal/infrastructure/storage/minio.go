// Package storage guarda los adjuntos (foto de la OS, logo, QR PIX) en un bucket S3/MinIO.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	appos "github.com/jhoicas/OrdemServico-api/internal/application/serviceorder"
	"github.com/jhoicas/OrdemServico-api/internal/domain"
	"github.com/jhoicas/OrdemServico-api/pkg/config"
	"github.com/jhoicas/OrdemServico-api/pkg/logger"
)

var _ appos.FileStorage = (*MinIOStorage)(nil)

// MinIOStorage implementa serviceorder.FileStorage.
type MinIOStorage struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

// NewMinIOStorage conecta con el endpoint y crea el bucket si no existe.
func NewMinIOStorage(ctx context.Context, cfg config.StorageConfig, log *logger.Logger) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: crear cliente: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("storage: verificar bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: crear bucket: %w", err)
		}
		log.Info().Str("bucket", cfg.Bucket).Msg("bucket creado")
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &MinIOStorage{client: client, bucket: cfg.Bucket, expiry: expiry}, nil
}

// Upload sube el objeto; una clave existente se sobrescribe.
func (s *MinIOStorage) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("storage: subir %s: %w", key, err)
	}
	return nil
}

// Download devuelve el contenido. Clave inexistente → domain.ErrNotFound.
func (s *MinIOStorage) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("storage: obtener %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("storage: leer %s: %w", key, err)
	}
	return data, nil
}

// URL enlace prefirmado de descarga.
func (s *MinIOStorage) URL(ctx context.Context, key string) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("storage: url de %s: %w", key, err)
	}
	return u.String(), nil
}
