package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"connectApp/internal/config"
)

// Storage - адаптер блоб-хранилища. SaveFile возвращает ссылку на
// сохранённый файл или пустую строку, если файл не прошёл проверку
// расширения (это не ошибка - поле просто пропускается).
type Storage interface {
	SaveFile(ctx context.Context, fileName string, file io.Reader, size int64) (string, error)
	DeleteFile(ctx context.Context, objectName string) error
}

var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".pdf":  true,
	".txt":  true,
}

type MinIOClient struct {
	client *minio.Client
	config *config.Config
}

func NewMinIOClient(cfg *config.Config) (*MinIOClient, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
		Region: cfg.MinIO.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации MinIO: %w", err)
	}

	return &MinIOClient{
		client: client,
		config: cfg,
	}, nil
}

func (m *MinIOClient) SaveFile(ctx context.Context, fileName string, file io.Reader, size int64) (string, error) {
	fileExt := strings.ToLower(filepath.Ext(fileName))
	if !allowedExtensions[fileExt] {
		log.Printf("Файл %s отклонён: недопустимое расширение", fileName)
		return "", nil
	}

	contentType := mime.TypeByExtension(fileExt)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	now := time.Now().UTC()
	objectName := fmt.Sprintf("%d/%02d/%s%s",
		now.Year(),
		now.Month(),
		uuid.New().String(),
		fileExt)

	_, err := m.client.PutObject(ctx, m.config.MinIO.BucketName, objectName, file, size,
		minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"original-filename": fileName,
				"uploaded-at":       now.Format(time.RFC3339),
			},
		})
	if err != nil {
		return "", fmt.Errorf("ошибка загрузки в MinIO: %w", err)
	}

	return m.objectURL(objectName), nil
}

func (m *MinIOClient) DeleteFile(ctx context.Context, objectName string) error {
	err := m.client.RemoveObject(ctx, m.config.MinIO.BucketName, objectName,
		minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("ошибка удаления из MinIO: %w", err)
	}
	return nil
}

func (m *MinIOClient) objectURL(objectName string) string {
	base := strings.TrimSuffix(m.config.MinIO.PublicURL, "/")
	return fmt.Sprintf("%s/%s/%s", base, m.config.MinIO.BucketName, objectName)
}
