/*
Package storage provides the object storage service used for user avatars.

Uploads never pass through the API server: the client asks for a presigned
PUT URL and talks to the bucket directly.
*/
package storage

import (
	"context"
	"time"
)

// ServiceConfig holds the connection settings for the storage backend.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// Service is the storage interface the handlers depend on.
type Service interface {
	// PresignUpload returns a time-limited URL for uploading an object with
	// the given key, MIME type, and exact size.
	PresignUpload(ctx context.Context, key string, mimeType string, fileSize int64, duration time.Duration) (string, error)

	// Delete removes the object with the given key.
	Delete(ctx context.Context, key string) error
}

// NewService builds a Service for the configured S3-compatible backend.
func NewService(cfg ServiceConfig) (Service, error) {
	return newS3Client(cfg)
}
