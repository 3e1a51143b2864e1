// Package storage uploads media assets to object storage and reports the
// public URL they are served from.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"videotube/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// Upload is a received file spooled to local disk.
type Upload struct {
	Path        string
	Filename    string
	ContentType string
}

// MediaAsset is an uploaded file. Duration is only set for videos.
type MediaAsset struct {
	URL      string
	Bucket   string
	Object   string
	Duration float64
}

// MediaStore persists uploaded files. The caller owns the local file and
// removes it afterwards; the client supplied filename only contributes its
// extension to the stored object.
type MediaStore interface {
	UploadVideo(ctx context.Context, file *Upload) (*MediaAsset, error)
	UploadImage(ctx context.Context, file *Upload) (*MediaAsset, error)
	Remove(ctx context.Context, asset *MediaAsset) error
}

// DurationProber returns the playback length of a local media file in seconds.
type DurationProber func(path string) (float64, error)

type MinioStore struct {
	client      *minio.Client
	publicURL   string
	videoBucket string
	imageBucket string
	probe       DurationProber

	mu      sync.Mutex
	buckets map[string]bool
}

func NewMinioStore(cfg *config.StorageConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	log.Info().Str("endpoint", cfg.Endpoint).Msg("MinIO client ready")
	return &MinioStore{
		client:      client,
		publicURL:   strings.TrimRight(cfg.PublicURL, "/"),
		videoBucket: cfg.VideoBucket,
		imageBucket: cfg.ImageBucket,
		probe:       ProbeDuration,
		buckets:     make(map[string]bool),
	}, nil
}

// WithProber replaces the ffprobe based duration probe.
func (s *MinioStore) WithProber(probe DurationProber) *MinioStore {
	s.probe = probe
	return s
}

func (s *MinioStore) UploadVideo(ctx context.Context, file *Upload) (*MediaAsset, error) {
	duration, err := s.probe(file.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to probe video duration: %w", err)
	}

	asset, err := s.put(ctx, s.videoBucket, file)
	if err != nil {
		return nil, err
	}
	asset.Duration = duration
	return asset, nil
}

func (s *MinioStore) UploadImage(ctx context.Context, file *Upload) (*MediaAsset, error) {
	return s.put(ctx, s.imageBucket, file)
}

// Remove deletes an uploaded object, used to roll back a partial publish.
func (s *MinioStore) Remove(ctx context.Context, asset *MediaAsset) error {
	if err := s.client.RemoveObject(ctx, asset.Bucket, asset.Object, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s/%s: %w", asset.Bucket, asset.Object, err)
	}
	log.Debug().Str("bucket", asset.Bucket).Str("object", asset.Object).Msg("removed object")
	return nil
}

func (s *MinioStore) put(ctx context.Context, bucket string, file *Upload) (*MediaAsset, error) {
	if err := s.ensureBucket(ctx, bucket); err != nil {
		return nil, err
	}

	objectName := ObjectName(file.Filename)
	info, err := s.client.FPutObject(ctx, bucket, objectName, file.Path, minio.PutObjectOptions{ContentType: file.ContentType})
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	log.Debug().Str("bucket", bucket).Str("object", objectName).Int64("size", info.Size).Msg("uploaded object")
	return &MediaAsset{
		URL:    s.publicURL + "/" + bucket + "/" + objectName,
		Bucket: bucket,
		Object: objectName,
	}, nil
}

// ensureBucket creates bucket on first use
func (s *MinioStore) ensureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] {
		return nil
	}

	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket error: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket error: %w", err)
		}
		log.Info().Str("bucket", bucket).Msg("created bucket")
	}
	s.buckets[bucket] = true
	return nil
}

// ObjectName returns a collision free key that keeps the upload's extension.
func ObjectName(filename string) string {
	return uuid.NewString() + strings.ToLower(filepath.Ext(filename))
}

var _ MediaStore = (*MinioStore)(nil)
