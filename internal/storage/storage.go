// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage uploads thumbnail images to an S3-compatible bucket
// (Cloudflare R2) and returns their public URLs.
package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/pdiddy/arxiv-daily/pkg/types"
)

// objectPutter is the slice of the minio client the uploader needs.
type objectPutter interface {
	PutObject(ctx context.Context, bucket, key string, r *bytes.Reader, size int64,
		opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// minioPutter adapts *minio.Client to objectPutter.
type minioPutter struct {
	client *minio.Client
}

func (p *minioPutter) PutObject(ctx context.Context, bucket, key string, r *bytes.Reader,
	size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return p.client.PutObject(ctx, bucket, key, r, size, opts)
}

// Uploader writes thumbnails to the configured bucket. Keys are content
// addressed, so re-uploading the same bytes is harmless.
type Uploader struct {
	putter        objectPutter
	bucket        string
	publicBaseURL string
}

// NewUploader builds an uploader from config. Call only when
// cfg.Configured() is true.
func NewUploader(cfg types.StorageConfig) (*Uploader, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: true,
		Region: "auto",
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}
	return &Uploader{
		putter:        &minioPutter{client: client},
		bucket:        cfg.Bucket,
		publicBaseURL: cfg.PublicBaseURL,
	}, nil
}

// UploadThumbnail stores the image bytes under a content-addressed key and
// returns the public URL.
func (u *Uploader) UploadThumbnail(ctx context.Context, data []byte, ext string) (string, error) {
	key := ObjectKey(data, ext)
	_, err := u.putter.PutObject(ctx, u.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  ContentType(ext),
			CacheControl: "public, max-age=31536000, immutable",
		})
	if err != nil {
		return "", fmt.Errorf("uploading thumbnail %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}

// ObjectKey derives the bucket key for an image from its content hash.
func ObjectKey(data []byte, ext string) string {
	return fmt.Sprintf("thumbnails/%x_w640_q70.%s", sha256.Sum256(data), ext)
}

// ContentType maps an image extension to its MIME type.
func ContentType(ext string) string {
	if ext == "jpg" {
		return "image/jpeg"
	}
	return "image/" + ext
}
