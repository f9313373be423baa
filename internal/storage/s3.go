// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3 stores media files in an S3-compatible bucket (MinIO, CEPH).
// Objects are uploaded with public-read expectations; the bucket policy
// is assumed to allow anonymous GET.
type S3 struct {
	client    *minio.Client
	bucket    string
	publicURL string // optional CDN/direct URL, path-style endpoint otherwise
}

// NewS3 creates an S3 backend and makes sure the bucket exists.
func NewS3(ctx context.Context, endpoint, accessKey, secretKey, bucket, publicURL string, useSSL bool) (*S3, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %q: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %q: %w", bucket, err)
		}
	}

	return &S3{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

func (s *S3) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	name := objectName(filename)
	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", s.bucket, name, err)
	}
	return name, nil
}

func (s *S3) Delete(ctx context.Context, path string) error {
	err := s.client.RemoveObject(ctx, s.bucket, path, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", s.bucket, path, err)
	}
	return nil
}

func (s *S3) URL(path string) string {
	if s.publicURL != "" {
		return s.publicURL + "/" + path
	}
	return s.client.EndpointURL().String() + "/" + s.bucket + "/" + path
}
