// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage persists uploaded media files. Two backends are
// provided: a local-disk backend served via /media/, and an
// S3-compatible backend for object stores like MinIO.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Backend stores uploaded files and resolves their public URLs.
type Backend interface {
	// Save writes the file contents under a generated name derived from
	// filename's extension and returns the stored path.
	Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error)
	// Delete removes a previously stored file. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for a stored path.
	URL(path string) string
}

// objectName builds a collision-resistant object name from the upload
// time and the original file's extension.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return strconv.FormatInt(time.Now().UnixNano(), 10) + "-" + uuid.NewString()[:8] + ext
}
