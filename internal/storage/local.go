// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Local stores media files on the local filesystem under a media
// directory. Files are served by the application itself at /media/.
type Local struct {
	dir string
}

// NewLocal creates a local-disk backend rooted at dir, creating the
// directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &Local{dir: dir}, nil
}

// Dir returns the media directory root, for mounting a file server.
func (l *Local) Dir() string {
	return l.dir
}

func (l *Local) Save(_ context.Context, filename string, r io.Reader, _ int64) (string, error) {
	name := objectName(filename)
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	return name, nil
}

func (l *Local) Delete(_ context.Context, path string) error {
	// Stored paths are bare object names; reject anything that tries to
	// escape the media directory.
	if path != filepath.Base(path) {
		return fmt.Errorf("delete media file: invalid path %q", path)
	}
	err := os.Remove(filepath.Join(l.dir, path))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete media file: %w", err)
	}
	return nil
}

func (l *Local) URL(path string) string {
	return "/media/" + path
}
