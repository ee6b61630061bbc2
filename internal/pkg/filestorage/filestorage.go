// Package filestorage stores uploaded call images on disk or in S3.
package filestorage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// FileStorage defines the interface for image storage operations
type FileStorage interface {
	// Save stores the content under prefix and returns the public URL.
	Save(ctx context.Context, prefix, filename, contentType string, r io.Reader) (string, error)

	// Delete removes a file previously returned by Save. Unknown URLs are ignored.
	Delete(ctx context.Context, url string) error
}

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageExtension returns the file extension for an accepted image content type.
func ImageExtension(contentType string) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	ext, ok := allowedImageTypes[ct]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return ext, nil
}

// objectKey builds a collision-free key, keeping the extension of filename.
func objectKey(prefix, filename, contentType string) string {
	ext := path.Ext(filename)
	if ext == "" {
		ext, _ = ImageExtension(contentType)
	}
	key := uuid.New().String() + strings.ToLower(ext)
	if prefix != "" {
		key = strings.Trim(prefix, "/") + "/" + key
	}
	return key
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
