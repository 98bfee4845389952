package service

import (
	"context"
	"io"
)

// ImageStorage stores uploaded product images and returns their public URL.
type ImageStorage interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
	// Open returns the object stored under key and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
	// Delete removes an image previously returned by Save. Other URLs are ignored.
	Delete(ctx context.Context, url string) error
}
