// Package storage keeps product images in a gocloud.dev blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"ferremas/config"
	deliverycontext "ferremas/internal/delivery/context"
	domainerrors "ferremas/internal/domain/errors"
	"ferremas/internal/domain/service"
	"ferremas/internal/errors"
	"ferremas/internal/util"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"
)

const keyPrefix = "products/"

var allowedExtensions = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
}

// BlobStorage implements service.ImageStorage on a blob.Bucket.
type BlobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
	logger        *slog.Logger
}

// StorageParams holds dependencies for ImageStorage, injected by Fx.
type StorageParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewImageStorage opens storage.bucketUrl and closes it on shutdown.
func NewImageStorage(params StorageParams) (service.ImageStorage, error) {
	cfg := params.Config.Storage

	bucket, err := blob.OpenBucket(params.Ctx, cfg.BucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", cfg.BucketURL)
	}

	params.Logger.Info("Image storage opened", slog.String("bucket_url", cfg.BucketURL))

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return errors.WithStack(bucket.Close())
		},
	})

	return NewBlobStorage(bucket, cfg.PublicBaseURL, params.Logger), nil
}

func NewBlobStorage(bucket *blob.Bucket, publicBaseURL string, logger *slog.Logger) *BlobStorage {
	return &BlobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Save stores r under a random key keeping the file extension.
func (s *BlobStorage) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	defaultType, ok := allowedExtensions[ext]
	if !ok {
		return "", domainerrors.ErrInvalidImage.WithDetails(filename)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = defaultType
	}

	key := keyPrefix + uuid.New().String() + ext

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", domainerrors.ErrImageUploadFailed.WithDetails(err.Error())
	}
	size, err := io.Copy(w, r)
	if err != nil {
		_ = w.Close()

		return "", domainerrors.ErrImageUploadFailed.WithDetails(err.Error())
	}
	if err := w.Close(); err != nil {
		return "", domainerrors.ErrImageUploadFailed.WithDetails(err.Error())
	}

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).InfoContext(ctx, "Product image stored",
		slog.String("key", key),
		slog.String("original_filename", filename),
		slog.String("size", util.FormatBytes(size)))

	return s.publicBaseURL + "/" + key, nil
}

func (s *BlobStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(key, keyPrefix) || strings.Contains(key, "..") {
		return nil, "", domainerrors.ErrNotFound
	}

	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domainerrors.ErrNotFound
		}

		return nil, "", errors.WithStack(err)
	}

	return r, r.ContentType(), nil
}

func (s *BlobStorage) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, s.publicBaseURL+"/")
	if !ok || !strings.HasPrefix(key, keyPrefix) {
		return nil
	}

	if err := s.bucket.Delete(ctx, key); err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.WithStack(err)
	}

	return nil
}
