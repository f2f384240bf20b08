package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// XLSXContentType is the MIME type of uploaded workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BucketUploader copies exported files to a Cloud Storage bucket
type BucketUploader struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

// NewBucketUploader creates an uploader for bucket
func NewBucketUploader(ctx context.Context, bucket string, logger zerolog.Logger, opts ...option.ClientOption) (*BucketUploader, error) {
	if bucket == "" {
		return nil, errors.New("gcs uploader: bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	return &BucketUploader{
		client: client,
		bucket: bucket,
		log:    logger.With().Str("component", "gcs").Str("bucket", bucket).Logger(),
	}, nil
}

// Upload copies localPath to object and returns its gs:// URI
func (u *BucketUploader) Upload(ctx context.Context, localPath, object string) (string, error) {
	uri := fmt.Sprintf("gs://%s/%s", u.bucket, object)
	if object == "" {
		return "", &Error{Op: "upload", Target: uri, Err: errors.New("object name is required")}
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", &Error{Op: "upload", Target: uri, Err: err}
	}
	defer src.Close()

	w := u.client.Bucket(u.bucket).Object(object).NewWriter(ctx)
	w.ContentType = XLSXContentType

	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return "", &Error{Op: "upload", Target: uri, Err: err}
	}
	if err := w.Close(); err != nil {
		return "", &Error{Op: "upload", Target: uri, Err: err}
	}

	u.log.Info().Str("object", object).Msg("Workbook uploaded")
	return uri, nil
}

// Close releases the storage client
func (u *BucketUploader) Close() error {
	return u.client.Close()
}
