package uploads

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/udelbo/acme-admin/config"
)

// S3Store persists uploads into an S3-compatible bucket. The returned public
// path has the same shape as DirStore's so the stored image_url does not
// depend on the backend.
type S3Store struct {
	client       *minio.Client
	bucket       string
	publicPrefix string
}

func NewS3Store(cfg config.S3Config, publicPrefix string) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create s3 client")
	}
	return &S3Store{
		client:       client,
		bucket:       cfg.Bucket,
		publicPrefix: strings.Trim(publicPrefix, "/"),
	}, nil
}

func (s *S3Store) Save(ctx context.Context, filename string, content io.Reader, size int64, contentType string) (string, error) {
	key := path.Join(s.publicPrefix, filename)
	_, err := s.client.PutObject(ctx, s.bucket, key, content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", errors.Wrap(err, "put upload object")
	}
	return path.Join("/", s.publicPrefix, filename), nil
}
