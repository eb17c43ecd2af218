package objecttree

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"

	"github.com/jmgilman/go/filecollection/errors"
)

// store is the slice of the object-store API an object tree needs.
type store interface {
	// list streams the objects below prefix, recursively and sorted by key.
	// The channel is closed when listing ends or ctx is cancelled.
	list(ctx context.Context, prefix string) <-chan minio.ObjectInfo

	// fetch opens an object for reading.
	fetch(ctx context.Context, key string) (io.ReadCloser, error)
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func (s *minioStore) list(ctx context.Context, prefix string) <-chan minio.ObjectInfo {
	return s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
}

func (s *minioStore) fetch(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
}

// translate maps object-store failures to error codes.
func translate(err error, message string, fields map[string]any) error {
	code := errors.CodeResolveFailed
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		code = errors.CodeNotFound
	case "SlowDown", "ServiceUnavailable", "RequestTimeout", "InternalError":
		code = errors.CodeUnavailable
	case "":
		// no S3 error response, so the request itself failed
		code = errors.CodeNetwork
	}
	return errors.WrapWithContext(err, code, message, fields)
}
