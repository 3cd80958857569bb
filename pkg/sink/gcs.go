package sink

import (
	"context"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/logger"
)

// gcsSink writes objects with the Cloud Storage client
type gcsSink struct {
	bucket string
	prefix string
	client *storage.Client
	handle *storage.BucketHandle
}

func newGCSSink(ctx context.Context, bucket, prefix string, cfg Config) (*gcsSink, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		// emulators take no credentials
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConnection, "failed to create GCS client")
	}

	return &gcsSink{
		bucket: bucket,
		prefix: prefix,
		client: client,
		handle: client.Bucket(bucket),
	}, nil
}

func (s *gcsSink) Put(ctx context.Context, obj Object, r io.Reader) (int64, error) {
	start := time.Now()
	name := objectKey(s.prefix, obj.Name)

	writer := s.handle.Object(name).NewWriter(ctx)
	writer.ContentType = obj.ContentType
	writer.Metadata = obj.Metadata

	n, err := io.Copy(writer, r)
	if err != nil {
		_ = writer.Close()
		return 0, errors.Wrap(err, errors.ErrorTypeConnection, "failed to write to GCS").
			WithDetail("location", s.Location(obj.Name))
	}
	if err := writer.Close(); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeConnection, "failed to close GCS writer").
			WithDetail("location", s.Location(obj.Name))
	}

	logger.Get().Info("object uploaded to GCS",
		zap.String("bucket", s.bucket),
		zap.String("object", name),
		zap.Int64("bytes", n),
		zap.Duration("duration", time.Since(start)))
	return n, nil
}

func (s *gcsSink) Location(name string) string {
	return "gs://" + s.bucket + "/" + objectKey(s.prefix, name)
}

func (s *gcsSink) Close() error {
	return s.client.Close()
}
