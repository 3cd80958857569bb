package sink

import (
	"context"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/logger"
)

// s3Sink uploads objects with the S3 upload manager
type s3Sink struct {
	bucket   string
	prefix   string
	uploader *manager.Uploader
}

func newS3Sink(ctx context.Context, bucket, prefix string, cfg Config) (*s3Sink, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "failed to load AWS configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	partSize := cfg.PartSize
	if partSize < manager.MinUploadPartSize {
		partSize = defaultUploadPartSize
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = partSize
		u.Concurrency = concurrency
	})

	return &s3Sink{bucket: bucket, prefix: prefix, uploader: uploader}, nil
}

func (s *s3Sink) Put(ctx context.Context, obj Object, r io.Reader) (int64, error) {
	start := time.Now()
	key := objectKey(s.prefix, obj.Name)
	body := &countingReader{r: r}

	input := &s3.PutObjectInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		Body:     body,
		Metadata: obj.Metadata,
	}
	if obj.ContentType != "" {
		input.ContentType = aws.String(obj.ContentType)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeConnection, "failed to upload to S3").
			WithDetail("location", s.Location(obj.Name))
	}

	logger.Get().Info("object uploaded to S3",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int64("bytes", body.n),
		zap.Duration("duration", time.Since(start)))
	return body.n, nil
}

func (s *s3Sink) Location(name string) string {
	return "s3://" + s.bucket + "/" + objectKey(s.prefix, name)
}

func (s *s3Sink) Close() error { return nil }
