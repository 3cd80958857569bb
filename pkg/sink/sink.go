// Package sink stores exported files in a local directory, an S3 bucket or a
// Google Cloud Storage bucket, chosen by URL scheme:
//
//	/tmp/out, file:///tmp/out   local directory
//	s3://bucket/prefix          Amazon S3 (or any S3 compatible endpoint)
//	gs://bucket/prefix          Google Cloud Storage
package sink

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

// Object describes a stored file
type Object struct {
	// Name is the file name relative to the sink's root; "/" separates directories
	Name        string
	ContentType string
	Metadata    map[string]string
}

// Sink stores objects under a root location
type Sink interface {
	// Put stores the content of r as obj and returns the number of bytes written
	Put(ctx context.Context, obj Object, r io.Reader) (int64, error)
	// Location returns the full URL or path an object name is stored at
	Location(name string) string
	// Close releases clients held by the sink
	Close() error
}

// Config holds options of remote sinks
type Config struct {
	// Region is the AWS region; empty uses the default chain
	Region string `yaml:"region" mapstructure:"region"`
	// Endpoint overrides the service endpoint (S3 compatible stores, GCS emulators)
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
	// UsePathStyle addresses S3 buckets as endpoint/bucket/key
	UsePathStyle bool `yaml:"use_path_style" mapstructure:"use_path_style"`
	// PartSize is the S3 multipart upload part size in bytes
	PartSize int64 `yaml:"part_size" mapstructure:"part_size"`
	// Concurrency bounds parallel S3 part uploads
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
	// CredentialsFile is a GCS service account key file
	CredentialsFile string `yaml:"credentials_file" mapstructure:"credentials_file"`
}

const (
	defaultUploadPartSize = 5 * 1024 * 1024 // 5MB
	defaultConcurrency    = 4
)

// Open returns the sink for location
func Open(ctx context.Context, location string, cfg Config) (Sink, error) {
	if location == "" {
		return nil, errors.New(errors.ErrorTypeConfig, "sink location is required")
	}

	u, err := url.Parse(location)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, "invalid sink location").
			WithDetail("location", location)
	}

	switch u.Scheme {
	case "", "file":
		dir := location
		if u.Scheme == "file" {
			dir = u.Path
		}
		return newLocalSink(dir)
	case "s3":
		bucket, prefix, err := splitBucket(u)
		if err != nil {
			return nil, err
		}
		return newS3Sink(ctx, bucket, prefix, cfg)
	case "gs":
		bucket, prefix, err := splitBucket(u)
		if err != nil {
			return nil, err
		}
		return newGCSSink(ctx, bucket, prefix, cfg)
	default:
		return nil, errors.Newf(errors.ErrorTypeConfig, "unsupported sink scheme %q", u.Scheme)
	}
}

func splitBucket(u *url.URL) (string, string, error) {
	if u.Host == "" {
		return "", "", errors.Newf(errors.ErrorTypeConfig, "%s location needs a bucket", u.Scheme)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

// objectKey joins a prefix and an object name with "/"
func objectKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return path.Join(prefix, name)
}

// countingReader counts bytes read through it
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
