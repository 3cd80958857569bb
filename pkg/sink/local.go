package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ajitpratap0/datatypes/pkg/errors"
	"github.com/ajitpratap0/datatypes/pkg/logger"
)

// localSink writes files below a directory. Files are written to a temporary
// name and renamed into place.
type localSink struct {
	dir string
}

func newLocalSink(dir string) (*localSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output directory").
			WithDetail("dir", dir)
	}
	return &localSink{dir: dir}, nil
}

func (s *localSink) Put(ctx context.Context, obj Object, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	target := s.Location(obj.Name)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to create directory").
			WithDetail("path", target)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), "."+filepath.Base(target)+".*")
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to create file").
			WithDetail("path", target)
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to write file").
			WithDetail("path", target)
	}
	if err := tmp.Close(); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to close file").
			WithDetail("path", target)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return 0, errors.Wrap(err, errors.ErrorTypeFile, "failed to move file into place").
			WithDetail("path", target)
	}

	logger.Get().Debug("file written",
		zap.String("path", target),
		zap.Int64("bytes", n))
	return n, nil
}

func (s *localSink) Location(name string) string {
	return filepath.Join(s.dir, filepath.FromSlash(name))
}

func (s *localSink) Close() error { return nil }
