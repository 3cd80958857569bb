package sink

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/datatypes/pkg/errors"
)

func TestLocalSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s, err := Open(context.Background(), dir, Config{})
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Put(context.Background(), Object{Name: "Table/Table_1.csv"}, strings.NewReader("a,b\n1,3\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(8), n)

	path := s.Location("Table/Table_1.csv")
	assert.Equal(t, filepath.Join(dir, "Table", "Table_1.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,3\n", string(data))

	entries, err := os.ReadDir(filepath.Join(dir, "Table"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are cleaned up")
}

func TestLocalSinkFileURL(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), "file://"+dir, Config{})
	require.NoError(t, err)

	_, err = s.Put(context.Background(), Object{Name: "manifest.json"}, strings.NewReader("{}"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "manifest.json"))
}

func TestLocalSinkCanceled(t *testing.T) {
	s, err := Open(context.Background(), t.TempDir(), Config{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, Object{Name: "x"}, strings.NewReader("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Open(ctx, "", Config{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Open(ctx, "ftp://host/dir", Config{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Open(ctx, "s3:///prefix", Config{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))

	_, err = Open(ctx, "gs://", Config{})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "a.csv", objectKey("", "a.csv"))
	assert.Equal(t, "exports/run/a.csv", objectKey("exports/run", "a.csv"))
}

func TestS3SinkUpload(t *testing.T) {
	var (
		mu     sync.Mutex
		method string
		path   string
		body   []byte
		format string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		method, path, body = r.Method, r.URL.Path, data
		format = r.Header.Get("X-Amz-Meta-Format")
		mu.Unlock()
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")

	s, err := Open(context.Background(), "s3://fixtures/exports/", Config{
		Region:       "us-east-1",
		Endpoint:     server.URL,
		UsePathStyle: true,
	})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, "s3://fixtures/exports/Table_0.csv", s.Location("Table_0.csv"))

	n, err := s.Put(context.Background(), Object{
		Name:        "Table_0.csv",
		ContentType: "text/csv",
		Metadata:    map[string]string{"format": "csv"},
	}, strings.NewReader("a\n1\n4\n0.5\n-3\n"))
	require.NoError(t, err)
	assert.Equal(t, int64(13), n)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/fixtures/exports/Table_0.csv", path)
	assert.Equal(t, "csv", format)
	assert.NotEmpty(t, body)
}

func TestGCSSinkLocation(t *testing.T) {
	s, err := Open(context.Background(), "gs://fixtures/exports", Config{
		Endpoint: "http://localhost:4443/storage/v1/",
	})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "gs://fixtures/exports/manifest.json", s.Location("manifest.json"))
}
