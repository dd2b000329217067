package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(uploadURL string) *Client {
	return NewClient("acc-id", "test-token", "imagedelivery.net", "xtrfEdMVPyUA4dlPxWzvNw").
		WithUploadURL(uploadURL)
}

func TestUploadSuccess(t *testing.T) {
	var gotAuth, gotField, gotFilename, gotContent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		gotField = "file"
		gotFilename = header.Filename
		content, err := io.ReadAll(file)
		require.NoError(t, err)
		gotContent = string(content)

		w.Write([]byte(`{"errors": [], "result": {"id": "img-123"}}`))
	}))
	defer srv.Close()

	img, err := testClient(srv.URL).Upload(context.Background(), "salon.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "img-123", img.ID)
	assert.Equal(t, "https://imagedelivery.net/xtrfEdMVPyUA4dlPxWzvNw/img-123/public", img.URL)
	assert.Equal(t, "salon.jpg", img.Alt)

	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "file", gotField)
	assert.Equal(t, "salon.jpg", gotFilename)
	assert.Equal(t, "jpeg-bytes", gotContent)
}

func TestUploadProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [{"message": "ERROR 5455: Unsupported image type"}], "result": null}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "salon.jpg", strings.NewReader("x"))

	var uploadErr *UploadError
	require.True(t, errors.As(err, &uploadErr))
	assert.Equal(t, "ERROR 5455: Unsupported image type", uploadErr.Message)
}

func TestUploadEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors": [], "result": {}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "salon.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUpload)
}

func TestUploadTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := testClient(srv.URL).Upload(context.Background(), "salon.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUpload)
}
