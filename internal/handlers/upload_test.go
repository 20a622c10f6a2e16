package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commons-systems/mediashare/internal/media"
)

func multipartBody(t *testing.T, displayName string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	require.NoError(t, w.WriteField("name", displayName))
	for name, content := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="`+name+`"`)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadHandler_Batch(t *testing.T) {
	runner := &fakeRunner{}
	h := NewUploadHandler(runner, 500)

	body, contentType := multipartBody(t, "Taro", map[string]string{
		"photo.jpg": "jpeg bytes",
		"clip.mp4":  "mp4 bytes",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Uploaded)
	assert.Equal(t, 0, resp.Failed)
	assert.Len(t, resp.Results, 2)

	require.Len(t, runner.batches, 1)
	kinds := map[string]media.MediaKind{}
	for _, src := range runner.batches[0] {
		kinds[src.Name] = src.Kind
	}
	assert.Equal(t, media.KindImage, kinds["photo.jpg"])
	assert.Equal(t, media.KindVideo, kinds["clip.mp4"])
}

func TestUploadHandler_RejectsUnsupportedFiles(t *testing.T) {
	runner := &fakeRunner{}
	h := NewUploadHandler(runner, 500)

	body, contentType := multipartBody(t, "Taro", map[string]string{
		"photo.jpg": "jpeg bytes",
		"notes.txt": "not media",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp UploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Uploaded)
	assert.Equal(t, 1, resp.Failed)

	// The unsupported file never reaches the pipeline.
	require.Len(t, runner.batches, 1)
	require.Len(t, runner.batches[0], 1)
	assert.Equal(t, "photo.jpg", runner.batches[0][0].Name)
}

func TestUploadHandler_NoFiles(t *testing.T) {
	h := NewUploadHandler(&fakeRunner{}, 500)

	body, contentType := multipartBody(t, "Taro", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_NotMultipart(t *testing.T) {
	h := NewUploadHandler(&fakeRunner{}, 500)

	req := httptest.NewRequest(http.MethodPost, "/api/upload", bytes.NewReader([]byte("plain")))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
