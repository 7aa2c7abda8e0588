//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func uploadPhoto(t *testing.T, server *httptest.Server, albumURL string, token string, filename string, content []byte) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, albumURL, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func testPNG(t *testing.T, width int, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x % 256), B: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestGalleryLifecycle(t *testing.T) {
	server := newTestServer(t)
	adminToken := login(t, server, "admin", "admin123")

	create := doJSON(t, http.MethodPost, server.URL+"/api/v1/admin/albums", map[string]string{
		"title":       "Spring exhibition",
		"description": "Student works, spring term",
	}, adminToken)
	require.Equal(t, http.StatusCreated, create.StatusCode)

	var album struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(decodeBody(t, create).Data, &album))

	uploadURL := server.URL + "/api/v1/admin/albums/1/photos"

	t.Run("image upload succeeds and is publicly readable", func(t *testing.T) {
		resp := uploadPhoto(t, server, uploadURL, adminToken, "work.png", testPNG(t, 120, 80))
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var photo struct {
			ID       int64  `json:"id"`
			MimeType string `json:"mime_type"`
		}
		require.NoError(t, json.Unmarshal(decodeBody(t, resp).Data, &photo))
		require.Equal(t, "image/png", photo.MimeType)

		file, err := http.Get(server.URL + "/api/v1/albums/1/photos/1/file")
		require.NoError(t, err)
		defer file.Body.Close()
		require.Equal(t, http.StatusOK, file.StatusCode)
		require.Equal(t, "image/png", file.Header.Get("Content-Type"))

		thumb, err := http.Get(server.URL + "/api/v1/albums/1/photos/1/thumbnail?size=64")
		require.NoError(t, err)
		defer thumb.Body.Close()
		require.Equal(t, http.StatusOK, thumb.StatusCode)

		decoded, _, err := image.Decode(thumb.Body)
		require.NoError(t, err)
		require.Equal(t, 64, decoded.Bounds().Dx())
	})

	t.Run("non-image content is refused", func(t *testing.T) {
		resp := uploadPhoto(t, server, uploadURL, adminToken, "evil.png", []byte("MZ\x90\x00 not an image at all"))
		require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	})

	t.Run("uploads require admin rights", func(t *testing.T) {
		register := doJSON(t, http.MethodPost, server.URL+"/api/v1/auth/register", map[string]string{
			"username": "maria", "password": "secret",
		}, "")
		require.Equal(t, http.StatusCreated, register.StatusCode)
		register.Body.Close()
		mariaToken := login(t, server, "maria", "secret")

		resp := uploadPhoto(t, server, uploadURL, mariaToken, "x.png", testPNG(t, 8, 8))
		require.Equal(t, http.StatusForbidden, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("deleting the album removes its photos", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/v1/admin/albums/1", nil, adminToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		gone, err := http.Get(server.URL + "/api/v1/albums/1/photos")
		require.NoError(t, err)
		defer gone.Body.Close()
		require.Equal(t, http.StatusNotFound, gone.StatusCode)
	})
}
