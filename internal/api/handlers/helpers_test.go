package handlers_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/Fayiz-Akbar/website-buku-Web-Framework-sub000/internal/utils/response"
	"github.com/stretchr/testify/require"
)

const maxProofSize = 2 << 20

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return buf.Bytes()
}

// multipartBody writes the fields in order, then the optional file part.
func multipartBody(t *testing.T, fields [][2]string, fileField string, file []byte) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	for _, f := range fields {
		require.NoError(t, mw.WriteField(f[0], f[1]))
	}

	if fileField != "" {
		part, err := mw.CreateFormFile(fileField, "proof.png")
		require.NoError(t, err)

		_, err = part.Write(file)
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder, data any) *response.APIResponse {
	t.Helper()

	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	if data != nil && resp.Data != nil {
		raw, err := json.Marshal(resp.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, data))
	}

	return &resp
}
