package studio_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/studio"
)

func TestAPIClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/api/caption":
			var req models.CaptionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "https://x/thumbnail/room.jpg", req.ImageURL)
			w.Write([]byte(`{"caption":"a bright kitchen"}`))
		case "/api/generate":
			var req models.GenerateRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "Vintage", req.Theme)
			assert.Equal(t, "Kitchen", req.Room)
			json.NewEncoder(w).Encode(models.GenerateResponse{Original: req.ImageURL, Generated: "data:image/jpg;base64,QQ==", ID: "id-9"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	api := studio.NewAPIClient(server.URL, "token-1", 5*time.Second)

	caption, err := api.Caption(context.Background(), "https://x/thumbnail/room.jpg")
	require.NoError(t, err)
	assert.Equal(t, "a bright kitchen", caption)

	resp, err := api.Generate(context.Background(), studio.GenerateParams{
		ImageURL: "https://x/thumbnail/room.jpg", Theme: "Vintage", Room: "Kitchen",
	})
	require.NoError(t, err)
	assert.Equal(t, "id-9", resp.ID)
}

func TestAPIClient_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode("You have no generations left")
	}))
	defer server.Close()

	_, err := studio.NewAPIClient(server.URL, "t", time.Second).Generate(context.Background(), studio.GenerateParams{ImageURL: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "You have no generations left")
}

func TestDirSaverAndProber_DataURI(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10)), nil))
	uri := imagecodec.EncodeDataURI("image/jpeg", buf.Bytes())
	fetcher := imagecodec.NewFetcher(time.Second)

	size, err := studio.FetchProber{Fetcher: fetcher}.Probe(context.Background(), uri)
	require.NoError(t, err)
	assert.Equal(t, imagecodec.Size{Width: 20, Height: 10}, size)

	dir := t.TempDir()
	require.NoError(t, studio.DirSaver{Dir: dir, Fetcher: fetcher}.Save(context.Background(), uri, "room-new.jpg"))
	saved, err := os.ReadFile(filepath.Join(dir, "room-new.jpg"))
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), saved)
}
