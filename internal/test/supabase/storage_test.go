package supabase_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/supabase"
)

func TestObjectPaths(t *testing.T) {
	id := uuid.MustParse("0b7f4c1e-5a3d-4e8f-9b2a-6c1d0e9f8a7b")

	raw, thumb := supabase.ObjectPaths(id, "../photos/room.jpg")
	assert.Equal(t, "raw/0b7f4c1e-5a3d-4e8f-9b2a-6c1d0e9f8a7b/room.jpg", raw)
	assert.Equal(t, "thumbnail/0b7f4c1e-5a3d-4e8f-9b2a-6c1d0e9f8a7b/room.jpg", thumb)
}

func TestStorageClient_GetPublicURL(t *testing.T) {
	client := supabase.NewStorageClient("https://project.supabase.co/", "key", "uploads")

	assert.Equal(t,
		"https://project.supabase.co/storage/v1/object/public/uploads/raw/abc/room.jpg",
		client.GetPublicURL("raw/abc/room.jpg"))
}

type storageRecorder struct {
	mu       sync.Mutex
	requests []string
	bodies   []string
	failOn   string
}

func (s *storageRecorder) handler(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)
	s.bodies = append(s.bodies, string(body))
	fail := s.failOn != "" && strings.Contains(r.URL.Path, s.failOn)
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if fail {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid","message":"upload rejected"}`))
		return
	}
	if r.Method == http.MethodDelete {
		w.Write([]byte(`[]`))
		return
	}
	w.Write([]byte(`{"Key":"uploads/object"}`))
}

func TestStorageClient_UploadStoresRawAndThumbnail(t *testing.T) {
	rec := &storageRecorder{}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	client := supabase.NewStorageClient(server.URL, "key", "uploads")
	url, err := client.Upload(context.Background(), "room.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.NoError(t, err)

	require.Len(t, rec.requests, 2)
	assert.True(t, strings.HasPrefix(rec.requests[0], "POST /storage/v1/object/uploads/raw/"), rec.requests[0])
	assert.True(t, strings.HasPrefix(rec.requests[1], "POST /storage/v1/object/uploads/thumbnail/"), rec.requests[1])
	assert.Equal(t, "jpeg-bytes", rec.bodies[0])

	assert.True(t, strings.HasPrefix(url, server.URL+"/storage/v1/object/public/uploads/raw/"), url)
	assert.True(t, strings.HasSuffix(url, "/room.jpg"), url)
}

func TestStorageClient_UploadCleansUpOnThumbnailFailure(t *testing.T) {
	rec := &storageRecorder{failOn: "/thumbnail/"}
	server := httptest.NewServer(http.HandlerFunc(rec.handler))
	defer server.Close()

	client := supabase.NewStorageClient(server.URL, "key", "uploads")
	_, err := client.Upload(context.Background(), "room.jpg", "image/jpeg", []byte("jpeg-bytes"))
	require.Error(t, err)

	require.Len(t, rec.requests, 3)
	assert.Equal(t, "DELETE /storage/v1/object/uploads", rec.requests[2])
	assert.Contains(t, rec.bodies[2], "raw/")
}

func TestStorageClient_UploadCanceled(t *testing.T) {
	client := supabase.NewStorageClient("http://127.0.0.1:1", "key", "uploads")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Upload(ctx, "room.jpg", "image/jpeg", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
