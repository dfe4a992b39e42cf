package services_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/imagecodec"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/sdwebui"
)

// memoryCredits is a CreditStore over a map, mirroring the conditional UPDATE.
type memoryCredits struct {
	mu      sync.Mutex
	credits map[string]int
}

func newMemoryCredits(balances map[string]int) *memoryCredits {
	return &memoryCredits{credits: balances}
}

func (m *memoryCredits) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.credits[email]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return &models.User{Email: email, Credits: c}, nil
}

func (m *memoryCredits) DecrementCredits(_ context.Context, email string, requirePositive bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.credits[email]
	if !ok {
		return 0, models.ErrUserNotFound
	}
	if requirePositive && c <= 0 {
		return 0, models.ErrInsufficientCredits
	}
	m.credits[email] = c - 1
	return c - 1, nil
}

func (m *memoryCredits) IncrementCredits(_ context.Context, email string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.credits[email]
	if !ok {
		return 0, models.ErrUserNotFound
	}
	m.credits[email] = c + 1
	return c + 1, nil
}

func (m *memoryCredits) balance(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.credits[email]
}

type fakeFetcher struct {
	img  *imagecodec.Image
	err  error
	urls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*imagecodec.Image, error) {
	f.urls = append(f.urls, url)
	return f.img, f.err
}

type fakeBackend struct {
	img2img  func(req sdwebui.Img2ImgRequest) (*sdwebui.Img2ImgResponse, error)
	clip     func(image string) (json.RawMessage, error)
	requests []sdwebui.Img2ImgRequest
}

func (f *fakeBackend) Img2Img(_ context.Context, req sdwebui.Img2ImgRequest) (*sdwebui.Img2ImgResponse, error) {
	f.requests = append(f.requests, req)
	return f.img2img(req)
}

func (f *fakeBackend) Clip(_ context.Context, image string) (json.RawMessage, error) {
	return f.clip(image)
}

type fakeRooms struct {
	rooms []*models.Room
	err   error
}

func (f *fakeRooms) CreateRoom(_ context.Context, _ string, room *models.Room) error {
	if f.err != nil {
		return f.err
	}
	f.rooms = append(f.rooms, room)
	return nil
}

func pngImage(t *testing.T, w, h int) *imagecodec.Image {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	data := buf.Bytes()
	return &imagecodec.Image{
		Bytes:    data,
		MimeType: "image/png",
		DataURI:  imagecodec.EncodeDataURI("image/png", data),
	}
}
