package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/handlers"
	"roomgpt-backend/internal/middleware"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/services"
)

type fakeGenerator struct {
	result *services.GenerateResult
	err    error
	got    services.GenerateInput
	email  string
}

func (f *fakeGenerator) Generate(_ context.Context, email string, in services.GenerateInput) (*services.GenerateResult, error) {
	f.email = email
	f.got = in
	return f.result, f.err
}

type fakeCaptioner struct {
	raw json.RawMessage
	err error
}

func (f *fakeCaptioner) Caption(_ context.Context, _, _ string) (json.RawMessage, error) {
	return f.raw, f.err
}

func withEmail(email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if email != "" {
			c.Set(middleware.EmailKey, email)
		}
		c.Next()
	}
}

func post(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func generateRouter(email string, gen handlers.Generator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withEmail(email))
	router.POST("/api/generate", handlers.NewGenerateHandler(gen).Generate)
	return router
}

func decodeString(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var s string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	return s
}

func TestGenerate_NoSession(t *testing.T) {
	gen := &fakeGenerator{}
	w := post(generateRouter("", gen), "/api/generate", `{"imageUrl":"https://x/room.jpg"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Login to upload.", decodeString(t, w))
	assert.Empty(t, gen.email)
}

func TestGenerate_Success(t *testing.T) {
	gen := &fakeGenerator{result: &services.GenerateResult{
		Original:  "https://x/room.jpg",
		Generated: "data:image/jpg;base64,QUJD",
		ID:        "6f1c2a9e-8d1b-4b53-9a0e-2b4f5c6d7e8f",
	}}
	w := post(generateRouter("jane@example.com", gen), "/api/generate",
		`{"imageUrl":"https://x/room.jpg","theme":"Modern","room":"Living Room"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var resp models.GenerateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "https://x/room.jpg", resp.Original)
	assert.Equal(t, "data:image/jpg;base64,QUJD", resp.Generated)
	assert.Equal(t, "6f1c2a9e-8d1b-4b53-9a0e-2b4f5c6d7e8f", resp.ID)

	assert.Equal(t, "jane@example.com", gen.email)
	assert.Equal(t, services.GenerateInput{ImageURL: "https://x/room.jpg", Theme: "Modern", Room: "Living Room"}, gen.got)
}

func TestGenerate_InsufficientCredits(t *testing.T) {
	gen := &fakeGenerator{err: &services.Error{Kind: services.KindInsufficientCredits, Op: "generate", Err: models.ErrInsufficientCredits}}
	w := post(generateRouter("jane@example.com", gen), "/api/generate", `{"imageUrl":"https://x/room.jpg"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have no generations left", decodeString(t, w))
}

func TestGenerate_Failures(t *testing.T) {
	kinds := []services.Kind{services.KindUpstreamFetch, services.KindBackend, services.KindPersistence, services.KindTimeout, services.KindInvalidInput}
	for _, kind := range kinds {
		t.Run(kind.String(), func(t *testing.T) {
			gen := &fakeGenerator{err: &services.Error{Kind: kind, Op: "generate", Err: errors.New("boom")}}
			w := post(generateRouter("jane@example.com", gen), "/api/generate", `{"imageUrl":"https://x/room.jpg"}`)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "Failed to restore image", decodeString(t, w))
		})
	}
}

func TestGenerate_MissingImageURL(t *testing.T) {
	gen := &fakeGenerator{}
	w := post(generateRouter("jane@example.com", gen), "/api/generate", `{"theme":"Modern"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to restore image", decodeString(t, w))
	assert.Empty(t, gen.email)
}

func captionRouter(email string, captioner handlers.Captioner) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withEmail(email))
	router.POST("/api/caption", handlers.NewCaptionHandler(captioner).Caption)
	return router
}

func TestCaption_PassesBackendJSONThrough(t *testing.T) {
	raw := json.RawMessage(`{"caption":"a bedroom with a bed","extra":[1,2]}`)
	w := post(captionRouter("jane@example.com", &fakeCaptioner{raw: raw}), "/api/caption", `{"imageUrl":"https://x/room.jpg"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(raw), w.Body.String())
}

func TestCaption_NoSession(t *testing.T) {
	w := post(captionRouter("", &fakeCaptioner{}), "/api/caption", `{"imageUrl":"https://x/room.jpg"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Login to upload.", decodeString(t, w))
}

func TestCaption_Failure(t *testing.T) {
	captioner := &fakeCaptioner{err: &services.Error{Kind: services.KindBackend, Op: "caption", Err: errors.New("down")}}
	w := post(captionRouter("jane@example.com", captioner), "/api/caption", `{"imageUrl":"https://x/room.jpg"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to restore image", decodeString(t, w))
}
