package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"roomgpt-backend/internal/handlers"
	"roomgpt-backend/internal/models"
)

type fakeRooms struct {
	rooms     []models.Room
	lastLimit int
}

func (f *fakeRooms) GetRoom(_ context.Context, id uuid.UUID, _ string) (*models.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			return &f.rooms[i], nil
		}
	}
	return nil, models.ErrRoomNotFound
}

func (f *fakeRooms) ListRooms(_ context.Context, _ string, limit int) ([]models.Room, error) {
	f.lastLimit = limit
	return f.rooms, nil
}

type fakeBalance struct {
	credits int
	err     error
}

func (f fakeBalance) Balance(context.Context, string) (int, error) {
	return f.credits, f.err
}

func roomsRouter(rooms handlers.RoomReader, credits handlers.BalanceReader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewRoomsHandler(rooms, credits)
	router := gin.New()
	router.Use(withEmail("jane@example.com"))
	router.GET("/api/credits", h.GetCredits)
	router.GET("/api/rooms", h.ListRooms)
	router.GET("/api/rooms/:room_id", h.GetRoom)
	return router
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetCredits(t *testing.T) {
	w := get(roomsRouter(&fakeRooms{}, fakeBalance{credits: 2}), "/api/credits")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"credits":2}`, w.Body.String())
}

func TestGetCredits_UnknownUser(t *testing.T) {
	w := get(roomsRouter(&fakeRooms{}, fakeBalance{err: models.ErrUserNotFound}), "/api/credits")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListRooms(t *testing.T) {
	store := &fakeRooms{rooms: []models.Room{
		{ID: uuid.New(), InputImage: "https://x/b.jpg", OutputImage: "data:image/jpg;base64,Qg==", Prompt: "a modern bedroom", CreatedAt: time.Now()},
		{ID: uuid.New(), InputImage: "https://x/a.jpg", OutputImage: "data:image/jpg;base64,QQ==", Prompt: "a modern living room", CreatedAt: time.Now().Add(-time.Hour)},
	}}
	router := roomsRouter(store, fakeBalance{})

	w := get(router, "/api/rooms")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, store.lastLimit)

	var resp models.RoomListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Rooms, 2)
	assert.Equal(t, store.rooms[0].ID.String(), resp.Rooms[0].ID)
	assert.Equal(t, "a modern bedroom", resp.Rooms[0].Prompt)

	w = get(router, "/api/rooms?limit=5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, store.lastLimit)

	w = get(router, "/api/rooms?limit=0")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetRoom(t *testing.T) {
	room := models.Room{ID: uuid.New(), InputImage: "https://x/a.jpg", OutputImage: "data:image/jpg;base64,QQ==", Prompt: "a video gaming room"}
	router := roomsRouter(&fakeRooms{rooms: []models.Room{room}}, fakeBalance{})

	w := get(router, "/api/rooms/"+room.ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.RoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, room.OutputImage, resp.OutputImage)

	w = get(router, "/api/rooms/"+uuid.NewString())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(router, "/api/rooms/not-a-uuid")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
