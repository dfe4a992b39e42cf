package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"roomgpt-backend/internal/middleware"
	"roomgpt-backend/internal/models"
)

const (
	defaultRoomsLimit = 20
	maxRoomsLimit     = 100
)

type RoomReader interface {
	GetRoom(ctx context.Context, roomID uuid.UUID, email string) (*models.Room, error)
	ListRooms(ctx context.Context, email string, limit int) ([]models.Room, error)
}

type BalanceReader interface {
	Balance(ctx context.Context, email string) (int, error)
}

type RoomsHandler struct {
	rooms   RoomReader
	credits BalanceReader
}

func NewRoomsHandler(rooms RoomReader, credits BalanceReader) *RoomsHandler {
	return &RoomsHandler{
		rooms:   rooms,
		credits: credits,
	}
}

// GetCredits godoc
// @Summary     Remaining generations
// @Tags        credits
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.CreditsResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /api/credits [get]
func (h *RoomsHandler) GetCredits(c *gin.Context) {
	credits, err := h.credits.Balance(c.Request.Context(), middleware.SessionEmail(c))
	if errors.Is(err, models.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get credits",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CreditsResponse{Credits: credits})
}

// ListRooms godoc
// @Summary     List generated rooms
// @Description Newest first.
// @Tags        rooms
// @Produce     json
// @Security    Bearer
// @Param       limit query    int false "Maximum number of rooms (1-100)"
// @Success     200   {object} models.RoomListResponse
// @Failure     400   {object} models.ErrorResponse
// @Router      /api/rooms [get]
func (h *RoomsHandler) ListRooms(c *gin.Context) {
	limit := defaultRoomsLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRoomsLimit {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid limit"})
			return
		}
		limit = n
	}

	rooms, err := h.rooms.ListRooms(c.Request.Context(), middleware.SessionEmail(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to list rooms",
			Message: err.Error(),
		})
		return
	}

	summaries := make([]models.RoomSummary, len(rooms))
	for i, r := range rooms {
		summaries[i] = models.RoomSummary{
			ID:         r.ID.String(),
			InputImage: r.InputImage,
			Prompt:     r.Prompt,
			CreatedAt:  r.CreatedAt,
		}
	}

	c.JSON(http.StatusOK, models.RoomListResponse{Rooms: summaries})
}

// GetRoom godoc
// @Summary     Get a generated room
// @Tags        rooms
// @Produce     json
// @Security    Bearer
// @Param       room_id path     string true "Room ID"
// @Success     200     {object} models.RoomResponse
// @Failure     400     {object} models.ErrorResponse
// @Failure     404     {object} models.ErrorResponse
// @Router      /api/rooms/{room_id} [get]
func (h *RoomsHandler) GetRoom(c *gin.Context) {
	roomID, err := uuid.Parse(c.Param("room_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid room id"})
		return
	}

	room, err := h.rooms.GetRoom(c.Request.Context(), roomID, middleware.SessionEmail(c))
	if errors.Is(err, models.ErrRoomNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "failed to get room",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.NewRoomResponse(room))
}
