package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/middleware"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/services"
)

const (
	msgLoginRequired = "Login to upload."
	msgRestoreFailed = "Failed to restore image"
	msgNoCredits     = "You have no generations left"
)

type Generator interface {
	Generate(ctx context.Context, email string, in services.GenerateInput) (*services.GenerateResult, error)
}

type GenerateHandler struct {
	generator Generator
}

func NewGenerateHandler(generator Generator) *GenerateHandler {
	return &GenerateHandler{generator: generator}
}

// Generate godoc
// @Summary     Redesign a room photo
// @Description Charges one credit, runs img2img on the photo at imageUrl and stores the result.
// @Tags        generate
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body     models.GenerateRequest true "Source image and style"
// @Success     200     {object} models.GenerateResponse
// @Failure     400     {string} string "You have no generations left"
// @Failure     500     {string} string "Failed to restore image"
// @Router      /api/generate [post]
func (h *GenerateHandler) Generate(c *gin.Context) {
	email := middleware.SessionEmail(c)
	if email == "" {
		c.JSON(http.StatusInternalServerError, msgLoginRequired)
		return
	}

	var req models.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("Invalid generate request body")
		c.JSON(http.StatusInternalServerError, msgRestoreFailed)
		return
	}

	result, err := h.generator.Generate(c.Request.Context(), email, services.GenerateInput{
		ImageURL: req.ImageURL,
		Theme:    req.Theme,
		Room:     req.Room,
		Prompt:   req.Prompt,
	})
	if err != nil {
		kind := services.KindOf(err)
		logger.Log.WithFields(logrus.Fields{
			"email": email,
			"kind":  kind.String(),
		}).WithError(err).Error("Generation failed")

		switch {
		case kind == services.KindInsufficientCredits:
			c.JSON(http.StatusBadRequest, msgNoCredits)
		case kind == services.KindUnauthorized:
			c.JSON(http.StatusInternalServerError, msgLoginRequired)
		default:
			c.JSON(http.StatusInternalServerError, msgRestoreFailed)
		}
		return
	}

	c.JSON(http.StatusOK, models.GenerateResponse{
		Original:  result.Original,
		Generated: result.Generated,
		ID:        result.ID,
	})
}
