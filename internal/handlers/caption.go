package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"roomgpt-backend/internal/logger"
	"roomgpt-backend/internal/middleware"
	"roomgpt-backend/internal/models"
	"roomgpt-backend/internal/services"
)

type Captioner interface {
	Caption(ctx context.Context, email, imageURL string) (json.RawMessage, error)
}

type CaptionHandler struct {
	captioner Captioner
}

func NewCaptionHandler(captioner Captioner) *CaptionHandler {
	return &CaptionHandler{captioner: captioner}
}

// Caption godoc
// @Summary     Describe a room photo
// @Description Returns the captioning backend's JSON for the photo at imageUrl unchanged.
// @Tags        caption
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body     models.CaptionRequest true "Source image"
// @Success     200     {object} models.CaptionResponse
// @Failure     500     {string} string "Failed to restore image"
// @Router      /api/caption [post]
func (h *CaptionHandler) Caption(c *gin.Context) {
	email := middleware.SessionEmail(c)
	if email == "" {
		c.JSON(http.StatusInternalServerError, msgLoginRequired)
		return
	}

	var req models.CaptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Log.WithError(err).Warn("Invalid caption request body")
		c.JSON(http.StatusInternalServerError, msgRestoreFailed)
		return
	}

	raw, err := h.captioner.Caption(c.Request.Context(), email, req.ImageURL)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"email": email,
			"kind":  services.KindOf(err).String(),
		}).WithError(err).Error("Caption failed")
		c.JSON(http.StatusInternalServerError, msgRestoreFailed)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
