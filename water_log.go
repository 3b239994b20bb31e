package main

import (
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// litersPerGlass converts the glass counter the client sends into liters.
const litersPerGlass = 0.25

// maxGlassesPerDay bounds a single day's counter.
const maxGlassesPerDay = 80

func roundLiters(v float64) float64 {
	return math.Round(v*100) / 100
}

// getWater returns liters of water logged today.
// GET /food/water. 0 when nothing has been logged.
func (h *Handler) getWater(c *gin.Context) {
	liters, err := h.store.waterForDate(c, c.GetInt("user_id"), h.today())
	if err != nil {
		h.log.Error("fetch water failed", zap.Int("user_id", c.GetInt("user_id")), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch water log")
		return
	}

	c.JSON(http.StatusOK, gin.H{"waterConsumed": liters})
}

// updateWater sets today's water total from a glass count.
// PATCH /food/water. Body: { "waterConsumed": 6 } (glasses).
// The UNIQUE(user_id, date) constraint means repeated calls update in place.
func (h *Handler) updateWater(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body struct {
		WaterConsumed *float64 `json:"waterConsumed"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.WaterConsumed == nil {
		apiError(c, http.StatusBadRequest, "waterConsumed value required")
		return
	}
	glasses := *body.WaterConsumed
	if glasses < 0 || glasses > maxGlassesPerDay {
		apiError(c, http.StatusBadRequest, "waterConsumed must be between 0 and 80 glasses")
		return
	}

	entry, err := h.store.upsertWater(c, userID, h.today(), roundLiters(glasses*litersPerGlass))
	if err != nil {
		h.log.Error("update water failed", zap.Int("user_id", userID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to update water")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "waterConsumed": entry.Liters})
}
