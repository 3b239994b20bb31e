package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getNutritionPlan returns the user's active plan.
// GET /nutrition/plan. 404 until a plan has been computed.
func (h *Handler) getNutritionPlan(c *gin.Context) {
	row, err := h.store.getPlan(c, c.GetInt("user_id"))
	if err != nil {
		if errors.Is(err, errPlanNotFound) {
			apiError(c, http.StatusNotFound, "nutrition plan not found")
		} else {
			h.log.Error("fetch plan failed", zap.Int("user_id", c.GetInt("user_id")), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to fetch nutrition plan")
		}
		return
	}

	c.JSON(http.StatusOK, row.plan())
}

// recomputeNutritionPlan stores a new biometric profile and replaces the
// active plan with one computed from it.
// POST /nutrition/plan. Body uses the registration field names.
func (h *Handler) recomputeNutritionPlan(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body profileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := body.missing(); len(missing) > 0 {
		apiError(c, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}
	profile, err := body.toProfile()
	if err != nil {
		apiError(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, ok := h.computePlan(c, profile)
	if !ok {
		return
	}

	row, err := h.store.replaceProfile(c, userID, profile, plan)
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			apiError(c, http.StatusNotFound, "user not found")
		} else {
			h.log.Error("replace profile failed", zap.Int("user_id", userID), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to save nutrition plan")
		}
		return
	}

	c.JSON(http.StatusOK, row.plan())
}
