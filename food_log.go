package main

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// validMealTypes mirrors the CHECK constraint on food_intake.meal_type.
var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// timestampLayouts are the formats accepted for a food entry's timestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// entryID parses the :id path param. Writes a 400 and returns false when it is not a positive integer.
func entryID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		apiError(c, http.StatusBadRequest, "invalid entry id")
		return 0, false
	}
	return id, true
}

type logFoodRequest struct {
	Name      string   `json:"name"`
	Calories  *float64 `json:"calories"`
	Protein   *float64 `json:"protein"`
	Carbs     *float64 `json:"carbs"`
	Fat       *float64 `json:"fat"`
	MealType  string   `json:"mealType"`
	Timestamp string   `json:"timestamp"`
	Servings  *float64 `json:"servings"`
}

func (r logFoodRequest) missing() []string {
	var out []string
	if strings.TrimSpace(r.Name) == "" {
		out = append(out, "name")
	}
	if r.Calories == nil {
		out = append(out, "calories")
	}
	if r.Protein == nil {
		out = append(out, "protein")
	}
	if r.Carbs == nil {
		out = append(out, "carbs")
	}
	if r.Fat == nil {
		out = append(out, "fat")
	}
	if r.MealType == "" {
		out = append(out, "mealType")
	}
	if r.Timestamp == "" {
		out = append(out, "timestamp")
	}
	return out
}

// logFood inserts a food entry. Nutrient values are per serving.
// POST /food/log. servings defaults to 1.
func (h *Handler) logFood(c *gin.Context) {
	userID := c.GetInt("user_id")

	var body logFoodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := body.missing(); len(missing) > 0 {
		apiError(c, http.StatusBadRequest, "missing fields: "+strings.Join(missing, ", "))
		return
	}
	mealType := strings.ToLower(strings.TrimSpace(body.MealType))
	if !validMealTypes[mealType] {
		apiError(c, http.StatusBadRequest, "mealType must be one of: breakfast, lunch, dinner, snack")
		return
	}
	if *body.Calories < 0 || *body.Protein < 0 || *body.Carbs < 0 || *body.Fat < 0 {
		apiError(c, http.StatusBadRequest, "nutrient values must not be negative")
		return
	}
	ts, ok := parseTimestamp(body.Timestamp)
	if !ok {
		apiError(c, http.StatusBadRequest, "invalid timestamp, expected RFC 3339")
		return
	}
	servings := 1.0
	if body.Servings != nil {
		servings = *body.Servings
	}
	if servings <= 0 {
		apiError(c, http.StatusBadRequest, "servings must be greater than 0")
		return
	}

	entry, err := h.store.createFoodEntry(c, userID, newFoodEntry{
		Name:      strings.TrimSpace(body.Name),
		Calories:  *body.Calories,
		Protein:   *body.Protein,
		Carbs:     *body.Carbs,
		Fat:       *body.Fat,
		MealType:  mealType,
		Servings:  servings,
		Timestamp: ts,
	})
	if err != nil {
		h.log.Error("log food failed", zap.Int("user_id", userID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to log food")
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// getFoodEntries returns all of the user's food entries, newest first.
// GET /food/entries. Returns an empty array (not null) when there are none.
func (h *Handler) getFoodEntries(c *gin.Context) {
	entries, err := h.store.foodEntries(c, c.GetInt("user_id"))
	if err != nil {
		h.log.Error("list food entries failed", zap.Int("user_id", c.GetInt("user_id")), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch food entries")
		return
	}
	if entries == nil {
		entries = []foodEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// deleteFoodEntry removes one of the user's entries.
// DELETE /food/delete/:id. Ownership is enforced by matching both id and user_id.
func (h *Handler) deleteFoodEntry(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	err := h.store.deleteFoodEntry(c, c.GetInt("user_id"), id)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			apiError(c, http.StatusNotFound, "food entry not found")
		} else {
			h.log.Error("delete food entry failed", zap.Int("user_id", c.GetInt("user_id")), zap.Int("entry_id", id), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to delete food entry")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// updateFoodServings changes the servings multiplier of an entry.
// PATCH /food/update/:id. Body: { "servings": 1.5 }.
func (h *Handler) updateFoodServings(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}

	var body struct {
		Servings *float64 `json:"servings"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Servings == nil {
		apiError(c, http.StatusBadRequest, "servings value required")
		return
	}
	if *body.Servings <= 0 {
		apiError(c, http.StatusBadRequest, "servings must be greater than 0")
		return
	}

	entry, err := h.store.updateServings(c, c.GetInt("user_id"), id, *body.Servings)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			apiError(c, http.StatusNotFound, "food entry not found")
		} else {
			h.log.Error("update servings failed", zap.Int("user_id", c.GetInt("user_id")), zap.Int("entry_id", id), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to update food entry")
		}
		return
	}

	c.JSON(http.StatusOK, entry)
}

// getDailySummary returns the day's intake totals against the active plan.
// GET /food/summary?date=YYYY-MM-DD (defaults to today). Plan fields are null
// until the user has a plan.
func (h *Handler) getDailySummary(c *gin.Context) {
	userID := c.GetInt("user_id")
	date := c.DefaultQuery("date", h.today())

	// Validate date format before querying; an invalid value silently returns no rows.
	if _, err := time.Parse("2006-01-02", date); err != nil {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}

	totals, err := h.store.dayTotals(c, userID, date)
	if err != nil {
		h.log.Error("day totals failed", zap.Int("user_id", userID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch food totals")
		return
	}
	water, err := h.store.waterForDate(c, userID, date)
	if err != nil {
		h.log.Error("fetch water failed", zap.Int("user_id", userID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch water log")
		return
	}

	summary := dailySummary{
		Date:     date,
		Calories: totals.Calories,
		ProteinG: totals.Protein,
		CarbsG:   totals.Carbs,
		FatG:     totals.Fat,
		WaterL:   water,
		Entries:  totals.Entries,
	}

	row, err := h.store.getPlan(c, userID)
	switch {
	case err == nil:
		plan := row.plan()
		caloriesLeft := plan.CalorieTarget - int(math.Round(totals.Calories))
		waterLeft := roundLiters(plan.WaterL - water)
		summary.Plan = &plan
		summary.CaloriesLeft = &caloriesLeft
		summary.WaterLeftL = &waterLeft
	case !errors.Is(err, errPlanNotFound):
		h.log.Error("fetch plan failed", zap.Int("user_id", userID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to fetch nutrition plan")
		return
	}

	c.JSON(http.StatusOK, summary)
}
