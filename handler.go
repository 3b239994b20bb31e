package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds shared dependencies (store, logger, token settings) for all route handlers.
type Handler struct {
	store     dataStore
	log       *zap.Logger
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time // overridable for tests
}

func newHandler(store dataStore, log *zap.Logger, cfg config) *Handler {
	return &Handler{
		store:     store,
		log:       log,
		jwtSecret: cfg.JWTSecret,
		tokenTTL:  cfg.TokenTTL,
		now:       time.Now,
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// today is the handler's notion of the current calendar day, YYYY-MM-DD.
func (h *Handler) today() string {
	return h.now().Format("2006-01-02")
}

/* ─── Middleware ──────────────────────────────────────────────────────── */

// requestLogger logs one line per request once the handler chain finishes.
func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		}
		if uid, ok := c.Get("user_id"); ok {
			fields = append(fields, zap.Any("user_id", uid))
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

/* ─── Routes ──────────────────────────────────────────────────────────── */

// registerRoutes registers all API routes on the router.
func (h *Handler) registerRoutes(router *gin.Engine) {
	// Public routes
	router.POST("/check-email", h.checkEmail)
	router.POST("/receive-info", h.receiveInfo)
	router.POST("/auth/login", h.login)

	// Authenticated routes
	auth := router.Group("/auth", h.authMiddleware())
	auth.GET("/verify-token", h.verifyToken)
	auth.GET("/profile", h.profile)

	plan := router.Group("/nutrition", h.authMiddleware())
	plan.GET("/plan", h.getNutritionPlan)
	plan.POST("/plan", h.recomputeNutritionPlan)

	food := router.Group("/food", h.authMiddleware())
	food.POST("/log", h.logFood)
	food.GET("/entries", h.getFoodEntries)
	food.DELETE("/delete/:id", h.deleteFoodEntry)
	food.PATCH("/update/:id", h.updateFoodServings)
	food.GET("/water", h.getWater)
	food.PATCH("/water", h.updateWater)
	food.GET("/summary", h.getDailySummary)
}
