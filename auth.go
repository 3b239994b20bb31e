package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is a pre-computed bcrypt hash used when a login email isn't found.
// Running bcrypt against it (instead of returning early) keeps response time
// constant, preventing timing-based account enumeration.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy"), bcrypt.DefaultCost)

// sessionClaims is the JWT payload. Subject carries the email.
type sessionClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

// issueToken signs an HS256 session token for the user.
func (h *Handler) issueToken(u user) (string, error) {
	now := h.now()
	claims := sessionClaims{
		UserID: u.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Email,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.tokenTTL)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// parseToken validates the signature, algorithm and expiry of a session token.
func (h *Handler) parseToken(raw string) (*sessionClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(h.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.UserID <= 0 {
		return nil, errors.New("token is missing identity claims")
	}
	return claims, nil
}

// login verifies email/password and returns a fresh session token.
// POST /auth/login (public, no auth required).
func (h *Handler) login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, lookupErr := h.store.userByEmail(c, strings.TrimSpace(body.Email))
	if lookupErr != nil && !errors.Is(lookupErr, errUserNotFound) {
		h.log.Error("login lookup failed", zap.Error(lookupErr))
	}

	// Always run bcrypt so a missing account costs the same as a wrong password.
	hashToCheck := string(dummyHash)
	if lookupErr == nil {
		hashToCheck = u.PasswordHash
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hashToCheck), []byte(body.Password))

	if lookupErr != nil || compareErr != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "incorrect email or password"})
		return
	}

	token, err := h.issueToken(u)
	if err != nil {
		h.log.Error("issue token failed", zap.Int("user_id", u.ID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "user_id": u.ID})
}

// authMiddleware validates the Bearer token and sets user_id and email on the context.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apiError(c, http.StatusUnauthorized, "missing or invalid token")
			c.Abort()
			return
		}

		claims, err := h.parseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			apiError(c, http.StatusUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Subject)
		c.Next()
	}
}

// verifyToken echoes the identity of a valid token.
// GET /auth/verify-token.
func (h *Handler) verifyToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"email": c.GetString("email")})
}

// profile returns the account basics and the stored nutrition plan.
// GET /auth/profile. 404 when either is missing.
func (h *Handler) profile(c *gin.Context) {
	u, err := h.store.userByID(c, c.GetInt("user_id"))
	if err != nil {
		if errors.Is(err, errUserNotFound) {
			apiError(c, http.StatusNotFound, "user not found")
		} else {
			h.log.Error("fetch user failed", zap.Int("user_id", c.GetInt("user_id")), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to fetch user")
		}
		return
	}

	row, err := h.store.getPlan(c, u.ID)
	if err != nil {
		if errors.Is(err, errPlanNotFound) {
			apiError(c, http.StatusNotFound, "nutrition profile not found")
		} else {
			h.log.Error("fetch plan failed", zap.Int("user_id", u.ID), zap.Error(err))
			apiError(c, http.StatusInternalServerError, "failed to fetch nutrition profile")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":      gin.H{"id": u.ID, "email": u.Email, "name": u.Name},
		"nutrition": row.plan(),
	})
}
