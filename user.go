package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

// profileRequest is the biometric part of the registration and recompute
// bodies. Numeric fields are pointers so a missing value is distinguishable
// from zero.
type profileRequest struct {
	Age           *int     `json:"age"`
	Gender        string   `json:"gender"`
	Weight        *float64 `json:"weight"`
	Height        *float64 `json:"height"`
	ActivityLevel string   `json:"activityLevel"`
	PrimaryGoal   string   `json:"primaryGoal"`
	WeightGoal    *float64 `json:"weightGoal"`
	Climate       string   `json:"climate"`
}

// missing lists the required profile fields absent from the body, in request order.
func (r profileRequest) missing() []string {
	var out []string
	if r.Age == nil {
		out = append(out, "age")
	}
	if strings.TrimSpace(r.Gender) == "" {
		out = append(out, "gender")
	}
	if r.Weight == nil {
		out = append(out, "weight")
	}
	if r.Height == nil {
		out = append(out, "height")
	}
	if strings.TrimSpace(r.ActivityLevel) == "" {
		out = append(out, "activityLevel")
	}
	if strings.TrimSpace(r.PrimaryGoal) == "" {
		out = append(out, "primaryGoal")
	}
	if r.WeightGoal == nil {
		out = append(out, "weightGoal")
	}
	return out
}

// toProfile normalizes the request into a storable profile. Only the goal is
// strict; the other enums fall back to their defaults.
func (r profileRequest) toProfile() (bodyProfile, error) {
	goal, ok := nutrition.ParseGoal(r.PrimaryGoal)
	if !ok {
		return bodyProfile{}, errors.New("primaryGoal must be one of: maintenance, weight loss, weight gain")
	}
	return bodyProfile{
		Age:           *r.Age,
		Gender:        string(nutrition.ParseGender(r.Gender)),
		HeightCM:      *r.Height,
		WeightKG:      *r.Weight,
		ActivityLevel: string(nutrition.ParseActivityLevel(r.ActivityLevel)),
		Goal:          goal,
		WeightGoalKG:  *r.WeightGoal,
		Climate:       string(nutrition.ParseClimate(r.Climate)),
	}, nil
}

type registerRequest struct {
	profileRequest
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	Diet             *string  `json:"diet"`
	Allergies        *string  `json:"allergies"`
	HealthConditions []string `json:"healthConditions"`
}

func (r registerRequest) missing() []string {
	var out []string
	if strings.TrimSpace(r.Name) == "" {
		out = append(out, "name")
	}
	out = append(out, r.profileRequest.missing()...)
	if strings.TrimSpace(r.Email) == "" {
		out = append(out, "email")
	}
	if r.Password == "" {
		out = append(out, "password")
	}
	return out
}

// computePlan runs the calculator and writes the error response on failure.
// Validation failures are the client's fault; anything else is ours.
func (h *Handler) computePlan(c *gin.Context, p bodyProfile) (nutrition.Plan, bool) {
	plan, err := nutrition.ComputePlan(p.input())
	if err == nil {
		return plan, true
	}
	if errors.Is(err, nutrition.ErrInvalidInput) {
		apiError(c, http.StatusBadRequest, err.Error())
		return nutrition.Plan{}, false
	}
	h.log.Error("plan computation failed", zap.Error(err))
	apiError(c, http.StatusInternalServerError, "failed to compute nutrition plan")
	return nutrition.Plan{}, false
}

// checkEmail reports whether an account already uses the email.
// POST /check-email (public).
func (h *Handler) checkEmail(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	email := strings.TrimSpace(body.Email)
	if email == "" {
		apiError(c, http.StatusBadRequest, "email is required")
		return
	}

	exists, err := h.store.emailExists(c, email)
	if err != nil {
		h.log.Error("check email failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to check email")
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// receiveInfo registers a user from the onboarding form, computes and stores
// their first nutrition plan, and signs them in.
// POST /receive-info (public). An existing email returns 200 {exists: true}.
func (h *Handler) receiveInfo(c *gin.Context) {
	var body registerRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if missing := body.missing(); len(missing) > 0 {
		apiError(c, http.StatusBadRequest, "missing required fields: "+strings.Join(missing, ", "))
		return
	}
	email := strings.TrimSpace(body.Email)

	exists, err := h.store.emailExists(c, email)
	if err != nil {
		h.log.Error("check email failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to check email")
		return
	}
	if exists {
		c.JSON(http.StatusOK, gin.H{"exists": true, "message": "email already exists"})
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

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		h.log.Error("hash password failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	u, err := h.store.createUser(c, newUser{
		Email:        email,
		Name:         strings.TrimSpace(body.Name),
		PasswordHash: string(hash),
		Profile:      profile,
		Diet:         body.Diet,
		Allergies:    body.Allergies,
		Conditions:   body.HealthConditions,
	}, plan)
	if errors.Is(err, errEmailTaken) {
		// Lost a race with a concurrent registration.
		c.JSON(http.StatusOK, gin.H{"exists": true, "message": "email already exists"})
		return
	}
	if err != nil {
		h.log.Error("create user failed", zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := h.issueToken(u)
	if err != nil {
		h.log.Error("issue token failed", zap.Int("user_id", u.ID), zap.Error(err))
		apiError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	h.log.Info("user registered", zap.Int("user_id", u.ID), zap.Int("calorie_target", plan.CalorieTarget))
	c.JSON(http.StatusCreated, gin.H{
		"exists":    false,
		"message":   "user created successfully",
		"token":     token,
		"user_id":   u.ID,
		"nutrition": plan,
	})
}
