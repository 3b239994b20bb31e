package main

import (
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

func TestGetNutritionPlan(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.seedUser(t, "a@example.com")

	w := env.do(t, http.MethodGet, "/nutrition/plan", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[nutrition.Plan](t, w)
	assert.Equal(t, 2798, got.CalorieTarget)
	assert.NotNil(t, got.Flags, "flags serialize as [] rather than null")

	delete(env.store.plans, u.ID)
	w = env.do(t, http.MethodGet, "/nutrition/plan", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetNutritionPlan_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/nutrition/plan", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRecomputeNutritionPlan(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.seedUser(t, "a@example.com")

	body := map[string]any{
		"age": 55, "gender": "female", "weight": 70, "height": 165,
		"activityLevel": "sedentary", "primaryGoal": "weight gain", "weightGoal": 75,
	}
	w := env.do(t, http.MethodPost, "/nutrition/plan", token, body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[nutrition.Plan](t, w)
	want := nutrition.Plan{CalorieTarget: 1829, CarbsG: 192, ProteinG: 137, FatG: 57, TimeFrameWeeks: 20, WaterL: 2.45}
	if diff := cmp.Diff(want, got, cmpopts.IgnoreFields(nutrition.Plan{}, "Flags")); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}
	codes := make([]string, len(got.Flags))
	for i, f := range got.Flags {
		codes[i] = f.Code
	}
	assert.Equal(t, []string{
		nutrition.FlagCalorieAboveUpperBound,
		nutrition.FlagTimeframeExtended,
		nutrition.FlagProteinIncreasedForAge,
		nutrition.FlagFatRaisedForGender,
	}, codes)

	// The stored plan was replaced, not duplicated, and the profile updated.
	assert.Equal(t, 1829, env.store.plans[u.ID].CalorieTarget)
	assert.Len(t, env.store.plans, 1)
	stored := env.store.users[u.ID]
	assert.Equal(t, 55, *stored.Age)
	assert.Equal(t, "female", *stored.Gender)
	assert.Equal(t, "weight gain", *stored.Goal)
}

func TestRecomputeNutritionPlan_Rejects(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.seedUser(t, "a@example.com")
	before := env.store.plans[u.ID]

	cases := map[string]any{
		"missing fields": map[string]any{"age": 30},
		"bad goal": map[string]any{
			"age": 30, "gender": "male", "weight": 80, "height": 180,
			"activityLevel": "sedentary", "primaryGoal": "??", "weightGoal": 80,
		},
		"invalid height": map[string]any{
			"age": 30, "gender": "male", "weight": 80, "height": -1,
			"activityLevel": "sedentary", "primaryGoal": "maintenance", "weightGoal": 80,
		},
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/nutrition/plan", token, body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Equal(t, before, env.store.plans[u.ID], "rejected requests leave the plan alone")
}

func TestRecomputeNutritionPlan_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedUser(t, "a@example.com")
	env.store.failWith = errBoom

	body := map[string]any{
		"age": 30, "gender": "male", "weight": 80, "height": 180,
		"activityLevel": "sedentary", "primaryGoal": "maintenance", "weightGoal": 80,
	}
	w := env.do(t, http.MethodPost, "/nutrition/plan", token, body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRecomputeNutritionPlan_PlanWriteFailureKeepsProfile(t *testing.T) {
	env := newTestEnv(t)
	u, token := env.seedUser(t, "a@example.com")
	beforeUser := env.store.users[u.ID]
	beforePlan := env.store.plans[u.ID]
	env.store.failPlanWrite = errBoom

	body := map[string]any{
		"age": 60, "gender": "male", "weight": 95, "height": 180,
		"activityLevel": "sedentary", "primaryGoal": "weight loss", "weightGoal": 85,
	}
	w := env.do(t, http.MethodPost, "/nutrition/plan", token, body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	after := env.store.users[u.ID]
	assert.Equal(t, 25, *after.Age)
	assert.Equal(t, 80.0, *after.WeightKG)
	assert.Equal(t, "maintenance", *after.Goal)
	assert.Equal(t, beforeUser, after)
	assert.Equal(t, beforePlan, env.store.plans[u.ID])
}
