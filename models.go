package main

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

// DateOnly wraps time.Time to serialize as "YYYY-MM-DD" in JSON.
type DateOnly struct{ time.Time }

func (d DateOnly) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Time.Format("2006-01-02") + `"`), nil
}

func (d *DateOnly) UnmarshalJSON(b []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(b))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// ScanDate implements pgtype.DateScanner so pgx can scan PostgreSQL date
// columns into DateOnly. NULL zeroes the time.
func (d *DateOnly) ScanDate(v pgtype.Date) error {
	if !v.Valid {
		d.Time = time.Time{}
		return nil
	}
	d.Time = v.Time
	return nil
}

/* ─── Domain structs ─────────────────────────────────────────────────── */

// user maps to the users table. The biometric columns are nullable because
// accounts created from the CLI may skip them.
type user struct {
	ID               int        `json:"id"                db:"id"`
	Email            string     `json:"email"             db:"email"`
	Name             string     `json:"name"              db:"name"`
	PasswordHash     string     `json:"-"                 db:"password_hash"`
	Age              *int       `json:"age"               db:"age"`
	Gender           *string    `json:"gender"            db:"gender"`
	HeightCM         *float64   `json:"height_cm"         db:"height_cm"`
	WeightKG         *float64   `json:"weight_kg"         db:"weight_kg"`
	ActivityLevel    *string    `json:"activity_level"    db:"activity_level"`
	Goal             *string    `json:"goal"              db:"goal"`
	WeightGoalKG     *float64   `json:"weight_goal_kg"    db:"weight_goal_kg"`
	Climate          *string    `json:"climate"           db:"climate"`
	Diet             *string    `json:"diet"              db:"diet"`
	Allergies        *string    `json:"allergies"         db:"allergies"`
	HealthConditions []string   `json:"health_conditions" db:"health_conditions"`
	CreatedAt        *time.Time `json:"created_at"        db:"created_at"`
}

// newUser is everything needed to insert a users row.
type newUser struct {
	Email        string
	Name         string
	PasswordHash string
	Profile      bodyProfile
	Diet         *string
	Allergies    *string
	Conditions   []string
}

// bodyProfile is the biometric part of a user that feeds the calculator.
type bodyProfile struct {
	Age           int
	Gender        string
	HeightCM      float64
	WeightKG      float64
	ActivityLevel string
	Goal          nutrition.Goal
	WeightGoalKG  float64
	Climate       string
}

// input converts the stored profile into calculator input.
func (p bodyProfile) input() nutrition.ProfileInput {
	target := p.WeightGoalKG
	return nutrition.ProfileInput{
		Age:            p.Age,
		Gender:         nutrition.Gender(p.Gender),
		WeightKG:       p.WeightKG,
		HeightCM:       p.HeightCM,
		ActivityLevel:  nutrition.ActivityLevel(p.ActivityLevel),
		Goal:           p.Goal,
		TargetWeightKG: &target,
		Climate:        nutrition.Climate(p.Climate),
	}
}

// planRow maps to nutrition_profiles: one active plan per user.
type planRow struct {
	UserID        int              `db:"user_id"`
	CalorieTarget int              `db:"calorie_target"`
	CarbsG        int              `db:"carbs_g"`
	ProteinG      int              `db:"protein_g"`
	FatG          int              `db:"fat_g"`
	TimeFrame     int              `db:"time_frame"`
	WaterL        float64          `db:"water_l"`
	Flags         []nutrition.Flag `db:"flags"`
	UpdatedAt     *time.Time       `db:"updated_at"`
}

func (r planRow) plan() nutrition.Plan {
	flags := r.Flags
	if flags == nil {
		flags = []nutrition.Flag{}
	}
	return nutrition.Plan{
		CalorieTarget:  r.CalorieTarget,
		CarbsG:         r.CarbsG,
		ProteinG:       r.ProteinG,
		FatG:           r.FatG,
		TimeFrameWeeks: r.TimeFrame,
		WaterL:         r.WaterL,
		Flags:          flags,
	}
}

// foodEntry maps to food_intake. Nutrient values are per serving.
type foodEntry struct {
	ID        int        `json:"id"        db:"id"`
	UserID    int        `json:"user_id"   db:"user_id"`
	Name      string     `json:"name"      db:"name"`
	Calories  float64    `json:"calories"  db:"calories"`
	Protein   float64    `json:"protein"   db:"protein"`
	Carbs     float64    `json:"carbs"     db:"carbs"`
	Fat       float64    `json:"fat"       db:"fat"`
	MealType  string     `json:"mealType"  db:"meal_type"`
	Servings  float64    `json:"servings"  db:"servings"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	CreatedAt *time.Time `json:"created_at" db:"created_at"`
}

// newFoodEntry is the validated payload for inserting a food_intake row.
type newFoodEntry struct {
	Name      string
	Calories  float64
	Protein   float64
	Carbs     float64
	Fat       float64
	MealType  string
	Servings  float64
	Timestamp time.Time
}

// waterEntry maps to water_log. One row per user per day.
type waterEntry struct {
	ID        int        `json:"id"         db:"id"`
	UserID    int        `json:"user_id"    db:"user_id"`
	Date      DateOnly   `json:"date"       db:"date"`
	Liters    float64    `json:"liters"     db:"liters"`
	UpdatedAt *time.Time `json:"updated_at" db:"updated_at"`
}

// dayTotals is the shape of the per-day food aggregate query.
// Values are already multiplied by servings.
type dayTotals struct {
	Calories float64 `db:"calories"`
	Protein  float64 `db:"protein"`
	Carbs    float64 `db:"carbs"`
	Fat      float64 `db:"fat"`
	Entries  int     `db:"entries"`
}

// dailySummary is the response shape for GET /food/summary.
type dailySummary struct {
	Date         string          `json:"date"`
	Calories     float64         `json:"calories"`
	ProteinG     float64         `json:"protein_g"`
	CarbsG       float64         `json:"carbs_g"`
	FatG         float64         `json:"fat_g"`
	WaterL       float64         `json:"water_l"`
	Entries      int             `json:"entries"`
	Plan         *nutrition.Plan `json:"plan"`
	CaloriesLeft *int            `json:"calories_left"`
	WaterLeftL   *float64        `json:"water_left_l"`
}
