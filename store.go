package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

var (
	errUserNotFound  = errors.New("user not found")
	errPlanNotFound  = errors.New("nutrition plan not found")
	errEntryNotFound = errors.New("food entry not found")
	errEmailTaken    = errors.New("email already registered")
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

/* ─── Store contracts ─────────────────────────────────────────────────── */

type userStore interface {
	emailExists(ctx context.Context, email string) (bool, error)
	// createUser inserts the account and its first plan in one transaction.
	createUser(ctx context.Context, u newUser, plan nutrition.Plan) (user, error)
	userByEmail(ctx context.Context, email string) (user, error)
	userByID(ctx context.Context, id int) (user, error)
}

type planStore interface {
	// replaceProfile stores new biometrics and the plan computed from them
	// together: either both are written or neither is.
	replaceProfile(ctx context.Context, userID int, p bodyProfile, plan nutrition.Plan) (planRow, error)
	getPlan(ctx context.Context, userID int) (planRow, error)
}

type foodStore interface {
	createFoodEntry(ctx context.Context, userID int, e newFoodEntry) (foodEntry, error)
	foodEntries(ctx context.Context, userID int) ([]foodEntry, error)
	updateServings(ctx context.Context, userID, id int, servings float64) (foodEntry, error)
	deleteFoodEntry(ctx context.Context, userID, id int) error
	dayTotals(ctx context.Context, userID int, date string) (dayTotals, error)
}

type waterStore interface {
	upsertWater(ctx context.Context, userID int, date string, liters float64) (waterEntry, error)
	// waterForDate returns zero liters when nothing was logged that day.
	waterForDate(ctx context.Context, userID int, date string) (float64, error)
}

// dataStore is everything the handlers need from persistence.
type dataStore interface {
	userStore
	planStore
	foodStore
	waterStore
}

/* ─── Postgres implementation ─────────────────────────────────────────── */

// pgStore implements dataStore on a pgx pool.
type pgStore struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func newPGStore(db *pgxpool.Pool, log *zap.Logger) *pgStore {
	return &pgStore{db: db, log: log}
}

// queryOne runs a query and scans the first row into T using RowToStructByName.
// Query and scan errors are logged, except for a plain missing row.
func queryOne[T any](s *pgStore, ctx context.Context, sql string, args pgx.NamedArgs) (T, error) {
	rows, err := s.db.Query(ctx, sql, args)
	if err != nil {
		s.log.Error("query failed", zap.String("op", "queryOne"), zap.Error(err))
		var zero T
		return zero, err
	}
	result, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		s.log.Error("scan failed", zap.String("op", "queryOne"), zap.Error(err))
	}
	return result, err
}

// queryMany runs a query and scans all rows into []T using RowToStructByName.
func queryMany[T any](s *pgStore, ctx context.Context, sql string, args pgx.NamedArgs) ([]T, error) {
	rows, err := s.db.Query(ctx, sql, args)
	if err != nil {
		s.log.Error("query failed", zap.String("op", "queryMany"), zap.Error(err))
		return nil, err
	}
	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		s.log.Error("scan failed", zap.String("op", "queryMany"), zap.Error(err))
	}
	return results, err
}

// notFound maps pgx.ErrNoRows onto a domain sentinel and wraps anything else.
func notFound(err, sentinel error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return fmt.Errorf("%s: %w", op, err)
}

/* ─── Users ───────────────────────────────────────────────────────────── */

func (s *pgStore) emailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM users WHERE email = @email)",
		pgx.NamedArgs{"email": email}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

func (s *pgStore) createUser(ctx context.Context, u newUser, plan nutrition.Plan) (user, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return user{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	conditions := u.Conditions
	if conditions == nil {
		conditions = []string{}
	}
	p := u.Profile

	rows, err := tx.Query(ctx,
		`INSERT INTO users (email, name, password_hash, age, gender, height_cm, weight_kg,
			activity_level, goal, weight_goal_kg, climate, diet, allergies, health_conditions)
		 VALUES (@email, @name, @passwordHash, @age, @gender, @heightCM, @weightKG,
			@activityLevel, @goal, @weightGoalKG, @climate, @diet, @allergies, @conditions)
		 RETURNING *`,
		pgx.NamedArgs{
			"email": u.Email, "name": u.Name, "passwordHash": u.PasswordHash,
			"age": p.Age, "gender": p.Gender, "heightCM": p.HeightCM, "weightKG": p.WeightKG,
			"activityLevel": p.ActivityLevel, "goal": string(p.Goal), "weightGoalKG": p.WeightGoalKG,
			"climate": p.Climate, "diet": u.Diet, "allergies": u.Allergies, "conditions": conditions,
		})
	if err != nil {
		return user{}, fmt.Errorf("insert user: %w", err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[user])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user{}, errEmailTaken
		}
		return user{}, fmt.Errorf("insert user: %w", err)
	}

	args, err := planArgs(created.ID, plan)
	if err != nil {
		return user{}, err
	}
	if _, err := tx.Exec(ctx, upsertPlanSQL, args); err != nil {
		return user{}, fmt.Errorf("insert plan: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return user{}, fmt.Errorf("commit: %w", err)
	}
	return created, nil
}

func (s *pgStore) userByEmail(ctx context.Context, email string) (user, error) {
	u, err := queryOne[user](s, ctx,
		"SELECT * FROM users WHERE email = @email",
		pgx.NamedArgs{"email": email})
	if err != nil {
		return user{}, notFound(err, errUserNotFound, "user by email")
	}
	return u, nil
}

func (s *pgStore) userByID(ctx context.Context, id int) (user, error) {
	u, err := queryOne[user](s, ctx,
		"SELECT * FROM users WHERE id = @id",
		pgx.NamedArgs{"id": id})
	if err != nil {
		return user{}, notFound(err, errUserNotFound, "user by id")
	}
	return u, nil
}

const updateProfileSQL = `
	UPDATE users SET
		age = @age, gender = @gender, height_cm = @heightCM, weight_kg = @weightKG,
		activity_level = @activityLevel, goal = @goal, weight_goal_kg = @weightGoalKG,
		climate = @climate
	WHERE id = @id`

func profileArgs(id int, p bodyProfile) pgx.NamedArgs {
	return pgx.NamedArgs{
		"id": id, "age": p.Age, "gender": p.Gender, "heightCM": p.HeightCM,
		"weightKG": p.WeightKG, "activityLevel": p.ActivityLevel, "goal": string(p.Goal),
		"weightGoalKG": p.WeightGoalKG, "climate": p.Climate,
	}
}

/* ─── Nutrition plans ─────────────────────────────────────────────────── */

// upsertPlanSQL keeps one active plan per user: a recompute replaces it.
const upsertPlanSQL = `
	INSERT INTO nutrition_profiles (user_id, calorie_target, carbs_g, protein_g, fat_g, time_frame, water_l, flags)
	VALUES (@userID, @calorieTarget, @carbsG, @proteinG, @fatG, @timeFrame, @waterL, @flags::jsonb)
	ON CONFLICT (user_id) DO UPDATE SET
		calorie_target = EXCLUDED.calorie_target,
		carbs_g        = EXCLUDED.carbs_g,
		protein_g      = EXCLUDED.protein_g,
		fat_g          = EXCLUDED.fat_g,
		time_frame     = EXCLUDED.time_frame,
		water_l        = EXCLUDED.water_l,
		flags          = EXCLUDED.flags,
		updated_at     = now()
	RETURNING *`

// planArgs binds a plan for upsertPlanSQL. Flags are sent as JSON text
// because the pool runs in simple protocol mode.
func planArgs(userID int, p nutrition.Plan) (pgx.NamedArgs, error) {
	flags := p.Flags
	if flags == nil {
		flags = []nutrition.Flag{}
	}
	encoded, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("encode flags: %w", err)
	}
	return pgx.NamedArgs{
		"userID": userID, "calorieTarget": p.CalorieTarget,
		"carbsG": p.CarbsG, "proteinG": p.ProteinG, "fatG": p.FatG,
		"timeFrame": p.TimeFrameWeeks, "waterL": p.WaterL, "flags": string(encoded),
	}, nil
}

func (s *pgStore) replaceProfile(ctx context.Context, userID int, p bodyProfile, plan nutrition.Plan) (planRow, error) {
	args, err := planArgs(userID, plan)
	if err != nil {
		return planRow{}, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return planRow{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, updateProfileSQL, profileArgs(userID, p))
	if err != nil {
		return planRow{}, fmt.Errorf("update profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return planRow{}, errUserNotFound
	}

	rows, err := tx.Query(ctx, upsertPlanSQL, args)
	if err != nil {
		return planRow{}, fmt.Errorf("save plan: %w", err)
	}
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[planRow])
	if err != nil {
		return planRow{}, fmt.Errorf("save plan: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return planRow{}, fmt.Errorf("commit: %w", err)
	}
	return row, nil
}

func (s *pgStore) getPlan(ctx context.Context, userID int) (planRow, error) {
	row, err := queryOne[planRow](s, ctx,
		"SELECT * FROM nutrition_profiles WHERE user_id = @userID",
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return planRow{}, notFound(err, errPlanNotFound, "get plan")
	}
	return row, nil
}

/* ─── Food intake ─────────────────────────────────────────────────────── */

func (s *pgStore) createFoodEntry(ctx context.Context, userID int, e newFoodEntry) (foodEntry, error) {
	entry, err := queryOne[foodEntry](s, ctx,
		`INSERT INTO food_intake (user_id, name, calories, protein, carbs, fat, meal_type, servings, timestamp)
		 VALUES (@userID, @name, @calories, @protein, @carbs, @fat, @mealType, @servings, @timestamp)
		 RETURNING *`,
		pgx.NamedArgs{
			"userID": userID, "name": e.Name, "calories": e.Calories,
			"protein": e.Protein, "carbs": e.Carbs, "fat": e.Fat,
			"mealType": e.MealType, "servings": e.Servings, "timestamp": e.Timestamp,
		})
	if err != nil {
		return foodEntry{}, fmt.Errorf("create food entry: %w", err)
	}
	return entry, nil
}

func (s *pgStore) foodEntries(ctx context.Context, userID int) ([]foodEntry, error) {
	entries, err := queryMany[foodEntry](s, ctx,
		`SELECT * FROM food_intake WHERE user_id = @userID
		 ORDER BY timestamp DESC, id DESC`,
		pgx.NamedArgs{"userID": userID})
	if err != nil {
		return nil, fmt.Errorf("list food entries: %w", err)
	}
	return entries, nil
}

func (s *pgStore) updateServings(ctx context.Context, userID, id int, servings float64) (foodEntry, error) {
	entry, err := queryOne[foodEntry](s, ctx,
		`UPDATE food_intake SET servings = @servings
		 WHERE id = @id AND user_id = @userID
		 RETURNING *`,
		pgx.NamedArgs{"id": id, "userID": userID, "servings": servings})
	if err != nil {
		return foodEntry{}, notFound(err, errEntryNotFound, "update servings")
	}
	return entry, nil
}

func (s *pgStore) deleteFoodEntry(ctx context.Context, userID, id int) error {
	tag, err := s.db.Exec(ctx,
		"DELETE FROM food_intake WHERE id = @id AND user_id = @userID",
		pgx.NamedArgs{"id": id, "userID": userID})
	if err != nil {
		return fmt.Errorf("delete food entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errEntryNotFound
	}
	return nil
}

func (s *pgStore) dayTotals(ctx context.Context, userID int, date string) (dayTotals, error) {
	t, err := queryOne[dayTotals](s, ctx,
		`SELECT
			COALESCE(SUM(calories * servings), 0)::float8 AS calories,
			COALESCE(SUM(protein  * servings), 0)::float8 AS protein,
			COALESCE(SUM(carbs    * servings), 0)::float8 AS carbs,
			COALESCE(SUM(fat      * servings), 0)::float8 AS fat,
			COUNT(*)::int AS entries
		 FROM food_intake
		 WHERE user_id = @userID AND timestamp::date = @date::date`,
		pgx.NamedArgs{"userID": userID, "date": date})
	if err != nil {
		return dayTotals{}, fmt.Errorf("day totals: %w", err)
	}
	return t, nil
}

/* ─── Water ───────────────────────────────────────────────────────────── */

func (s *pgStore) upsertWater(ctx context.Context, userID int, date string, liters float64) (waterEntry, error) {
	entry, err := queryOne[waterEntry](s, ctx,
		`INSERT INTO water_log (user_id, date, liters)
		 VALUES (@userID, @date, @liters)
		 ON CONFLICT (user_id, date) DO UPDATE SET liters = EXCLUDED.liters, updated_at = now()
		 RETURNING *`,
		pgx.NamedArgs{"userID": userID, "date": date, "liters": liters})
	if err != nil {
		return waterEntry{}, fmt.Errorf("upsert water: %w", err)
	}
	return entry, nil
}

func (s *pgStore) waterForDate(ctx context.Context, userID int, date string) (float64, error) {
	entry, err := queryOne[waterEntry](s, ctx,
		"SELECT * FROM water_log WHERE user_id = @userID AND date = @date",
		pgx.NamedArgs{"userID": userID, "date": date})
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("water for date: %w", err)
	}
	return entry.Liters, nil
}

// ping is used by the startup check.
func (s *pgStore) ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.db.Ping(ctx)
}
