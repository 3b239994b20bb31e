// CLI tool to create a user with a bcrypt-hashed password and an initial nutrition plan.
// Usage: go run ./cmd/create-user
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

// account is what the prompts collect.
type account struct {
	Name     string
	Email    string
	Password string
	Profile  nutrition.ProfileInput
}

func main() {
	// .env is optional when DB_URL is already exported.
	_ = godotenv.Load()

	acct, err := prompt(bufio.NewReader(os.Stdin), os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	plan, err := nutrition.ComputePlan(acct.Profile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing nutrition plan: %v\n", err)
		os.Exit(1)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error hashing password: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	userID, err := insert(ctx, conn, acct, string(hash), plan)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nUser created successfully!\n")
	fmt.Printf("  ID:             %d\n", userID)
	fmt.Printf("  Email:          %s\n", acct.Email)
	fmt.Printf("  Calorie target: %d kcal\n", plan.CalorieTarget)
	fmt.Printf("  Macros (C/P/F): %d/%d/%d g\n", plan.CarbsG, plan.ProteinG, plan.FatG)
	for _, f := range plan.Flags {
		fmt.Printf("  [%s] %s\n", f.Severity, f.Message)
	}
}

// prompt reads the account and profile fields line by line.
func prompt(r *bufio.Reader, w io.Writer) (account, error) {
	ask := func(label string) string {
		fmt.Fprintf(w, "%s: ", label)
		line, _ := r.ReadString('\n')
		return strings.TrimSpace(line)
	}
	askFloat := func(label string) (float64, error) {
		v, err := strconv.ParseFloat(ask(label), 64)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", strings.ToLower(label), err)
		}
		return v, nil
	}

	var a account
	a.Name = ask("Name")
	a.Email = ask("Email")
	a.Password = ask("Password")
	if a.Name == "" || a.Email == "" || a.Password == "" {
		return account{}, fmt.Errorf("name, email and password are required")
	}

	age, err := strconv.Atoi(ask("Age"))
	if err != nil {
		return account{}, fmt.Errorf("age: %w", err)
	}
	gender := ask("Gender (male/female/other)")
	weight, err := askFloat("Weight kg")
	if err != nil {
		return account{}, err
	}
	height, err := askFloat("Height cm")
	if err != nil {
		return account{}, err
	}
	activity := ask("Activity level (sedentary/lightly active/moderately active/very active)")
	goal, ok := nutrition.ParseGoal(ask("Goal (maintenance/weight loss/weight gain)"))
	if !ok {
		return account{}, fmt.Errorf("unknown goal")
	}
	target := weight
	if goal != nutrition.GoalMaintenance {
		if target, err = askFloat("Target weight kg"); err != nil {
			return account{}, err
		}
	}

	a.Profile = nutrition.ProfileInput{
		Age:            age,
		Gender:         nutrition.ParseGender(gender),
		WeightKG:       weight,
		HeightCM:       height,
		ActivityLevel:  nutrition.ParseActivityLevel(activity),
		Goal:           goal,
		TargetWeightKG: &target,
		Climate:        nutrition.ParseClimate(ask("Climate (temperate/hot)")),
	}
	return a, nil
}

// insert writes the user and plan rows in one transaction.
func insert(ctx context.Context, conn *pgx.Conn, a account, hash string, plan nutrition.Plan) (int, error) {
	flags, err := json.Marshal(plan.Flags)
	if err != nil {
		return 0, err
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	p := a.Profile
	var userID int
	err = tx.QueryRow(ctx,
		`INSERT INTO users (email, name, password_hash, age, gender, height_cm, weight_kg,
			activity_level, goal, weight_goal_kg, climate)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`,
		a.Email, a.Name, hash, p.Age, string(p.Gender), p.HeightCM, p.WeightKG,
		string(p.ActivityLevel), string(p.Goal), *p.TargetWeightKG, string(p.Climate),
	).Scan(&userID)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO nutrition_profiles (user_id, calorie_target, carbs_g, protein_g, fat_g, time_frame, water_l, flags)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb)`,
		userID, plan.CalorieTarget, plan.CarbsG, plan.ProteinG, plan.FatG,
		plan.TimeFrameWeeks, plan.WaterL, string(flags))
	if err != nil {
		return 0, fmt.Errorf("creating nutrition plan: %w", err)
	}

	return userID, tx.Commit(ctx)
}
