// nutriplan computes a nutrition plan from the command line and prints it as JSON.
//
//	go run ./cmd/nutriplan --age 25 --gender male --weight 80 --height 180 \
//	    --activity "moderately active" --goal "weight loss" --target 72
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bilal-qadir123/AI-Diet-App/nutrition"
)

type options struct {
	age      int
	gender   string
	weight   float64
	height   float64
	activity string
	goal     string
	target   float64
	climate  string
	pretty   bool
	verbose  bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	var logger *zap.Logger

	cmd := &cobra.Command{
		Use:   "nutriplan",
		Short: "Compute a daily nutrition plan from a biometric profile",
		Long: `Computes calorie target, macro grams, timeframe and water target.

Every safety adjustment made along the way is reported in the "flags" array.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := zapcore.WarnLevel
			if opts.verbose {
				level = zapcore.DebugLevel
			}
			logger = zap.New(zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(stderr),
				level,
			))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, opts, stdout, logger)
			if err != nil {
				fmt.Fprintf(stderr, "error: %v\n", err)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.age, "age", 0, "age in years")
	f.StringVar(&opts.gender, "gender", "other", "male, female or other")
	f.Float64Var(&opts.weight, "weight", 0, "current weight in kg")
	f.Float64Var(&opts.height, "height", 0, "height in cm (values <= 3 are read as meters)")
	f.StringVar(&opts.activity, "activity", string(nutrition.Sedentary), "sedentary, lightly active, moderately active or very active")
	f.StringVar(&opts.goal, "goal", string(nutrition.GoalMaintenance), "maintenance, weight loss or weight gain")
	f.Float64Var(&opts.target, "target", 0, "target weight in kg (defaults to current weight)")
	f.StringVar(&opts.climate, "climate", string(nutrition.ClimateTemperate), "temperate or hot")
	f.BoolVar(&opts.pretty, "pretty", false, "indent the JSON output")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "log intermediate values to stderr")
	_ = cmd.MarkFlagRequired("age")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("height")

	return cmd
}

func run(cmd *cobra.Command, opts options, out io.Writer, logger *zap.Logger) error {
	goal, ok := nutrition.ParseGoal(opts.goal)
	if !ok {
		return fmt.Errorf("unknown goal %q", opts.goal)
	}

	in := nutrition.ProfileInput{
		Age:           opts.age,
		Gender:        nutrition.ParseGender(opts.gender),
		WeightKG:      opts.weight,
		HeightCM:      opts.height,
		ActivityLevel: nutrition.ParseActivityLevel(opts.activity),
		Goal:          goal,
		Climate:       nutrition.ParseClimate(opts.climate),
	}
	if cmd.Flags().Changed("target") {
		in.TargetWeightKG = &opts.target
	}

	plan, err := nutrition.ComputePlan(in)
	if err != nil {
		var verr *nutrition.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("bad --%s: %w", flagFor(verr.Field), err)
		}
		return err
	}

	bmr := nutrition.BMR(in.WeightKG, nutrition.NormalizeHeightCM(in.HeightCM), in.Age, in.Gender)
	tdee := nutrition.TDEE(bmr, in.ActivityLevel)
	lower, upper := nutrition.CalorieBounds(bmr, tdee, in.WeightKG, in.Age, in.Gender)
	logger.Debug("energy",
		zap.Float64("bmr", bmr),
		zap.Float64("tdee", tdee),
		zap.Float64("lower_bound", lower),
		zap.Float64("upper_bound", upper),
	)
	for _, fl := range plan.Flags {
		logger.Debug("flag", zap.String("code", fl.Code), zap.String("level", string(fl.Severity)))
	}

	enc := json.NewEncoder(out)
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(plan)
}

func flagFor(field string) string {
	switch field {
	case "target weight":
		return "target"
	default:
		return field
	}
}
