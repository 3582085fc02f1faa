package main

import (
	"fmt"
	"os"
	"time"

	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/milosgajdos/go-bodycomp/sim"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func simulateCmd() *cobra.Command {
	var (
		body     sim.Body
		days     int
		intake   float64
		activity float64
		scaleSD  float64
		bfSD     float64
		corr     float64
		seed     uint64
		startDay string
		out      string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate synthetic daily records from a body with known maintenance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			start, err := time.Parse(time.DateOnly, startDay)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", startDay, err)
			}

			if days <= 0 {
				return fmt.Errorf("invalid number of days: %d", days)
			}

			scale, err := sim.NewScale(scaleSD, bfSD, corr, seed)
			if err != nil {
				return err
			}

			plan := make([]sim.Day, days)
			for i := range plan {
				plan[i] = sim.Day{IntakeKcal: intake, Activity: activity}
			}

			body.EnergyPerKg = cfg.EnergyPerKg
			traj, err := body.Simulate(start, plan, scale)
			if err != nil {
				return err
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			rw := record.NewWriter(w)
			for _, rec := range traj.Records {
				if cfg.Pounds {
					rec.Weight *= config.LbPerKg
				}
				if err := rw.Write(rec); err != nil {
					return err
				}
			}

			logger.Info("simulated",
				zap.Int("days", days),
				zap.Float64("final_weight_kg", traj.Weights[len(traj.Weights)-1]),
				zap.Float64("maintenance", body.Maintenance),
			)

			return nil
		},
	}

	cmd.Flags().Float64Var(&body.Weight, "weight", 100, "initial weight in kg")
	cmd.Flags().Float64Var(&body.Maintenance, "maintenance", 2800, "true maintenance kcal/day")
	cmd.Flags().Float64Var(&body.Coefficient, "coefficient", 30, "true kcal per activity unit")
	cmd.Flags().Float64Var(&body.BodyFat, "bodyfat", 25, "initial body fat %")
	cmd.Flags().IntVarP(&days, "days", "n", 90, "number of days")
	cmd.Flags().Float64Var(&intake, "intake", 2500, "daily intake kcal")
	cmd.Flags().Float64Var(&activity, "activity", 0, "daily activity")
	cmd.Flags().Float64Var(&scaleSD, "scale-sd", 0.5, "scale weight noise standard deviation in kg")
	cmd.Flags().Float64Var(&bfSD, "bodyfat-sd", 1, "scale body fat noise standard deviation")
	cmd.Flags().Float64Var(&corr, "scale-corr", 0, "correlation of scale weight and body fat noise, in (-1, 1)")
	cmd.Flags().Uint64Var(&seed, "seed", 1, "noise seed")
	cmd.Flags().StringVar(&startDay, "start", "2025-01-01", "first day YYYY-MM-DD")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout if empty")

	return cmd
}
