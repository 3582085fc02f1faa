package main

import (
	"fmt"
	"time"

	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func logCmd() *cobra.Command {
	var (
		day      string
		weight   float64
		intake   float64
		activity float64
		protein  float64
		bodyFat  float64
	)

	cmd := &cobra.Command{
		Use:   "log [csv]",
		Short: "Append a day record to a csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse(time.DateOnly, day)
			if err != nil {
				return fmt.Errorf("invalid date %q: %w", day, err)
			}

			if !(weight > 0) {
				return fmt.Errorf("invalid weight: %v", weight)
			}

			rec := record.Record{
				Date:       date,
				Weight:     weight,
				IntakeKcal: intake,
				Activity:   activity,
			}
			if cmd.Flags().Changed("protein") {
				rec.Protein = &protein
			}
			if cmd.Flags().Changed("bodyfat") {
				rec.BodyFat = &bodyFat
			}

			if err := record.Append(args[0], rec); err != nil {
				return err
			}
			logger.Info("logged record", zap.String("path", args[0]), zap.String("date", rec.Day()))

			return nil
		},
	}

	cmd.Flags().StringVarP(&day, "date", "d", time.Now().Format(time.DateOnly), "record date YYYY-MM-DD")
	cmd.Flags().Float64VarP(&weight, "weight", "w", 0, "measured weight")
	cmd.Flags().Float64VarP(&intake, "intake", "i", 0, "calories eaten")
	cmd.Flags().Float64VarP(&activity, "activity", "a", 0, "activity")
	cmd.Flags().Float64Var(&protein, "protein", 0, "protein eaten in grams")
	cmd.Flags().Float64Var(&bodyFat, "bodyfat", 0, "measured body fat %")
	_ = cmd.MarkFlagRequired("weight")

	return cmd
}
