package main

import (
	"fmt"
	"os"

	"github.com/milosgajdos/go-bodycomp/estimate"
	"github.com/milosgajdos/go-bodycomp/report"
	"github.com/milosgajdos/go-bodycomp/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

func runCmd() *cobra.Command {
	var (
		variant string
		format  string
		smooth  bool
	)

	cmd := &cobra.Command{
		Use:   "run [csv]",
		Short: "Run the filter over daily records and print estimates",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := tracker.ParseVariant(variant)
			if err != nil {
				return err
			}

			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			path := "-"
			if len(args) > 0 {
				path = args[0]
			}

			recs, err := readRecords(path)
			if err != nil {
				return err
			}

			res, err := tracker.Run(v, cfg, recs)
			if err != nil {
				return err
			}

			for _, d := range res.Days {
				logger.Debug("posterior",
					zap.String("date", d.Record.Day()),
					zap.Float64("weight_kg", d.Estimate.Weight()),
					zap.Float64("weight_sd", d.Estimate.WeightStdDev()),
					zap.Float64("maintenance", d.Estimate.Maintenance()),
					zap.String("cov", fmt.Sprintf("%.4g", mat.Formatted(d.Estimate.Cov(), mat.Squeeze()))),
				)
			}

			var smoothed []*estimate.Body
			if smooth {
				if smoothed, err = res.Smooth(); err != nil {
					return err
				}
			}

			last := res.Last().Estimate
			logger.Info("run complete",
				zap.String("model", string(v)),
				zap.Int("days", len(res.Days)),
				zap.Float64("weight_kg", last.Weight()),
				zap.Float64("maintenance", last.Maintenance()),
			)

			return report.Write(os.Stdout, res, smoothed, f)
		},
	}

	cmd.Flags().StringVarP(&variant, "model", "m", string(tracker.Exertion), "model variant: weight, exertion or bodyfat")
	cmd.Flags().StringVarP(&format, "format", "f", string(report.Text), "output format: text, csv or table")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "add retrospectively smoothed weights")

	return cmd
}
