package main

import (
	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/sim"
	"github.com/milosgajdos/go-bodycomp/tracker"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot/vg"
)

func plotCmd() *cobra.Command {
	var (
		variant string
		out     string
		smooth  bool
	)

	cmd := &cobra.Command{
		Use:   "plot [csv]",
		Short: "Plot measured and filtered weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := tracker.ParseVariant(variant)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			recs, err := readRecords(args[0])
			if err != nil {
				return err
			}

			res, err := tracker.Run(v, cfg, recs)
			if err != nil {
				return err
			}

			var smoothed *mat.Dense
			if smooth {
				sm, err := res.Smooth()
				if err != nil {
					return err
				}
				w := make([]float64, len(sm))
				for i := range sm {
					w[i] = lb(sm[i].Weight())
				}
				smoothed = sim.Series(w)
			}

			p, err := sim.NewWeightPlot(sim.Series(lbs(res.Measured())), sim.Series(lbs(res.Weights())), smoothed)
			if err != nil {
				return err
			}

			if err := p.Save(10*vg.Inch, 5*vg.Inch, out); err != nil {
				return err
			}
			logger.Info("saved plot", zap.String("path", out))

			return nil
		},
	}

	cmd.Flags().StringVarP(&variant, "model", "m", string(tracker.Exertion), "model variant: weight, exertion or bodyfat")
	cmd.Flags().StringVarP(&out, "out", "o", "weight.png", "output image file")
	cmd.Flags().BoolVar(&smooth, "smooth", false, "plot smoothed weights")

	return cmd
}

func lb(kg float64) float64 {
	return kg * config.LbPerKg
}

func lbs(kg []float64) []float64 {
	w := make([]float64, len(kg))
	for i := range kg {
		w[i] = lb(kg[i])
	}

	return w
}
