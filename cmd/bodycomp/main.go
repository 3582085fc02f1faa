package main

import (
	"fmt"
	"os"

	"github.com/milosgajdos/go-bodycomp/config"
	"github.com/milosgajdos/go-bodycomp/record"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	debug      bool
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "bodycomp",
		Short:         "Body composition tracking with Kalman filters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if debug {
				logger, err = zap.NewDevelopment()
			} else {
				logger, err = zap.NewProduction()
			}
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(plotCmd())
	rootCmd.AddCommand(logCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}

	c, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	logger.Debug("loaded config", zap.String("path", configPath))

	return c, nil
}

// readRecords reads all records from path, or stdin if path is "-".
func readRecords(path string) ([]record.Record, error) {
	in := os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}

	recs, err := record.NewReader(in).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	logger.Info("read records", zap.String("path", path), zap.Int("count", len(recs)))

	return recs, nil
}
