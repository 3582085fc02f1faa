// Package config provides the fixed parameters of the body composition estimator.
//
// A Config is a plain value: it is built once, either from Default or by
// overlaying a YAML file on top of the defaults with Load, and then passed
// by value to the estimator constructors.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when configuration parameters are invalid.
var ErrInvalid = errors.New("invalid configuration")

const (
	// EnergyPerKg is the energy needed to change body mass by 1 kg
	EnergyPerKg = 7700.0
	// LbPerKg converts kilograms to pounds
	LbPerKg = 2.205
)

// Tuning holds filter noise parameters of a single model variant.
// All values are variances in the units of the corresponding state or measurement.
type Tuning struct {
	// Prior is initial state variance
	Prior []float64 `yaml:"prior"`
	// Process is per-day process noise variance
	Process []float64 `yaml:"process"`
	// Measurement is measurement noise variance
	Measurement []float64 `yaml:"measurement"`
}

func (t Tuning) validate(name string, nx, ny int) error {
	if len(t.Prior) != nx {
		return fmt.Errorf("%w: %s prior needs %d values, got %d", ErrInvalid, name, nx, len(t.Prior))
	}
	if len(t.Process) != nx {
		return fmt.Errorf("%w: %s process noise needs %d values, got %d", ErrInvalid, name, nx, len(t.Process))
	}
	if len(t.Measurement) != ny {
		return fmt.Errorf("%w: %s measurement noise needs %d values, got %d", ErrInvalid, name, ny, len(t.Measurement))
	}

	for i, v := range t.Prior {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s prior[%d] must be positive: %v", ErrInvalid, name, i, v)
		}
	}
	for i, v := range t.Process {
		if !(v >= 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s process[%d] must not be negative: %v", ErrInvalid, name, i, v)
		}
	}
	for i, v := range t.Measurement {
		if !(v > 0) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: %s measurement[%d] must be positive: %v", ErrInvalid, name, i, v)
		}
	}

	return nil
}

// Policy is the calorie recommendation policy.
type Policy struct {
	// Low is the weekly weight loss fraction under which intake should drop
	Low float64 `yaml:"low"`
	// High is the weekly weight loss fraction over which intake should rise
	High float64 `yaml:"high"`
	// Step is the recommended intake change in kcal/day
	Step float64 `yaml:"step"`
	// Window is the number of trailing days averaged for intake
	Window int `yaml:"window"`
}

// Target is a calorie intake target set on a given date.
type Target struct {
	Kcal float64 `yaml:"kcal"`
	Date string  `yaml:"date"`
}

// Config configures the estimator.
type Config struct {
	// EnergyPerKg is kcal per kg of body mass change
	EnergyPerKg float64 `yaml:"energy_per_kg"`
	// Pounds is set if recorded weights are in pounds
	Pounds bool `yaml:"pounds"`
	// InitialWeight is the prior weight in kg; zero means the first measurement
	InitialWeight float64 `yaml:"initial_weight"`
	// InitialMaintenance is the prior maintenance calories guess
	InitialMaintenance float64 `yaml:"initial_maintenance"`
	// InitialCoefficient is the prior kcal per exertion unit guess
	InitialCoefficient float64 `yaml:"initial_coefficient"`
	// InitialBodyFat is the prior body fat percentage; zero means the first measurement
	InitialBodyFat float64 `yaml:"initial_body_fat"`
	// Weight tunes the [weight, maintenance] filter
	Weight Tuning `yaml:"weight"`
	// Exertion tunes the [weight, maintenance, coefficient] filter
	Exertion Tuning `yaml:"exertion"`
	// BodyFat tunes the [weight, maintenance, body fat] filter
	BodyFat Tuning `yaml:"bodyfat"`
	// Policy is the calorie recommendation policy
	Policy Policy `yaml:"policy"`
	// Target is an optional calorie target
	Target *Target `yaml:"target,omitempty"`
}

// Default returns default configuration.
func Default() Config {
	return Config{
		EnergyPerKg:        EnergyPerKg,
		Pounds:             true,
		InitialMaintenance: 3100.0,
		InitialCoefficient: 70.0,
		Weight: Tuning{
			Prior:       []float64{0.5 * 0.5, 600.0 * 600.0},
			Process:     []float64{0, 80.0 * 80.0},
			Measurement: []float64{0.5 * 0.5},
		},
		Exertion: Tuning{
			Prior:       []float64{2.0 * 2.0, 200.0 * 200.0, 30.0 * 30.0},
			Process:     []float64{0, 12.0 * 12.0, 2.0 * 2.0},
			Measurement: []float64{0.6 * 0.6},
		},
		BodyFat: Tuning{
			Prior:       []float64{1.0, 400.0, 4.0},
			Process:     []float64{0.0025, 25.0, 0.0004},
			Measurement: []float64{0.04, 4.0},
		},
		Policy: Policy{
			Low:    0.005,
			High:   0.010,
			Step:   200,
			Window: 7,
		},
	}
}

// Load reads YAML configuration from path on top of the defaults.
// It returns error if the file can't be read or parsed, or if the result is invalid.
func Load(path string) (Config, error) {
	c := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate checks configuration parameters.
func (c Config) Validate() error {
	if !(c.EnergyPerKg > 0) {
		return fmt.Errorf("%w: energy_per_kg must be positive: %v", ErrInvalid, c.EnergyPerKg)
	}
	if c.InitialWeight < 0 {
		return fmt.Errorf("%w: initial_weight must not be negative: %v", ErrInvalid, c.InitialWeight)
	}
	if !(c.InitialMaintenance > 0) {
		return fmt.Errorf("%w: initial_maintenance must be positive: %v", ErrInvalid, c.InitialMaintenance)
	}
	if c.InitialBodyFat < 0 || c.InitialBodyFat > 100 {
		return fmt.Errorf("%w: initial_body_fat out of range: %v", ErrInvalid, c.InitialBodyFat)
	}

	if err := c.Weight.validate("weight", 2, 1); err != nil {
		return err
	}
	if err := c.Exertion.validate("exertion", 3, 1); err != nil {
		return err
	}
	if err := c.BodyFat.validate("bodyfat", 3, 2); err != nil {
		return err
	}

	p := c.Policy
	if p.Low < 0 || p.High < p.Low {
		return fmt.Errorf("%w: policy thresholds low %v high %v", ErrInvalid, p.Low, p.High)
	}
	if p.Step < 0 {
		return fmt.Errorf("%w: policy step must not be negative: %v", ErrInvalid, p.Step)
	}
	if p.Window <= 0 {
		return fmt.Errorf("%w: policy window must be positive: %d", ErrInvalid, p.Window)
	}

	if c.Target != nil {
		if c.Target.Kcal <= 0 {
			return fmt.Errorf("%w: target kcal must be positive: %v", ErrInvalid, c.Target.Kcal)
		}
		if _, err := time.Parse(time.DateOnly, c.Target.Date); err != nil {
			return fmt.Errorf("%w: target date %q: %v", ErrInvalid, c.Target.Date, err)
		}
	}

	return nil
}

// ToKg converts a recorded weight to kilograms.
func (c Config) ToKg(w float64) float64 {
	if c.Pounds {
		return w / LbPerKg
	}

	return w
}
