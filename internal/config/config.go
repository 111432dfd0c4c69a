package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults. The window and radius mirror the classic 800x800 sandbox;
// gravity is in pixels per second squared.
const (
	DefaultParticles   = 64
	DefaultWidth       = 800.0
	DefaultHeight      = 800.0
	DefaultRadius      = 10.0
	DefaultGravity     = 980.0
	DefaultRestitution = 0.9
	DefaultCorrection  = 0.2
	DefaultSlop        = 0.01
	DefaultMaxSpeed    = 200.0
	DefaultStepper     = "continuous"
	DefaultDt          = 1.0 / 240
	DefaultDuration    = 10.0
	DefaultFPS         = 60
)

type Config struct {
	Particles         int     `yaml:"particles"`
	Width             float64 `yaml:"width"`
	Height            float64 `yaml:"height"`
	Radius            float64 `yaml:"radius"`
	Gravity           float64 `yaml:"gravity"`
	Restitution       float64 `yaml:"restitution"`
	CorrectionPercent float64 `yaml:"correction_percent"`
	CorrectionSlop    float64 `yaml:"correction_slop"`
	MaxSpeed          float64 `yaml:"max_speed"`
	Stepper           string  `yaml:"stepper"`
	Dt                float64 `yaml:"dt"`
	Duration          float64 `yaml:"duration"`
	FPS               int     `yaml:"fps"`
	Seed              int64   `yaml:"seed"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles:         DefaultParticles,
		Width:             DefaultWidth,
		Height:            DefaultHeight,
		Radius:            DefaultRadius,
		Gravity:           DefaultGravity,
		Restitution:       DefaultRestitution,
		CorrectionPercent: DefaultCorrection,
		CorrectionSlop:    DefaultSlop,
		MaxSpeed:          DefaultMaxSpeed,
		Stepper:           DefaultStepper,
		Dt:                DefaultDt,
		Duration:          DefaultDuration,
		FPS:               DefaultFPS,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Particles <= 0 {
		return fmt.Errorf("config: particles must be positive, got %d", c.Particles)
	}
	if c.Radius <= 0 {
		return fmt.Errorf("config: radius must be positive, got %f", c.Radius)
	}
	if c.Width < 2*c.Radius || c.Height < 2*c.Radius {
		return fmt.Errorf("config: window %gx%g cannot hold radius %g", c.Width, c.Height, c.Radius)
	}
	if c.Restitution < 0 || c.Restitution > 1 {
		return fmt.Errorf("config: restitution must be in [0,1], got %f", c.Restitution)
	}
	if c.CorrectionPercent < 0 || c.CorrectionPercent > 1 {
		return fmt.Errorf("config: correction_percent must be in [0,1], got %f", c.CorrectionPercent)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %f", c.Dt)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.FPS)
	}
	return nil
}
