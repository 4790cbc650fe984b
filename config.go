package neatbird

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every tunable of a game session.
type Config struct {
	Seed              int64 `yaml:"seed"`
	TickRate          int   `yaml:"tick_rate"`
	ReferenceTickRate int   `yaml:"reference_tick_rate"`

	Screen    ScreenConfig    `yaml:"screen"`
	Bird      BirdConfig      `yaml:"bird"`
	Pipe      PipeConfig      `yaml:"pipe"`
	Fitness   FitnessConfig   `yaml:"fitness"`
	Training  TrainingConfig  `yaml:"training"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

type ScreenConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Ground float64 `yaml:"ground"`
}

// BirdConfig holds the spawn point, the hitbox and the kinematic constants.
type BirdConfig struct {
	X                float64 `yaml:"x"`
	Y                float64 `yaml:"y"`
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	JumpVelocity     float64 `yaml:"jump_velocity"`
	Gravity          float64 `yaml:"gravity"`
	TerminalVelocity float64 `yaml:"terminal_velocity"`
	LiftBias         float64 `yaml:"lift_bias"`
	MaxTilt          float64 `yaml:"max_tilt"`
	MinTilt          float64 `yaml:"min_tilt"`
	TiltVelocity     float64 `yaml:"tilt_velocity"`
	TiltWindow       float64 `yaml:"tilt_window"`
}

type PipeConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Gap       float64 `yaml:"gap"`
	Velocity  float64 `yaml:"velocity"`
	MinHeight int     `yaml:"min_height"`
	MaxHeight int     `yaml:"max_height"`
}

// FitnessConfig holds the rewards applied in training mode.
type FitnessConfig struct {
	Survival float64 `yaml:"survival"`
	Pass     float64 `yaml:"pass"`
	Crash    float64 `yaml:"crash"`
}

type TrainingConfig struct {
	ScoreThreshold int    `yaml:"score_threshold"`
	Generations    int    `yaml:"generations"`
	NeatConfig     string `yaml:"neat_config"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Path    string `yaml:"path"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

type TelemetryConfig struct {
	Dir string `yaml:"dir"`
}

// DefaultConfig returns the embedded defaults.
func DefaultConfig() *Config {
	cfg, err := LoadConfig("")
	if err != nil {
		panic(fmt.Sprintf("neatbird: invalid embedded defaults: %v", err))
	}
	return cfg
}

// LoadConfig loads the embedded defaults and overlays the YAML file at path,
// if any. Fields missing from the file keep their default value.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.rescale()
	return cfg, nil
}

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	switch {
	case c.TickRate <= 0 || c.ReferenceTickRate <= 0:
		return errors.New("config: tick rates must be positive")
	case c.Screen.Width <= 0 || c.Screen.Ground <= 0:
		return errors.New("config: screen width and ground must be positive")
	case c.Bird.Width <= 0 || c.Bird.Height <= 0:
		return errors.New("config: bird size must be positive")
	case c.Pipe.Width <= 0 || c.Pipe.Height <= 0:
		return errors.New("config: pipe size must be positive")
	case c.Pipe.Gap <= 0:
		return errors.New("config: pipe gap must be positive")
	case c.Pipe.MinHeight > c.Pipe.MaxHeight:
		return fmt.Errorf("config: pipe min_height %d above max_height %d", c.Pipe.MinHeight, c.Pipe.MaxHeight)
	case c.Bird.Gravity <= 0:
		return errors.New("config: gravity must be positive")
	case c.Bird.TerminalVelocity <= 0:
		return errors.New("config: terminal velocity must be positive")
	}
	return nil
}

// rescale converts the per-tick constants from the reference tick rate to
// the configured one. The kinematic formula stays the same: it yields the
// displacement of a single tick from the ticks since the jump, so with
// k = reference/rate the velocity term scales by k² and gravity by k³ to keep
// the trajectory unchanged in real time.
func (c *Config) rescale() {
	if c.TickRate == c.ReferenceTickRate {
		return
	}
	k := float64(c.ReferenceTickRate) / float64(c.TickRate)

	c.Bird.JumpVelocity *= k * k
	c.Bird.TerminalVelocity *= k
	c.Bird.LiftBias *= k
	c.Bird.Gravity *= k * k * k
	c.Bird.TiltVelocity *= k
	c.Pipe.Velocity *= k
	c.Fitness.Survival *= k

	c.ReferenceTickRate = c.TickRate
}

// NewRand returns a random source seeded from Seed, or from the clock when
// Seed is 0.
func (c *Config) NewRand() *rand.Rand {
	seed := c.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// WriteYAML writes the configuration to path.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
