package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/dynamo"
)

const (
	DefaultScenario = "glide"
	DefaultDt       = 1.0 / 120
	DefaultDuration = 60.0
	DefaultMass     = 2000.0
	DefaultAltitude = 1000.0
	DefaultSpeed    = 60.0
	DefaultAirfoil  = "naca0015"
)

// ErrInvalidConfig wraps every validation failure reported by Validate.
var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Scenario string         `yaml:"scenario"`
	Dt       float64        `yaml:"dt"`
	Duration float64        `yaml:"duration"`
	Gravity  bool           `yaml:"gravity"`
	Seed     int64          `yaml:"seed"`
	Airplane AirplaneConfig `yaml:"airplane"`
}

// Attitude is an initial orientation in degrees. Yaw is applied first,
// then pitch, then roll.
type Attitude struct {
	Pitch float64 `yaml:"pitch"`
	Yaw   float64 `yaml:"yaw"`
	Roll  float64 `yaml:"roll"`
}

type AirplaneConfig struct {
	Mass            float64      `yaml:"mass"`
	Dimensions      mgl64.Vec3   `yaml:"dimensions,flow"`
	Position        mgl64.Vec3   `yaml:"position,flow"`
	Velocity        mgl64.Vec3   `yaml:"velocity,flow"`
	Attitude        Attitude     `yaml:"attitude"`
	AngularVelocity mgl64.Vec3   `yaml:"angular_velocity,flow"`
	Throttle        float64      `yaml:"throttle"`
	MaxThrust       float64      `yaml:"max_thrust"`
	PressureFactor  float64      `yaml:"pressure_factor,omitempty"`
	Airfoil         string       `yaml:"airfoil"`
	Wind            mgl64.Vec3   `yaml:"wind,flow"`
	Wings           []WingConfig `yaml:"wings,omitempty"`

	Autothrottle *AutothrottleConfig `yaml:"autothrottle,omitempty"`
}

// AutothrottleConfig engages airspeed hold. Speed is in m/s.
type AutothrottleConfig struct {
	Speed float64 `yaml:"speed"`
	Kp    float64 `yaml:"kp"`
	Ki    float64 `yaml:"ki"`
	Kd    float64 `yaml:"kd"`
}

// WingConfig describes one surface. A zero Normal means up; an empty
// Airfoil inherits the airplane's.
type WingConfig struct {
	Name    string     `yaml:"name"`
	Offset  mgl64.Vec3 `yaml:"offset,flow"`
	Area    float64    `yaml:"area"`
	Normal  mgl64.Vec3 `yaml:"normal,flow,omitempty"`
	Airfoil string     `yaml:"airfoil,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		Gravity:  true,
		Airplane: AirplaneConfig{
			Mass:       DefaultMass,
			Dimensions: mgl64.Vec3{1, 1, 1},
			Position:   mgl64.Vec3{0, DefaultAltitude, 0},
			Velocity:   mgl64.Vec3{DefaultSpeed, 0, 0},
			Airfoil:    DefaultAirfoil,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
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

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Airplane.Wings != nil {
		out.Airplane.Wings = make([]WingConfig, len(c.Airplane.Wings))
		copy(out.Airplane.Wings, c.Airplane.Wings)
	}
	if c.Airplane.Autothrottle != nil {
		at := *c.Airplane.Autothrottle
		out.Airplane.Autothrottle = &at
	}
	return &out
}

// Validate reports the first problem that would stop the airplane from
// being built.
func (c *Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidConfig, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, c.Duration)
	}

	a := c.Airplane
	if !(a.Mass > 0) || math.IsInf(a.Mass, 0) {
		return fmt.Errorf("%w: mass must be positive, got %v", ErrInvalidConfig, a.Mass)
	}
	for i, d := range a.Dimensions {
		if !(d > 0) {
			return fmt.Errorf("%w: dimensions[%d] must be positive, got %v", ErrInvalidConfig, i, d)
		}
	}
	if a.Throttle < 0 || a.Throttle > 1 {
		return fmt.Errorf("%w: throttle must be in [0, 1], got %v", ErrInvalidConfig, a.Throttle)
	}
	if a.MaxThrust < 0 {
		return fmt.Errorf("%w: max_thrust must be non-negative, got %v", ErrInvalidConfig, a.MaxThrust)
	}
	if a.PressureFactor < 0 {
		return fmt.Errorf("%w: pressure_factor must be non-negative, got %v", ErrInvalidConfig, a.PressureFactor)
	}
	if at := a.Autothrottle; at != nil {
		if !(at.Speed > 0) {
			return fmt.Errorf("%w: autothrottle speed must be positive, got %v", ErrInvalidConfig, at.Speed)
		}
		if !(a.MaxThrust > 0) {
			return fmt.Errorf("%w: autothrottle needs max_thrust", ErrInvalidConfig)
		}
	}
	if _, _, err := aero.Airfoil(a.Airfoil); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	seen := make(map[string]bool, len(a.Wings))
	for _, w := range a.Wings {
		if w.Name == "" {
			return fmt.Errorf("%w: wing without a name", ErrInvalidConfig)
		}
		if seen[w.Name] {
			return fmt.Errorf("%w: duplicate wing %q", ErrInvalidConfig, w.Name)
		}
		seen[w.Name] = true
		if !(w.Area > 0) {
			return fmt.Errorf("%w: wing %q area must be positive, got %v", ErrInvalidConfig, w.Name, w.Area)
		}
		if w.Airfoil != "" {
			if _, _, err := aero.Airfoil(w.Airfoil); err != nil {
				return fmt.Errorf("%w: wing %q: %v", ErrInvalidConfig, w.Name, err)
			}
		}
	}
	return nil
}

// Orientation converts the attitude to a unit quaternion.
func (a Attitude) Orientation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(a.Yaw), dynamo.Up)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(a.Pitch), dynamo.Right)
	roll := mgl64.QuatRotate(mgl64.DegToRad(a.Roll), dynamo.Forward)
	return yaw.Mul(pitch).Mul(roll).Normalize()
}
