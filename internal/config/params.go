package config

import (
	"fmt"
	"sort"
)

// params maps dotted names onto scalar config fields for sweeps and
// command-line overrides.
var params = map[string]func(*Config) *float64{
	"dt":                       func(c *Config) *float64 { return &c.Dt },
	"duration":                 func(c *Config) *float64 { return &c.Duration },
	"airplane.mass":            func(c *Config) *float64 { return &c.Airplane.Mass },
	"airplane.throttle":        func(c *Config) *float64 { return &c.Airplane.Throttle },
	"airplane.max_thrust":      func(c *Config) *float64 { return &c.Airplane.MaxThrust },
	"airplane.pressure_factor": func(c *Config) *float64 { return &c.Airplane.PressureFactor },
	"airplane.attitude.pitch":  func(c *Config) *float64 { return &c.Airplane.Attitude.Pitch },
	"airplane.attitude.yaw":    func(c *Config) *float64 { return &c.Airplane.Attitude.Yaw },
	"airplane.attitude.roll":   func(c *Config) *float64 { return &c.Airplane.Attitude.Roll },
	"airplane.position.y":      func(c *Config) *float64 { return &c.Airplane.Position[1] },
	"airplane.velocity.x":      func(c *Config) *float64 { return &c.Airplane.Velocity[0] },
	"airplane.velocity.y":      func(c *Config) *float64 { return &c.Airplane.Velocity[1] },
	"airplane.velocity.z":      func(c *Config) *float64 { return &c.Airplane.Velocity[2] },
	"airplane.wind.x":          func(c *Config) *float64 { return &c.Airplane.Wind[0] },
	"airplane.wind.z":          func(c *Config) *float64 { return &c.Airplane.Wind[2] },
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (c *Config) SetParam(name string, value float64) error {
	field, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	*field(c) = value
	return nil
}

func (c *Config) GetParam(name string) (float64, error) {
	field, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return *field(c), nil
}
