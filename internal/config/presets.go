package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// The trainer layout trims near trainerSpeed at 2.5 degrees of pitch with
// DefaultMass: the main wing sits behind the center of mass and the
// elevator carries a few degrees of negative incidence. A larger body
// keeps the pitch mode well inside the default step.
const trainerSpeed = 70.0

var trainerDimensions = mgl64.Vec3{4, 1, 6}

func trainerWings() []WingConfig {
	return []WingConfig{
		{Name: "wing", Offset: mgl64.Vec3{-0.8, 0, 0}, Area: 10},
		{Name: "elevator", Offset: mgl64.Vec3{-4, 0, 0}, Area: 3, Normal: mgl64.Vec3{0.07, 1, 0}},
		{Name: "rudder", Offset: mgl64.Vec3{-4, 0.5, 0}, Area: 2, Normal: mgl64.Vec3{0, 0, 1}},
	}
}

var Presets = map[string]*Config{
	"freefall": {
		Scenario: "freefall", Dt: DefaultDt, Duration: 10, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: 10, Dimensions: mgl64.Vec3{1, 1, 1}, Airfoil: "zero",
			Position: mgl64.Vec3{0, 500, 0},
		},
	},
	"glide": {
		Scenario: "glide", Dt: DefaultDt, Duration: 60, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: DefaultMass, Dimensions: trainerDimensions, Airfoil: DefaultAirfoil,
			Position: mgl64.Vec3{0, DefaultAltitude, 0},
			Velocity: mgl64.Vec3{DefaultSpeed, 0, 0},
			Attitude: Attitude{Pitch: 2},
			Wings:    trainerWings(),
		},
	},
	"cruise": {
		Scenario: "cruise", Dt: DefaultDt, Duration: 60, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: DefaultMass, Dimensions: trainerDimensions, Airfoil: DefaultAirfoil,
			Position:  mgl64.Vec3{0, DefaultAltitude, 0},
			Velocity:  mgl64.Vec3{trainerSpeed, 0, 0},
			Attitude:  Attitude{Pitch: 2.5},
			Throttle:  0.35,
			MaxThrust: 6000,
			Wings:     trainerWings(),
		},
	},
	"autothrottle": {
		Scenario: "autothrottle", Dt: DefaultDt, Duration: 90, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: DefaultMass, Dimensions: trainerDimensions, Airfoil: DefaultAirfoil,
			Position:     mgl64.Vec3{0, DefaultAltitude, 0},
			Velocity:     mgl64.Vec3{DefaultSpeed, 0, 0},
			Attitude:     Attitude{Pitch: 2.5},
			Throttle:     0.5,
			MaxThrust:    6000,
			Wings:        trainerWings(),
			Autothrottle: &AutothrottleConfig{Speed: trainerSpeed, Kp: 0.08, Ki: 0.01},
		},
	},
	"stall": {
		Scenario: "stall", Dt: DefaultDt, Duration: 30, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: DefaultMass, Dimensions: mgl64.Vec3{1, 1, 1}, Airfoil: DefaultAirfoil,
			Position: mgl64.Vec3{0, 1500, 0},
			Velocity: mgl64.Vec3{25, 0, 0},
			Attitude: Attitude{Pitch: 15},
		},
	},
	"spin": {
		Scenario: "spin", Dt: DefaultDt, Duration: 30, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: DefaultMass, Dimensions: mgl64.Vec3{1, 1, 1}, Airfoil: DefaultAirfoil,
			Position:        mgl64.Vec3{0, 2000, 0},
			Velocity:        mgl64.Vec3{30, 0, 0},
			Attitude:        Attitude{Pitch: 10},
			AngularVelocity: mgl64.Vec3{0.5, 1.5, 0},
		},
	},
	"flat_plate": {
		Scenario: "flat_plate", Dt: DefaultDt, Duration: 30, Gravity: true,
		Airplane: AirplaneConfig{
			Mass: 500, Dimensions: mgl64.Vec3{2, 0.5, 4}, Airfoil: "flat_plate",
			Position: mgl64.Vec3{0, 800, 0},
			Velocity: mgl64.Vec3{40, 0, 0},
			Wind:     mgl64.Vec3{0, 0, 5},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
