package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/flightsim/internal/aero"
	"github.com/san-kum/flightsim/internal/aircraft"
	"github.com/san-kum/flightsim/internal/config"
	"github.com/san-kum/flightsim/internal/dynamo"
	"github.com/san-kum/flightsim/internal/sim"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	airfoils := r.ListAirfoils()
	if len(airfoils) != len(aero.AirfoilNames()) {
		t.Errorf("airfoils = %v", airfoils)
	}
	if _, _, err := r.GetAirfoil("naca0015"); err != nil {
		t.Errorf("GetAirfoil(naca0015): %v", err)
	}
	if _, _, err := r.GetAirfoil("nope"); !errors.Is(err, aero.ErrUnknownAirfoil) {
		t.Errorf("expected ErrUnknownAirfoil, got %v", err)
	}

	custom := aero.MustCurve(aero.Point{X: -10, Y: -1}, aero.Point{X: 10, Y: 1})
	r.RegisterAirfoil("custom", custom, aero.ZeroCurve())
	if lift, _, err := r.GetAirfoil("custom"); err != nil || lift != custom {
		t.Errorf("custom airfoil not registered: %v", err)
	}

	if len(r.ListScenarios()) != len(config.ListPresets()) {
		t.Errorf("scenarios = %v", r.ListScenarios())
	}
	if _, err := r.GetScenario("nope"); err == nil {
		t.Error("expected error for unknown scenario")
	}
}

func TestBuildAirplaneDefaultLayout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Airplane.PressureFactor = 0.6125
	cfg.Airplane.Attitude.Pitch = 5

	a, err := BuildAirplane(cfg, NewRegistry())
	if err != nil {
		t.Fatalf("BuildAirplane: %v", err)
	}

	if n := len(a.Wings()); n != 3 {
		t.Fatalf("expected 3 wings, got %d", n)
	}
	w, _ := a.Wing("wing")
	if got, want := w.Lift(5, 10), 0.6125*100*w.LiftCoefficient(5)*10; math.Abs(got-want) > 1e-9 {
		t.Errorf("pressure factor not applied: lift %f, want %f", got, want)
	}

	_, pitch, _ := a.Pose().EulerAngles()
	if math.Abs(mgl64.RadToDeg(pitch)-5) > 1e-9 {
		t.Errorf("pitch = %f deg, want 5", mgl64.RadToDeg(pitch))
	}
	if a.Body().Mass() != cfg.Airplane.Mass {
		t.Errorf("mass = %f", a.Body().Mass())
	}
}

func TestBuildAirplaneCustomWings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Airplane.Wings = []config.WingConfig{
		{Name: "main", Offset: mgl64.Vec3{0.2, 0, 0}, Area: 8},
		{Name: "fin", Offset: mgl64.Vec3{-2, 0.3, 0}, Area: 1, Normal: dynamo.Right, Airfoil: "flat_plate"},
	}

	a, err := BuildAirplane(cfg, NewRegistry())
	if err != nil {
		t.Fatalf("BuildAirplane: %v", err)
	}

	fin, ok := a.Wing("fin")
	if !ok {
		t.Fatal("fin missing")
	}
	if fin.Normal() != dynamo.Right {
		t.Errorf("fin normal = %v", fin.Normal())
	}
	flatLift, _, _ := aero.Airfoil("flat_plate")
	if fin.LiftCoefficient(12) != flatLift.Sample(12) {
		t.Error("fin does not use its own airfoil")
	}
}

func TestBuildAirplaneUnknownWingAirfoil(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Airplane.Wings = []config.WingConfig{{Name: "w", Area: 1, Airfoil: "nope"}}
	if _, err := BuildAirplane(cfg, NewRegistry()); !errors.Is(err, aero.ErrUnknownAirfoil) {
		t.Errorf("expected ErrUnknownAirfoil, got %v", err)
	}
}

func TestExperimentFreefall(t *testing.T) {
	reg := NewRegistry()
	cfg, err := reg.GetScenario("freefall")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Duration = 1

	exp, err := New(cfg, reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	exp.Setup(reg.DefaultMetrics(exp.Airplane()), nil)

	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	final := res.Final()
	if math.Abs(final.Velocity[1]+dynamo.Gravity) > 1e-6 {
		t.Errorf("vy after 1 s = %f, want %f", final.Velocity[1], -dynamo.Gravity)
	}
	if _, ok := res.Metrics["altitude_change"]; !ok {
		t.Error("default metrics missing")
	}
}

func TestExperimentRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Dt = 0
	if _, err := New(cfg, NewRegistry()); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestEnsembleIsReproducible(t *testing.T) {
	reg := NewRegistry()
	cfg := config.GetPreset("glide")
	cfg.Seed = 7

	a := Ensemble(cfg, reg, 4, 2)
	b := Ensemble(cfg, reg, 4, 2)

	seen := map[mgl64.Vec3]bool{}
	for i := range a {
		va, err := a[i].Build()
		if err != nil {
			t.Fatal(err)
		}
		vb, _ := b[i].Build()
		v := va.Body().Velocity
		if v != vb.Body().Velocity {
			t.Errorf("job %d not reproducible", i)
		}
		if math.Abs(v[0]-cfg.Airplane.Velocity[0]) > 2 {
			t.Errorf("job %d jitter out of range: %v", i, v)
		}
		seen[v] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected distinct initial velocities, got %d", len(seen))
	}

	cfg.Duration = 0.5
	results, err := sim.RunParallel(context.Background(), a, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}, 2, nil)
	if err != nil || len(results) != 4 {
		t.Fatalf("RunParallel: %v", err)
	}
}

func TestExperimentAutothrottle(t *testing.T) {
	cfg := config.GetPreset("autothrottle")
	cfg.Duration = 0.5

	if NewAutothrottle(config.GetPreset("glide"), nil) != nil {
		t.Error("glide should have no autothrottle")
	}

	exp, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	start := exp.Airplane().Engine().Throttle
	if _, err := exp.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	// 10 m/s below target: the loop should have added power.
	if got := exp.Airplane().Engine().Throttle; got <= start {
		t.Errorf("throttle = %v, want above trim %v", got, start)
	}
}

func TestExperimentAutothrottleHoldsSpeed(t *testing.T) {
	cfg := config.GetPreset("autothrottle")
	cfg.Duration = 60
	target := cfg.Airplane.Autothrottle.Speed

	exp, err := New(cfg, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	for _, s := range res.Samples {
		if s.Time < 50 {
			continue
		}
		if v := s.Velocity.Len(); math.Abs(v-target) > 3 {
			t.Fatalf("t=%.2f: airspeed %.2f, want %.0f±3", s.Time, v, target)
		}
	}

	body := exp.Airplane().Body()
	if up := body.TransformDirection(dynamo.Up); up[1] < 0.95 {
		t.Errorf("airplane not upright: up = %v", up)
	}
	if body.Position[1] < cfg.Airplane.Position[1]-300 {
		t.Errorf("altitude %.1f, lost too much height", body.Position[1])
	}
}

func TestPresetsStayUpright(t *testing.T) {
	for _, name := range []string{"glide", "cruise"} {
		t.Run(name, func(t *testing.T) {
			cfg := config.GetPreset(name)
			exp, err := New(cfg, NewRegistry())
			if err != nil {
				t.Fatal(err)
			}
			if _, err := exp.Run(context.Background()); err != nil {
				t.Fatal(err)
			}
			body := exp.Airplane().Body()
			if up := body.TransformDirection(dynamo.Up); up[1] < 0.9 {
				t.Errorf("up = %v after %vs", up, cfg.Duration)
			}
			if body.Position[1] < 0 {
				t.Errorf("altitude %.1f", body.Position[1])
			}
		})
	}
}

func TestEnsembleBindsAutothrottle(t *testing.T) {
	reg := NewRegistry()
	cfg := config.GetPreset("autothrottle")
	cfg.Duration = 0.5

	jobs := Ensemble(cfg, reg, 3, 1)
	airplanes := make([]*aircraft.Airplane, len(jobs))
	for i := range jobs {
		build := jobs[i].Build
		jobs[i].Build = func() (sim.Vehicle, error) {
			v, err := build()
			if err == nil {
				airplanes[i] = v.(*aircraft.Airplane)
			}
			return v, err
		}
	}

	if _, err := sim.RunParallel(context.Background(), jobs, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration}, 2, nil); err != nil {
		t.Fatal(err)
	}
	for i, a := range airplanes {
		// every job starts below the target speed
		if got := a.Engine().Throttle; got <= cfg.Airplane.Throttle {
			t.Errorf("job %d: throttle = %v, want above %v", i, got, cfg.Airplane.Throttle)
		}
	}

	glide := config.GetPreset("glide")
	v, err := Ensemble(glide, reg, 1, 0)[0].Build()
	if err != nil {
		t.Fatal(err)
	}
	if obs := Ensemble(glide, reg, 1, 0)[0].Observers(v); len(obs) != 0 {
		t.Errorf("glide ensemble has %d observers, want none", len(obs))
	}
}
