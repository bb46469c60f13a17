package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/flightsim/internal/dynamo"
)

type testVehicle struct {
	body    *dynamo.RigidBody
	updates int
	poison  int // frame on which a NaN force is applied, 0 for never
}

func newTestVehicle(t testing.TB, velocity mgl64.Vec3) *testVehicle {
	t.Helper()
	b, err := dynamo.NewRigidBody(dynamo.BodyParams{
		Mass:     2,
		Inertia:  mgl64.Ident3(),
		Velocity: velocity,
	})
	if err != nil {
		t.Fatalf("NewRigidBody: %v", err)
	}
	return &testVehicle{body: b}
}

func (v *testVehicle) Body() *dynamo.RigidBody { return v.body }

func (v *testVehicle) Update(dt float64) {
	v.updates++
	if v.poison != 0 && v.updates == v.poison {
		v.body.AddForce(mgl64.Vec3{math.NaN(), 0, 0})
	}
	v.body.Update(dt)
}

func TestSimulatorRun(t *testing.T) {
	v := newTestVehicle(t, mgl64.Vec3{})
	s := New(v)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(result.Samples))
	}
	if result.StepsTaken != 10 || v.updates != 10 {
		t.Errorf("expected 10 steps, got %d (updates %d)", result.StepsTaken, v.updates)
	}

	final := result.Final()
	if math.Abs(final.Time-1.0) > 1e-12 {
		t.Errorf("final time = %f, want 1", final.Time)
	}
	if want := -dynamo.Gravity; math.Abs(final.Velocity[1]-want) > 1e-9 {
		t.Errorf("final vy = %f, want %f", final.Velocity[1], want)
	}

	times := result.Times()
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			t.Fatalf("times not increasing at %d: %v", i, times)
		}
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"nan dt", Config{Dt: math.NaN(), Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
		{"infinite duration", Config{Dt: 0.1, Duration: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(newTestVehicle(t, mgl64.Vec3{}))
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSteps(t *testing.T) {
	tests := []struct {
		dt, duration float64
		want         int
	}{
		{0.1, 1.0, 10},
		{0.1, 0.25, 3},
		{1.0 / 120, 10, 1200},
		{0.5, 0.1, 1},
	}
	for _, tt := range tests {
		if got := Steps(Config{Dt: tt.dt, Duration: tt.duration}); got != tt.want {
			t.Errorf("Steps(dt=%v, duration=%v) = %d, want %d", tt.dt, tt.duration, got, tt.want)
		}
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(s Sample) {
	m.count++
	m.sum += s.Velocity[1]
}
func (m *testMetric) Value() float64 {
	if m.count == 0 {
		return 0
	}
	return m.sum / float64(m.count)
}
func (m *testMetric) Reset() {
	m.count = 0
	m.sum = 0
}

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s := New(newTestVehicle(t, mgl64.Vec3{}))

	metric := &testMetric{count: 99}
	s.AddMetric(metric)

	var seen []float64
	s.AddObserver(ObserverFunc(func(sm Sample) { seen = append(seen, sm.Time) }))

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if len(seen) != 10 || seen[0] != 0 {
		t.Errorf("observer saw %v", seen)
	}
}

func TestSimulatorInvalidState(t *testing.T) {
	v := newTestVehicle(t, mgl64.Vec3{})
	v.poison = 4
	s := New(v)

	result, err := s.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, ValidateState: true})
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}

	var simErr SimError
	if !errors.As(err, &simErr) {
		t.Fatalf("expected SimError, got %T", err)
	}
	if simErr.Step != 3 {
		t.Errorf("SimError.Step = %d, want 3", simErr.Step)
	}
	if result == nil || len(result.Samples) != 4 || len(result.Errors) != 1 {
		t.Errorf("unexpected partial result: %+v", result)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v := newTestVehicle(t, mgl64.Vec3{})
	result, err := New(v).Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(result.Samples) != 1 || v.updates != 0 {
		t.Errorf("cancelled run advanced: %d samples, %d updates", len(result.Samples), v.updates)
	}
}

func TestRunWithCallback(t *testing.T) {
	v := newTestVehicle(t, mgl64.Vec3{})
	calls := 0
	err := New(v).RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1.0}, func(s Sample) bool {
		calls++
		return s.Time < 0.45
	})
	if err != nil {
		t.Fatalf("RunWithCallback: %v", err)
	}
	if calls != 6 || v.updates != 5 {
		t.Errorf("calls = %d, updates = %d, want 6 and 5", calls, v.updates)
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	want := "step 150 (t=1.5000): test error"
	if err.Error() != want {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, dynamo.ErrInvalidState) {
		t.Error("SimError should wrap ErrInvalidState")
	}
}
