package brake

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedDraws replays a fixed sequence of leak draws.
type fixedDraws struct {
	draws []float64
	calls int
}

func (f *fixedDraws) Float64() float64 {
	v := f.draws[f.calls%len(f.draws)]
	f.calls++
	return v
}

func referenceConfig() Config {
	return Config{
		PistonArea:          0.05,
		CylinderCount:       4,
		FrictionCoefficient: 0.6,
		PadWear:             1.0,
		LeakProbability:     0,
		ResponseDelay:       1.2,
	}
}

func TestApply_ReferenceRig(t *testing.T) {
	a, err := NewActuator(referenceConfig(), nil)
	require.NoError(t, err)

	app, err := a.Apply(5.0, 40000)
	require.NoError(t, err)

	assert.InDelta(t, 15000, app.ForcePerCylinder, 1e-9)
	assert.InDelta(t, 60000, app.TotalForce, 1e-9)
	assert.InDelta(t, 1.5, app.RawDeceleration, 1e-12)
	assert.False(t, app.Leaked)
	assert.Equal(t, State{CylinderPressure: 5.0, RawDeceleration: app.RawDeceleration}, a.State())
}

func TestApply_ZeroPressure(t *testing.T) {
	a, err := NewActuator(referenceConfig(), rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	app, err := a.Apply(0, 40000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, app.RawDeceleration)
}

func TestApply_LeakReducesPressure(t *testing.T) {
	cfg := referenceConfig()
	cfg.LeakProbability = 0.5
	src := &fixedDraws{draws: []float64{0.1, 0.9}}
	a, err := NewActuator(cfg, src)
	require.NoError(t, err)

	leaky, err := a.Apply(4.0, 40000)
	require.NoError(t, err)
	assert.True(t, leaky.Leaked)
	assert.InDelta(t, 2.8, leaky.RealizedPressure, 1e-12)
	assert.InDelta(t, 2.8, a.State().CylinderPressure, 1e-12)

	clean, err := a.Apply(4.0, 40000)
	require.NoError(t, err)
	assert.False(t, clean.Leaked)
	assert.Equal(t, 4.0, clean.RealizedPressure)
	assert.Equal(t, 2, src.calls)
}

func TestApply_PressureNeverExceedsCommand(t *testing.T) {
	cfg := referenceConfig()
	cfg.LeakProbability = 0.3
	a, err := NewActuator(cfg, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	for i := 0; i <= 50; i++ {
		p := MaxPressureBar * float64(i) / 50
		_, err := a.Apply(p, 30000)
		require.NoError(t, err)
		got := a.State().CylinderPressure
		if got < 0 || got > p {
			t.Fatalf("pressure %v outside [0, %v]", got, p)
		}
	}
}

func TestApply_InvalidInputLeavesStateUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		pressure float64
		mass     float64
	}{
		{"over pressure", 6, 40000},
		{"negative pressure", -0.1, 40000},
		{"zero mass", 3, 0},
		{"negative mass", 3, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fixedDraws{draws: []float64{0.5}}
			a, err := NewActuator(referenceConfig(), src)
			require.NoError(t, err)
			_, err = a.Apply(2.0, 40000)
			require.NoError(t, err)
			before := a.State()

			_, err = a.Apply(tt.pressure, tt.mass)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, before, a.State())
			assert.Equal(t, 1, src.calls, "invalid input must not consume a draw")
		})
	}
}

func TestRelease_Idempotent(t *testing.T) {
	a, err := NewActuator(referenceConfig(), nil)
	require.NoError(t, err)
	_, err = a.Apply(3.5, 40000)
	require.NoError(t, err)

	a.Release()
	a.Release()
	assert.Equal(t, State{}, a.State())
}

func TestRelease_ThenApplyMatchesFreshActuator(t *testing.T) {
	cfg := referenceConfig()
	cfg.LeakProbability = 0.4

	used, err := NewActuator(cfg, &fixedDraws{draws: []float64{0.2}})
	require.NoError(t, err)
	_, err = used.Apply(5.0, 40000)
	require.NoError(t, err)
	used.Release()
	got, err := used.Apply(2.5, 35000)
	require.NoError(t, err)

	fresh, err := NewActuator(cfg, &fixedDraws{draws: []float64{0.2}})
	require.NoError(t, err)
	want, err := fresh.Apply(2.5, 35000)
	require.NoError(t, err)

	assert.Equal(t, want, got)
	assert.Equal(t, fresh.State(), used.State())
}

func TestEffectiveFriction_MonotonicInWear(t *testing.T) {
	cfg := referenceConfig()
	prev := -1.0
	for i := 0; i <= 100; i++ {
		cfg.PadWear = float64(i) / 100
		f := cfg.EffectiveFriction()
		if f < prev {
			t.Fatalf("friction decreased at wear %v: %v < %v", cfg.PadWear, f, prev)
		}
		prev = f
	}
	cfg.PadWear = 0.5
	assert.InDelta(t, 0.15, cfg.EffectiveFriction(), 1e-12)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero area", func(c *Config) { c.PistonArea = 0 }},
		{"no cylinders", func(c *Config) { c.CylinderCount = 0 }},
		{"negative friction", func(c *Config) { c.FrictionCoefficient = -0.1 }},
		{"wear above one", func(c *Config) { c.PadWear = 1.2 }},
		{"leak above one", func(c *Config) { c.LeakProbability = 1.5 }},
		{"negative delay", func(c *Config) { c.ResponseDelay = -1 }},
		{"NaN area", func(c *Config) { c.PistonArea = math.NaN() }},
		{"infinite area", func(c *Config) { c.PistonArea = math.Inf(1) }},
		{"NaN friction", func(c *Config) { c.FrictionCoefficient = math.NaN() }},
		{"NaN wear", func(c *Config) { c.PadWear = math.NaN() }},
		{"NaN leak", func(c *Config) { c.LeakProbability = math.NaN() }},
		{"NaN delay", func(c *Config) { c.ResponseDelay = math.NaN() }},
		{"infinite delay", func(c *Config) { c.ResponseDelay = math.Inf(1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := referenceConfig()
			tt.mutate(&cfg)
			_, err := NewActuator(cfg, nil)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}

	cfg := referenceConfig()
	cfg.FrictionCoefficient = 1.3
	assert.NoError(t, cfg.Validate(), "high-friction pads are allowed")
}
