package environment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdhesionFactor_Presets(t *testing.T) {
	tests := []struct {
		condition Condition
		want      float64
	}{
		{Dry, 1.0},
		{Heatwave, 0.98},
		// (1 - 0.8*0.3^1.1 - min(0.7*0.6^1.5, 0.5)) * 0.978
		{Snow, 0.4517},
	}

	for _, tt := range tests {
		t.Run(string(tt.condition), func(t *testing.T) {
			m := NewModel()
			require.NoError(t, m.SetCondition(tt.condition))
			assert.InDelta(t, tt.want, m.AdhesionFactor(), 1e-3)
		})
	}
}

func TestAdhesionFactor_DryIsExactlyOne(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetCondition(Dry))
	assert.Equal(t, 1.0, m.AdhesionFactor())
}

func TestAdhesionFactor_AlwaysInRange(t *testing.T) {
	for moisture := 0.0; moisture <= 1.0; moisture += 0.05 {
		for debris := 0.0; debris <= 1.0; debris += 0.05 {
			for temp := -20.0; temp <= 45.0; temp += 5 {
				f := AdhesionFactor(ConditionParams{RailMoisture: moisture, Temperature: temp, Debris: debris})
				if f < MinAdhesion || f > MaxAdhesion {
					t.Fatalf("factor %v out of range for m=%v d=%v T=%v", f, moisture, debris, temp)
				}
			}
		}
	}
}

func TestAdhesionFactor_FloorClamps(t *testing.T) {
	f := AdhesionFactor(ConditionParams{RailMoisture: 1, Temperature: -20, Debris: 1})
	assert.Equal(t, MinAdhesion, f)
}

func TestSetCondition_InvalidLeavesStateUnchanged(t *testing.T) {
	m := NewModel()
	require.NoError(t, m.SetCondition(Snow))
	before := m.Params()

	err := m.SetCondition(Condition("monsoon"))
	require.ErrorIs(t, err, ErrInvalidCondition)
	assert.Equal(t, Snow, m.Condition())
	assert.Equal(t, before, m.Params())
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("  Autumn ")
	require.NoError(t, err)
	assert.Equal(t, Autumn, c)

	_, err = ParseCondition("fog")
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestCondition_JSON(t *testing.T) {
	var v struct {
		Env Condition `json:"env"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"env":"RAIN"}`), &v))
	assert.Equal(t, Rain, v.Env)

	err := json.Unmarshal([]byte(`{"env":"hail"}`), &v)
	assert.ErrorIs(t, err, ErrInvalidCondition)
}

func TestCondition_JSONBlankIsUnset(t *testing.T) {
	v := struct {
		Env Condition `json:"env"`
	}{Env: Snow}
	require.NoError(t, json.Unmarshal([]byte(`{"env":""}`), &v))
	assert.Equal(t, Condition(""), v.Env)
}

func TestConditions_AllHavePresets(t *testing.T) {
	for _, c := range Conditions() {
		_, err := c.Params()
		assert.NoError(t, err, c)
	}
}
