// Package environment maps named weather presets to wheel-rail adhesion.
//
// Conditions can only be changed by selecting one of the fixed presets, so a
// Model is never left holding a half-applied set of parameters.
package environment

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCondition is returned for any name outside the preset set.
var ErrInvalidCondition = errors.New("environment: invalid condition")

// Adhesion factor bounds.
const (
	MinAdhesion = 0.15
	MaxAdhesion = 1.0
)

// Condition is a named environmental preset.
type Condition string

const (
	Dry      Condition = "dry"
	Rain     Condition = "rain"
	Snow     Condition = "snow"
	Autumn   Condition = "autumn"
	Heatwave Condition = "heatwave"
)

// Conditions returns every preset in a stable order.
func Conditions() []Condition {
	return []Condition{Dry, Rain, Snow, Autumn, Heatwave}
}

// ConditionParams is the raw state behind a preset.
type ConditionParams struct {
	RailMoisture float64 `json:"rail_moisture"` // 0 = dry, 1 = standing water
	Temperature  float64 `json:"temperature"`   // °C
	Debris       float64 `json:"debris"`        // 0 = clean, 1 = heavy leaves/snow
}

var presets = map[Condition]ConditionParams{
	Dry:      {RailMoisture: 0.0, Temperature: 20, Debris: 0.0},
	Rain:     {RailMoisture: 0.4, Temperature: 15, Debris: 0.0},
	Snow:     {RailMoisture: 0.3, Temperature: -2, Debris: 0.6},
	Autumn:   {RailMoisture: 0.2, Temperature: 10, Debris: 0.4},
	Heatwave: {RailMoisture: 0.0, Temperature: 40, Debris: 0.0},
}

// Valid reports whether c is one of the known presets.
func (c Condition) Valid() bool {
	_, ok := presets[c]
	return ok
}

// Params returns the preset triple for c.
func (c Condition) Params() (ConditionParams, error) {
	p, ok := presets[c]
	if !ok {
		return ConditionParams{}, fmt.Errorf("%w: %q", ErrInvalidCondition, string(c))
	}
	return p, nil
}

func (c Condition) String() string { return string(c) }

// MarshalText implements encoding.TextMarshaler.
func (c Condition) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCondition, string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, so JSON and YAML inputs
// reject unknown names at decode time. Blank text leaves c unset.
func (c *Condition) UnmarshalText(text []byte) error {
	if strings.TrimSpace(string(text)) == "" {
		*c = ""
		return nil
	}
	parsed, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCondition resolves a case-insensitive preset name.
func ParseCondition(name string) (Condition, error) {
	c := Condition(strings.ToLower(strings.TrimSpace(name)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q (choose from dry, rain, snow, autumn, heatwave)", ErrInvalidCondition, name)
	}
	return c, nil
}

// Model holds the active environmental conditions.
type Model struct {
	condition Condition
	params    ConditionParams
}

// NewModel returns a model set to the dry preset.
func NewModel() *Model {
	return &Model{condition: Dry, params: presets[Dry]}
}

// SetCondition switches to preset c. On error the previous conditions remain.
func (m *Model) SetCondition(c Condition) error {
	p, err := c.Params()
	if err != nil {
		return err
	}
	m.condition = c
	m.params = p
	return nil
}

// Condition returns the active preset.
func (m *Model) Condition() Condition { return m.condition }

// Params returns the active condition parameters.
func (m *Model) Params() ConditionParams { return m.params }

// AdhesionFactor returns the adhesion factor for the active conditions.
func (m *Model) AdhesionFactor() float64 {
	return AdhesionFactor(m.params)
}

// AdhesionFactor combines moisture, debris and temperature effects into a
// factor in [MinAdhesion, MaxAdhesion].
func AdhesionFactor(p ConditionParams) float64 {
	wetReduction := 0.8 * math.Pow(p.RailMoisture, 1.1)
	debrisReduction := math.Min(0.7*math.Pow(p.Debris, 1.5), 0.5)
	tempFactor := 1.0 - 0.001*math.Abs(p.Temperature-20)

	factor := (1.0 - wetReduction - debrisReduction) * tempFactor
	return math.Min(MaxAdhesion, math.Max(MinAdhesion, factor))
}
