package engine

import (
	"strconv"

	"falling-sand/internal/core"
)

const (
	ParamSaturation = "saturation"
	ParamLightness  = "lightness"
)

// Parameters reports the current engine settings for display.
func (e *Engine) Parameters() core.ParameterSnapshot {
	s := e.Snapshot()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Colour",
			Params: []core.Parameter{
				floatParam(ParamSaturation, "Saturation", e.Saturation()),
				floatParam(ParamLightness, "Lightness", e.Lightness()),
				intParam("hue", "Hue", s.Hue),
			},
		},
		{
			Name: "Grid",
			Params: []core.Parameter{
				intParam("cols", "Columns", e.cfg.Cols),
				intParam("rows", "Rows", e.cfg.Rows),
				intParam("particles", "Particles", s.Grid.Occupied()),
			},
		},
	}}
}

// ParameterControls lists the settings the HUD may adjust.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: ParamSaturation, Label: "Saturation", Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
		{Key: ParamLightness, Label: "Lightness", Step: 5, Min: 0, Max: 100, HasMin: true, HasMax: true},
	}
}

// SetFloatParameter updates a HUD-adjustable setting by key.
func (e *Engine) SetFloatParameter(key string, value float64) bool {
	switch key {
	case ParamSaturation:
		e.SetSaturation(value)
	case ParamLightness:
		e.SetLightness(value)
	default:
		return false
	}
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
