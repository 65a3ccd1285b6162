package motionargs

import (
	"encoding/json"

	"motioncore/axes"
)

// AxisConfig is the configuration-surface subset of axes.AxisParams
// (spec.md §6.4), decoded with json tags matching the teacher's
// `tmc5072.Config`/`tmc5160.PowerStageParameters` convention.
type AxisConfig struct {
	MaxSpeed    float32 `json:"maxSpeed,omitempty"`
	MaxAcc      float32 `json:"maxAcc,omitempty"`
	MaxRPM      float32 `json:"maxRPM,omitempty"`
	MaxCurrentA float32 `json:"maxCurrentA,omitempty"`
	StepsPerRot int32   `json:"stepsPerRot,omitempty"`
	UnitsPerRot float32 `json:"unitsPerRot,omitempty"`

	MinVal *float32 `json:"minVal,omitempty"`
	MaxVal *float32 `json:"maxVal,omitempty"`

	IsPrimaryAxis  bool `json:"isPrimaryAxis,omitempty"`
	IsDominantAxis bool `json:"isDominantAxis,omitempty"`
}

// Config is the configuration surface affecting the motion core
// (spec.md §6.4).
type Config struct {
	Geom string `json:"geom,omitempty"` // "XYZ" | "SingleArmSCARA"

	BlockDistMM            float32 `json:"blockDistMM,omitempty"`
	MaxJunctionDeviationMM float32 `json:"maxJunctionDeviationMM,omitempty"`
	HomeBeforeMove         bool    `json:"homeBeforeMove,omitempty"`

	Arm1LenMM               float32 `json:"arm1LenMM,omitempty"`
	Arm2LenMM               float32 `json:"arm2LenMM,omitempty"`
	MaxRadiusMM             float32 `json:"maxRadiusMM,omitempty"`
	OriginTheta2OffsetDegrees float32 `json:"originTheta2OffsetDegrees,omitempty"`

	Axes []AxisConfig `json:"axes,omitempty"`

	RampTimerEn  bool   `json:"rampTimerEn,omitempty"`
	RampTimerUs  uint32 `json:"rampTimerUs,omitempty"`
	PipelineLen  uint32 `json:"pipelineLen,omitempty"`
}

// DefaultConfig returns the configuration used when fields are absent or
// fail to parse — per spec.md §7, config parse errors collapse into
// defaults rather than a run-time failure.
func DefaultConfig() Config {
	return Config{
		Geom:                   "XYZ",
		MaxJunctionDeviationMM: 0.05,
		RampTimerEn:            true,
		RampTimerUs:            20,
		PipelineLen:            100,
	}
}

// DecodeConfig parses jsonBody into a Config, starting from DefaultConfig
// and overlaying only the fields present in jsonBody. A malformed body
// yields the untouched defaults rather than an error.
func DecodeConfig(jsonBody []byte) Config {
	cfg := DefaultConfig()
	_ = json.Unmarshal(jsonBody, &cfg)
	cfg.Validate()
	return cfg
}

// Validate clamps or replaces nonsensical fields with their defaults.
func (c *Config) Validate() {
	if c.Geom != "XYZ" && c.Geom != "SingleArmSCARA" {
		c.Geom = "XYZ"
	}
	if c.MaxJunctionDeviationMM <= 0 {
		c.MaxJunctionDeviationMM = 0.05
	}
	if c.RampTimerUs == 0 {
		c.RampTimerUs = 20
	}
	if c.PipelineLen == 0 {
		c.PipelineLen = 100
	}
}

// BuildAxesParams converts the wire-level axis configuration into the
// runtime axes.AxesParams the planner and block manager consume.
func (c Config) BuildAxesParams() *axes.AxesParams {
	list := make([]axes.AxisParams, len(c.Axes))
	for i, a := range c.Axes {
		p := axes.AxisParams{
			MaxSpeedUps:    a.MaxSpeed,
			MaxAccelUps2:   a.MaxAcc,
			MaxRPM:         a.MaxRPM,
			MaxCurrentA:    a.MaxCurrentA,
			StepsPerRot:    a.StepsPerRot,
			UnitsPerRot:    a.UnitsPerRot,
			IsPrimaryAxis:  a.IsPrimaryAxis,
			IsDominantAxis: a.IsDominantAxis,
		}
		if a.MinVal != nil {
			p.MinValValid, p.MinVal = true, *a.MinVal
		}
		if a.MaxVal != nil {
			p.MaxValValid, p.MaxVal = true, *a.MaxVal
		}
		list[i] = axes.NewAxisParams(p)
	}
	return axes.NewAxesParams(list, c.BlockDistMM, c.MaxJunctionDeviationMM)
}
