package axes

// AxisParams holds the static, once-configured limits of a single axis.
// Populated once from configuration and immutable thereafter.
type AxisParams struct {
	MaxSpeedUps  float32 // units/s
	MaxAccelUps2 float32 // units/s^2
	MaxRPM       float32
	MaxCurrentA  float32 // driver run-current ceiling, 0 => current control unsupported

	StepsPerRot  int32
	UnitsPerRot  float32
	StepsPerUnit float32 // derived: StepsPerRot / UnitsPerRot

	MinValValid bool
	MinVal      float32
	MaxValValid bool
	MaxVal      float32

	IsPrimaryAxis  bool
	IsDominantAxis bool
}

// deriveStepsPerUnit computes and caches StepsPerUnit from StepsPerRot and
// UnitsPerRot. Call after any field that feeds the derivation changes.
func (p *AxisParams) deriveStepsPerUnit() {
	if p.UnitsPerRot != 0 {
		p.StepsPerUnit = float32(p.StepsPerRot) / p.UnitsPerRot
	}
}

// NewAxisParams builds an AxisParams with StepsPerUnit derived.
func NewAxisParams(p AxisParams) AxisParams {
	p.deriveStepsPerUnit()
	return p
}

// InBounds reports whether val lies within the axis's configured bounds.
// An axis with no bounds configured on a side is always in-bounds on that
// side.
func (p *AxisParams) InBounds(val float32) bool {
	if p.MinValValid && val < p.MinVal {
		return false
	}
	if p.MaxValValid && val > p.MaxVal {
		return false
	}
	return true
}

// Clamp constrains val to the axis's configured bounds.
func (p *AxisParams) Clamp(val float32) float32 {
	if p.MinValValid && val < p.MinVal {
		val = p.MinVal
	}
	if p.MaxValValid && val > p.MaxVal {
		val = p.MaxVal
	}
	return val
}

// AxesParams is the ordered collection of AxisParams plus kinematics-wide
// metadata: which axis is the planner's dominant/master reference, the
// splitter hint, and the junction-deviation criterion.
type AxesParams struct {
	Axes []AxisParams

	MasterAxisIdx int

	MaxBlockDistMM         float32 // 0 => no splitting
	MaxJunctionDeviationMM float32

	maxStepRatePerSec [MaxAxes]float32
}

// NewAxesParams builds an AxesParams, deriving StepsPerUnit for every axis
// and recomputing MasterAxisIdx and the cached step-rate limits.
func NewAxesParams(axisList []AxisParams, maxBlockDistMM, maxJunctionDeviationMM float32) *AxesParams {
	p := &AxesParams{
		Axes:                   make([]AxisParams, len(axisList)),
		MaxBlockDistMM:         maxBlockDistMM,
		MaxJunctionDeviationMM: maxJunctionDeviationMM,
	}
	for i, a := range axisList {
		a.deriveStepsPerUnit()
		p.Axes[i] = a
	}
	p.Recompute()
	return p
}

// Recompute must be called whenever the axis list changes: it recomputes
// MasterAxisIdx (dominant axis, else first primary axis, else 0) and the
// cached per-axis maximum step rate.
func (p *AxesParams) Recompute() {
	p.MasterAxisIdx = 0
	firstPrimary := -1
	for i, a := range p.Axes {
		if a.IsDominantAxis {
			p.MasterAxisIdx = i
			break
		}
		if firstPrimary == -1 && a.IsPrimaryAxis {
			firstPrimary = i
		}
	}
	if !p.hasDominant() && firstPrimary != -1 {
		p.MasterAxisIdx = firstPrimary
	}
	for i, a := range p.Axes {
		if i >= MaxAxes {
			break
		}
		p.maxStepRatePerSec[i] = a.MaxSpeedUps * a.StepsPerUnit
	}
}

func (p *AxesParams) hasDominant() bool {
	for _, a := range p.Axes {
		if a.IsDominantAxis {
			return true
		}
	}
	return false
}

// MaxStepRatePerSec returns the cached maximum step rate for axis i.
func (p *AxesParams) MaxStepRatePerSec(i int) float32 {
	if i < 0 || i >= MaxAxes {
		return 0
	}
	return p.maxStepRatePerSec[i]
}
