package axes

// AxesState is the mutable current pose of the machine, maintained by the
// block manager as blocks are queued and consumed. UnitsFromOrigin tracks
// the float approximation used for bounds checks and block generation;
// StepsFromOrigin is the integer ground truth the ramp generator advances.
type AxesState struct {
	UnitsFromOrigin      Positions
	StepsFromOrigin      Steps
	UnitsFromOriginValid BoolFlags
}

// SetOrigin resets both the unit and step coordinates for axis i to zero
// and marks the unit coordinate valid. Used by SetCurPositionAsOrigin.
func (s *AxesState) SetOrigin(i int) {
	s.UnitsFromOrigin.Set(i, 0)
	s.StepsFromOrigin.Set(i, 0)
	s.UnitsFromOriginValid.Set(i, true)
}

// ApplySteps advances StepsFromOrigin by delta steps on axis i, keeping
// UnitsFromOrigin in sync via the axis's StepsPerUnit.
func (s *AxesState) ApplySteps(i int, delta int32, stepsPerUnit float32) {
	s.StepsFromOrigin.Set(i, s.StepsFromOrigin.Get(i)+delta)
	if stepsPerUnit != 0 {
		s.UnitsFromOrigin.Set(i, float32(s.StepsFromOrigin.Get(i))/stepsPerUnit)
	}
}

// EndstopState is the debounced state of one endstop switch.
type EndstopState int

const (
	EndstopNone EndstopState = iota
	EndstopNotHit
	EndstopHit
)

// EndstopDirection indexes the two endstop checks an axis may have: one at
// the minimum end of travel, one at the maximum.
const (
	EndstopMin = 0
	EndstopMax = 1
)

// AxisEndstopChecks is the per-axis, per-direction endstop state, kept as a
// plain 2D array rather than a packed bitfield so each check is addressed
// directly by [axis][direction] instead of shift/mask arithmetic.
type AxisEndstopChecks [MaxAxes][2]EndstopState

// AnyHit reports whether any endstop in the set is in the Hit state.
func (c *AxisEndstopChecks) AnyHit() bool {
	for axis := 0; axis < MaxAxes; axis++ {
		for dir := 0; dir < 2; dir++ {
			if c[axis][dir] == EndstopHit {
				return true
			}
		}
	}
	return false
}

// Clear resets every check to EndstopNone.
func (c *AxisEndstopChecks) Clear() {
	for axis := 0; axis < MaxAxes; axis++ {
		c[axis][0] = EndstopNone
		c[axis][1] = EndstopNone
	}
}
