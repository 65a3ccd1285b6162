// Package planner builds MotionBlocks, computes junction-limited entry and
// exit speeds across the queued pipeline via backward/forward look-ahead,
// and converts the result into the fixed-point ramp parameters the tick
// engine consumes.
package planner

import (
	"github.com/orsinium-labs/tinymath"

	"motioncore/axes"
	"motioncore/block"
)

// MinPlannerSpeedMMPS is the speed floor used at a reversal junction or
// when there is no prior block to reference.
const MinPlannerSpeedMMPS = 0

// cosStraightThreshold / cosReversalThreshold bound the three junction
// regimes of the entry-speed calculation (spec.md §4.3.1 step 7).
const (
	cosStraightThreshold  = -0.95
	cosReversalThreshold  = 0.95
)

// Planner owns the pipeline and the axis parameters it plans against.
type Planner struct {
	Pipeline        *block.Pipeline
	Params          *axes.AxesParams
	StepGenPeriodNs uint32 // tick period, e.g. 20000 ns

	prevUnitVec   axes.Positions
	havePrevBlock bool
}

// NewPlanner builds a Planner over an existing pipeline and axis
// parameters.
func NewPlanner(pipeline *block.Pipeline, params *axes.AxesParams, stepGenPeriodNs uint32) *Planner {
	return &Planner{Pipeline: pipeline, Params: params, StepGenPeriodNs: stepGenPeriodNs}
}

// firstPrimaryAxis returns the index of the first axis flagged primary, or
// 0 if none are.
func (p *Planner) firstPrimaryAxis() int {
	for i := 0; i < len(p.Params.Axes); i++ {
		if p.Params.Axes[i].IsPrimaryAxis {
			return i
		}
	}
	return 0
}

// MoveToRamped appends one ramped block moving to destSteps (absolute
// actuator step coordinates), then recalculates the pipeline look-ahead.
// moveDistMM is the primary-axes Euclidean distance already computed by
// kinematics.PreProcessCoords; requestedSpeedMMPS is the speed resolved
// from the command, already capped to the axis's configured maximum.
func (p *Planner) MoveToRamped(destSteps axes.Steps, state *axes.AxesState, moveDistMM, requestedSpeedMMPS float32, moreMovesComing bool) (bool, error) {
	if moveDistMM < block.MinimumMoveDistMM {
		return false, nil // NoMovement: silently dropped per spec.md §7
	}

	var stepsDelta axes.Steps
	anyMove := false
	for i := 0; i < axes.MaxAxes && i < len(p.Params.Axes); i++ {
		d := destSteps.Get(i) - state.StepsFromOrigin.Get(i)
		stepsDelta.Set(i, d)
		if d != 0 {
			anyMove = true
		}
	}
	if !anyMove {
		return false, nil
	}

	majorAxis := argMaxAbs(stepsDelta, len(p.Params.Axes))

	unitVec := computeUnitVec(state, destSteps, p.Params, moveDistMM)

	maxEntrySpeed := p.junctionMaxEntrySpeed(unitVec, requestedSpeedMMPS)

	blk := block.MotionBlock{
		StepsTotalMaybeNeg:     stepsDelta,
		AxisIdxWithMaxSteps:    majorAxis,
		MoveDistPrimaryAxesMM:  moveDistMM,
		UnitVecAxisWithMaxDist: unitVec.Get(majorAxis),
		RequestedSpeedMMPS:     requestedSpeedMMPS,
		MaxEntrySpeedMMPS:      maxEntrySpeed,
		EntrySpeedMMPS:         maxEntrySpeed,
		ExitSpeedMMPS:          0,
		BlockIsFollowed:        moreMovesComing,
	}

	if !p.Pipeline.Add(blk) {
		return false, nil
	}

	for i := 0; i < axes.MaxAxes && i < len(p.Params.Axes); i++ {
		ap := &p.Params.Axes[i]
		if ap.StepsPerUnit != 0 {
			state.UnitsFromOrigin.Set(i, state.UnitsFromOrigin.Get(i)+float32(stepsDelta.Get(i))/ap.StepsPerUnit)
		}
		state.StepsFromOrigin.Set(i, state.StepsFromOrigin.Get(i)+stepsDelta.Get(i))
	}

	p.prevUnitVec = unitVec
	p.havePrevBlock = true

	p.RecalculatePipeline()
	return true, nil
}

// MoveToNonRamped appends a single constant-rate block (homing) that is
// immediately committed with entry=exit speed 0 and can_execute=true.
// AxesState.StepsFromOrigin is updated; UnitsFromOriginValid is cleared,
// matching spec.md §3's non-ramped-move invariant.
func (p *Planner) MoveToNonRamped(destSteps axes.Steps, state *axes.AxesState, requestedSpeedMMPS float32, endstops axes.AxisEndstopChecks) (bool, error) {
	var stepsDelta axes.Steps
	anyMove := false
	for i := 0; i < axes.MaxAxes && i < len(p.Params.Axes); i++ {
		d := destSteps.Get(i) - state.StepsFromOrigin.Get(i)
		stepsDelta.Set(i, d)
		if d != 0 {
			anyMove = true
		}
	}
	if !anyMove {
		return false, nil
	}

	majorAxis := argMaxAbs(stepsDelta, len(p.Params.Axes))
	stepRate := nonRampedStepRate(stepsDelta, p.Params, requestedSpeedMMPS, majorAxis)

	blk := block.MotionBlock{
		StepsTotalMaybeNeg:       stepsDelta,
		AxisIdxWithMaxSteps:      majorAxis,
		RequestedSpeedMMPS:       requestedSpeedMMPS,
		EndStopsToCheck:          endstops,
		InitialStepRatePerTticks: stepRate,
		MaxStepRatePerTticks:     stepRate,
		FinalStepRatePerTticks:   stepRate,
	}

	if !p.Pipeline.Add(blk) {
		return false, nil
	}
	added := p.Pipeline.PeekNthFromPut(0)
	added.SetCanExecute(true)

	for i := 0; i < axes.MaxAxes; i++ {
		state.StepsFromOrigin.Set(i, state.StepsFromOrigin.Get(i)+stepsDelta.Get(i))
		state.UnitsFromOriginValid.Set(i, false)
	}

	return true, nil
}

// nonRampedStepRate converts requestedSpeedMMPS into a fixed-point
// steps-per-tick rate for the major axis, capped by that axis's maximum
// step rate.
func nonRampedStepRate(stepsDelta axes.Steps, params *axes.AxesParams, requestedSpeedMMPS float32, majorAxis int) uint32 {
	if majorAxis >= len(params.Axes) {
		return 0
	}
	ap := &params.Axes[majorAxis]
	stepsPerSec := requestedSpeedMMPS * ap.StepsPerUnit
	maxRate := params.MaxStepRatePerSec(majorAxis)
	if maxRate > 0 && stepsPerSec > maxRate {
		stepsPerSec = maxRate
	}
	if stepsPerSec < block.MinStepRatePerSec {
		stepsPerSec = block.MinStepRatePerSec
	}
	return stepsPerSecToTticks(stepsPerSec, 0)
}

func argMaxAbs(v axes.Steps, n int) int {
	best, bestVal := 0, int32(-1)
	for i := 0; i < n && i < axes.MaxAxes; i++ {
		s := v.Get(i)
		if s < 0 {
			s = -s
		}
		if s > bestVal {
			bestVal = s
			best = i
		}
	}
	return best
}

// computeUnitVec builds the per-axis unit vector of the move over the
// primary axes, scaled so its magnitude matches moveDistMM.
func computeUnitVec(state *axes.AxesState, destSteps axes.Steps, params *axes.AxesParams, moveDistMM float32) axes.Positions {
	var out axes.Positions
	if moveDistMM == 0 {
		return out
	}
	for i := 0; i < axes.MaxAxes && i < len(params.Axes); i++ {
		if !params.Axes[i].IsPrimaryAxis || params.Axes[i].StepsPerUnit == 0 {
			continue
		}
		deltaUnits := float32(destSteps.Get(i)-state.StepsFromOrigin.Get(i)) / params.Axes[i].StepsPerUnit
		out.Set(i, deltaUnits/moveDistMM)
	}
	return out
}

// junctionMaxEntrySpeed implements the junction-deviation algorithm of
// spec.md §4.3.1 step 7.
func (p *Planner) junctionMaxEntrySpeed(unitVec axes.Positions, requestedSpeedMMPS float32) float32 {
	if !p.havePrevBlock {
		return MinPlannerSpeedMMPS
	}

	cosTheta := -axes.Dot(unitVec, p.prevUnitVec)

	if cosTheta < cosStraightThreshold {
		prevRequested := p.lastBlockRequestedSpeed()
		return minF(prevRequested, requestedSpeedMMPS)
	}

	if cosTheta < cosReversalThreshold {
		maxAccel := p.dominantMaxAccel()
		sinHalf := tinymath.Sqrt(0.5 * (1 - cosTheta))
		if sinHalf >= 1 {
			return MinPlannerSpeedMMPS
		}
		v := tinymath.Sqrt(maxAccel * p.Params.MaxJunctionDeviationMM * sinHalf / (1 - sinHalf))
		return v
	}

	return MinPlannerSpeedMMPS
}

func (p *Planner) lastBlockRequestedSpeed() float32 {
	if blk := p.Pipeline.PeekNthFromPut(0); blk != nil {
		return blk.RequestedSpeedMMPS
	}
	return 0
}

func (p *Planner) dominantMaxAccel() float32 {
	if p.Params.MasterAxisIdx >= len(p.Params.Axes) {
		return 0
	}
	return p.Params.Axes[p.Params.MasterAxisIdx].MaxAccelUps2
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
