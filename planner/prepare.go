package planner

import (
	"github.com/orsinium-labs/tinymath"

	"motioncore/block"
)

// ticksPerSec returns the tick rate implied by stepGenPeriodNs (0 defaults
// to the spec's 20 µs period).
func ticksPerSec(stepGenPeriodNs uint32) float32 {
	if stepGenPeriodNs == 0 {
		stepGenPeriodNs = 20_000
	}
	return 1e9 / float32(stepGenPeriodNs)
}

// stepsPerSecToTticks converts a steps/s rate into the fixed-point
// per-tick rate the ramp tick engine accumulates (spec.md §4.5).
func stepsPerSecToTticks(stepsPerSec float32, stepGenPeriodNs uint32) uint32 {
	v := stepsPerSec * block.TticksValue / ticksPerSec(stepGenPeriodNs)
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// PrepareForStepping converts a block's mm/s entry/exit/requested speeds
// into the fixed-point per-tick ramp parameters the tick engine consumes
// exclusively (spec.md §4.3.3). Must run on the host/planner side only —
// never inside the tick path.
func (p *Planner) PrepareForStepping(blk *block.MotionBlock) {
	majorAxis := blk.AxisIdxWithMaxSteps
	if majorAxis >= len(p.Params.Axes) {
		return
	}
	ap := &p.Params.Axes[majorAxis]

	stepsTotal := blk.AbsStepsTotal(majorAxis)
	if stepsTotal == 0 || blk.MoveDistPrimaryAxesMM == 0 {
		return
	}

	stepDistMM := blk.MoveDistPrimaryAxesMM / float32(stepsTotal)
	maxStepRate := p.Params.MaxStepRatePerSec(majorAxis)

	initialStepsPerSec := minF(absF(blk.EntrySpeedMMPS/stepDistMM), maxStepRate)
	finalStepsPerSec := minF(absF(blk.ExitSpeedMMPS/stepDistMM), maxStepRate)
	peakStepsPerSec := minF(absF(blk.RequestedSpeedMMPS/stepDistMM), maxStepRate)
	aMaxStepsPerSec2 := absF(ap.MaxAccelUps2 / stepDistMM)

	stepsAccel, stepsDecel, achievedPeak := splitAccelDecel(
		initialStepsPerSec, finalStepsPerSec, peakStepsPerSec, aMaxStepsPerSec2, float32(stepsTotal),
	)

	blk.InitialStepRatePerTticks = stepsPerSecToTticks(initialStepsPerSec, p.StepGenPeriodNs)
	blk.MaxStepRatePerTticks = stepsPerSecToTticks(achievedPeak, p.StepGenPeriodNs)
	blk.FinalStepRatePerTticks = stepsPerSecToTticks(finalStepsPerSec, p.StepGenPeriodNs)
	blk.AccStepsPerTticksPerMs = uint32(aMaxStepsPerSec2 * block.TticksValue / ticksPerSec(p.StepGenPeriodNs) / 1000)

	if uint32(stepsDecel) > stepsTotal {
		stepsDecel = float32(stepsTotal)
	}
	blk.StepsBeforeDecel = stepsTotal - uint32(stepsDecel)
}

// splitAccelDecel computes, via v²=u²+2aS, how many of the totalSteps
// steps are spent accelerating to the peak and how many decelerating to
// final, reducing the achieved peak if the available distance is
// insufficient to reach the requested peak and still decelerate in time.
func splitAccelDecel(initial, final, peak, accel, totalSteps float32) (stepsAccel, stepsDecel, achievedPeak float32) {
	if accel <= 0 {
		return 0, 0, initial
	}

	stepsToAccel := (peak*peak - initial*initial) / (2 * accel)
	stepsToDecel := (peak*peak - final*final) / (2 * accel)

	if stepsToAccel < 0 {
		stepsToAccel = 0
	}
	if stepsToDecel < 0 {
		stepsToDecel = 0
	}

	if stepsToAccel+stepsToDecel <= totalSteps {
		return stepsToAccel, stepsToDecel, peak
	}

	// Insufficient distance to reach peak: recompute the achievable peak
	// from v_peak² = (2*a*totalSteps + initial² + final²) / 2.
	achieved := tinymath.Sqrt(maxF(0, (2*accel*totalSteps+initial*initial+final*final)/2))
	if achieved < initial {
		achieved = initial
	}
	if achieved < final {
		achieved = final
	}

	stepsAccel = (achieved*achieved - initial*initial) / (2 * accel)
	if stepsAccel < 0 {
		stepsAccel = 0
	}
	if stepsAccel > totalSteps {
		stepsAccel = totalSteps
	}
	stepsDecel = totalSteps - stepsAccel
	return stepsAccel, stepsDecel, achieved
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
