package kinematics

import (
	"motioncore/axes"
	"motioncore/motionargs"
)

// XYZ is the identity geometry: each axis's step count is its Cartesian
// position scaled by the axis's steps_per_unit, independently of the other
// axes.
type XYZ struct{}

var _ Kinematics = XYZ{}

// PtToActuator converts targetPt to absolute step counts. A point outside
// any axis's configured bounds is rejected unless oobPolicy is Allow or
// Clamp; Clamp converts each axis's nearest in-bounds value instead. The
// caller's targetPt is not modified.
func (XYZ) PtToActuator(targetPt axes.Positions, _ *axes.AxesState, params *axes.AxesParams, oobPolicy motionargs.OutOfBoundsPolicy) (axes.Steps, bool) {
	var out axes.Steps

	for i := 0; i < axes.MaxAxes && i < len(params.Axes); i++ {
		ap := &params.Axes[i]
		val := targetPt.Get(i)

		if !ap.InBounds(val) {
			switch oobPolicy {
			case motionargs.OutOfBoundsClamp:
				val = ap.Clamp(val)
			case motionargs.OutOfBoundsAllow:
				// proceed with the out-of-bounds value unchanged
			default:
				return axes.Steps{}, false
			}
		}

		out.Set(i, int32(round32(val*ap.StepsPerUnit)))
	}

	return out, true
}

// ActuatorToPt recovers the Cartesian point from step counts, the inverse
// of PtToActuator's scaling.
func (XYZ) ActuatorToPt(steps axes.Steps, params *axes.AxesParams) (axes.Positions, bool) {
	var out axes.Positions
	for i := 0; i < axes.MaxAxes && i < len(params.Axes); i++ {
		ap := &params.Axes[i]
		if ap.StepsPerUnit == 0 {
			continue
		}
		out.Set(i, float32(steps.Get(i))/ap.StepsPerUnit)
	}
	return out, true
}

// SupportsAlternateSolutions is always false for XYZ: the identity mapping
// has exactly one solution.
func (XYZ) SupportsAlternateSolutions() bool { return false }

// SetPreferAlternateSolution is a no-op for XYZ.
func (XYZ) SetPreferAlternateSolution(bool) {}

// PreProcessCoords delegates to the geometry-agnostic helper.
func (XYZ) PreProcessCoords(args *motionargs.MotionArgs, curState *axes.AxesState, params *axes.AxesParams) float32 {
	return preProcessCoords(args, curState, params)
}
