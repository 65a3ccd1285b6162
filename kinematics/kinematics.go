// Package kinematics converts between Cartesian target points and absolute
// actuator step counts for the two supported machine geometries, XYZ and
// SingleArmSCARA.
package kinematics

import (
	"motioncore/axes"
	"motioncore/motionargs"
)

// CloseToOriginTolMM is the radius below which SCARA inverse kinematics
// short-circuits to the home angles rather than computing an ill-conditioned
// atan2/acos near the arm's fold point.
const CloseToOriginTolMM = 1.0

// Kinematics is the strategy interface both geometries implement.
type Kinematics interface {
	// PtToActuator converts targetPt (Cartesian units) to absolute step
	// counts, honoring oobPolicy when the target lies outside bounds. It
	// reports false (with no step counts produced) when the target is
	// rejected outright.
	PtToActuator(targetPt axes.Positions, curState *axes.AxesState, params *axes.AxesParams, oobPolicy motionargs.OutOfBoundsPolicy) (axes.Steps, bool)

	// ActuatorToPt computes the Cartesian point corresponding to an
	// absolute step count (forward kinematics).
	ActuatorToPt(steps axes.Steps, params *axes.AxesParams) (axes.Positions, bool)

	// SupportsAlternateSolutions reports whether this geometry has more
	// than one valid inverse-kinematics solution per point.
	SupportsAlternateSolutions() bool

	// SetPreferAlternateSolution, when supported, forces the
	// disambiguation in PtToActuator to pick the solution it would
	// otherwise have rejected.
	SetPreferAlternateSolution(prefer bool)

	// PreProcessCoords fills unspecified axes of args from curState
	// (absolute mode) or zero (relative mode), converts a relative target
	// to absolute in place, and returns the primary-axes Euclidean
	// distance of the resulting move, in millimetres.
	PreProcessCoords(args *motionargs.MotionArgs, curState *axes.AxesState, params *axes.AxesParams) float32
}

// preProcessCoords is the geometry-agnostic half of PreProcessCoords,
// shared by XYZ and SingleArmSCARA: resolve unspecified axes, then measure
// the primary-axes Euclidean distance of the move.
func preProcessCoords(args *motionargs.MotionArgs, curState *axes.AxesState, params *axes.AxesParams) float32 {
	relative := args.Mode.IsRelative()

	var distSq float32
	for i := 0; i < axes.MaxAxes && i < len(params.Axes); i++ {
		cur := curState.UnitsFromOrigin.Get(i)

		if !args.AxesSpecified.Get(i) {
			if relative {
				args.TargetPositions.Set(i, 0)
			} else {
				args.TargetPositions.Set(i, cur)
			}
			continue
		}

		target := args.TargetPositions.Get(i)
		if relative {
			args.TargetPositions.Set(i, cur+target)
		}
	}

	if relative {
		// mark every axis specified post-conversion: the target now holds
		// an absolute coordinate regardless of which axes were named.
		for i := 0; i < axes.MaxAxes; i++ {
			args.AxesSpecified.Set(i, true)
		}
	}

	for i := 0; i < axes.MaxAxes && i < len(params.Axes); i++ {
		if !params.Axes[i].IsPrimaryAxis {
			continue
		}
		delta := args.TargetPositions.Get(i) - curState.UnitsFromOrigin.Get(i)
		distSq += delta * delta
	}

	return sqrt32(distSq)
}
