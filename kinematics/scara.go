package kinematics

import (
	"motioncore/axes"
	"motioncore/motionargs"
)

// SingleArmSCARA is a 2-link planar arm (SCARA) geometry: joint 0 rotates
// the shoulder; joint 1's angle plus Theta2OffsetDeg is the absolute angle
// of the second link measured from the X axis.
type SingleArmSCARA struct {
	Arm1LenMM       float32
	Arm2LenMM       float32
	MaxRadiusMM     float32
	Theta2OffsetDeg float32
	preferAlternate bool
}

var _ Kinematics = &SingleArmSCARA{}

// NewSingleArmSCARA builds a SingleArmSCARA geometry. maxRadiusMM is
// clamped to arm1+arm2 if given larger, since the arm cannot reach beyond
// full extension.
func NewSingleArmSCARA(arm1LenMM, arm2LenMM, maxRadiusMM, theta2OffsetDeg float32) *SingleArmSCARA {
	reach := arm1LenMM + arm2LenMM
	if maxRadiusMM <= 0 || maxRadiusMM > reach {
		maxRadiusMM = reach
	}
	return &SingleArmSCARA{
		Arm1LenMM:       arm1LenMM,
		Arm2LenMM:       arm2LenMM,
		MaxRadiusMM:     maxRadiusMM,
		Theta2OffsetDeg: theta2OffsetDeg,
	}
}

// SupportsAlternateSolutions is always true: every reachable point off the
// origin has two elbow configurations.
func (s *SingleArmSCARA) SupportsAlternateSolutions() bool { return true }

// SetPreferAlternateSolution forces PtToActuator's disambiguation to pick
// the solution it would otherwise have rejected.
func (s *SingleArmSCARA) SetPreferAlternateSolution(prefer bool) {
	s.preferAlternate = prefer
}

// ActuatorToPt is the forward kinematics: joint angles from step counts,
// then the 2R forward equations with theta2 as the second link's absolute
// angle (the same convention inverse produces).
func (s *SingleArmSCARA) ActuatorToPt(steps axes.Steps, params *axes.AxesParams) (axes.Positions, bool) {
	theta1 := stepsToDeg(steps.Get(0), params, 0)
	theta2 := stepsToDeg(steps.Get(1), params, 1) + s.Theta2OffsetDeg

	x := s.Arm1LenMM*cos32(theta1) + s.Arm2LenMM*cos32(theta2)
	y := s.Arm1LenMM*sin32(theta1) + s.Arm2LenMM*sin32(theta2)

	var out axes.Positions
	out.Set(0, x)
	out.Set(1, y)
	if len(params.Axes) > 2 {
		out.Set(2, float32(steps.Get(2))/params.Axes[2].StepsPerUnit)
	}
	return out, true
}

func stepsToDeg(s int32, params *axes.AxesParams, axis int) float32 {
	if axis >= len(params.Axes) || params.Axes[axis].StepsPerRot == 0 {
		return 0
	}
	return float32(s) * 360 / float32(params.Axes[axis].StepsPerRot)
}

func degToSteps(deg float32, params *axes.AxesParams, axis int) int32 {
	if axis >= len(params.Axes) {
		return 0
	}
	return int32(round32(deg * float32(params.Axes[axis].StepsPerRot) / 360))
}

// scaraSolution is one of the two inverse-kinematics solutions for a
// target point.
type scaraSolution struct {
	theta1, theta2 float32
}

// PtToActuator computes the two-solution SCARA inverse, disambiguates
// against the current joint angles (minimising max per-axis step delta
// unless preferAlternate forces the other), and converts the chosen
// solution to absolute step counts.
func (s *SingleArmSCARA) PtToActuator(targetPt axes.Positions, curState *axes.AxesState, params *axes.AxesParams, oobPolicy motionargs.OutOfBoundsPolicy) (axes.Steps, bool) {
	x, y := targetPt.Get(0), targetPt.Get(1)
	r := sqrt32(x*x + y*y)

	minR := abs32(s.Arm1LenMM - s.Arm2LenMM)
	maxR := s.MaxRadiusMM
	if s.Arm1LenMM+s.Arm2LenMM < maxR {
		maxR = s.Arm1LenMM + s.Arm2LenMM
	}

	if r < minR || r > maxR {
		switch oobPolicy {
		case motionargs.OutOfBoundsClamp:
			x, y, r = clampToAnnulus(x, y, r, minR, maxR)
		case motionargs.OutOfBoundsAllow:
			// proceed with the out-of-range point unchanged
		default:
			return axes.Steps{}, false
		}
	}

	sol1, sol2, ok := s.inverse(x, y, r)
	if !ok {
		return axes.Steps{}, false
	}

	chosen := s.disambiguate(sol1, sol2, curState, params)

	var out axes.Steps
	out.Set(0, degToSteps(chosen.theta1, params, 0))
	out.Set(1, degToSteps(chosen.theta2, params, 1))
	if len(params.Axes) > 2 {
		ap := &params.Axes[2]
		out.Set(2, int32(round32(targetPt.Get(2)*ap.StepsPerUnit)))
	}
	return out, true
}

// inverse computes the two raw-angle solutions for a point already known
// to lie within [minR, maxR]. Near the origin (r < CloseToOriginTolMM) both
// solutions collapse to the home angles, since atan2/acos are ill
// conditioned there.
func (s *SingleArmSCARA) inverse(x, y, r float32) (sol1, sol2 scaraSolution, ok bool) {
	if r < CloseToOriginTolMM {
		return scaraSolution{}, scaraSolution{}, true
	}

	l1, l2 := s.Arm1LenMM, s.Arm2LenMM
	a2 := acos32((l1*l1 + r*r - l2*l2) / (2 * l1 * r))
	a3 := acos32((l1*l1 + l2*l2 - r*r) / (2 * l1 * l2))
	phi := atan2deg32(y, x)

	sol1 = scaraSolution{
		theta1: phi - a2,
		theta2: 180 + phi - a2 - a3 - s.Theta2OffsetDeg,
	}
	sol2 = scaraSolution{
		theta1: phi + a2,
		theta2: -180 + phi + a2 + a3 - s.Theta2OffsetDeg,
	}
	return sol1, sol2, true
}

// disambiguate picks the solution minimising max(|Δθ1|,|Δθ2|) expressed in
// steps relative to the current joint angles, unless preferAlternate is
// set, which forces the other solution.
func (s *SingleArmSCARA) disambiguate(sol1, sol2 scaraSolution, curState *axes.AxesState, params *axes.AxesParams) scaraSolution {
	curTheta1 := stepsToDeg(curState.StepsFromOrigin.Get(0), params, 0)
	curTheta2 := stepsToDeg(curState.StepsFromOrigin.Get(1), params, 1)

	cost := func(sol scaraSolution) float32 {
		d1 := wrapDeg180(sol.theta1 - curTheta1)
		d2 := wrapDeg180(sol.theta2 - curTheta2)
		s1 := abs32(degToSteps(d1, params, 0))
		s2 := abs32(degToSteps(d2, params, 1))
		if s1 > s2 {
			return s1
		}
		return s2
	}

	preferred := sol1
	alternate := sol2
	if cost(sol2) < cost(sol1) {
		preferred, alternate = sol2, sol1
	}
	if s.preferAlternate {
		return alternate
	}
	return preferred
}

// wrapDeg180 wraps deg into [-180, 180].
func wrapDeg180(deg float32) float32 {
	for deg > 180 {
		deg -= 360
	}
	for deg < -180 {
		deg += 360
	}
	return deg
}

// clampToAnnulus projects (x,y) radially onto whichever of [minR,maxR] it
// violates, preserving its angle.
func clampToAnnulus(x, y, r, minR, maxR float32) (float32, float32, float32) {
	clamped := r
	if r < minR {
		clamped = minR
	} else if r > maxR {
		clamped = maxR
	}
	if r == 0 {
		return clamped, 0, clamped
	}
	scale := clamped / r
	return x * scale, y * scale, clamped
}

// PreProcessCoords delegates to the geometry-agnostic helper.
func (s *SingleArmSCARA) PreProcessCoords(args *motionargs.MotionArgs, curState *axes.AxesState, params *axes.AxesParams) float32 {
	return preProcessCoords(args, curState, params)
}
