// Package motionargs decodes the inbound motion command, the JSON
// configuration surface, and the small set of return codes the block
// manager reports back to a caller.
package motionargs

import "motioncore/axes"

// Mode selects how the target position is interpreted and whether the
// resulting block is ramped.
type Mode int

const (
	ModeAbs Mode = iota
	ModeRel
	ModePosAbsSteps
	ModePosRelSteps
	ModePosAbsStepsNoRamp
	ModePosRelStepsNoRamp
	ModeVel
	ModeVelSteps
	ModeProp
	ModePropRel
)

var modeStrings = map[string]Mode{
	"abs":                  ModeAbs,
	"rel":                  ModeRel,
	"pos-abs-steps":        ModePosAbsSteps,
	"pos-rel-steps":        ModePosRelSteps,
	"pos-abs-steps-noramp": ModePosAbsStepsNoRamp,
	"pos-rel-steps-noramp": ModePosRelStepsNoRamp,
	"vel":                  ModeVel,
	"vel-steps":            ModeVelSteps,
	"prop":                 ModeProp,
	"prop-rel":             ModePropRel,
}

// ParseMode maps the wire mode string to a Mode. Unknown strings default
// to ModeAbs, matching the collapse-to-default policy for malformed input.
func ParseMode(s string) Mode {
	if m, ok := modeStrings[s]; ok {
		return m
	}
	return ModeAbs
}

// IsNoRamp reports whether m selects a constant-rate (non-ramped) block.
func (m Mode) IsNoRamp() bool {
	return m == ModePosAbsStepsNoRamp || m == ModePosRelStepsNoRamp
}

// IsSteps reports whether m's target positions are step counts rather than
// Cartesian units.
func (m Mode) IsSteps() bool {
	switch m {
	case ModePosAbsSteps, ModePosRelSteps, ModePosAbsStepsNoRamp, ModePosRelStepsNoRamp, ModeVelSteps:
		return true
	default:
		return false
	}
}

// IsRelative reports whether m's target is relative to the current pose.
func (m Mode) IsRelative() bool {
	switch m {
	case ModeRel, ModePosRelSteps, ModePosRelStepsNoRamp, ModePropRel:
		return true
	default:
		return false
	}
}

// OutOfBoundsPolicy selects how a block manager handles a target outside
// an axis's configured bounds.
type OutOfBoundsPolicy int

const (
	OutOfBoundsUseDefault OutOfBoundsPolicy = iota
	OutOfBoundsAllow
	OutOfBoundsClamp
	OutOfBoundsDiscard
)

var outOfBoundsStrings = map[string]OutOfBoundsPolicy{
	"allow":     OutOfBoundsAllow,
	"ok":        OutOfBoundsAllow,
	"clamp":     OutOfBoundsClamp,
	"constrain": OutOfBoundsClamp,
	"discard":   OutOfBoundsDiscard,
	"reject":    OutOfBoundsDiscard,
}

// ParseOutOfBoundsPolicy maps the wire string to a policy. An empty or
// unrecognised string yields OutOfBoundsUseDefault.
func ParseOutOfBoundsPolicy(s string) OutOfBoundsPolicy {
	if s == "" {
		return OutOfBoundsUseDefault
	}
	if p, ok := outOfBoundsStrings[s]; ok {
		return p
	}
	return OutOfBoundsUseDefault
}

var endstopStrings = map[string]axes.EndstopState{
	"0": axes.EndstopNotHit,
	"1": axes.EndstopHit,
	"X": axes.EndstopNone,
}

// Towards is reported by ParseEndstop alongside axes.EndstopNotHit since
// "towards" is a homing direction qualifier rather than a distinct debounced
// state; callers that care (the homing pattern) check the bool.
const towardsCode = "T"

// ParseEndstop maps one endstop wire code to a debounced state and whether
// the "towards" qualifier was set.
func ParseEndstop(s string) (state axes.EndstopState, towards bool) {
	if s == towardsCode {
		return axes.EndstopNotHit, true
	}
	if st, ok := endstopStrings[s]; ok {
		return st, false
	}
	return axes.EndstopNone, false
}

// MotionArgs is the decoded inbound command.
type MotionArgs struct {
	Mode Mode

	TargetPositions axes.Positions
	AxesSpecified   axes.BoolFlags

	HasSpeed      bool
	RequestedUps  float64 // units/s, already resolved from a percentage or suffixed string
	MotorCurrentA float64

	DontSplit       bool
	Clockwise       bool
	MoveRapid       bool
	MoreMovesComing bool
	Immediate       bool
	ExtrudeDistMM   float64

	OutOfBounds OutOfBoundsPolicy

	MotionTrackingIdx    uint32
	HasMotionTrackingIdx bool

	EndstopChecks  axes.AxisEndstopChecks
	EndstopTowards axes.BoolFlags
}
