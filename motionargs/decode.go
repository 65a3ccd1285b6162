package motionargs

import (
	"encoding/json"
	"fmt"

	"motioncore/axes"
)

// wireCommand mirrors the JSON wire format exactly; MotionArgs is the
// resolved, typed form callers work with.
type wireCommand struct {
	Cmd           string        `json:"cmd"`
	Mode          string        `json:"mode"`
	Speed         interface{}   `json:"speed"`
	MotorCurrent  float64       `json:"motorCurrent"`
	NoSplit       bool          `json:"nosplit"`
	Clockwise     bool          `json:"cw"`
	Rapid         bool          `json:"rapid"`
	More          bool          `json:"more"`
	OutOfBounds   string        `json:"outOfBounds"`
	Immediate     bool          `json:"imm"`
	ExtrudeDistMM float64       `json:"exDist"`
	Idx           *uint32       `json:"idx"`
	Endstops      [][2]string   `json:"endstops"`
	Pos           []interface{} `json:"pos"`
	Vel           []interface{} `json:"vel"`
}

// DecodeCommand decodes one JSON motion command body into a MotionArgs.
// A null or non-numeric array entry in "pos"/"vel" means "axis not
// specified" and leaves that axis's AxesSpecified flag false.
func DecodeCommand(jsonBody []byte, maxUpsPerAxis axes.AxesValues[float64]) (MotionArgs, error) {
	var w wireCommand
	if err := json.Unmarshal(jsonBody, &w); err != nil {
		return MotionArgs{}, fmt.Errorf("motionargs: decode: %w", err)
	}

	args := MotionArgs{
		Mode:            ParseMode(w.Mode),
		DontSplit:       w.NoSplit,
		Clockwise:       w.Clockwise,
		MoveRapid:       w.Rapid,
		MoreMovesComing: w.More,
		Immediate:       w.Immediate,
		ExtrudeDistMM:   w.ExtrudeDistMM,
		MotorCurrentA:   w.MotorCurrent,
		OutOfBounds:     ParseOutOfBoundsPolicy(w.OutOfBounds),
	}

	if w.Idx != nil {
		args.MotionTrackingIdx = *w.Idx
		args.HasMotionTrackingIdx = true
	}

	positions := w.Pos
	if args.Mode == ModeVel || args.Mode == ModeVelSteps {
		positions = w.Vel
	}
	for i := 0; i < axes.MaxAxes && i < len(positions); i++ {
		v, ok := positions[i].(float64)
		if !ok {
			continue
		}
		args.TargetPositions.Set(i, float32(v))
		args.AxesSpecified.Set(i, true)
	}

	if w.Speed != nil {
		maxUps := 0.0
		if dominant := dominantMaxUps(maxUpsPerAxis); dominant > 0 {
			maxUps = dominant
		}
		speed, err := ParseSpeed(w.Speed, maxUps)
		if err != nil {
			return MotionArgs{}, err
		}
		args.RequestedUps = speed
		args.HasSpeed = true
	}

	for i := 0; i < axes.MaxAxes && i < len(w.Endstops); i++ {
		pair := w.Endstops[i]
		minState, minTowards := ParseEndstop(pair[0])
		maxState, maxTowards := ParseEndstop(pair[1])
		args.EndstopChecks[i][axes.EndstopMin] = minState
		args.EndstopChecks[i][axes.EndstopMax] = maxState
		if minTowards || maxTowards {
			args.EndstopTowards.Set(i, true)
		}
	}

	return args, nil
}

func dominantMaxUps(maxUpsPerAxis axes.AxesValues[float64]) float64 {
	max := 0.0
	for i := 0; i < axes.MaxAxes; i++ {
		if v := maxUpsPerAxis.Get(i); v > max {
			max = v
		}
	}
	return max
}
