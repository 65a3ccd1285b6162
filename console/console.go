// Package console implements the interactive debug command shell (typed
// lines tokenized with shlex into MotionArgs-shaped commands) and a small
// status display refreshed from the main loop with the exposed queries of
// spec.md §6.2.
package console

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"

	"motioncore/axes"
	"motioncore/blockmanager"
	"motioncore/motionargs"
)

// Shell tokenizes and dispatches single debug command lines such as
// "jog x 10 50mmps" or "home x" against a block manager.
type Shell struct {
	bm *blockmanager.BlockManager
}

// NewShell builds a Shell over bm.
func NewShell(bm *blockmanager.BlockManager) *Shell {
	return &Shell{bm: bm}
}

// Execute tokenizes line with shlex and dispatches the resulting command,
// returning the textual reply the console should print.
func (s *Shell) Execute(line string) string {
	fields, err := shlex.Split(line)
	if err != nil {
		return fmt.Sprintf("parse error: %v", err)
	}
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "jog":
		return s.jog(fields[1:])
	case "home":
		return s.home(fields[1:])
	case "stop":
		s.bm.SetCurPositionAsOrigin()
		return "origin reset"
	default:
		return fmt.Sprintf("unknown command %q", fields[0])
	}
}

// jog parses "jog <axis-letter> <distance> [speed]" into a relative
// ramped move on that axis alone.
func (s *Shell) jog(fields []string) string {
	if len(fields) < 2 {
		return "usage: jog <axis> <distance> [speed]"
	}

	axisIdx, ok := axisIndex(fields[0])
	if !ok {
		return fmt.Sprintf("unknown axis %q", fields[0])
	}

	dist, err := strconv.ParseFloat(fields[1], 32)
	if err != nil {
		return fmt.Sprintf("bad distance %q: %v", fields[1], err)
	}

	args := motionargs.MotionArgs{Mode: motionargs.ModeRel}
	args.TargetPositions.Set(axisIdx, float32(dist))
	args.AxesSpecified.Set(axisIdx, true)

	if len(fields) >= 3 {
		speed, err := motionargs.ParseSpeed(fields[2], 0)
		if err == nil {
			args.HasSpeed = true
			args.RequestedUps = speed
		}
	}

	ret, err := s.bm.AddRampedBlock(args)
	if err != nil {
		return fmt.Sprintf("%s: %v", ret, err)
	}
	if _, err := s.bm.PumpBlockSplitter(); err != nil {
		return fmt.Sprintf("%s: %v", ret, err)
	}
	return ret.String()
}

// home parses "home <axis-letter>" into a non-ramped move towards that
// axis's minimum endstop.
func (s *Shell) home(fields []string) string {
	if len(fields) < 1 {
		return "usage: home <axis>"
	}
	axisIdx, ok := axisIndex(fields[0])
	if !ok {
		return fmt.Sprintf("unknown axis %q", fields[0])
	}

	args := motionargs.MotionArgs{Mode: motionargs.ModePosRelStepsNoRamp}
	args.TargetPositions.Set(axisIdx, -1_000_000)
	args.AxesSpecified.Set(axisIdx, true)
	state, towards := motionargs.ParseEndstop("T")
	args.EndstopChecks[axisIdx][axes.EndstopMin] = state
	args.EndstopTowards.Set(axisIdx, towards)

	ret, err := s.bm.AddNonRampedBlock(args)
	if err != nil {
		return fmt.Sprintf("%s: %v", ret, err)
	}
	return ret.String()
}

func axisIndex(letter string) (int, bool) {
	switch strings.ToLower(letter) {
	case "x":
		return 0, true
	case "y":
		return 1, true
	case "z":
		return 2, true
	default:
		return 0, false
	}
}
