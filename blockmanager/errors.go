package blockmanager

import "github.com/pkg/errors"

// The six abstract error kinds of spec.md §7, one sentinel each so
// callers can errors.Is against them after any github.com/pkg/errors
// wrapping this package adds for context.
var (
	ErrBusy         = errors.New("blockmanager: a split is already in progress")
	ErrOutOfBounds  = errors.New("blockmanager: target rejected by kinematics bounds")
	ErrNoKinematics = errors.New("blockmanager: no kinematics geometry configured")
	ErrNotHomed     = errors.New("blockmanager: axes state invalid, home required before move")
	ErrNoMovement   = errors.New("blockmanager: move distance below minimum")
	ErrEndStopHit   = errors.New("blockmanager: endstop hit during motion")
)
