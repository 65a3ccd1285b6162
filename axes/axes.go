// Package axes defines the static per-axis limits and the mutable current
// pose shared by the kinematics, planner, and ramp generator packages.
package axes

import "golang.org/x/exp/constraints"

// MaxAxes is the compile-time maximum number of coordinated axes this core
// supports. Arbitrary N-axis generalisation is an explicit non-goal.
const MaxAxes = 3

// AxesValues is a fixed-size tuple of MaxAxes values of T, used uniformly
// for positions, step counts, unit vectors, and per-axis flags.
type AxesValues[T any] [MaxAxes]T

// Get returns the value at axis index i.
func (v AxesValues[T]) Get(i int) T {
	return v[i]
}

// Set assigns the value at axis index i.
func (v *AxesValues[T]) Set(i int, val T) {
	v[i] = val
}

// numericValues constrains Add/Sub/MulScalar/DivScalar/Dot to numeric T.
type numericValues interface {
	constraints.Integer | constraints.Float
}

// Add returns the element-wise sum of v and o.
func Add[T numericValues](v, o AxesValues[T]) AxesValues[T] {
	var out AxesValues[T]
	for i := 0; i < MaxAxes; i++ {
		out[i] = v[i] + o[i]
	}
	return out
}

// Sub returns the element-wise difference v - o.
func Sub[T numericValues](v, o AxesValues[T]) AxesValues[T] {
	var out AxesValues[T]
	for i := 0; i < MaxAxes; i++ {
		out[i] = v[i] - o[i]
	}
	return out
}

// MulScalar returns v scaled element-wise by s.
func MulScalar[T numericValues](v AxesValues[T], s T) AxesValues[T] {
	var out AxesValues[T]
	for i := 0; i < MaxAxes; i++ {
		out[i] = v[i] * s
	}
	return out
}

// DivScalar returns v divided element-wise by s.
func DivScalar[T numericValues](v AxesValues[T], s T) AxesValues[T] {
	var out AxesValues[T]
	for i := 0; i < MaxAxes; i++ {
		out[i] = v[i] / s
	}
	return out
}

// Dot returns the dot product of v and o.
func Dot[T numericValues](v, o AxesValues[T]) T {
	var sum T
	for i := 0; i < MaxAxes; i++ {
		sum += v[i] * o[i]
	}
	return sum
}

// AxisPos is a Cartesian/joint position in millimetres (or degrees for a
// rotary axis), stored as float32 to match the fixed-point ramp math
// downstream.
type AxisPos = float32

// AxisSteps is an absolute or signed actuator step count.
type AxisSteps = int32

// Positions is a tuple of per-axis positions.
type Positions = AxesValues[AxisPos]

// Steps is a tuple of per-axis step counts.
type Steps = AxesValues[AxisSteps]

// BoolFlags is a tuple of per-axis booleans (e.g. which axes were specified
// in a MotionArgs command).
type BoolFlags = AxesValues[bool]
