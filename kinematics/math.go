package kinematics

import "github.com/orsinium-labs/tinymath"

func sqrt32(v float32) float32 {
	return tinymath.Sqrt(v)
}

func round32(v float32) float32 {
	return tinymath.Round(v)
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

const degToRad = float32(3.14159265358979323846 / 180)
const radToDeg = float32(180 / 3.14159265358979323846)

func sin32(degrees float32) float32 { return tinymath.Sin(degrees * degToRad) }
func cos32(degrees float32) float32 { return tinymath.Cos(degrees * degToRad) }
func acos32(v float32) float32      { return tinymath.Acos(v) * radToDeg }
func atan2deg32(y, x float32) float32 {
	return tinymath.Atan2(y, x) * radToDeg
}
