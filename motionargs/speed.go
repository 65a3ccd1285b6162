package motionargs

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSpeed resolves a wire speed value — either a bare percentage number
// or a string suffixed with a unit — into units/s, capped by maxUps as the
// axis's safety limit.
//
// Accepted string suffixes: pc (percent), ups, upm, mmps, mmpm, sps (steps
// per second, caller must convert via stepsPerUnit separately).
func ParseSpeed(raw interface{}, maxUps float64) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return capUps(v/100*maxUps, maxUps), nil
	case int:
		return capUps(float64(v)/100*maxUps, maxUps), nil
	case string:
		return parseSpeedString(v, maxUps)
	case nil:
		return 0, fmt.Errorf("motionargs: no speed value given")
	default:
		return 0, fmt.Errorf("motionargs: unsupported speed type %T", raw)
	}
}

func parseSpeedString(s string, maxUps float64) (float64, error) {
	s = strings.TrimSpace(s)
	for _, suffix := range []string{"mmps", "mmpm", "upm", "ups", "sps", "pc"} {
		if strings.HasSuffix(s, suffix) {
			numPart := strings.TrimSuffix(s, suffix)
			num, err := strconv.ParseFloat(numPart, 64)
			if err != nil {
				return 0, fmt.Errorf("motionargs: invalid speed %q: %w", s, err)
			}
			return capUps(convertToUps(num, suffix, maxUps), maxUps), nil
		}
	}
	num, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("motionargs: invalid speed %q: %w", s, err)
	}
	return capUps(num/100*maxUps, maxUps), nil
}

// convertToUps converts a numeric speed value of the given unit suffix into
// units/s. mmps/mmpm are treated as already-units/s-equivalent (the "unit"
// in AxisPos is millimetres for Cartesian axes); upm differs from ups only
// in per-minute vs per-second scaling. sps is passed through unconverted,
// so the result stays in steps/s.
func convertToUps(num float64, suffix string, maxUps float64) float64 {
	switch suffix {
	case "pc":
		return num / 100 * maxUps
	case "ups", "mmps", "sps":
		return num
	case "upm", "mmpm":
		return num / 60
	default:
		return num
	}
}

func capUps(v, maxUps float64) float64 {
	if maxUps > 0 && v > maxUps {
		return maxUps
	}
	if v < 0 {
		return 0
	}
	return v
}
