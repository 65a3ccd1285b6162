// Package thermal guards extrusion moves against cold extrusion: a move
// carrying a non-zero extrude distance is rejected unless the configured
// temperature reader reports the hotend at or above a minimum.
package thermal

import "github.com/pkg/errors"

// ErrColdExtrusion is returned when an extrude move is requested below the
// configured minimum hotend temperature.
var ErrColdExtrusion = errors.New("extrude move rejected: hotend below minimum temperature")

// ErrTemperatureUnavailable is returned when the configured reader fails
// (e.g. an open thermocouple).
var ErrTemperatureUnavailable = errors.New("extrude move rejected: temperature reading unavailable")

// Reader reports the hotend temperature in Celsius.
type Reader interface {
	Read() (float32, error)
}

// Guard gates extrusion moves on a minimum hotend temperature.
type Guard struct {
	Reader          Reader
	MinExtrudeTempC float32
}

// NewGuard builds a Guard with the given reader and minimum temperature.
func NewGuard(reader Reader, minExtrudeTempC float32) *Guard {
	return &Guard{Reader: reader, MinExtrudeTempC: minExtrudeTempC}
}

// CheckExtrude returns nil if the Guard or its Reader is nil, if
// extrudeDistMM is zero (no extrusion commanded), or if the hotend reads at
// or above MinExtrudeTempC, and an error otherwise.
func (g *Guard) CheckExtrude(extrudeDistMM float64) error {
	if g == nil || g.Reader == nil || extrudeDistMM == 0 {
		return nil
	}
	tempC, err := g.Reader.Read()
	if err != nil {
		return errors.Wrapf(ErrTemperatureUnavailable, "%v", err)
	}
	if tempC < g.MinExtrudeTempC {
		return ErrColdExtrusion
	}
	return nil
}
