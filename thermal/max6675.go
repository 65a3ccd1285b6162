//go:build tinygo

package thermal

import "motioncore/max6675"

// Max6675Reader adapts a max6675.Device to the Reader interface.
type Max6675Reader struct {
	Device *max6675.Device
}

// Read returns the thermocouple temperature, passing through
// max6675.ErrThermocoupleOpen on an open/faulty probe.
func (r Max6675Reader) Read() (float32, error) {
	return r.Device.Read()
}
