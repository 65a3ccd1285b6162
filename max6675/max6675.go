// Package max6675 reads the MAX6675 cold-junction-compensated thermocouple
// converter, used here as the hotend temperature source behind
// thermal.Max6675Reader.
//
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/max6675.pdf
package max6675

import (
	"errors"
	"machine"
)

// ErrThermocoupleOpen is returned when the thermocouple probe is
// disconnected or faulty.
var ErrThermocoupleOpen = errors.New("thermocouple input open")

// Device is a MAX6675 on a dedicated SPI chip-select line.
type Device struct {
	bus machine.SPI
	cs  machine.Pin
}

// NewDevice builds a Device. Both bus and cs must be configured by the
// caller before use; SPI frequency must not exceed 4.3MHz.
func NewDevice(bus machine.SPI, cs machine.Pin) *Device {
	return &Device{
		bus: bus,
		cs:  cs,
	}
}

// Read returns the junction temperature in Celsius.
func (d *Device) Read() (float32, error) {
	var (
		read  []byte = []byte{0, 0}
		value uint16
	)

	d.cs.Low()
	if err := d.bus.Tx([]byte{0, 0}, read); err != nil {
		return 0, err
	}
	d.cs.High()

	// datasheet: Bit D2 is normally low and goes high if the thermocouple input is open.
	if read[1]&0x04 == 0x04 {
		return 0, ErrThermocoupleOpen
	}

	// data is 12 bits, split across the two bytes
	// -XXXXXXX XXXXX---
	value = (uint16(read[0]) << 5) | (uint16(read[1]) >> 3)

	return float32(value) * 0.25, nil
}
