// Package device provides the raw hardware access behind the sensor
// manager. The real implementation speaks I2C to the GrovePi firmware;
// the mock implementation produces randomized plausible values so the rest
// of the application runs without a shield attached.
package device

import (
	"errors"

	"grovepi-hub/pkg/types"
)

// ErrNoLEDBar is returned by a backend that cannot drive the LED bar.
// The sensor manager treats it as a capability-missing fault and downgrades
// LED bar writes to mock mode permanently.
var ErrNoLEDBar = errors.New("led bar control not supported by this device")

// Device is the raw read/write contract over the GrovePi channels.
// Implementations do not clamp, substitute or retry; that policy lives in
// the sensor manager.
type Device interface {
	// ReadDHT samples the DHT sensor and returns temperature (C) and
	// relative humidity (%).
	ReadDHT() (float64, float64, error)

	// ReadUltrasonic returns the measured distance in centimeters.
	ReadUltrasonic() (float64, error)

	// ReadAnalog returns the raw 10-bit value (0-1023) of one analog
	// channel (sound, light or rotary angle).
	ReadAnalog(channel types.Channel) (int, error)

	// ReadButton returns the button state, 0 or 1.
	ReadButton() (int, error)

	// WriteRelay switches the relay output.
	WriteRelay(on bool) error

	// WriteLEDBar lights the given number of LED bar segments (0-10).
	// Returns ErrNoLEDBar when the capability is absent.
	WriteLEDBar(level int) error

	// Close releases the underlying hardware handle.
	Close() error
}
