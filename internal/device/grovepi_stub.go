//go:build !linux

package device

import (
	"errors"
	"fmt"

	"grovepi-hub/pkg/types"
)

var errNoHardware = errors.New("grovepi hardware access requires linux")

// GrovePi is only reachable through the Linux I2C character device; this
// stub keeps the package buildable on development machines.
type GrovePi struct{}

// OpenGrovePi always fails off Linux; callers fall back to the mock device.
func OpenGrovePi(bus string) (*GrovePi, error) {
	return nil, fmt.Errorf("cannot open I2C bus %s: %w", bus, errNoHardware)
}

func (d *GrovePi) ReadDHT() (float64, float64, error)            { return 0, 0, errNoHardware }
func (d *GrovePi) ReadUltrasonic() (float64, error)              { return 0, errNoHardware }
func (d *GrovePi) ReadAnalog(channel types.Channel) (int, error) { return 0, errNoHardware }
func (d *GrovePi) ReadButton() (int, error)                      { return 0, errNoHardware }
func (d *GrovePi) WriteRelay(on bool) error                      { return errNoHardware }
func (d *GrovePi) WriteLEDBar(level int) error                   { return errNoHardware }
func (d *GrovePi) Close() error                                  { return nil }
