package device

import (
	"fmt"
	"math/rand"

	"grovepi-hub/pkg/types"
)

// Documented physical ranges for mocked channels.
const (
	mockTempMin = 18.0
	mockTempMax = 30.0
	mockHumMin  = 40.0
	mockHumMax  = 90.0
	mockDistMin = 5.0
	mockDistMax = 200.0
	analogMax   = 1023 //10-bit ADC
)

// Mock generates pseudo-random values inside each channel's documented
// physical range. Writes are accepted and discarded.
type Mock struct{}

// NewMock creates a mock device.
func NewMock() *Mock {
	return &Mock{}
}

func uniform(min, max float64) float64 {
	return min + rand.Float64()*(max-min)
}

// ReadDHT returns a plausible temperature/humidity pair.
func (m *Mock) ReadDHT() (float64, float64, error) {
	return uniform(mockTempMin, mockTempMax), uniform(mockHumMin, mockHumMax), nil
}

// ReadUltrasonic returns a plausible distance in centimeters.
func (m *Mock) ReadUltrasonic() (float64, error) {
	return uniform(mockDistMin, mockDistMax), nil
}

// ReadAnalog returns a random raw 10-bit value.
func (m *Mock) ReadAnalog(channel types.Channel) (int, error) {
	switch channel {
	case types.ChannelSound, types.ChannelLight, types.ChannelRotaryAngle:
		return rand.Intn(analogMax + 1), nil
	default:
		return 0, fmt.Errorf("channel %s is not an analog input", channel)
	}
}

// ReadButton simulates presses and releases.
func (m *Mock) ReadButton() (int, error) {
	return rand.Intn(2), nil
}

// WriteRelay accepts and discards the command.
func (m *Mock) WriteRelay(on bool) error {
	return nil
}

// WriteLEDBar accepts and discards the command.
func (m *Mock) WriteLEDBar(level int) error {
	return nil
}

// Close is a no-op for the mock device.
func (m *Mock) Close() error {
	return nil
}
