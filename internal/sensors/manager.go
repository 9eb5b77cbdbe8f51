// Package sensors implements the access layer over the GrovePi channels.
// It enforces the best-effort policy: no read or write fault ever escapes,
// every fault is logged and mapped to a safe default or a dropped command.
package sensors

import (
	"errors"
	"log"
	"sync"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/device"
	"grovepi-hub/pkg/types"
)

// Manager provides uniform reads over the seven input channels and owns
// the actuator state for the two outputs. Each poll cycle gets exactly one
// attempt per channel; there is no retry or backoff.
type Manager struct {
	mu         sync.Mutex
	dev        device.Device
	events     *bus.Bus
	mock       bool
	ledBarMock bool //one-way fallback when the bar capability is missing
	state      types.ActuatorState
}

// NewSensorManager creates the access layer over the given device backend.
// mock records whether the backend is the randomized mock.
func NewSensorManager(dev device.Device, events *bus.Bus, mock bool) *Manager {
	if mock {
		log.Println("Sensor manager initialized in MOCK mode")
	} else {
		log.Println("Sensor manager initialized with physical GrovePi")
	}
	return &Manager{
		dev:    dev,
		events: events,
		mock:   mock,
	}
}

// Mock reports whether the manager was built on the mock backend.
func (m *Manager) Mock() bool {
	return m.mock
}

// ReadDHT samples temperature and humidity. On fault, both values fall
// back to 0.0 and the cycle continues.
func (m *Manager) ReadDHT() (float64, float64) {
	temp, hum, err := m.dev.ReadDHT()
	if err != nil {
		log.Print(types.NewFault(types.FaultRead, types.ChannelTemperature, err))
		return 0.0, 0.0
	}
	return temp, hum
}

// ReadUltrasonic samples the distance sensor, falling back to 0.0 on fault.
func (m *Manager) ReadUltrasonic() float64 {
	cm, err := m.dev.ReadUltrasonic()
	if err != nil {
		log.Print(types.NewFault(types.FaultRead, types.ChannelUltrasonic, err))
		return 0.0
	}
	return cm
}

// ReadAnalog samples one raw analog channel, falling back to 0 on fault.
func (m *Manager) ReadAnalog(channel types.Channel) int {
	v, err := m.dev.ReadAnalog(channel)
	if err != nil {
		log.Print(types.NewFault(types.FaultRead, channel, err))
		return 0
	}
	return v
}

// ReadButton samples the button state, falling back to 0 on fault.
func (m *Manager) ReadButton() int {
	v, err := m.dev.ReadButton()
	if err != nil {
		log.Print(types.NewFault(types.FaultRead, types.ChannelButton, err))
		return 0
	}
	return v
}

// ReadAll samples every input channel once, sequentially. A fault on one
// channel never aborts the others, so the returned reading always has all
// seven fields populated. The caller stamps the timestamp.
func (m *Manager) ReadAll() types.SensorReading {
	var reading types.SensorReading
	reading.TemperatureC, reading.HumidityPct = m.ReadDHT()
	reading.UltrasonicCm = m.ReadUltrasonic()
	reading.SoundRaw = m.ReadAnalog(types.ChannelSound)
	reading.LightRaw = m.ReadAnalog(types.ChannelLight)
	reading.ButtonState = m.ReadButton()
	reading.RotaryRaw = m.ReadAnalog(types.ChannelRotaryAngle)
	return reading
}

// State returns a copy of the current actuator state.
func (m *Manager) State() types.ActuatorState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// SetRelay commands the relay output. Requesting the currently held state
// is a no-op: no hardware write, no event. On a hardware fault the command
// is dropped and the held state is unchanged.
func (m *Manager) SetRelay(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state.RelayOn == on {
		return
	}

	if err := m.dev.WriteRelay(on); err != nil {
		log.Print(types.NewFault(types.FaultWrite, types.ChannelRelay, err))
		return
	}

	m.state.RelayOn = on
	log.Printf("Set relay to %v", on)
	m.events.PublishRelay(on)
}

// SetLEDBar commands the LED bar level. The level is clamped into [0, 10]
// before comparison, so an out-of-range request for the held level is still
// a no-op. When the backend reports the bar capability as missing, writes
// permanently downgrade to mock for this channel only.
func (m *Manager) SetLEDBar(level int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	level = types.ClampLEDBarLevel(level)
	if m.state.LEDBarLevel == level {
		return
	}

	if !m.ledBarMock {
		switch err := m.dev.WriteLEDBar(level); {
		case errors.Is(err, device.ErrNoLEDBar):
			log.Print(types.NewFault(types.FaultCapability, types.ChannelLEDBar, err))
			m.ledBarMock = true
		case err != nil:
			log.Print(types.NewFault(types.FaultWrite, types.ChannelLEDBar, err))
			return
		}
	}

	m.state.LEDBarLevel = level
	log.Printf("Set LED bar level to %d", level)
	m.events.PublishLEDBar(level)
}

// Close releases the device backend.
func (m *Manager) Close() error {
	return m.dev.Close()
}
