package sensors

import (
	"errors"
	"testing"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/device"
	"grovepi-hub/pkg/types"
)

// fakeDevice returns fixed values and lets tests inject faults per channel.
type fakeDevice struct {
	dhtErr    error
	ultraErr  error
	analogErr error
	buttonErr error
	relayErr  error
	ledErr    error

	relayWrites int
	ledWrites   int
}

func (f *fakeDevice) ReadDHT() (float64, float64, error) {
	if f.dhtErr != nil {
		return 0, 0, f.dhtErr
	}
	return 25.0, 60.0, nil
}

func (f *fakeDevice) ReadUltrasonic() (float64, error) {
	if f.ultraErr != nil {
		return 0, f.ultraErr
	}
	return 42.5, nil
}

func (f *fakeDevice) ReadAnalog(channel types.Channel) (int, error) {
	if f.analogErr != nil {
		return 0, f.analogErr
	}
	return 512, nil
}

func (f *fakeDevice) ReadButton() (int, error) {
	if f.buttonErr != nil {
		return 0, f.buttonErr
	}
	return 1, nil
}

func (f *fakeDevice) WriteRelay(on bool) error {
	if f.relayErr != nil {
		return f.relayErr
	}
	f.relayWrites++
	return nil
}

func (f *fakeDevice) WriteLEDBar(level int) error {
	if f.ledErr != nil {
		return f.ledErr
	}
	f.ledWrites++
	return nil
}

func (f *fakeDevice) Close() error { return nil }

// drainEvents collects whatever events are already buffered.
func drainEvents(ch <-chan bus.Event) []bus.Event {
	var out []bus.Event
	for {
		select {
		case ev := <-ch:
			out = append(out, ev)
		default:
			return out
		}
	}
}

// TestReadAllFaultIsolation verifies that one failing channel yields its
// fallback value while every other channel still reads normally.
func TestReadAllFaultIsolation(t *testing.T) {
	dev := &fakeDevice{dhtErr: errors.New("dht handshake failed")}
	m := NewSensorManager(dev, bus.BusFactory(8), false)

	reading := m.ReadAll()

	if reading.TemperatureC != 0.0 || reading.HumidityPct != 0.0 {
		t.Errorf("Expected fallback 0.0/0.0 for failed DHT, got %v/%v",
			reading.TemperatureC, reading.HumidityPct)
	}
	if reading.UltrasonicCm != 42.5 {
		t.Errorf("Expected ultrasonic 42.5, got %v", reading.UltrasonicCm)
	}
	if reading.SoundRaw != 512 || reading.LightRaw != 512 || reading.RotaryRaw != 512 {
		t.Errorf("Expected analog channels unaffected, got %d/%d/%d",
			reading.SoundRaw, reading.LightRaw, reading.RotaryRaw)
	}
	if reading.ButtonState != 1 {
		t.Errorf("Expected button 1, got %d", reading.ButtonState)
	}
}

// TestRelayIdempotence verifies repeating the held state issues no hardware
// write and no event.
func TestRelayIdempotence(t *testing.T) {
	dev := &fakeDevice{}
	events := bus.BusFactory(8)
	m := NewSensorManager(dev, events, false)

	_, ch := events.Subscribe()

	m.SetRelay(true)
	m.SetRelay(true)

	if dev.relayWrites != 1 {
		t.Errorf("Expected exactly 1 hardware write, got %d", dev.relayWrites)
	}

	got := drainEvents(ch)
	if len(got) != 1 {
		t.Fatalf("Expected exactly 1 relay event, got %d", len(got))
	}
	if got[0].Kind != bus.EventRelay || !got[0].RelayOn {
		t.Errorf("Expected relay-on event, got %+v", got[0])
	}
	if !m.State().RelayOn {
		t.Errorf("Expected relay state on")
	}
}

// TestRelayFaultDropsCommand verifies a hardware write fault leaves the
// held state unchanged and emits nothing.
func TestRelayFaultDropsCommand(t *testing.T) {
	dev := &fakeDevice{relayErr: errors.New("bus timeout")}
	events := bus.BusFactory(8)
	m := NewSensorManager(dev, events, false)

	_, ch := events.Subscribe()
	m.SetRelay(true)

	if m.State().RelayOn {
		t.Errorf("Expected relay state unchanged after write fault")
	}
	if got := drainEvents(ch); len(got) != 0 {
		t.Errorf("Expected no events after dropped command, got %d", len(got))
	}
}

// TestLEDBarClamping verifies out-of-range levels are clamped into [0, 10]
// before comparison and dispatch.
func TestLEDBarClamping(t *testing.T) {
	dev := &fakeDevice{}
	events := bus.BusFactory(8)
	m := NewSensorManager(dev, events, false)

	_, ch := events.Subscribe()

	m.SetLEDBar(15)
	if got := m.State().LEDBarLevel; got != 10 {
		t.Errorf("Expected level clamped to 10, got %d", got)
	}

	got := drainEvents(ch)
	if len(got) != 1 || got[0].LEDBarLevel != 10 {
		t.Fatalf("Expected exactly 1 event with level 10, got %+v", got)
	}

	//15 clamps to the held 10, so this must be a no-op
	m.SetLEDBar(15)
	if dev.ledWrites != 1 {
		t.Errorf("Expected no second hardware write, got %d", dev.ledWrites)
	}

	m.SetLEDBar(-3)
	if got := m.State().LEDBarLevel; got != 0 {
		t.Errorf("Expected negative level clamped to 0, got %d", got)
	}
}

// TestLEDBarCapabilityFallback verifies the one-way downgrade to mock mode
// when the device lacks bar control: state and events keep flowing, the
// hardware is never touched again.
func TestLEDBarCapabilityFallback(t *testing.T) {
	dev := &fakeDevice{ledErr: device.ErrNoLEDBar}
	events := bus.BusFactory(8)
	m := NewSensorManager(dev, events, false)

	_, ch := events.Subscribe()

	m.SetLEDBar(4)
	if got := m.State().LEDBarLevel; got != 4 {
		t.Errorf("Expected mock-mode state update to 4, got %d", got)
	}

	//clear the injected error: a downgraded manager must not retry hardware
	dev.ledErr = nil
	m.SetLEDBar(7)
	if dev.ledWrites != 0 {
		t.Errorf("Expected no hardware writes after capability fallback, got %d", dev.ledWrites)
	}
	if got := m.State().LEDBarLevel; got != 7 {
		t.Errorf("Expected state 7, got %d", got)
	}

	got := drainEvents(ch)
	if len(got) != 2 {
		t.Errorf("Expected 2 LED bar events, got %d", len(got))
	}
}
