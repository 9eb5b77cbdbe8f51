package mqttbridge

import (
	"testing"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/device"
	"grovepi-hub/internal/sensors"
)

// TestStopIdempotent verifies Stop may be called repeatedly, including on a
// bridge that never connected.
func TestStopIdempotent(t *testing.T) {
	events := bus.BusFactory(4)
	manager := sensors.NewSensorManager(device.NewMock(), events, true)

	b := BridgeFactory("localhost:1883", "grovepi", events, manager)
	b.Stop()
	b.Stop()
}

// TestTopicPrefixTrimsTrailingSlash verifies topics never get a double
// separator.
func TestTopicPrefixTrimsTrailingSlash(t *testing.T) {
	events := bus.BusFactory(4)
	manager := sensors.NewSensorManager(device.NewMock(), events, true)

	b := BridgeFactory("localhost:1883", "grovepi/", events, manager)
	if b.topicPrefix != "grovepi" {
		t.Errorf("Expected trailing slash trimmed, got %q", b.topicPrefix)
	}
}
