//go:build linux

package device

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"golang.org/x/sys/unix"

	"grovepi-hub/pkg/types"
)

// GrovePi firmware lives on the shield's ATmega at this I2C address.
const (
	grovePiAddress = 0x04
	i2cSlave       = 0x0703 //I2C_SLAVE ioctl request, linux/i2c-dev.h
)

// Firmware command bytes, per the Dexter Industries GrovePi protocol.
const (
	cmdDigitalRead  = 1
	cmdDigitalWrite = 2
	cmdAnalogRead   = 3
	cmdPinMode      = 5
	cmdUltrasonic   = 7
	cmdDHT          = 40
	cmdLEDBarInit   = 50
	cmdLEDBarLevel  = 52
)

// Shield port assignments, matching the wiring this application expects.
const (
	portDHT         = 2 //D2
	portButton      = 3 //D3
	portRelay       = 4 //D4
	portLEDBar      = 5 //D5
	portUltrasonic  = 7 //D7
	portRotaryAngle = 0 //A0
	portSound       = 1 //A1
	portLight       = 2 //A2
)

const dhtTypeDHT11 = 0

// GrovePi talks to a physical GrovePi+ shield over the Linux I2C character
// device. All calls are serialized by the caller (the sensor manager reads
// one channel at a time), so no internal locking is needed.
type GrovePi struct {
	fd     int
	ledBar bool //true once the bar accepted the init command
}

// OpenGrovePi opens the I2C bus, addresses the shield and configures the
// pin modes for every channel.
func OpenGrovePi(bus string) (*GrovePi, error) {
	fd, err := unix.Open(bus, unix.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open I2C bus %s: %w", bus, err)
	}

	if err := unix.IoctlSetInt(fd, i2cSlave, grovePiAddress); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("failed to address GrovePi at 0x%02x: %w", grovePiAddress, err)
	}

	d := &GrovePi{fd: fd}

	//inputs
	if err := d.pinMode(portButton, 0); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to configure button pin: %w", err)
	}
	//outputs, initialized to a known off state
	if err := d.pinMode(portRelay, 1); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to configure relay pin: %w", err)
	}
	if err := d.WriteRelay(false); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to reset relay: %w", err)
	}

	//the LED bar needs its own init command; when the firmware rejects it
	//the device still works, just without bar control
	if err := d.command(cmdLEDBarInit, portLEDBar, 0, 0); err == nil {
		d.ledBar = true
		time.Sleep(50 * time.Millisecond)
		_ = d.command(cmdLEDBarLevel, portLEDBar, 0, 0)
	}

	return d, nil
}

// command writes one 4-byte firmware command block to register 1.
func (d *GrovePi) command(cmd, pin, v1, v2 byte) error {
	buf := []byte{1, cmd, pin, v1, v2}
	if _, err := unix.Write(d.fd, buf); err != nil {
		return fmt.Errorf("i2c write failed: %w", err)
	}
	return nil
}

// read fetches n reply bytes after a command settled.
func (d *GrovePi) read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := unix.Read(d.fd, buf); err != nil {
		return nil, fmt.Errorf("i2c read failed: %w", err)
	}
	return buf, nil
}

func (d *GrovePi) pinMode(pin byte, mode byte) error {
	return d.command(cmdPinMode, pin, mode, 0)
}

// ReadDHT samples the DHT sensor. The firmware replies with two little
// endian float32 values after the command block.
func (d *GrovePi) ReadDHT() (float64, float64, error) {
	if err := d.command(cmdDHT, portDHT, dhtTypeDHT11, 0); err != nil {
		return 0, 0, err
	}
	time.Sleep(100 * time.Millisecond)

	raw, err := d.read(9)
	if err != nil {
		return 0, 0, err
	}

	temp := float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[1:5])))
	hum := float64(math.Float32frombits(binary.LittleEndian.Uint32(raw[5:9])))

	//the firmware reports NaN on a failed one-wire handshake
	if math.IsNaN(temp) || math.IsNaN(hum) {
		return 0, 0, fmt.Errorf("DHT returned NaN (temp=%v hum=%v)", temp, hum)
	}
	//-100/150 markers show up when the sensor is disconnected
	if temp < -100 || temp > 150 || hum < 0 || hum > 100 {
		return 0, 0, fmt.Errorf("DHT reading out of range (temp=%v hum=%v)", temp, hum)
	}

	return temp, hum, nil
}

// ReadUltrasonic returns the distance in centimeters.
func (d *GrovePi) ReadUltrasonic() (float64, error) {
	if err := d.command(cmdUltrasonic, portUltrasonic, 0, 0); err != nil {
		return 0, err
	}
	time.Sleep(60 * time.Millisecond)

	raw, err := d.read(3)
	if err != nil {
		return 0, err
	}
	return float64(int(raw[1])<<8 | int(raw[2])), nil
}

// ReadAnalog returns the raw 10-bit value of an analog channel.
func (d *GrovePi) ReadAnalog(channel types.Channel) (int, error) {
	var pin byte
	switch channel {
	case types.ChannelRotaryAngle:
		pin = portRotaryAngle
	case types.ChannelSound:
		pin = portSound
	case types.ChannelLight:
		pin = portLight
	default:
		return 0, fmt.Errorf("channel %s is not an analog input", channel)
	}

	if err := d.command(cmdAnalogRead, pin, 0, 0); err != nil {
		return 0, err
	}
	time.Sleep(10 * time.Millisecond)

	raw, err := d.read(3)
	if err != nil {
		return 0, err
	}
	return int(raw[1])<<8 | int(raw[2]), nil
}

// ReadButton returns the button state on D3.
func (d *GrovePi) ReadButton() (int, error) {
	if err := d.command(cmdDigitalRead, portButton, 0, 0); err != nil {
		return 0, err
	}
	time.Sleep(10 * time.Millisecond)

	raw, err := d.read(1)
	if err != nil {
		return 0, err
	}
	if raw[0] > 1 {
		return 0, fmt.Errorf("invalid button state %d", raw[0])
	}
	return int(raw[0]), nil
}

// WriteRelay switches the relay on D4.
func (d *GrovePi) WriteRelay(on bool) error {
	var v byte
	if on {
		v = 1
	}
	return d.command(cmdDigitalWrite, portRelay, v, 0)
}

// WriteLEDBar lights level segments on D5.
func (d *GrovePi) WriteLEDBar(level int) error {
	if !d.ledBar {
		return ErrNoLEDBar
	}
	return d.command(cmdLEDBarLevel, portLEDBar, byte(level), 0)
}

// Close releases the I2C file descriptor.
func (d *GrovePi) Close() error {
	return unix.Close(d.fd)
}
