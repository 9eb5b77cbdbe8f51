package types

import (
	"strconv"
	"time"
)

// TimestampLayout is the wall clock format used for CSV rows and log lines
const TimestampLayout = "2006-01-02 15:04:05"

// SensorReading represents one snapshot of all seven input channels.
// A reading is immutable once built; failed channels carry their documented
// fallback value rather than being omitted.
type SensorReading struct {
	Timestamp    time.Time `json:"timestamp"`
	TemperatureC float64   `json:"temperature_c"`
	HumidityPct  float64   `json:"humidity_pct"`
	UltrasonicCm float64   `json:"ultrasonic_cm"`
	SoundRaw     int       `json:"sound_raw"`
	LightRaw     int       `json:"light_raw"`
	ButtonState  int       `json:"button_state"`
	RotaryRaw    int       `json:"rotary_angle_raw"`
}

// CSVHeader returns the fixed CSV column names, in writing order.
func CSVHeader() []string {
	return []string{
		"Timestamp",
		"Temperature_C",
		"Humidity_perc",
		"Ultrasonic_cm",
		"Sound_raw",
		"Light_raw",
		"Button_state",
		"RotaryAngle_raw",
	}
}

// CSVRecord returns the reading as one CSV row matching CSVHeader order.
func (r SensorReading) CSVRecord() []string {
	return []string{
		r.Timestamp.Format(TimestampLayout),
		strconv.FormatFloat(r.TemperatureC, 'f', 2, 64),
		strconv.FormatFloat(r.HumidityPct, 'f', 2, 64),
		strconv.FormatFloat(r.UltrasonicCm, 'f', 2, 64),
		strconv.Itoa(r.SoundRaw),
		strconv.Itoa(r.LightRaw),
		strconv.Itoa(r.ButtonState),
		strconv.Itoa(r.RotaryRaw),
	}
}
