package types

// LEDBarMaxLevel is the number of segments on the Grove LED bar
const LEDBarMaxLevel = 10

// ActuatorState is the current commanded state of the two outputs.
// It is owned and mutated exclusively by the sensor manager; everyone else
// gets a copy.
type ActuatorState struct {
	RelayOn     bool `json:"relay_on"`
	LEDBarLevel int  `json:"led_bar_level"`
}

// ClampLEDBarLevel clamps a requested level into the valid [0, 10] range.
func ClampLEDBarLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > LEDBarMaxLevel {
		return LEDBarMaxLevel
	}
	return level
}
