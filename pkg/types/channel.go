package types

// Channel identifies one sensor input or actuator output on the GrovePi shield
type Channel string

const (
	ChannelTemperature Channel = "temperature"  //DHT sensor on D2, temperature half
	ChannelHumidity    Channel = "humidity"     //DHT sensor on D2, humidity half
	ChannelUltrasonic  Channel = "ultrasonic"   //ultrasonic ranger on D7
	ChannelSound       Channel = "sound"        //analog sound sensor on A1
	ChannelLight       Channel = "light"        //analog light sensor on A2
	ChannelButton      Channel = "button"       //push button on D3
	ChannelRotaryAngle Channel = "rotary_angle" //rotary angle sensor on A0

	ChannelRelay  Channel = "relay"   //relay output on D4
	ChannelLEDBar Channel = "led_bar" //10 segment LED bar on D5
)

// InputChannels returns the seven sensor input channels in reading order.
// The order matches the CSV column layout (temperature/humidity first).
func InputChannels() []Channel {
	return []Channel{
		ChannelTemperature,
		ChannelHumidity,
		ChannelUltrasonic,
		ChannelSound,
		ChannelLight,
		ChannelButton,
		ChannelRotaryAngle,
	}
}
