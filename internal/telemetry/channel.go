package telemetry

// Channel identifies a monitored vehicle signal
type Channel string

const (
	ChannelSpeed        Channel = "speed"         // km/h, signed
	ChannelBatterySoC   Channel = "battery_soc"   // percent, 0-100
	ChannelTirePressure Channel = "tire_pressure" // psi, signed
	ChannelBrakeWear    Channel = "brake_wear"    // percent pad remaining
)

// channelOrder is the fixed evaluation priority order. Alert output
// follows this order regardless of update timing.
var channelOrder = []Channel{
	ChannelSpeed,
	ChannelBatterySoC,
	ChannelTirePressure,
	ChannelBrakeWear,
}

// Channels returns all known channels in evaluation priority order.
// Callers must not mutate the returned slice.
func Channels() []Channel {
	return channelOrder
}

// IsValid checks if the channel is a known signal
func (c Channel) IsValid() bool {
	switch c {
	case ChannelSpeed, ChannelBatterySoC, ChannelTirePressure, ChannelBrakeWear:
		return true
	default:
		return false
	}
}

func (c Channel) String() string {
	return string(c)
}

// Reading is a single sample pulled from a telemetry source
type Reading struct {
	Channel Channel `json:"channel"`
	Value   int64   `json:"value"`
}
