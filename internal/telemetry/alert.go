package telemetry

import "fmt"

// AlertKind says which bound was violated
type AlertKind string

const (
	AlertLow  AlertKind = "LOW"
	AlertHigh AlertKind = "HIGH"
)

// Alert records a single threshold violation for one channel at one
// evaluation instant. Alerts are derived fresh on every evaluation and
// are never cached or de-duplicated across calls.
type Alert struct {
	Channel Channel   `json:"channel"`
	Kind    AlertKind `json:"kind"`
	Value   int64     `json:"value"`
}

func (a Alert) String() string {
	return fmt.Sprintf("%s %s=%d", a.Kind, a.Channel, a.Value)
}
