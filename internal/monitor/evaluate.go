package monitor

import "vigil/internal/telemetry"

// Evaluate maps a snapshot and a threshold table to the ordered list of
// threshold violations. Pure and stateless: same inputs, same output.
//
// Channels are visited in the fixed priority order of
// telemetry.Channels(). Comparisons are strict: a value exactly equal
// to a bound is in range and produces no alert. A channel emits at most
// one alert per evaluation; for a low-and-high threshold the low bound
// is checked first.
func Evaluate(snap Snapshot, table telemetry.Table) []telemetry.Alert {
	var alerts []telemetry.Alert

	for _, ch := range telemetry.Channels() {
		th, ok := table[ch]
		if !ok {
			continue
		}
		value, ok := snap[ch]
		if !ok {
			// Never sampled; nothing to judge.
			continue
		}

		switch th.Kind {
		case telemetry.ThresholdLowAndHigh:
			if value < th.Low {
				alerts = append(alerts, telemetry.Alert{Channel: ch, Kind: telemetry.AlertLow, Value: value})
			} else if value > th.High {
				alerts = append(alerts, telemetry.Alert{Channel: ch, Kind: telemetry.AlertHigh, Value: value})
			}
		case telemetry.ThresholdLowOnly:
			if value < th.Low {
				alerts = append(alerts, telemetry.Alert{Channel: ch, Kind: telemetry.AlertLow, Value: value})
			}
		case telemetry.ThresholdHighOnly:
			if value > th.High {
				alerts = append(alerts, telemetry.Alert{Channel: ch, Kind: telemetry.AlertHigh, Value: value})
			}
		}
	}

	return alerts
}
