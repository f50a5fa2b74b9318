package telemetry

import (
	"errors"
	"fmt"
)

// ThresholdKind selects which bound(s) a threshold enforces
type ThresholdKind string

const (
	ThresholdLowOnly    ThresholdKind = "low_only"
	ThresholdHighOnly   ThresholdKind = "high_only"
	ThresholdLowAndHigh ThresholdKind = "low_and_high"
)

// Configuration errors
var (
	ErrInvertedBounds       = errors.New("low bound must be strictly less than high bound")
	ErrUnknownThresholdKind = errors.New("unknown threshold kind")
	ErrUnknownChannel       = errors.New("unknown channel")
)

// Threshold holds the configured bound(s) for one channel. Depending on
// Kind only Low, only High, or both are meaningful.
type Threshold struct {
	Kind ThresholdKind `json:"kind" yaml:"kind"`
	Low  int64         `json:"low,omitempty" yaml:"low,omitempty"`
	High int64         `json:"high,omitempty" yaml:"high,omitempty"`
}

// LowOnly returns a threshold that alerts when a value drops below bound
func LowOnly(bound int64) Threshold {
	return Threshold{Kind: ThresholdLowOnly, Low: bound}
}

// HighOnly returns a threshold that alerts when a value rises above bound
func HighOnly(bound int64) Threshold {
	return Threshold{Kind: ThresholdHighOnly, High: bound}
}

// LowAndHigh returns a threshold that alerts outside the [low, high] band
func LowAndHigh(low, high int64) Threshold {
	return Threshold{Kind: ThresholdLowAndHigh, Low: low, High: high}
}

// Validate checks the threshold configuration. A LowAndHigh threshold
// with low >= high is rejected rather than given inverted-range semantics.
func (t Threshold) Validate() error {
	switch t.Kind {
	case ThresholdLowOnly, ThresholdHighOnly:
		return nil
	case ThresholdLowAndHigh:
		if t.Low >= t.High {
			return fmt.Errorf("%w: low=%d high=%d", ErrInvertedBounds, t.Low, t.High)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownThresholdKind, t.Kind)
	}
}

// Table maps each monitored channel to its threshold. Channels without
// an entry are stored but never alerted on.
type Table map[Channel]Threshold

// Validate checks every entry in the table
func (tb Table) Validate() error {
	for ch, th := range tb {
		if !ch.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
		}
		if err := th.Validate(); err != nil {
			return fmt.Errorf("channel %s: %w", ch, err)
		}
	}
	return nil
}

// Clone returns an independent copy of the table
func (tb Table) Clone() Table {
	out := make(Table, len(tb))
	for ch, th := range tb {
		out[ch] = th
	}
	return out
}
