package source

import (
	"context"
	"math/rand"
	"sync"

	"vigil/internal/telemetry"
)

// Simulator generates plausible vehicle telemetry for local development
// and demos. All simulation state is per instance and guarded by a
// mutex, so multiple monitors backed by separate simulators never
// interfere and remain independently testable.
//
// Dynamics: speed random-walks between 0 and 140 km/h with occasional
// direction flips; battery state of charge declines slowly; tire
// pressure drifts around nominal with a rare sudden-drop event; brake
// pad wear declines very slowly.
type Simulator struct {
	mu  sync.Mutex
	rng *rand.Rand
	idx int // round-robin position in the channel order

	speed     int64
	soc       int64
	pressure  int64
	brakeWear int64
	speedDir  int64 // +1 accelerating, -1 decelerating
}

// NewSimulator creates a simulator with the given seed. The same seed
// yields the same reading sequence.
func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rng:       rand.New(rand.NewSource(seed)),
		speed:     80,
		soc:       95,
		pressure:  32,
		brakeWear: 100,
		speedDir:  1,
	}
}

// Read returns the next reading, cycling through the channels in
// priority order, one channel per call.
func (s *Simulator) Read(ctx context.Context) (telemetry.Reading, error) {
	if err := ctx.Err(); err != nil {
		return telemetry.Reading{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	channels := telemetry.Channels()
	ch := channels[s.idx]
	s.idx = (s.idx + 1) % len(channels)

	var value int64
	switch ch {
	case telemetry.ChannelSpeed:
		value = s.stepSpeed()
	case telemetry.ChannelBatterySoC:
		value = s.stepBattery()
	case telemetry.ChannelTirePressure:
		value = s.stepPressure()
	case telemetry.ChannelBrakeWear:
		value = s.stepBrakeWear()
	}

	return telemetry.Reading{Channel: ch, Value: value}, nil
}

func (s *Simulator) stepSpeed() int64 {
	// Occasionally flip between accelerating and decelerating.
	if s.rng.Intn(10) == 0 {
		s.speedDir = -s.speedDir
	}
	s.speed += s.speedDir * s.rng.Int63n(8)
	if s.speed < 0 {
		s.speed = 0
		s.speedDir = 1
	}
	if s.speed > 140 {
		s.speed = 140
		s.speedDir = -1
	}
	return s.speed
}

func (s *Simulator) stepBattery() int64 {
	// Slow gradual decline with occasional rapid drops.
	if s.rng.Intn(20) == 0 {
		s.soc -= s.rng.Int63n(5)
	} else if s.rng.Intn(3) == 0 {
		s.soc--
	}
	if s.soc < 0 {
		s.soc = 0
	}
	return s.soc
}

func (s *Simulator) stepPressure() int64 {
	// Drift around nominal; rare sudden-drop event.
	if s.rng.Intn(50) == 0 {
		s.pressure -= 5 + s.rng.Int63n(4)
	} else {
		s.pressure += s.rng.Int63n(3) - 1
	}
	if s.pressure < 0 {
		s.pressure = 0
	}
	if s.pressure > 45 {
		s.pressure = 45
	}
	return s.pressure
}

func (s *Simulator) stepBrakeWear() int64 {
	if s.rng.Intn(30) == 0 && s.brakeWear > 0 {
		s.brakeWear--
	}
	return s.brakeWear
}
