package sensor

import (
	"context"
	"math"
	"math/rand"
	"time"

	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
)

// MockSource generates a synthetic head-tracking stream for demo mode:
// a yaw that drifts around the full circle (crossing the 0/360 seam)
// and a pitch that nods, both with sensor noise.
type MockSource struct {
	sink     Sink
	cancel   context.CancelFunc
	interval time.Duration
	rng      *rand.Rand

	yawBase  float64
	yawRate  float64 // degrees per second
	pitchAmp float64
	phase    float64
	noise    float64
	t        float64
}

// NewMockSource creates a mock source with randomized motion.
func NewMockSource(interval time.Duration) *MockSource {
	if interval <= 0 {
		interval = config.MockInterval
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &MockSource{
		interval: interval,
		rng:      rng,
		yawBase:  rng.Float64() * 360,
		yawRate:  15 + rng.Float64()*25, // 15-40 deg/s
		pitchAmp: 10 + rng.Float64()*20, // 10-30 deg
		phase:    rng.Float64() * 2 * math.Pi,
		noise:    0.4,
	}
}

// Name implements Source.
func (s *MockSource) Name() string { return "demo" }

// NativeRanges implements Ranger.
func (s *MockSource) NativeRanges() (yaw, pitch config.Range) { return DegreeRanges() }

// Start begins emitting samples.
func (s *MockSource) Start(sink Sink) error {
	s.sink = sink

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.loop(ctx)
	return nil
}

func (s *MockSource) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	dt := s.interval.Seconds()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.t += dt
			s.emit(now)
		}
	}
}

// Next advances the synthetic motion by dt seconds and returns the sample.
func (s *MockSource) Next(dt float64) locus.Sample {
	s.t += dt
	return s.sample()
}

func (s *MockSource) sample() locus.Sample {
	// Yaw sweeps with a slow back-and-forth on top of the drift
	yaw := s.yawBase + s.yawRate*s.t + 25*math.Sin(s.t*0.4+s.phase)
	yaw += (s.rng.Float64() - 0.5) * s.noise
	yaw = math.Mod(yaw, 360)
	if yaw < 0 {
		yaw += 360
	}

	pitch := s.pitchAmp*math.Sin(s.t*0.9+s.phase) + (s.rng.Float64()-0.5)*s.noise
	return locus.Sample{Yaw: yaw, Pitch: pitch}
}

func (s *MockSource) emit(now time.Time) {
	if s.sink == nil {
		return
	}
	s.sink.Send(SampleMsg{Sample: s.sample(), Source: s.Name(), At: now})
}

// Stop halts the mock source.
func (s *MockSource) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}
