package sensor

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
)

// SampleMsg is sent via the Sink when a source reads a sample.
type SampleMsg struct {
	Sample locus.Sample
	Source string
	At     time.Time
}

// SourceErrorMsg reports a source failure. The source has stopped.
type SourceErrorMsg struct {
	Source string
	Err    error
}

// Sink receives messages from sources. *tea.Program satisfies it.
type Sink interface {
	Send(msg tea.Msg)
}

// Source produces samples in its own goroutine until stopped.
type Source interface {
	Name() string
	Start(sink Sink) error
	Stop()
}

// Ranger is implemented by sources whose angle units are fixed, so the
// host can fill in unset ranges.
type Ranger interface {
	NativeRanges() (yaw, pitch config.Range)
}

func ptrFloat64(v float64) *float64 { return &v }

// DegreeRanges are the ranges of a compass-style sensor: yaw in
// [0, 360), pitch in [-180, 180).
func DegreeRanges() (yaw, pitch config.Range) {
	return config.Range{Min: ptrFloat64(0), Max: ptrFloat64(360)},
		config.Range{Min: ptrFloat64(-180), Max: ptrFloat64(180)}
}
