package app

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locus.klederson.com/internal/locus"
	"locus.klederson.com/internal/sensor"
)

type fakeSource struct {
	name     string
	startErr error
	started  bool
	stopped  int
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Start(sensor.Sink) error {
	if s.startErr != nil {
		return s.startErr
	}
	s.started = true
	return nil
}

func (s *fakeSource) Stop() { s.stopped++ }

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(AppModel)
	require.True(t, ok)
	return model, cmd
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sampleMsg(yaw, pitch float64, at time.Time) sensor.SampleMsg {
	return sensor.SampleMsg{Sample: locus.Sample{Yaw: yaw, Pitch: pitch}, Source: "test", At: at}
}

func sizedModel(t *testing.T) AppModel {
	t.Helper()
	m := New(locus.DefaultConfig())
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	return m
}

func TestWindowSizeInitializesSession(t *testing.T) {
	m := New(locus.DefaultConfig())
	assert.False(t, m.Session().Initialized())
	assert.Contains(t, m.View(), "Initializing")

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	require.True(t, m.Session().Initialized())

	// 98 columns by 36 rows of 8x16 pixel cells, canvas at 65% height
	canvas := m.Session().Canvas()
	assert.Equal(t, 784.0, canvas.Width)
	assert.InDelta(t, 374.4, canvas.Height, 1e-9)

	cols, rows := m.shared.canvas.Dimensions()
	assert.Equal(t, 98, cols)
	assert.Equal(t, 23, rows)
}

func TestResizeKeepsTrail(t *testing.T) {
	m := sizedModel(t)
	now := time.Now()
	m, _ = update(t, m, sampleMsg(10, 0, now))
	m, _ = update(t, m, sampleMsg(20, 5, now.Add(50*time.Millisecond)))
	before := m.Session().Readout()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 60, Height: 30})
	after := m.Session().Readout()

	assert.Equal(t, before.Samples, after.Samples)
	assert.Equal(t, before.TrailLen, after.TrailLen)
	assert.Equal(t, 464.0, m.Session().Canvas().Width)
}

func TestSamplesBeforeInitAreDropped(t *testing.T) {
	m := New(locus.DefaultConfig())
	m, _ = update(t, m, sampleMsg(10, 0, time.Now()))

	assert.Equal(t, 0, m.shared.rate.Count())
	assert.Equal(t, 0, m.shared.history.Len())
}

func TestSamplesFeedSession(t *testing.T) {
	m := sizedModel(t)
	now := time.Now()
	for i := 0; i < 5; i++ {
		m, _ = update(t, m, sampleMsg(float64(i*10), 0, now.Add(time.Duration(i)*50*time.Millisecond)))
	}

	r := m.Session().Readout()
	assert.Equal(t, 5, r.Samples)
	assert.Equal(t, 15, r.TrailLen)
	assert.Equal(t, 5, m.shared.history.Len())
	last, ok := m.shared.history.Last()
	require.True(t, ok)
	assert.Equal(t, r.RunningYaw, last)
	assert.InDelta(t, 20.0, m.shared.rate.Rate(), 1e-6)
}

func TestPauseIgnoresSamples(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, sampleMsg(10, 0, time.Now()))
	assert.Equal(t, 0, m.Session().Readout().Samples)
	assert.Contains(t, m.View(), "PAUSED")

	m, _ = update(t, m, key("p"))
	m, _ = update(t, m, sampleMsg(10, 0, time.Now()))
	assert.Equal(t, 1, m.Session().Readout().Samples)
}

func TestKeysToggleSessionSettings(t *testing.T) {
	m := sizedModel(t)
	require.True(t, m.Session().Config().SensorForward)
	require.Equal(t, locus.CadenceSample, m.Session().Config().Cadence)

	m, _ = update(t, m, key("f"))
	assert.False(t, m.Session().Config().SensorForward)
	m, _ = update(t, m, key("c"))
	assert.Equal(t, locus.CadenceFrame, m.Session().Config().Cadence)
	m, _ = update(t, m, key("c"))
	assert.Equal(t, locus.CadenceSample, m.Session().Config().Cadence)
}

func TestResetClearsState(t *testing.T) {
	m := sizedModel(t)
	m, _ = update(t, m, sampleMsg(10, 0, time.Now()))
	m, _ = update(t, m, sensor.SourceErrorMsg{Source: "serial:/dev/null", Err: errors.New("boom")})
	assert.Contains(t, m.lastErr, "boom")

	m, _ = update(t, m, key("r"))
	assert.Equal(t, 0, m.Session().Readout().Samples)
	assert.Equal(t, 0, m.shared.history.Len())
	assert.Empty(t, m.lastErr)
}

func TestTickDrawsCanvas(t *testing.T) {
	m := sizedModel(t)
	now := time.Now()
	m, _ = update(t, m, sampleMsg(10, 0, now))
	m, _ = update(t, m, sampleMsg(40, 20, now.Add(50*time.Millisecond)))

	m, cmd := update(t, m, TickMsg(now))
	assert.NotNil(t, cmd)
	assert.NotEmpty(t, m.shared.canvas.String())

	view := m.View()
	assert.Contains(t, view, "LOCUS")
	assert.Contains(t, view, "Samples: 2")
}

func TestEvictZeroesStaleRate(t *testing.T) {
	m := sizedModel(t)
	now := time.Now()
	m, _ = update(t, m, sampleMsg(10, 0, now))
	m, _ = update(t, m, sampleMsg(20, 0, now.Add(100*time.Millisecond)))
	require.Greater(t, m.shared.rate.Rate(), 0.0)

	m, _ = update(t, m, EvictMsg(now.Add(time.Second)))
	assert.Greater(t, m.shared.rate.Rate(), 0.0)

	assert.NotContains(t, m.View(), "NO SIGNAL")

	m, _ = update(t, m, EvictMsg(now.Add(5*time.Second)))
	assert.Equal(t, 0.0, m.shared.rate.Rate())
	assert.Contains(t, m.View(), "NO SIGNAL")

	// A fresh sample clears it
	m, _ = update(t, m, sampleMsg(30, 0, now.Add(6*time.Second)))
	assert.NotContains(t, m.View(), "NO SIGNAL")
}

func TestQuitLeavesSourcesToCaller(t *testing.T) {
	src := &fakeSource{name: "fake"}
	m := New(locus.DefaultConfig(), src)
	require.NoError(t, m.Start(nil))
	assert.True(t, src.started)

	// Stopping from the event loop could block on a source stuck in Send
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, src.stopped)

	m.Stop()
	assert.Equal(t, 1, src.stopped)
}

func TestStartFailureStopsStartedSources(t *testing.T) {
	first := &fakeSource{name: "first"}
	second := &fakeSource{name: "second", startErr: errors.New("no port")}
	m := New(locus.DefaultConfig(), first, second)

	err := m.Start(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second")
	assert.Equal(t, 1, first.stopped)
	assert.Equal(t, 0, second.stopped)
	assert.Equal(t, "first,second", m.source)
}
