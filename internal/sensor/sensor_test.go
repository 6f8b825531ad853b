package sensor

import (
	"io"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	"locus.klederson.com/internal/locus"
)

// chanSink collects messages sent by a source.
type chanSink struct {
	ch chan tea.Msg
}

func newChanSink() *chanSink { return &chanSink{ch: make(chan tea.Msg, 64)} }

func (s *chanSink) Send(msg tea.Msg) { s.ch <- msg }

func (s *chanSink) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case msg := <-s.ch:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want locus.Sample
	}{
		{"12.5,-3.25", locus.Sample{Yaw: 12.5, Pitch: -3.25}},
		{"  359.9 , 0\r", locus.Sample{Yaw: 359.9, Pitch: 0}},
		{"180\t45\t2.0", locus.Sample{Yaw: 180, Pitch: 45}},
		{"$YPR,90.0,10.0,0.0", locus.Sample{Yaw: 90, Pitch: 10}},
		{"1;2", locus.Sample{Yaw: 1, Pitch: 2}},
	}
	for _, tt := range tests {
		got, err := ParseLine(tt.line)
		require.NoError(t, err, "line %q", tt.line)
		assert.Equal(t, tt.want, got, "line %q", tt.line)
	}
}

func TestParseLine_Errors(t *testing.T) {
	for _, line := range []string{"", "12", "abc,1", "1,xyz", "NaN,1", "1,+Inf", "$YPR"} {
		_, err := ParseLine(line)
		assert.ErrorIs(t, err, ErrBadSample, "line %q", line)
	}
}

func TestPortOptions_Normalize(t *testing.T) {
	got, err := PortOptions{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 115200, DataBits: 8, StopBits: 1, Parity: "N"}, got)

	got, err = PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "even"}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, PortOptions{BaudRate: 9600, DataBits: 7, StopBits: 2, Parity: "E"}, got)

	for _, bad := range []PortOptions{{DataBits: 9}, {StopBits: 3}, {Parity: "mark"}} {
		_, err := bad.Normalize()
		assert.Error(t, err, "%+v", bad)
	}
}

func TestPortOptions_SerialMode(t *testing.T) {
	mode, err := PortOptions{BaudRate: 57600, StopBits: 2, Parity: "O"}.SerialMode()
	require.NoError(t, err)
	assert.Equal(t, 57600, mode.BaudRate)
	assert.Equal(t, 8, mode.DataBits)
	assert.Equal(t, serial.TwoStopBits, mode.StopBits)
	assert.Equal(t, serial.OddParity, mode.Parity)

	_, err = PortOptions{Parity: "X"}.SerialMode()
	assert.Error(t, err)
}

// pipePort hands the read end of a pipe to the source.
type pipePort struct {
	mu   sync.Mutex
	path string
	mode *serial.Mode
	r    *io.PipeReader
}

func (p *pipePort) open(path string, mode *serial.Mode) (io.ReadCloser, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.path, p.mode = path, mode
	return p.r, nil
}

func TestSerialSource_ReadsLines(t *testing.T) {
	r, w := io.Pipe()
	port := &pipePort{r: r}
	src := NewSerialSource("/dev/ttyTEST", PortOptions{BaudRate: 9600})
	src.open = port.open

	sink := newChanSink()
	require.NoError(t, src.Start(sink))
	assert.Equal(t, "/dev/ttyTEST", port.path)
	assert.Equal(t, 9600, port.mode.BaudRate)

	go func() {
		_, _ = io.WriteString(w, "10.0,5.0\n")
		_, _ = io.WriteString(w, "garbage\n\n")
		_, _ = io.WriteString(w, "20.5,-4\n")
	}()

	msg := sink.next(t).(SampleMsg)
	assert.Equal(t, locus.Sample{Yaw: 10, Pitch: 5}, msg.Sample)
	assert.Equal(t, "serial:/dev/ttyTEST", msg.Source)

	msg = sink.next(t).(SampleMsg)
	assert.Equal(t, locus.Sample{Yaw: 20.5, Pitch: -4}, msg.Sample)

	src.Stop()
	src.Stop()
}

// blockingSink behaves like tea.Program: Send waits for the receiver.
type blockingSink struct {
	ch      chan tea.Msg
	entered chan struct{}
	once    sync.Once
}

func (s *blockingSink) Send(msg tea.Msg) {
	s.once.Do(func() { close(s.entered) })
	s.ch <- msg
}

func TestSerialSource_StopWhileSendBlocked(t *testing.T) {
	r, w := io.Pipe()
	src := NewSerialSource("/dev/ttyTEST", PortOptions{})
	src.open = (&pipePort{r: r}).open

	sink := &blockingSink{ch: make(chan tea.Msg), entered: make(chan struct{})}
	require.NoError(t, src.Start(sink))
	go func() { _, _ = io.WriteString(w, "10,5\n") }()

	select {
	case <-sink.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("reader never reached Send")
	}

	stopped := make(chan struct{})
	go func() {
		src.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while the reader was blocked in Send")
	}

	// Let the reader finish
	msg := <-sink.ch
	assert.IsType(t, SampleMsg{}, msg)
}

func TestSerialSource_ReportsEOF(t *testing.T) {
	r, w := io.Pipe()
	src := NewSerialSource("/dev/ttyTEST", PortOptions{})
	src.open = (&pipePort{r: r}).open

	sink := newChanSink()
	require.NoError(t, src.Start(sink))
	require.NoError(t, w.Close())

	msg, ok := sink.next(t).(SourceErrorMsg)
	require.True(t, ok)
	assert.ErrorIs(t, msg.Err, io.EOF)
	src.Stop()
}

func TestSerialSource_BadOptions(t *testing.T) {
	src := NewSerialSource("/dev/ttyTEST", PortOptions{DataBits: 12})
	assert.Error(t, src.Start(newChanSink()))
}

func TestMockSource_StaysInRange(t *testing.T) {
	src := NewMockSource(0)
	crossed := false
	prev := src.Next(0).Yaw
	for i := 0; i < 2000; i++ {
		s := src.Next(0.05)
		require.GreaterOrEqual(t, s.Yaw, 0.0)
		require.Less(t, s.Yaw, 360.0)
		require.GreaterOrEqual(t, s.Pitch, -180.0)
		require.Less(t, s.Pitch, 180.0)
		if prev-s.Yaw > 180 {
			crossed = true
		}
		prev = s.Yaw
	}
	assert.True(t, crossed, "yaw should wrap across 0/360")

	yaw, pitch := src.NativeRanges()
	assert.Equal(t, 360.0, *yaw.Max)
	assert.Equal(t, -180.0, *pitch.Min)
}

func TestMockSource_Emits(t *testing.T) {
	src := NewMockSource(5 * time.Millisecond)
	sink := newChanSink()
	require.NoError(t, src.Start(sink))
	defer src.Stop()

	msg, ok := sink.next(t).(SampleMsg)
	require.True(t, ok)
	assert.Equal(t, "demo", msg.Source)
}

func TestRateMeter(t *testing.T) {
	m := NewRateMeter()
	t0 := time.Unix(1000, 0)

	m.Observe(t0)
	assert.Equal(t, 0.0, m.Rate())

	m.Observe(t0.Add(100 * time.Millisecond))
	assert.InDelta(t, 10, m.Rate(), 1e-9)

	m.Observe(t0.Add(150 * time.Millisecond)) // 20 Hz instantaneous
	assert.InDelta(t, 10*0.7+20*0.3, m.Rate(), 1e-9)
	assert.Equal(t, 3, m.Count())

	assert.False(t, m.Evict(t0.Add(time.Second), 2*time.Second))
	assert.True(t, m.Evict(t0.Add(5*time.Second), 2*time.Second))
	assert.Equal(t, 0.0, m.Rate())
	assert.True(t, m.LastSeen().IsZero())
}
