package sensor

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"locus.klederson.com/internal/config"
)

// PortOptions describes the serial connection used by an IMU bridge.
type PortOptions struct {
	BaudRate int    `json:"baud_rate"`
	DataBits int    `json:"data_bits"`
	StopBits int    `json:"stop_bits"`
	Parity   string `json:"parity"`
}

// Normalize validates the options and applies defaults for unset values.
func (o PortOptions) Normalize() (PortOptions, error) {
	opts := o

	if opts.BaudRate <= 0 {
		opts.BaudRate = config.DefaultBaud
	}

	if opts.DataBits == 0 {
		opts.DataBits = 8
	}
	if opts.DataBits < 5 || opts.DataBits > 8 {
		return opts, fmt.Errorf("invalid data bits %d: must be between 5 and 8", opts.DataBits)
	}

	if opts.StopBits == 0 {
		opts.StopBits = 1
	}
	if opts.StopBits != 1 && opts.StopBits != 2 {
		return opts, fmt.Errorf("invalid stop bits %d: supported values are 1 or 2", opts.StopBits)
	}

	parity := strings.TrimSpace(strings.ToUpper(opts.Parity))
	switch parity {
	case "", "N", "NONE":
		parity = "N"
	case "E", "EVEN":
		parity = "E"
	case "O", "ODD":
		parity = "O"
	default:
		return opts, fmt.Errorf("unsupported parity %q: expected N, E, or O", opts.Parity)
	}

	opts.Parity = parity
	return opts, nil
}

// SerialMode converts the options into the go.bug.st/serial mode.
func (o PortOptions) SerialMode() (*serial.Mode, error) {
	opts, err := o.Normalize()
	if err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
	}

	switch opts.StopBits {
	case 2:
		mode.StopBits = serial.TwoStopBits
	default:
		mode.StopBits = serial.OneStopBit
	}

	switch opts.Parity {
	case "E":
		mode.Parity = serial.EvenParity
	case "O":
		mode.Parity = serial.OddParity
	default:
		mode.Parity = serial.NoParity
	}

	return mode, nil
}

// PortOpener opens a serial port. Tests replace it with a pipe.
type PortOpener func(path string, mode *serial.Mode) (io.ReadCloser, error)

func openSerialPort(path string, mode *serial.Mode) (io.ReadCloser, error) {
	return serial.Open(path, mode)
}

// stopWait bounds how long Stop waits for the reader. The reader can be
// parked in Sink.Send, which only returns once the host drains it.
const stopWait = 250 * time.Millisecond

// SerialSource reads "yaw,pitch" lines from a serial IMU bridge.
type SerialSource struct {
	path string
	opts PortOptions
	open PortOpener
	log  *logrus.Entry

	mu     sync.Mutex
	port   io.ReadCloser
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSerialSource creates a source for the port at path.
func NewSerialSource(path string, opts PortOptions) *SerialSource {
	return &SerialSource{
		path: path,
		opts: opts,
		open: openSerialPort,
		log:  logrus.WithFields(logrus.Fields{"source": "serial", "port": path}),
	}
}

// Name implements Source.
func (s *SerialSource) Name() string { return "serial:" + s.path }

// NativeRanges implements Ranger. IMU bridges report degrees.
func (s *SerialSource) NativeRanges() (yaw, pitch config.Range) { return DegreeRanges() }

// Start opens the port and begins reading in a goroutine.
func (s *SerialSource) Start(sink Sink) error {
	mode, err := s.opts.SerialMode()
	if err != nil {
		return fmt.Errorf("serial options: %w", err)
	}

	port, err := s.open(s.path, mode)
	if err != nil {
		return fmt.Errorf("failed to open serial port %s: %w", s.path, err)
	}
	s.log.WithField("baud", mode.BaudRate).Info("serial port opened")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.mu.Lock()
	s.port = port
	s.cancel = cancel
	s.done = done
	s.mu.Unlock()

	go s.loop(ctx, port, sink, done)
	return nil
}

func (s *SerialSource) loop(ctx context.Context, port io.Reader, sink Sink, done chan struct{}) {
	defer close(done)

	scan := bufio.NewScanner(port)
	bad := 0
	for scan.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := scan.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sample, err := ParseLine(line)
		if err != nil {
			bad++
			s.log.WithError(err).WithField("bad_lines", bad).Debug("skipping line")
			continue
		}
		sink.Send(SampleMsg{Sample: sample, Source: s.Name(), At: time.Now()})
	}

	if ctx.Err() != nil {
		return
	}
	err := scan.Err()
	if err == nil {
		err = io.EOF
	}
	if errors.Is(err, io.ErrClosedPipe) || errors.Is(err, io.EOF) {
		s.log.Info("serial port closed")
	} else {
		s.log.WithError(err).Error("serial read failed")
	}
	sink.Send(SourceErrorMsg{Source: s.Name(), Err: fmt.Errorf("serial %s: %w", s.path, err)})
}

// Stop closes the port and waits briefly for the reader to exit.
func (s *SerialSource) Stop() {
	s.mu.Lock()
	port, cancel, done := s.port, s.cancel, s.done
	s.port, s.cancel, s.done = nil, nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if port != nil {
		if err := port.Close(); err != nil {
			s.log.WithError(err).Warn("closing serial port")
		}
	}
	if done == nil {
		return
	}
	select {
	case <-done:
	case <-time.After(stopWait):
		s.log.Warn("serial reader still busy after stop")
	}
}
