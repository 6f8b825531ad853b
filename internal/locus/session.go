package locus

import (
	"errors"
	"math"

	"locus.klederson.com/internal/config"
)

// ErrNotInitialized is returned when samples arrive before Init.
var ErrNotInitialized = errors.New("locus: session not initialized")

// Sample is one yaw/pitch reading from the sensor.
type Sample struct {
	Yaw   float64 `json:"yaw"`
	Pitch float64 `json:"pitch"`
}

// Options are the angle bounds. Unset bounds fall back to 0 (min) and
// the canvas width/height (max).
type Options struct {
	YawRange   config.Range
	PitchRange config.Range
}

// Config is fixed at Init; SetOption, SetSensorForward and SetCadence
// are the only ways to change it afterwards.
type Config struct {
	CrosshairDefaultSize float64
	TrailCapacity        int
	Easing               Easing
	SensorForward        bool // false inverts the pitch direction
	Cadence              CameraCadence
	WorldScale           float64
	Options              Options
}

// DefaultConfig returns the compiled defaults.
func DefaultConfig() Config {
	return Config{
		CrosshairDefaultSize: config.CrosshairDefaultSize,
		TrailCapacity:        config.TrailCapacity,
		Easing: Easing{
			Size:        config.EasingSize,
			CameraSpeed: config.EasingCameraSpeed,
			Position:    config.EasingPosition,
		},
		SensorForward: true,
		Cadence:       CadenceSample,
		WorldScale:    DefaultWorldScale,
	}
}

// ConfigFromSettings builds a Config from loaded settings.
func ConfigFromSettings(s *config.Settings) Config {
	cfg := DefaultConfig()
	cfg.CrosshairDefaultSize = s.GetCrosshairDefaultSize()
	cfg.TrailCapacity = s.GetTrailCapacity()
	cfg.Easing = Easing{
		Size:        s.GetEasingSize(),
		CameraSpeed: s.GetEasingCameraSpeed(),
		Position:    s.GetEasingPosition(),
	}
	cfg.SensorForward = s.GetSensorForward()
	if s.GetCameraPerFrame() {
		cfg.Cadence = CadenceFrame
	}
	cfg.Options = Options{YawRange: s.YawRange, PitchRange: s.PitchRange}
	return cfg
}

// Frame is a read-only snapshot of everything a renderer needs.
type Frame struct {
	Canvas      Size
	Center      Point
	Camera      Point
	Trail       []Point // world space, oldest first
	Crosshair   CrosshairState
	DefaultSize float64
}

// Readout exposes the numeric state behind the current frame.
type Readout struct {
	Seeded       bool // false until the first sample
	Raw          Sample
	RunningYaw   float64
	RunningPitch float64
	Coordinate   Point
	Samples      int
	TrailLen     int
	TrailCap     int
	Cadence      CameraCadence
	Forward      bool
}

// Session owns all state for one crosshair. It is not safe for
// concurrent use; the host serializes UpdateLiveCoordinates and Step.
type Session struct {
	cfg         Config
	initialized bool

	viewport   Size
	canvas     Size
	center     Point
	yawRange   Range
	pitchRange Range

	yaw   AngleTracker
	pitch AngleTracker

	trail     *Trail
	camera    Camera
	crosshair Crosshair

	last      Point // last mapped coordinate
	hasTarget bool
	raw       Sample
	samples   int
}

// NewSession returns an uninitialized session.
func NewSession() *Session {
	return &Session{}
}

// Init configures the session for a viewport and returns the canvas
// size: full viewport width, CanvasHeightRatio of its height.
func (s *Session) Init(cfg Config, viewport Size) Size {
	if cfg.WorldScale == 0 {
		cfg.WorldScale = DefaultWorldScale
	}
	s.cfg = cfg
	s.trail = NewTrail(cfg.TrailCapacity)
	s.yaw.Reset()
	s.pitch.Reset()
	s.camera = Camera{}
	s.last = Point{}
	s.hasTarget = false
	s.raw = Sample{}
	s.samples = 0

	s.setCanvas(viewport)
	s.crosshair.Place(s.center, cfg.CrosshairDefaultSize)
	s.initialized = true
	return s.canvas
}

// Resize recomputes the canvas for a new viewport. Trackers are kept;
// ranges that default to the canvas size follow it. The trail, camera and
// last coordinate are rescaled per axis into the new world so the next
// sample continues from where the old one left off.
func (s *Session) Resize(viewport Size) Size {
	oldCanvas, oldCenter := s.canvas, s.center
	oldYaw, oldPitch := s.yawRange, s.pitchRange
	s.setCanvas(viewport)
	if !s.initialized {
		return s.canvas
	}

	fx := axisRescale(oldCanvas.Width, oldYaw, s.canvas.Width, s.yawRange)
	fy := axisRescale(oldCanvas.Height, oldPitch, s.canvas.Height, s.pitchRange)
	s.rescale(fx, fy, oldCenter)
	return s.canvas
}

// axisRescale is the ratio of new to old world pixels per angle unit on
// one axis, or 1 when either side is degenerate.
func axisRescale(oldExtent float64, oldRange Range, newExtent float64, newRange Range) float64 {
	if oldExtent == 0 || oldRange.Span() == 0 || newRange.Span() == 0 {
		return 1
	}
	f := (newExtent / newRange.Span()) / (oldExtent / oldRange.Span())
	if f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	return f
}

// rescale moves world state by (fx, fy) and screen state so that it
// keeps its scaled offset from the canvas center.
func (s *Session) rescale(fx, fy float64, oldCenter Point) {
	world := func(p Point) Point { return Point{p.X * fx, p.Y * fy} }
	screen := func(p Point) Point { return world(p.Sub(oldCenter)).Add(s.center) }

	s.trail.Transform(world)
	s.last = world(s.last)
	if s.hasTarget {
		// Screen = world - camera, so the camera scales around the old center
		s.camera.Pos = world(s.camera.Pos.Add(oldCenter)).Sub(s.center)
	}
	s.crosshair.State.Current = screen(s.crosshair.State.Current)
	s.crosshair.State.Target = screen(s.crosshair.State.Target)
}

func (s *Session) setCanvas(viewport Size) {
	s.viewport = viewport
	s.canvas = Size{Width: viewport.Width, Height: viewport.Height * config.CanvasHeightRatio}
	s.center = s.canvas.Center()
	s.SetOption(s.cfg.Options)
}

// SetOption updates the yaw/pitch bounds.
func (s *Session) SetOption(opt Options) {
	s.cfg.Options = opt
	s.yawRange = resolveRange(opt.YawRange, s.canvas.Width)
	s.pitchRange = resolveRange(opt.PitchRange, s.canvas.Height)
}

func resolveRange(r config.Range, defaultMax float64) Range {
	out := Range{Min: 0, Max: defaultMax}
	if r.Min != nil {
		out.Min = *r.Min
	}
	if r.Max != nil {
		out.Max = *r.Max
	}
	return out
}

// SetSensorForward flips the pitch mounting orientation.
func (s *Session) SetSensorForward(forward bool) { s.cfg.SensorForward = forward }

// SetCadence selects what drives camera easing.
func (s *Session) SetCadence(c CameraCadence) { s.cfg.Cadence = c }

// Initialized reports whether Init has run.
func (s *Session) Initialized() bool { return s.initialized }

// Config returns the active configuration.
func (s *Session) Config() Config { return s.cfg }

// Canvas returns the canvas size.
func (s *Session) Canvas() Size { return s.canvas }

// Ranges returns the resolved yaw and pitch ranges.
func (s *Session) Ranges() (yaw, pitch Range) { return s.yawRange, s.pitchRange }

// UpdateLiveCoordinates ingests one sensor sample: both axes are
// unwrapped, mapped into world space, interpolated into the trail, and
// (with sample cadence) the camera is eased toward the new coordinate.
func (s *Session) UpdateLiveCoordinates(sample Sample) error {
	if !s.initialized {
		return ErrNotInitialized
	}

	yaw, _ := s.yaw.Unwrap(sample.Yaw, s.yawRange, true)
	pitch, _ := s.pitch.Unwrap(sample.Pitch, s.pitchRange, s.cfg.SensorForward)
	coord := MapCoordinate(yaw, pitch, s.yawRange, s.pitchRange, s.canvas, s.cfg.WorldScale)

	s.trail.Extend(s.last, coord)
	if s.cfg.Cadence == CadenceSample {
		s.camera.Update(coord, s.center, s.cfg.Easing.CameraSpeed)
	}

	s.last = coord
	s.hasTarget = true
	s.raw = sample
	s.samples++
	return nil
}

// Step advances the animation by one render tick.
func (s *Session) Step() {
	if !s.initialized {
		return
	}
	if s.cfg.Cadence == CadenceFrame && s.hasTarget {
		s.camera.Update(s.last, s.center, s.cfg.Easing.CameraSpeed)
	}
	latest, ok := s.trail.Latest()
	s.crosshair.Step(latest, ok, s.center, &s.camera, s.canvas, s.cfg.CrosshairDefaultSize, s.cfg.Easing)
}

// Frame snapshots the state for drawing.
func (s *Session) Frame() Frame {
	f := Frame{
		Canvas:      s.canvas,
		Center:      s.center,
		Camera:      s.camera.Pos,
		Crosshair:   s.crosshair.State,
		DefaultSize: s.cfg.CrosshairDefaultSize,
	}
	if s.trail != nil {
		f.Trail = s.trail.All()
	}
	return f
}

// Readout reports the numeric state for display.
func (s *Session) Readout() Readout {
	r := Readout{
		Seeded:       s.yaw.Seeded() && s.pitch.Seeded(),
		Raw:          s.raw,
		RunningYaw:   s.yaw.Running(),
		RunningPitch: s.pitch.Running(),
		Coordinate:   s.last,
		Samples:      s.samples,
		Cadence:      s.cfg.Cadence,
		Forward:      s.cfg.SensorForward,
	}
	if s.trail != nil {
		r.TrailLen = s.trail.Len()
		r.TrailCap = s.trail.Cap()
	}
	return r
}

// Reset clears trackers, trail, camera and crosshair but keeps the
// configuration and canvas.
func (s *Session) Reset() {
	if !s.initialized {
		return
	}
	s.Init(s.cfg, s.viewport)
}
