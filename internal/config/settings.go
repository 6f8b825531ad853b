package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrInvalidSettings is wrapped by every validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

// Range is an optional angle range. Nil bounds fall back to defaults
// chosen by the session (0 for Min, canvas width/height for Max).
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Easing holds the per-step easing factors.
type Easing struct {
	Size        *float64 `json:"size,omitempty"`
	CameraSpeed *float64 `json:"camera_speed,omitempty"`
	Position    *float64 `json:"position,omitempty"`
}

// Settings is the runtime configuration read from a JSON file.
// Every field is optional; omitted fields keep the compiled defaults.
type Settings struct {
	CrosshairDefaultSize *float64 `json:"crosshair_default_size,omitempty"`
	TrailCapacity        *int     `json:"trail_capacity,omitempty"`
	Easing               Easing   `json:"easing"`
	YawRange             Range    `json:"yaw_range"`
	PitchRange           Range    `json:"pitch_range"`
	SensorForward        *bool    `json:"sensor_forward,omitempty"`
	CameraPerFrame       *bool    `json:"camera_per_frame,omitempty"`

	// Sensor sources
	SerialPort *string `json:"serial_port,omitempty"`
	BaudRate   *int    `json:"baud_rate,omitempty"`
	ListenAddr *string `json:"listen_addr,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrBool(v bool) *bool          { return &v }

// DefaultSettings returns settings populated with the compiled defaults.
// Ranges are left unset so the session derives them from the canvas.
func DefaultSettings() *Settings {
	return &Settings{
		CrosshairDefaultSize: ptrFloat64(CrosshairDefaultSize),
		TrailCapacity:        ptrInt(TrailCapacity),
		Easing: Easing{
			Size:        ptrFloat64(EasingSize),
			CameraSpeed: ptrFloat64(EasingCameraSpeed),
			Position:    ptrFloat64(EasingPosition),
		},
		SensorForward:  ptrBool(true),
		CameraPerFrame: ptrBool(false),
		BaudRate:       ptrInt(DefaultBaud),
	}
}

// LoadSettings reads a JSON settings file on top of DefaultSettings.
// Partial files are fine; unknown keys are rejected.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("settings file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat settings file: %w", err)
	}
	const maxFileSize = 64 * 1024
	if info.Size() > maxFileSize {
		return nil, fmt.Errorf("settings file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	s := DefaultSettings()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(s); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the configured values are usable.
func (s *Settings) Validate() error {
	if s.CrosshairDefaultSize != nil && *s.CrosshairDefaultSize <= 0 {
		return fmt.Errorf("%w: crosshair_default_size must be positive, got %v", ErrInvalidSettings, *s.CrosshairDefaultSize)
	}
	if s.TrailCapacity != nil && *s.TrailCapacity < InterpolationSteps {
		return fmt.Errorf("%w: trail_capacity must be at least %d, got %d", ErrInvalidSettings, InterpolationSteps, *s.TrailCapacity)
	}
	for name, f := range map[string]*float64{
		"easing.size":         s.Easing.Size,
		"easing.camera_speed": s.Easing.CameraSpeed,
		"easing.position":     s.Easing.Position,
	} {
		if f != nil && (*f <= 0 || *f > 1) {
			return fmt.Errorf("%w: %s must be in (0, 1], got %v", ErrInvalidSettings, name, *f)
		}
	}
	if err := s.YawRange.validate("yaw_range"); err != nil {
		return err
	}
	if err := s.PitchRange.validate("pitch_range"); err != nil {
		return err
	}
	if s.BaudRate != nil && *s.BaudRate <= 0 {
		return fmt.Errorf("%w: baud_rate must be positive, got %d", ErrInvalidSettings, *s.BaudRate)
	}
	return nil
}

// Only fully specified ranges can be checked here; a missing max
// depends on the canvas size.
func (r Range) validate(name string) error {
	if r.Min != nil && r.Max != nil && *r.Max <= *r.Min {
		return fmt.Errorf("%w: %s max (%v) must exceed min (%v)", ErrInvalidSettings, name, *r.Max, *r.Min)
	}
	return nil
}

// Getters return the configured value or the compiled default.

func (s *Settings) GetCrosshairDefaultSize() float64 {
	if s.CrosshairDefaultSize == nil {
		return CrosshairDefaultSize
	}
	return *s.CrosshairDefaultSize
}

func (s *Settings) GetTrailCapacity() int {
	if s.TrailCapacity == nil {
		return TrailCapacity
	}
	return *s.TrailCapacity
}

func (s *Settings) GetEasingSize() float64 {
	if s.Easing.Size == nil {
		return EasingSize
	}
	return *s.Easing.Size
}

func (s *Settings) GetEasingCameraSpeed() float64 {
	if s.Easing.CameraSpeed == nil {
		return EasingCameraSpeed
	}
	return *s.Easing.CameraSpeed
}

func (s *Settings) GetEasingPosition() float64 {
	if s.Easing.Position == nil {
		return EasingPosition
	}
	return *s.Easing.Position
}

func (s *Settings) GetSensorForward() bool {
	if s.SensorForward == nil {
		return true
	}
	return *s.SensorForward
}

func (s *Settings) GetCameraPerFrame() bool {
	return s.CameraPerFrame != nil && *s.CameraPerFrame
}

func (s *Settings) GetSerialPort() string {
	if s.SerialPort == nil {
		return ""
	}
	return *s.SerialPort
}

func (s *Settings) GetBaudRate() int {
	if s.BaudRate == nil {
		return DefaultBaud
	}
	return *s.BaudRate
}

func (s *Settings) GetListenAddr() string {
	if s.ListenAddr == nil {
		return ""
	}
	return *s.ListenAddr
}

// SetSensorForward, SetCameraPerFrame, SetSerialPort, SetBaudRate and
// SetListenAddr apply command-line overrides.

func (s *Settings) SetSensorForward(v bool)  { s.SensorForward = ptrBool(v) }
func (s *Settings) SetCameraPerFrame(v bool) { s.CameraPerFrame = ptrBool(v) }
func (s *Settings) SetSerialPort(v string)   { s.SerialPort = &v }
func (s *Settings) SetBaudRate(v int)        { s.BaudRate = ptrInt(v) }
func (s *Settings) SetListenAddr(v string)   { s.ListenAddr = &v }
