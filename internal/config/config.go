package config

import "time"

const (
	// Crosshair and trail
	CrosshairDefaultSize = 800.0 // Crosshair diameter in canvas pixels
	TrailCapacity        = 150   // Max interpolated points kept in the trail
	InterpolationSteps   = 3     // Points pushed per ingested coordinate

	// Easing factors (fraction of remaining distance closed per step)
	EasingSize        = 0.1
	EasingCameraSpeed = 0.03
	EasingPosition    = 0.05

	// Coordinate mapping
	WorldScale        = 5.0  // Virtual world is this many canvases wide/tall
	CanvasHeightRatio = 0.65 // Canvas height as a fraction of the viewport

	// Rendering
	DotRadius          = 5.0
	DotColor           = "#C1272E"
	DotAlpha           = 0.5
	BaseCrosshairAlpha = 0.03
	CrosshairAlpha     = 0.08
	CellWidth          = 8.0  // Pixels per terminal column
	CellHeight         = 16.0 // Pixels per terminal row
	TargetFPS          = 30

	// Sensor ingest
	MockInterval   = 50 * time.Millisecond  // Demo sample period (20 Hz)
	SmoothingAlpha = 0.3                    // EMA factor for the sample rate meter
	HistoryLen     = 240                    // Yaw samples kept for the sparkline
	StaleTimeout   = 2 * time.Second        // Rate drops to zero after this long without samples
	EvictInterval  = 500 * time.Millisecond // How often the rate meter is checked for staleness
	DefaultBaud    = 115200

	// App
	AppName    = "LOCUS"
	AppVersion = "1.0"
)
