package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"locus.klederson.com/internal/app"
	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
	"locus.klederson.com/internal/sensor"
)

var (
	flagDemo           bool
	flagSerial         string
	flagBaud           int
	flagListen         string
	flagConfig         string
	flagSensorBackward bool
	flagCameraPerFrame bool
	flagLogFile        string
	flagLogLevel       string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "locus",
		Short: "LOCUS - Terminal crosshair and trail driven by a yaw/pitch sensor",
		Long: `LOCUS reads yaw/pitch samples from an orientation sensor and draws a
smoothed crosshair with a trailing dot path, following the sensor around
a virtual world five canvases wide.

Samples can come from a serial IMU bridge (--serial), a phone browser
over a websocket (--listen), or the built-in demo generator (--demo).`,
		RunE: run,
	}

	rootCmd.Flags().BoolVar(&flagDemo, "demo", false, "Run with synthetic sensor data (no hardware required)")
	rootCmd.Flags().StringVar(&flagSerial, "serial", "", "Serial port of an IMU bridge sending yaw,pitch lines")
	rootCmd.Flags().IntVar(&flagBaud, "baud", config.DefaultBaud, "Serial baud rate")
	rootCmd.Flags().StringVar(&flagListen, "listen", "", "Address to serve the phone orientation page on, e.g. :8090")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to a JSON settings file")
	rootCmd.Flags().BoolVar(&flagSensorBackward, "sensor-backward", false, "Sensor is mounted facing backward (pitch is not inverted)")
	rootCmd.Flags().BoolVar(&flagCameraPerFrame, "camera-per-frame", false, "Ease the camera once per frame instead of once per sample")
	rootCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (discarded by default)")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	closeLog, err := setupLogging(flagLogFile, flagLogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	settings := config.DefaultSettings()
	if flagConfig != "" {
		settings, err = config.LoadSettings(flagConfig)
		if err != nil {
			return err
		}
		logrus.WithField("path", flagConfig).Info("settings loaded")
	}
	applyFlags(cmd, settings)

	sources, err := buildSources(settings)
	if err != nil {
		return err
	}
	applyNativeRanges(settings, sources)
	if err := settings.Validate(); err != nil {
		return err
	}

	model := app.New(locus.ConfigFromSettings(settings), sources...)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithFPS(config.TargetFPS),
	)

	// Start sources with reference to the tea program
	if err := model.Start(p); err != nil {
		fmt.Fprintf(os.Stderr, "\nError: %v\n\n", err)
		fmt.Fprintln(os.Stderr, "Check the serial port permissions or the listen address.")
		fmt.Fprintln(os.Stderr, "Try one of:")
		fmt.Fprintln(os.Stderr, "  ./locus --serial /dev/ttyUSB0 --baud 115200")
		fmt.Fprintln(os.Stderr, "  ./locus --listen :8090")
		fmt.Fprintln(os.Stderr, "  ./locus --demo    (demo mode, no hardware needed)")
		return err
	}
	defer model.Stop()

	_, err = p.Run()
	return err
}

// setupLogging routes logrus to a file; the terminal belongs to the UI.
func setupLogging(path, level string) (func(), error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, DisableColors: true})

	if path == "" {
		logrus.SetOutput(io.Discard)
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logrus.SetOutput(f)
	return func() { _ = f.Close() }, nil
}

// applyFlags lets explicitly set flags override the settings file.
func applyFlags(cmd *cobra.Command, s *config.Settings) {
	flags := cmd.Flags()
	if flags.Changed("serial") {
		s.SetSerialPort(flagSerial)
	}
	if flags.Changed("baud") {
		s.SetBaudRate(flagBaud)
	}
	if flags.Changed("listen") {
		s.SetListenAddr(flagListen)
	}
	if flags.Changed("sensor-backward") {
		s.SetSensorForward(!flagSensorBackward)
	}
	if flags.Changed("camera-per-frame") {
		s.SetCameraPerFrame(flagCameraPerFrame)
	}
}

// buildSources picks the sample sources. Demo mode wins; with no source
// configured at all, demo mode is used as well.
func buildSources(s *config.Settings) ([]sensor.Source, error) {
	if flagDemo || (s.GetSerialPort() == "" && s.GetListenAddr() == "") {
		return []sensor.Source{sensor.NewMockSource(config.MockInterval)}, nil
	}

	var sources []sensor.Source
	if port := s.GetSerialPort(); port != "" {
		opts := sensor.PortOptions{BaudRate: s.GetBaudRate()}
		if _, err := opts.Normalize(); err != nil {
			return nil, fmt.Errorf("serial options: %w", err)
		}
		sources = append(sources, sensor.NewSerialSource(port, opts))
	}
	if addr := s.GetListenAddr(); addr != "" {
		sources = append(sources, sensor.NewWebSocketSource(addr))
	}
	return sources, nil
}

// applyNativeRanges fills unset range bounds from the first source that
// knows its units.
func applyNativeRanges(s *config.Settings, sources []sensor.Source) {
	for _, src := range sources {
		r, ok := src.(sensor.Ranger)
		if !ok {
			continue
		}
		yaw, pitch := r.NativeRanges()
		fillRange(&s.YawRange, yaw)
		fillRange(&s.PitchRange, pitch)
		return
	}
}

func fillRange(dst *config.Range, native config.Range) {
	if dst.Min == nil {
		dst.Min = native.Min
	}
	if dst.Max == nil {
		dst.Max = native.Max
	}
}
