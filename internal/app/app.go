package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
	"locus.klederson.com/internal/render"
	"locus.klederson.com/internal/ring"
	"locus.klederson.com/internal/sensor"
	"locus.klederson.com/internal/ui"
)

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	session  *locus.Session
	renderer *render.Renderer
	canvas   *render.TerminalCanvas
	rate     *sensor.RateMeter
	history  *ring.Buffer[float64]
	sources  []sensor.Source
}

// AppModel is the root Bubble Tea model for LOCUS.
type AppModel struct {
	width  int
	height int

	paused  bool
	cfg     locus.Config
	source  string
	lastErr string

	canvasRows int

	shared *shared
	log    *logrus.Entry
}

// New creates a model that feeds samples from sources into a fresh
// session. The session is initialized on the first window size.
func New(cfg locus.Config, sources ...sensor.Source) AppModel {
	names := make([]string, 0, len(sources))
	for _, s := range sources {
		names = append(names, s.Name())
	}
	source := strings.Join(names, ",")
	if source == "" {
		source = "none"
	}

	return AppModel{
		cfg:    cfg,
		source: source,
		shared: &shared{
			session:  locus.NewSession(),
			renderer: render.NewRenderer(render.NewReticle()),
			canvas:   render.NewTerminalCanvas(0, 0),
			rate:     sensor.NewRateMeter(),
			history:  ring.New[float64](config.HistoryLen),
			sources:  sources,
		},
		log: logrus.WithField("component", "app"),
	}
}

// Session exposes the underlying session.
func (m AppModel) Session() *locus.Session { return m.shared.session }

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		evictCmd(),
	)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case TickMsg:
		if m.shared.session.Initialized() {
			m.shared.renderer.DrawCanvas(m.shared.session, m.shared.canvas)
		}
		return m, tickCmd()

	case EvictMsg:
		if m.shared.rate.Evict(time.Time(msg), config.StaleTimeout) {
			m.log.Debug("sample stream went stale")
		}
		return m, evictCmd()

	case sensor.SampleMsg:
		if m.paused {
			return m, nil
		}
		if err := m.shared.session.UpdateLiveCoordinates(msg.Sample); err != nil {
			if !errors.Is(err, locus.ErrNotInitialized) {
				m.log.WithError(err).Warn("dropping sample")
			}
			return m, nil
		}
		m.shared.rate.Observe(msg.At)
		m.shared.history.Push(m.shared.session.Readout().RunningYaw)
		return m, nil

	case sensor.SourceErrorMsg:
		m.lastErr = fmt.Sprintf("%s: %v", msg.Source, msg.Err)
		m.log.WithField("source", msg.Source).WithError(msg.Err).Error("source stopped")
		return m, nil
	}

	return m, nil
}

// resize maps the terminal body to a pixel viewport and sizes the
// terminal canvas to the session canvas.
func (m *AppModel) resize() {
	bodyH := m.height - 2
	if bodyH < 6 {
		bodyH = 6
	}
	cols := m.width - 2
	if cols < 1 {
		cols = 1
	}

	viewport := locus.Size{
		Width:  float64(cols) * config.CellWidth,
		Height: float64(bodyH-2) * config.CellHeight,
	}

	var canvas locus.Size
	if m.shared.session.Initialized() {
		canvas = m.shared.session.Resize(viewport)
	} else {
		canvas = m.shared.session.Init(m.cfg, viewport)
		m.log.WithFields(logrus.Fields{
			"width":  canvas.Width,
			"height": canvas.Height,
		}).Info("session initialized")
	}

	m.canvasRows = int(canvas.Height / config.CellHeight)
	m.shared.canvas.Resize(int(canvas.Width/config.CellWidth), m.canvasRows)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sess := m.shared.session

	switch msg.String() {
	case "q", "Q", "ctrl+c":
		// Sources are stopped by the caller once Run returns
		return m, tea.Quit

	case "p", "P":
		m.paused = !m.paused

	case "r", "R":
		sess.Reset()
		m.shared.history.Reset()
		m.lastErr = ""

	case "f", "F":
		sess.SetSensorForward(!sess.Config().SensorForward)
		m.log.WithField("forward", sess.Config().SensorForward).Info("sensor orientation changed")

	case "c", "C":
		next := locus.CadenceFrame
		if sess.Config().Cadence == locus.CadenceFrame {
			next = locus.CadenceSample
		}
		sess.SetCadence(next)
		m.log.WithField("cadence", next.String()).Info("camera cadence changed")
	}

	return m, nil
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 || !m.shared.session.Initialized() {
		return "Initializing " + config.AppName + "..."
	}

	bodyH := m.height - 2
	if bodyH < 6 {
		bodyH = 6
	}
	canvasH := m.canvasRows + 2
	readoutH := bodyH - canvasH
	if readoutH < 2 {
		readoutH = 2
	}

	sess := m.shared.session
	readout := sess.Readout()
	frame := sess.Frame()

	menuBar := ui.RenderMenuBar(m.width, m.source, m.paused)
	canvasPanel := ui.RenderCanvasPanel(m.width, canvasH, m.shared.canvas.String(), !m.paused)
	readoutPanel := ui.RenderReadoutPanel(readout, frame, m.shared.history.Values(), m.width, readoutH)

	statusBar := ui.RenderStatusBar(m.width, ui.StatusInfo{
		Paused:   m.paused,
		Stale:    m.shared.rate.Count() > 0 && m.shared.rate.LastSeen().IsZero(),
		Samples:  readout.Samples,
		Rate:     m.shared.rate.Rate(),
		TrailLen: readout.TrailLen,
		TrailCap: readout.TrailCap,
		Cadence:  readout.Cadence.String(),
		Forward:  readout.Forward,
		Err:      m.lastErr,
	})

	return ui.ComposeLayout(menuBar, canvasPanel, readoutPanel, statusBar)
}

// Start starts every source with sink as the message target. Must be
// called before p.Run(). If one fails, those already started are stopped.
func (m *AppModel) Start(sink sensor.Sink) error {
	for i, src := range m.shared.sources {
		if err := src.Start(sink); err != nil {
			for _, started := range m.shared.sources[:i] {
				started.Stop()
			}
			return fmt.Errorf("start %s: %w", src.Name(), err)
		}
		m.log.WithField("source", src.Name()).Info("source started")
	}
	return nil
}

// Stop stops every source.
func (m AppModel) Stop() {
	for _, src := range m.shared.sources {
		src.Stop()
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(config.TargetFPS), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func evictCmd() tea.Cmd {
	return tea.Tick(config.EvictInterval, func(t time.Time) tea.Msg {
		return EvictMsg(t)
	})
}
