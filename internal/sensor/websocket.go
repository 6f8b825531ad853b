package sensor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"locus.klederson.com/internal/config"
	"locus.klederson.com/internal/locus"
)

// orientationMsg is what the browser page sends. Yaw/pitch take
// precedence; alpha/beta are the raw DeviceOrientationEvent fields.
type orientationMsg struct {
	Yaw   *float64 `json:"yaw,omitempty"`
	Pitch *float64 `json:"pitch,omitempty"`
	Alpha *float64 `json:"alpha,omitempty"`
	Beta  *float64 `json:"beta,omitempty"`
}

func (m orientationMsg) sample() (locus.Sample, error) {
	yaw, pitch := m.Yaw, m.Pitch
	if yaw == nil {
		yaw = m.Alpha
	}
	if pitch == nil {
		pitch = m.Beta
	}
	if yaw == nil || pitch == nil {
		return locus.Sample{}, fmt.Errorf("%w: missing yaw or pitch", ErrBadSample)
	}
	return locus.Sample{Yaw: *yaw, Pitch: *pitch}, nil
}

// maxMessageSize caps an inbound frame; orientation messages are tiny.
const maxMessageSize = 1024

// WebSocketSource serves a small page that streams a phone's device
// orientation back over a websocket, plus the bare /ws endpoint for
// other clients.
type WebSocketSource struct {
	addr     string
	upgrader websocket.Upgrader
	log      *logrus.Entry

	mu     sync.Mutex
	srv    *http.Server
	ln     net.Listener
	conns  map[*websocket.Conn]struct{}
	sink   Sink
	closed bool
}

// NewWebSocketSource creates a source listening on addr (host:port).
func NewWebSocketSource(addr string) *WebSocketSource {
	return &WebSocketSource{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log:   logrus.WithFields(logrus.Fields{"source": "websocket", "addr": addr}),
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Name implements Source.
func (s *WebSocketSource) Name() string { return "ws:" + s.addr }

// NativeRanges implements Ranger.
func (s *WebSocketSource) NativeRanges() (yaw, pitch config.Range) { return DegreeRanges() }

// Addr returns the bound listen address, or "" before Start.
func (s *WebSocketSource) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Start binds the listener and serves in a goroutine.
func (s *WebSocketSource) Start(sink Sink) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	s.mu.Lock()
	s.srv = srv
	s.ln = ln
	s.sink = sink
	s.closed = false
	s.mu.Unlock()

	s.log.WithField("bound", ln.Addr().String()).Info("websocket source listening")
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("websocket server failed")
			sink.Send(SourceErrorMsg{Source: s.Name(), Err: err})
		}
	}()
	return nil
}

func (s *WebSocketSource) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(orientationPage))
}

func (s *WebSocketSource) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("upgrade failed")
		return
	}
	conn.SetReadLimit(maxMessageSize)
	log := s.log.WithField("remote", r.RemoteAddr)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		closeConn(conn)
		log.Debug("rejected client after stop")
		return
	}
	s.conns[conn] = struct{}{}
	sink := s.sink
	s.mu.Unlock()
	log.Info("client connected")

	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		log.Info("client disconnected")
	}()

	for {
		var msg orientationMsg
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Warn("read failed")
			}
			return
		}
		sample, err := msg.sample()
		if err != nil {
			log.WithError(err).Debug("skipping message")
			continue
		}
		sink.Send(SampleMsg{Sample: sample, Source: s.Name(), At: time.Now()})
	}
}

// Stop closes the listener and every open connection. Connections
// upgraded after Stop begins are closed by their handler.
func (s *WebSocketSource) Stop() {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.closed = true
	s.mu.Unlock()

	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)

	// Hijacked connections survive Shutdown
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()
	for _, c := range conns {
		closeConn(c)
	}
}

func closeConn(c *websocket.Conn) {
	_ = c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
		time.Now().Add(100*time.Millisecond))
	_ = c.Close()
}

const orientationPage = `<!doctype html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>locus sensor</title>
<style>body{background:#000;color:#00FF41;font-family:monospace;text-align:center;padding-top:30vh}</style>
</head>
<body>
<button id="go">start streaming</button>
<p id="out">-</p>
<script>
const out = document.getElementById('out');
document.getElementById('go').onclick = async () => {
  if (typeof DeviceOrientationEvent !== 'undefined' && DeviceOrientationEvent.requestPermission) {
    await DeviceOrientationEvent.requestPermission();
  }
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onopen = () => {
    window.addEventListener('deviceorientation', (e) => {
      if (e.alpha === null || e.beta === null) return;
      ws.send(JSON.stringify({ yaw: e.alpha, pitch: e.beta }));
      out.textContent = e.alpha.toFixed(1) + ' / ' + e.beta.toFixed(1);
    });
  };
  ws.onclose = () => { out.textContent = 'disconnected'; };
};
</script>
</body>
</html>
`
