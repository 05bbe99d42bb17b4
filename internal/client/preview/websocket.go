package preview

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/quickqr/internal/logging"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	clearFrame = "clear"
)

// WSSurface streams frames to browsers over websockets. It counts as
// attached while at least one browser is connected; a browser that connects
// later receives the frame currently on display.
type WSSurface struct {
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	conns    map[*websocket.Conn]struct{}
	last     []byte
	onAttach func()
}

func NewWSSurface(logger logging.Logger) *WSSurface {
	if logger == nil {
		logger = logging.NopLogger{}
	}
	return &WSSurface{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 * 1024,
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// Handler serves the preview page on "/" and the frame stream on "/ws".
func (s *WSSurface) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", s.servePage).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.serveWS).Methods(http.MethodGet)
	return r
}

// OnAttach registers fn to run each time the first browser connects.
func (s *WSSurface) OnAttach(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAttach = fn
}

func (s *WSSurface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns) > 0
}

func (s *WSSurface) Show(img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = buf.Bytes()
	s.broadcastLocked(websocket.BinaryMessage, s.last)
	return nil
}

func (s *WSSurface) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = nil
	s.broadcastLocked(websocket.TextMessage, []byte(clearFrame))
	return nil
}

// Close disconnects every browser.
func (s *WSSurface) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.conns {
		_ = c.Close()
		delete(s.conns, c)
	}
}

func (s *WSSurface) broadcastLocked(kind int, data []byte) {
	for c := range s.conns {
		_ = c.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.WriteMessage(kind, data); err != nil {
			s.logger.Warn(context.Background(), "drop preview client", "remote", c.RemoteAddr().String(), "error", err)
			_ = c.Close()
			delete(s.conns, c)
		}
	}
}

func (s *WSSurface) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn(r.Context(), "websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	first := len(s.conns) == 0
	s.conns[conn] = struct{}{}
	if s.last != nil {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteMessage(websocket.BinaryMessage, s.last)
	}
	onAttach := s.onAttach
	s.mu.Unlock()
	s.logger.Info(r.Context(), "preview client connected", "remote", conn.RemoteAddr().String())
	if first && onAttach != nil {
		onAttach()
	}

	// browsers never send anything; reading only detects the disconnect
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
	_ = conn.Close()
}

func (s *WSSurface) servePage(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

const page = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>QuickQR preview</title>
<style>body{display:flex;align-items:center;justify-content:center;height:100vh;margin:0;background:#f1f3f5}img{max-width:90vmin;max-height:90vmin}</style>
</head>
<body>
<img id="qr" alt="">
<script>
const img = document.getElementById("qr");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
ws.binaryType = "blob";
ws.onmessage = (e) => {
  if (typeof e.data === "string") { img.removeAttribute("src"); return; }
  const old = img.src;
  img.src = URL.createObjectURL(e.data);
  if (old) URL.revokeObjectURL(old);
};
</script>
</body>
</html>
`
