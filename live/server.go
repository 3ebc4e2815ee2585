// Package live serves a diagram to browsers and drives each page's SVG
// viewBox from a server-side treeview.Controller over a websocket.
package live

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
	"github.com/phanxgames/treeview/highlight"
)

//go:embed static
var staticFiles embed.FS

// Options configures a Server.
type Options struct {
	Colors diagram.Colors
	// Activation is the initial highlight state. Nil means nothing is
	// highlighted until SetActivation is called.
	Activation *highlight.Activation
	// CheckOrigin overrides the websocket origin check. Nil allows
	// same-host origins only.
	CheckOrigin func(r *http.Request) bool
}

// Server hosts the page, the rendered diagram, and one websocket session
// per connected page.
type Server struct {
	diagram *diagram.Diagram
	cfg     treeview.Config
	colors  diagram.Colors

	svg      []byte
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	css      string
	sessions map[*session]struct{}
}

// NewServer renders d and prepares the handler. cfg is validated here so
// that sessions never fail to build their controller.
func NewServer(d *diagram.Diagram, cfg treeview.Config, opts Options) (*Server, error) {
	if _, err := treeview.NewController(cfg, nil); err != nil {
		return nil, fmt.Errorf("live: %w", err)
	}
	colors := opts.Colors
	if colors == (diagram.Colors{}) {
		colors = diagram.DefaultColors
	}

	var buf bytes.Buffer
	if err := diagram.WriteSVG(&buf, d, diagram.SVGOptions{Colors: colors}); err != nil {
		return nil, fmt.Errorf("live: %w", err)
	}

	s := &Server{
		diagram:  d,
		cfg:      cfg,
		colors:   colors,
		svg:      buf.Bytes(),
		sessions: make(map[*session]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     opts.CheckOrigin,
		},
	}
	if opts.Activation != nil {
		s.css = highlight.Stylesheet(highlight.Resolve(d, *opts.Activation), colors)
	}
	return s, nil
}

// Handler returns the HTTP handler serving "/", "/diagram.svg",
// "/tree/{stu}" and "/ws".
func (s *Server) Handler() http.Handler {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded at build time
	}
	mux := http.NewServeMux()
	mux.Handle("GET /", http.FileServerFS(static))
	mux.HandleFunc("GET /diagram.svg", s.handleSVG)
	mux.HandleFunc("GET /tree/{stu}", s.handleTree)
	mux.HandleFunc("GET /ws", s.handleWebSocket)
	return mux
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	if _, err := w.Write(s.svg); err != nil {
		treeview.Logger().Debug("live: svg write failed", slog.Any("err", err))
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		treeview.Logger().Warn("live: websocket upgrade failed", slog.Any("err", err))
		return
	}
	sess, err := newSession(s, conn)
	if err != nil {
		treeview.Logger().Error("live: session setup failed", slog.Any("err", err))
		conn.Close()
		return
	}

	s.mu.Lock()
	s.sessions[sess] = struct{}{}
	css := s.css
	s.mu.Unlock()

	treeview.Logger().Info("live: session opened", slog.String("remote", r.RemoteAddr))
	sess.enqueue(stylesMessage(css))
	sess.run()

	s.mu.Lock()
	delete(s.sessions, sess)
	s.mu.Unlock()
	treeview.Logger().Info("live: session closed", slog.String("remote", r.RemoteAddr))
}

// SetActivation resolves a against the diagram and pushes the resulting
// styles to every connected page. Viewports are not affected.
func (s *Server) SetActivation(a highlight.Activation) {
	css := highlight.Stylesheet(highlight.Resolve(s.diagram, a), s.colors)
	msg := stylesMessage(css)

	s.mu.Lock()
	s.css = css
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.enqueue(msg)
	}
	treeview.Logger().Debug("live: activation broadcast", slog.Int("sessions", len(sessions)))
}

// Sessions returns the number of connected pages.
func (s *Server) Sessions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
