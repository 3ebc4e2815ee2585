package live

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/phanxgames/treeview"
	"github.com/phanxgames/treeview/diagram"
)

const (
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = pongWait * 9 / 10
	maxMessage    = 4096
	frameInterval = time.Second / 60
	animDuration  = 0.4
)

// session is one connected page. The reader goroutine decodes messages, the
// loop goroutine owns the controller, and the writer goroutine owns writes
// to the connection.
type session struct {
	srv  *Server
	conn *websocket.Conn
	ctrl *treeview.Controller

	in   chan clientMessage
	send chan []byte
	done chan struct{}
	once sync.Once
}

func newSession(srv *Server, conn *websocket.Conn) (*session, error) {
	s := &session{
		srv:  srv,
		conn: conn,
		in:   make(chan clientMessage, 64),
		send: make(chan []byte, 64),
		done: make(chan struct{}),
	}
	ctrl, err := treeview.NewController(srv.cfg, nil)
	if err != nil {
		return nil, err
	}
	ctrl.OnChange(func(c treeview.ViewportChange) {
		s.enqueue(viewBoxMessage(c))
	})
	s.ctrl = ctrl
	return s, nil
}

// enqueue queues msg for the writer. Messages for a closed session, or
// beyond a full queue, are dropped.
func (s *session) enqueue(msg []byte) {
	select {
	case s.send <- msg:
	case <-s.done:
	default:
		treeview.Logger().Debug("live: send queue full, dropping message")
	}
}

func (s *session) close() {
	s.once.Do(func() {
		close(s.done)
		s.conn.Close()
	})
}

// run blocks until the connection ends.
func (s *session) run() {
	defer s.close()
	go s.writer()
	go s.reader()
	s.loop()
}

func (s *session) reader() {
	defer close(s.in)
	s.conn.SetReadLimit(maxMessage)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				treeview.Logger().Warn("live: unexpected close", slog.Any("err", err))
			}
			return
		}
		var m clientMessage
		if err := json.Unmarshal(data, &m); err != nil {
			treeview.Logger().Debug("live: bad message", slog.Any("err", err))
			continue
		}
		select {
		case s.in <- m:
		case <-s.done:
			return
		}
	}
}

// loop applies messages in arrival order and ticks running animations.
func (s *session) loop() {
	var ticker *time.Ticker
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()
	for {
		var tick <-chan time.Time
		if s.ctrl.Animating() {
			if ticker == nil {
				ticker = time.NewTicker(frameInterval)
			}
			tick = ticker.C
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
		}

		select {
		case m, ok := <-s.in:
			if !ok {
				return
			}
			s.apply(m)
		case <-tick:
			s.ctrl.Update(float32(frameInterval.Seconds()))
		case <-s.done:
			return
		}
	}
}

func (s *session) apply(m clientMessage) {
	switch m.Type {
	case "reset":
		s.ctrl.Reset(animDuration)
		return
	case "fit":
		if b, ok := s.srv.diagram.Bounds(); ok {
			s.ctrl.Fit(b, diagram.Padding, animDuration)
		}
		return
	case "blur":
		s.ctrl.CancelContacts()
		return
	}
	_, h := s.ctrl.SurfaceSize()
	ev, err := m.event(h)
	if err != nil {
		treeview.Logger().Debug("live: dropping message", slog.String("type", m.Type), slog.Any("err", err))
		return
	}
	s.ctrl.Handle(ev)
}

func (s *session) writer() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()
	for {
		select {
		case msg := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				treeview.Logger().Debug("live: write failed", slog.Any("err", err))
				s.close()
				return
			}
		case <-ping.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.close()
				return
			}
		case <-s.done:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		}
	}
}
