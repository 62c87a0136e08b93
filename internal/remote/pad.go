package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/carview/internal/engine/keys"
)

// padSession is one connected touch pad. It remembers the keys its client
// holds so a dropped connection never leaves the car driving.
type padSession struct {
	s    *Server
	conn *websocket.Conn
	log  *zap.Logger
	held map[string]bool
}

func (s *Server) handlePad(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("pad upgrade failed", zap.Error(err))
		return
	}

	s.clients.Add(1)
	defer s.clients.Done()

	p := &padSession{
		s:    s,
		conn: conn,
		log:  s.log.With(zap.String("client", r.RemoteAddr)),
		held: make(map[string]bool),
	}
	p.log.Info("pad connected")

	done := make(chan struct{})
	go p.writePump(done)

	p.readLoop()
	close(done)
	conn.Close()

	p.releaseAll()
	p.log.Info("pad disconnected")
}

func (p *padSession) readLoop() {
	for {
		_, msg, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Warn("pad read failed", zap.Error(err))
			}
			return
		}

		var ev keys.KeyEvent
		if err := json.Unmarshal(msg, &ev); err != nil {
			p.log.Debug("ignoring malformed pad message", zap.Error(err))
			continue
		}
		if err := ValidateEvent(ev); err != nil {
			p.log.Debug("ignoring pad message", zap.Error(err))
			continue
		}

		ev.Key = keys.Normalize(ev.Key)
		if err := p.send(ev); err != nil {
			p.log.Warn("dropping pad event", zap.String("key", ev.Key), zap.Error(err))
			continue
		}
		if ev.Down {
			p.held[ev.Key] = true
		} else {
			delete(p.held, ev.Key)
		}
	}
}

func (p *padSession) send(ev keys.KeyEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	return p.s.sink.Send(ctx, ev)
}

func (p *padSession) releaseAll() {
	for k := range p.held {
		if err := p.send(keys.KeyEvent{Key: k, Down: false}); err != nil {
			p.log.Warn("failed to release key", zap.String("key", k), zap.Error(err))
		}
	}
	p.held = nil
}

// writePump streams pose samples and keeps the connection alive.
func (p *padSession) writePump(done <-chan struct{}) {
	poses := time.NewTicker(poseInterval)
	pings := time.NewTicker(pingInterval)
	defer poses.Stop()
	defer pings.Stop()

	for {
		select {
		case <-done:
			return
		case <-p.s.closing:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			p.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
			p.conn.Close()
			return
		case <-poses.C:
			data, err := json.Marshal(p.s.poses.Latest())
			if err != nil {
				p.log.Error("encode pose", zap.Error(err))
				return
			}
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-pings.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
