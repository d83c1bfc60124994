package server

import (
	"net/http"
	"time"
)

const tickWriteTimeout = 5 * time.Second

// handleTicks streams one timer snapshot per tick interval until the
// client goes away. Ticks only refresh displays and change no state.
func (s *Server) handleTicks(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	// Reader loop: surfaces client close frames and disconnects.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	send := func() bool {
		conn.SetWriteDeadline(time.Now().Add(tickWriteTimeout))
		if err := conn.WriteJSON(s.session.Tick()); err != nil {
			s.log.Debug("tick write failed", "error", err)
			return false
		}
		return true
	}

	if !send() {
		return
	}
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if !send() {
				return
			}
		}
	}
}
