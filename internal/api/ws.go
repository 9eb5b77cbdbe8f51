package api

import (
	"log"
	"net/http"
	"time"
)

const writeWait = 10 * time.Second

// handleWebSocket streams bus events to one client. Each connection gets
// its own bus subscription; a client that stops reading misses events
// rather than stalling the polling loop.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading websocket connection: %v", err)
		return
	}

	id, events := s.events.Subscribe()
	log.Printf("Websocket client %s connected from %s", id, r.RemoteAddr)

	//reader goroutine: we never expect client messages, but reading is
	//how close frames and dead peers are detected
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	defer func() {
		s.events.Unsubscribe(id)
		conn.Close()
		log.Printf("Websocket client %s disconnected", id)
	}()

	for {
		select {
		case <-done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(event); err != nil {
				log.Printf("Error writing to websocket client %s: %v", id, err)
				return
			}
		}
	}
}
