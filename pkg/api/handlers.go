package api

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/dixieflatline76/Chronophoto/config"
	"github.com/dixieflatline76/Chronophoto/util/log"
)

// handleIndex renders the page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := s.page.Execute(&buf, newPageData()); err != nil {
		log.Printf("Failed to render page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":  "running",
		"version": config.AppVersion,
		"pages":   s.renderer.Clients(),
	}); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleCurrent returns the displayed image, or 204 before the first one.
func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.current == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	info, ok := s.current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleWebSocket upgrades the connection and attaches it to the renderer.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxClientMessage)

	if err := s.renderer.Attach(conn); err != nil {
		log.Printf("Failed to replay page state: %v", err)
		return
	}
	defer s.renderer.Detach(conn)

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			log.Debugf("Page disconnected: %v", err)
			break
		}
		s.renderer.HandleMessage(msg)
	}
}

const maxClientMessage = 4096
