package api

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dixieflatline76/Chronophoto/asset"
	"github.com/dixieflatline76/Chronophoto/config"
	"github.com/dixieflatline76/Chronophoto/pkg/provider"
)

// CurrentFunc reports the image currently on display.
type CurrentFunc func() (provider.ImageInfo, bool)

// Server serves the page, its assets and the websocket that drives it.
type Server struct {
	addr       string
	httpServer *http.Server
	mux        *http.ServeMux
	upgrader   websocket.Upgrader

	assets   *asset.Manager
	page     *template.Template
	renderer *PageRenderer

	// Callbacks
	current CurrentFunc
}

// NewServer creates a new page server listening on addr and driving renderer.
func NewServer(addr string, renderer *PageRenderer) (*Server, error) {
	am := asset.NewManager()
	text, err := am.GetText(asset.PageTemplate)
	if err != nil {
		return nil, fmt.Errorf("load page template: %w", err)
	}
	page, err := template.New(asset.PageTemplate).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	s := &Server{
		addr: addr,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		assets:   am,
		page:     page,
		renderer: renderer,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/{$}", securityHeaders(s.handleIndex))
	s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(s.assets.StaticFS())))
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/health", s.enableCORS(s.handleHealth))
	s.mux.HandleFunc("/api/current", s.enableCORS(s.handleCurrent))
	s.mux.HandleFunc("/qr.png", s.handleQR)
}

// enableCORS adds CORS headers to the handler.
func (s *Server) enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// SetCurrentHandler sets the callback that reports the displayed image.
func (s *Server) SetCurrentHandler(fn CurrentFunc) {
	s.current = fn
}

// Handler returns the HTTP handler for the server, wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start starts the server. It blocks until Stop is called.
func (s *Server) Start() error {
	// This is blocking
	return s.httpServer.ListenAndServe()
}

// Stop disconnects pages and shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.renderer.Close()
	return s.httpServer.Shutdown(ctx)
}

// pageData feeds the page template.
type pageData struct {
	Title   string
	Version string
}

func newPageData() pageData {
	return pageData{Title: config.AppName, Version: config.AppVersion}
}
