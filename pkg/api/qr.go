package api

import (
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/dixieflatline76/Chronophoto/util/log"
)

const (
	qrSize      = 256
	qrAllowHost = "commons.wikimedia.org"
)

// handleQR renders a QR code PNG for a Commons page link given in ?u=.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	target, ok := commonsLink(r.URL.Query().Get("u"))
	if !ok {
		http.Error(w, "Only commons.wikimedia.org links are allowed", http.StatusBadRequest)
		return
	}

	png, err := qrcode.Encode(target, qrcode.Medium, qrSize)
	if err != nil {
		log.Printf("Failed to encode QR code: %v", err)
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(png)
}

// commonsLink validates raw as an https link on the Commons host.
func commonsLink(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "https" || !strings.EqualFold(u.Hostname(), qrAllowHost) || u.User != nil {
		return "", false
	}
	return u.String(), true
}
