package asset

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/dixieflatline76/Chronophoto/util/log"
)

//go:embed text/* static/*
var assets embed.FS

// PageTemplate is the name of the embedded page template.
const PageTemplate = "page.html"

// Manager manages the loading of embedded page assets.
type Manager struct{}

// NewManager creates a new asset manager.
func NewManager() *Manager {
	return &Manager{}
}

// GetText loads and returns embedded text asset by name.
func (am *Manager) GetText(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("text name is empty")
	}

	textBytes, err := assets.ReadFile("text/" + name)
	if err != nil {
		log.Println("Error loading text:", err)
		return "", err
	}
	return string(textBytes), nil
}

// GetStatic loads and returns the raw bytes of an embedded static file by name.
func (am *Manager) GetStatic(name string) ([]byte, error) {
	return assets.ReadFile("static/" + name)
}

// StaticFS returns the stylesheet and script tree, rooted at static/.
func (am *Manager) StaticFS() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		// static/ is embedded at build time; Sub only fails on an invalid path.
		panic(err)
	}
	return sub
}
