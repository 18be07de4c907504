package api

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/dixieflatline76/Chronophoto/pkg/display"
	"github.com/dixieflatline76/Chronophoto/pkg/provider"
	"github.com/dixieflatline76/Chronophoto/util/log"
)

const writeTimeout = 5 * time.Second

// Command is one render instruction pushed to the page.
type Command struct {
	Type   string     `json:"type"`
	ID     string     `json:"id,omitempty"`
	URL    string     `json:"url,omitempty"`
	Width  int        `json:"width,omitempty"`
	Height int        `json:"height,omitempty"`
	Href   string     `json:"href,omitempty"`
	Text   string     `json:"text,omitempty"`
	State  *PageState `json:"state,omitempty"`
}

// Command types.
const (
	CmdState        = "state"
	CmdAddImage     = "add_image"
	CmdShow         = "show"
	CmdFadeOut      = "fade_out"
	CmdRemove       = "remove"
	CmdRemoveLoader = "remove_loader"
	CmdRevealInfo   = "reveal_info"
	CmdSetFileLink  = "set_file_link"
	CmdSetUserLink  = "set_user_link"
)

// ClientMessage is what the page sends back.
type ClientMessage struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Link is an anchor's target and text.
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}

// Element mirrors one image element on the page.
type Element struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Visible bool   `json:"visible"`
	Faded   bool   `json:"faded"`
}

// PageState is the server-side mirror of the display region.
type PageState struct {
	Images []Element `json:"images"`
	Loader bool      `json:"loader"`
	Info   bool      `json:"info"`
	File   *Link     `json:"file,omitempty"`
	User   *Link     `json:"user,omitempty"`
}

// PageRenderer implements display.Renderer by broadcasting commands to every
// connected page and keeping a mirror that new pages are brought up to date with.
type PageRenderer struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
	images  []*pageImage
	loader  bool
	info    bool
	file    *Link
	user    *Link
}

var _ display.Renderer = (*PageRenderer)(nil)

// NewPageRenderer creates a renderer in the initial state: loader shown, info hidden.
func NewPageRenderer() *PageRenderer {
	return &PageRenderer{
		clients: make(map[*websocket.Conn]bool),
		loader:  true,
	}
}

type pageImage struct {
	r       *PageRenderer
	id      string
	info    provider.ImageInfo
	visible bool
	faded   bool
	loaded  chan struct{}
	once    sync.Once
}

func (img *pageImage) markLoaded() {
	img.once.Do(func() { close(img.loaded) })
}

// AddImage appends a hidden image element. With no page connected it counts as loaded.
func (r *PageRenderer) AddImage(info provider.ImageInfo) (display.ImageHandle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	img := &pageImage{
		r:      r,
		id:     "img-" + uuid.NewString(),
		info:   info,
		loaded: make(chan struct{}),
	}
	r.images = append(r.images, img)
	if len(r.clients) == 0 {
		img.markLoaded()
	}
	r.broadcast(Command{Type: CmdAddImage, ID: img.id, URL: info.URL, Width: info.Width, Height: info.Height})
	return img, nil
}

// RemoveLoader drops the loading indicator.
func (r *PageRenderer) RemoveLoader() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.loader {
		return
	}
	r.loader = false
	r.broadcast(Command{Type: CmdRemoveLoader})
}

// RevealInfo shows the attribution panel.
func (r *PageRenderer) RevealInfo() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.info {
		return
	}
	r.info = true
	r.broadcast(Command{Type: CmdRevealInfo})
}

// SetFileLink updates the file page link.
func (r *PageRenderer) SetFileLink(href, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.file = &Link{Href: href, Text: text}
	r.broadcast(Command{Type: CmdSetFileLink, Href: href, Text: text})
}

// SetUserLink updates the uploader link.
func (r *PageRenderer) SetUserLink(href, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user = &Link{Href: href, Text: text}
	r.broadcast(Command{Type: CmdSetUserLink, Href: href, Text: text})
}

// Snapshot returns a copy of the mirrored page state.
func (r *PageRenderer) Snapshot() PageState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshot()
}

func (r *PageRenderer) snapshot() PageState {
	st := PageState{Images: []Element{}, Loader: r.loader, Info: r.info}
	for _, img := range r.images {
		st.Images = append(st.Images, Element{
			ID:      img.id,
			URL:     img.info.URL,
			Width:   img.info.Width,
			Height:  img.info.Height,
			Visible: img.visible,
			Faded:   img.faded,
		})
	}
	if r.file != nil {
		l := *r.file
		st.File = &l
	}
	if r.user != nil {
		l := *r.user
		st.User = &l
	}
	return st
}

// Attach registers a page connection and replays the current mirror to it.
func (r *PageRenderer) Attach(conn *websocket.Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := r.snapshot()
	if err := write(conn, Command{Type: CmdState, State: &st}); err != nil {
		return err
	}
	r.clients[conn] = true
	log.Debugf("Page attached, %d connected", len(r.clients))
	return nil
}

// Detach forgets a page connection.
func (r *PageRenderer) Detach(conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.clients, conn)
}

// Clients returns the number of attached pages.
func (r *PageRenderer) Clients() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}

// HandleMessage processes a message from a page. A "loaded" ack from any page
// resolves the element's load future.
func (r *PageRenderer) HandleMessage(msg ClientMessage) {
	if msg.Type != "loaded" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if img := r.find(msg.ID); img != nil {
		img.markLoaded()
	}
}

func (r *PageRenderer) find(id string) *pageImage {
	for _, img := range r.images {
		if img.id == id {
			return img
		}
	}
	return nil
}

// broadcast sends cmd to every page. Callers hold r.mu, which also serializes writes.
func (r *PageRenderer) broadcast(cmd Command) {
	for conn := range r.clients {
		if err := write(conn, cmd); err != nil {
			log.Printf("Failed to broadcast to page: %v", err)
			conn.Close()
			delete(r.clients, conn)
		}
	}
}

func write(conn *websocket.Conn, cmd Command) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(cmd)
}

func (img *pageImage) ID() string              { return img.id }
func (img *pageImage) Loaded() <-chan struct{} { return img.loaded }

func (img *pageImage) Show() {
	img.update(CmdShow, func() { img.visible, img.faded = true, false })
}

func (img *pageImage) FadeOut() {
	img.update(CmdFadeOut, func() { img.faded = true })
}

func (img *pageImage) Remove() {
	r := img.r
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, other := range r.images {
		if other == img {
			r.images = append(r.images[:i], r.images[i+1:]...)
			r.broadcast(Command{Type: CmdRemove, ID: img.id})
			return
		}
	}
}

// update applies fn and broadcasts cmdType unless the element was removed.
func (img *pageImage) update(cmdType string, fn func()) {
	r := img.r
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(img.id) == nil {
		return
	}
	fn()
	r.broadcast(Command{Type: cmdType, ID: img.id})
}

// Close disconnects every attached page.
func (r *PageRenderer) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for conn := range r.clients {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(r.clients, conn)
	}
}
