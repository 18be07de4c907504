package display

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/dixieflatline76/Chronophoto/pkg/provider"
)

// MockSource implements provider.ImageSource for testing
type MockSource struct {
	mock.Mock
}

func (m *MockSource) QueryCategoryFiles(ctx context.Context, category string) ([]string, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockSource) QueryImageInfo(ctx context.Context, title string) (provider.ImageInfo, error) {
	args := m.Called(ctx, title)
	return args.Get(0).(provider.ImageInfo), args.Error(1)
}

// fakeRenderer records every operation and mirrors the display region.
type fakeRenderer struct {
	mu       sync.Mutex
	ops      []string
	images   []*fakeImage
	loader   bool
	info     bool
	fileHref string
	fileText string
	userHref string
	userText string
	// holdLoad keeps new images loading until the test closes them.
	holdLoad bool
	addErr   error
	seq      int
}

type fakeImage struct {
	r       *fakeRenderer
	id      string
	url     string
	loaded  chan struct{}
	visible bool
	faded   bool
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{loader: true}
}

func (f *fakeRenderer) record(op string) {
	f.ops = append(f.ops, op)
}

func (f *fakeRenderer) AddImage(info provider.ImageInfo) (ImageHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return nil, f.addErr
	}
	f.seq++
	img := &fakeImage{r: f, id: fmt.Sprintf("img-%d", f.seq), url: info.URL, loaded: make(chan struct{})}
	if !f.holdLoad {
		close(img.loaded)
	}
	f.images = append(f.images, img)
	f.record("add " + img.id)
	return img, nil
}

func (f *fakeRenderer) RemoveLoader() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loader = false
	f.record("remove-loader")
}

func (f *fakeRenderer) RevealInfo() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.info = true
	f.record("reveal-info")
}

func (f *fakeRenderer) SetFileLink(href, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fileHref, f.fileText = href, text
}

func (f *fakeRenderer) SetUserLink(href, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userHref, f.userText = href, text
}

func (f *fakeRenderer) snapshot() (ops []string, images []fakeImage, loader, info bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops = append(ops, f.ops...)
	for _, img := range f.images {
		images = append(images, *img)
	}
	return ops, images, f.loader, f.info
}

func (i *fakeImage) ID() string              { return i.id }
func (i *fakeImage) Loaded() <-chan struct{} { return i.loaded }

func (i *fakeImage) Show() {
	i.r.mu.Lock()
	defer i.r.mu.Unlock()
	i.visible, i.faded = true, false
	i.r.record("show " + i.id)
}

func (i *fakeImage) FadeOut() {
	i.r.mu.Lock()
	defer i.r.mu.Unlock()
	i.faded = true
	i.r.record("fade " + i.id)
}

func (i *fakeImage) Remove() {
	i.r.mu.Lock()
	defer i.r.mu.Unlock()
	for n, img := range i.r.images {
		if img == i {
			i.r.images = append(i.r.images[:n], i.r.images[n+1:]...)
			i.r.record("remove " + i.id)
			return
		}
	}
}
