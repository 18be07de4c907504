package display

import "github.com/dixieflatline76/Chronophoto/pkg/provider"

// Renderer is the display region the controller draws into. Implementations own
// the actual page elements: the image container, the loader, the info panel and
// the two attribution links.
type Renderer interface {
	// AddImage appends a hidden (zero opacity, collapsed) image element to the container.
	AddImage(info provider.ImageInfo) (ImageHandle, error)
	// RemoveLoader removes the loading indicator from the container.
	RemoveLoader()
	// RevealInfo shows the info panel holding the attribution links.
	RevealInfo()
	// SetFileLink points the file label at the source page.
	SetFileLink(href, text string)
	// SetUserLink points the user label at the uploader's profile.
	SetUserLink(href, text string)
}

// ImageHandle is one image element created by a Renderer. Operations on a
// removed handle are no-ops.
type ImageHandle interface {
	ID() string
	// Loaded is closed once the image resource has finished loading.
	Loaded() <-chan struct{}
	// Show grows the element to full size and fades it in.
	Show()
	// FadeOut starts the opacity transition to zero.
	FadeOut()
	// Remove deletes the element from the container.
	Remove()
}
