package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// CommonsWikiURL is the base of every Commons wiki page link.
const CommonsWikiURL = "https://commons.wikimedia.org/wiki/"

// ImageInfo is the display metadata of one media file.
type ImageInfo struct {
	Name   string `json:"name"`   // Original title, e.g. "File:Clock.jpg"
	URL    string `json:"url"`    // Thumbnail URL scaled to the configured width
	User   string `json:"user"`   // Uploader account name
	Width  int    `json:"width"`  // Thumbnail width in pixels
	Height int    `json:"height"` // Thumbnail height in pixels
}

// ImageSource defines the queries the display needs from a media repository.
type ImageSource interface {
	// QueryCategoryFiles returns the image file titles in a category, in API order.
	QueryCategoryFiles(ctx context.Context, category string) ([]string, error)
	// QueryImageInfo returns thumbnail and uploader details for one title.
	QueryImageInfo(ctx context.Context, title string) (ImageInfo, error)
}

// ErrEmptyResult matches any EmptyResultError with errors.Is.
var ErrEmptyResult = errors.New("no candidate images")

// EmptyResultError reports that a category yielded no usable images.
type EmptyResultError struct {
	Category string
}

func (e *EmptyResultError) Error() string {
	if e.Category == "" {
		return ErrEmptyResult.Error()
	}
	return fmt.Sprintf("%s in category %q", ErrEmptyResult, e.Category)
}

// Is lets errors.Is(err, ErrEmptyResult) succeed.
func (e *EmptyResultError) Is(target error) bool {
	return target == ErrEmptyResult
}

// FilePageURL returns the Commons page of a file title.
func FilePageURL(name string) string {
	return CommonsWikiURL + wikiPath(name)
}

// UserPageURL returns the Commons profile page of an uploader.
func UserPageURL(user string) string {
	return CommonsWikiURL + wikiPath("User:"+user)
}

// UserLabel is the link text shown for an uploader.
func UserLabel(user string) string {
	return "User:" + user
}

// wikiPath escapes a page title for use in a /wiki/ path. Subpage slashes stay literal.
func wikiPath(title string) string {
	escaped := url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	return strings.ReplaceAll(escaped, "%2F", "/")
}
