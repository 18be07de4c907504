// Package commons is a minimal Wikimedia Commons API client: list the image files
// of a category and fetch thumbnail and uploader details of one file.
package commons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/dixieflatline76/Chronophoto/pkg/provider"
	"github.com/dixieflatline76/Chronophoto/util/log"
)

// Ensure Client implements provider.ImageSource at compile time.
var _ provider.ImageSource = (*Client)(nil)

// Options configure a Client. Zero values fall back to package defaults.
type Options struct {
	BaseURL    string
	UserAgent  string
	ThumbWidth int
	Timeout    time.Duration
	Rate       float64 // requests per second
	Burst      int
	Transport  http.RoundTripper
}

// Client talks to the Commons query API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	thumbWidth int
}

// NewClient creates a Client with a User-Agent and rate-limited transport.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = CommonsBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = CommonsUserAgent
	}
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = DefaultThumbWidth
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Rate <= 0 {
		opts.Rate = DefaultRate
	}
	if opts.Burst <= 0 {
		opts.Burst = DefaultBurst
	}

	return &Client{
		baseURL: opts.BaseURL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			Transport: &UserAgentTransport{
				RoundTripper: opts.Transport,
				UserAgent:    opts.UserAgent,
				Limiter:      rate.NewLimiter(rate.Limit(opts.Rate), opts.Burst),
			},
		},
		thumbWidth: opts.ThumbWidth,
	}
}

// param is one query parameter. Order is kept as given.
type param struct {
	key, value string
}

// formatURL joins params onto base as key=value pairs separated by '&', each value
// percent-encoded like encodeURIComponent. format=json is appended unless supplied.
func formatURL(base string, params ...param) string {
	hasFormat := false
	parts := make([]string, 0, len(params)+1)
	for _, p := range params {
		if p.key == "format" {
			hasFormat = true
		}
		parts = append(parts, p.key+"="+encodeComponent(p.value))
	}
	if !hasFormat {
		parts = append(parts, "format=json")
	}
	return base + "?" + strings.Join(parts, "&")
}

func encodeComponent(s string) string {
	escaped := url.QueryEscape(s)
	return strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
	).Replace(escaped)
}

type apiError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

type categoryMembersResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		CategoryMembers []struct {
			NS    int    `json:"ns"`
			Title string `json:"title"`
		} `json:"categorymembers"`
	} `json:"query"`
}

type imageInfoResponse struct {
	Error *apiError `json:"error"`
	Query *struct {
		Pages map[string]struct {
			PageID    int     `json:"pageid"`
			Title     string  `json:"title"`
			Missing   *string `json:"missing"`
			ImageInfo []struct {
				ThumbURL    string `json:"thumburl"`
				ThumbWidth  int    `json:"thumbwidth"`
				ThumbHeight int    `json:"thumbheight"`
				User        string `json:"user"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// QueryCategoryFiles lists the jpg/jpeg/png file titles of a category, in API order.
func (c *Client) QueryCategoryFiles(ctx context.Context, category string) ([]string, error) {
	reqURL := formatURL(c.baseURL,
		param{"action", "query"},
		param{"list", "categorymembers"},
		param{"cmtitle", "Category:" + category},
		param{"cmtype", "file"},
		param{"cmprop", "title"},
		param{"cmlimit", strconv.Itoa(CategoryMemberLimit)},
	)

	var result categoryMembersResponse
	if err := c.query(ctx, reqURL, &result); err != nil {
		log.Printf("Commons: listing category %q failed: %v", category, err)
		return nil, err
	}
	if result.Error != nil {
		err := &MalformedResponseError{URL: reqURL, Reason: "api error " + result.Error.Code + ": " + result.Error.Info}
		log.Printf("Commons: listing category %q failed: %v", category, err)
		return nil, err
	}
	if result.Query == nil {
		err := &MalformedResponseError{URL: reqURL, Reason: "missing query field"}
		log.Printf("Commons: listing category %q failed: %v", category, err)
		return nil, err
	}

	titles := make([]string, 0, len(result.Query.CategoryMembers))
	for _, member := range result.Query.CategoryMembers {
		if IsImageTitle(member.Title) {
			titles = append(titles, member.Title)
		}
	}
	log.Debugf("Commons: category %q has %d image files (%d members)", category, len(titles), len(result.Query.CategoryMembers))
	return titles, nil
}

// QueryImageInfo fetches the thumbnail URL, size and uploader of one file title.
func (c *Client) QueryImageInfo(ctx context.Context, title string) (provider.ImageInfo, error) {
	reqURL := formatURL(c.baseURL,
		param{"action", "query"},
		param{"titles", title},
		param{"prop", "imageinfo"},
		param{"iiprop", "url|user"},
		param{"iiurlwidth", strconv.Itoa(c.thumbWidth)},
	)

	info, err := c.queryImageInfo(ctx, reqURL, title)
	if err != nil {
		log.Printf("Commons: image info for %q failed: %v", title, err)
		return provider.ImageInfo{}, err
	}
	return info, nil
}

func (c *Client) queryImageInfo(ctx context.Context, reqURL, title string) (provider.ImageInfo, error) {
	var result imageInfoResponse
	if err := c.query(ctx, reqURL, &result); err != nil {
		return provider.ImageInfo{}, err
	}
	if result.Error != nil {
		return provider.ImageInfo{}, &MalformedResponseError{URL: reqURL, Reason: "api error " + result.Error.Code + ": " + result.Error.Info}
	}
	if result.Query == nil || len(result.Query.Pages) == 0 {
		return provider.ImageInfo{}, &MalformedResponseError{URL: reqURL, Reason: "no pages in response"}
	}

	// Pages are keyed by a page id we cannot know in advance. A single-title query
	// yields exactly one key; sort anyway so the choice is stable.
	keys := make([]string, 0, len(result.Query.Pages))
	for k := range result.Query.Pages {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	page := result.Query.Pages[keys[0]]

	if page.Missing != nil {
		return provider.ImageInfo{}, &MalformedResponseError{URL: reqURL, Reason: "page missing"}
	}
	if len(page.ImageInfo) == 0 {
		return provider.ImageInfo{}, &MalformedResponseError{URL: reqURL, Reason: "no imageinfo entries"}
	}
	item := page.ImageInfo[0]
	if item.ThumbURL == "" || item.User == "" {
		return provider.ImageInfo{}, &MalformedResponseError{URL: reqURL, Reason: "imageinfo missing thumburl or user"}
	}

	return provider.ImageInfo{
		Name:   title,
		URL:    item.ThumbURL,
		User:   item.User,
		Width:  item.ThumbWidth,
		Height: item.ThumbHeight,
	}, nil
}

func (c *Client) query(ctx context.Context, reqURL string, dest any) error {
	log.Debugf("Fetching Commons: %s", reqURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &NetworkError{URL: reqURL, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{URL: reqURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{URL: reqURL, StatusCode: resp.StatusCode, Err: errors.New(resp.Status)}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &MalformedResponseError{URL: reqURL, Reason: "decode response", Err: err}
	}
	return nil
}

// IsImageTitle reports whether the part after the final '.' is jpg, jpeg or png, ignoring case.
func IsImageTitle(title string) bool {
	dot := strings.LastIndex(title, ".")
	if dot < 0 {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(title[dot+1:])]
	return ok
}
