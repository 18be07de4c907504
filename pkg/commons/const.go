package commons

import "time"

const (
	// CommonsBaseURL is the base URL for the Wikimedia Commons API
	CommonsBaseURL = "https://commons.wikimedia.org/w/api.php"

	// CommonsUserAgent is the required User-Agent header for Wikimedia API requests.
	// Policy: https://meta.wikimedia.org/wiki/User-Agent_policy
	CommonsUserAgent = "Chronophoto/1.0 (https://github.com/dixieflatline76/Chronophoto; contact@dixieflatline.com)"

	// DefaultThumbWidth is the thumbnail width requested through iiurlwidth.
	DefaultThumbWidth = 800

	// CategoryMemberLimit is the cmlimit of a category listing. No continuation is followed.
	CategoryMemberLimit = 500

	// DefaultTimeout bounds a single API request.
	DefaultTimeout = 20 * time.Second

	// DefaultRate and DefaultBurst pace requests to the API.
	DefaultRate  = 5.0
	DefaultBurst = 2
)

// imageExtensions are the file types the display can show.
var imageExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}
