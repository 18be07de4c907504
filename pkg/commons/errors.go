package commons

import "fmt"

// NetworkError reports a request that failed in transport or returned a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("commons request %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("commons request %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a response body missing the fields we need.
type MalformedResponseError struct {
	URL    string
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed commons response from %s: %s: %v", e.URL, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed commons response from %s: %s", e.URL, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
