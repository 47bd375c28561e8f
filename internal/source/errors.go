package source

import (
	"fmt"
	"net/url"
)

// NetworkError reports a failed round trip to a remote feed: transport
// errors, timeouts, non-2xx responses and undecodable bodies.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int
	Code       string
	Message    string
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d (%s): %s", e.Op, e.URL, e.StatusCode, e.Code, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	}
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// redact drops the api key from a request URL so it never ends up in logs.
func redact(u *url.URL) string {
	c := *u
	q := c.Query()
	if q.Has("apiKey") {
		q.Set("apiKey", "REDACTED")
		c.RawQuery = q.Encode()
	}
	return c.String()
}
