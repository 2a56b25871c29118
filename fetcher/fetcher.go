package fetcher

import "fmt"

// Fetcher interface defines the contract for page retrieval implementations
type Fetcher interface {
	// Fetch retrieves the raw HTML for the given URL
	Fetch(url string) ([]byte, error)
}

// FetchError describes a failed page retrieval. StatusCode is zero when
// the failure happened before an HTTP response arrived.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
