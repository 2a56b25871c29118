package fetcher

import (
	"log/slog"
	"time"

	"github.com/gocolly/colly/v2"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	collector *colly.Collector

	// state of the request in flight; fetching is sequential
	body     []byte
	fetchErr *FetchError
}

// NewCollyFetcher creates a new CollyFetcher instance. delay spaces out
// consecutive requests.
func NewCollyFetcher(delay time.Duration) *CollyFetcher {
	c := colly.NewCollector(
		colly.UserAgent(userAgent),
		colly.AllowURLRevisit(),
	)

	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       delay,
	})

	cf := &CollyFetcher{collector: c}

	c.OnResponse(func(r *colly.Response) {
		cf.body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		cf.fetchErr = &FetchError{
			URL:        r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Err:        err,
		}
	})

	return cf
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(url string) ([]byte, error) {
	cf.body = nil
	cf.fetchErr = nil

	slog.Debug("fetching page", "url", url)
	err := cf.collector.Visit(url)
	cf.collector.Wait()

	if cf.fetchErr != nil {
		return nil, cf.fetchErr
	}
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	return cf.body, nil
}
