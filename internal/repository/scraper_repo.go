package repository

import (
	"context"
	"errors"

	"github.com/user/aimpact-scanner/internal/entity"
)

var (
	// ErrNavigationTimeout indicates the page did not load within the
	// configured navigation deadline.
	ErrNavigationTimeout = errors.New("page navigation timed out")
	// ErrNavigationFailed indicates the browser could not navigate to the
	// URL at all (DNS failure, connection refused, bad scheme).
	ErrNavigationFailed = errors.New("page navigation failed")
	// ErrExtractionFailed indicates the page loaded but field extraction
	// raised an unexpected fault.
	ErrExtractionFailed = errors.New("page field extraction failed")
)

// PageScraper defines the contract for the browser-driven page visit.
// Implementations own a scoped browser session per call and must release
// it on every exit path.
type PageScraper interface {
	// Scrape navigates to url with a bounded timeout and extracts the
	// page title and a best-effort meta description.
	Scrape(ctx context.Context, url string) (*entity.PageSnapshot, error)
}
