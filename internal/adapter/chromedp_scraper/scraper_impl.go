package chromedp_scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
)

// JS evaluated in the page to read the meta description, falling back to
// the OpenGraph description. Returns "" when neither is present.
const metaDescriptionJS = `(() => {
	const meta = document.querySelector('meta[name="description"]')
		|| document.querySelector('meta[property="og:description"]');
	return meta && meta.content ? meta.content.trim() : '';
})()`

// ChromedpScraper drives a headless Chrome instance per Scrape call. The
// allocator contexts are pooled so repeated scrapes reuse browser
// processes instead of cold-starting one each time.
type ChromedpScraper struct {
	allocatorPool *sync.Pool
	timeout       time.Duration
}

// NewChromedpScraper creates a new scraper implementation using chromedp.
func NewChromedpScraper(maxConcurrency int, navigationTimeout time.Duration) (repository.PageScraper, error) {
	pool := &sync.Pool{
		New: func() interface{} {
			opts := append(chromedp.DefaultExecAllocatorOptions[:],
				chromedp.Flag("headless", true),
				chromedp.Flag("disable-gpu", true),
				chromedp.Flag("no-sandbox", true),
				chromedp.Flag("disable-dev-shm-usage", true),
				chromedp.UserAgent(`Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/108.0.0.0 Safari/537.36`),
			)
			allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
			return allocCtx
		},
	}

	// Pre-warm the pool
	for i := 0; i < maxConcurrency; i++ {
		allocCtx := pool.Get().(context.Context)
		pool.Put(allocCtx)
	}

	return &ChromedpScraper{
		allocatorPool: pool,
		timeout:       navigationTimeout,
	}, nil
}

// Scrape navigates to url and extracts the page title and meta
// description. The browser context is released via defer on every exit
// path.
func (s *ChromedpScraper) Scrape(ctx context.Context, url string) (*entity.PageSnapshot, error) {
	allocCtx := s.allocatorPool.Get().(context.Context)
	defer s.allocatorPool.Put(allocCtx)

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	taskCtx, cancel = context.WithTimeout(taskCtx, s.timeout)
	defer cancel()

	// The main-document response status arrives as a network event; there
	// is no DOM-side way to read it.
	statusCode := 0
	chromedp.ListenTarget(taskCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument && statusCode == 0 {
				statusCode = int(resp.Response.Status)
			}
		}
	})

	var title string
	startTime := time.Now()

	err := chromedp.Run(taskCtx,
		network.Enable(),
		chromedp.Navigate(url),
		chromedp.Title(&title),
	)
	loadTime := time.Since(startTime).Milliseconds()

	if err != nil {
		return nil, classifyNavigationError(url, err)
	}

	// Extraction of the description is best effort. A page without one is
	// normal; an eval fault falls back to the sentinel too.
	description := ""
	if evalErr := chromedp.Run(taskCtx, chromedp.Evaluate(metaDescriptionJS, &description)); evalErr != nil {
		slog.Warn("Meta description extraction failed, using fallback", "url", url, "error", evalErr)
	}
	description = strings.TrimSpace(description)
	if description == "" {
		description = entity.NoMetaDescription
	}

	slog.Info("Successfully scraped page", "url", url, "title", title, "status_code", statusCode, "load_time_ms", loadTime)

	return &entity.PageSnapshot{
		URL:            url,
		Title:          strings.TrimSpace(title),
		Description:    description,
		HTTPStatusCode: statusCode,
		LoadTimeMS:     int(loadTime),
		FetchedAt:      time.Now().UTC(),
	}, nil
}

func classifyNavigationError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s", repository.ErrNavigationTimeout, url)
	}
	return fmt.Errorf("%w: %s: %v", repository.ErrNavigationFailed, url, err)
}
