package entity

import "time"

// NoMetaDescription is the sentinel stored when a page carries no usable
// meta description. Absence of a description is not a scrape failure.
const NoMetaDescription = "No meta description found"

// PageSnapshot is what a single browser visit extracts from a page.
type PageSnapshot struct {
	URL            string
	Title          string
	Description    string
	HTTPStatusCode int
	LoadTimeMS     int
	FetchedAt      time.Time
}
