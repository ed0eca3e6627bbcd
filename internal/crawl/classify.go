package crawl

import (
	"strings"

	"github.com/DanielFillol/CrawlerNavigator/internal/record"
)

// DefaultRestrictedMarker appears in the profile link of results outside the
// searcher's network.
const DefaultRestrictedMarker = "OUT_OF_NETWORK"

// Classify returns Restricted when link carries marker and Full otherwise.
// An empty marker classifies everything as Full.
func Classify(link, marker string) record.Relationship {
	if marker != "" && strings.Contains(link, marker) {
		return record.Restricted
	}
	return record.Full
}
