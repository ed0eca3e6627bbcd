package crawl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
)

var pageParam = regexp.MustCompile(`([?&])page=\d+`)

// withPage rewrites the page query parameter of rawURL to n, appending it
// when the URL has none. Other parameters keep their order and encoding.
func withPage(rawURL string, n int) (string, error) {
	if pageParam.MatchString(rawURL) {
		return pageParam.ReplaceAllString(rawURL, "${1}page="+strconv.Itoa(n)), nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing result page url: %w", err)
	}
	if u.RawQuery == "" {
		u.RawQuery = "page=" + strconv.Itoa(n)
	} else {
		u.RawQuery += "&page=" + strconv.Itoa(n)
	}
	return u.String(), nil
}
