package evidence

import (
	"net/url"
	"strings"
)

const (
	textQueryRunes = 200
	pageQueryRunes = 100
)

// TextQuery derives a search query from a free-text claim
func TextQuery(content string) string {
	return Truncate(strings.TrimSpace(content), textQueryRunes)
}

// URLQuery derives a fact-check query from a domain and its page text.
// Returns "" when there is no page text, meaning no search should run.
func URLQuery(domain, pageText string) string {
	if strings.TrimSpace(pageText) == "" {
		return ""
	}
	return domain + " " + Truncate(pageText, pageQueryRunes) + " fact check"
}

// Domain returns the host of an absolute URL without any port
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
