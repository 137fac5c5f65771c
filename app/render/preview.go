package render

import (
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Ellipsis marks a truncated preview.
const Ellipsis = "..."

// Preview returns the first n whitespace-separated words of content followed by
// Ellipsis, or content unchanged when it has n words or fewer.
func Preview(content string, n int) string {
	words := strings.Fields(content)
	if n < 1 || len(words) <= n {
		return content
	}
	return strings.Join(words[:n], " ") + Ellipsis
}

// Date layouts matching the ones shown to readers.
const (
	DateTimeLayout = "January 02, 2006 at 03:04 PM"
	DateLayout     = "January 02, 2006"
)

// Since renders t relative to now, e.g. "3 minutes ago".
func Since(t time.Time) string {
	return humanize.Time(t)
}
