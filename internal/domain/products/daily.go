package products

import (
	"strings"
	"time"
)

// DefaultBaseURL is the daily leaderboard mirror.
const DefaultBaseURL = "https://decohack.com/producthunt-daily"

// DailyURL returns the leaderboard page for the day before date; the page for
// a day is only complete once that day is over.
func DailyURL(base string, date time.Time) string {
	if base == "" {
		base = DefaultBaseURL
	}
	return strings.TrimRight(base, "-") + "-" + ListingDate(date).Format("2006-01-02")
}

// ListingDate is the leaderboard day analysed on date.
func ListingDate(date time.Time) time.Time {
	return date.AddDate(0, 0, -1)
}
