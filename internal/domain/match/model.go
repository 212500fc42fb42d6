package match

import (
	"strings"
	"time"
)

const (
	FormatTest  = "Test"
	FormatODI   = "ODI"
	FormatT20   = "T20"
	FormatOther = "Other"
)

// Match is the aggregate root of the sync pipeline. It is created on the
// first successful scorecard transform, updated in place by reconciliation,
// and never deleted.
type Match struct {
	ID          string
	SeriesID    string
	SeriesName  string
	MatchDate   time.Time
	TeamOneID   string
	TeamOneName string
	TeamTwoID   string
	TeamTwoName string
	Format      string
	Result      string
	Priority    int
	VenueID     string
	VenueName   string
}

func NormalizeFormat(value string) string {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "TEST":
		return FormatTest
	case "ODI", "ONE-DAY", "ONEDAY":
		return FormatODI
	case "T20", "T20I", "TWENTY20":
		return FormatT20
	default:
		return FormatOther
	}
}

// IsProvisionalResult reports whether a stored result text was captured
// before the match finished and should be revisited by reconciliation.
func IsProvisionalResult(result string) bool {
	text := strings.ToLower(result)
	return strings.Contains(text, "in progress") || strings.Contains(text, "yet to begin")
}
