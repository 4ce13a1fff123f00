package airquality

import (
	"time"
)

// SummaryDateLayout is the layout of DailySummary.IssueDate.
const SummaryDateLayout = "2006-01-02 15:04:05"

var summaryLayouts = []string{SummaryDateLayout, time.RFC3339, "2006-01-02"}

// ParseIssueDate parses the summary issue date in loc.
func ParseIssueDate(s string, loc *time.Location) (time.Time, bool) {
	for _, layout := range summaryLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// SummaryTiming decides whether the summary was issued on the same day as
// now and labels its issue time as the morning or afternoon bulletin.
func SummaryTiming(summary *DailySummary, now time.Time) (showSummaryDate bool, issueTime string) {
	if summary == nil {
		return false, ""
	}
	issued, ok := ParseIssueDate(summary.IssueDate, now.Location())
	if !ok {
		return false, ""
	}
	y1, m1, d1 := issued.Date()
	y2, m2, d2 := now.Date()
	issueTime = "5am"
	if issued.Hour() >= 12 {
		issueTime = "5pm"
	}
	return y1 == y2 && m1 == m2 && d1 == d2, issueTime
}
