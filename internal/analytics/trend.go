package analytics

import (
	"time"

	"surveyanalytics/internal/domains"
)

// All calendar bucketing is done in UTC.

const dateLayout = "2006-01-02"

type Range string

const (
	Range7d  Range = "7d"
	Range30d Range = "30d"
	Range90d Range = "90d"
	Range1y  Range = "1y"

	DefaultRange = Range30d
)

var rangeDays = map[Range]int{
	Range7d:  7,
	Range30d: 30,
	Range90d: 90,
	Range1y:  365,
}

// ParseRange returns the named range, or fallback when s is empty or unknown.
func ParseRange(s string, fallback Range) Range {
	if _, ok := rangeDays[Range(s)]; ok {
		return Range(s)
	}
	if _, ok := rangeDays[fallback]; ok {
		return fallback
	}
	return DefaultRange
}

func (r Range) Days() int {
	if days, ok := rangeDays[r]; ok {
		return days
	}
	return rangeDays[DefaultRange]
}

// Window returns the first instant of the oldest day in the range. The range
// ends with today, so a 7d window covers today and the six days before it.
func (r Range) Window(now time.Time) time.Time {
	today := startOfDay(now)
	return today.AddDate(0, 0, -(r.Days() - 1))
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ResponsesSince keeps responses created at or after since and not after now.
func ResponsesSince(responses []domains.Response, since, now time.Time) []domains.Response {
	kept := make([]domains.Response, 0, len(responses))
	for _, r := range responses {
		if r.CreatedAt.Before(since) || r.CreatedAt.After(now) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

// BuildTrend emits one point per calendar day of the range, oldest first,
// zero-filled where no session started.
func BuildTrend(sessions []Session, totalQuestions int, r Range, now time.Time) []domains.TrendPoint {
	days := r.Days()
	start := r.Window(now)

	type dayAcc struct {
		count   int
		rateSum float64
	}
	buckets := make([]dayAcc, days)
	for _, s := range sessions {
		offset := int(startOfDay(s.StartedAt).Sub(start).Hours() / 24)
		if offset < 0 || offset >= days {
			continue
		}
		buckets[offset].count++
		buckets[offset].rateSum += s.CompletionRate(totalQuestions)
	}

	points := make([]domains.TrendPoint, 0, days)
	for i, b := range buckets {
		point := domains.TrendPoint{
			Date:          start.AddDate(0, 0, i).Format(dateLayout),
			ResponseCount: b.count,
		}
		if b.count > 0 {
			point.CompletionRate = round1(b.rateSum / float64(b.count))
		}
		points = append(points, point)
	}
	return points
}

// BuildTimeAnalytics histograms session starts by hour of day and weekday.
// All 24 hours and 7 days are always present; weekdays start on Sunday.
func BuildTimeAnalytics(sessions []Session) domains.TimeAnalytics {
	hourly := make([]domains.HourBucket, 24)
	for h := range hourly {
		hourly[h].Hour = h
	}
	weekday := make([]domains.WeekdayBucket, 7)
	for d := range weekday {
		weekday[d].Day = time.Weekday(d).String()
	}

	for _, s := range sessions {
		started := s.StartedAt.UTC()
		hourly[started.Hour()].Count++
		weekday[int(started.Weekday())].Count++
	}
	return domains.TimeAnalytics{Hourly: hourly, Weekday: weekday}
}
