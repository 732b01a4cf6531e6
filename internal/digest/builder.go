// Package digest builds the per-subscriber watchlist report: series are
// bucketed by schedule certainty, scheduled entries are ordered by urgency,
// and the result is rendered as one formatted message per subscriber.
package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vrsandeep/telly-go/internal/models"
)

// EmptyWatchlistText is the report for a subscriber who follows nothing.
const EmptyWatchlistText = "You're not following any TV shows yet. Please use the `follow` command to follow some TV shows first."

const placeholderLine = "_Read a book_"

// entry is one scheduled series with its distance from the report's "today".
type entry struct {
	series    *models.Series
	daysUntil int
}

// BuildReport renders the digest for one subscriber's followed series. The
// whole report is computed against the single `today` snapshot so a run that
// straddles midnight stays internally consistent.
func BuildReport(followed []*models.Series, today time.Time) string {
	var scheduled []entry
	var unscheduled, cancelled []string

	for _, series := range followed {
		switch series.Category() {
		case models.CategoryKnown:
			scheduled = append(scheduled, entry{
				series:    series,
				daysUntil: daysUntil(series.NextEpisode.AirDate, today),
			})
		case models.CategoryUnknown:
			unscheduled = append(unscheduled, series.Name)
		case models.CategoryCancelled:
			cancelled = append(cancelled, series.Name)
		}
	}

	// Soonest first; ties resolve by name so the report is deterministic.
	sort.SliceStable(scheduled, func(i, j int) bool {
		if scheduled[i].daysUntil != scheduled[j].daysUntil {
			return scheduled[i].daysUntil < scheduled[j].daysUntil
		}
		return strings.ToLower(scheduled[i].series.Name) < strings.ToLower(scheduled[j].series.Name)
	})
	sort.Strings(unscheduled)
	sort.Strings(cancelled)

	var b strings.Builder

	b.WriteString("*TODAY*")
	writeBucket(&b, scheduled, 0)

	b.WriteString("\n\n*TOMORROW*")
	writeBucket(&b, scheduled, 1)

	b.WriteString("\n\n*LATER*")
	for _, e := range scheduled {
		if e.daysUntil > 1 {
			fmt.Fprintf(&b, "\n>[%dd] %s", e.daysUntil, episodeLine(e.series))
		}
	}

	if len(unscheduled) > 0 {
		b.WriteString("\n\n*UNSCHEDULED*")
		for _, name := range unscheduled {
			fmt.Fprintf(&b, "\n>%s", name)
		}
	}
	if len(cancelled) > 0 {
		b.WriteString("\n\n*CANCELLED*")
		for _, name := range cancelled {
			fmt.Fprintf(&b, "\n>%s", name)
		}
	}

	return b.String()
}

// writeBucket renders the entries airing exactly `days` from today, or the
// placeholder line when none do.
func writeBucket(b *strings.Builder, scheduled []entry, days int) {
	any := false
	for _, e := range scheduled {
		if e.daysUntil != days {
			continue
		}
		any = true
		fmt.Fprintf(b, "\n>%s", episodeLine(e.series))
	}
	if !any {
		b.WriteString("\n" + placeholderLine)
	}
}

// episodeLine renders "Name `sSS.eNN`", with a party marker for premieres.
func episodeLine(series *models.Series) string {
	ep := series.NextEpisode
	line := fmt.Sprintf("%s `s%02d.e%02d`", series.Name, ep.Season, ep.Number)
	if ep.IsPremiere() {
		line += "    :tada:"
	}
	return line
}

// daysUntil computes the calendar-day distance between two instants,
// ignoring the time of day on both sides.
func daysUntil(airDate, today time.Time) int {
	a := time.Date(airDate.Year(), airDate.Month(), airDate.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	return int(a.Sub(t).Hours() / 24)
}
