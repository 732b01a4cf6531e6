package digest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vrsandeep/telly-go/internal/models"
)

var reportDay = time.Date(2023, 6, 15, 9, 30, 0, 0, time.UTC)

func scheduledSeries(name string, season, number, inDays int) *models.Series {
	return &models.Series{
		Name:   name,
		Status: models.StatusRunning,
		NextEpisode: &models.NextEpisode{
			Season:  season,
			Number:  number,
			AirDate: reportDay.AddDate(0, 0, inDays).Truncate(24 * time.Hour),
		},
	}
}

func TestBuildReportOrdersByUrgencyThenName(t *testing.T) {
	followed := []*models.Series{
		scheduledSeries("B", 1, 2, 5),
		scheduledSeries("A", 1, 2, 0),
		scheduledSeries("C", 1, 2, 1),
		scheduledSeries("D", 1, 2, 0),
	}

	report := BuildReport(followed, reportDay)

	expected := "*TODAY*\n" +
		">A `s01.e02`\n" +
		">D `s01.e02`\n" +
		"\n*TOMORROW*\n" +
		">C `s01.e02`\n" +
		"\n*LATER*\n" +
		">[5d] B `s01.e02`"
	assert.Equal(t, expected, report)
}

func TestBuildReportSortIsCaseInsensitive(t *testing.T) {
	followed := []*models.Series{
		scheduledSeries("banana", 1, 2, 0),
		scheduledSeries("Apple", 1, 2, 0),
	}

	report := BuildReport(followed, reportDay)
	assert.Equal(t, "*TODAY*\n>Apple `s01.e02`\n>banana `s01.e02`\n\n*TOMORROW*\n_Read a book_\n\n*LATER*", report)
}

func TestBuildReportMarksPremieres(t *testing.T) {
	followed := []*models.Series{scheduledSeries("Westworld", 4, 1, 0)}

	report := BuildReport(followed, reportDay)
	assert.Contains(t, report, ">Westworld `s04.e01`    :tada:")
}

func TestBuildReportPlaceholders(t *testing.T) {
	report := BuildReport(nil, reportDay)
	assert.Equal(t, "*TODAY*\n_Read a book_\n\n*TOMORROW*\n_Read a book_\n\n*LATER*", report)
}

func TestBuildReportBucketsEverySeries(t *testing.T) {
	followed := []*models.Series{
		scheduledSeries("Scheduled", 2, 3, 3),
		{Name: "Hiatus", Status: models.StatusRunning},
		{Name: "Done", Status: models.StatusEnded},
		{Name: "Maybe", Status: models.StatusTBD},
	}

	report := BuildReport(followed, reportDay)

	assert.Contains(t, report, "*LATER*\n>[3d] Scheduled `s02.e03`")
	assert.Contains(t, report, "*UNSCHEDULED*\n>Hiatus")
	// A series without a date and not running collapses to cancelled,
	// even when the catalog still calls it "To Be Determined".
	assert.Contains(t, report, "*CANCELLED*\n>Done\n>Maybe")
}

func TestBuildReportOmitsEmptyTailSections(t *testing.T) {
	report := BuildReport([]*models.Series{scheduledSeries("Only", 1, 5, 0)}, reportDay)
	assert.NotContains(t, report, "*UNSCHEDULED*")
	assert.NotContains(t, report, "*CANCELLED*")
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	// 23:59 today vs 00:01 tomorrow is still one calendar day apart.
	lateTonight := time.Date(2023, 6, 15, 23, 59, 0, 0, time.UTC)
	earlyTomorrow := time.Date(2023, 6, 16, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, daysUntil(earlyTomorrow, lateTonight))
	assert.Equal(t, 0, daysUntil(lateTonight, lateTonight))
}
