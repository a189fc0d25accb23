// Package chart assembles the chart boundary payload: a numeric day-length
// series, matching axis labels, and the index marking today. Rendering
// here is plain text; graphical rendering is a consumer concern.
package chart

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/tphakala/daylight-go/internal/daterange"
	"github.com/tphakala/daylight-go/internal/errors"
	"github.com/tphakala/daylight-go/internal/labels"
	"github.com/tphakala/daylight-go/internal/suncalc"
)

// Data is the chart boundary payload. Series, Labels and PointLabels have
// equal length; TodayIndex is daterange.NotFound when today is outside the
// window.
type Data struct {
	Dates       []time.Time
	Series      []float64
	Labels      []string
	PointLabels []string
	TodayIndex  int
}

// Build derives the chart payload from a date window and its day-length
// series. The clock determines which entry counts as today.
func Build(dates []time.Time, hours []float64, locale string, clock func() time.Time) (Data, error) {
	if len(dates) != len(hours) {
		return Data{}, errors.Newf("dates and series length mismatch: %d != %d", len(dates), len(hours)).
			Component("chart").
			Category(errors.CategoryValidation).
			Build()
	}
	if clock == nil {
		clock = time.Now
	}

	return Data{
		Dates:       dates,
		Series:      hours,
		Labels:      labels.YearMonth(dates, locale),
		PointLabels: labels.MonthDays(dates, locale),
		TodayIndex:  daterange.IndexForDate(dates, clock()),
	}, nil
}

const barWidth = 48

// Render writes the chart as an aligned text table, one row per day, with
// a proportional bar and a marker on today's row.
func (d Data) Render(w io.Writer) error {
	for i := range d.Series {
		bar := strings.Repeat("█", barCells(d.Series[i]))
		marker := ""
		if i == d.TodayIndex {
			marker = "  ◀ today"
		}
		_, err := fmt.Fprintf(w, "%-10s %5.2fh %-*s%s\n", d.PointLabels[i], d.Series[i], barWidth, bar, marker)
		if err != nil {
			return err
		}
	}
	return nil
}

func barCells(hours float64) int {
	cells := int(hours / suncalc.HoursPerDay * barWidth)
	if cells < 0 {
		return 0
	}
	if cells > barWidth {
		return barWidth
	}
	return cells
}
