// Package chart implements the chart subcommand: a day-length chart for a
// year or for a window centered on today.
package chart

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tphakala/daylight-go/internal/app"
	"github.com/tphakala/daylight-go/internal/chart"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/daterange"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/suncalc"
)

// Command returns the chart subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		year       int
		halfWindow int
		selected   bool
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Chart day length across calendar days",
		Long: "Charts hours of daylight for the resolved location, either for a " +
			"whole year or for a window centered on today.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(cmd, settings, year, halfWindow, selected)
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "Chart a whole calendar year instead of a window around today")
	cmd.Flags().IntVar(&halfWindow, "half-window", daterange.DefaultHalfWindow, "Days to either side of today in window mode")
	cmd.Flags().BoolVar(&selected, "selected", false, "Chart the last location picked from search results")

	return cmd
}

func runChart(cmd *cobra.Command, settings *conf.Settings, year, halfWindow int, selected bool) error {
	a, err := app.New(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()

	// Explicit coordinates and the last search selection bypass the
	// resolution flow entirely.
	var info geo.LocationInfo
	switch {
	case selected:
		info = a.Resolver.LastSelected()
	case cmd.Flags().Changed("latitude") || cmd.Flags().Changed("longitude"):
		coord := geo.Coordinate{
			Latitude:  settings.Location.Latitude,
			Longitude: settings.Location.Longitude,
		}
		if err := coord.Validate(); err != nil {
			return err
		}
		info = geo.LocationInfo{Coordinate: coord, Name: a.Names.ResolveName(ctx, coord, settings.Location.Language)}
	default:
		info = a.Resolver.Resolve(ctx, false)
	}

	var dates []time.Time
	if year != 0 {
		dates = daterange.YearDays(year)
	} else {
		dates = daterange.DaysAround(time.Now(), halfWindow)
	}

	calc := suncalc.NewCalculator(info.Coordinate)
	hours, err := calc.DayLengths(ctx, dates)
	if err != nil {
		return err
	}

	data, err := chart.Build(dates, hours, settings.Location.Locale, time.Now)
	if err != nil {
		return err
	}

	fmt.Printf("Day length for %s (%s)\n\n", info.Name, info.Coordinate)
	if err := data.Render(os.Stdout); err != nil {
		return err
	}

	if data.TodayIndex != daterange.NotFound {
		fmt.Printf("\nToday: %s, %.2f hours of daylight\n",
			data.PointLabels[data.TodayIndex], data.Series[data.TodayIndex])
	}
	return nil
}
