// internal/suncalc/suncalc.go

// Package suncalc computes the length of daylight for a calendar date and
// geographic coordinate using standard solar-position equations.
package suncalc

import (
	"context"
	"runtime"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sj14/astral/pkg/astral"
	"github.com/tphakala/daylight-go/internal/geo"
	"golang.org/x/sync/errgroup"
)

// HoursPerDay bounds every day-length result.
const HoursPerDay = 24.0

// DayLength returns the hours of daylight for the given calendar date and
// coordinate, always within [0, 24].
//
// When sunrise or sunset is undefined, or sunset does not follow sunrise
// (polar day or polar night), the sun's elevation at solar noon decides the
// result: above the horizon means continuous day (24), otherwise
// continuous night (0). Subtracting two undefined instants would produce a
// bogus value, so the disambiguation is unconditional.
func DayLength(date time.Time, coord geo.Coordinate) float64 {
	observer := astral.Observer{Latitude: coord.Latitude, Longitude: coord.Longitude}

	sunrise, errRise := astral.Sunrise(observer, date)
	sunset, errSet := astral.Sunset(observer, date)

	if errRise != nil || errSet != nil || !sunset.After(sunrise) {
		noon := astral.Noon(observer, date)
		if astral.Elevation(observer, noon, true) > 0 {
			return HoursPerDay
		}
		return 0
	}

	hours := sunset.Sub(sunrise).Hours()
	return clampHours(hours)
}

func clampHours(hours float64) float64 {
	switch {
	case hours < 0:
		return 0
	case hours > HoursPerDay:
		return HoursPerDay
	default:
		return hours
	}
}

// Calculator computes day lengths for a fixed coordinate, memoizing results
// per calendar date.
type Calculator struct {
	coord geo.Coordinate
	memo  *cache.Cache
}

// NewCalculator creates a Calculator for the given coordinate.
func NewCalculator(coord geo.Coordinate) *Calculator {
	// No janitor goroutine, entries never expire: a (date, coordinate)
	// result is immutable.
	return &Calculator{
		coord: coord,
		memo:  cache.New(cache.NoExpiration, 0),
	}
}

// Coordinate returns the coordinate this calculator is bound to.
func (c *Calculator) Coordinate() geo.Coordinate {
	return c.coord
}

// DayLength returns the hours of daylight for one date, using the memo if
// the date was computed before.
func (c *Calculator) DayLength(date time.Time) float64 {
	dateKey := date.Format("2006-01-02")

	if hours, found := c.memo.Get(dateKey); found {
		return hours.(float64)
	}

	hours := DayLength(date, c.coord)
	c.memo.Set(dateKey, hours, cache.NoExpiration)
	return hours
}

// DayLengths computes the day length for every date in order. Entries are
// elementwise independent, so the batch is computed in parallel; the result
// has the same length and order as dates.
func (c *Calculator) DayLengths(ctx context.Context, dates []time.Time) ([]float64, error) {
	hours := make([]float64, len(dates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, date := range dates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hours[i] = c.DayLength(date)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return hours, nil
}
