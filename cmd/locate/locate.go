// Package locate implements the locate subcommand: resolve and print the
// current location.
package locate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tphakala/daylight-go/internal/app"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/location"
)

// Command returns the locate subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var (
		refresh  bool
		selected bool
	)

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Resolve the current location",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLocate(cmd, settings, refresh, selected)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "Ignore the remembered location and resolve again")
	cmd.Flags().BoolVar(&selected, "selected", false, "Use the last location picked from search results")

	return cmd
}

// locationSource is the subset of the resolver the command needs.
type locationSource interface {
	Resolve(ctx context.Context, forceRefresh bool) geo.LocationInfo
	LastSelected() geo.LocationInfo
	State() location.State
}

// currentLocation picks the location to report: the last user selection
// when requested, otherwise the resolution flow. The second result reports
// whether the resolution fell back to a remembered location.
func currentLocation(ctx context.Context, src locationSource, refresh, selected bool) (geo.LocationInfo, bool) {
	if selected {
		return src.LastSelected(), false
	}
	info := src.Resolve(ctx, refresh)
	return info, src.State() == location.StateFallbackUsed
}

func runLocate(cmd *cobra.Command, settings *conf.Settings, refresh, selected bool) error {
	a, err := app.New(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	info, fellBack := currentLocation(cmd.Context(), a.Resolver, refresh, selected)

	fmt.Printf("%s (%s)\n", info.Name, info.Coordinate)
	if fellBack {
		fmt.Println("note: device position unavailable, using last known location")
	}
	return nil
}
