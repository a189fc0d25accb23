// Package search implements the search subcommand: free-text place search
// with optional selection of a result as the current location.
package search

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tphakala/daylight-go/internal/app"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/geo"
)

// Command returns the search subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var selectIndex int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search for a place by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, settings, strings.Join(args, " "), selectIndex)
		},
	}

	cmd.Flags().IntVar(&selectIndex, "select", 0, "Select result N (1-based) as the current location")

	return cmd
}

func runSearch(cmd *cobra.Command, settings *conf.Settings, query string, selectIndex int) error {
	a, err := app.New(settings)
	if err != nil {
		return err
	}
	defer a.Close()

	results, err := a.Search.Search(cmd.Context(), query)
	if err != nil {
		// Search errors are recoverable: report and let the user retry.
		return fmt.Errorf("place search failed: %w", err)
	}

	if len(results) == 0 {
		fmt.Println("No places found.")
		return nil
	}

	for i, result := range results {
		fmt.Printf("%2d. %s (%s) %s\n", i+1, result.Name, result.Coordinate, result.FullName)
	}

	if selectIndex > 0 {
		if selectIndex > len(results) {
			return fmt.Errorf("no result %d, only %d results", selectIndex, len(results))
		}
		picked := results[selectIndex-1]
		a.Resolver.SelectLocation(geo.LocationInfo{Coordinate: picked.Coordinate, Name: picked.Name})
		fmt.Printf("\nSelected %s as the current location. Chart it with 'daylight chart --selected'.\n", picked.Name)
	}
	return nil
}
