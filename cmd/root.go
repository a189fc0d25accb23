package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tphakala/daylight-go/cmd/chart"
	"github.com/tphakala/daylight-go/cmd/locate"
	"github.com/tphakala/daylight-go/cmd/search"
	"github.com/tphakala/daylight-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "daylight",
		Short: "Daylight CLI",
		Long:  "Charts the length of daylight across calendar days for a location.",
	}

	// Set up the global flags for the root command.
	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	subcommands := []*cobra.Command{
		chart.Command(settings),
		locate.Command(settings),
		search.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().Float64Var(&settings.Location.Latitude, "latitude", viper.GetFloat64("location.latitude"), "Latitude of the observer position")
	rootCmd.PersistentFlags().Float64Var(&settings.Location.Longitude, "longitude", viper.GetFloat64("location.longitude"), "Longitude of the observer position")
	rootCmd.PersistentFlags().StringVar(&settings.Location.Locale, "locale", viper.GetString("location.locale"), "Locale for chart labels, e.g. en or ru")
	rootCmd.PersistentFlags().StringVar(&settings.Location.Language, "language", viper.GetString("location.language"), "Accept-language for geocoding requests")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
