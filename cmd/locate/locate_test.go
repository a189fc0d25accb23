package locate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/geo"
	"github.com/tphakala/daylight-go/internal/location"
)

// stubSource records how it was consulted.
type stubSource struct {
	resolved     geo.LocationInfo
	selected     geo.LocationInfo
	state        location.State
	resolveCalls int
	lastRefresh  bool
}

func (s *stubSource) Resolve(ctx context.Context, forceRefresh bool) geo.LocationInfo {
	s.resolveCalls++
	s.lastRefresh = forceRefresh
	return s.resolved
}

func (s *stubSource) LastSelected() geo.LocationInfo {
	return s.selected
}

func (s *stubSource) State() location.State {
	return s.state
}

func TestCurrentLocationResolves(t *testing.T) {
	src := &stubSource{
		resolved: geo.LocationInfo{Coordinate: geo.Coordinate{Latitude: 60.1699, Longitude: 24.9384}, Name: "Helsinki"},
		state:    location.StateResolved,
	}

	info, fellBack := currentLocation(context.Background(), src, false, false)

	assert.Equal(t, "Helsinki", info.Name)
	assert.False(t, fellBack)
	assert.Equal(t, 1, src.resolveCalls)
	assert.False(t, src.lastRefresh)
}

func TestCurrentLocationRefresh(t *testing.T) {
	src := &stubSource{state: location.StateResolved}

	currentLocation(context.Background(), src, true, false)

	assert.True(t, src.lastRefresh)
}

func TestCurrentLocationReportsFallback(t *testing.T) {
	src := &stubSource{
		resolved: location.DefaultLocation,
		state:    location.StateFallbackUsed,
	}

	info, fellBack := currentLocation(context.Background(), src, false, false)

	assert.Equal(t, "London", info.Name)
	assert.True(t, fellBack)
}

func TestCurrentLocationSelected(t *testing.T) {
	src := &stubSource{
		resolved: geo.LocationInfo{Coordinate: geo.Coordinate{Latitude: 60.1699, Longitude: 24.9384}, Name: "Helsinki"},
		selected: geo.LocationInfo{Coordinate: geo.Coordinate{Latitude: 35.6762, Longitude: 139.6503}, Name: "Tokyo"},
		state:    location.StateResolved,
	}

	// The selection wins over the resolution flow, which must not run.
	info, fellBack := currentLocation(context.Background(), src, false, true)

	assert.Equal(t, "Tokyo", info.Name)
	assert.False(t, fellBack)
	assert.Equal(t, 0, src.resolveCalls)
}

func TestCommandFlags(t *testing.T) {
	cmd := Command(&conf.Settings{})

	for _, name := range []string{"refresh", "selected"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "missing flag %q", name)
		assert.Equal(t, "false", flag.DefValue)
	}
}
