package geo

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/daylight-go/internal/errors"
)

func TestCoordinateValidate(t *testing.T) {
	valid := []Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 90, Longitude: 180},
		{Latitude: -90, Longitude: -180},
		{Latitude: 60.1699, Longitude: 24.9384},
	}
	for _, coord := range valid {
		assert.NoError(t, coord.Validate(), "%v should be valid", coord)
	}

	invalid := []Coordinate{
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -181},
	}
	for _, coord := range invalid {
		err := coord.Validate()
		require.Error(t, err, "%v should be invalid", coord)
		assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	}
}

func TestCoordinateString(t *testing.T) {
	assert.Equal(t, "60.17:24.94", Coordinate{Latitude: 60.1699, Longitude: 24.9384}.String())
	assert.Equal(t, "51.51:-0.13", Coordinate{Latitude: 51.5074456, Longitude: -0.1277653}.String())
	assert.Equal(t, "0.00:0.00", Coordinate{}.String())
}

func TestLocationInfoJSON(t *testing.T) {
	info := LocationInfo{
		Coordinate: Coordinate{Latitude: 60.1699, Longitude: 24.9384},
		Name:       "Helsinki",
	}

	raw, err := json.Marshal(info)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lat":60.1699,"lon":24.9384,"name":"Helsinki"}`, string(raw))

	var back LocationInfo
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, info, back)
}
