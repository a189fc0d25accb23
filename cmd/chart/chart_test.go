package chart

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/daylight-go/internal/conf"
	"github.com/tphakala/daylight-go/internal/daterange"
)

func TestCommandFlags(t *testing.T) {
	cmd := Command(&conf.Settings{})

	year := cmd.Flags().Lookup("year")
	require.NotNil(t, year)
	assert.Equal(t, "0", year.DefValue)

	halfWindow := cmd.Flags().Lookup("half-window")
	require.NotNil(t, halfWindow)
	assert.Equal(t, strconv.Itoa(daterange.DefaultHalfWindow), halfWindow.DefValue)

	selected := cmd.Flags().Lookup("selected")
	require.NotNil(t, selected)
	assert.Equal(t, "false", selected.DefValue)
}
