package match

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeFormat(t *testing.T) {
	t.Parallel()

	require.Equal(t, FormatTest, NormalizeFormat("test"))
	require.Equal(t, FormatTest, NormalizeFormat(" TEST "))
	require.Equal(t, FormatODI, NormalizeFormat("One-Day"))
	require.Equal(t, FormatODI, NormalizeFormat("ODI"))
	require.Equal(t, FormatT20, NormalizeFormat("T20I"))
	require.Equal(t, FormatT20, NormalizeFormat("twenty20"))
	require.Equal(t, FormatOther, NormalizeFormat("100-ball"))
	require.Equal(t, FormatOther, NormalizeFormat(""))
}

func TestIsProvisionalResult(t *testing.T) {
	t.Parallel()

	require.True(t, IsProvisionalResult("Match In Progress"))
	require.True(t, IsProvisionalResult("Day 2: play yet to begin"))
	require.False(t, IsProvisionalResult("India won by 5 wickets"))
	require.False(t, IsProvisionalResult(""))
}
