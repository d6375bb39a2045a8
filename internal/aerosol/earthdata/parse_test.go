package earthdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiSubset = `Dataset: MERRA2_400.tavg1_2d_aer_Nx.20240901.nc4
TOTEXTTAU.TOTEXTTAU[1][2][3]
[0][0], 0.12, 0.34, 9.999999870e+14
[0][1], 0.22, 0.44, 0.55

TOTEXTTAU.lat[2]
39.5, 40.0

TOTEXTTAU.lon[3]
-105.0, -104.375, -103.75
`

func TestParseASCIIGrid(t *testing.T) {
	samples, err := parseASCIIGrid(strings.NewReader(asciiSubset), "TOTEXTTAU")
	require.NoError(t, err)

	// Six grid cells minus one fill value.
	require.Len(t, samples, 5)

	first := samples[0]
	assert.Equal(t, 39.5, first.Lat)
	assert.Equal(t, -105.0, first.Lon)
	assert.Equal(t, 0.12, first.AOD)

	last := samples[4]
	assert.Equal(t, 40.0, last.Lat)
	assert.Equal(t, -103.75, last.Lon)
	assert.Equal(t, 0.55, last.AOD)
}

func TestParseASCIIGrid_MissingAxes(t *testing.T) {
	_, err := parseASCIIGrid(strings.NewReader("TOTEXTTAU.TOTEXTTAU[1][1][1]\n[0][0], 0.5\n"), "TOTEXTTAU")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing coordinate axes")
}

func TestParseASCIIGrid_RowMismatch(t *testing.T) {
	body := `TOTEXTTAU.TOTEXTTAU[1][1][3]
[0][0], 0.1, 0.2

TOTEXTTAU.lat[1]
39.5

TOTEXTTAU.lon[3]
-105.0, -104.375, -103.75
`
	_, err := parseASCIIGrid(strings.NewReader(body), "TOTEXTTAU")
	require.Error(t, err)
}

func TestSectionName(t *testing.T) {
	assert.Equal(t, "grid", sectionName("TOTEXTTAU.TOTEXTTAU[1][361][576]", "TOTEXTTAU"))
	assert.Equal(t, "lat", sectionName("TOTEXTTAU.lat[361]", "TOTEXTTAU"))
	assert.Equal(t, "lon", sectionName("TOTEXTTAU.lon[576]", "TOTEXTTAU"))
	assert.Equal(t, "", sectionName("Dataset: MERRA2", "TOTEXTTAU"))
}
