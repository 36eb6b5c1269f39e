package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	utrecht        = Coordinate{Latitude: 52.0907, Longitude: 5.1214}
	amsterdamNoord = Coordinate{Latitude: 52.3702, Longitude: 4.9041}
)

func TestDistance_KnownFixture(t *testing.T) {
	d, err := Distance(utrecht, amsterdamNoord)
	require.NoError(t, err)
	assert.Greater(t, d, 34000.0)
	assert.Less(t, d, 36000.0)
}

func TestDistance_Symmetric(t *testing.T) {
	pairs := [][2]Coordinate{
		{utrecht, amsterdamNoord},
		{{Latitude: 0, Longitude: 0}, {Latitude: 0.001, Longitude: -0.001}},
		{{Latitude: -33.8688, Longitude: 151.2093}, {Latitude: -33.87, Longitude: 151.21}},
		{{Latitude: 89.9, Longitude: 179.9}, {Latitude: 89.8, Longitude: -179.9}},
	}
	for _, p := range pairs {
		ab, err := Distance(p[0], p[1])
		require.NoError(t, err)
		ba, err := Distance(p[1], p[0])
		require.NoError(t, err)
		assert.InDelta(t, ab, ba, 1e-9, "distance(%v, %v)", p[0], p[1])
	}
}

func TestDistance_ZeroForSamePoint(t *testing.T) {
	for _, c := range []Coordinate{utrecht, amsterdamNoord, {Latitude: -90, Longitude: 180}} {
		d, err := Distance(c, c)
		require.NoError(t, err)
		assert.Equal(t, 0.0, d)
	}
}

func TestDistance_ShortOffset(t *testing.T) {
	// 0.001 degree of latitude is roughly 111 m everywhere.
	d, err := Distance(Coordinate{Latitude: 52.0, Longitude: 5.0}, Coordinate{Latitude: 52.001, Longitude: 5.0})
	require.NoError(t, err)
	assert.InDelta(t, 111.19, d, 0.1)
}

func TestDistance_InvalidCoordinate(t *testing.T) {
	cases := []Coordinate{
		{Latitude: math.NaN(), Longitude: 5},
		{Latitude: 52, Longitude: math.Inf(1)},
		{Latitude: 90.0001, Longitude: 0},
		{Latitude: -91, Longitude: 0},
		{Latitude: 0, Longitude: 180.5},
		{Latitude: 0, Longitude: -181},
	}
	for _, c := range cases {
		_, err := Distance(c, utrecht)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "%v", c)

		_, err = Distance(utrecht, c)
		assert.ErrorIs(t, err, ErrInvalidCoordinate, "%v", c)
	}
}

func TestCoordinate_ValidateBounds(t *testing.T) {
	assert.NoError(t, Coordinate{Latitude: 90, Longitude: 180}.Validate())
	assert.NoError(t, Coordinate{Latitude: -90, Longitude: -180}.Validate())
}
