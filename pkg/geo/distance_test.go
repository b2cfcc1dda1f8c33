package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceSymmetric(t *testing.T) {
	pairs := [][4]float64{
		{35.6762, 139.6503, 35.6763, 139.6504},
		{0, 0, 10, 10},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 179.9, -89.9, -179.9},
	}
	for _, p := range pairs {
		d1 := Distance(p[0], p[1], p[2], p[3])
		d2 := Distance(p[2], p[3], p[0], p[1])
		assert.InDelta(t, d1, d2, 1e-6)
	}
}

func TestDistanceIdenticalPointsIsZero(t *testing.T) {
	assert.Zero(t, Distance(35.6762, 139.6503, 35.6762, 139.6503))
	assert.Zero(t, Distance(0, 0, 0, 0))
}

func TestDistanceTokyoNeighbors(t *testing.T) {
	// Two reports one ten-thousandth of a degree apart in Shibuya.
	d := Distance(35.6762, 139.6503, 35.6763, 139.6504)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 15.0)
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	assert.NoError(t, Validate(90, 180))
	assert.NoError(t, Validate(-90, -180))

	assert.ErrorIs(t, Validate(90.1, 0), ErrInvalidCoordinate)
	assert.ErrorIs(t, Validate(-90.1, 0), ErrInvalidCoordinate)
	assert.ErrorIs(t, Validate(0, 180.1), ErrInvalidCoordinate)
	assert.ErrorIs(t, Validate(0, -180.1), ErrInvalidCoordinate)
}

func TestValidateRejectsNonFinite(t *testing.T) {
	assert.ErrorIs(t, Validate(math.NaN(), 0), ErrInvalidCoordinate)
	assert.ErrorIs(t, Validate(0, math.Inf(1)), ErrInvalidCoordinate)
	assert.ErrorIs(t, Validate(math.Inf(-1), 0), ErrInvalidCoordinate)
}
