package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKM_SamePoint(t *testing.T) {
	assert.Zero(t, DistanceKM(48.2082, 16.3738, 48.2082, 16.3738))
}

func TestDistanceKM_ViennaToBerlin(t *testing.T) {
	// Vienna -> Berlin is roughly 524 km.
	d := DistanceKM(48.2082, 16.3738, 52.5200, 13.4050)
	assert.InDelta(t, 524, d, 10)
}

func TestDistanceKM_Symmetric(t *testing.T) {
	a := DistanceKM(48.2082, 16.3738, 47.3769, 8.5417)
	b := DistanceKM(47.3769, 8.5417, 48.2082, 16.3738)
	assert.InDelta(t, a, b, 0.0001)
}
