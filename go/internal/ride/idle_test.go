package ride

import (
	"testing"

	"github.com/ridetape/server/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func point(elapsed, speed float64) models.TrackPoint {
	return models.TrackPoint{ElapsedSec: elapsed, SpeedKmh: speed}
}

func TestDetectIdleSpans_FindsLongStops(t *testing.T) {
	points := []models.TrackPoint{
		point(0, 20),
		point(10, 18),
		point(20, 0.5), // stopped
		point(30, 0),
		point(40, 1),
		point(50, 22), // moving again
		point(60, 25),
	}

	spans := DetectIdleSpans(points)

	require.Len(t, spans, 1)
	assert.Equal(t, 20.0, spans[0].StartSec)
	assert.Equal(t, 50.0, spans[0].EndSec)
}

func TestDetectIdleSpans_IgnoresBriefSlowdowns(t *testing.T) {
	points := []models.TrackPoint{
		point(0, 20),
		point(5, 1), // slow for only 5s
		point(10, 20),
		point(15, 20),
	}

	spans := DetectIdleSpans(points)

	assert.Empty(t, spans)
}

func TestDetectIdleSpans_IdleAtEndOfRide(t *testing.T) {
	points := []models.TrackPoint{
		point(0, 20),
		point(10, 0),
		point(30, 0),
	}

	spans := DetectIdleSpans(points)

	require.Len(t, spans, 1)
	assert.Equal(t, 10.0, spans[0].StartSec)
	assert.Equal(t, 30.0, spans[0].EndSec)
}

func TestDetectIdleSpans_MultipleStops(t *testing.T) {
	points := []models.TrackPoint{
		point(0, 20),
		point(10, 0),
		point(25, 20),
		point(40, 0),
		point(60, 20),
	}

	spans := DetectIdleSpans(points)

	require.Len(t, spans, 2)
	assert.Equal(t, models.IdleSpan{StartSec: 10, EndSec: 25}, spans[0])
	assert.Equal(t, models.IdleSpan{StartSec: 40, EndSec: 60}, spans[1])
}

func TestDetectIdleSpans_NoPoints(t *testing.T) {
	assert.Empty(t, DetectIdleSpans(nil))
}
