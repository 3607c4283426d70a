package ride

import (
	"github.com/ridetape/server/go/internal/models"
)

// Idle detection defaults: a rider moving slower than idleMaxSpeedKmh
// for at least idleMinDurationSec counts as stopped.
const (
	idleMaxSpeedKmh    = 2.0
	idleMinDurationSec = 10.0
)

// DetectIdleSpans scans a ride's samples for stretches where the rider
// was effectively stationary. Points must be ordered by elapsed time.
// Spans shorter than idleMinDurationSec are ignored so brief slowdowns
// (junctions, tight corners) do not get skipped during playback.
func DetectIdleSpans(points []models.TrackPoint) []models.IdleSpan {
	var (
		spans     []models.IdleSpan
		idleSince = -1.0
	)

	flush := func(end float64) {
		if idleSince < 0 {
			return
		}
		if end-idleSince >= idleMinDurationSec {
			spans = append(spans, models.IdleSpan{StartSec: idleSince, EndSec: end})
		}
		idleSince = -1
	}

	for _, p := range points {
		if p.SpeedKmh < idleMaxSpeedKmh {
			if idleSince < 0 {
				idleSince = p.ElapsedSec
			}
			continue
		}
		flush(p.ElapsedSec)
	}
	if len(points) > 0 {
		flush(points[len(points)-1].ElapsedSec)
	}

	return spans
}
