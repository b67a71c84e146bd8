package t0

import "github.com/pkg/errors"

// SortedTrack holds track points ordered from the most elevated (top) to the lowest (bottom) point.
type SortedTrack []Point

// Top returns the most elevated point
func (sorted SortedTrack) Top() Point {
	return sorted[0]
}

// Bottom returns the lowest point
func (sorted SortedTrack) Bottom() Point {
	return sorted[len(sorted)-1]
}

// IsMonotonic reports whether Y never increases along the sorted points
func (sorted SortedTrack) IsMonotonic() bool {
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Y > sorted[i-1].Y {
			return false
		}
	}
	return true
}

// SortTrackPoints orders track points so the track starts at the top, assuming track is downward going.
//
// Only the first and the last points are compared: direction is decided globally and the points
// themselves are never re-sorted. For track which is not monotonic in Y the result may start
// at a point that is not the highest one.
// The original track is left untouched.
func SortTrackPoints(track Track) (SortedTrack, error) {
	n := track.NumberTrajectoryPoints()
	if n == 0 {
		return nil, errors.Wrapf(ErrMalformedTrack, "track %s has no trajectory points", track.ID)
	}
	start := track.LocationAtPoint(0)
	end := track.LocationAtPoint(n - 1)
	sorted := make(SortedTrack, n)
	// If points are ordered correctly
	if start.Y > end.Y {
		copy(sorted, track.Points)
		return sorted, nil
	}
	// Otherwise flip order
	for i := 0; i < n; i++ {
		sorted[i] = track.LocationAtPoint(n - i - 1)
	}
	return sorted, nil
}
