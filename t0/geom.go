package t0

import (
	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Point is a trajectory point in detector coordinates [cm].
// X is the drift coordinate, Y is vertical and Z runs along the beam.
type Point = r3.Vec

func NewPoint(x, y, z float64) Point {
	return Point{
		X: x,
		Y: y,
		Z: z,
	}
}

// Track is a reconstructed 3D track as delivered by the upstream tracking stage.
// Points are kept in the order the tracker produced them.
type Track struct {
	ID     uuid.UUID
	Points []Point
}

// NewTrack creates track with fresh identifier
func NewTrack(points []Point) Track {
	return NewTrackWithID(uuid.New(), points)
}

// NewTrackWithID creates track with given identifier
func NewTrackWithID(id uuid.UUID, points []Point) Track {
	return Track{
		ID:     id,
		Points: points,
	}
}

// NumberTrajectoryPoints returns number of points on the track
func (track Track) NumberTrajectoryPoints() int {
	return len(track.Points)
}

// LocationAtPoint returns i-th trajectory point
func (track Track) LocationAtPoint(i int) Point {
	return track.Points[i]
}
