package t0

import "github.com/pkg/errors"

// Plane is the TPC boundary plane pierced by a track
type Plane uint16

const (
	// PlaneAnode is located at the lower drift coordinate (X = 0)
	PlaneAnode Plane = iota
	// PlaneCathode is located at the higher drift coordinate (X = detector width)
	PlaneCathode
)

func (plane Plane) String() string {
	switch plane {
	case PlaneAnode:
		return "anode"
	case PlaneCathode:
		return "cathode"
	default:
		return "unknown"
	}
}

// ParsePlane is the inverse of Plane.String
func ParsePlane(s string) (Plane, error) {
	switch s {
	case "anode":
		return PlaneAnode, nil
	case "cathode":
		return PlaneCathode, nil
	}
	return 0, errors.Errorf("unknown plane '%s'", s)
}

// Anode figures out which plane the track enters through.
// Anode: top point must be at lower X than the bottom one. Cathode: top point must be at larger X.
// Equal X carries no information about the plane and the track is reported as malformed.
func Anode(sorted SortedTrack) (Plane, error) {
	top := sorted.Top()
	bottom := sorted.Bottom()
	switch {
	case top.X < bottom.X:
		return PlaneAnode, nil
	case top.X > bottom.X:
		return PlaneCathode, nil
	}
	return 0, errors.Wrapf(ErrMalformedTrack, "top and bottom points share drift coordinate %f", top.X)
}

// GetCrossingTimeCoord returns drift coordinate of the point piercing the anode or cathode.
// By convention this is the entry (top) point.
func GetCrossingTimeCoord(sorted SortedTrack) float64 {
	return sorted.Top().X
}

// CrossingTime converts drift coordinate of the crossing point into time offset w.r.t. trigger.
// Units follow driftVelocity: cm and cm/us give us.
func CrossingTime(plane Plane, crossingX, detWidth, driftVelocity float64) float64 {
	if plane == PlaneAnode {
		return crossingX / driftVelocity
	}
	return (crossingX - detWidth) / driftVelocity
}
