package t0

// Classification is the outcome of acceptance and plane tests for a single track.
// It is either Rejected or Accepted.
type Classification interface {
	isClassification()
}

// Rejected is a track failing geometric acceptance
type Rejected struct{}

// Accepted is a track entering through the anode or cathode plane
type Accepted struct {
	Plane Plane
	// Drift coordinate of the crossing point [cm]
	CrossingX float64
}

func (Rejected) isClassification() {}
func (Accepted) isClassification() {}
