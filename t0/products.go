package t0

import "github.com/google/uuid"

// T0 is the reconstructed time offset of a track relative to trigger
type T0 struct {
	// Time offset. Units of drift velocity time, e.g. [us]
	Time        float64
	TriggerType uint32
	TriggerBits uint32
	// Position in the T0 collection of the batch
	ID    int
	Plane Plane
}

// Assn links a track to its T0. Tracks without T0 have no Assn
type Assn struct {
	TrackID    uuid.UUID
	TrackIndex int
	T0Index    int
}

// Products is everything emitted for a single batch of tracks
type Products struct {
	T0s   []T0
	Assns []Assn
	// Number of tracks which were skipped as malformed
	Malformed int
}

// T0ForTrack returns T0 associated with track, if any
func (products Products) T0ForTrack(trackID uuid.UUID) (T0, bool) {
	for _, assn := range products.Assns {
		if assn.TrackID == trackID {
			return products.T0s[assn.T0Index], true
		}
	}
	return T0{}, false
}
