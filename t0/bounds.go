package t0

import (
	"github.com/pkg/errors"
)

// GeometryProvider supplies raw TPC dimensions [cm].
type GeometryProvider interface {
	DetHalfHeight() float64
	DetHalfWidth() float64
	DetLength() float64
}

// StaticGeometry is a GeometryProvider with fixed dimensions
type StaticGeometry struct {
	HalfHeight float64
	HalfWidth  float64
	Length     float64
}

func (geo StaticGeometry) DetHalfHeight() float64 { return geo.HalfHeight }
func (geo StaticGeometry) DetHalfWidth() float64  { return geo.HalfWidth }
func (geo StaticGeometry) DetLength() float64     { return geo.Length }

// DetectorBounds are the acceptance limits of the TPC.
// Top, Bottom, Front and Back are inset from the physical edges by the resolution margin.
type DetectorBounds struct {
	Top    float64
	Bottom float64
	Front  float64
	Back   float64
	// Full width along the drift coordinate
	Width float64
}

// NewDetectorBounds computes bounds from geometry once. Resolution defines how far away from the
// detector edges a point must be to make a claim.
func NewDetectorBounds(geo GeometryProvider, resolution float64) (DetectorBounds, error) {
	if geo == nil {
		return DetectorBounds{}, errors.Wrap(ErrConfiguration, "geometry provider is not set")
	}
	if resolution < 0 {
		return DetectorBounds{}, errors.Wrapf(ErrConfiguration, "resolution must be non-negative, got %f", resolution)
	}
	bounds := DetectorBounds{
		Top:    geo.DetHalfHeight() - resolution,
		Bottom: -geo.DetHalfHeight() + resolution,
		Front:  resolution,
		Back:   geo.DetLength() - resolution,
		Width:  geo.DetHalfWidth() * 2,
	}
	if err := bounds.Validate(); err != nil {
		return DetectorBounds{}, err
	}
	return bounds, nil
}

// Validate checks that bounds describe non-empty volume
func (bounds DetectorBounds) Validate() error {
	if !(bounds.Top > bounds.Bottom) {
		return errors.Wrapf(ErrConfiguration, "top bound %f must be greater than bottom bound %f", bounds.Top, bounds.Bottom)
	}
	if !(bounds.Back > bounds.Front) {
		return errors.Wrapf(ErrConfiguration, "back bound %f must be greater than front bound %f", bounds.Back, bounds.Front)
	}
	if !(bounds.Width > 0) {
		return errors.Wrapf(ErrConfiguration, "detector width must be positive, got %f", bounds.Width)
	}
	return nil
}

// TrackExitsBottom checks that the last point of sorted track pierces the bottom boundary.
// That indicates track reconstruction has gone 'till the end
func (bounds DetectorBounds) TrackExitsBottom(sorted SortedTrack) bool {
	return sorted.Bottom().Y < bounds.Bottom
}

// TrackEntersSide checks that the top-most point is neither on the top of the TPC
// nor on the front or back of it.
func (bounds DetectorBounds) TrackEntersSide(sorted SortedTrack) bool {
	top := sorted.Top()
	// Highest point above the top
	if top.Y > bounds.Top {
		return false
	}
	// Highest point too close to front or back
	if top.Z <= bounds.Front || top.Z >= bounds.Back {
		return false
	}
	return true
}

// IsUsable reports whether both acceptance tests pass
func (bounds DetectorBounds) IsUsable(sorted SortedTrack) bool {
	return bounds.TrackExitsBottom(sorted) && bounds.TrackEntersSide(sorted)
}
