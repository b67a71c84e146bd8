package t0

import (
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultDriftVelocity is the nominal drift velocity in liquid argon at 273 V/cm [cm/us]
	DefaultDriftVelocity = 0.1114
	// DefaultTrackProducer is the label of track collection consumed by default
	DefaultTrackProducer = "pandoraCosmic"
)

// TrackSource is a batch of named track collections (e.g. a single event)
type TrackSource interface {
	// TrackCollection returns tracks for label. False means the collection does not exist
	TrackCollection(label string) ([]Track, bool)
}

// Reconstructor is T0 reconstruction for tracks crossing anode or cathode.
// It holds read-only configuration only and is safe for concurrent use.
type Reconstructor struct {
	bounds        DetectorBounds
	driftVelocity float64
	// Label of track collection to use
	trackProducer string
	// Number of concurrent workers for a batch. 1 means sequential processing
	workers int
	// Reject tracks which are not monotonic in Y instead of trusting first/last ordering
	requireMonotonic bool
}

// Option configures Reconstructor
type Option func(*Reconstructor)

// WithTrackProducer sets label of track collection to consume
func WithTrackProducer(label string) Option {
	return func(r *Reconstructor) {
		r.trackProducer = label
	}
}

// WithWorkers sets number of concurrent workers. Non-positive value means GOMAXPROCS
func WithWorkers(n int) Option {
	return func(r *Reconstructor) {
		r.workers = n
	}
}

// WithMonotonicCheck enables rejection of tracks which are not monotonic in Y
func WithMonotonicCheck(enabled bool) Option {
	return func(r *Reconstructor) {
		r.requireMonotonic = enabled
	}
}

// NewReconstructorDefault creates Reconstructor with default drift velocity and track producer
func NewReconstructorDefault(bounds DetectorBounds) (*Reconstructor, error) {
	return NewReconstructor(bounds, DefaultDriftVelocity)
}

// NewReconstructor creates new instance of Reconstructor
func NewReconstructor(bounds DetectorBounds, driftVelocity float64, opts ...Option) (*Reconstructor, error) {
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if !(driftVelocity > 0) {
		return nil, errors.Wrapf(ErrConfiguration, "drift velocity must be positive, got %f", driftVelocity)
	}
	r := &Reconstructor{
		bounds:        bounds,
		driftVelocity: driftVelocity,
		trackProducer: DefaultTrackProducer,
		workers:       1,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.trackProducer == "" {
		return nil, errors.Wrap(ErrConfiguration, "track producer label is empty")
	}
	if r.workers <= 0 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r, nil
}

// Bounds returns detector bounds in use
func (r *Reconstructor) Bounds() DetectorBounds {
	return r.bounds
}

// DriftVelocity returns drift velocity in use
func (r *Reconstructor) DriftVelocity() float64 {
	return r.driftVelocity
}

// TrackProducer returns label of consumed track collection
func (r *Reconstructor) TrackProducer() string {
	return r.trackProducer
}

// Classify runs acceptance and plane tests for a single track.
// Error is returned for malformed tracks only: geometric rejection is a regular outcome.
func (r *Reconstructor) Classify(track Track) (Classification, error) {
	// Get sorted points for the track object [assuming downwards going]
	sorted, err := SortTrackPoints(track)
	if err != nil {
		return nil, err
	}
	if r.requireMonotonic && !sorted.IsMonotonic() {
		return nil, errors.Wrapf(ErrMalformedTrack, "track %s is not monotonic in Y", track.ID)
	}
	// Check if the track is of good quality:
	// must exit through the bottom and must not enter through top, front or back
	if !r.bounds.TrackExitsBottom(sorted) {
		return Rejected{}, nil
	}
	if !r.bounds.TrackEntersSide(sorted) {
		return Rejected{}, nil
	}
	// Made it this far -> the track is good to be used.
	// Figure out if it pierces the anode or cathode
	plane, err := Anode(sorted)
	if err != nil {
		return nil, errors.Wrapf(err, "track %s", track.ID)
	}
	return Accepted{
		Plane:     plane,
		CrossingX: GetCrossingTimeCoord(sorted),
	}, nil
}

// Reconstruct returns T0 for a single track. False means the track has been rejected.
// T0.ID is left zero.
func (r *Reconstructor) Reconstruct(track Track) (T0, bool, error) {
	classification, err := r.Classify(track)
	if err != nil {
		return T0{}, false, err
	}
	switch c := classification.(type) {
	case Accepted:
		return T0{
			Time:  CrossingTime(c.Plane, c.CrossingX, r.bounds.Width, r.driftVelocity),
			Plane: c.Plane,
		}, true, nil
	case Rejected:
		return T0{}, false, nil
	default:
		panic("should be impossible")
	}
}

// trackOutcome is the per-track result slot filled by workers
type trackOutcome struct {
	t0       T0
	accepted bool
	err      error
}

// ProduceTracks reconstructs T0 for every track of the batch.
// Malformed tracks are reported via Logf and skipped. Products follow input order
// regardless of the number of workers.
func (r *Reconstructor) ProduceTracks(tracks []Track) Products {
	outcomes := make([]trackOutcome, len(tracks))
	if r.workers == 1 || len(tracks) < 2 {
		for i := range tracks {
			t0, ok, err := r.Reconstruct(tracks[i])
			outcomes[i] = trackOutcome{t0: t0, accepted: ok, err: err}
		}
	} else {
		var group errgroup.Group
		group.SetLimit(r.workers)
		for i := range tracks {
			group.Go(func() error {
				t0, ok, err := r.Reconstruct(tracks[i])
				// Each worker owns its own slot, no locking needed
				outcomes[i] = trackOutcome{t0: t0, accepted: ok, err: err}
				return nil
			})
		}
		// Per-track errors are kept in outcomes, group never fails
		_ = group.Wait()
	}

	products := Products{
		T0s:   make([]T0, 0, len(tracks)),
		Assns: make([]Assn, 0, len(tracks)),
	}
	for i, outcome := range outcomes {
		if outcome.err != nil {
			Logf("[WARNING] skipping track #%d: %v", i, outcome.err)
			products.Malformed++
			continue
		}
		if !outcome.accepted {
			continue
		}
		t0 := outcome.t0
		t0.ID = len(products.T0s)
		products.T0s = append(products.T0s, t0)
		products.Assns = append(products.Assns, Assn{
			TrackID:    tracks[i].ID,
			TrackIndex: i,
			T0Index:    t0.ID,
		})
	}
	return products
}

// Produce loads configured track collection from source and reconstructs T0 for it.
// Missing collection fails the whole batch.
func (r *Reconstructor) Produce(src TrackSource) (Products, error) {
	if src == nil {
		return Products{}, errors.Wrapf(ErrInputUnavailable, "no source to load tracks '%s' from", r.trackProducer)
	}
	tracks, ok := src.TrackCollection(r.trackProducer)
	if !ok {
		return Products{}, errors.Wrapf(ErrInputUnavailable, "could not locate tracks '%s'", r.trackProducer)
	}
	return r.ProduceTracks(tracks), nil
}
