package t0

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSource map[string][]Track

func (src mapSource) TrackCollection(label string) ([]Track, bool) {
	tracks, ok := src[label]
	return tracks, ok
}

func newTestReconstructor(t *testing.T, opts ...Option) *Reconstructor {
	t.Helper()
	r, err := NewReconstructor(testBounds(), 0.1, opts...)
	require.NoError(t, err)
	return r
}

func TestNewReconstructor(t *testing.T) {
	r, err := NewReconstructorDefault(testBounds())
	require.NoError(t, err)
	assert.Equal(t, DefaultDriftVelocity, r.DriftVelocity())
	assert.Equal(t, DefaultTrackProducer, r.TrackProducer())
	assert.Equal(t, testBounds(), r.Bounds())
	assert.Equal(t, 1, r.workers)

	r, err = NewReconstructor(testBounds(), 0.2, WithTrackProducer("trackkalmanhit"), WithWorkers(0))
	require.NoError(t, err)
	assert.Equal(t, "trackkalmanhit", r.TrackProducer())
	assert.Greater(t, r.workers, 0)
}

func TestNewReconstructorInvalid(t *testing.T) {
	for _, v := range []float64{0, -0.1, math.NaN()} {
		_, err := NewReconstructor(testBounds(), v)
		assert.ErrorIs(t, err, ErrConfiguration, "velocity %v", v)
	}
	_, err := NewReconstructor(DetectorBounds{Top: -1, Bottom: 1, Front: 0, Back: 10, Width: 10}, 0.1)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewReconstructor(testBounds(), 0.1, WithTrackProducer(""))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestClassifyScenarios(t *testing.T) {
	r := newTestReconstructor(t)

	// Already top-first
	forward := NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -105, 500)})
	c, err := r.Classify(forward)
	require.NoError(t, err)
	assert.Equal(t, Accepted{Plane: PlaneCathode, CrossingX: 10}, c)

	t0, ok, err := r.Reconstruct(forward)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -2400.0, t0.Time, eps)
	assert.Equal(t, PlaneCathode, t0.Plane)

	// Reversed input order must give the same answer
	reversed := NewTrack([]Point{NewPoint(-5, -105, 500), NewPoint(10, 90, 500)})
	t0Rev, ok, err := r.Reconstruct(reversed)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, t0, t0Rev)

	// Last point exactly on bottom bound
	onBottom := NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -100, 500)})
	c, err = r.Classify(onBottom)
	require.NoError(t, err)
	assert.Equal(t, Rejected{}, c)

	// Degenerate drift coordinate
	degenerate := NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(10, -105, 500)})
	_, err = r.Classify(degenerate)
	assert.ErrorIs(t, err, ErrMalformedTrack)
}

func TestClassifyAnode(t *testing.T) {
	r := newTestReconstructor(t)
	track := NewTrack([]Point{NewPoint(30, 95, 200), NewPoint(60, 0, 210), NewPoint(90, -120, 220)})
	t0, ok, err := r.Reconstruct(track)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, PlaneAnode, t0.Plane)
	assert.InDelta(t, 300.0, t0.Time, eps)
}

func TestClassifyRejections(t *testing.T) {
	r := newTestReconstructor(t)
	tracks := map[string]Track{
		"stops inside":         NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -50, 500)}),
		"enters through top":   NewTrack([]Point{NewPoint(10, 101, 500), NewPoint(-5, -105, 500)}),
		"enters through front": NewTrack([]Point{NewPoint(10, 90, 5), NewPoint(-5, -105, 500)}),
		"enters through back":  NewTrack([]Point{NewPoint(10, 90, 995), NewPoint(-5, -105, 500)}),
		"both fail":            NewTrack([]Point{NewPoint(10, 101, 500), NewPoint(-5, -50, 500)}),
	}
	for name, track := range tracks {
		c, err := r.Classify(track)
		require.NoError(t, err, name)
		assert.Equal(t, Rejected{}, c, name)
		_, ok, err := r.Reconstruct(track)
		require.NoError(t, err, name)
		assert.False(t, ok, name)
	}
}

func TestClassifyMonotonicCheck(t *testing.T) {
	// Goes up in the middle, still top-first by its endpoints
	track := NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(5, 95, 500), NewPoint(-5, -105, 500)})

	r := newTestReconstructor(t)
	c, err := r.Classify(track)
	require.NoError(t, err)
	assert.IsType(t, Accepted{}, c)

	strict := newTestReconstructor(t, WithMonotonicCheck(true))
	_, err = strict.Classify(track)
	assert.ErrorIs(t, err, ErrMalformedTrack)
}

func TestClassifyIdempotent(t *testing.T) {
	r := newTestReconstructor(t)
	track := NewTrack([]Point{NewPoint(-5, -105, 400), NewPoint(0, 0, 450), NewPoint(10, 90, 500)})
	first, ok, err := r.Reconstruct(track)
	require.NoError(t, err)
	require.True(t, ok)
	for i := 0; i < 10; i++ {
		next, ok, err := r.Reconstruct(track)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, next)
	}
}

func TestProduceTracks(t *testing.T) {
	// Capture malformed track reports
	original := Logf
	defer func() { Logf = original }()
	var reported []string
	SetLogger(func(format string, v ...interface{}) {
		reported = append(reported, fmt.Sprintf(format, v...))
	})

	r := newTestReconstructor(t)
	// Cathode, rejected, malformed, anode, degenerate
	tracks := []Track{
		NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -105, 500)}),
		NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -100, 500)}),
		NewTrack(nil),
		NewTrack([]Point{NewPoint(30, 95, 200), NewPoint(90, -120, 220)}),
		NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(10, -105, 500)}),
	}
	products := r.ProduceTracks(tracks)

	require.Len(t, products.T0s, 2)
	require.Len(t, products.Assns, 2)
	assert.Equal(t, 2, products.Malformed)
	assert.Len(t, reported, 2)

	assert.Equal(t, Assn{TrackID: tracks[0].ID, TrackIndex: 0, T0Index: 0}, products.Assns[0])
	assert.Equal(t, Assn{TrackID: tracks[3].ID, TrackIndex: 3, T0Index: 1}, products.Assns[1])
	assert.Equal(t, 0, products.T0s[0].ID)
	assert.Equal(t, 1, products.T0s[1].ID)
	assert.InDelta(t, -2400.0, products.T0s[0].Time, eps)
	assert.InDelta(t, 300.0, products.T0s[1].Time, eps)

	_, ok := products.T0ForTrack(tracks[1].ID)
	assert.False(t, ok, "rejected track must not have T0")
	t0, ok := products.T0ForTrack(tracks[3].ID)
	assert.True(t, ok)
	assert.Equal(t, PlaneAnode, t0.Plane)
}

func TestProduceTracksParallelMatchesSequential(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()
	SetLogger(nil)

	tracks := make([]Track, 0, 500)
	for i := 0; i < 500; i++ {
		x := float64(i%250) - 0.5
		bottomY := -150.0 + float64(i%7)*10 // some stop inside
		points := []Point{NewPoint(x, 95, 100+float64(i)), NewPoint(x+float64(i%3)-1, bottomY, 100+float64(i))}
		if i%2 == 1 {
			points[0], points[1] = points[1], points[0]
		}
		tracks = append(tracks, NewTrack(points))
	}

	sequential := newTestReconstructor(t, WithWorkers(1)).ProduceTracks(tracks)
	parallel := newTestReconstructor(t, WithWorkers(8)).ProduceTracks(tracks)
	assert.Equal(t, sequential, parallel)
	assert.NotEmpty(t, sequential.T0s)
	assert.Less(t, len(sequential.T0s), len(tracks))
}

func TestProduce(t *testing.T) {
	r := newTestReconstructor(t, WithTrackProducer("pandora"))
	src := mapSource{
		"pandora": {NewTrack([]Point{NewPoint(10, 90, 500), NewPoint(-5, -105, 500)})},
	}
	products, err := r.Produce(src)
	require.NoError(t, err)
	assert.Len(t, products.T0s, 1)

	products, err = r.Produce(mapSource{"other": src["pandora"]})
	assert.ErrorIs(t, err, ErrInputUnavailable)
	assert.Empty(t, products.T0s)
	assert.Empty(t, products.Assns)

	_, err = r.Produce(nil)
	assert.True(t, errors.Is(err, ErrInputUnavailable))

	// Empty, but existing, collection is fine
	products, err = r.Produce(mapSource{"pandora": {}})
	require.NoError(t, err)
	assert.Empty(t, products.T0s)
}
