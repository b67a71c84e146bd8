package t0

import "github.com/pkg/errors"

var (
	// ErrConfiguration is returned when reconstructor can't be set up: bad bounds, non-positive drift velocity, etc.
	ErrConfiguration = errors.New("t0: configuration error")
	// ErrInputUnavailable is returned when requested track collection is absent for the batch
	ErrInputUnavailable = errors.New("t0: input unavailable")
	// ErrMalformedTrack marks per-track failures. Such tracks are skipped, batch goes on
	ErrMalformedTrack = errors.New("t0: malformed track")
)
