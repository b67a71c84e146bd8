// Package trackio reads reconstructed track collections and writes T0 products as ';' separated CSV.
package trackio

import "github.com/LdDl/t0-go/t0"

// Event is a batch of named track collections
type Event struct {
	Number      int
	collections map[string][]t0.Track
	// Labels in order of first appearance
	labels []string
}

// NewEvent creates empty event
func NewEvent(number int) *Event {
	return &Event{
		Number:      number,
		collections: make(map[string][]t0.Track),
	}
}

// AddTrack appends track to collection with given label, creating collection when needed
func (event *Event) AddTrack(label string, track t0.Track) {
	if _, ok := event.collections[label]; !ok {
		event.labels = append(event.labels, label)
	}
	event.collections[label] = append(event.collections[label], track)
}

// TrackCollection implements t0.TrackSource
func (event *Event) TrackCollection(label string) ([]t0.Track, bool) {
	tracks, ok := event.collections[label]
	return tracks, ok
}

// Labels returns collection labels
func (event *Event) Labels() []string {
	return event.labels
}
