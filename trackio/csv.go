package trackio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/LdDl/t0-go/t0"
	"github.com/google/uuid"
)

const (
	separator = ';'
)

var (
	tracksHeader   = []string{"event", "label", "track_id", "points"}
	productsHeader = []string{"event", "track_id", "track_index", "plane", "t0"}
)

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = separator
	reader.Comment = '#'
	return reader
}

// ReadEvents reads tracks grouped by event. Rows look like:
//
//	event;label;track_id;points
//	1;pandoraCosmic;6f1c...;10,90,500|-5,-105,500
//
// Events and tracks keep the file order. Empty track_id gets a fresh identifier.
// Track identifiers must be unique within a collection of an event.
func ReadEvents(r io.Reader) ([]*Event, error) {
	reader := newReader(r)
	reader.FieldsPerRecord = len(tracksHeader)

	events := make([]*Event, 0)
	byNumber := make(map[int]*Event)
	// Track identifiers seen so far, per event and label
	seen := make(map[int]map[string]map[uuid.UUID]struct{})
	n := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("can't read tracks: %w", err)
		}
		n++
		if n == 1 && record[0] == tracksHeader[0] {
			continue
		}

		number, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("record %d: bad event number '%s': %w", n, record[0], err)
		}
		label := strings.TrimSpace(record[1])
		if label == "" {
			return nil, fmt.Errorf("record %d: empty collection label", n)
		}
		id := uuid.New()
		if s := strings.TrimSpace(record[2]); s != "" {
			id, err = uuid.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("record %d: bad track id '%s': %w", n, s, err)
			}
		}
		points, err := ParsePoints(record[3])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}

		event, ok := byNumber[number]
		if !ok {
			event = NewEvent(number)
			byNumber[number] = event
			events = append(events, event)
			seen[number] = make(map[string]map[uuid.UUID]struct{})
		}
		ids, ok := seen[number][label]
		if !ok {
			ids = make(map[uuid.UUID]struct{})
			seen[number][label] = ids
		}
		if _, dup := ids[id]; dup {
			return nil, fmt.Errorf("record %d: duplicate track id %s", n, id)
		}
		ids[id] = struct{}{}
		event.AddTrack(label, t0.NewTrackWithID(id, points))
	}
	return events, nil
}

// ParsePoints decodes "x,y,z|x,y,z|..." into points. Empty string gives no points.
func ParsePoints(s string) ([]t0.Point, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "|")
	points := make([]t0.Point, len(parts))
	for i, part := range parts {
		coords := strings.Split(part, ",")
		if len(coords) != 3 {
			return nil, fmt.Errorf("point #%d '%s' must have 3 coordinates", i, part)
		}
		var xyz [3]float64
		for j := range coords {
			v, err := strconv.ParseFloat(strings.TrimSpace(coords[j]), 64)
			if err != nil {
				return nil, fmt.Errorf("point #%d: %w", i, err)
			}
			xyz[j] = v
		}
		points[i] = t0.NewPoint(xyz[0], xyz[1], xyz[2])
	}
	return points, nil
}

// FormatPoints is the inverse of ParsePoints
func FormatPoints(points []t0.Point) string {
	data := make([]string, len(points))
	for idx, pt := range points {
		data[idx] = fmt.Sprintf("%g,%g,%g", pt.X, pt.Y, pt.Z)
	}
	return strings.Join(data, "|")
}

// WriteEvents writes every collection of the events in the ReadEvents format
func WriteEvents(w io.Writer, events []*Event) error {
	writer := csv.NewWriter(w)
	writer.Comma = separator
	if err := writer.Write(tracksHeader); err != nil {
		return err
	}
	for _, event := range events {
		for _, label := range event.Labels() {
			tracks, _ := event.TrackCollection(label)
			for _, track := range tracks {
				err := writer.Write([]string{strconv.Itoa(event.Number), label, track.ID.String(), FormatPoints(track.Points)})
				if err != nil {
					return err
				}
			}
		}
	}
	writer.Flush()
	return writer.Error()
}

// ProductsWriter writes T0 products of consecutive events
type ProductsWriter struct {
	writer *csv.Writer
}

// NewProductsWriter creates writer and emits header
func NewProductsWriter(w io.Writer) (*ProductsWriter, error) {
	writer := csv.NewWriter(w)
	writer.Comma = separator
	if err := writer.Write(productsHeader); err != nil {
		return nil, err
	}
	return &ProductsWriter{writer: writer}, nil
}

// Write emits one row per association
func (pw *ProductsWriter) Write(eventNumber int, products t0.Products) error {
	for _, assn := range products.Assns {
		t := products.T0s[assn.T0Index]
		err := pw.writer.Write([]string{
			strconv.Itoa(eventNumber),
			assn.TrackID.String(),
			strconv.Itoa(assn.TrackIndex),
			t.Plane.String(),
			strconv.FormatFloat(t.Time, 'g', -1, 64),
		})
		if err != nil {
			return fmt.Errorf("can't write T0 for track %s: %w", assn.TrackID, err)
		}
	}
	return nil
}

// Flush flushes buffered rows
func (pw *ProductsWriter) Flush() error {
	pw.writer.Flush()
	return pw.writer.Error()
}
