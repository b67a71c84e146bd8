package main

import (
	"fmt"
	"io"

	"github.com/LdDl/t0-go/t0"
	"go-hep.org/x/hep/hbook"
)

type summary struct {
	events    int
	tracks    int
	malformed int
	anode     int
	cathode   int
	hist      *hbook.H1D
}

// newSummary books T0 histogram covering full drift time on both sides of the trigger
func newSummary(detWidth, driftVelocity float64, nbins int) *summary {
	tmax := detWidth / driftVelocity
	return &summary{
		hist: hbook.NewH1D(nbins, -tmax, tmax),
	}
}

func (sum *summary) add(ntracks int, products t0.Products) {
	sum.events++
	sum.tracks += ntracks
	sum.malformed += products.Malformed
	for _, t := range products.T0s {
		switch t.Plane {
		case t0.PlaneAnode:
			sum.anode++
		case t0.PlaneCathode:
			sum.cathode++
		}
		sum.hist.Fill(t.Time, 1)
	}
}

func (sum *summary) accepted() int {
	return sum.anode + sum.cathode
}

func (sum *summary) print(w io.Writer) {
	fmt.Fprintf(w, "events:    %d\n", sum.events)
	fmt.Fprintf(w, "tracks:    %d\n", sum.tracks)
	fmt.Fprintf(w, "malformed: %d\n", sum.malformed)
	fmt.Fprintf(w, "accepted:  %d (anode: %d, cathode: %d)\n", sum.accepted(), sum.anode, sum.cathode)
	if sum.hist.Entries() > 0 {
		fmt.Fprintf(w, "T0 mean:   %.3f\n", sum.hist.XMean())
	}
	if sum.hist.Entries() > 1 {
		fmt.Fprintf(w, "T0 rms:    %.3f\n", sum.hist.XStdDev())
	}
}
