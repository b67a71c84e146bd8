// Command t0reco reconstructs T0 of tracks piercing the anode or cathode of a TPC.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/LdDl/t0-go/config"
	"github.com/LdDl/t0-go/store"
	"github.com/LdDl/t0-go/t0"
	"github.com/LdDl/t0-go/trackio"
)

func main() {
	log.SetPrefix("t0reco: ")
	log.SetFlags(0)

	var (
		cfgName = flag.String("config", "", "path to JSON configuration file (defaults are used when empty)")
		dbName  = flag.String("db", "", "path to sqlite file to store T0 products in")
		oname   = flag.String("o", "", "path to output CSV file with T0 products")
		nbins   = flag.Int("bins", 50, "number of bins of the T0 summary histogram")
		quiet   = flag.Bool("q", false, "do not report skipped tracks")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: t0reco [OPTIONS] tracks.csv

ex:
 $> t0reco -config t0reco.json -db t0.db -o t0.csv ./tracks.csv

Events already present in the database are replaced.

options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		log.Fatalf("missing input tracks file")
	}
	if *nbins <= 0 {
		flag.Usage()
		log.Fatalf("invalid number of bins %d", *nbins)
	}
	if *quiet {
		t0.SetLogger(nil)
	}

	cfg := config.DefaultConfig()
	if *cfgName != "" {
		var err error
		cfg, err = config.LoadConfig(*cfgName)
		if err != nil {
			log.Fatalf("could not load configuration: %+v", err)
		}
	}
	reco, err := cfg.NewReconstructor()
	if err != nil {
		log.Fatalf("could not create reconstructor: %+v", err)
	}

	err = process(reco, flag.Arg(0), *oname, *dbName, *nbins)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func process(reco *t0.Reconstructor, iname, oname, dbName string, nbins int) error {
	f, err := os.Open(iname)
	if err != nil {
		return fmt.Errorf("could not open input file: %w", err)
	}
	defer f.Close()

	events, err := trackio.ReadEvents(f)
	if err != nil {
		return fmt.Errorf("could not read tracks from %s: %w", iname, err)
	}

	// Produce everything first: failed event means no output at all
	all := make([]t0.Products, len(events))
	for i, event := range events {
		products, err := reco.Produce(event)
		if err != nil {
			return fmt.Errorf("event %d: %w", event.Number, err)
		}
		all[i] = products
	}

	if dbName != "" {
		db, err := store.NewDB(dbName)
		if err != nil {
			return fmt.Errorf("could not open database %s: %w", dbName, err)
		}
		defer db.Close()
		for i, event := range events {
			if err := db.RecordProducts(event.Number, all[i]); err != nil {
				return fmt.Errorf("could not store event %d: %w", event.Number, err)
			}
		}
	}

	// Output file is only touched once everything else succeeded
	if oname != "" {
		if err := writeProducts(oname, events, all); err != nil {
			return err
		}
	}

	sum := newSummary(reco.Bounds().Width, reco.DriftVelocity(), nbins)
	for i, event := range events {
		tracks, _ := event.TrackCollection(reco.TrackProducer())
		sum.add(len(tracks), all[i])
	}

	log.Printf("input:  %s", iname)
	sum.print(os.Stdout)
	return nil
}

func writeProducts(oname string, events []*trackio.Event, all []t0.Products) error {
	fout, err := os.Create(oname)
	if err != nil {
		return fmt.Errorf("could not create output file: %w", err)
	}
	defer fout.Close()

	pw, err := trackio.NewProductsWriter(fout)
	if err != nil {
		return fmt.Errorf("could not write output header: %w", err)
	}
	for i, event := range events {
		if err := pw.Write(event.Number, all[i]); err != nil {
			return err
		}
	}
	if err := pw.Flush(); err != nil {
		return fmt.Errorf("could not flush output file: %w", err)
	}
	return fout.Close()
}
