// Command herosim runs the hero headless on a level, driven by a tengo
// script, and reports where it went.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/milk9111/ledgeclimb/levels"
	"github.com/milk9111/ledgeclimb/prefabs"
	"github.com/milk9111/ledgeclimb/script"
)

func main() {
	levelName := flag.String("level", levels.Default, "level file in levels/")
	scriptName := flag.String("script", "walk_and_climb", "script in prefabs/scripts/")
	ticks := flag.Int("ticks", 1800, "number of ticks to simulate")
	fps := flag.Int("fps", 60, "simulated frame rate")
	tracePath := flag.String("trace", "", "write a per-tick CSV trace to this file")
	verbose := flag.Bool("v", false, "log phase transitions")
	flag.Parse()

	name := *levelName
	if filepath.Ext(name) == "" {
		name += ".json"
	}
	lvl, err := levels.Load(filepath.Join("levels", name))
	if err != nil {
		log.Fatalf("level: %v", err)
	}
	driver, err := script.Load(*scriptName)
	if err != nil {
		log.Fatalf("script: %v", err)
	}
	spec, err := prefabs.LoadHeroSpec()
	if err != nil {
		log.Fatalf("hero spec: %v", err)
	}
	tuning, err := spec.Tuning()
	if err != nil {
		log.Fatalf("hero spec: %v", err)
	}
	if *fps <= 0 {
		log.Fatalf("fps must be positive, got %d", *fps)
	}

	var logger *log.Logger
	if *verbose {
		logger = log.Default()
	}

	records, err := simulate(lvl, driver, tuning, *ticks, time.Second/time.Duration(*fps), logger)
	if err != nil {
		log.Printf("stopped early: %v", err)
	}

	if *tracePath != "" {
		f, err := os.Create(*tracePath)
		if err != nil {
			log.Fatalf("trace: %v", err)
		}
		if err := gocsv.Marshal(records, f); err != nil {
			f.Close()
			log.Fatalf("trace: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("trace: %v", err)
		}
		log.Printf("wrote %d ticks to %s", len(records), *tracePath)
	}

	s := summarize(records)
	log.Printf("ticks=%d final=(%.1f,%.1f) apex=%.1f rise=%.1f mean_speed=%.2f max_fall=%.2f grabs=%d climbs=%d",
		s.Ticks, s.FinalX, s.FinalY, s.ApexY, s.Rise, s.MeanSpeed, s.MaxFall, s.Grabs, s.Climbs)
}
