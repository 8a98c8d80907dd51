package main

import (
	"log"
	"math"
	"time"

	"github.com/milk9111/ledgeclimb/hero"
	"github.com/milk9111/ledgeclimb/levels"
	"github.com/milk9111/ledgeclimb/script"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// record is one row of the trace: the input fed on a tick and the state
// after it.
type record struct {
	Tick  int     `csv:"tick"`
	X     float64 `csv:"x"`
	Y     float64 `csv:"y"`
	VX    float64 `csv:"vx"`
	VY    float64 `csv:"vy"`
	Phase string  `csv:"phase"`
	hero.Input
	hero.Flags
}

func simulate(lvl *levels.Level, d *script.Driver, tuning hero.Tuning, ticks int, frame time.Duration, logger *log.Logger) ([]record, error) {
	c := hero.New(lvl.Grid(), lvl.Spawn(), tuning, nil)
	c.Log = logger

	records := make([]record, 0, ticks)
	for tick := 0; tick < ticks; tick++ {
		in, err := d.Next(tick, script.SnapshotOf(c))
		if err != nil {
			return records, err
		}
		c.Tick(in, frame)

		pos, vel := c.Position(), c.Velocity()
		records = append(records, record{
			Tick:  tick,
			X:     pos.X,
			Y:     pos.Y,
			VX:    vel.X,
			VY:    vel.Y,
			Phase: c.State().Phase().String(),
			Input: in,
			Flags: c.Flags(),
		})
	}
	return records, nil
}

type summary struct {
	Ticks     int
	FinalX    float64
	FinalY    float64
	ApexY     float64
	Rise      float64
	MeanSpeed float64
	MaxFall   float64
	Grabs     int
	Climbs    int
}

// summarize reduces a trace. Y grows downward, so the apex is the smallest
// Y and Rise is how far above the starting feet height it lies.
func summarize(records []record) summary {
	if len(records) == 0 {
		return summary{}
	}
	ys := make([]float64, len(records))
	vys := make([]float64, len(records))
	speeds := make([]float64, 0, len(records))
	var s summary
	for i, r := range records {
		ys[i] = r.Y
		vys[i] = r.VY
		if i > 0 {
			prev := records[i-1]
			speeds = append(speeds, math.Hypot(r.X-prev.X, r.Y-prev.Y))
			if r.Phase != prev.Phase {
				switch r.Phase {
				case hero.Grabbed.String():
					s.Grabs++
				case hero.Climbing.String():
					s.Climbs++
				}
			}
		}
	}

	last := records[len(records)-1]
	s.Ticks = len(records)
	s.FinalX, s.FinalY = last.X, last.Y
	s.ApexY = floats.Min(ys)
	s.Rise = ys[0] - s.ApexY
	s.MaxFall = math.Max(0, floats.Max(vys))
	if len(speeds) > 0 {
		s.MeanSpeed = stat.Mean(speeds, nil)
	}
	return s
}
