package hero

import "github.com/jakecoffman/cp"

// Clip names requested from the Poser.
const (
	ClipWalk  = "walk"
	ClipCrawl = "crawl"
	ClipJump  = "jump"
	ClipFall  = "fall"
	ClipGrab  = "grab"
	ClipClimb = "climb"
	ClipIdle  = "idle"
)

// Poser receives pose-blend requests and the anchor sync at the end of each
// tick. The controller never reads anything back except clip durations.
type Poser interface {
	// Rest returns the rig to its bind pose.
	Rest()
	// Mix blends the rig toward clip at time t by alpha.
	Mix(clip string, t float64, loop bool, alpha float64)
	// Apply poses the rig at clip time t with full weight.
	Apply(clip string, t float64, loop bool)
	// Duration returns the clip length in seconds, or 0 when unknown.
	Duration(clip string) float64
	// Sync moves the rig root to the feet anchor and sets mirroring.
	Sync(root cp.Vector, flipX bool)
}

type nopPoser struct{}

func (nopPoser) Rest()                              {}
func (nopPoser) Mix(string, float64, bool, float64) {}
func (nopPoser) Apply(string, float64, bool)        {}
func (nopPoser) Duration(string) float64            { return 0 }
func (nopPoser) Sync(cp.Vector, bool)               {}
