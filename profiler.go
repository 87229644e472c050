package forward

import (
	"fmt"
	"time"

	"github.com/gekko3d/forward/scene"
)

// Profiler holds the timings and counts of the most recent frame.
type Profiler struct {
	ClassifyTime time.Duration
	BatchTime    time.Duration

	Instances int
	Lights    int
	Batches   scene.Stats
}

func (p *Profiler) Reset() {
	*p = Profiler{}
}

func (p Profiler) String() string {
	return fmt.Sprintf("classify %v (%d instances), batch %v (%d lights): %d lit/%d unlit batches, %d translucent, %d shadow draws",
		p.ClassifyTime, p.Instances, p.BatchTime, p.Lights,
		p.Batches.OpaqueLitBatches, p.Batches.OpaqueUnlitBatches, p.Batches.Translucent, p.Batches.ShadowDraws)
}
