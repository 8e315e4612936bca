package migration

import (
	"fmt"
	"strings"

	"github.com/poiesic/corpora/core"
)

// Phase is the coarse stage of a run.
type Phase int

const (
	PhasePending Phase = iota
	PhaseRunning
	PhaseDone
)

// State is the run state: PENDING, RUNNING(<wave>) or DONE.
type State struct {
	Phase Phase
	Wave  core.Tier // set while running
}

func (s State) String() string {
	switch s.Phase {
	case PhasePending:
		return "PENDING"
	case PhaseRunning:
		return fmt.Sprintf("RUNNING(%s)", strings.ToUpper(s.Wave.String()))
	case PhaseDone:
		return "DONE"
	default:
		return fmt.Sprintf("phase(%d)", int(s.Phase))
	}
}

// WaveEvent is delivered to a WaveHook when a wave starts or finishes.
type WaveEvent struct {
	Tier     core.Tier
	Finished bool
	Batches  int // batches in the wave
	Executed int // batches actually run; set when Finished
}

// WaveHook observes wave boundaries. It is called synchronously from the
// goroutine running ExecuteAll.
type WaveHook func(WaveEvent)

// Progress receives per-item progress. report.ProgressTracker implements it.
type Progress interface {
	Start(total int)
	Increment(delta int)
	Finish()
}
