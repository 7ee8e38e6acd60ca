package sweep

// State is the lifecycle stage of a Driver.
//
// Transitions only move forward: Idle -> Loading -> Running -> Done.
// A failed load goes straight to Done.
type State uint8

const (
	StateIdle    State = 0x0 // StateIdle is a driver that has not started.
	StateLoading State = 0x1 // StateLoading is loading the corpus.
	StateRunning State = 0x2 // StateRunning is measuring configurations.
	StateDone    State = 0x3 // StateDone is a finished or aborted sweep.
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	default:
		return "Unknown"
	}
}
