package warps

// TimerKind identifies what a timer delays.
// A subject holds at most one timer of each kind at a time.
type TimerKind int

const (
	// Warmup delays a requested teleport. It is aborted when the subject moves
	// too far or takes damage before the deadline.
	Warmup TimerKind = iota

	// Cooldown blocks further teleports after a successful one.
	Cooldown

	// timerKindCount is the total number of timer kinds.
	timerKindCount
)

// String returns the string representation of the timer kind.
func (k TimerKind) String() string {
	switch k {
	case Warmup:
		return "warmup"
	case Cooldown:
		return "cooldown"
	default:
		return "unknown"
	}
}
