package warps

// Action is the work a timer performs once its deadline has passed.
// The timer entry is already removed from the registry when Run is called.
type Action interface {
	Run()
}

// Abortable is implemented by actions that may cancel themselves while scheduled.
// Abort is polled at the timer poll interval and once more right before Run.
// Returning true removes the timer without calling Run.
type Abortable interface {
	Abort() bool
}

// ActionFunc adapts an ordinary function to an Action.
type ActionFunc func()

// Run calls f.
func (f ActionFunc) Run() {
	f()
}
