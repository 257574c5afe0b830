package app

// ReinitError is returned when a subsystem that exists once per process is
// initialized a second time. It indicates a programming error.
type ReinitError struct {
	Item string
}

// Error returns "<item> initialized twice"
func (e *ReinitError) Error() string {
	return e.Item + " initialized twice"
}
