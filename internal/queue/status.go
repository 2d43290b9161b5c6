package queue

// forward lists the single status each status may advance to.
var forward = map[Status]Status{
	StatusWaiting: StatusSeated,
	StatusSeated:  StatusDone,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusSeated, StatusDone:
		return true
	}
	return false
}

// Next returns the status that follows s, or false when s is terminal.
func (s Status) Next() (Status, bool) {
	next, ok := forward[s]
	return next, ok
}

// ValidTransition reports whether an entry in from may move to to. Only
// single forward steps are allowed; Done is terminal.
func ValidTransition(from, to Status) bool {
	next, ok := forward[from]
	return ok && next == to
}
