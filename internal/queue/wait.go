package queue

const perPartyMinutes = 5

// baseWait is the floor estimate for an empty queue, in minutes.
func baseWait(t Type) int {
	if t == TypeTable {
		return 20
	}
	return 15
}

// EstimateWait is the client-side heuristic shown before the server answers:
// the type's base wait plus five minutes per party already waiting for the
// same type.
func EstimateWait(t Type, waitingOfType int) int {
	if waitingOfType < 0 {
		waitingOfType = 0
	}
	return baseWait(t) + perPartyMinutes*waitingOfType
}
