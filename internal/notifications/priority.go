package notifications

// Priority is the urgency of a notification.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// DefaultPriority applies when an event does not specify one.
const DefaultPriority = PriorityNormal

var priorityRank = map[Priority]int{
	PriorityLow:    0,
	PriorityNormal: 1,
	PriorityHigh:   2,
}

// ValidPriority reports whether value is one of low, normal or high.
func ValidPriority(value string) bool {
	_, ok := priorityRank[Priority(value)]
	return ok
}

// Rank orders priorities low < normal < high. Unknown labels rank with low.
func Rank(value string) int {
	return priorityRank[Priority(value)]
}

// MeetsThreshold reports whether priority is at or above threshold. Because
// unknown labels rank lowest on both sides, an unknown priority never clears
// normal or high, while an unknown or empty threshold is cleared by anything.
func MeetsThreshold(priority, threshold string) bool {
	return Rank(priority) >= Rank(threshold)
}
