package domain

type Status string

const (
	StatusNotReadyForPayment Status = "not_ready_for_payment"
	StatusReadyForPayment    Status = "ready_for_payment"
	StatusInProgress         Status = "in_progress"
	StatusCompleted          Status = "completed"
	StatusCanceled           Status = "canceled"
)

// validTransitions is the full lifecycle graph. The only backwards edge is
// in_progress -> ready_for_payment, taken when a payment attempt fails.
var validTransitions = map[Status][]Status{
	StatusNotReadyForPayment: {StatusReadyForPayment, StatusCanceled},
	StatusReadyForPayment:    {StatusInProgress, StatusCanceled},
	StatusInProgress:         {StatusCompleted, StatusReadyForPayment},
	StatusCompleted:          {},
	StatusCanceled:           {},
}

func CanTransitionTo(from, to Status) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
