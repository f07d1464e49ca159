package payrun

// Status of a pay run.
type Status string

const (
	StatusDraft    Status = "Draft"
	StatusApproved Status = "Approved"
	StatusPaid     Status = "Paid"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusPaid:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusDraft:    {StatusApproved},
	StatusApproved: {StatusDraft, StatusPaid},
	StatusPaid:     {},
}

// CanTransitionTo reports whether s may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CheckTransition returns nil when s may move to next, otherwise the error
// describing why not.
func (s Status) CheckTransition(next Status) error {
	if s == StatusPaid {
		return ErrPayRunPaid
	}
	if !s.CanTransitionTo(next) {
		return &TransitionError{From: s, To: next}
	}
	return nil
}
