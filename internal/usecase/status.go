package usecase

// Status is the lifecycle state of an asset or carousel.
type Status string

const (
	StatusDraft         Status = "DRAFT"
	StatusPendingReview Status = "PENDING_REVIEW"
	StatusApproved      Status = "APPROVED"
	StatusRejected      Status = "REJECTED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// AggregateStatus derives a carousel's status from its children's statuses.
// The carousel status is never written directly by callers; every child
// mutation or deletion is followed by a recompute from a fresh child read.
//
//   - no children        -> DRAFT
//   - all APPROVED       -> APPROVED
//   - all REJECTED       -> REJECTED
//   - anything else      -> PENDING_REVIEW
//
// A mix of APPROVED and REJECTED with nothing pending still yields
// PENDING_REVIEW; there is no partially-approved state.
func AggregateStatus(children []Status) Status {
	if len(children) == 0 {
		return StatusDraft
	}

	allApproved := true
	allRejected := true
	for _, s := range children {
		if s != StatusApproved {
			allApproved = false
		}
		if s != StatusRejected {
			allRejected = false
		}
	}

	switch {
	case allApproved:
		return StatusApproved
	case allRejected:
		return StatusRejected
	default:
		return StatusPendingReview
	}
}
