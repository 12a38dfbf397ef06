// Package applications implements job applications: a job seeker applies
// to a job, and employees of the owning company move the application
// through its status graph.
//
// Valid status graph:
//
//	pending ──► reviewing ──► accepted
//	   │            └───────► rejected
//	   ├──────────────────────► accepted
//	   └──────────────────────► rejected
//
// accepted and rejected are terminal. Re-applying the current status is a
// no-op move that only updates the employer response.
package applications

import "fmt"

// Status values mirror the job_requests.status check constraint.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
)

var allStatuses = []Status{StatusPending, StatusReviewing, StatusAccepted, StatusRejected}

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusPending:   {StatusReviewing, StatusAccepted, StatusRejected},
	StatusReviewing: {StatusAccepted, StatusRejected},
	// accepted and rejected are terminal
}

// ParseStatus converts a raw string to a Status. Matching is exact.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusReviewing, StatusAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTransitionAllowed reports whether from → to is an edge of the graph.
func IsTransitionAllowed(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CanMove reports whether an application in from may be set to to:
// either an edge of the graph or the same status again.
func CanMove(from, to Status) bool {
	return from == to || IsTransitionAllowed(from, to)
}

// IsTerminal reports whether no other status is reachable from s.
func IsTerminal(s Status) bool { return len(validTransitions[s]) == 0 }

// sourcesOf returns every status from which to can be set.
func sourcesOf(to Status) []string {
	var out []string
	for _, s := range allStatuses {
		if CanMove(s, to) {
			out = append(out, string(s))
		}
	}
	return out
}

// Action is a bulk operation.
type Action string

const (
	ActionAccept       Action = "accept"
	ActionReject       Action = "reject"
	ActionMarkReviewed Action = "mark-reviewed"
	ActionArchive      Action = "archive"
)

// ParseAction converts a raw string to an Action.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	switch a {
	case ActionAccept, ActionReject, ActionMarkReviewed, ActionArchive:
		return a, nil
	}
	return "", fmt.Errorf("unknown bulk action %q", s)
}

// Target is the status an action sets. Archive sets none.
func (a Action) Target() (Status, bool) {
	switch a {
	case ActionAccept:
		return StatusAccepted, true
	case ActionReject:
		return StatusRejected, true
	case ActionMarkReviewed:
		return StatusReviewing, true
	}
	return "", false
}
