// Package importjob holds the import-job state machine rules and the snapshot
// watch primitives shared by server workers and client observers.
package importjob

import "github.com/drivelot/inventory-api/internal/domain/model"

// transitions enumerates every legal edge. FAILED is additionally reachable
// from any non-terminal state.
var transitions = map[model.ImportStatus][]model.ImportStatus{
	model.ImportStatusUploaded:     {model.ImportStatusPreviewReady, model.ImportStatusFailed},
	model.ImportStatusPreviewReady: {model.ImportStatusCommitting, model.ImportStatusFailed},
	model.ImportStatusCommitting:   {model.ImportStatusCommitted, model.ImportStatusFailed},
}

// CanTransition reports whether from → to is a legal edge of the state machine.
func CanTransition(from, to model.ImportStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// statusRank orders statuses along the forward-only lifecycle. Terminal states
// share the top rank: once either is observed nothing may displace it.
var statusRank = map[model.ImportStatus]int{
	model.ImportStatusUploaded:     0,
	model.ImportStatusPreviewReady: 1,
	model.ImportStatusCommitting:   2,
	model.ImportStatusCommitted:    3,
	model.ImportStatusFailed:       3,
}

// Rank returns the monotonic position of a status. Unknown statuses rank
// below everything so they can never displace a real observation.
func Rank(s model.ImportStatus) int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// Supersedes reports whether a snapshot in status next should replace one in
// status prev under the monotonicity rule: later-arriving but
// logically-earlier snapshots are discarded, equal-rank snapshots are kept
// (progress counters may have advanced within the same status).
func Supersedes(next, prev model.ImportStatus) bool {
	return Rank(next) >= Rank(prev)
}
