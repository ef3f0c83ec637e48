// Package store holds the client-side state stores that keep local UI state
// consistent with the backend: the video catalog, per-video reactions, the
// subscription set, and comment lists. Mutating stores apply changes
// optimistically and reconcile with the server's authoritative response.
package store

// OptimisticUpdate tracks a locally applied mutation until the server
// confirms or rejects it. The optimistic value is a bridge; the server
// response is ground truth.
type OptimisticUpdate struct {
	revert  func()
	settled bool
}

// BeginOptimistic runs apply immediately and captures the revert closure it
// returns. Exactly one of Commit or Rollback settles the update.
func BeginOptimistic(apply func() (revert func())) *OptimisticUpdate {
	return &OptimisticUpdate{revert: apply()}
}

// Commit keeps the mutation. The caller then replaces the optimistic values
// with the server-returned authoritative ones.
func (u *OptimisticUpdate) Commit() {
	u.settled = true
}

// Rollback restores the pre-mutation state. Calling Rollback after Commit,
// or twice, is a no-op.
func (u *OptimisticUpdate) Rollback() {
	if u.settled {
		return
	}
	u.revert()
	u.settled = true
}
