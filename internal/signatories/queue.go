package signatories

import "context"

// OrderQueue maintains the sign-order invariant for a document: among active
// signatories holding a position, the distinct positions form a contiguous
// run, except for intentional ties (a group sharing one slot). Every mutation
// runs inside the repo's per-document critical section.
type OrderQueue struct {
	Repo Repo
}

func NewOrderQueue(repo Repo) *OrderQueue {
	return &OrderQueue{Repo: repo}
}

// AssignPosition moves a signatory to the requested queue slot. Vacating a
// slot that nobody else shares closes the gap by shifting later signatories
// down one. Requests beyond the end of the queue clamp to one past the
// current maximum of the remaining signatories.
func (q *OrderQueue) AssignPosition(ctx context.Context, documentID, signatoryID string, requested int) error {
	if requested < 0 {
		return ErrWrongInput
	}
	return q.Repo.WithDocumentLock(ctx, documentID, func(store OrderStore) error {
		sigs, err := store.ListActive(ctx, documentID)
		if err != nil {
			return err
		}
		target, others, ok := splitTarget(sigs, signatoryID)
		if !ok {
			return ErrNotFound
		}
		if target.Position != nil && *target.Position == requested {
			return nil
		}

		if target.Position != nil && !sharesPosition(others, *target.Position) {
			if err := closeGapAbove(ctx, store, others, *target.Position); err != nil {
				return err
			}
		}

		maxPos, any := maxPositionAfterShift(others, target.Position)
		resolved := requested
		if !any {
			if requested > 0 {
				resolved = 1
			}
		} else if requested > maxPos {
			resolved = maxPos + 1
		}

		return store.SetPosition(ctx, signatoryID, &resolved)
	})
}

// RemovePosition takes a signatory out of the queue and soft-deletes it.
// The vacated slot is closed unless a tied sibling still occupies it.
func (q *OrderQueue) RemovePosition(ctx context.Context, documentID, signatoryID string) error {
	return q.Repo.WithDocumentLock(ctx, documentID, func(store OrderStore) error {
		sigs, err := store.ListActive(ctx, documentID)
		if err != nil {
			return err
		}
		target, others, ok := splitTarget(sigs, signatoryID)
		if !ok {
			return ErrNotFound
		}

		// Emptiness is expressed by a nil position, never a zero check:
		// slot 0 is a real slot and still triggers the gap close.
		if target.Position != nil && !sharesPosition(others, *target.Position) {
			if err := closeGapAbove(ctx, store, others, *target.Position); err != nil {
				return err
			}
		}

		if err := store.SetPosition(ctx, signatoryID, nil); err != nil {
			return err
		}
		return store.MarkDeleted(ctx, signatoryID)
	})
}

// BulkSetPosition puts every active signatory of the document into the same
// slot ("everyone signs together"). Idempotent.
func (q *OrderQueue) BulkSetPosition(ctx context.Context, documentID string, position int) error {
	if position < 0 {
		return ErrWrongInput
	}
	return q.Repo.WithDocumentLock(ctx, documentID, func(store OrderStore) error {
		sigs, err := store.ListActive(ctx, documentID)
		if err != nil {
			return err
		}
		for _, sig := range sigs {
			pos := position
			if err := store.SetPosition(ctx, sig.ID, &pos); err != nil {
				return err
			}
		}
		return nil
	})
}

func splitTarget(sigs []Signatory, signatoryID string) (Signatory, []Signatory, bool) {
	var target Signatory
	found := false
	others := make([]Signatory, 0, len(sigs))
	for _, sig := range sigs {
		if sig.ID == signatoryID {
			target = sig
			found = true
			continue
		}
		others = append(others, sig)
	}
	return target, others, found
}

func sharesPosition(sigs []Signatory, position int) bool {
	for _, sig := range sigs {
		if sig.Position != nil && *sig.Position == position {
			return true
		}
	}
	return false
}

func closeGapAbove(ctx context.Context, store OrderStore, sigs []Signatory, vacated int) error {
	for _, sig := range sigs {
		if sig.Position == nil || *sig.Position <= vacated {
			continue
		}
		shifted := *sig.Position - 1
		if err := store.SetPosition(ctx, sig.ID, &shifted); err != nil {
			return err
		}
	}
	return nil
}

// maxPositionAfterShift computes the maximum position among sigs as it stands
// after the vacated slot (if any, and untied) has been closed. sigs carry
// their pre-shift positions, so positions above the vacated slot count as one
// less.
func maxPositionAfterShift(sigs []Signatory, vacated *int) (int, bool) {
	shiftApplies := vacated != nil && !sharesPosition(sigs, *vacated)
	maxPos := 0
	any := false
	for _, sig := range sigs {
		if sig.Position == nil {
			continue
		}
		pos := *sig.Position
		if shiftApplies && pos > *vacated {
			pos--
		}
		if !any || pos > maxPos {
			maxPos = pos
			any = true
		}
	}
	return maxPos, any
}
