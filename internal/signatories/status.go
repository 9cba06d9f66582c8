package signatories

// AggregateStatus is the document-level status derived from the individual
// statuses of its signatories. It is computed on read and never persisted.
type AggregateStatus struct {
	Signing SigningStatus `json:"signingStatus"`
	Read    ReadStatus    `json:"readStatus"`
}

// Aggregate derives the composite status over every signatory whose user id
// differs from excludeUserID: the aggregate expresses where the other parties
// stand. Only set membership matters; input order is irrelevant.
//
// Signing precedence: identical set wins as-is (empty set counts as done),
// then canceled > rejected > ask_for_review > done > pending.
// Read precedence: identical set wins as-is (empty set counts as read),
// then not_sent > not_received > sent > read.
func Aggregate(sigs []Signatory, excludeUserID string) AggregateStatus {
	signingSet := make(map[SigningStatus]struct{})
	readSet := make(map[ReadStatus]struct{})
	for _, sig := range sigs {
		if sig.UserID == excludeUserID {
			continue
		}
		signingSet[sig.Signing] = struct{}{}
		readSet[sig.Read] = struct{}{}
	}

	return AggregateStatus{
		Signing: aggregateSigning(signingSet),
		Read:    aggregateRead(readSet),
	}
}

func aggregateSigning(set map[SigningStatus]struct{}) SigningStatus {
	if len(set) == 0 {
		return SigningDone
	}
	if len(set) == 1 {
		for status := range set {
			return status
		}
	}
	for _, status := range []SigningStatus{SigningCanceled, SigningRejected, SigningAskForReview, SigningDone} {
		if _, ok := set[status]; ok {
			return status
		}
	}
	return SigningPending
}

func aggregateRead(set map[ReadStatus]struct{}) ReadStatus {
	if len(set) == 0 {
		return ReadRead
	}
	if len(set) == 1 {
		for status := range set {
			return status
		}
	}
	for _, status := range []ReadStatus{ReadNotSent, ReadNotReceived, ReadSent} {
		if _, ok := set[status]; ok {
			return status
		}
	}
	return ReadRead
}
