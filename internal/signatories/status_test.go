package signatories

import "testing"

func sigWith(userID string, signing SigningStatus, read ReadStatus) Signatory {
	return Signatory{ID: "sig-" + userID, UserID: userID, Signing: signing, Read: read}
}

func TestAggregateSigningPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		statuses []SigningStatus
		want     SigningStatus
	}{
		{"empty set is done", nil, SigningDone},
		{"uniform pending stays pending", []SigningStatus{SigningPending, SigningPending}, SigningPending},
		{"uniform signed stays signed", []SigningStatus{SigningSigned, SigningSigned}, SigningSigned},
		{"canceled beats everything", []SigningStatus{SigningSigned, SigningRejected, SigningCanceled}, SigningCanceled},
		{"rejected beats review", []SigningStatus{SigningAskForReview, SigningRejected}, SigningRejected},
		{"review beats done", []SigningStatus{SigningDone, SigningAskForReview}, SigningAskForReview},
		{"done beats pending", []SigningStatus{SigningPending, SigningDone}, SigningDone},
		{"mixed without precedence hit falls to pending", []SigningStatus{SigningPending, SigningSigned}, SigningPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sigs := make([]Signatory, 0, len(tc.statuses))
			for i, status := range tc.statuses {
				sigs = append(sigs, sigWith(string(rune('a'+i)), status, ReadRead))
			}
			got := Aggregate(sigs, "")
			if got.Signing != tc.want {
				t.Errorf("signing = %s, want %s", got.Signing, tc.want)
			}
		})
	}
}

func TestAggregateReadPrecedence(t *testing.T) {
	cases := []struct {
		name     string
		statuses []ReadStatus
		want     ReadStatus
	}{
		{"empty set is read", nil, ReadRead},
		{"uniform opened stays opened", []ReadStatus{ReadOpened, ReadOpened}, ReadOpened},
		{"not_sent beats everything", []ReadStatus{ReadRead, ReadNotReceived, ReadNotSent}, ReadNotSent},
		{"not_received beats sent", []ReadStatus{ReadSent, ReadNotReceived}, ReadNotReceived},
		{"sent beats read", []ReadStatus{ReadRead, ReadSent}, ReadSent},
		{"mixed without precedence hit falls to read", []ReadStatus{ReadRead, ReadOpened}, ReadRead},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sigs := make([]Signatory, 0, len(tc.statuses))
			for i, status := range tc.statuses {
				sigs = append(sigs, sigWith(string(rune('a'+i)), SigningPending, status))
			}
			got := Aggregate(sigs, "")
			if got.Read != tc.want {
				t.Errorf("read = %s, want %s", got.Read, tc.want)
			}
		})
	}
}

func TestAggregateExcludesCaller(t *testing.T) {
	sigs := []Signatory{
		sigWith("me", SigningCanceled, ReadNotSent),
		sigWith("other", SigningSigned, ReadRead),
	}

	got := Aggregate(sigs, "me")
	if got.Signing != SigningSigned {
		t.Errorf("signing = %s, want %s", got.Signing, SigningSigned)
	}
	if got.Read != ReadRead {
		t.Errorf("read = %s, want %s", got.Read, ReadRead)
	}
}

func TestAggregateOrderIndependent(t *testing.T) {
	forward := []Signatory{
		sigWith("a", SigningRejected, ReadSent),
		sigWith("b", SigningDone, ReadNotReceived),
		sigWith("c", SigningPending, ReadRead),
	}
	backward := []Signatory{forward[2], forward[1], forward[0]}

	if Aggregate(forward, "") != Aggregate(backward, "") {
		t.Errorf("aggregate depends on input order")
	}
}
