// Package commitment holds the pending commitments of the commit/reveal
// protocol. A commitment is owned by the participant that recorded it and
// can only be consumed by a reveal presenting the same participant id and
// the same hash.
//
// Ledger performs no locking of its own: it is one part of the state the
// sequencer guards as a whole.
package commitment

import (
	"errors"
	"fmt"

	"github.com/luca-patrignani/sequenced-amm/common"
)

// ErrCommitmentMismatch is returned when no pending commitment matches the
// (participant, hash) pair of a reveal.
var ErrCommitmentMismatch = errors.New("commitment: no matching commitment")

// Commitment is a pending promise of an action, identified by its hash.
type Commitment struct {
	ParticipantID string
	Hash          common.Hash
}

// Ledger is an insertion-ordered list of pending commitments. Equal hashes
// may coexist under different participants, or even under the same one.
type Ledger struct {
	pending []Commitment
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{pending: make([]Commitment, 0)}
}

// Record appends a pending commitment.
func (l *Ledger) Record(participantID string, hash common.Hash) {
	l.pending = append(l.pending, Commitment{ParticipantID: participantID, Hash: hash})
}

// TakeMatching removes and returns the oldest commitment whose participant
// and hash both match. It returns ErrCommitmentMismatch, leaving the ledger
// untouched, when none does.
func (l *Ledger) TakeMatching(participantID string, hash common.Hash) (Commitment, error) {
	for i, c := range l.pending {
		if c.ParticipantID == participantID && c.Hash == hash {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			return c, nil
		}
	}
	return Commitment{}, fmt.Errorf("%w: participant %q, hash %s", ErrCommitmentMismatch, participantID, hash)
}

// Len returns the number of pending commitments.
func (l *Ledger) Len() int {
	return len(l.pending)
}

// Pending returns a copy of the pending commitments in insertion order.
func (l *Ledger) Pending() []Commitment {
	out := make([]Commitment, len(l.pending))
	copy(out, l.pending)
	return out
}
