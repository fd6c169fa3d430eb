package sequencer

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/luca-patrignani/sequenced-amm/commitment"
	"github.com/luca-patrignani/sequenced-amm/common"
	"github.com/luca-patrignani/sequenced-amm/domain/amm"
	"github.com/luca-patrignani/sequenced-amm/ledger"
	"github.com/luca-patrignani/sequenced-amm/metrics"
)

// SwapRequest is a reveal: the commitment being consumed and the swap to run.
type SwapRequest struct {
	ParticipantID string
	Commitment    common.Hash
	InputAmount   uint64
	BaseInput     bool
}

// SwapResult is the outcome of an executed swap.
type SwapResult struct {
	Output uint64
	Fee    uint64 // informational, not deducted
	Pool   amm.PoolState
	Digest common.Hash
}

// WithdrawResult holds the reserves handed out by Withdraw.
type WithdrawResult struct {
	Base  uint64
	Quote uint64
}

// Snapshot is a read-only copy of the sequencer state.
type Snapshot struct {
	Pool    amm.PoolState
	Digest  common.Hash
	Pending int
	Height  int
}

// state is the unit guarded by Sequencer.mu. Its parts are never locked
// separately.
type state struct {
	pool        amm.PoolState
	commitments *commitment.Ledger
	chain       *ledger.Chain
}

type Sequencer struct {
	mu    sync.Mutex
	state state

	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New creates a sequencer over the given pool with no pending commitments and
// a zero digest.
func New(pool amm.PoolState, opts ...Option) *Sequencer {
	s := &Sequencer{
		state: state{
			pool:        pool,
			commitments: commitment.NewLedger(),
			chain:       ledger.NewChain(),
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics != nil {
		s.metrics.Reserves(pool.ReserveBase, pool.ReserveQuote)
	}
	return s
}

// CommitmentHash returns the hash a participant commits to for a described
// action: H(participant ‖ " " ‖ description).
func CommitmentHash(participantID, description string) common.Hash {
	return common.Digest([]byte(participantID), []byte(" "), []byte(description))
}

// Commit records a commitment for the participant, chains it onto the digest
// and returns its hash.
func (s *Sequencer) Commit(participantID, description string) common.Hash {
	hash := CommitmentHash(participantID, description)

	s.mu.Lock()
	s.state.commitments.Record(participantID, hash)
	block := s.state.chain.AppendCommit(participantID, hash)
	if s.metrics != nil {
		s.metrics.Committed(s.state.commitments.Len())
	}
	s.mu.Unlock()

	s.logger.Debug("commitment recorded",
		"participant", participantID,
		"hash", hash.String(),
		"height", block.Index,
		"digest", block.Digest.String(),
	)
	return hash
}

// RevealSwap consumes the participant's matching commitment and executes the
// swap against the current pool.
//
// Without a matching commitment it fails with commitment.ErrCommitmentMismatch
// and nothing changes. If the pool rejects the swap the commitment stays
// consumed, while the pool and the digest are left as they were.
func (s *Sequencer) RevealSwap(req SwapRequest) (SwapResult, error) {
	s.mu.Lock()
	res, pending, err := s.revealSwapLocked(req)
	s.recordReveal(res, pending, err)
	s.mu.Unlock()

	switch {
	case err == nil:
		s.logger.Debug("swap executed",
			"participant", req.ParticipantID,
			"input", req.InputAmount,
			"base_input", req.BaseInput,
			"output", res.Output,
			"reserve_base", res.Pool.ReserveBase,
			"reserve_quote", res.Pool.ReserveQuote,
			"digest", res.Digest.String(),
		)
	case errors.Is(err, commitment.ErrCommitmentMismatch):
		s.logger.Warn("reveal rejected", "participant", req.ParticipantID, "error", err)
	default:
		s.logger.Warn("swap failed, commitment consumed", "participant", req.ParticipantID, "error", err)
	}
	return res, err
}

// recordReveal publishes the outcome of a reveal. It runs under mu so the
// gauges follow the order in which the lock was granted.
func (s *Sequencer) recordReveal(res SwapResult, pending int, err error) {
	if s.metrics == nil {
		return
	}
	switch {
	case err == nil:
		s.metrics.Swapped(res.Output, res.Pool.ReserveBase, res.Pool.ReserveQuote, pending)
	case errors.Is(err, commitment.ErrCommitmentMismatch):
		s.metrics.Mismatch()
	default:
		s.metrics.LiquidityFailure(pending)
	}
}

func (s *Sequencer) revealSwapLocked(req SwapRequest) (SwapResult, int, error) {
	st := &s.state
	if _, err := st.commitments.TakeMatching(req.ParticipantID, req.Commitment); err != nil {
		return SwapResult{}, st.commitments.Len(), err
	}
	payload := ledger.EncodeSwapPayload(st.pool.ReserveBase, st.pool.ReserveQuote, req.InputAmount)
	next, output, err := amm.ApplySwap(st.pool, req.InputAmount, req.BaseInput)
	if err != nil {
		return SwapResult{}, st.commitments.Len(), err
	}
	st.pool = next
	block := st.chain.AppendSwap(req.ParticipantID, payload)
	return SwapResult{
		Output: output,
		Fee:    amm.ProtocolFee,
		Pool:   next,
		Digest: block.Digest,
	}, st.commitments.Len(), nil
}

// Withdraw drains the pool, resets k and the digest to zero and returns the
// drained reserves. Pending commitments are kept.
func (s *Sequencer) Withdraw() WithdrawResult {
	s.mu.Lock()
	base, quote, next := amm.ApplyWithdraw(s.state.pool)
	s.state.pool = next
	s.state.chain.AppendWithdraw("")
	if s.metrics != nil {
		s.metrics.Withdrawn()
	}
	s.mu.Unlock()

	s.logger.Info("pool withdrawn", "base", base, "quote", quote)
	return WithdrawResult{Base: base, Quote: quote}
}

// Status returns a consistent snapshot of the pool, the digest and the
// pending commitment count.
func (s *Sequencer) Status() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Pool:    s.state.pool,
		Digest:  s.state.chain.Digest(),
		Pending: s.state.commitments.Len(),
		Height:  s.state.chain.Height(),
	}
}

// Pending returns the commitments waiting for a reveal.
func (s *Sequencer) Pending() []commitment.Commitment {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.commitments.Pending()
}

// Journal returns every accepted step, genesis first.
func (s *Sequencer) Journal() []ledger.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.chain.Blocks()
}

// Verify replays the journal and checks it against the current digest.
func (s *Sequencer) Verify() error {
	s.mu.Lock()
	blocks := s.state.chain.Blocks()
	digest := s.state.chain.Digest()
	s.mu.Unlock()
	return ledger.VerifyBlocks(blocks, digest)
}
