// Package simulation drives a sequencer with independent participants that
// commit and reveal concurrently after random network delays.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/luca-patrignani/sequenced-amm/common"
	"github.com/luca-patrignani/sequenced-amm/config"
	"github.com/luca-patrignani/sequenced-amm/sequencer"
)

// Engine is the part of the sequencer a participant talks to.
type Engine interface {
	Commit(participantID, description string) common.Hash
	RevealSwap(req sequencer.SwapRequest) (sequencer.SwapResult, error)
}

type Participant struct {
	ID          string
	Description string
	Amount      uint64
	BaseInput   bool
}

// Outcome is what happened to one participant.
type Outcome struct {
	Participant Participant
	Commitment  common.Hash
	Result      sequencer.SwapResult
	Err         error
}

type Report struct {
	Swapped  uint64
	Failed   uint64
	Outcomes []Outcome
}

// Participants builds n participants numbered from 1: User-i deposits 50*i,
// on the base side for odd i and on the quote side for even i.
func Participants(n int) []Participant {
	out := make([]Participant, n)
	for i := range n {
		amount := uint64(50 * (i + 1))
		base := i%2 == 0
		asset := "Tokens"
		if base {
			asset = "BCH"
		}
		out[i] = Participant{
			ID:          fmt.Sprintf("User-%d", i+1),
			Description: fmt.Sprintf("swap %d %s", amount, asset),
			Amount:      amount,
			BaseInput:   base,
		}
	}
	return out
}

// Run lets every participant commit and then reveal, each in its own
// goroutine. Failed reveals are reported in the outcome of the participant
// and do not stop the others. Run only returns an error when ctx is done
// before every participant finished.
func Run(ctx context.Context, engine Engine, participants []Participant, delays config.Simulation, logger *slog.Logger) (Report, error) {
	var (
		swapped = atomic.NewUint64(0)
		failed  = atomic.NewUint64(0)
	)
	outcomes := make([]Outcome, len(participants))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range participants {
		g.Go(func() error {
			outcomes[i].Participant = p
			if err := sleep(ctx, delays.MinNetworkDelay, delays.MaxNetworkDelay); err != nil {
				return err
			}
			h := engine.Commit(p.ID, p.Description)
			outcomes[i].Commitment = h
			logger.Info("committed", "participant", p.ID, "hash", h.String())

			if err := sleep(ctx, delays.MinRevealDelay, delays.MaxRevealDelay); err != nil {
				return err
			}
			res, err := engine.RevealSwap(sequencer.SwapRequest{
				ParticipantID: p.ID,
				Commitment:    h,
				InputAmount:   p.Amount,
				BaseInput:     p.BaseInput,
			})
			outcomes[i].Result, outcomes[i].Err = res, err
			if err != nil {
				failed.Inc()
				logger.Warn("reveal failed", "participant", p.ID, "error", err)
				return nil
			}
			swapped.Inc()
			logger.Info("swapped",
				"participant", p.ID,
				"output", res.Output,
				"reserve_base", res.Pool.ReserveBase,
				"reserve_quote", res.Pool.ReserveQuote,
			)
			return nil
		})
	}
	err := g.Wait()
	report := Report{
		Swapped:  swapped.Load(),
		Failed:   failed.Load(),
		Outcomes: outcomes,
	}
	if err != nil {
		return report, fmt.Errorf("simulation interrupted: %w", err)
	}
	return report, nil
}

func sleep(ctx context.Context, lo, hi time.Duration) error {
	d := lo
	if hi > lo {
		d += rand.N(hi - lo)
	}
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Interrupted reports whether err comes from a cancelled or expired context.
func Interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
