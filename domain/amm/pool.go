package amm

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// ProtocolFee is reported next to every swap. It is informational and is not
// deducted from reserves or outputs.
const ProtocolFee uint64 = 2000

var (
	ErrInsufficientLiquidity = errors.New("amm: insufficient liquidity")
	ErrReserveOverflow       = errors.New("amm: reserve overflows uint64")
	ErrInvariantViolated     = errors.New("amm: reserve product exceeds k")
)

// PoolState is a snapshot of the pool.
type PoolState struct {
	ReserveBase  uint64 `json:"reserve_base" yaml:"reserve_base"`
	ReserveQuote uint64 `json:"reserve_quote" yaml:"reserve_quote"`
	K            uint64 `json:"k" yaml:"k"`
}

// NewPool creates a pool whose invariant is the product of the initial
// reserves. It fails if that product does not fit in a uint64.
func NewPool(base, quote uint64) (PoolState, error) {
	k := new(uint256.Int).Mul(uint256.NewInt(base), uint256.NewInt(quote))
	if !k.IsUint64() {
		return PoolState{}, fmt.Errorf("%w: k = %d * %d", ErrReserveOverflow, base, quote)
	}
	return PoolState{ReserveBase: base, ReserveQuote: quote, K: k.Uint64()}, nil
}

// Product returns reserve_base * reserve_quote without overflow.
func (s PoolState) Product() *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(s.ReserveBase), uint256.NewInt(s.ReserveQuote))
}

// CheckInvariant verifies that the reserve product does not exceed k.
func (s PoolState) CheckInvariant() error {
	if s.Product().Gt(uint256.NewInt(s.K)) {
		return fmt.Errorf("%w: %d * %d > %d", ErrInvariantViolated, s.ReserveBase, s.ReserveQuote, s.K)
	}
	return nil
}

// Drained reports whether either reserve is empty.
func (s PoolState) Drained() bool {
	return s.ReserveBase == 0 || s.ReserveQuote == 0
}

// ApplySwap deposits input on the base side when baseInput is set, on the
// quote side otherwise, and returns the new state with the amount paid out on
// the opposite side. The given state is never modified.
//
// It fails with ErrInsufficientLiquidity when the new deposit-side reserve is
// zero, when the recomputed opposite reserve is zero, or when the output
// would not be positive. A deposit past 64 bits fails with an error matching
// both ErrInsufficientLiquidity and ErrReserveOverflow.
func ApplySwap(s PoolState, input uint64, baseInput bool) (PoolState, uint64, error) {
	deposit, other := s.ReserveBase, s.ReserveQuote
	if !baseInput {
		deposit, other = other, deposit
	}

	sum := new(uint256.Int).Add(uint256.NewInt(deposit), uint256.NewInt(input))
	if !sum.IsUint64() {
		return s, 0, fmt.Errorf("%w: %w: %d + %d", ErrInsufficientLiquidity, ErrReserveOverflow, deposit, input)
	}
	newDeposit := sum.Uint64()
	if newDeposit == 0 {
		return s, 0, fmt.Errorf("%w: deposit side reserve is zero", ErrInsufficientLiquidity)
	}
	newOther := s.K / newDeposit
	if newOther == 0 {
		return s, 0, fmt.Errorf("%w: swap would drain the pool", ErrInsufficientLiquidity)
	}
	if newOther >= other {
		return s, 0, fmt.Errorf("%w: output would be %d - %d", ErrInsufficientLiquidity, other, newOther)
	}
	output := other - newOther

	next := PoolState{K: s.K}
	if baseInput {
		next.ReserveBase, next.ReserveQuote = newDeposit, newOther
	} else {
		next.ReserveBase, next.ReserveQuote = newOther, newDeposit
	}
	return next, output, nil
}

// ApplyWithdraw hands out both reserves and returns an empty pool with k reset
// to zero. Withdrawing from an empty pool yields zeros.
func ApplyWithdraw(s PoolState) (base, quote uint64, next PoolState) {
	return s.ReserveBase, s.ReserveQuote, PoolState{}
}
