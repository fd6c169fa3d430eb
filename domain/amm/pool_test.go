package amm

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func mustPool(t *testing.T, base, quote uint64) PoolState {
	t.Helper()
	p, err := NewPool(base, quote)
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	return p
}

func TestNewPool(t *testing.T) {
	p := mustPool(t, 1000, 1000)
	if p.K != 1000000 {
		t.Fatalf("expected k 1000000, got %d", p.K)
	}
	if _, err := NewPool(math.MaxUint64, 2); !errors.Is(err, ErrReserveOverflow) {
		t.Fatalf("expected ErrReserveOverflow, got %v", err)
	}
}

func TestSwapScenario(t *testing.T) {
	p := mustPool(t, 1000, 1000)

	p, out, err := ApplySwap(p, 100, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ReserveBase != 1100 || p.ReserveQuote != 909 || out != 91 {
		t.Fatalf("expected 1100/909 out 91, got %d/%d out %d", p.ReserveBase, p.ReserveQuote, out)
	}

	p, out, err = ApplySwap(p, 50, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// quote side 909+50 = 959, base side 1000000/959 = 1042
	if p.ReserveBase != 1042 || p.ReserveQuote != 959 || out != 58 {
		t.Fatalf("expected 1042/959 out 58, got %d/%d out %d", p.ReserveBase, p.ReserveQuote, out)
	}
	if p.K != 1000000 {
		t.Fatalf("k must not change, got %d", p.K)
	}
}

func TestSwapDoesNotMutateInput(t *testing.T) {
	p := mustPool(t, 1000, 1000)
	before := p
	if _, _, err := ApplySwap(p, 100, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != before {
		t.Fatalf("input state changed: %+v", p)
	}
}

func TestSwapFailures(t *testing.T) {
	tests := []struct {
		name      string
		pool      PoolState
		input     uint64
		baseInput bool
		want      error
	}{
		{"empty pool zero input", PoolState{}, 0, true, ErrInsufficientLiquidity},
		{"empty pool", PoolState{}, 10, false, ErrInsufficientLiquidity},
		{"zero input", PoolState{ReserveBase: 1000, ReserveQuote: 1000, K: 1000000}, 0, true, ErrInsufficientLiquidity},
		{"drain", PoolState{ReserveBase: 10, ReserveQuote: 10, K: 100}, 1000, true, ErrInsufficientLiquidity},
		{"too small to pay out", PoolState{ReserveBase: 1000, ReserveQuote: 999, K: 1000000}, 1, true, ErrInsufficientLiquidity},
		{"overflow", PoolState{ReserveBase: math.MaxUint64, ReserveQuote: 1, K: math.MaxUint64}, 1, true, ErrReserveOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, out, err := ApplySwap(tt.pool, tt.input, tt.baseInput)
			if !errors.Is(err, ErrInsufficientLiquidity) {
				t.Fatalf("every rejection must be a liquidity failure, got %v", err)
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if next != tt.pool || out != 0 {
				t.Fatalf("failed swap must return the original state and no output, got %+v out %d", next, out)
			}
		})
	}
}

func TestInvariantPreserved(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	p := mustPool(t, 1000000, 2500000)
	swaps := 0
	for i := 0; i < 5000; i++ {
		next, out, err := ApplySwap(p, uint64(r.Intn(50000)), r.Intn(2) == 0)
		if err != nil {
			if !errors.Is(err, ErrInsufficientLiquidity) {
				t.Fatalf("unexpected error: %v", err)
			}
			continue
		}
		if out == 0 {
			t.Fatal("successful swap must pay out something")
		}
		if err := next.CheckInvariant(); err != nil {
			t.Fatalf("swap %d: %v", i, err)
		}
		if next.Drained() {
			t.Fatalf("swap %d drained the pool: %+v", i, next)
		}
		p = next
		swaps++
	}
	if swaps == 0 {
		t.Fatal("expected at least one successful swap")
	}
}

func TestWithdraw(t *testing.T) {
	p := mustPool(t, 1000, 1000)
	base, quote, next := ApplyWithdraw(p)
	if base != 1000 || quote != 1000 {
		t.Fatalf("expected 1000/1000, got %d/%d", base, quote)
	}
	if next != (PoolState{}) {
		t.Fatalf("expected empty pool, got %+v", next)
	}

	base, quote, next = ApplyWithdraw(next)
	if base != 0 || quote != 0 || next != (PoolState{}) {
		t.Fatalf("withdrawing an empty pool should yield zeros, got %d/%d %+v", base, quote, next)
	}
	if _, _, err := ApplySwap(next, 100, true); !errors.Is(err, ErrInsufficientLiquidity) {
		t.Fatalf("expected ErrInsufficientLiquidity after withdraw, got %v", err)
	}
}

func TestCheckInvariant(t *testing.T) {
	bad := PoolState{ReserveBase: 10, ReserveQuote: 11, K: 100}
	if err := bad.CheckInvariant(); !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected ErrInvariantViolated, got %v", err)
	}
	huge := PoolState{ReserveBase: math.MaxUint64, ReserveQuote: math.MaxUint64, K: math.MaxUint64}
	if err := huge.CheckInvariant(); !errors.Is(err, ErrInvariantViolated) {
		t.Fatalf("expected ErrInvariantViolated without overflow, got %v", err)
	}
}
