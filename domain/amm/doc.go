// Package amm implements the constant-product pool behind the sequencer.
//
// # Core Types
//
// PoolState: the two reserves of the pool and the invariant k fixed when the
// pool is created.
//
// # Swap Math
//
// Depositing an amount of one asset grows that reserve; the other reserve is
// recomputed as k divided by the new deposit-side reserve, rounded down. The
// depositor receives the difference on the other side. Because of the floor
// division the product of the reserves never exceeds k.
//
// The functions in this package are pure: they take a state and return a new
// one, leaving ordering and atomicity to the caller.
package amm
