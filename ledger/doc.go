// Package ledger keeps the chain digest of the sequencer and the journal of
// the steps that produced it.
//
// # Core Components
//
// Chain: the running 32-byte digest plus an append-only journal of accepted
// steps.
//
// Block: one accepted step, carrying the digest before and after it.
//
// # Digest Rules
//
// The digest starts as 32 zero bytes and moves with every accepted step:
//   - commit: digest = H(digest ‖ commitment hash)
//   - swap: digest = H(base ‖ quote ‖ input), each 8-byte big-endian, taken
//     from the reserves before the swap; the previous digest is not chained
//   - withdraw: digest = 32 zero bytes
//
// # Usage
//
// Verify replays these rules over the journal and reports the first block
// whose links or digest do not match.
//
// Chain does no locking. The sequencer mutates it only inside the critical
// section it shares with the pool and the commitment ledger.
package ledger
