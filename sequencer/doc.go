// Package sequencer orders every state-changing operation on the pool into a
// single total order.
//
// # Core Components
//
// Sequencer: owns the pool state, the pending commitments and the chain
// digest as one unit and mutates them under one mutex.
//
// # Protocol
//
// A participant goes through these steps:
//  1. Commit publishes H(participant ‖ " " ‖ description); the hash is
//     recorded as pending and chained onto the digest
//  2. RevealSwap presents the same participant and hash together with the
//     swap parameters; the matching commitment is consumed and the swap is
//     executed against the current pool
//  3. A reveal without a matching commitment fails and changes nothing;
//     a reveal the pool cannot honor still consumes its commitment
//
// Withdraw drains the pool and resets the digest to zero.
//
// The revealed amount and direction are not bound to the committed hash: the
// reveal only proves ownership of a pending commitment.
//
// # Concurrency
//
// Each operation is one critical section of pure computation. Metric updates
// are atomic stores and happen inside it, so gauges follow the lock order.
// Anything that may block, such as reading user input, decoding hex or
// logging, happens outside of it.
package sequencer
