package ledger

import "github.com/luca-patrignani/sequenced-amm/common"

// Kind names the step recorded in a block.
type Kind string

const (
	KindGenesis  Kind = "genesis"
	KindCommit   Kind = "commit"
	KindSwap     Kind = "swap"
	KindWithdraw Kind = "withdraw"
)

// Block is one accepted step of the sequencer.
type Block struct {
	Index       int         `json:"index"`
	Timestamp   int64       `json:"timestamp"`
	Kind        Kind        `json:"kind"`
	Participant string      `json:"participant,omitempty"`
	Payload     []byte      `json:"payload,omitempty"` // commitment hash or swap payload
	PrevDigest  common.Hash `json:"prev_digest"`
	Digest      common.Hash `json:"digest"`
}
