package ledger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/luca-patrignani/sequenced-amm/common"
)

// SwapPayloadLength is the size of the sequencing payload of a swap.
const SwapPayloadLength = 24

type Chain struct {
	digest common.Hash
	blocks []Block
	now    func() time.Time
}

// NewChain creates a chain with a zero digest and a genesis block.
func NewChain() *Chain {
	c := &Chain{
		blocks: make([]Block, 0),
		now:    time.Now,
	}
	c.blocks = append(c.blocks, Block{
		Index:     0,
		Timestamp: c.now().Unix(),
		Kind:      KindGenesis,
	})
	return c
}

// EncodeSwapPayload packs the pre-swap reserves and the input amount as three
// big-endian uint64 values.
func EncodeSwapPayload(reserveBase, reserveQuote, input uint64) []byte {
	b := make([]byte, SwapPayloadLength)
	binary.BigEndian.PutUint64(b[0:8], reserveBase)
	binary.BigEndian.PutUint64(b[8:16], reserveQuote)
	binary.BigEndian.PutUint64(b[16:24], input)
	return b
}

// Digest returns the current chain digest.
func (c *Chain) Digest() common.Hash {
	return c.digest
}

// Height returns the index of the latest block.
func (c *Chain) Height() int {
	return len(c.blocks) - 1
}

// AppendCommit chains a commitment hash onto the digest.
func (c *Chain) AppendCommit(participant string, commitment common.Hash) Block {
	return c.append(KindCommit, participant, commitment.Bytes())
}

// AppendSwap replaces the digest with the hash of a swap payload built by
// EncodeSwapPayload.
func (c *Chain) AppendSwap(participant string, payload []byte) Block {
	p := make([]byte, len(payload))
	copy(p, payload)
	return c.append(KindSwap, participant, p)
}

// AppendWithdraw resets the digest to zero.
func (c *Chain) AppendWithdraw(participant string) Block {
	return c.append(KindWithdraw, participant, nil)
}

func (c *Chain) append(kind Kind, participant string, payload []byte) Block {
	latest := c.blocks[len(c.blocks)-1]
	b := Block{
		Index:       latest.Index + 1,
		Timestamp:   c.now().Unix(),
		Kind:        kind,
		Participant: participant,
		Payload:     payload,
		PrevDigest:  c.digest,
	}
	b.Digest = nextDigest(kind, c.digest, payload)
	c.digest = b.Digest
	c.blocks = append(c.blocks, b)
	return b
}

func nextDigest(kind Kind, prev common.Hash, payload []byte) common.Hash {
	switch kind {
	case KindCommit:
		return common.Digest(prev[:], payload)
	case KindSwap:
		return common.Digest(payload)
	default:
		return common.ZeroHash
	}
}

// Blocks returns a copy of the journal, genesis included.
func (c *Chain) Blocks() []Block {
	out := make([]Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Verify replays the digest rules over the journal and checks that the
// current digest is the one of the latest block.
func (c *Chain) Verify() error {
	return VerifyBlocks(c.blocks, c.digest)
}

// VerifyBlocks checks a journal as returned by Blocks against the digest it
// is expected to end with.
func VerifyBlocks(blocks []Block, digest common.Hash) error {
	if len(blocks) == 0 {
		return fmt.Errorf("empty journal")
	}
	genesis := blocks[0]
	if genesis.Kind != KindGenesis || genesis.Index != 0 || !genesis.Digest.IsZero() {
		return fmt.Errorf("invalid genesis block")
	}
	for i := 1; i < len(blocks); i++ {
		if err := validateBlock(blocks[i], blocks[i-1]); err != nil {
			return fmt.Errorf("block %d invalid: %w", i, err)
		}
	}
	if last := blocks[len(blocks)-1]; last.Digest != digest {
		return fmt.Errorf("digest %s does not match latest block %s", digest, last.Digest)
	}
	return nil
}

func validateBlock(current, previous Block) error {
	if current.Index != previous.Index+1 {
		return fmt.Errorf("invalid index: expected %d, got %d", previous.Index+1, current.Index)
	}
	if current.PrevDigest != previous.Digest {
		return fmt.Errorf("invalid prev digest: expected %s, got %s", previous.Digest, current.PrevDigest)
	}
	switch current.Kind {
	case KindCommit:
		if len(current.Payload) != common.HashLength {
			return fmt.Errorf("commit payload has %d bytes", len(current.Payload))
		}
	case KindSwap:
		if len(current.Payload) != SwapPayloadLength {
			return fmt.Errorf("swap payload has %d bytes", len(current.Payload))
		}
	case KindWithdraw:
		if len(current.Payload) != 0 {
			return fmt.Errorf("withdraw carries a payload")
		}
	default:
		return fmt.Errorf("unknown kind %q", current.Kind)
	}
	expected := nextDigest(current.Kind, current.PrevDigest, current.Payload)
	if expected != current.Digest {
		return fmt.Errorf("invalid digest: expected %s, got %s", expected, current.Digest)
	}
	return nil
}
