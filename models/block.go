package models

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"vote-ledger/hashing"
)

// DefaultDifficulty is the number of leading '0' hex characters a sealed
// block digest must carry (16 bits). It is an artificial cost on appends and
// gives no protection against anyone able to rewrite the whole chain.
const DefaultDifficulty uint8 = 4

// ErrMiningTimeout is returned when no nonce up to the configured cap seals
// the block.
var ErrMiningTimeout = errors.New("mining timeout")

type ChainBlock struct {
	Index               uint64 `json:"index"`
	PreviousBlockDigest string `json:"previous_block_digest"`
	RecordDigest        string `json:"record_digest"`
	SealedAt            string `json:"sealed_at"`
	Nonce               uint64 `json:"nonce"`
	BlockDigest         string `json:"block_digest"`
	Difficulty          uint8  `json:"difficulty"` // Number of leading zero hex characters required
}

// SealBlock builds the block for recordDigest on top of prevDigest and mines
// it. maxNonce of zero searches without bound.
func SealBlock(index uint64, prevDigest, recordDigest string, sealedAt time.Time, difficulty uint8, maxNonce uint64) (*ChainBlock, error) {
	block := &ChainBlock{
		Index:               index,
		PreviousBlockDigest: prevDigest,
		RecordDigest:        recordDigest,
		SealedAt:            FormatTimestamp(sealedAt),
		Difficulty:          difficulty,
	}

	if err := block.Mine(maxNonce); err != nil {
		return nil, err
	}
	return block, nil
}

// Mine searches nonces from 1 upwards until the block digest satisfies the
// difficulty. On failure the block keeps no nonce or digest.
func (b *ChainBlock) Mine(maxNonce uint64) error {
	for nonce := uint64(1); maxNonce == 0 || nonce <= maxNonce; nonce++ {
		digest := blockDigest(b.PreviousBlockDigest, b.RecordDigest, b.SealedAt, nonce)
		if hashing.HasLeadingZeros(digest, int(b.Difficulty)) {
			b.Nonce = nonce
			b.BlockDigest = digest
			return nil
		}
	}

	b.Nonce = 0
	b.BlockDigest = ""
	return fmt.Errorf("%w: no nonce in [1, %d] reaches difficulty %d", ErrMiningTimeout, maxNonce, b.Difficulty)
}

func (b *ChainBlock) CalculateDigest() string {
	return blockDigest(b.PreviousBlockDigest, b.RecordDigest, b.SealedAt, b.Nonce)
}

func blockDigest(prev, record, sealedAt string, nonce uint64) string {
	return hashing.Concat(prev, record, sealedAt, strconv.FormatUint(nonce, 10))
}

// Validate checks the stored digest against the block contents and the
// difficulty predicate.
func (b *ChainBlock) Validate() error {
	calculated := b.CalculateDigest()
	if calculated != b.BlockDigest {
		return fmt.Errorf("block %d: digest mismatch: stored %s, calculated %s", b.Index, b.BlockDigest, calculated)
	}
	if !hashing.HasLeadingZeros(calculated, int(b.Difficulty)) {
		return fmt.Errorf("block %d: digest %s does not meet difficulty %d", b.Index, calculated, b.Difficulty)
	}
	return nil
}

// ValidateChain validates every block and the links between them. An empty
// chain is valid.
func ValidateChain(blocks []*ChainBlock) error {
	for i, current := range blocks {
		if err := current.Validate(); err != nil {
			return err
		}

		if current.Index != uint64(i) {
			return fmt.Errorf("block %d: has index %d", i, current.Index)
		}

		if i == 0 {
			if current.PreviousBlockDigest != hashing.Sentinel {
				return fmt.Errorf("block 0: previous digest %s is not the sentinel", current.PreviousBlockDigest)
			}
			continue
		}

		if current.PreviousBlockDigest != blocks[i-1].BlockDigest {
			return fmt.Errorf("block %d: invalid previous digest link", i)
		}
	}

	return nil
}
