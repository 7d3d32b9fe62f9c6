// Package blockchain keeps the proof-of-work sealed hash chain that links
// every accepted vote digest to the one before it.
package blockchain

import (
	"fmt"
	"time"

	"vote-ledger/hashing"
	"vote-ledger/models"
)

var ErrMiningTimeout = models.ErrMiningTimeout

type Options struct {
	// Difficulty is the number of leading '0' hex characters each block
	// digest needs. Zero means models.DefaultDifficulty unless NoDifficulty
	// is set.
	Difficulty uint8

	NoDifficulty bool

	// MaxNonce caps the nonce search; zero searches without bound.
	MaxNonce uint64

	Clock func() time.Time
}

// Chain is an append-only sequence of sealed blocks. It is not safe for
// concurrent use; the ledger serializes access.
type Chain struct {
	blocks     []*models.ChainBlock
	difficulty uint8
	maxNonce   uint64
	clock      func() time.Time
}

func New(opts Options) *Chain {
	difficulty := opts.Difficulty
	if difficulty == 0 && !opts.NoDifficulty {
		difficulty = models.DefaultDifficulty
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	return &Chain{
		blocks:     make([]*models.ChainBlock, 0),
		difficulty: difficulty,
		maxNonce:   opts.MaxNonce,
		clock:      clock,
	}
}

func (c *Chain) Difficulty() uint8 {
	return c.difficulty
}

// Append seals recordDigest on top of the current tip and appends the block.
// When mining fails the chain is left unchanged.
func (c *Chain) Append(recordDigest string) (*models.ChainBlock, error) {
	block, err := models.SealBlock(uint64(len(c.blocks)), c.LastDigest(), recordDigest, c.clock(), c.difficulty, c.maxNonce)
	if err != nil {
		return nil, fmt.Errorf("failed to seal block %d: %w", len(c.blocks), err)
	}

	c.blocks = append(c.blocks, block)
	return block, nil
}

// LastDigest returns the tip's block digest, or the sentinel for an empty
// chain.
func (c *Chain) LastDigest() string {
	if len(c.blocks) == 0 {
		return hashing.Sentinel
	}
	return c.blocks[len(c.blocks)-1].BlockDigest
}

// Last returns the tip, or nil for an empty chain.
func (c *Chain) Last() *models.ChainBlock {
	if len(c.blocks) == 0 {
		return nil
	}
	return c.blocks[len(c.blocks)-1]
}

func (c *Chain) Len() int {
	return len(c.blocks)
}

// Blocks returns copies of the blocks in chain order.
func (c *Chain) Blocks() []models.ChainBlock {
	out := make([]models.ChainBlock, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = *b
	}
	return out
}

func (c *Chain) Block(index int) (models.ChainBlock, bool) {
	if index < 0 || index >= len(c.blocks) {
		return models.ChainBlock{}, false
	}
	return *c.blocks[index], true
}

// Contains scans the chain for a block sealing recordDigest.
func (c *Chain) Contains(recordDigest string) bool {
	for _, b := range c.blocks {
		if b.RecordDigest == recordDigest {
			return true
		}
	}
	return false
}

// Validate checks every block's digest, difficulty and link.
func (c *Chain) Validate() error {
	return models.ValidateChain(c.blocks)
}
