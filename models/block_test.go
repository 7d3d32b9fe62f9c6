package models

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-ledger/hashing"
)

func TestSealBlockMeetsDifficulty(t *testing.T) {
	record := hashing.DigestString("record")
	block, err := SealBlock(0, hashing.Sentinel, record, fixedTime, DefaultDifficulty, 0)
	require.NoError(t, err)

	assert.Equal(t, "0000", block.BlockDigest[:4])
	assert.GreaterOrEqual(t, block.Nonce, uint64(1))
	assert.Equal(t, "2024-03-05 09:07:03", block.SealedAt)
	assert.Equal(t, hashing.Concat(hashing.Sentinel, record, "2024-03-05 09:07:03", strconv.FormatUint(block.Nonce, 10)), block.BlockDigest)
	require.NoError(t, block.Validate())
}

func TestMineFindsSmallestNonce(t *testing.T) {
	record := hashing.DigestString("record")
	block, err := SealBlock(0, hashing.Sentinel, record, fixedTime, 2, 0)
	require.NoError(t, err)

	for n := uint64(1); n < block.Nonce; n++ {
		d := hashing.Concat(hashing.Sentinel, record, block.SealedAt, strconv.FormatUint(n, 10))
		require.False(t, hashing.HasLeadingZeros(d, 2), "nonce %d already satisfies difficulty", n)
	}
}

func TestDifficultyZeroAcceptsFirstNonce(t *testing.T) {
	block, err := SealBlock(0, hashing.Sentinel, "r", fixedTime, 0, 0)
	require.NoError(t, err)
	require.Equal(t, uint64(1), block.Nonce)
}

func TestMiningTimeout(t *testing.T) {
	_, err := SealBlock(0, hashing.Sentinel, "r", fixedTime, 64, 10)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrMiningTimeout))
}

func TestValidateDetectsTampering(t *testing.T) {
	block, err := SealBlock(0, hashing.Sentinel, "r", fixedTime, DefaultDifficulty, 0)
	require.NoError(t, err)

	block.RecordDigest = "other"
	require.Error(t, block.Validate())
}

func sealChain(t *testing.T, n int) []*ChainBlock {
	t.Helper()
	prev := hashing.Sentinel
	blocks := make([]*ChainBlock, 0, n)
	for i := 0; i < n; i++ {
		block, err := SealBlock(uint64(i), prev, hashing.DigestString(strconv.Itoa(i)), fixedTime, 2, 0)
		require.NoError(t, err)
		blocks = append(blocks, block)
		prev = block.BlockDigest
	}
	return blocks
}

func TestValidateChain(t *testing.T) {
	require.NoError(t, ValidateChain(nil))

	blocks := sealChain(t, 4)
	require.NoError(t, ValidateChain(blocks))

	t.Run("broken link", func(t *testing.T) {
		blocks := sealChain(t, 3)
		blocks[2].PreviousBlockDigest = blocks[0].BlockDigest
		require.NoError(t, blocks[2].Mine(0))
		require.ErrorContains(t, ValidateChain(blocks), "previous digest link")
	})

	t.Run("bad sentinel", func(t *testing.T) {
		blocks := sealChain(t, 1)
		blocks[0].PreviousBlockDigest = hashing.DigestString("x")
		require.NoError(t, blocks[0].Mine(0))
		require.ErrorContains(t, ValidateChain(blocks), "sentinel")
	})

	t.Run("bad index", func(t *testing.T) {
		blocks := sealChain(t, 2)
		blocks[1].Index = 7
		require.ErrorContains(t, ValidateChain(blocks), "has index 7")
	})
}
