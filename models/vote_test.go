package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-ledger/hashing"
)

var fixedTime = time.Date(2024, time.March, 5, 9, 7, 3, 0, time.UTC)

func TestFormatTimestamp(t *testing.T) {
	require.Equal(t, "2024-03-05 09:07:03", FormatTimestamp(fixedTime))
}

func TestContentDigestIsDeterministic(t *testing.T) {
	a := ContentDigestOf("V1", "Ann", "ann@example.org", "North", "candidateA", "2024-03-05 09:07:03")
	b := ContentDigestOf("V1", "Ann", "ann@example.org", "North", "candidateA", "2024-03-05 09:07:03")
	require.Equal(t, a, b)
	require.Equal(t, hashing.DigestString("V1Annann@example.orgNorthcandidateA2024-03-05 09:07:03"), a)
}

func TestContentDigestFieldBoundaryCollision(t *testing.T) {
	// Fields are concatenated without separators, so shifting a boundary
	// yields the same digest.
	a := ContentDigestOf("AB", "C", "e", "n", "x", "t")
	b := ContentDigestOf("A", "BC", "e", "n", "x", "t")
	assert.Equal(t, a, b)
}

func TestNewVoteRecord(t *testing.T) {
	record := NewVoteRecord("V1", "Ann", "ann@example.org", "North", "candidateA", fixedTime, hashing.Sentinel)

	assert.Equal(t, "2024-03-05 09:07:03", record.SubmittedAt)
	assert.Equal(t, hashing.Sentinel, record.ChainLinkDigest)
	assert.Equal(t, ContentDigestOf("V1", "Ann", "ann@example.org", "North", "candidateA", "2024-03-05 09:07:03"), record.ContentDigest)
	assert.True(t, record.Unmodified())
}

func TestTamperedRecordIsDetected(t *testing.T) {
	record := NewVoteRecord("V1", "Ann", "ann@example.org", "North", "candidateA", fixedTime, hashing.Sentinel)
	record.Candidate = "candidateB"
	require.False(t, record.Unmodified())
}
