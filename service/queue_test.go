package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-ledger/models"
)

func ballot(voterID, candidate string) models.Ballot {
	return models.Ballot{
		VoterID:      voterID,
		VoterName:    "Name " + voterID,
		VoterEmail:   voterID + "@example.org",
		Constituency: "North",
		Candidate:    candidate,
	}
}

func TestQueueProcessesInOrder(t *testing.T) {
	l := newTestLedger(t)
	qp := NewQueueProcessor(l, 16)
	qp.Start()
	defer qp.Stop()

	ballots := make([]models.Ballot, 5)
	for i := range ballots {
		ballots[i] = ballot(fmt.Sprintf("V%d", i), "candidateA")
	}
	ballots = append(ballots, ballot("V0", "candidateB"))

	results := qp.BatchQueueVotes(ballots)
	for i, ch := range results[:5] {
		res := <-ch
		require.NoError(t, res.Err)
		assert.Equal(t, uint64(i), res.Receipt.BlockIndex)
	}
	res := <-results[5]
	require.ErrorIs(t, res.Err, ErrDuplicateVoter)

	records := l.Records()
	require.Len(t, records, 5)
	for i, r := range records {
		assert.Equal(t, fmt.Sprintf("V%d", i), r.VoterID)
	}
}

func TestQueueSubmit(t *testing.T) {
	l := newTestLedger(t)
	qp := NewQueueProcessor(l, 4)
	qp.Start()
	defer qp.Stop()

	receipt, err := qp.Submit(context.Background(), ballot("V1", "candidateA"))
	require.NoError(t, err)
	assert.Equal(t, "V1", receipt.VoterID)
}

func TestQueueFull(t *testing.T) {
	l := newTestLedger(t)
	// Not started, so nothing drains the queue.
	qp := NewQueueProcessor(l, 1)

	first := qp.QueueVote(ballot("V1", "candidateA"))
	res := <-qp.QueueVote(ballot("V2", "candidateA"))
	require.ErrorIs(t, res.Err, ErrQueueFull)

	qp.Stop()
	res = <-first
	require.ErrorIs(t, res.Err, ErrQueueClosed)
	assert.Equal(t, 0, l.Status().TotalVotes)
}

func TestQueueClosed(t *testing.T) {
	l := newTestLedger(t)
	qp := NewQueueProcessor(l, 1)
	qp.Start()
	qp.Stop()
	qp.Stop()

	_, err := qp.Submit(context.Background(), ballot("V1", "candidateA"))
	require.ErrorIs(t, err, ErrQueueClosed)
}

func TestQueueSubmitHonoursContext(t *testing.T) {
	l := newTestLedger(t)
	qp := NewQueueProcessor(l, 1)
	defer qp.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := qp.Submit(ctx, ballot("V1", "candidateA"))
	require.ErrorIs(t, err, context.Canceled)
}
