// service/queue.go
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"vote-ledger/models"
)

var (
	ErrQueueFull   = errors.New("vote queue is full")
	ErrQueueClosed = errors.New("vote queue is closed")
)

// QueueProcessor funnels submissions from concurrent callers into a single
// worker goroutine, so votes reach the ledger one at a time in arrival order.
type QueueProcessor struct {
	ledger       *Ledger
	voteCh       chan *VoteRequest
	processingWg sync.WaitGroup
	shutdownCh   chan struct{}
	mu           sync.RWMutex
	closed       bool
	logger       *slog.Logger
}

// VoteRequest represents a queued vote submission
type VoteRequest struct {
	Ballot   models.Ballot
	ResultCh chan<- *ProcessingResult
}

// ProcessingResult contains the outcome of a queued submission
type ProcessingResult struct {
	Receipt *models.Receipt
	Err     error
}

func NewQueueProcessor(ledger *Ledger, queueSize int) *QueueProcessor {
	return &QueueProcessor{
		ledger:     ledger,
		voteCh:     make(chan *VoteRequest, queueSize),
		shutdownCh: make(chan struct{}),
		logger:     ledger.logger,
	}
}

// Start launches the worker.
func (qp *QueueProcessor) Start() {
	qp.processingWg.Add(1)
	go qp.voteWorker()
}

// Stop refuses new requests, waits for the worker to finish its current
// vote and fails whatever is still queued with ErrQueueClosed.
func (qp *QueueProcessor) Stop() {
	qp.mu.Lock()
	if qp.closed {
		qp.mu.Unlock()
		return
	}
	qp.closed = true
	close(qp.shutdownCh)
	qp.mu.Unlock()

	qp.processingWg.Wait()

	for {
		select {
		case req := <-qp.voteCh:
			req.ResultCh <- &ProcessingResult{Err: ErrQueueClosed}
			close(req.ResultCh)
		default:
			return
		}
	}
}

// QueueVote enqueues a ballot without blocking. The returned channel yields
// exactly one result.
func (qp *QueueProcessor) QueueVote(ballot models.Ballot) <-chan *ProcessingResult {
	resultCh := make(chan *ProcessingResult, 1)

	qp.mu.RLock()
	defer qp.mu.RUnlock()

	if qp.closed {
		resultCh <- &ProcessingResult{Err: ErrQueueClosed}
		close(resultCh)
		return resultCh
	}

	select {
	case qp.voteCh <- &VoteRequest{Ballot: ballot, ResultCh: resultCh}:
	default:
		qp.logger.Warn("vote queue is full, request dropped", "voter_id", ballot.VoterID)
		resultCh <- &ProcessingResult{Err: ErrQueueFull}
		close(resultCh)
	}
	return resultCh
}

// Submit enqueues ballot and waits for its result or for ctx to end. A vote
// that was already queued when ctx ends may still be recorded.
func (qp *QueueProcessor) Submit(ctx context.Context, ballot models.Ballot) (*models.Receipt, error) {
	select {
	case res := <-qp.QueueVote(ballot):
		return res.Receipt, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BatchQueueVotes enqueues several ballots in order.
func (qp *QueueProcessor) BatchQueueVotes(ballots []models.Ballot) []<-chan *ProcessingResult {
	resultChannels := make([]<-chan *ProcessingResult, len(ballots))
	for i, b := range ballots {
		resultChannels[i] = qp.QueueVote(b)
	}
	return resultChannels
}

func (qp *QueueProcessor) voteWorker() {
	defer qp.processingWg.Done()

	for {
		select {
		case <-qp.shutdownCh:
			return
		case req := <-qp.voteCh:
			receipt, err := qp.ledger.SubmitBallot(req.Ballot)
			req.ResultCh <- &ProcessingResult{Receipt: receipt, Err: err}
			close(req.ResultCh)
		}
	}
}
