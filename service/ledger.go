package service

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"vote-ledger/blockchain"
	"vote-ledger/merkle"
	"vote-ledger/models"
)

// DefaultMaxNonce bounds the proof-of-work search. At the default difficulty
// a nonce is expected after about 65536 attempts.
const DefaultMaxNonce = 1 << 24

var (
	ErrDuplicateVoter = errors.New("voter has already voted")
	ErrNotFound       = errors.New("vote not found for this voter id")
	ErrMiningTimeout  = blockchain.ErrMiningTimeout
)

type Config struct {
	Difficulty   uint8
	NoDifficulty bool
	MaxNonce     uint64 // zero searches for a nonce without bound
	Clock        func() time.Time
	Logger       *slog.Logger
	Metrics      *MetricsCollector
}

func DefaultConfig() Config {
	return Config{
		Difficulty: models.DefaultDifficulty,
		MaxNonce:   DefaultMaxNonce,
	}
}

// Ledger owns the vote records, the voter index, the sealed chain and the
// current Merkle tree, and keeps them consistent with each other.
//
// Submit takes the write lock for the whole submission, mining included, so
// readers never observe a record without its block or a stale Merkle root.
type Ledger struct {
	mu         sync.RWMutex
	records    []*models.VoteRecord
	index      map[string]int // voter id -> position in records
	chain      *blockchain.Chain
	merkleRoot *merkle.Node
	clock      func() time.Time
	logger     *slog.Logger
	metrics    *MetricsCollector
}

func NewLedger(cfg Config) *Ledger {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := cfg.Metrics
	if metrics == nil {
		metrics = NewMetricsCollector()
	}

	return &Ledger{
		records: make([]*models.VoteRecord, 0),
		index:   make(map[string]int),
		chain: blockchain.New(blockchain.Options{
			Difficulty:   cfg.Difficulty,
			NoDifficulty: cfg.NoDifficulty,
			MaxNonce:     cfg.MaxNonce,
			Clock:        clock,
		}),
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

func (l *Ledger) Metrics() *MetricsCollector {
	return l.metrics
}

func (l *Ledger) Difficulty() uint8 {
	return l.chain.Difficulty()
}

// Submit records a vote. A voter id already present (exact, case-sensitive
// match) yields ErrDuplicateVoter; a failed nonce search yields
// ErrMiningTimeout. Either way nothing in the ledger changes.
func (l *Ledger) Submit(voterID, voterName, voterEmail, constituency, candidate string) (*models.Receipt, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	start := time.Now()

	if _, exists := l.index[voterID]; exists {
		l.metrics.RecordRejection(RejectDuplicate)
		l.logger.Warn("duplicate vote rejected", "voter_id", voterID)
		return nil, fmt.Errorf("%w: %s", ErrDuplicateVoter, voterID)
	}

	record := models.NewVoteRecord(voterID, voterName, voterEmail, constituency, candidate, l.clock(), l.chain.LastDigest())

	// The chain is the only structure touched before mining succeeds.
	block, err := l.chain.Append(record.ContentDigest)
	if err != nil {
		l.metrics.RecordRejection(RejectMiningTimeout)
		l.logger.Error("failed to seal vote", "voter_id", voterID, "error", err)
		return nil, fmt.Errorf("failed to seal vote for voter %s: %w", voterID, err)
	}

	record.ReceiptID = uuid.New().String()
	l.index[voterID] = len(l.records)
	l.records = append(l.records, record)
	l.rebuildMerkleTree()

	elapsed := time.Since(start)
	l.metrics.RecordSubmission(elapsed, block.Nonce, l.chain.Len())
	l.logger.Info("vote submitted",
		"voter_id", voterID,
		"vote_digest", record.ContentDigest,
		"block_digest", block.BlockDigest,
		"nonce", block.Nonce,
		"elapsed", elapsed,
	)

	return &models.Receipt{
		ReceiptID:   record.ReceiptID,
		VoterID:     voterID,
		VoteDigest:  record.ContentDigest,
		BlockDigest: block.BlockDigest,
		BlockIndex:  block.Index,
		Nonce:       block.Nonce,
		SubmittedAt: record.SubmittedAt,
	}, nil
}

// SubmitBallot is Submit with the fields taken from b.
func (l *Ledger) SubmitBallot(b models.Ballot) (*models.Receipt, error) {
	return l.Submit(b.VoterID, b.VoterName, b.VoterEmail, b.Constituency, b.Candidate)
}

func (l *Ledger) rebuildMerkleTree() {
	l.merkleRoot = merkle.Build(l.digests())
}

// Verify recomputes the stored vote's content digest and looks for the block
// sealing it.
func (l *Ledger) Verify(voterID string) (*models.VerificationReport, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, ok := l.index[voterID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, voterID)
	}
	record := l.records[pos]

	return &models.VerificationReport{
		VoterID:       record.VoterID,
		VoterName:     record.VoterName,
		Constituency:  record.Constituency,
		Candidate:     record.Candidate,
		SubmittedAt:   record.SubmittedAt,
		ContentDigest: record.ContentDigest,
		HashValid:     record.Unmodified(),
		InChain:       l.chain.Contains(record.ContentDigest),
	}, nil
}

func (l *Ledger) Status() models.LedgerStatus {
	l.mu.RLock()
	defer l.mu.RUnlock()

	status := models.LedgerStatus{
		TotalVotes:      len(l.records),
		ChainLength:     l.chain.Len(),
		MerkleRoot:      models.NoVotesMarker,
		LastBlockDigest: models.NoBlocksMarker,
	}
	if l.merkleRoot != nil {
		status.MerkleRoot = l.merkleRoot.Digest
	}
	if last := l.chain.Last(); last != nil {
		status.LastBlockDigest = last.BlockDigest
	}
	return status
}

// Tally counts votes per candidate.
func (l *Ledger) Tally() *VotingResults {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return CountVotes(l.records)
}

// Records returns copies of the records in submission order.
func (l *Ledger) Records() []models.VoteRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]models.VoteRecord, len(l.records))
	for i, r := range l.records {
		out[i] = *r
	}
	return out
}

func (l *Ledger) Blocks() []models.ChainBlock {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return l.chain.Blocks()
}

// MerkleTree renders the current tree, or NoVotesMarker when empty.
func (l *Ledger) MerkleTree() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.merkleRoot == nil {
		return models.NoVotesMarker
	}
	return l.merkleRoot.Render()
}

type InclusionProof struct {
	VoterID    string             `json:"voter_id"`
	LeafIndex  int                `json:"leaf_index"`
	LeafDigest string             `json:"leaf_digest"`
	MerkleRoot string             `json:"merkle_root"`
	Steps      []merkle.ProofStep `json:"steps"`
}

// Verify checks the proof against its own root.
func (p *InclusionProof) Verify() bool {
	return merkle.VerifyProof(p.LeafDigest, p.Steps, p.MerkleRoot)
}

// InclusionProof returns the Merkle audit path for the voter's record.
func (l *Ledger) InclusionProof(voterID string) (*InclusionProof, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	pos, ok := l.index[voterID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, voterID)
	}

	steps, err := merkle.Proof(l.digests(), pos)
	if err != nil {
		return nil, fmt.Errorf("failed to build inclusion proof: %w", err)
	}

	return &InclusionProof{
		VoterID:    voterID,
		LeafIndex:  pos,
		LeafDigest: l.records[pos].ContentDigest,
		MerkleRoot: l.merkleRoot.Digest,
		Steps:      steps,
	}, nil
}

func (l *Ledger) digests() []string {
	digests := make([]string, len(l.records))
	for i, r := range l.records {
		digests[i] = r.ContentDigest
	}
	return digests
}

// Audit re-derives every ledger invariant from scratch and reports each
// violation found.
func (l *Ledger) Audit() *models.AuditReport {
	l.mu.RLock()
	defer l.mu.RUnlock()

	report := &models.AuditReport{
		Records: len(l.records),
		Blocks:  l.chain.Len(),
	}
	problemf := func(format string, args ...any) {
		report.Problems = append(report.Problems, fmt.Sprintf(format, args...))
	}

	if err := l.chain.Validate(); err != nil {
		problemf("chain: %v", err)
	}

	if len(l.records) != l.chain.Len() {
		problemf("ledger holds %d records but %d blocks", len(l.records), l.chain.Len())
	}

	blocks := l.chain.Blocks()
	for i, r := range l.records {
		if !r.Unmodified() {
			problemf("record %d (%s): content digest mismatch", i, r.VoterID)
		}
		if pos, ok := l.index[r.VoterID]; !ok || pos != i {
			problemf("record %d (%s): missing from voter index", i, r.VoterID)
		}
		if i >= len(blocks) {
			continue
		}
		if blocks[i].RecordDigest != r.ContentDigest {
			problemf("record %d (%s): block %d seals a different digest", i, r.VoterID, i)
		}
		if blocks[i].PreviousBlockDigest != r.ChainLinkDigest {
			problemf("record %d (%s): chain link does not match block %d", i, r.VoterID, i)
		}
	}

	if len(l.index) != len(l.records) {
		problemf("voter index holds %d entries for %d records", len(l.index), len(l.records))
	}

	expected := merkle.Root(l.digests())
	actual := ""
	if l.merkleRoot != nil {
		actual = l.merkleRoot.Digest
	}
	if expected != actual {
		problemf("merkle root %q does not match recomputed root %q", actual, expected)
	}

	report.Valid = len(report.Problems) == 0
	if !report.Valid {
		l.logger.Warn("ledger audit failed", "problems", len(report.Problems))
	}
	return report
}
