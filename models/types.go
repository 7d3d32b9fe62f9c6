package models

// Placeholders reported by Status while the ledger is empty.
const (
	NoVotesMarker  = "No votes yet"
	NoBlocksMarker = "No blocks"
)

// Receipt is returned to the submitter of an accepted vote.
type Receipt struct {
	ReceiptID   string `json:"receipt_id"`
	VoterID     string `json:"voter_id"`
	VoteDigest  string `json:"vote_digest"`
	BlockDigest string `json:"block_digest"`
	BlockIndex  uint64 `json:"block_index"`
	Nonce       uint64 `json:"nonce"`
	SubmittedAt string `json:"submitted_at"`
}

// VerificationReport is the result of re-checking one stored vote.
type VerificationReport struct {
	VoterID       string `json:"voter_id"`
	VoterName     string `json:"voter_name"`
	Constituency  string `json:"constituency"`
	Candidate     string `json:"candidate"`
	SubmittedAt   string `json:"submitted_at"`
	ContentDigest string `json:"content_digest"`
	HashValid     bool   `json:"hash_valid"`
	InChain       bool   `json:"in_chain"`
}

type LedgerStatus struct {
	TotalVotes      int    `json:"total_votes"`
	ChainLength     int    `json:"chain_length"`
	MerkleRoot      string `json:"merkle_root"`
	LastBlockDigest string `json:"last_block_digest"`
}

// AuditReport lists every invariant violation found by a full ledger audit.
type AuditReport struct {
	Valid    bool     `json:"valid"`
	Records  int      `json:"records"`
	Blocks   int      `json:"blocks"`
	Problems []string `json:"problems,omitempty"`
}

// Ballot carries the caller-supplied fields of a vote submission.
type Ballot struct {
	VoterID      string `json:"voter_id"`
	VoterName    string `json:"voter_name"`
	VoterEmail   string `json:"voter_email"`
	Constituency string `json:"constituency"`
	Candidate    string `json:"candidate"`
}
