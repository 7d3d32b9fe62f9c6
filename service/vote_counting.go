package service

import (
	"fmt"
	"sort"

	"vote-ledger/models"
)

// VotingResults is a tally of the ledger. Candidate order carries no meaning;
// Candidates returns them sorted for display.
type VotingResults struct {
	TotalVotes int            `json:"total_votes"`
	Results    map[string]int `json:"results"`
}

// CountVotes tallies records per candidate.
func CountVotes(records []*models.VoteRecord) *VotingResults {
	results := &VotingResults{
		TotalVotes: len(records),
		Results:    make(map[string]int),
	}
	for _, r := range records {
		results.Results[r.Candidate]++
	}
	return results
}

// Candidates returns the candidate names in lexical order.
func (vr *VotingResults) Candidates() []string {
	names := make([]string, 0, len(vr.Results))
	for name := range vr.Results {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// VoteVerification compares a tally against the chain it was taken from.
type VoteVerification struct {
	ChainLength  int  `json:"chain_length"`
	CountedVotes int  `json:"counted_votes"`
	SumOfResults int  `json:"sum_of_results"`
	IsValid      bool `json:"is_valid"`
}

// VerifyVoteCount checks that every sealed block is counted exactly once.
func VerifyVoteCount(results *VotingResults, chainLength int) (*VoteVerification, error) {
	if results == nil {
		return nil, fmt.Errorf("no results to verify")
	}

	sum := 0
	for _, n := range results.Results {
		sum += n
	}

	return &VoteVerification{
		ChainLength:  chainLength,
		CountedVotes: results.TotalVotes,
		SumOfResults: sum,
		IsValid:      sum == results.TotalVotes && results.TotalVotes == chainLength,
	}, nil
}

// VerifyTally tallies the ledger and checks the count against the chain.
func (l *Ledger) VerifyTally() (*VoteVerification, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return VerifyVoteCount(CountVotes(l.records), l.chain.Len())
}
