package models

import (
	"time"

	"vote-ledger/hashing"
)

// TimestampLayout renders submission and sealing times. The rendered string,
// not the time value, is what enters the digests.
const TimestampLayout = "2006-01-02 15:04:05"

// FormatTimestamp renders t in TimestampLayout using t's own location.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// VoteRecord is one accepted vote. Records are never mutated after the ledger
// accepts them.
type VoteRecord struct {
	VoterID         string `json:"voter_id"`
	VoterName       string `json:"voter_name"`
	VoterEmail      string `json:"voter_email"`
	Constituency    string `json:"constituency"`
	Candidate       string `json:"candidate"`
	SubmittedAt     string `json:"submitted_at"`
	ContentDigest   string `json:"content_digest"`
	ChainLinkDigest string `json:"chain_link_digest"`
	ReceiptID       string `json:"receipt_id"`
}

// ContentDigestOf hashes the record fields concatenated in a fixed order with
// no separators. Field boundaries are therefore not encoded: ("AB","C",...)
// and ("A","BC",...) share a pre-image. Changing this breaks every digest
// already issued.
func ContentDigestOf(voterID, voterName, voterEmail, constituency, candidate, submittedAt string) string {
	return hashing.Concat(voterID, voterName, voterEmail, constituency, candidate, submittedAt)
}

// NewVoteRecord stamps the record with submittedAt and computes its content
// digest. chainLink is the digest of the chain tip at submission time.
func NewVoteRecord(voterID, voterName, voterEmail, constituency, candidate string, submittedAt time.Time, chainLink string) *VoteRecord {
	record := &VoteRecord{
		VoterID:         voterID,
		VoterName:       voterName,
		VoterEmail:      voterEmail,
		Constituency:    constituency,
		Candidate:       candidate,
		SubmittedAt:     FormatTimestamp(submittedAt),
		ChainLinkDigest: chainLink,
	}
	record.ContentDigest = record.ComputeDigest()
	return record
}

// ComputeDigest recomputes the content digest from the current field values.
func (v *VoteRecord) ComputeDigest() string {
	return ContentDigestOf(v.VoterID, v.VoterName, v.VoterEmail, v.Constituency, v.Candidate, v.SubmittedAt)
}

// Unmodified reports whether the stored digest still matches the fields.
func (v *VoteRecord) Unmodified() bool {
	return v.ComputeDigest() == v.ContentDigest
}
