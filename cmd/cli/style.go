package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"vote-ledger/models"
	"vote-ledger/service"
)

func yesNo(ok bool) string {
	if ok {
		return pterm.LightGreen("yes")
	}
	return pterm.LightRed("no")
}

func printReceipt(r *models.Receipt) {
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Receipt", r.ReceiptID},
		{"Voter", r.VoterID},
		{"Vote digest", r.VoteDigest},
		{"Block digest", r.BlockDigest},
		{"Nonce", strconv.FormatUint(r.Nonce, 10)},
		{"Submitted at", r.SubmittedAt},
	}).Render()
}

func printVerification(r *models.VerificationReport) {
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Voter", r.VoterID},
		{"Name", r.VoterName},
		{"Constituency", r.Constituency},
		{"Candidate", r.Candidate},
		{"Submitted at", r.SubmittedAt},
		{"Digest", r.ContentDigest},
		{"Hash valid", yesNo(r.HashValid)},
		{"In chain", yesNo(r.InChain)},
	}).Render()
}

func printResults(results *service.VotingResults) {
	data := pterm.TableData{{"Candidate", "Votes"}}
	for _, c := range results.Candidates() {
		data = append(data, []string{c, strconv.Itoa(results.Results[c])})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	pterm.Info.Printfln("Total votes: %d", results.TotalVotes)
}

func printStatus(s models.LedgerStatus) {
	pterm.DefaultTable.WithData(pterm.TableData{
		{"Total votes", strconv.Itoa(s.TotalVotes)},
		{"Chain length", strconv.Itoa(s.ChainLength)},
		{"Merkle root", s.MerkleRoot},
		{"Last block", s.LastBlockDigest},
	}).Render()
}

func printChain(blocks []models.ChainBlock) {
	if len(blocks) == 0 {
		pterm.Info.Println(models.NoBlocksMarker)
		return
	}
	data := pterm.TableData{{"#", "Previous", "Record", "Sealed at", "Nonce", "Digest"}}
	for _, b := range blocks {
		data = append(data, []string{
			strconv.FormatUint(b.Index, 10),
			short(b.PreviousBlockDigest),
			short(b.RecordDigest),
			b.SealedAt,
			strconv.FormatUint(b.Nonce, 10),
			short(b.BlockDigest),
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printAudit(report *models.AuditReport) {
	if report.Valid {
		pterm.Success.Printfln("Ledger intact: %d records, %d blocks", report.Records, report.Blocks)
		return
	}
	pterm.Error.Printfln("Ledger audit found %d problems", len(report.Problems))
	for _, p := range report.Problems {
		pterm.Println(fmt.Sprintf("  - %s", p))
	}
}

func short(digest string) string {
	if len(digest) <= 16 {
		return digest
	}
	return digest[:16] + "..."
}
