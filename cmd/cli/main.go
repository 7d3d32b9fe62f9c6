package main

import (
	"errors"
	"flag"
	"log/slog"
	"strings"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"vote-ledger/service"
)

const (
	actionSubmit  = "Submit vote"
	actionVerify  = "Verify vote"
	actionResults = "Show results"
	actionStatus  = "Show ledger status"
	actionChain   = "Print hash chain"
	actionMerkle  = "Print Merkle tree"
	actionAudit   = "Audit ledger"
	actionExit    = "Exit"
)

var actions = []string{
	actionSubmit,
	actionVerify,
	actionResults,
	actionStatus,
	actionChain,
	actionMerkle,
	actionAudit,
	actionExit,
}

func main() {
	difficultyFlag := flag.Uint("difficulty", 4, "leading zero hex digits required of a block digest (0-64)")
	maxNonceFlag := flag.Uint64("max-nonce", service.DefaultMaxNonce, "nonce search cap per block (0 = unbounded)")
	candidatesFlag := flag.String("candidates", "", "comma separated candidate list offered when voting")
	flag.Parse()

	handler := pterm.NewSlogHandler(&pterm.DefaultLogger)
	logger := slog.New(handler)

	if *difficultyFlag > 64 {
		logger.Error("difficulty must be between 0 and 64", "difficulty", *difficultyFlag)
		return
	}

	cfg := service.DefaultConfig()
	cfg.Difficulty = uint8(*difficultyFlag)
	cfg.NoDifficulty = *difficultyFlag == 0
	cfg.MaxNonce = *maxNonceFlag
	cfg.Logger = logger
	ledger := service.NewLedger(cfg)

	candidates := parseCandidates(*candidatesFlag)

	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("Vote ", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("Ledger", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err != nil {
		logger.Error(err.Error())
	}
	pterm.Print(title)
	pterm.Info.Printfln("Mining difficulty: %d leading zero hex digits", ledger.Difficulty())

	for {
		selected, _ := pterm.DefaultInteractiveSelect.WithDefaultText("Select an action").WithOptions(actions).Show()
		pterm.Println()

		switch selected {
		case actionSubmit:
			submitVote(ledger, candidates)
		case actionVerify:
			verifyVote(ledger)
		case actionResults:
			printResults(ledger.Tally())
		case actionStatus:
			printStatus(ledger.Status())
		case actionChain:
			printChain(ledger.Blocks())
		case actionMerkle:
			pterm.DefaultBox.WithTitle(pterm.LightYellow("|MERKLE TREE|")).WithTitleTopCenter().Println(strings.TrimRight(ledger.MerkleTree(), "\n"))
		case actionAudit:
			printAudit(ledger.Audit())
		case actionExit:
			pterm.Println("Goodbye.")
			return
		}
		pterm.Println()
	}
}

func parseCandidates(list string) []string {
	var out []string
	for _, c := range strings.Split(list, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func prompt(text string) string {
	value, _ := pterm.DefaultInteractiveTextInput.WithDefaultText(text).Show()
	return strings.TrimSpace(value)
}

func submitVote(ledger *service.Ledger, candidates []string) {
	voterID := prompt("Voter ID")
	if voterID == "" {
		pterm.Warning.Println("Voter ID is required")
		return
	}
	name := prompt("Name")
	email := prompt("Email")
	constituency := prompt("Constituency")

	var candidate string
	if len(candidates) > 0 {
		candidate, _ = pterm.DefaultInteractiveSelect.WithDefaultText("Candidate").WithOptions(candidates).Show()
	} else {
		candidate = prompt("Candidate")
	}

	spinner, _ := pterm.DefaultSpinner.Start("Mining block...")
	receipt, err := ledger.Submit(voterID, name, email, constituency, candidate)
	if err != nil {
		spinner.Fail(err.Error())
		if errors.Is(err, service.ErrMiningTimeout) {
			pterm.Info.Println("Raise -max-nonce or lower -difficulty and try again")
		}
		return
	}
	spinner.Success("Vote sealed in block ", receipt.BlockIndex)
	printReceipt(receipt)
}

func verifyVote(ledger *service.Ledger) {
	voterID := prompt("Voter ID")
	report, err := ledger.Verify(voterID)
	if err != nil {
		pterm.Error.Println(err.Error())
		return
	}
	printVerification(report)
}
