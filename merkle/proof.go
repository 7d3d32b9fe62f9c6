package merkle

import (
	"errors"
	"fmt"
)

var ErrIndexOutOfRange = errors.New("leaf index out of range")

// ProofStep is one sibling on the path from a leaf to the root.
type ProofStep struct {
	Sibling string `json:"sibling"`
	// Left is true when the sibling sits to the left of the running digest.
	Left bool `json:"left"`
}

// Proof returns the audit path for digests[index]. A leaf that was paired
// with itself gets its own digest as sibling.
func Proof(digests []string, index int) ([]ProofStep, error) {
	if index < 0 || index >= len(digests) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(digests))
	}

	levels := Levels(digests)
	steps := make([]ProofStep, 0, len(levels)-1)
	for _, level := range levels[:len(levels)-1] {
		if index%2 == 1 {
			steps = append(steps, ProofStep{Sibling: level[index-1], Left: true})
		} else if index+1 < len(level) {
			steps = append(steps, ProofStep{Sibling: level[index+1]})
		} else {
			steps = append(steps, ProofStep{Sibling: level[index]})
		}
		index /= 2
	}
	return steps, nil
}

// VerifyProof folds leaf through steps and compares the result with root.
func VerifyProof(leaf string, steps []ProofStep, root string) bool {
	current := leaf
	for _, step := range steps {
		if step.Left {
			current = combine(step.Sibling, current)
		} else {
			current = combine(current, step.Sibling)
		}
	}
	return current == root
}
