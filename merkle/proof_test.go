package merkle

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProofVerifiesForEveryLeaf(t *testing.T) {
	for n := 1; n <= 9; n++ {
		d := leaves(n)
		root := Root(d)
		for i := range d {
			steps, err := Proof(d, i)
			require.NoError(t, err)
			require.True(t, VerifyProof(d[i], steps, root), "n=%d i=%d", n, i)
		}
	}
}

func TestProofSingleLeafIsEmpty(t *testing.T) {
	d := leaves(1)
	steps, err := Proof(d, 0)
	require.NoError(t, err)
	require.Empty(t, steps)
	require.True(t, VerifyProof(d[0], steps, d[0]))
}

func TestProofOddLeafIsItsOwnSibling(t *testing.T) {
	d := leaves(3)
	steps, err := Proof(d, 2)
	require.NoError(t, err)
	require.Len(t, steps, 2)
	require.Equal(t, ProofStep{Sibling: d[2]}, steps[0])
	require.True(t, steps[1].Left)
}

func TestProofRejectsWrongLeaf(t *testing.T) {
	d := leaves(4)
	steps, err := Proof(d, 1)
	require.NoError(t, err)
	require.False(t, VerifyProof(d[2], steps, Root(d)))
}

func TestProofIndexOutOfRange(t *testing.T) {
	_, err := Proof(leaves(2), 2)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = Proof(nil, 0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}
