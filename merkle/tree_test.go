package merkle

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vote-ledger/hashing"
)

func leaves(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = hashing.DigestString(fmt.Sprintf("vote-%d", i))
	}
	return out
}

func TestBuildEmpty(t *testing.T) {
	require.Nil(t, Build(nil))
	require.Equal(t, "", Root(nil))
	require.Nil(t, Levels(nil))
}

func TestBuildSingleLeafIsUnhashed(t *testing.T) {
	d := leaves(1)
	root := Build(d)
	require.NotNil(t, root)
	assert.Equal(t, d[0], root.Digest)
	assert.True(t, root.IsLeaf())
}

func TestBuildTwoLeaves(t *testing.T) {
	d := leaves(2)
	root := Build(d)
	assert.Equal(t, hashing.DigestString(d[0]+d[1]), root.Digest)
	assert.Equal(t, d[0], root.Left.Digest)
	assert.Equal(t, d[1], root.Right.Digest)
}

func TestBuildThreeLeavesSelfPairsTheOddLeaf(t *testing.T) {
	d := leaves(3)
	left := hashing.DigestString(d[0] + d[1])
	right := hashing.DigestString(d[2] + d[2])

	root := Build(d)
	assert.Equal(t, hashing.DigestString(left+right), root.Digest)
	assert.Equal(t, right, root.Right.Digest)
	assert.Equal(t, d[2], root.Right.Left.Digest)
	assert.Nil(t, root.Right.Right)

	levels := Levels(d)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{left, right}, levels[1])
	assert.Equal(t, []string{root.Digest}, levels[2])
}

func TestBuildMatchesLevels(t *testing.T) {
	for n := 1; n <= 17; n++ {
		d := leaves(n)
		levels := Levels(d)
		root := Build(d)
		require.Equal(t, levels[len(levels)-1][0], root.Digest, "n=%d", n)
		require.Equal(t, n, root.LeafCount(), "n=%d", n)
		require.Equal(t, len(levels), root.Depth(), "n=%d", n)
	}
}

func TestBuildDoesNotAliasInput(t *testing.T) {
	d := leaves(4)
	before := Root(d)
	levels := Levels(d)
	levels[0][0] = "changed"
	require.Equal(t, before, Root(d))
}

func TestRenderInOrder(t *testing.T) {
	d := leaves(2)
	root := Build(d)
	expected := fmt.Sprintf("  Hash: %s\nHash: %s\n  Hash: %s\n", d[0], root.Digest, d[1])
	require.Equal(t, expected, root.Render())
}

func TestWalkVisitsEveryNode(t *testing.T) {
	root := Build(leaves(5))
	count := 0
	root.Walk(func(*Node, int) { count++ })
	// 5 leaves, 3 level-1 nodes, 2 level-2 nodes, 1 root
	require.Equal(t, 11, count)
}
