package shared_test

import (
	"bytes"
	"testing"

	"github.com/blockchain/coin-definitions/internal/module/shared"
	"github.com/stretchr/testify/assert"
)

func TestChunks(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, shared.Chunks([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, shared.Chunks([]int{1, 2, 3}, 0))
	assert.Empty(t, shared.Chunks([]int{}, 3))
}

func TestMapChunked(t *testing.T) {
	var progress bytes.Buffer
	sums := shared.MapChunked([]int{1, 2, 3, 4}, 3, &progress, func(chunk []int) int {
		sum := 0
		for _, n := range chunk {
			sum += n
		}
		return sum
	})

	assert.Equal(t, []int{6, 4}, sums)
	assert.Equal(t, "...75%...100%\n", progress.String())
}
