package reputation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ReputePool/internal/model"
)

func TestApplyVote_RecomputesLimit(t *testing.T) {
	p := &model.Participant{WithdrawalLimit: BaseLimit}

	ApplyVote(p, true)
	assert.Equal(t, uint64(1), p.Likes)
	assert.Equal(t, uint64(0), p.Dislikes)
	assert.Equal(t, MaxLimit, p.WithdrawalLimit)

	ApplyVote(p, false)
	assert.Equal(t, uint64(1), p.Likes)
	assert.Equal(t, uint64(1), p.Dislikes)
	// ratio 500 interpolates to 1250
	assert.Equal(t, uint32(1250), p.WithdrawalLimit)
}

func TestApplyVote_CountersOnlyGrow(t *testing.T) {
	p := &model.Participant{WithdrawalLimit: BaseLimit}
	for i := 0; i < 10; i++ {
		ApplyVote(p, i%2 == 0)
	}
	assert.Equal(t, uint64(5), p.Likes)
	assert.Equal(t, uint64(5), p.Dislikes)
}
