package reputation

import "ReputePool/internal/model"

// ApplyVote increments the participant's like or dislike counter and
// recomputes the derived withdrawal limit. Counters only ever grow.
func ApplyVote(p *model.Participant, isLike bool) {
	if isLike {
		p.Likes++
	} else {
		p.Dislikes++
	}
	p.WithdrawalLimit = Limit(p.Likes, p.Dislikes)
}
