package model

import (
	"math/big"
	"time"
)

// Participant tracks per-member withdrawal and reputation state.
// Records are created when an identity is whitelisted and never deleted.
type Participant struct {
	Likes            uint64    `json:"likes"`
	Dislikes         uint64    `json:"dislikes"`
	WithdrawalLimit  uint32    `json:"withdrawal_limit"` // basis points of pool balance
	LastWithdrawalAt time.Time `json:"last_withdrawal_at"`
}

// ReputationStats is the read-only reputation view for any identity.
// Unknown identities yield the zero value.
type ReputationStats struct {
	Likes           uint64 `json:"likes"`
	Dislikes        uint64 `json:"dislikes"`
	WithdrawalLimit uint32 `json:"withdrawal_limit"`
}

// PoolSnapshot summarizes pool status at a point in time.
type PoolSnapshot struct {
	Balance       *big.Int
	Members       int
	TotalLikes    uint64
	TotalDislikes uint64
}
