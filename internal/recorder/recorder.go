package recorder

// MembershipEvent records whitelisting. Count is 1 for a single add; batch
// adds set Count to the number actually added and leave Address empty.
type MembershipEvent struct {
	Address string
	Count   int
}

// WithdrawalEvent records a completed withdrawal or emergency drain.
type WithdrawalEvent struct {
	Address      string
	Amount       string // decimal pool units
	BalanceAfter string
	Emergency    bool
}

// ReputationEvent records one applied attestation and the resulting state.
type ReputationEvent struct {
	Target          string
	Like            bool
	Likes           uint64
	Dislikes        uint64
	WithdrawalLimit uint32
}

// ConfigChangeEvent records an attestation endpoint replacement.
type ConfigChangeEvent struct {
	Endpoint string
}

// DepositEvent records a credit to the shared balance.
type DepositEvent struct {
	Amount       string
	BalanceAfter string
}

// SnapshotEvent records the periodic pool summary.
type SnapshotEvent struct {
	Balance       string
	Members       int
	TotalLikes    uint64
	TotalDislikes uint64
}

// Recorder persists the observable event log in call order.
type Recorder interface {
	RecordMembership(evt *MembershipEvent) error
	RecordWithdrawal(evt *WithdrawalEvent) error
	RecordReputation(evt *ReputationEvent) error
	RecordConfigChange(evt *ConfigChangeEvent) error
	RecordDeposit(evt *DepositEvent) error
	RecordSnapshot(evt *SnapshotEvent) error
	Close() error
}
