package recorder

// NoopRecorder discards all events. Used when no database is configured.
type NoopRecorder struct{}

// NewNoopRecorder creates a recorder that does nothing.
func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (*NoopRecorder) RecordMembership(*MembershipEvent) error     { return nil }
func (*NoopRecorder) RecordWithdrawal(*WithdrawalEvent) error     { return nil }
func (*NoopRecorder) RecordReputation(*ReputationEvent) error     { return nil }
func (*NoopRecorder) RecordConfigChange(*ConfigChangeEvent) error { return nil }
func (*NoopRecorder) RecordDeposit(*DepositEvent) error           { return nil }
func (*NoopRecorder) RecordSnapshot(*SnapshotEvent) error         { return nil }
func (*NoopRecorder) Close() error                                { return nil }
