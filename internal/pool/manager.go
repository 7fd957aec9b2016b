package pool

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/big"
	"net/url"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"ReputePool/internal/clock"
	"ReputePool/internal/model"
	"ReputePool/internal/recorder"
	"ReputePool/internal/reputation"
)

// Cooldown is the minimum interval between successive withdrawals by the
// same participant.
const Cooldown = 24 * time.Hour

var (
	ErrNotWhitelisted    = errors.New("caller is not whitelisted")
	ErrSelfRating        = errors.New("participants cannot rate themselves")
	ErrCooldownActive    = errors.New("withdrawal cooldown has not elapsed")
	ErrPoolEmpty         = errors.New("pool balance is zero")
	ErrAmountTooSmall    = errors.New("withdrawal amount rounds down to zero")
	ErrTransferFailed    = errors.New("balance transfer failed")
	ErrAttestationFailed = errors.New("attestation service call failed")
	ErrInvalidEndpoint   = errors.New("attestation endpoint is invalid")
	ErrInvalidAmount     = errors.New("deposit amount must be positive")
	ErrUnauthorized      = errors.New("caller is not the pool owner")
	ErrReentrantCall     = errors.New("another pool operation is in flight")
)

// Attester relays attestation records to the external attestation service.
type Attester interface {
	Attest(target string, payload []byte) error
	SetEndpoint(endpoint string)
}

// Transferer moves funds out of the pool to a recipient.
type Transferer interface {
	Transfer(to common.Address, amount *big.Int) error
}

// attestationRecord is the wire payload delivered to the attestation service.
type attestationRecord struct {
	Target    string `json:"target"`
	Like      bool   `json:"like"`
	Timestamp int64  `json:"timestamp"`
}

// Manager owns all shared pool state and serializes every operation.
//
// The three operations that leave the pool mid-flight (withdrawals and
// attestation submissions) acquire the mutex with TryLock: a re-entrant
// call arriving from within an external transfer or attestation callback is
// rejected instead of deadlocking, and no second mutating call can begin
// until the first has fully committed or rolled back.
type Manager struct {
	mu       sync.Mutex
	state    *State
	filePath string
	clock    clock.Clock
	payer    Transferer
	attester Attester
	rec      recorder.Recorder
}

// NewManager creates a Manager, loading or initializing state from disk.
// On a fresh state the owner and attestation endpoint are seeded from the
// arguments; afterwards the persisted values win.
func NewManager(filePath string, owner common.Address, attestationEndpoint string,
	clk clock.Clock, payer Transferer, attester Attester, rec recorder.Recorder) (*Manager, error) {

	state, err := LoadState(filePath)
	if err != nil {
		return nil, err
	}

	if state.Owner == (common.Address{}) {
		if owner == (common.Address{}) {
			return nil, fmt.Errorf("pool owner address is required")
		}
		state.Owner = owner
		state.AttestationEndpoint = attestationEndpoint
	}
	attester.SetEndpoint(state.AttestationEndpoint)

	m := &Manager{
		state:    state,
		filePath: filePath,
		clock:    clk,
		payer:    payer,
		attester: attester,
		rec:      rec,
	}
	if err := SaveState(filePath, state); err != nil {
		return nil, err
	}
	return m, nil
}

// Owner returns the pool owner address.
func (m *Manager) Owner() common.Address {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Owner
}

// Balance returns a copy of the current pool balance.
func (m *Manager) Balance() *big.Int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return new(big.Int).Set(m.state.Balance)
}

// IsMember reports whether the identity is whitelisted.
func (m *Manager) IsMember(identity common.Address) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Members.Contains(identity)
}

// AddMember whitelists a single identity and seeds its participant record
// with the default withdrawal limit. Owner only.
func (m *Manager) AddMember(caller, identity common.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOwner(caller); err != nil {
		return err
	}
	if err := m.state.Members.Add(identity); err != nil {
		return err
	}
	m.state.Participants[identity] = &model.Participant{WithdrawalLimit: reputation.BaseLimit}
	m.save()
	m.record(func() error {
		return m.rec.RecordMembership(&recorder.MembershipEvent{Address: identity.Hex(), Count: 1})
	})
	return nil
}

// AddMembers whitelists a batch, skipping zero addresses and duplicates,
// and returns the count actually added. Owner only.
func (m *Manager) AddMembers(caller common.Address, identities []common.Address) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOwner(caller); err != nil {
		return 0, err
	}
	added := m.state.Members.AddBatch(identities)
	for _, identity := range added {
		m.state.Participants[identity] = &model.Participant{WithdrawalLimit: reputation.BaseLimit}
	}
	if len(added) > 0 {
		m.save()
	}
	m.record(func() error {
		return m.rec.RecordMembership(&recorder.MembershipEvent{Count: len(added)})
	})
	return len(added), nil
}

// Withdraw pays the caller its limit share of the current balance.
// The timestamp and balance are updated strictly before the external
// transfer; a transfer failure rolls both back.
func (m *Manager) Withdraw(caller common.Address) (*big.Int, error) {
	if !m.mu.TryLock() {
		return nil, ErrReentrantCall
	}
	defer m.mu.Unlock()

	if !m.state.Members.Contains(caller) {
		return nil, ErrNotWhitelisted
	}
	p := m.participantLocked(caller)

	now := m.clock.Now()
	if now.Before(p.LastWithdrawalAt.Add(Cooldown)) {
		return nil, ErrCooldownActive
	}
	if m.state.Balance.Sign() == 0 {
		return nil, ErrPoolEmpty
	}
	amount := withdrawable(m.state.Balance, p.WithdrawalLimit)
	if amount.Sign() == 0 {
		// Balance so small the limit share truncates to zero.
		return nil, ErrAmountTooSmall
	}

	prevTime := p.LastWithdrawalAt
	prevBalance := new(big.Int).Set(m.state.Balance)
	p.LastWithdrawalAt = now
	m.state.Balance.Sub(m.state.Balance, amount)

	if err := m.payer.Transfer(caller, amount); err != nil {
		p.LastWithdrawalAt = prevTime
		m.state.Balance.Set(prevBalance)
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	m.save()
	m.record(func() error {
		return m.rec.RecordWithdrawal(&recorder.WithdrawalEvent{
			Address:      caller.Hex(),
			Amount:       amount.String(),
			BalanceAfter: m.state.Balance.String(),
		})
	})
	return amount, nil
}

// EmergencyWithdraw drains the entire balance to the owner. No cooldown or
// limit applies, but the same guard and rollback rules do.
func (m *Manager) EmergencyWithdraw(caller common.Address) (*big.Int, error) {
	if !m.mu.TryLock() {
		return nil, ErrReentrantCall
	}
	defer m.mu.Unlock()

	if err := m.requireOwner(caller); err != nil {
		return nil, err
	}
	if m.state.Balance.Sign() == 0 {
		return nil, ErrPoolEmpty
	}

	amount := new(big.Int).Set(m.state.Balance)
	m.state.Balance.SetInt64(0)

	if err := m.payer.Transfer(m.state.Owner, amount); err != nil {
		m.state.Balance.Set(amount)
		return nil, fmt.Errorf("%w: %v", ErrTransferFailed, err)
	}

	m.save()
	m.record(func() error {
		return m.rec.RecordWithdrawal(&recorder.WithdrawalEvent{
			Address:      m.state.Owner.Hex(),
			Amount:       amount.String(),
			BalanceAfter: "0",
			Emergency:    true,
		})
	})
	return amount, nil
}

// SubmitAttestation records a like/dislike by rater about target. The
// attestation service is invoked before the ledger update is committed, so
// a notifier failure leaves reputation state unchanged.
func (m *Manager) SubmitAttestation(rater, target common.Address, isLike bool) error {
	if !m.mu.TryLock() {
		return ErrReentrantCall
	}
	defer m.mu.Unlock()

	if !m.state.Members.Contains(rater) {
		return ErrNotWhitelisted
	}
	if rater == target {
		return ErrSelfRating
	}
	if !m.state.Members.Contains(target) {
		return ErrNotWhitelisted
	}
	p := m.participantLocked(target)

	payload, err := json.Marshal(&attestationRecord{
		Target:    target.Hex(),
		Like:      isLike,
		Timestamp: m.clock.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal attestation: %w", err)
	}
	if err := m.attester.Attest(target.Hex(), payload); err != nil {
		return fmt.Errorf("%w: %v", ErrAttestationFailed, err)
	}

	reputation.ApplyVote(p, isLike)
	m.save()
	m.record(func() error {
		return m.rec.RecordReputation(&recorder.ReputationEvent{
			Target:          target.Hex(),
			Like:            isLike,
			Likes:           p.Likes,
			Dislikes:        p.Dislikes,
			WithdrawalLimit: p.WithdrawalLimit,
		})
	})
	return nil
}

// SetAttestationService replaces the attestation service endpoint. Owner only.
func (m *Manager) SetAttestationService(caller common.Address, endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.requireOwner(caller); err != nil {
		return err
	}
	if !validEndpoint(endpoint) {
		return ErrInvalidEndpoint
	}
	m.state.AttestationEndpoint = endpoint
	m.attester.SetEndpoint(endpoint)
	m.save()
	m.record(func() error {
		return m.rec.RecordConfigChange(&recorder.ConfigChangeEvent{Endpoint: endpoint})
	})
	return nil
}

// Deposit credits the shared balance. Deposits may come from any source.
func (m *Manager) Deposit(amount *big.Int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	m.state.Balance.Add(m.state.Balance, amount)
	m.save()
	m.record(func() error {
		return m.rec.RecordDeposit(&recorder.DepositEvent{
			Amount:       amount.String(),
			BalanceAfter: m.state.Balance.String(),
		})
	})
	return nil
}

// ReputationStats returns (likes, dislikes, limit) for the identity.
// Unknown identities yield the zero value.
func (m *Manager) ReputationStats(identity common.Address) model.ReputationStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.state.Participants[identity]
	if !ok {
		return model.ReputationStats{}
	}
	return model.ReputationStats{
		Likes:           p.Likes,
		Dislikes:        p.Dislikes,
		WithdrawalLimit: p.WithdrawalLimit,
	}
}

// Snapshot summarizes the pool for periodic recording.
func (m *Manager) Snapshot() *model.PoolSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := &model.PoolSnapshot{
		Balance: new(big.Int).Set(m.state.Balance),
		Members: m.state.Members.Len(),
	}
	for _, p := range m.state.Participants {
		snap.TotalLikes += p.Likes
		snap.TotalDislikes += p.Dislikes
	}
	return snap
}

func (m *Manager) requireOwner(caller common.Address) error {
	if caller != m.state.Owner {
		return ErrUnauthorized
	}
	return nil
}

// participantLocked returns the record for a whitelisted identity, seeding
// a default one if a state file predating the record is loaded.
func (m *Manager) participantLocked(identity common.Address) *model.Participant {
	p, ok := m.state.Participants[identity]
	if !ok {
		p = &model.Participant{WithdrawalLimit: reputation.BaseLimit}
		m.state.Participants[identity] = p
	}
	return p
}

// withdrawable computes balance * limit / 10000 with truncation.
func withdrawable(balance *big.Int, limit uint32) *big.Int {
	amount := new(big.Int).Mul(balance, big.NewInt(int64(limit)))
	return amount.Div(amount, big.NewInt(reputation.ScaleDenominator))
}

func validEndpoint(endpoint string) bool {
	if endpoint == "" {
		return false
	}
	u, err := url.Parse(endpoint)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func (m *Manager) save() {
	if err := SaveState(m.filePath, m.state); err != nil {
		log.Printf("[ERROR] failed to save pool state: %v", err)
	}
}

func (m *Manager) record(fn func() error) {
	if err := fn(); err != nil {
		log.Printf("[ERROR] record pool event: %v", err)
	}
}
