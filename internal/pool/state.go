package pool

import (
	"encoding/json"
	"math/big"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"ReputePool/internal/model"
	"ReputePool/internal/registry"
)

// State is the persisted pool ledger: the shared balance, the membership
// set and every participant record, plus owner and service configuration.
type State struct {
	Owner               common.Address                        `json:"owner"`
	Balance             *big.Int                              `json:"balance"`
	AttestationEndpoint string                                `json:"attestation_endpoint"`
	Members             *registry.Set                         `json:"members"`
	Participants        map[common.Address]*model.Participant `json:"participants"`
	UpdatedAt           time.Time                             `json:"updated_at"`
}

// LoadState reads the pool state from a JSON file. Returns a fresh empty
// state if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return newState(), nil
		}
		return nil, err
	}
	state := newState()
	if err := json.Unmarshal(data, state); err != nil {
		return nil, err
	}
	// Normalize fields a hand-edited or truncated file may have dropped.
	if state.Balance == nil {
		state.Balance = big.NewInt(0)
	}
	if state.Members == nil {
		state.Members = registry.NewSet()
	}
	if state.Participants == nil {
		state.Participants = make(map[common.Address]*model.Participant)
	}
	return state, nil
}

// SaveState writes the pool state to a JSON file.
func SaveState(filePath string, state *State) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, data, 0644)
}

func newState() *State {
	return &State{
		Balance:      big.NewInt(0),
		Members:      registry.NewSet(),
		Participants: make(map[common.Address]*model.Participant),
	}
}
