package registry

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInvalidIdentity is returned when the zero address is added.
	ErrInvalidIdentity = errors.New("identity is the zero address")
	// ErrAlreadyMember is returned when the identity is already whitelisted.
	ErrAlreadyMember = errors.New("identity is already whitelisted")
)

// Set is an index-assigning membership set over participant addresses.
// It keeps a single source of truth for both lookup and ordered enumeration.
// Set is not safe for concurrent use; callers serialize access.
type Set struct {
	index map[common.Address]int
	list  []common.Address
}

// NewSet creates an empty membership set.
func NewSet() *Set {
	return &Set{index: make(map[common.Address]int)}
}

// Add whitelists the given identity. The zero address and duplicates fail.
func (s *Set) Add(identity common.Address) error {
	if identity == (common.Address{}) {
		return ErrInvalidIdentity
	}
	if _, ok := s.index[identity]; ok {
		return ErrAlreadyMember
	}
	s.index[identity] = len(s.list)
	s.list = append(s.list, identity)
	return nil
}

// AddBatch applies Add semantics per element but skips zero addresses and
// duplicates instead of failing. It returns the identities actually added.
func (s *Set) AddBatch(identities []common.Address) []common.Address {
	var added []common.Address
	for _, identity := range identities {
		if err := s.Add(identity); err != nil {
			continue
		}
		added = append(added, identity)
	}
	return added
}

// Contains reports whether the identity is whitelisted.
func (s *Set) Contains(identity common.Address) bool {
	_, ok := s.index[identity]
	return ok
}

// Remove delists the identity using swap-and-truncate, so removal is O(1)
// at the cost of enumeration order. The fund-pool core never removes
// members; this exists for enumeration tooling.
func (s *Set) Remove(identity common.Address) bool {
	i, ok := s.index[identity]
	if !ok {
		return false
	}
	last := len(s.list) - 1
	if i != last {
		s.list[i] = s.list[last]
		s.index[s.list[i]] = i
	}
	s.list = s.list[:last]
	delete(s.index, identity)
	return true
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.list)
}

// Addresses returns the members in insertion order.
func (s *Set) Addresses() []common.Address {
	out := make([]common.Address, len(s.list))
	copy(out, s.list)
	return out
}

// MarshalJSON serializes the set as the ordered address list.
func (s *Set) MarshalJSON() ([]byte, error) {
	if s.list == nil {
		return json.Marshal([]common.Address{})
	}
	return json.Marshal(s.list)
}

// UnmarshalJSON rebuilds the set from an ordered address list.
func (s *Set) UnmarshalJSON(data []byte) error {
	var list []common.Address
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	s.index = make(map[common.Address]int, len(list))
	s.list = s.list[:0]
	for _, identity := range list {
		if err := s.Add(identity); err != nil {
			continue
		}
	}
	return nil
}
