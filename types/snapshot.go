package types

import (
	"math/big"
	"strings"
	"time"
)

type UserContext struct {
	Address        string            `json:"address"`
	TokenBalances  map[string]string `json:"tokenBalances"`
	PayableBalance *big.Int          `json:"payableBalance"`
}

// Snapshot is one consistent view of the round. Branches holds the main branch first,
// then the children in contract order.
type Snapshot struct {
	Round     RoundState   `json:"round"`
	Branches  []BranchInfo `json:"branches"`
	User      UserContext  `json:"user"`
	FetchedAt time.Time    `json:"fetchedAt"`
}

func (s *Snapshot) MainBranch() *BranchInfo {
	if len(s.Branches) == 0 {
		return nil
	}
	return &s.Branches[0]
}

func (s *Snapshot) ChildBranches() []BranchInfo {
	if len(s.Branches) <= 1 {
		return nil
	}
	return s.Branches[1:]
}

func (s *Snapshot) Branch(address string) *BranchInfo {
	for i := range s.Branches {
		if strings.EqualFold(s.Branches[i].Address, address) {
			return &s.Branches[i]
		}
	}
	return nil
}

// TokenBalance returns the user's balance of a branch token, "0.0" when unknown.
func (s *Snapshot) TokenBalance(branch string) string {
	for addr, balance := range s.User.TokenBalances {
		if strings.EqualFold(addr, branch) {
			return balance
		}
	}
	return "0.0"
}
