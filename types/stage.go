package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const unknownName = "Unknown"

// Stage is the factory round stage.
type Stage uint8

const (
	StageRegular Stage = iota
	StageOpen
	StageSuggestion
	StageClaiming
	StageSelection

	StageUnknown Stage = math.MaxUint8
)

// StageFromUint narrows a contract value, mapping anything outside uint8 to StageUnknown.
func StageFromUint(v uint64) Stage {
	if v >= math.MaxUint8 {
		return StageUnknown
	}
	return Stage(v)
}

var stageNames = map[Stage]string{
	StageRegular:    "Regular",
	StageOpen:       "Open",
	StageSuggestion: "Suggestion",
	StageClaiming:   "Claiming",
	StageSelection:  "Selection",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return unknownName
}

// BranchStatus is the lifecycle status of a branch contract.
type BranchStatus uint8

const (
	StatusChild BranchStatus = iota
	StatusLoser
	StatusWinner
	StatusMother
	StatusDead

	StatusUnknown BranchStatus = math.MaxUint8
)

func BranchStatusFromUint(v uint64) BranchStatus {
	if v >= math.MaxUint8 {
		return StatusUnknown
	}
	return BranchStatus(v)
}

var statusNames = map[BranchStatus]string{
	StatusChild:  "Child",
	StatusLoser:  "Loser",
	StatusWinner: "Winner",
	StatusMother: "Mother",
	StatusDead:   "Dead",
}

var statusDisplayNames = map[BranchStatus]string{
	StatusChild:  "Active Proposal",
	StatusLoser:  "Rejected",
	StatusWinner: "Winner",
	StatusMother: "Current Main",
	StatusDead:   "Inactive",
}

func (s BranchStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return unknownName
}

// DisplayName is the label shown to users for a status.
func (s BranchStatus) DisplayName() string {
	if name, ok := statusDisplayNames[s]; ok {
		return name
	}
	return unknownName
}

type ProposalType uint8

const (
	ProposalBasic ProposalType = iota
	ProposalPurchase
	ProposalHiring
	ProposalFiring
	ProposalReplacing
	ProposalDemote
)

var proposalTypeNames = []string{"Basic", "Purchase", "Hiring", "Firing", "Replacing", "Demote"}

func (t ProposalType) String() string {
	if int(t) < len(proposalTypeNames) {
		return proposalTypeNames[t]
	}
	return unknownName
}

func (t ProposalType) IsValid() bool {
	return int(t) < len(proposalTypeNames)
}

// ProposalTypes lists every known proposal type in contract order.
func ProposalTypes() []ProposalType {
	list := make([]ProposalType, len(proposalTypeNames))
	for i := range proposalTypeNames {
		list[i] = ProposalType(i)
	}
	return list
}

// ParseProposalType accepts either the type name (case-insensitive) or its numeric value.
func ParseProposalType(v string) (ProposalType, error) {
	v = strings.TrimSpace(v)
	for i, name := range proposalTypeNames {
		if strings.EqualFold(name, v) {
			return ProposalType(i), nil
		}
	}
	n, err := strconv.Atoi(v)
	if err == nil && n >= 0 && n < len(proposalTypeNames) {
		return ProposalType(n), nil
	}
	return 0, fmt.Errorf("unknown proposal type %q", v)
}
