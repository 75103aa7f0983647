package types

// RoundState is the factory state of the current round. TimerDeadline is unix seconds.
type RoundState struct {
	Stage         Stage    `json:"stage"`
	Round         uint64   `json:"round"`
	TimerDeadline int64    `json:"timerDeadline"`
	MainBranch    string   `json:"mainBranch"`
	Children      []string `json:"children"`
}

func (r *RoundState) IsProposalStage() bool {
	return r.Stage == StageSuggestion
}

func (r *RoundState) CanClaim() bool {
	return r.Stage == StageClaiming || r.Stage == StageSelection
}

// IsDecisionRound reports odd rounds, in which proposals carry a vendor and an investment.
func (r *RoundState) IsDecisionRound() bool {
	return IsDecisionRound(r.Round)
}

func IsDecisionRound(round uint64) bool {
	return round%2 == 1
}
