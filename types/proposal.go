package types

// ProposalDraft is the user input for a new proposal. Vendor and Investment only apply to decision rounds.
type ProposalDraft struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Type        ProposalType `json:"type"`
	Vendor      string       `json:"vendor,omitempty"`
	Investment  string       `json:"investment,omitempty"`
}

const MaxTitleLength = 32

// FormShape describes which proposal fields a round asks for.
type FormShape struct {
	Round             uint64   `json:"round"`
	DecisionRound     bool     `json:"decisionRound"`
	DefaultVendor     string   `json:"defaultVendor"`
	DefaultInvestment string   `json:"defaultInvestment"`
	MaxTitleLength    int      `json:"maxTitleLength"`
	ProposalTypes     []string `json:"proposalTypes"`
}

// NewFormShape returns the proposal form for a round: decision rounds ask for vendor and
// investment, question rounds submit the zero address and "0".
func NewFormShape(round uint64) FormShape {
	shape := FormShape{
		Round:             round,
		DecisionRound:     IsDecisionRound(round),
		DefaultVendor:     ZeroAddress,
		DefaultInvestment: "0",
		MaxTitleLength:    MaxTitleLength,
	}
	if shape.DecisionRound {
		shape.DefaultVendor = ""
	}
	for _, pt := range ProposalTypes() {
		shape.ProposalTypes = append(shape.ProposalTypes, pt.String())
	}
	return shape
}
