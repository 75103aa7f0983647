package types

import "strings"

const ZeroAddress = "0x0000000000000000000000000000000000000000"

// BranchInfo is the state of one branch contract. Investment and TotalSupply are decimal ETH strings.
type BranchInfo struct {
	Address     string       `json:"address" bson:"address"`
	Name        string       `json:"name" bson:"name"`
	Symbol      string       `json:"symbol" bson:"symbol"`
	Proposal    string       `json:"proposal" bson:"proposal"`
	Vendor      string       `json:"vendor" bson:"vendor"`
	Investment  string       `json:"investment" bson:"investment"`
	Status      BranchStatus `json:"status" bson:"status"`
	TotalSupply string       `json:"totalSupply" bson:"totalSupply"`
}

func (b *BranchInfo) CanTrade() bool {
	return b.Status == StatusWinner || b.Status == StatusChild
}

// NeedsReveal reports a child branch whose proposal text has not been revealed yet.
func (b *BranchInfo) NeedsReveal() bool {
	return b.Proposal == "" && b.Status == StatusChild
}

func (b *BranchInfo) HasVendor() bool {
	return b.Vendor != "" && !strings.EqualFold(b.Vendor, ZeroAddress)
}
