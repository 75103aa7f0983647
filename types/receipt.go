package types

// TxReceipt summarises a confirmed transaction.
type TxReceipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
}

type ProposalReceipt struct {
	TxReceipt
	Branch string `json:"branch"`
}
