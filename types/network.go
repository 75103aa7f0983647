package types

// NetworkStatus describes the contract client connection.
type NetworkStatus struct {
	State          string `json:"state"`
	ChainID        uint64 `json:"chainId"`
	Account        string `json:"account,omitempty"`
	FactoryAddress string `json:"factoryAddress"`
	BlockTime      uint64 `json:"latestBlockTime,omitempty"`
}
