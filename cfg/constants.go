package cfg

const (
	ServerVersion = "1.0.0"

	SepoliaChainID        uint64 = 11155111
	DefaultFactoryAddress        = "0xc4b22029956E322B78DcBd8CEC5947Ab64384b2a"

	DefaultFactoryABIURL = "https://raw.githubusercontent.com/arianXdev/smart-constitution-d535919e/refs/heads/main/ParaLeadFactory_ABI.json"
	DefaultBranchABIURL  = "https://raw.githubusercontent.com/arianXdev/smart-constitution-d535919e/refs/heads/main/ParaLeadBranch_ABI.json"

	SepoliaChainName   = "Sepolia Testnet"
	SepoliaRPCURL      = "https://sepolia.infura.io/v3/"
	SepoliaExplorerURL = "https://sepolia.etherscan.io/"
)
