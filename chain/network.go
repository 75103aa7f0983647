package chain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/paralead/paralead-backend/cfg"
)

// RPCCaller is the wallet-side JSON-RPC endpoint used for network switching.
type RPCCaller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// ChainParams are the registration parameters of a chain for wallet_addEthereumChain.
type ChainParams struct {
	ChainID        *big.Int
	ChainName      string
	NativeCurrency NativeCurrency
	RPCURLs        []string
	ExplorerURLs   []string
}

func Sepolia() ChainParams {
	return ChainParams{
		ChainID:        new(big.Int).SetUint64(cfg.SepoliaChainID),
		ChainName:      cfg.SepoliaChainName,
		NativeCurrency: NativeCurrency{Name: "ETH", Symbol: "ETH", Decimals: 18},
		RPCURLs:        []string{cfg.SepoliaRPCURL},
		ExplorerURLs:   []string{cfg.SepoliaExplorerURL},
	}
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// SwitchNetwork asks the wallet to switch to the chain. A wallet that does not know
// the chain (error 4902) is asked to register it instead.
func SwitchNetwork(ctx context.Context, caller RPCCaller, params ChainParams) error {
	chainID := hexutil.EncodeBig(params.ChainID)
	err := caller.CallContext(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: chainID})
	if err == nil {
		return nil
	}
	var rpcErr rpc.Error
	if !errors.As(err, &rpcErr) || rpcErr.ErrorCode() != errCodeUnrecognizedChain {
		return classifyError(err)
	}
	err = caller.CallContext(ctx, nil, "wallet_addEthereumChain", addChainParams{
		ChainID:           chainID,
		ChainName:         params.ChainName,
		NativeCurrency:    params.NativeCurrency,
		RPCURLs:           params.RPCURLs,
		BlockExplorerURLs: params.ExplorerURLs,
	})
	return classifyError(err)
}
