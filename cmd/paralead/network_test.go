package main

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paralead/paralead-backend/types"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

// walletNode answers the JSON-RPC calls of a node whose wallet starts on mainnet and moves
// to the requested chain on wallet_switchEthereumChain. It also serves the contract ABIs.
type walletNode struct {
	mtx     sync.Mutex
	chainID string
	methods []string
}

func newWalletNode(t *testing.T) (*walletNode, *httptest.Server) {
	node := &walletNode{chainID: "0x1"}
	abis := http.StripPrefix("/abi/", http.FileServer(http.Dir(filepath.Join("..", "..", "chain", "testdata"))))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/abi/") {
			abis.ServeHTTP(w, r)
			return
		}
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		node.mtx.Lock()
		node.methods = append(node.methods, req.Method)
		switch req.Method {
		case "eth_chainId":
			resp["result"] = node.chainID
		case "wallet_switchEthereumChain":
			node.chainID = "0xaa36a7"
			resp["result"] = nil
		default:
			resp["error"] = map[string]interface{}{"code": -32601, "message": "method not found"}
		}
		node.mtx.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return node, srv
}

func (n *walletNode) called(method string) bool {
	n.mtx.Lock()
	defer n.mtx.Unlock()
	for _, m := range n.methods {
		if m == method {
			return true
		}
	}
	return false
}

func setupWalletEnv(t *testing.T, srv *httptest.Server) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	t.Setenv("ETH_RPC_URL", srv.URL)
	t.Setenv("WALLET_RPC_URL", "")
	t.Setenv("CHAIN_ID", "")
	t.Setenv("FACTORY_ABI_URL", srv.URL+"/abi/factory_abi.json")
	t.Setenv("BRANCH_ABI_URL", srv.URL+"/abi/branch_abi.json")
	t.Setenv("WALLET_PRIVATE_KEY", hex.EncodeToString(crypto.FromECDSA(key)))
	t.Setenv("WALLET_KEYSTORE", "")
	t.Setenv("LOG_LEVEL", "error")
}

func TestSwitchNetworkCommand_FromWrongNetwork(t *testing.T) {
	node, srv := newWalletNode(t)
	setupWalletEnv(t, srv)

	out, err := run(t, "switch-network")
	require.NoError(t, err)
	assert.True(t, node.called("wallet_switchEthereumChain"))

	var status types.NetworkStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	assert.Equal(t, "connected", status.State)
	assert.Equal(t, uint64(11155111), status.ChainID)
}

func TestCommands_WrongNetwork(t *testing.T) {
	node, srv := newWalletNode(t)
	setupWalletEnv(t, srv)

	_, err := run(t, "reset-balance")
	var wrongNetwork *types.WrongNetworkError
	require.ErrorAs(t, err, &wrongNetwork)
	assert.Equal(t, uint64(1), wrongNetwork.Got)
	assert.False(t, node.called("wallet_switchEthereumChain"))
}
