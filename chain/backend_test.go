package chain

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/utils"
)

const testChainID = 11155111

var (
	testFactory = common.HexToAddress("0xc4b22029956E322B78DcBd8CEC5947Ab64384b2a")
	testMain    = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testChildA  = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testChildB  = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

// fakeBackend answers contract calls with outputs encoded by the real ABI encoder.
type fakeBackend struct {
	Backend

	mtx        sync.Mutex
	chainID    *big.Int
	factoryABI *abi.ABI
	branchABI  *abi.ABI
	children   []common.Address
	outputs    map[common.Address]map[string][]interface{}
	failures   map[string]error
	calls      map[string]int
	sent       []*ethtypes.Transaction
	receipts   map[common.Hash]*ethtypes.Receipt
	minedAt    map[common.Hash]time.Time
	mineDelay  time.Duration
	sendErr    error
	revert     bool
	created    common.Address
	blockTime  uint64
	closed     bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	return &fakeBackend{
		chainID:    big.NewInt(testChainID),
		factoryABI: loadTestABI(t, "factory_abi.json"),
		branchABI:  loadTestABI(t, "branch_abi.json"),
		outputs:    make(map[common.Address]map[string][]interface{}),
		failures:   make(map[string]error),
		calls:      make(map[string]int),
		receipts:   make(map[common.Hash]*ethtypes.Receipt),
		minedAt:    make(map[common.Hash]time.Time),
		blockTime:  1700000000,
	}
}

func loadTestABI(t *testing.T, name string) *abi.ABI {
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	parsed, err := utils.ParseABI(data)
	require.NoError(t, err)
	return parsed
}

func (f *fakeBackend) setOutput(contract common.Address, method string, values ...interface{}) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.outputs[contract] == nil {
		f.outputs[contract] = make(map[string][]interface{})
	}
	f.outputs[contract][method] = values
}

func (f *fakeBackend) setBranch(addr common.Address, name string, status uint8, proposal string) {
	supply, _ := new(big.Int).SetString("2500000000000000000", 10)
	investment, _ := new(big.Int).SetString("1500000000000000000", 10)
	f.setOutput(addr, "name", name)
	f.setOutput(addr, "symbol", name[:3])
	f.setOutput(addr, "proposal", proposal)
	f.setOutput(addr, "vendor", common.HexToAddress("0x4f36A53DC32272b97Ae5FF511387E2741D727bdb"))
	f.setOutput(addr, "investment", investment)
	f.setOutput(addr, "status", status)
	f.setOutput(addr, "totalSupply", supply)
	f.setOutput(addr, "balanceOf", big.NewInt(250000000000000000))
}

func (f *fakeBackend) abiFor(addr common.Address) *abi.ABI {
	if addr == testFactory {
		return f.factoryABI
	}
	return f.branchABI
}

func (f *fakeBackend) callCount(method string) int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.calls[method]
}

func (f *fakeBackend) sentTxs() []*ethtypes.Transaction {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]*ethtypes.Transaction(nil), f.sent...)
}

func (f *fakeBackend) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	a := f.abiFor(*msg.To)
	method, err := a.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	f.calls[method.Name]++
	if err, ok := f.failures[method.Name]; ok {
		return nil, err
	}
	if *msg.To == testFactory {
		switch method.Name {
		case "getChildrenSize":
			return method.Outputs.Pack(big.NewInt(int64(len(f.children))))
		case "children":
			args, err := method.Inputs.Unpack(msg.Data[4:])
			if err != nil {
				return nil, err
			}
			idx := args[0].(*big.Int).Int64()
			if idx >= int64(len(f.children)) {
				return nil, errors.New("execution reverted")
			}
			return method.Outputs.Pack(f.children[idx])
		}
	}
	values, ok := f.outputs[*msg.To][method.Name]
	if !ok {
		return nil, nil
	}
	return method.Outputs.Pack(values...)
}

func (f *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*ethtypes.Header, error) {
	return &ethtypes.Header{Number: big.NewInt(100), Time: f.blockTime}, nil
}

func (f *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return uint64(len(f.sent)), nil
}

func (f *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (f *fakeBackend) SuggestGasTipCap(context.Context) (*big.Int, error) {
	return big.NewInt(1000000000), nil
}

func (f *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100000, nil
}

func (f *fakeBackend) SendTransaction(_ context.Context, tx *ethtypes.Transaction) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, tx)
	receipt := &ethtypes.Receipt{
		Status:      ethtypes.ReceiptStatusSuccessful,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(101),
		GasUsed:     21000,
	}
	if f.revert {
		receipt.Status = ethtypes.ReceiptStatusFailed
	}
	if method, err := f.abiFor(*tx.To()).MethodById(tx.Data()[:4]); err == nil && method.Name == "submitProposal" && f.created != (common.Address{}) {
		event := f.factoryABI.Events[EventBranchCreated]
		receipt.Logs = []*ethtypes.Log{
			{Address: testFactory, Topics: []common.Hash{crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))}},
			{Address: testFactory, Topics: []common.Hash{event.ID, common.BytesToHash(f.created.Bytes()), common.BytesToHash(testMain.Bytes())}},
		}
	}
	f.receipts[tx.Hash()] = receipt
	f.minedAt[tx.Hash()] = time.Now().Add(f.mineDelay)
	return nil
}

func (f *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*ethtypes.Receipt, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	receipt, ok := f.receipts[hash]
	if !ok || time.Now().Before(f.minedAt[hash]) {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (f *fakeBackend) FilterLogs(context.Context, ethereum.FilterQuery) ([]ethtypes.Log, error) {
	return nil, nil
}

func (f *fakeBackend) SubscribeFilterLogs(context.Context, ethereum.FilterQuery, chan<- ethtypes.Log) (ethereum.Subscription, error) {
	return nil, errors.New("not supported")
}

func (f *fakeBackend) ChainID(context.Context) (*big.Int, error) {
	return f.chainID, nil
}

func (f *fakeBackend) Close() {
	f.mtx.Lock()
	f.closed = true
	f.mtx.Unlock()
}

func serveTestABIs(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir("testdata")))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestWallet(t *testing.T) Wallet {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	return NewKeyWallet(key)
}

func newTestClient(t *testing.T, backend *fakeBackend, wallet Wallet) *Client {
	srv := serveTestABIs(t)
	client, err := New(Config{
		RPCURL:         "http://node.invalid",
		FactoryAddress: testFactory,
		FactoryABIURL:  srv.URL + "/factory_abi.json",
		BranchABIURL:   srv.URL + "/branch_abi.json",
		Wallet:         wallet,
		Dialer: func(context.Context, string) (Backend, error) {
			return backend, nil
		},
		ABIStore: NewABIStore(srv.Client(), zap.NewNop()),
		Logger:   zap.NewNop(),
	})
	require.NoError(t, err)
	return client
}

func newConnectedClient(t *testing.T) (*Client, *fakeBackend) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, newTestWallet(t))
	require.NoError(t, client.Connect(context.Background()))
	return client, backend
}
