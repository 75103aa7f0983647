// Package chain
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/rpc"
	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/metrics"
	"github.com/paralead/paralead-backend/types"
)

const (
	defaultBranchCacheSize = 128
	defaultTxTimeout       = 5 * time.Minute
)

type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
	StateWrongNetwork
)

var connStateNames = map[ConnState]string{
	StateDisconnected: "disconnected",
	StateConnecting:   "connecting",
	StateConnected:    "connected",
	StateWrongNetwork: "wrong_network",
}

func (s ConnState) String() string {
	if name, ok := connStateNames[s]; ok {
		return name
	}
	return "unknown"
}

type Config struct {
	RPCURL         string
	ChainID        *big.Int
	Network        ChainParams
	FactoryAddress common.Address
	FactoryABIURL  string
	BranchABIURL   string

	Wallet Wallet
	// WalletRPC receives wallet_* requests. When nil, WalletRPCURL (or RPCURL) is dialed on demand.
	WalletRPC    RPCCaller
	WalletRPCURL string

	Dialer          Dialer
	ABIStore        *ABIStore
	BranchCacheSize int
	TxTimeout       time.Duration

	Metrics *metrics.Provider
	Logger  *zap.Logger
}

type connection struct {
	backend    Backend
	factoryABI *abi.ABI
	branchABI  *abi.ABI
	factory    *bind.BoundContract
}

type branchKey struct {
	conn    *connection
	address common.Address
}

// Client reads from and writes to the factory and branch contracts.
type Client struct {
	cfg    Config
	logger *zap.Logger

	// connMtx serialises Connect, Disconnect and SwitchNetwork.
	connMtx sync.Mutex

	mtx   sync.RWMutex
	state ConnState
	conn  *connection

	branches *lru.Cache
}

func New(cfg Config) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("missing rpc url")
	}
	if cfg.FactoryAddress == (common.Address{}) {
		return nil, errors.New("missing factory address")
	}
	if cfg.Network.ChainID == nil {
		cfg.Network = Sepolia()
	}
	if cfg.ChainID == nil {
		cfg.ChainID = cfg.Network.ChainID
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Dialer == nil {
		cfg.Dialer = DialRPC
	}
	if cfg.ABIStore == nil {
		cfg.ABIStore = NewABIStore(http.DefaultClient, cfg.Logger)
	}
	if cfg.BranchCacheSize <= 0 {
		cfg.BranchCacheSize = defaultBranchCacheSize
	}
	if cfg.TxTimeout <= 0 {
		cfg.TxTimeout = defaultTxTimeout
	}
	branches, err := lru.New(cfg.BranchCacheSize)
	if err != nil {
		return nil, err
	}
	return &Client{
		cfg:      cfg,
		logger:   cfg.Logger.With(zap.String("client", "chain")),
		state:    StateDisconnected,
		branches: branches,
	}, nil
}

func (c *Client) State() ConnState {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	return c.state
}

func (c *Client) setState(state ConnState) {
	c.mtx.Lock()
	c.state = state
	c.mtx.Unlock()
}

// Address returns the signing account, or the zero address when no wallet is configured.
func (c *Client) Address() common.Address {
	if c.cfg.Wallet == nil {
		return common.Address{}
	}
	return c.cfg.Wallet.Address()
}

func (c *Client) ChainID() *big.Int {
	return new(big.Int).Set(c.cfg.ChainID)
}

func (c *Client) FactoryAddress() common.Address {
	return c.cfg.FactoryAddress
}

// Connect dials the node, checks the chain id and loads both ABIs. Connecting a connected client is a no-op.
func (c *Client) Connect(ctx context.Context) error {
	c.connMtx.Lock()
	defer c.connMtx.Unlock()
	if c.State() == StateConnected {
		return nil
	}

	lgr := c.logger.With(zap.String("method", "Connect"))
	if c.cfg.Wallet == nil {
		c.setState(StateDisconnected)
		return types.ErrNoWallet
	}
	c.setState(StateConnecting)
	cn, err := c.dial(ctx)
	if err != nil {
		var wrongNetwork *types.WrongNetworkError
		if errors.As(err, &wrongNetwork) {
			c.setState(StateWrongNetwork)
		} else {
			c.setState(StateDisconnected)
		}
		lgr.Warn("cannot connect", zap.Error(err))
		return err
	}

	c.mtx.Lock()
	c.conn = cn
	c.state = StateConnected
	c.mtx.Unlock()
	c.branches.Purge()
	lgr.Info("connected",
		zap.String("account", c.cfg.Wallet.Address().Hex()),
		zap.String("chainID", c.cfg.ChainID.String()))
	return nil
}

func (c *Client) dial(ctx context.Context) (*connection, error) {
	backend, err := c.cfg.Dialer(ctx, c.cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", c.cfg.RPCURL, err)
	}
	chainID, err := backend.ChainID(ctx)
	if err != nil {
		backend.Close()
		return nil, err
	}
	if chainID.Cmp(c.cfg.ChainID) != 0 {
		backend.Close()
		return nil, &types.WrongNetworkError{Want: c.cfg.ChainID.Uint64(), Got: chainID.Uint64()}
	}
	factoryABI, err := c.cfg.ABIStore.Load(ctx, c.cfg.FactoryABIURL)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("load factory abi: %w", err)
	}
	branchABI, err := c.cfg.ABIStore.Load(ctx, c.cfg.BranchABIURL)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("load branch abi: %w", err)
	}
	return &connection{
		backend:    backend,
		factoryABI: factoryABI,
		branchABI:  branchABI,
		factory:    bind.NewBoundContract(c.cfg.FactoryAddress, *factoryABI, backend, backend, backend),
	}, nil
}

func (c *Client) Disconnect() {
	c.connMtx.Lock()
	defer c.connMtx.Unlock()
	c.disconnect()
}

func (c *Client) disconnect() {
	c.mtx.Lock()
	cn := c.conn
	c.conn = nil
	c.state = StateDisconnected
	c.mtx.Unlock()
	c.branches.Purge()
	if cn != nil {
		cn.backend.Close()
	}
}

// SwitchNetwork asks the wallet endpoint to move to the configured chain, then reconnects.
func (c *Client) SwitchNetwork(ctx context.Context) error {
	caller := c.cfg.WalletRPC
	if caller == nil {
		url := c.cfg.WalletRPCURL
		if url == "" {
			url = c.cfg.RPCURL
		}
		rc, err := rpc.DialContext(ctx, url)
		if err != nil {
			return err
		}
		defer rc.Close()
		caller = rc
	}
	if err := SwitchNetwork(ctx, caller, c.cfg.Network); err != nil {
		c.logger.Warn("cannot switch network", zap.String("method", "SwitchNetwork"), zap.Error(err))
		return err
	}
	c.connMtx.Lock()
	c.disconnect()
	c.connMtx.Unlock()
	return c.Connect(ctx)
}

// Status reports the connection state; the block time is read only when connected.
func (c *Client) Status(ctx context.Context) types.NetworkStatus {
	status := types.NetworkStatus{
		State:          c.State().String(),
		ChainID:        c.cfg.ChainID.Uint64(),
		FactoryAddress: c.cfg.FactoryAddress.Hex(),
	}
	if c.cfg.Wallet != nil {
		status.Account = c.cfg.Wallet.Address().Hex()
	}
	if blockTime, err := c.LatestBlockTime(ctx); err == nil {
		status.BlockTime = blockTime
	}
	return status
}

func (c *Client) connection() (*connection, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()
	if c.state != StateConnected || c.conn == nil {
		return nil, types.ErrNotConnected
	}
	return c.conn, nil
}

// LatestBlockTime returns the timestamp of the latest block.
func (c *Client) LatestBlockTime(ctx context.Context) (uint64, error) {
	cn, err := c.connection()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	header, err := cn.backend.HeaderByNumber(ctx, nil)
	c.cfg.Metrics.ObserveCall("headerByNumber", start, err)
	if err != nil {
		return 0, err
	}
	return header.Time, nil
}

func (c *Client) SubscribeNewHead(ctx context.Context, ch chan<- *ethtypes.Header) (ethereum.Subscription, error) {
	cn, err := c.connection()
	if err != nil {
		return nil, err
	}
	return cn.backend.SubscribeNewHead(ctx, ch)
}

func (c *Client) branchContract(cn *connection, address common.Address) *bind.BoundContract {
	key := branchKey{conn: cn, address: address}
	if v, ok := c.branches.Get(key); ok {
		return v.(*bind.BoundContract)
	}
	contract := bind.NewBoundContract(address, *cn.branchABI, cn.backend, cn.backend, cn.backend)
	c.branches.Add(key, contract)
	return contract
}

// call packs a read-only method call, executes it against the latest block and unpacks the outputs.
func (c *Client) call(ctx context.Context, cn *connection, a *abi.ABI, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	lgr := c.logger.With(zap.String("method", method), zap.String("contract", to.Hex()))
	payload, err := a.Pack(method, args...)
	if err != nil {
		lgr.Error("Error packing payload", zap.Error(err))
		return nil, err
	}

	start := time.Now()
	res, err := cn.backend.CallContract(ctx, ethereum.CallMsg{From: c.Address(), To: &to, Data: payload}, nil)
	c.cfg.Metrics.ObserveCall(method, start, err)
	if err != nil {
		lgr.Warn("contract call error", zap.Error(err))
		return nil, classifyError(err)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%s: %w", method, types.ErrEmptyResult)
	}

	out, err := a.Unpack(method, res)
	if err != nil {
		lgr.Error("Error unpacking result", zap.Error(err))
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: %w", method, types.ErrEmptyResult)
	}
	return out, nil
}

// transact submits a write and blocks until it is mined with a successful status.
func (c *Client) transact(ctx context.Context, cn *connection, contract *bind.BoundContract, method string, value *big.Int, args ...interface{}) (*ethtypes.Receipt, error) {
	lgr := c.logger.With(zap.String("method", method))
	if c.cfg.Wallet == nil {
		return nil, types.ErrNoWallet
	}
	opts, err := c.cfg.Wallet.Transactor(c.cfg.ChainID)
	if err != nil {
		return nil, classifyError(err)
	}
	opts.Context = ctx
	opts.Value = value

	start := time.Now()
	tx, err := contract.Transact(opts, method, args...)
	c.cfg.Metrics.ObserveCall(method, start, err)
	if err != nil {
		lgr.Warn("cannot send transaction", zap.Error(err))
		return nil, classifyError(err)
	}
	lgr.Info("transaction sent", zap.String("txHash", tx.Hash().Hex()))

	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.TxTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, cn.backend, tx)
	if err != nil {
		lgr.Warn("cannot wait for receipt", zap.String("txHash", tx.Hash().Hex()), zap.Error(err))
		return nil, &types.TxPendingError{TxHash: tx.Hash().Hex(), Err: err}
	}
	if receipt.Status != ethtypes.ReceiptStatusSuccessful {
		lgr.Warn("transaction reverted", zap.String("txHash", tx.Hash().Hex()))
		return nil, &types.ContractRevertError{Message: fmt.Sprintf("transaction %s reverted", tx.Hash().Hex())}
	}
	return receipt, nil
}

func toTxReceipt(receipt *ethtypes.Receipt) *types.TxReceipt {
	r := &types.TxReceipt{
		TxHash:  receipt.TxHash.Hex(),
		GasUsed: receipt.GasUsed,
	}
	if receipt.BlockNumber != nil {
		r.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return r
}
