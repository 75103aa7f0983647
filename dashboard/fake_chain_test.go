package dashboard

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/types"
)

var (
	testUser   = common.HexToAddress("0x9000000000000000000000000000000000000009")
	testMain   = common.HexToAddress("0x1000000000000000000000000000000000000001")
	testChildA = common.HexToAddress("0x2000000000000000000000000000000000000002")
	testChildB = common.HexToAddress("0x3000000000000000000000000000000000000003")
	testNow    = time.Unix(1700000000, 0)
)

type write struct {
	method string
	branch common.Address
	args   []interface{}
}

// fakeChain serves a fixed round and records every write.
type fakeChain struct {
	mtx sync.Mutex

	address        common.Address
	stage          types.Stage
	round          uint64
	deadline       int64
	main           common.Address
	children       []common.Address
	payable        *big.Int
	branches       map[common.Address]*types.BranchInfo
	balances       map[common.Address]string
	failures       map[string]error
	branchFailures map[common.Address]error
	calls          map[string]int

	writes   []write
	writeErr error
	created  common.Address
	// gate, when set, blocks every write until it is closed.
	gate    chan struct{}
	entered chan struct{}

	// hold, when set, parks the next BranchInfo read of that branch: it signals held and
	// waits for release. It fires once.
	hold    common.Address
	held    chan struct{}
	release chan struct{}
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		address:  testUser,
		stage:    types.StageSuggestion,
		round:    42,
		deadline: testNow.Unix() + 125,
		main:     testMain,
		children: []common.Address{testChildA, testChildB},
		payable:  big.NewInt(42000),
		branches: map[common.Address]*types.BranchInfo{
			testMain:   {Address: testMain.Hex(), Name: "Main", Symbol: "MAIN", Proposal: "Constitution", Vendor: types.ZeroAddress, Investment: "0.0", Status: types.StatusMother, TotalSupply: "10.0"},
			testChildA: {Address: testChildA.Hex(), Name: "Alpha", Symbol: "ALP", Proposal: "", Vendor: types.ZeroAddress, Investment: "0.0", Status: types.StatusChild, TotalSupply: "1.0"},
			testChildB: {Address: testChildB.Hex(), Name: "Beta", Symbol: "BET", Proposal: "Hire auditors", Vendor: types.ZeroAddress, Investment: "0.0", Status: types.StatusLoser, TotalSupply: "0.5"},
		},
		balances: map[common.Address]string{
			testMain:   "3.0",
			testChildA: "0.25",
		},
		failures:       make(map[string]error),
		branchFailures: make(map[common.Address]error),
		calls:          make(map[string]int),
		created:        common.HexToAddress("0x4000000000000000000000000000000000000004"),
	}
}

func (f *fakeChain) record(method string) error {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.calls[method]++
	return f.failures[method]
}

func (f *fakeChain) callCount(method string) int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.calls[method]
}

func (f *fakeChain) setStage(stage types.Stage, round uint64) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.stage = stage
	f.round = round
}

// holdBranch parks the next read of branch until the returned release func is called.
func (f *fakeChain) holdBranch(branch common.Address) (held <-chan struct{}, release func()) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.hold = branch
	f.held = make(chan struct{}, 1)
	f.release = make(chan struct{})
	return f.held, func() { close(f.release) }
}

func (f *fakeChain) writesSent() []write {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]write(nil), f.writes...)
}

func (f *fakeChain) Address() common.Address {
	return f.address
}

func (f *fakeChain) Stage(context.Context) (types.Stage, error) {
	err := f.record("Stage")
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.stage, err
}

func (f *fakeChain) Round(context.Context) (uint64, error) {
	err := f.record("Round")
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return f.round, err
}

func (f *fakeChain) Timer(context.Context) (int64, error) {
	return f.deadline, f.record("Timer")
}

func (f *fakeChain) MainBranch(context.Context) (common.Address, error) {
	return f.main, f.record("MainBranch")
}

func (f *fakeChain) Children(context.Context) ([]common.Address, error) {
	return f.children, f.record("Children")
}

func (f *fakeChain) PayableBalance(context.Context, common.Address) (*big.Int, error) {
	if err := f.record("PayableBalance"); err != nil {
		return nil, err
	}
	return f.payable, nil
}

func (f *fakeChain) BranchInfo(_ context.Context, branch common.Address) (*types.BranchInfo, error) {
	if err := f.record("BranchInfo"); err != nil {
		return nil, err
	}
	f.mtx.Lock()
	if f.hold != (common.Address{}) && f.hold == branch {
		f.hold = common.Address{}
		held, release := f.held, f.release
		f.mtx.Unlock()
		held <- struct{}{}
		<-release
		f.mtx.Lock()
	}
	defer f.mtx.Unlock()
	if err := f.branchFailures[branch]; err != nil {
		return nil, err
	}
	info, ok := f.branches[branch]
	if !ok {
		return nil, fmt.Errorf("no branch %s", branch.Hex())
	}
	cp := *info
	return &cp, nil
}

func (f *fakeChain) TokenBalance(_ context.Context, branch, _ common.Address) (string, error) {
	if err := f.record("TokenBalance"); err != nil {
		return "", err
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	if balance, ok := f.balances[branch]; ok {
		return balance, nil
	}
	return "0.0", nil
}

func (f *fakeChain) send(method string, branch common.Address, args ...interface{}) (*types.TxReceipt, error) {
	if f.entered != nil {
		f.entered <- struct{}{}
	}
	if f.gate != nil {
		<-f.gate
	}
	f.mtx.Lock()
	defer f.mtx.Unlock()
	f.calls[method]++
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.writes = append(f.writes, write{method: method, branch: branch, args: args})
	return &types.TxReceipt{TxHash: fmt.Sprintf("0x%064x", len(f.writes)), BlockNumber: 101, GasUsed: 21000}, nil
}

func (f *fakeChain) SubmitProposal(_ context.Context, proposalType types.ProposalType, title string, hash common.Hash) (*types.ProposalReceipt, error) {
	receipt, err := f.send("SubmitProposal", common.Address{}, proposalType, title, hash)
	if err != nil {
		return nil, err
	}
	return &types.ProposalReceipt{TxReceipt: *receipt, Branch: f.created.Hex()}, nil
}

func (f *fakeChain) Buy(_ context.Context, branch common.Address, amount, value string) (*types.TxReceipt, error) {
	return f.send("Buy", branch, amount, value)
}

func (f *fakeChain) Sell(_ context.Context, branch common.Address, amount string) (*types.TxReceipt, error) {
	return f.send("Sell", branch, amount)
}

func (f *fakeChain) Claim(_ context.Context, branch common.Address) (*types.TxReceipt, error) {
	return f.send("Claim", branch)
}

func (f *fakeChain) Withdraw(_ context.Context, branch common.Address) (*types.TxReceipt, error) {
	return f.send("Withdraw", branch)
}

func (f *fakeChain) Reveal(_ context.Context, branch common.Address, description string, vendor common.Address, investment string) (*types.TxReceipt, error) {
	return f.send("Reveal", branch, description, vendor, investment)
}

func (f *fakeChain) ClaimAll(context.Context) (*types.TxReceipt, error) {
	return f.send("ClaimAll", common.Address{})
}

func (f *fakeChain) ResetBalance(context.Context) (*types.TxReceipt, error) {
	return f.send("ResetBalance", common.Address{})
}

func (f *fakeChain) RefreshBalance(context.Context) (*types.TxReceipt, error) {
	return f.send("RefreshBalance", common.Address{})
}

type recorder struct {
	mtx   sync.Mutex
	items []types.Notification
}

func (r *recorder) Notify(_ context.Context, n types.Notification) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) all() []types.Notification {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	return append([]types.Notification(nil), r.items...)
}

func (r *recorder) last() types.Notification {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	if len(r.items) == 0 {
		return types.Notification{}
	}
	return r.items[len(r.items)-1]
}

type memJournal struct {
	mtx        sync.Mutex
	activities []*types.Activity
	err        error
}

func (j *memJournal) InsertActivity(_ context.Context, activity *types.Activity) error {
	j.mtx.Lock()
	defer j.mtx.Unlock()
	if j.err != nil {
		return j.err
	}
	j.activities = append(j.activities, activity)
	return nil
}

type fakeSubscription struct {
	errCh chan error
	once  sync.Once
}

func (s *fakeSubscription) Unsubscribe() {
	s.once.Do(func() { close(s.errCh) })
}

func (s *fakeSubscription) Err() <-chan error {
	return s.errCh
}

type fakeSubscriber struct {
	heads chan<- *ethtypes.Header
	sub   *fakeSubscription
	ready chan struct{}
	err   error
}

func (s *fakeSubscriber) SubscribeNewHead(_ context.Context, ch chan<- *ethtypes.Header) (ethereum.Subscription, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.heads = ch
	s.sub = &fakeSubscription{errCh: make(chan error, 1)}
	close(s.ready)
	return s.sub, nil
}

var errNode = errors.New("connection refused")

func newTestDashboard(t *testing.T, chain *fakeChain) (*Dashboard, *recorder, *memJournal) {
	notifications := &recorder{}
	journal := &memJournal{}
	d := New(Config{
		Chain:    chain,
		Notifier: notifications,
		Journal:  journal,
		PoolSize: 2,
		Clock:    func() time.Time { return testNow },
		Logger:   zap.NewNop(),
	})
	t.Cleanup(d.Close)
	return d, notifications, journal
}

func newLoadedDashboard(t *testing.T, chain *fakeChain) (*Dashboard, *recorder, *memJournal) {
	d, notifications, journal := newTestDashboard(t, chain)
	if _, err := d.LoadState(context.Background()); err != nil {
		t.Fatalf("load state: %v", err)
	}
	return d, notifications, journal
}
