// Package dashboard aggregates factory and branch state into snapshots and runs user actions against them.
package dashboard

import (
	"context"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/paralead/paralead-backend/metrics"
	"github.com/paralead/paralead-backend/types"
	"github.com/paralead/paralead-backend/utils"
)

const defaultPoolSize = 8

// Chain is the contract access the dashboard needs.
type Chain interface {
	Address() common.Address

	Stage(ctx context.Context) (types.Stage, error)
	Round(ctx context.Context) (uint64, error)
	Timer(ctx context.Context) (int64, error)
	MainBranch(ctx context.Context) (common.Address, error)
	Children(ctx context.Context) ([]common.Address, error)
	PayableBalance(ctx context.Context, user common.Address) (*big.Int, error)
	BranchInfo(ctx context.Context, branch common.Address) (*types.BranchInfo, error)
	TokenBalance(ctx context.Context, branch, holder common.Address) (string, error)

	SubmitProposal(ctx context.Context, proposalType types.ProposalType, title string, hash common.Hash) (*types.ProposalReceipt, error)
	Buy(ctx context.Context, branch common.Address, amount, value string) (*types.TxReceipt, error)
	Sell(ctx context.Context, branch common.Address, amount string) (*types.TxReceipt, error)
	Claim(ctx context.Context, branch common.Address) (*types.TxReceipt, error)
	Withdraw(ctx context.Context, branch common.Address) (*types.TxReceipt, error)
	Reveal(ctx context.Context, branch common.Address, description string, vendor common.Address, investment string) (*types.TxReceipt, error)
	ClaimAll(ctx context.Context) (*types.TxReceipt, error)
	ResetBalance(ctx context.Context) (*types.TxReceipt, error)
	RefreshBalance(ctx context.Context) (*types.TxReceipt, error)
}

// Journal records confirmed writes.
type Journal interface {
	InsertActivity(ctx context.Context, activity *types.Activity) error
}

type Config struct {
	Chain    Chain
	Notifier Notifier
	Journal  Journal
	Metrics  *metrics.Provider
	PoolSize int
	Clock    func() time.Time
	Logger   *zap.Logger
}

type Dashboard struct {
	cfg    Config
	logger *zap.Logger

	// seq numbers loads in start order; only a load newer than applied may replace the snapshot.
	seq  uint64
	busy int32

	mtx       sync.RWMutex
	snapshot  *types.Snapshot
	applied   uint64
	closed    bool
	countdown string
}

func New(cfg Config) *Dashboard {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = NewLogNotifier(cfg.Logger)
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = defaultPoolSize
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Dashboard{
		cfg:    cfg,
		logger: cfg.Logger.With(zap.String("component", "dashboard")),
	}
}

// Snapshot returns the last applied snapshot, or nil before the first successful load.
func (d *Dashboard) Snapshot() *types.Snapshot {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.snapshot
}

// TimeRemaining renders the time left in the current stage from the last fetched deadline.
func (d *Dashboard) TimeRemaining() string {
	snapshot := d.Snapshot()
	if snapshot == nil {
		return ""
	}
	return utils.FormatTimeRemaining(snapshot.Round.TimerDeadline, d.cfg.Clock())
}

// Countdown returns the display text set by every applied load and refreshed each second by Run.
func (d *Dashboard) Countdown() string {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.countdown
}

// FormShape describes the proposal form of the loaded round.
func (d *Dashboard) FormShape() (types.FormShape, error) {
	snapshot := d.Snapshot()
	if snapshot == nil {
		return types.FormShape{}, types.NewValidationError("state", msgStateNotLoaded)
	}
	return types.NewFormShape(snapshot.Round.Round), nil
}

func (d *Dashboard) Busy() bool {
	return atomic.LoadInt32(&d.busy) == 1
}

// Run refreshes the countdown text every second until ctx is done or the dashboard is closed.
// It never reads remote state.
func (d *Dashboard) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	d.tick()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if d.isClosed() {
				return types.ErrClosed
			}
			d.tick()
		}
	}
}

func (d *Dashboard) tick() {
	text := d.TimeRemaining()
	d.mtx.Lock()
	d.countdown = text
	d.mtx.Unlock()
}

// Close tears the dashboard down. Loads still in flight are discarded when they complete.
func (d *Dashboard) Close() {
	d.mtx.Lock()
	d.closed = true
	d.mtx.Unlock()
}

func (d *Dashboard) isClosed() bool {
	d.mtx.RLock()
	defer d.mtx.RUnlock()
	return d.closed
}

func (d *Dashboard) notify(ctx context.Context, n types.Notification) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = d.cfg.Clock()
	}
	d.cfg.Notifier.Notify(ctx, n)
}
